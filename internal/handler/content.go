package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/logger"
	"github.com/iliyamo/buildrr-backend/internal/service"
)

// ContentHandler serves site content blocks. Every admin write purges the
// public response cache.
type ContentHandler struct {
	content Content
	cache   CachePurger
	log     logger.Logger
}

func NewContentHandler(content Content, cache CachePurger, log logger.Logger) *ContentHandler {
	return &ContentHandler{content: content, cache: cache, log: log}
}

func (h *ContentHandler) purge(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Purge(ctx); err != nil {
		h.log.WithField("error", err.Error()).Warn("content cache purge failed")
	}
}

// Published lists the active blocks, optionally narrowed by ?page=.
func (h *ContentHandler) Published(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.content.Published(ctx, c.QueryParam("page"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"content": items})
}

func (h *ContentHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.content.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"content": items})
}

type contentReq struct {
	PageName    *string `json:"pageName"`
	SectionName *string `json:"sectionName"`
	ContentType *string `json:"contentType"`
	Content     *string `json:"content"`
	IsActive    *bool   `json:"isActive"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *ContentHandler) Create(c echo.Context) error {
	var req contentReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.content.Create(ctx, service.ContentInput{
		PageName:    deref(req.PageName),
		SectionName: deref(req.SectionName),
		ContentType: deref(req.ContentType),
		Content:     deref(req.Content),
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	h.purge(ctx)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Content created successfully", "content": item})
}

func (h *ContentHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id", "Content")
	if err != nil {
		return err
	}
	var req contentReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.content.Update(ctx, id, service.ContentUpdate(req))
	if err != nil {
		return err
	}
	h.purge(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "Content updated successfully", "content": item})
}

func (h *ContentHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id", "Content")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.content.Delete(ctx, id); err != nil {
		return err
	}
	h.purge(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "Content deleted successfully"})
}
