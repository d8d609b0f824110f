package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/middleware"
	"github.com/iliyamo/buildrr-backend/internal/service"
)

// QuoteHandler serves the quote lifecycle for guests, members and admins.
type QuoteHandler struct {
	quotes Quotes
}

func NewQuoteHandler(quotes Quotes) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

type quoteReq struct {
	ProjectType    string      `json:"projectType"`
	Features       []string    `json:"features"`
	Budget         looseString `json:"budget"`
	Timeline       string      `json:"timeline"`
	Company        string      `json:"company"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Description    string      `json:"description"`
	EstimatedPrice looseFloat  `json:"estimatedPrice"`
	WithAccount    bool        `json:"withAccount"`
}

// Submit accepts a quote request. The route runs behind OptionalBearer;
// the request is linked to the caller only when withAccount is set and
// the token resolved.
func (h *QuoteHandler) Submit(c echo.Context) error {
	var req quoteReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	requester := middleware.CurrentUser(c)
	if !req.WithAccount {
		requester = nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	q, sent, err := h.quotes.Submit(ctx, service.QuoteInput{
		ProjectType:    req.ProjectType,
		Features:       req.Features,
		Budget:         string(req.Budget),
		Timeline:       req.Timeline,
		Company:        req.Company,
		Email:          req.Email,
		Phone:          req.Phone,
		Description:    req.Description,
		EstimatedPrice: float64(req.EstimatedPrice),
	}, requester)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Quote submitted successfully",
		"quoteId":    q.ID,
		"emailSent":  sent,
		"hasAccount": q.HasAccount,
	})
}

// List is the admin view of every quote.
func (h *QuoteHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	quotes, err := h.quotes.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"quotes": quotes})
}

// Mine lists the caller's quotes, guest requests from the same email
// included.
func (h *QuoteHandler) Mine(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	quotes, err := h.quotes.ListForUser(ctx, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"quotes": quotes})
}

// Respond records the requester's verdict on an admin proposal.
func (h *QuoteHandler) Respond(c echo.Context) error {
	id, err := idParam(c, "id", "Quote")
	if err != nil {
		return err
	}
	var req struct {
		Response string `json:"response"`
		Message  string `json:"message"`
	}
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	q, sent, err := h.quotes.ClientRespond(ctx, middleware.CurrentUser(c), id, req.Response, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Quote " + string(q.Status) + " successfully",
		"quote":     q,
		"emailSent": sent,
	})
}

// AdminRespond sends the admin proposal and moves the quote to sent.
func (h *QuoteHandler) AdminRespond(c echo.Context) error {
	id, err := idParam(c, "id", "Quote")
	if err != nil {
		return err
	}
	var req struct {
		Response string     `json:"response"`
		Price    looseFloat `json:"price"`
		Timeline string     `json:"timeline"`
	}
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	q, sent, err := h.quotes.AdminRespond(ctx, id, service.AdminResponseInput{
		Response: req.Response,
		Price:    float64(req.Price),
		Timeline: req.Timeline,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Response sent successfully", "quote": q, "emailSent": sent})
}

func (h *QuoteHandler) SetStatus(c echo.Context) error {
	id, err := idParam(c, "id", "Quote")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	q, err := h.quotes.SetStatus(ctx, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Quote updated successfully", "quote": q})
}

func (h *QuoteHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id", "Quote")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.quotes.Delete(ctx, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Quote deleted successfully"})
}
