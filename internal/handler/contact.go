package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/service"
)

type ContactHandler struct {
	contacts Contacts
}

func NewContactHandler(contacts Contacts) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ct, sent, err := h.contacts.Submit(ctx, service.ContactInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Contact message submitted successfully",
		"contactId": ct.ID,
		"emailSent": sent,
	})
}

func (h *ContactHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	contacts, err := h.contacts.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"contacts": contacts})
}

func (h *ContactHandler) SetStatus(c echo.Context) error {
	id, err := idParam(c, "id", "Contact")
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

	ct, err := h.contacts.SetStatus(ctx, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Contact updated successfully", "contact": ct})
}

func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id", "Contact")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.contacts.Delete(ctx, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Contact deleted successfully"})
}
