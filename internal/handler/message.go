package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/middleware"
)

// MessageHandler serves private messages on both the member dashboard and
// the admin surface.
type MessageHandler struct {
	messages Messages
}

func NewMessageHandler(messages Messages) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type messageReq struct {
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	RecipientID uint64 `json:"recipientId"`
}

func (h *MessageHandler) Inbox(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	inbox, err := h.messages.Inbox(ctx, middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inbox)
}

func (h *MessageHandler) SendToAdmin(c echo.Context) error {
	var req messageReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.messages.SendToAdmin(ctx, middleware.CurrentUser(c), req.Subject, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Message sent to admin successfully", "messageId": m.ID})
}

func (h *MessageHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	msgs, err := h.messages.ListAll(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

func (h *MessageHandler) Send(c echo.Context) error {
	var req messageReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.messages.Send(ctx, middleware.CurrentUser(c), req.RecipientID, req.Subject, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Message sent successfully", "messageId": m.ID})
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	id, err := idParam(c, "id", "Message")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.messages.MarkRead(ctx, middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message marked as read"})
}
