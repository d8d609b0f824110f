package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/middleware"
	"github.com/iliyamo/buildrr-backend/internal/service"
)

type OrderHandler struct {
	orders Orders
}

func NewOrderHandler(orders Orders) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Mine lists the caller's orders, newest first.
func (h *OrderHandler) Mine(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	id := middleware.CurrentUser(c).ID
	orders, err := h.orders.List(ctx, &id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	orders, err := h.orders.List(ctx, nil)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

type orderReq struct {
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Price       looseFloat `json:"price"`
	Description string     `json:"description"`
	Progress    int        `json:"progress"`
	UserID      uint64     `json:"userId"`
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req orderReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	o, err := h.orders.Create(ctx, service.OrderInput{
		Title:       req.Title,
		Type:        req.Type,
		Status:      req.Status,
		Price:       float64(req.Price),
		Description: req.Description,
		Progress:    req.Progress,
		UserID:      req.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Order created successfully", "order": o})
}

type orderPatchReq struct {
	Title       *string     `json:"title"`
	Type        *string     `json:"type"`
	Status      *string     `json:"status"`
	Price       *looseFloat `json:"price"`
	Description *string     `json:"description"`
	Progress    *int        `json:"progress"`
}

func (h *OrderHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id", "Order")
	if err != nil {
		return err
	}
	var req orderPatchReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	in := service.OrderUpdate{
		Title:       req.Title,
		Type:        req.Type,
		Status:      req.Status,
		Description: req.Description,
		Progress:    req.Progress,
	}
	if req.Price != nil {
		p := float64(*req.Price)
		in.Price = &p
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	o, err := h.orders.Update(ctx, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Order updated successfully", "order": o})
}

func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id", "Order")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.orders.Delete(ctx, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Order deleted successfully"})
}
