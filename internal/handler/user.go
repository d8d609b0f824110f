package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/middleware"
	"github.com/iliyamo/buildrr-backend/internal/service"
)

// UserHandler is admin account management.
type UserHandler struct {
	users Users
}

func NewUserHandler(users Users) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id", "User")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.users.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

type adminUserReq struct {
	registerReq
	Role string `json:"role"`
}

func (h *UserHandler) Create(c echo.Context) error {
	var req adminUserReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.users.CreateUser(ctx, service.AdminUserInput{
		RegisterInput: service.RegisterInput(req.registerReq),
		Role:          req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "User created successfully", "user": u})
}

type adminUserPatchReq struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Company   *string `json:"company"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"isActive"`
	Password  *string `json:"password"`
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id", "User")
	if err != nil {
		return err
	}
	var req adminUserPatchReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.users.UpdateUser(ctx, id, service.AdminUserUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User updated successfully", "user": u})
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id", "User")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.users.DeleteUser(ctx, middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
