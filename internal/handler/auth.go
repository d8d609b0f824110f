package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/middleware"
	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/service"
)

// AuthHandler serves registration, login and the caller's own account.
type AuthHandler struct {
	accounts Accounts
}

func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type registerReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResp struct {
	Message   string      `json:"message"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.accounts.Register(ctx, service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Company:   req.Company,
		Phone:     req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResp{
		Message:   "User created successfully",
		Token:     s.Token.Token,
		ExpiresAt: s.Token.Exp,
		User:      s.User,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResp{
		Message:   "Login successful",
		Token:     s.Token.Token,
		ExpiresAt: s.Token.Exp,
		User:      s.User,
	})
}

// Profile returns the account resolved by the bearer guard.
func (h *AuthHandler) Profile(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user": middleware.CurrentUser(c)})
}

type profileReq struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Company         *string `json:"company"`
	Phone           *string `json:"phone"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req profileReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.accounts.UpdateProfile(ctx, middleware.CurrentUser(c), service.ProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Company:         req.Company,
		Phone:           req.Phone,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully", "user": u})
}

// DeleteAccount removes the caller's account. The body carries the
// current password.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.accounts.DeleteAccount(ctx, middleware.CurrentUser(c), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deleted successfully"})
}
