package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"scribefinder/internal/auth"
	"scribefinder/internal/model"
	"scribefinder/internal/service"
)

// AuthHandler handles registration and session endpoints.
type AuthHandler struct {
	accountService service.AccountService
	secureCookies  bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accountService service.AccountService, secureCookies bool) *AuthHandler {
	return &AuthHandler{accountService: accountService, secureCookies: secureCookies}
}

// RegisterResponse represents a successful registration.
type RegisterResponse struct {
	Message  string      `json:"message"`
	User     *model.User `json:"user"`
	Redirect string      `json:"redirect"`
}

// LoginResponse represents an established session.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Remember  bool        `json:"remember"`
	User      *model.User `json:"user"`
	Redirect  string      `json:"redirect"`
}

// RegisterForm godoc
// @Summary Describe the registration form
// @Tags auth
// @Produce json
// @Success 200 {object} FormResponse
// @Success 303 "Already logged in"
// @Router / [get]
// @Router /register [get]
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, FormResponse{
		Form:   "register",
		Action: "/register",
		Method: http.MethodPost,
		Fields: []string{"username", "email", "password", "confirm_password", "blind"},
	})
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account. The caller is not logged in and should continue at /login.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body service.RegisterInput true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := bind(c, &req); err != nil {
		return fail(err)
	}

	user, err := h.accountService.Register(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message:  "Your account has been created! You are now able to log in",
		User:     user,
		Redirect: "/login",
	})
}

// LoginForm godoc
// @Summary Describe the login form
// @Tags auth
// @Produce json
// @Param next query string false "Local path to continue at after login"
// @Success 200 {object} FormResponse
// @Success 303 "Already logged in"
// @Router /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, FormResponse{
		Form:   "login",
		Action: "/login",
		Method: http.MethodPost,
		Fields: []string{"email", "password", "remember"},
		Values: map[string]string{"next": safeNext(c.QueryParam("next"))},
	})
}

// Login godoc
// @Summary Log in
// @Description Sets the session cookie and also returns the token for Bearer use.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param next query string false "Local path to continue at after login"
// @Param request body service.LoginInput true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := bind(c, &req); err != nil {
		return fail(err)
	}

	result, err := h.accountService.Login(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}

	c.SetCookie(auth.NewSessionCookie(result.Token, result.Session, h.secureCookies))
	return c.JSON(http.StatusOK, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
		Remember:  result.Session.Remember,
		User:      result.User,
		Redirect:  safeNext(c.QueryParam("next")),
	})
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Produce json
// @Security SessionCookie
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.accountService.Logout(c.Request().Context(), auth.FromContext(c)); err != nil {
		return fail(err)
	}

	c.SetCookie(auth.ExpiredSessionCookie(h.secureCookies))
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out", Redirect: "/home"})
}
