package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"scribefinder/internal/auth"
	"scribefinder/internal/model"
	"scribefinder/internal/service"
)

// AccountHandler handles the profile endpoints.
type AccountHandler struct {
	accountService service.AccountService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ProfileResponse represents the logged-in user's profile.
type ProfileResponse struct {
	User     *model.User `json:"user"`
	ImageURL string      `json:"image_url"`
}

// GetAccount godoc
// @Summary Get the current user's profile
// @Tags account
// @Produce json
// @Security SessionCookie
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /account [get]
func (h *AccountHandler) GetAccount(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.accountService.CurrentUser(ctx, auth.FromContext(c))
	if err != nil {
		return fail(err)
	}
	return h.profile(c, user)
}

// UpdateAccount godoc
// @Summary Update the current user's profile
// @Tags account
// @Accept multipart/form-data
// @Produce json
// @Security SessionCookie
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param picture formData file false "Profile picture (jpg, jpeg, png, gif)"
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /account [post]
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	var req service.ProfileInput
	if err := bind(c, &req); err != nil {
		return fail(err)
	}

	var picture *service.ProfileImage
	fh, err := c.FormFile("picture")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			return fail(err)
		}
		defer f.Close()
		picture = &service.ProfileImage{Filename: fh.Filename, Content: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return fail(err)
	}

	user, err := h.accountService.UpdateProfile(c.Request().Context(), auth.FromContext(c), req, picture)
	if err != nil {
		return fail(err)
	}
	return h.profile(c, user)
}

func (h *AccountHandler) profile(c echo.Context, user *model.User) error {
	url, err := h.accountService.ImageURL(c.Request().Context(), user)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{User: user, ImageURL: url})
}
