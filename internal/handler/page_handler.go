package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scribefinder/internal/service"
)

// PageHandler serves the listing and static pages.
type PageHandler struct {
	requestService service.RequestService
}

// NewPageHandler creates a new page handler.
func NewPageHandler(requestService service.RequestService) *PageHandler {
	return &PageHandler{requestService: requestService}
}

// AboutResponse is the static about page.
type AboutResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Home godoc
// @Summary List all scribe requests, newest first
// @Tags pages
// @Produce json
// @Security SessionCookie
// @Param page query int false "Page number" default(1)
// @Success 200 {object} handler.RequestPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /home [get]
func (h *PageHandler) Home(c echo.Context) error {
	page, err := h.requestService.List(c.Request().Context(), pageParam(c))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, page)
}

// About godoc
// @Summary About page
// @Tags pages
// @Produce json
// @Success 200 {object} AboutResponse
// @Router /about [get]
func (h *PageHandler) About(c echo.Context) error {
	return c.JSON(http.StatusOK, AboutResponse{
		Title:       "About",
		Description: "Scribe Finder connects blind students with volunteer scribes for their exams.",
	})
}
