package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scribefinder/internal/auth"
	"scribefinder/internal/errors"
	"scribefinder/internal/model"
	"scribefinder/internal/service"
)

var requestFields = []string{"exam_date", "phone_number", "address"}

// RequestHandler handles scribe request endpoints.
type RequestHandler struct {
	requestService service.RequestService
	matchService   service.MatchService
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(requestService service.RequestService, matchService service.MatchService) *RequestHandler {
	return &RequestHandler{requestService: requestService, matchService: matchService}
}

// UserRequestsResponse is one page of a single user's requests.
type UserRequestsResponse struct {
	User     *model.User `json:"user"`
	Requests RequestPage `json:"requests"`
}

// NewForm godoc
// @Summary Describe the new request form
// @Tags requests
// @Produce json
// @Security SessionCookie
// @Success 200 {object} FormResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /post/new [get]
func (h *RequestHandler) NewForm(c echo.Context) error {
	return c.JSON(http.StatusOK, FormResponse{
		Form:   "new_request",
		Action: "/post/new",
		Method: http.MethodPost,
		Fields: requestFields,
	})
}

// Create godoc
// @Summary Create a scribe request
// @Tags requests
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security SessionCookie
// @Param request body service.RequestInput true "Request data"
// @Success 201 {object} model.ScribeRequest
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /post/new [post]
func (h *RequestHandler) Create(c echo.Context) error {
	var req service.RequestInput
	if err := bind(c, &req); err != nil {
		return fail(err)
	}

	created, err := h.requestService.Create(c.Request().Context(), auth.FromContext(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Get godoc
// @Summary Get a scribe request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} model.ScribeRequest
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /post/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return fail(err)
	}

	req, err := h.requestService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, req)
}

// EditForm godoc
// @Summary Describe the update form, prefilled with current values
// @Tags requests
// @Produce json
// @Security SessionCookie
// @Param id path int true "Request ID"
// @Success 200 {object} FormResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/{id}/update [get]
func (h *RequestHandler) EditForm(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return fail(err)
	}

	req, err := h.requestService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	if sess := auth.FromContext(c); sess == nil || !req.OwnedBy(sess.UserID) {
		return fail(errors.ErrForbidden)
	}

	return c.JSON(http.StatusOK, FormResponse{
		Form:   "update_request",
		Action: c.Request().URL.Path,
		Method: http.MethodPost,
		Fields: requestFields,
		Values: map[string]string{
			"exam_date":    req.ExamDate,
			"phone_number": req.PhoneNumber,
			"address":      req.Address,
		},
	})
}

// Update godoc
// @Summary Update a scribe request
// @Tags requests
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security SessionCookie
// @Param id path int true "Request ID"
// @Param request body service.RequestInput true "Request data"
// @Success 200 {object} model.ScribeRequest
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /post/{id}/update [post]
func (h *RequestHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return fail(err)
	}
	var req service.RequestInput
	if err := bind(c, &req); err != nil {
		return fail(err)
	}

	updated, err := h.requestService.Update(c.Request().Context(), auth.FromContext(c), id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete a scribe request
// @Tags requests
// @Produce json
// @Security SessionCookie
// @Param id path int true "Request ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/{id}/delete [post]
func (h *RequestHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return fail(err)
	}

	if err := h.requestService.Delete(c.Request().Context(), auth.FromContext(c), id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Your post has been deleted!", Redirect: "/home"})
}

// Accept godoc
// @Summary Accept a scribe request as a volunteer
// @Description Marks the request accepted and emails both parties. A failed email leaves the request open.
// @Tags requests
// @Produce json
// @Security SessionCookie
// @Param id path int true "Request ID"
// @Success 200 {object} model.ScribeRequest
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /post/{id}/accept [post]
func (h *RequestHandler) Accept(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return fail(err)
	}

	accepted, err := h.matchService.AcceptPost(c.Request().Context(), auth.FromContext(c), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, accepted)
}

// ListByUser godoc
// @Summary List one user's scribe requests, newest first
// @Tags requests
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} UserRequestsResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{username} [get]
func (h *RequestHandler) ListByUser(c echo.Context) error {
	page, user, err := h.requestService.ListByUser(c.Request().Context(), c.Param("username"), pageParam(c))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, UserRequestsResponse{User: user, Requests: *page})
}
