package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"scribefinder/internal/errors"
	"scribefinder/internal/model"
)

// MessageResponse acknowledges an action and names where a browser would go next.
type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// FormResponse describes a form for the GET side of a form route.
type FormResponse struct {
	Form   string            `json:"form"`
	Action string            `json:"action"`
	Method string            `json:"method"`
	Fields []string          `json:"fields"`
	Values map[string]string `json:"values,omitempty"`
}

// RequestPage is one page of scribe requests.
type RequestPage = model.Page[model.ScribeRequest]

// fail converts a service error into the HTTP error echo renders.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// pageParam reads ?page=, treating anything unparsable as the first page.
func pageParam(c echo.Context) int {
	page := 1
	if err := echo.QueryParamsBinder(c).Int("page", &page).BindError(); err != nil {
		return 1
	}
	return page
}

// idParam reads the :id path segment. Non-numeric ids do not name any request.
func idParam(c echo.Context) (uint, error) {
	var id uint
	if err := echo.PathParamsBinder(c).MustUint("id", &id).BindError(); err != nil {
		return 0, errors.ErrNotFound
	}
	return id, nil
}

// bind decodes the body into v and runs the registered validator.
func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return errors.NewValidationError(errors.FieldError{Rule: "decode", Message: "invalid request body"})
	}
	return c.Validate(v)
}

// safeNext accepts only local paths as post-login redirect targets.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/home"
}
