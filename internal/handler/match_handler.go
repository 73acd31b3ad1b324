package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"scribefinder/internal/service"
)

// MatchHandler handles the email-addressed accept flow.
type MatchHandler struct {
	matchService service.MatchService
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(matchService service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// AcceptResponse reports who was notified.
type AcceptResponse struct {
	Message string         `json:"message"`
	Match   *service.Match `json:"match"`
}

// AcceptRequest godoc
// @Summary Notify a requester that a volunteer accepted
// @Description user_email is the volunteer, student_email the requester. Nothing is sent unless both exist.
// @Tags match
// @Produce json
// @Param user_email path string true "Volunteer email"
// @Param student_email path string true "Requester email"
// @Success 200 {object} AcceptResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /accept_request/{user_email}/{student_email} [post]
func (h *MatchHandler) AcceptRequest(c echo.Context) error {
	volunteer := c.Param("user_email")
	requester := c.Param("student_email")

	match, err := h.matchService.AcceptRequest(c.Request().Context(), requester, volunteer)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, AcceptResponse{
		Message: "An email has been sent to " + requester,
		Match:   match,
	})
}
