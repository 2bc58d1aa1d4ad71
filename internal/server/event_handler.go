package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/core/services"
)

func (s *Server) handleListEvents(c echo.Context) error {
	user := currentUser(c)
	events, err := s.store.GetEvents(c.Request().Context(), user.AreaCode)
	if err != nil {
		s.logger.Error("Failed to list events", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list events")
	}
	return c.JSON(http.StatusOK, events)
}

// GET /api/events/occurrences?from=YYYY-MM-DD&to=YYYY-MM-DD
// Expands recurring events into concrete dates within the window
// (default: the next 30 days).
func (s *Server) handleListEventOccurrences(c echo.Context) error {
	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 30)

	var err error
	if v := c.QueryParam("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
	}

	user := currentUser(c)
	occurrences, err := services.ListEventOccurrences(c.Request().Context(), s.store, user.AreaCode, from, to)
	if err != nil {
		s.logger.Error("Failed to expand event occurrences", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list occurrences")
	}
	return c.JSON(http.StatusOK, occurrences)
}

type eventRequest struct {
	Name       string `json:"name" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	CenterCode string `json:"centerCode"`
	RRule      string `json:"rrule"`
}

func (s *Server) handleCreateEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := s.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.RRule != "" {
		if _, err := rrule.StrToRRule(req.RRule); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid recurrence rule")
		}
	}

	user := currentUser(c)
	event := &model.Event{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Date:       req.Date,
		CenterCode: strings.TrimSpace(req.CenterCode),
		AreaCode:   user.AreaCode,
		RRule:      req.RRule,
	}

	if err := s.store.InsertEvent(c.Request().Context(), event); err != nil {
		s.logger.Error("Failed to create event", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create event")
	}
	return c.JSON(http.StatusCreated, event)
}
