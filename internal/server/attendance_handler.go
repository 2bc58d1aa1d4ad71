package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/core/services"
	"github.com/sewasangat/attendance/pkg/db"
)

type attendanceRequest struct {
	EventID        string   `json:"eventId" validate:"required"`
	EventDate      string   `json:"eventDate" validate:"omitempty,datetime=2006-01-02"`
	CenterCode     string   `json:"centerCode" validate:"required"`
	SewadarIDs     []string `json:"sewadarIds" validate:"required,min=1"`
	NominalRollURL string   `json:"nominalRollUrl"`
}

func (s *Server) handleSubmitAttendance(c echo.Context) error {
	var req attendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := s.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := services.SubmitAttendance(c.Request().Context(), s.store, s.logger, currentUser(c), services.SubmitAttendanceInput{
		EventID:        req.EventID,
		EventDate:      req.EventDate,
		CenterCode:     req.CenterCode,
		SewadarIDs:     req.SewadarIDs,
		NominalRollURL: req.NominalRollURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrCenterScope) {
			return echo.NewHTTPError(http.StatusForbidden, "outside your center")
		}
		s.logger.Error("Attendance submission failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

// GET /api/attendance?event=&center=&from=&to=
func (s *Server) handleListAttendance(c echo.Context) error {
	user := currentUser(c)

	filter := db.AttendanceFilter{
		EventID:    c.QueryParam("event"),
		CenterCode: c.QueryParam("center"),
		FromDate:   c.QueryParam("from"),
		ToDate:     c.QueryParam("to"),
	}
	if user.Role == model.RoleCoordinator {
		filter.CenterCode = user.CenterCode
	}

	records, err := s.store.GetAttendance(c.Request().Context(), filter)
	if err != nil {
		s.logger.Error("Failed to list attendance", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list attendance")
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) handleDashboard(c echo.Context) error {
	user := currentUser(c)
	stats, err := services.GetDashboardStats(c.Request().Context(), s.store, s.logger, user.AreaCode)
	if err != nil {
		s.logger.Error("Failed to assemble dashboard", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load dashboard")
	}
	return c.JSON(http.StatusOK, stats)
}
