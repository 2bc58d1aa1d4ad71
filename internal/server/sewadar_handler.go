package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

type sewadarRequest struct {
	BadgeNumber      string `json:"badgeNumber" validate:"required"`
	Name             string `json:"name" validate:"required"`
	GuardianName     string `json:"guardianName"`
	DOB              string `json:"dob"`
	Gender           string `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	BadgeStatus      string `json:"badgeStatus"`
	Zone             string `json:"zone"`
	AreaName         string `json:"areaName"`
	CenterName       string `json:"centerName"`
	Department       string `json:"department"`
	ContactNumber    string `json:"contactNumber"`
	EmergencyContact string `json:"emergencyContact"`
}

// GET /api/sewadars?center=&status=&q=
// Coordinators are pinned to their own center regardless of the filter.
func (s *Server) handleListSewadars(c echo.Context) error {
	user := currentUser(c)

	filter := db.SewadarFilter{
		AreaCode:    user.AreaCode,
		CenterCode:  c.QueryParam("center"),
		BadgeStatus: c.QueryParam("status"),
		Search:      c.QueryParam("q"),
	}
	if user.Role == model.RoleCoordinator {
		filter.CenterCode = user.CenterCode
	}

	sewadars, err := s.store.ListSewadars(c.Request().Context(), filter)
	if err != nil {
		s.logger.Error("Failed to list sewadars", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list sewadars")
	}
	return c.JSON(http.StatusOK, sewadars)
}

func (s *Server) handleGetSewadar(c echo.Context) error {
	sewadar, err := s.store.FindSewadarByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "sewadar not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	if err := s.checkCenterScope(c, sewadar.CenterCode); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sewadar)
}

// POST /api/sewadars — manual add. Unlike imports, manual entry demands a
// well-formed badge number and an already-registered center.
func (s *Server) handleCreateSewadar(c echo.Context) error {
	sewadar, httpErr := s.bindSewadar(c)
	if httpErr != nil {
		return httpErr
	}
	if err := s.checkCenterScope(c, sewadar.CenterCode); err != nil {
		return err
	}

	if _, err := s.store.FindCenterByCode(c.Request().Context(), sewadar.CenterCode); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "center "+sewadar.CenterCode+" is not registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "center lookup failed")
	}

	sewadar.ID = uuid.NewString()
	if err := s.store.InsertSewadar(c.Request().Context(), sewadar); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "badge number already exists")
		}
		s.logger.Error("Failed to create sewadar", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create sewadar")
	}
	return c.JSON(http.StatusCreated, sewadar)
}

func (s *Server) handleUpdateSewadar(c echo.Context) error {
	id := c.Param("id")

	existing, err := s.store.FindSewadarByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "sewadar not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	if err := s.checkCenterScope(c, existing.CenterCode); err != nil {
		return err
	}

	sewadar, httpErr := s.bindSewadar(c)
	if httpErr != nil {
		return httpErr
	}
	if err := s.checkCenterScope(c, sewadar.CenterCode); err != nil {
		return err
	}

	if err := s.store.UpdateSewadarByID(c.Request().Context(), id, sewadar); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "badge number already exists")
		}
		s.logger.Error("Failed to update sewadar", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update sewadar")
	}
	sewadar.ID = id
	return c.JSON(http.StatusOK, sewadar)
}

// DELETE /api/sewadars/:id — refused while attendance records reference the
// sewadar, so history stays intact.
func (s *Server) handleDeleteSewadar(c echo.Context) error {
	id := c.Param("id")

	refs, err := s.store.CountSewadarReferences(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "reference check failed")
	}
	if refs > 0 {
		return echo.NewHTTPError(http.StatusConflict, "sewadar appears on attendance records")
	}

	if err := s.store.DeleteSewadar(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "sewadar not found")
		case errors.Is(err, db.ErrReferenced):
			return echo.NewHTTPError(http.StatusConflict, "sewadar appears on attendance records")
		}
		s.logger.Error("Failed to delete sewadar", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete sewadar")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) bindSewadar(c echo.Context) (*model.Sewadar, error) {
	var req sewadarRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := s.validate.Struct(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	badge := strings.ToUpper(strings.TrimSpace(req.BadgeNumber))
	if !model.IsWellFormedBadgeNumber(badge) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "badge number must match the issued format")
	}

	user := currentUser(c)
	return &model.Sewadar{
		BadgeNumber:      badge,
		Name:             strings.TrimSpace(req.Name),
		GuardianName:     strings.TrimSpace(req.GuardianName),
		DOB:              strings.TrimSpace(req.DOB),
		Gender:           model.Gender(req.Gender),
		BadgeStatus:      model.NormalizeBadgeStatus(req.BadgeStatus),
		Zone:             strings.TrimSpace(req.Zone),
		AreaName:         strings.TrimSpace(req.AreaName),
		AreaCode:         user.AreaCode,
		CenterName:       strings.TrimSpace(req.CenterName),
		CenterCode:       model.CenterCodeFromBadge(badge),
		Department:       strings.ToUpper(strings.TrimSpace(req.Department)),
		ContactNumber:    strings.TrimSpace(req.ContactNumber),
		EmergencyContact: strings.TrimSpace(req.EmergencyContact),
	}, nil
}

// checkCenterScope rejects coordinator access to records outside their center
func (s *Server) checkCenterScope(c echo.Context, centerCode string) error {
	user := currentUser(c)
	if user.Role == model.RoleCoordinator && centerCode != user.CenterCode {
		return echo.NewHTTPError(http.StatusForbidden, "outside your center")
	}
	return nil
}
