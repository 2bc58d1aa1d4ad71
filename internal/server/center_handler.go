package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/core/model"
)

func (s *Server) handleListAreas(c echo.Context) error {
	areas, err := s.store.GetAreas(c.Request().Context())
	if err != nil {
		s.logger.Error("Failed to list areas", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list areas")
	}
	return c.JSON(http.StatusOK, areas)
}

type areaRequest struct {
	Name string `json:"name" validate:"required"`
	Zone string `json:"zone"`
}

// PUT /api/areas/:code
func (s *Server) handleUpsertArea(c echo.Context) error {
	var req areaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := s.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	area := &model.Area{
		Code: strings.ToUpper(strings.TrimSpace(c.Param("code"))),
		Name: strings.TrimSpace(req.Name),
		Zone: strings.TrimSpace(req.Zone),
	}
	if len(area.Code) != 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "area code must be two letters")
	}

	if err := s.store.UpsertArea(c.Request().Context(), area); err != nil {
		s.logger.Error("Failed to upsert area", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save area")
	}
	return c.JSON(http.StatusOK, area)
}

// GET /api/centers — scoped to the caller's area
func (s *Server) handleListCenters(c echo.Context) error {
	user := currentUser(c)
	centers, err := s.store.GetCenters(c.Request().Context(), user.AreaCode)
	if err != nil {
		s.logger.Error("Failed to list centers", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list centers")
	}
	return c.JSON(http.StatusOK, centers)
}

type centerRequest struct {
	Name     string `json:"name" validate:"required"`
	AreaCode string `json:"areaCode" validate:"required,len=2"`
}

// PUT /api/centers/:code
func (s *Server) handleUpsertCenter(c echo.Context) error {
	var req centerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := s.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	center := &model.Center{
		Code:     strings.TrimSpace(c.Param("code")),
		Name:     strings.TrimSpace(req.Name),
		AreaCode: strings.ToUpper(strings.TrimSpace(req.AreaCode)),
	}
	if center.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "center code is required")
	}

	if err := s.store.UpsertCenter(c.Request().Context(), center); err != nil {
		s.logger.Error("Failed to upsert center", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save center")
	}
	return c.JSON(http.StatusOK, center)
}
