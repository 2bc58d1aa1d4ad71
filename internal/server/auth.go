package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

const sessionCookieName = "sewa_session"

// sessionClaims is the JWT payload carried in the session cookie
type sessionClaims struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	AreaCode   string `json:"areaCode"`
	CenterCode string `json:"centerCode,omitempty"`
	jwt.RegisteredClaims
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// handleLogin checks credentials and issues an HttpOnly session cookie.
// The token is also returned in the body for non-browser clients.
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := s.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	user, err := s.store.FindUserByUsername(c.Request().Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		s.logger.Error("Login lookup failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	ttl := time.Duration(s.cfg.SessionTTLHours) * time.Hour
	token, err := s.signSession(user, ttl)
	if err != nil {
		s.logger.Error("Token signing failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"username":   user.Username,
			"role":       user.Role,
			"areaCode":   user.AreaCode,
			"centerCode": user.CenterCode,
		},
	})
}

func (s *Server) handleLogout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleMe(c echo.Context) error {
	user := currentUser(c)
	return c.JSON(http.StatusOK, map[string]any{
		"username":   user.Username,
		"role":       user.Role,
		"areaCode":   user.AreaCode,
		"centerCode": user.CenterCode,
	})
}

func (s *Server) signSession(user *model.User, ttl time.Duration) (string, error) {
	claims := sessionClaims{
		Username:   user.Username,
		Role:       string(user.Role),
		AreaCode:   user.AreaCode,
		CenterCode: user.CenterCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

// requireAuth verifies the session token (cookie first, then bearer header)
// and attaches the authenticated user to the request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := tokenFromRequest(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
		}

		token, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(s.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}
		claims, ok := token.Claims.(*sessionClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}

		c.Set("user", &model.User{
			ID:         claims.Subject,
			Username:   claims.Username,
			Role:       model.Role(claims.Role),
			AreaCode:   claims.AreaCode,
			CenterCode: claims.CenterCode,
		})
		return next(c)
	}
}

// requireRole allows only the listed roles past
func (s *Server) requireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := currentUser(c)
			for _, r := range roles {
				if user.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	h := c.Request().Header.Get("Authorization")
	if parts := strings.SplitN(h, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// currentUser returns the authenticated user attached by requireAuth
func currentUser(c echo.Context) *model.User {
	user, _ := c.Get("user").(*model.User)
	return user
}
