package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/sewasangat/attendance/internal/config"
	"github.com/sewasangat/attendance/pkg/core/importer"
	"github.com/sewasangat/attendance/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	Jobs     importer.JobStore
	Logger   *zap.Logger
	Ctx      context.Context
}
