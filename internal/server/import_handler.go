package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/core/importer"
	"github.com/sewasangat/attendance/pkg/core/services"
)

// POST /api/imports — accepts a CSV/XLSX upload and starts the
// reconciliation pipeline in the background. Returns the job ID the client
// polls for progress. The pipeline runs to completion even if the client
// disconnects.
func (s *Server) handleStartImport(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file upload")
	}

	format, err := services.FormatForFilename(fileHeader.Filename)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not open upload")
	}
	defer src.Close()

	// Buffer the upload so the background run does not outlive the request body
	data, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read upload")
	}

	jobID := uuid.NewString()
	// Register the job before returning so an immediate progress poll
	// never races the background start.
	s.jobs.Set(importer.NewJob(jobID, 0))

	s.logger.Info("Import started",
		zap.String("jobId", jobID),
		zap.String("filename", fileHeader.Filename),
		zap.String("by", currentUser(c).Username))

	go func() {
		_, err := services.ImportSewadars(context.Background(), s.store, s.jobs, s.logger,
			jobID, format, bytes.NewReader(data))
		if err != nil {
			s.logger.Warn("Import finished with failure", zap.String("jobId", jobID), zap.Error(err))
		}
	}()

	return c.JSON(http.StatusAccepted, map[string]string{"jobId": jobID})
}

// GET /api/imports/:id — final (or current) job state including the full
// per-row error ledger.
func (s *Server) handleImportResult(c echo.Context) error {
	job, ok := s.jobs.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}

	errs := job.Errors
	if errs == nil {
		errs = []importer.RowError{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"jobId":     job.ID,
		"status":    job.Status,
		"message":   job.Message,
		"totalRows": job.Total,
		"created":   job.Created,
		"updated":   job.Updated,
		"errors":    errs,
	})
}

// GET /api/imports/:id/progress — server-sent events stream pushing one
// job snapshot per second until the job reaches a terminal status. Unknown
// job IDs get a single "job not found" event, never a hang: after a restart
// the job map is empty and the client must not wait forever.
func (s *Server) handleImportProgress(c echo.Context) error {
	jobID := c.Param("id")

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	if _, ok := s.jobs.Get(jobID); !ok {
		writeSSE(res, "error", map[string]string{"message": "job not found"})
		return nil
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		job, ok := s.jobs.Get(jobID)
		if !ok {
			writeSSE(res, "error", map[string]string{"message": "job not found"})
			return nil
		}

		writeSSE(res, "progress", job.Snapshot())
		if job.Status.Terminal() {
			return nil
		}

		select {
		case <-c.Request().Context().Done():
			// Client went away; the pipeline keeps running server-side
			return nil
		case <-ticker.C:
		}
	}
}

func writeSSE(res *echo.Response, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, data)
	res.Flush()
}
