// Package api exposes the import pipeline over HTTP.
package api

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/faturaflow/statement-import/internal/extractor"
	"github.com/faturaflow/statement-import/internal/importer"
	"github.com/faturaflow/statement-import/internal/parser"
)

// Handler holds the HTTP handlers for the import API.
type Handler struct {
	Importer *importer.Importer
	Log      zerolog.Logger
	Version  string
}

// ImportResponse is the JSON response from POST /api/import.
type ImportResponse struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Result  *importer.Result `json:"result,omitempty"`
}

// NewApp builds the fiber application with routes and middleware.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20,
	})
	app.Use(recover.New())
	app.Use(h.requestLogger)

	app.Post("/api/import", h.handleImport)
	app.Get("/api/health", h.handleHealth)
	return app
}

func (h *Handler) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.Log.Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("request")
	return err
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.Version,
	})
}

func (h *Handler) handleImport(c *fiber.Ctx) error {
	userID := c.FormValue("user_id")
	if userID == "" {
		return badRequest(c, "user_id form field is required")
	}

	text, err := h.statementText(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	opts := importer.RunOptions{
		AllowExactDuplicates: c.FormValue("allow_duplicates") == "true",
		AllInstallments:      c.FormValue("all_installments") == "true",
	}
	if v := c.FormValue("reference_month"); v != "" {
		ref, err := time.Parse("2006-01", v)
		if err != nil {
			return badRequest(c, "reference_month must look like 2026-08")
		}
		opts.ReferenceMonth = ref
	}

	result, err := h.Importer.Run(c.Context(), userID, text, opts)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupportedFormat) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ImportResponse{
				Success: false,
				Error:   "document format not recognized",
			})
		}
		h.Log.Error().Err(err).Str("user_id", userID).Msg("import failed")
		return c.Status(fiber.StatusInternalServerError).JSON(ImportResponse{
			Success: false,
			Error:   "import failed",
		})
	}

	return c.JSON(ImportResponse{Success: true, Result: result})
}

// statementText pulls the statement text from the request: either a raw
// "text" form field or an uploaded PDF to run through the extractor.
func (h *Handler) statementText(c *fiber.Ctx) (string, error) {
	if text := c.FormValue("text"); text != "" {
		return text, nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", errors.New("provide a 'file' upload or a 'text' form field")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", errors.New("uploaded file could not be opened")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", errors.New("uploaded file could not be read")
	}

	text, err := extractor.ExtractText(data)
	if err != nil {
		switch {
		case errors.Is(err, extractor.ErrEncrypted):
			return "", errors.New("document is encrypted")
		case errors.Is(err, extractor.ErrEmptyDocument), errors.Is(err, extractor.ErrNoText):
			return "", errors.New("document contains no extractable text")
		default:
			return "", errors.New("document text extraction failed")
		}
	}
	return text, nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ImportResponse{
		Success: false,
		Error:   msg,
	})
}
