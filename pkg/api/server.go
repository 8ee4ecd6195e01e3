// Package api provides the REST API server for midi2hex
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jacksmedia/midi2hex/pkg/config"
	"github.com/jacksmedia/midi2hex/pkg/converter"
	"github.com/jacksmedia/midi2hex/pkg/converter/engines"
	"github.com/jacksmedia/midi2hex/pkg/translator"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title midi2hex API
// @version 1.0
// @description API for translating MIDI note data into sound-engine byte code
// @host localhost:8080
// @BasePath /api/v1

// Server serves translation requests
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	schema translator.Schema // from cfg.SchemaPath, nil when unset
}

// NewServer creates a server, loading the schema override if configured
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, logger: logger}

	if cfg.SchemaPath != "" {
		schema, err := translator.LoadSchema(cfg.SchemaPath)
		if err != nil {
			return nil, err
		}
		s.schema = schema
		logger.Info("Loaded schema override", zap.String("path", cfg.SchemaPath), zap.Int("keys", len(schema)))
	}
	return s, nil
}

// Router builds the gin engine with middleware and routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	r.Use(recoverWithSentry(s.logger))
	if s.cfg.SentryDSN != "" {
		r.Use(sentryMiddleware())
	}
	r.Use(requestTracking(s.logger))
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/translate", bodyLimit(s.cfg.MaxUploadBytes()), s.handleTranslate)
		v1.POST("/translate/events", bodyLimit(s.cfg.MaxUploadBytes()), s.handleTranslateEvents)
		v1.GET("/formats", listFormats)
		v1.GET("/engines", listEngines)
		v1.GET("/engines/:id/schema", s.handleEngineSchema)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the configured port
func StartServer(cfg *config.Config, logger *zap.Logger) error {
	s, err := NewServer(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return s.Router().Run(":" + cfg.Port)
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "midi2hex",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns input and output formats and the conversions between them
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"inputs":      []converter.Format{converter.FormatMIDI, converter.FormatEvents},
		"outputs":     []converter.OutputFormat{converter.OutputText, converter.OutputJSON, converter.OutputBinary},
		"conversions": converter.GetSupportedConversions(),
	})
}

// listEngines godoc
// @Summary List supported engines
// @Description Returns the registered sound engines
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]map[string]interface{}
// @Router /api/v1/engines [get]
func listEngines(c *gin.Context) {
	list := make([]gin.H, 0)
	for _, e := range engines.All() {
		list = append(list, gin.H{
			"id":          e.ID(),
			"name":        e.Name(),
			"description": e.Description(),
			"keys":        len(e.Schema()),
		})
	}
	c.JSON(http.StatusOK, gin.H{"engines": list})
}

// handleEngineSchema godoc
// @Summary Export an engine schema
// @Description Returns the schema of an engine as JSON or YAML
// @Tags info
// @Produce json
// @Produce application/yaml
// @Param id path string true "Engine ID"
// @Param format query string false "json (default) or yaml"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/engines/{id}/schema [get]
func (s *Server) handleEngineSchema(c *gin.Context) {
	engine, err := engines.Lookup(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	format := translator.SchemaFormat(strings.ToLower(c.DefaultQuery("format", string(translator.SchemaJSON))))
	data, err := engine.Schema().Encode(format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contentType := "application/json"
	if format == translator.SchemaYAML {
		contentType = "application/yaml"
	}
	c.Data(http.StatusOK, contentType, data)
}

// handleTranslate godoc
// @Summary Translate a MIDI or events file
// @Description Upload a MIDI file or a JSON event list and receive engine byte code
// @Tags translate
// @Accept multipart/form-data
// @Produce plain
// @Produce json
// @Produce application/octet-stream
// @Param file formData file true "MIDI or events JSON file"
// @Param schema formData file false "Schema override (JSON or YAML)"
// @Param engine query string false "Target engine (default: akao)"
// @Param order query string false "track or time"
// @Param rests query bool false "Insert rests for silent gaps"
// @Param format query string false "text, json or bin"
// @Param sep query string false "Token separator for text output"
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /api/v1/translate [post]
func (s *Server) handleTranslate(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	conv, err := s.converterFor(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.applyUploadedSchema(c, conv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := converter.DetectFormat(header.Filename)
	result, err := conv.Translate(data, format)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.writeResult(c, result, header.Filename, converter.OutputText)
}

// handleTranslateEvents godoc
// @Summary Translate a JSON event list
// @Description Post a JSON array of note events and receive engine byte code
// @Tags translate
// @Accept json
// @Produce json
// @Param engine query string false "Target engine (default: akao)"
// @Param format query string false "text, json (default) or bin"
// @Param sep query string false "Token separator for text output"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/translate/events [post]
func (s *Server) handleTranslateEvents(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	conv, err := s.converterFor(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := conv.EventsToHex(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.writeResult(c, result, "events.json", converter.OutputJSON)
}

// converterFor builds a converter from the request query and server defaults
func (s *Server) converterFor(c *gin.Context) (*converter.Converter, error) {
	engine, err := engines.Lookup(c.DefaultQuery("engine", s.cfg.Engine))
	if err != nil {
		return nil, err
	}

	opts := converter.DefaultParseOptions()
	if opts.Order, err = converter.ParseEventOrder(c.DefaultQuery("order", s.cfg.EventOrder)); err != nil {
		return nil, err
	}
	opts.InsertRests = s.cfg.InsertRests
	if v, ok := c.GetQuery("rests"); ok {
		if opts.InsertRests, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid rests value %q", v)
		}
	}

	conv := converter.New(engine)
	conv.SetParseOptions(opts)
	conv.SetLogger(s.logger.With(zap.String("request_id", c.GetString("request_id"))))
	if s.schema != nil {
		conv.SetSchema(s.schema)
	}
	return conv, nil
}

// applyUploadedSchema installs an optional "schema" form file
func (s *Server) applyUploadedSchema(c *gin.Context, conv *converter.Converter) error {
	file, header, err := c.Request.FormFile("schema")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read schema upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read schema upload: %w", err)
	}
	schema, err := translator.ParseSchema(data, translator.DetectSchemaFormat(header.Filename))
	if err != nil {
		return err
	}
	conv.SetSchema(schema)
	return nil
}

func (s *Server) writeResult(c *gin.Context, result *translator.Result, filename string, fallback converter.OutputFormat) {
	format := fallback
	if v, ok := c.GetQuery("format"); ok {
		var err error
		if format, err = converter.ParseOutputFormat(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	out, err := converter.Encode(result, format, c.DefaultQuery("sep", converter.DefaultSeparator))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        err.Error(),
			"placeholders": result.PlaceholderCount(),
		})
		return
	}

	c.Header("X-Token-Count", strconv.Itoa(len(result.Tokens)))
	c.Header("X-Placeholder-Count", strconv.Itoa(result.PlaceholderCount()))

	switch format {
	case converter.OutputJSON:
		c.Data(http.StatusOK, "application/json", out)
	case converter.OutputBinary:
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + ".bin"
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
		c.Data(http.StatusOK, "application/octet-stream", out)
	default:
		c.Data(http.StatusOK, "text/plain; charset=utf-8", out)
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
