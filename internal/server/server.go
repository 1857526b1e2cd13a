package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-subword/internal/config"
	"github.com/example/go-subword/internal/tokenizer"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// ModelSource hands out the current model snapshot. *tokenizer.Tokenizer
// satisfies it.
type ModelSource interface {
	Model() (*tokenizer.Model, error)
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes int
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes: 64 << 10,
		logger:       slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for POST /tokenize.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

type handler struct {
	models ModelSource
	opts   options
	log    *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /vocab,
// POST /tokenize and POST /decode.
func NewHandler(models ModelSource, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		models: models,
		opts:   opts,
		log:    opts.logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/vocab", h.handleVocab)
	mux.HandleFunc("/tokenize", h.handleTokenize)
	mux.HandleFunc("/decode", h.handleDecode)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// Health is the body of GET /health. Status is "ok" with a model loaded
// and "untrained" otherwise.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := "ok"
	if _, err := h.models.Model(); err != nil {
		status = "untrained"
	}
	writeJSON(w, http.StatusOK, Health{Status: status, Version: buildVersion()})
}

type vocabResponse struct {
	VocabSize    int         `json:"vocab_size"`
	AlphabetSize int         `json:"alphabet_size"`
	Merges       [][2]string `json:"merges"`
}

func (h *handler) handleVocab(w http.ResponseWriter, _ *http.Request) {
	m, err := h.models.Model()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	merges := m.Merges()
	resp := vocabResponse{
		VocabSize:    m.VocabSize(),
		AlphabetSize: m.AlphabetSize(),
		Merges:       make([][2]string, len(merges)),
	}
	for i, p := range merges {
		resp.Merges[i] = [2]string{p.Left, p.Right}
	}
	writeJSON(w, http.StatusOK, resp)
}

type tokenizeRequest struct {
	Text string `json:"text"`
}

type tokenizeResponse struct {
	IDs    []int    `json:"ids"`
	Tokens []string `json:"tokens"`
}

func (h *handler) handleTokenize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req tokenizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	start := time.Now()
	ids, tokens, err := h.tokenize(req.Text)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		h.log.WarnContext(r.Context(), "tokenize failed",
			slog.String("op", "tokenize"),
			slog.Int("text_len", len(req.Text)),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		writeError(w, statusFor(err), err.Error())
		return
	}

	h.log.InfoContext(r.Context(), "tokenize complete",
		slog.String("op", "tokenize"),
		slog.Int("text_len", len(req.Text)),
		slog.Int("ids", len(ids)),
		slog.Int64("duration_ms", durationMS),
	)
	writeJSON(w, http.StatusOK, tokenizeResponse{IDs: ids, Tokens: tokens})
}

func (h *handler) tokenize(text string) ([]int, []string, error) {
	m, err := h.models.Model()
	if err != nil {
		return nil, nil, err
	}
	return m.EncodePieces(text)
}

type decodeRequest struct {
	IDs []int `json:"ids"`
}

type decodeResponse struct {
	Text string `json:"text"`
}

func (h *handler) handleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req decodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start := time.Now()
	text, err := h.decode(req.IDs)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		h.log.WarnContext(r.Context(), "decode failed",
			slog.String("op", "decode"),
			slog.Int("ids", len(req.IDs)),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		writeError(w, statusFor(err), err.Error())
		return
	}

	h.log.InfoContext(r.Context(), "decode complete",
		slog.String("op", "decode"),
		slog.Int("ids", len(req.IDs)),
		slog.Int("text_len", len(text)),
		slog.Int64("duration_ms", durationMS),
	)
	writeJSON(w, http.StatusOK, decodeResponse{Text: text})
}

func (h *handler) decode(ids []int) (string, error) {
	m, err := h.models.Model()
	if err != nil {
		return "", err
	}
	return m.Decode(ids)
}

// decodeBody parses a JSON request body into v. On failure it writes a 400
// and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// statusFor maps tokenizer errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tokenizer.ErrNotTrained):
		return http.StatusServiceUnavailable
	case errors.Is(err, tokenizer.ErrUnknownSymbol), errors.Is(err, tokenizer.ErrUnknownID):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	models          ModelSource
	log             *slog.Logger
	shutdownTimeout time.Duration
}

func New(cfg config.Config, models ModelSource, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{
		cfg:             cfg,
		models:          models,
		log:             log,
		shutdownTimeout: timeout,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	h := NewHandler(s.models,
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithLogger(s.log),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.log.Info("listening", slog.String("addr", s.cfg.Server.ListenAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

// CheckHealth queries GET /health on a running server. addr is host:port
// or a base URL.
func CheckHealth(ctx context.Context, addr string) (Health, error) {
	base := strings.TrimSuffix(addr, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return Health{}, fmt.Errorf("health request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Health{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Health{}, fmt.Errorf("unexpected health status: %s", resp.Status)
	}

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("decode health: %w", err)
	}

	return h, nil
}
