// Package api - Thin HTTP layer over the pricing engine.
// The API is ONLY responsible for: input decoding, engine orchestration,
// output serialization and handing documents to the notifier.
// The API NEVER performs pricing logic.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"retreat-quote/core/determinism"
	"retreat-quote/core/notify"
	"retreat-quote/core/output"
	"retreat-quote/core/pricing"
	"retreat-quote/core/ratetable"
	qerrors "retreat-quote/internal/errors"
	"retreat-quote/internal/logging"
)

// maxBodyBytes limits request bodies
const maxBodyBytes = 1 << 20

// Options configures a Server
type Options struct {
	// Version is reported by /health and /version
	Version string

	// Rates is the active rate table; the built-in defaults when nil
	Rates *ratetable.RateTable

	// Notifier sends operator emails and prints documents
	Notifier *notify.Notifier

	// CSRFKey enables CSRF protection on form posts when it is 32 bytes long
	CSRFKey []byte

	// SecureCookies marks the CSRF cookie Secure (production over HTTPS)
	SecureCookies bool

	// TrustedOrigins are hosts allowed to post cross-origin
	TrustedOrigins []string

	// Now is the clock used for metadata timestamps
	Now func() time.Time
}

// Server is the API server
type Server struct {
	router      chi.Router
	version     string
	rates       *ratetable.RateTable
	fingerprint string
	notifier    *notify.Notifier
	csrf        bool
	now         func() time.Time
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	if opts.Rates == nil {
		opts.Rates = ratetable.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.New(notify.Options{})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		router:      chi.NewRouter(),
		version:     opts.Version,
		rates:       opts.Rates,
		fingerprint: opts.Rates.Fingerprint(),
		notifier:    opts.Notifier,
		csrf:        len(opts.CSRFKey) == 32,
		now:         opts.Now,
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(accessLog)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(securityHeaders)
	if s.csrf {
		s.router.Use(csrfProtect(opts.CSRFKey, opts.SecureCookies, opts.TrustedOrigins))
	} else if len(opts.CSRFKey) > 0 {
		logging.Warn("csrf key ignored, it must be 32 bytes", zap.Int("length", len(opts.CSRFKey)))
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Supporting endpoints
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
	s.router.Get("/rates", s.handleRates)
	s.router.Get("/session", s.handleSession)

	// Core endpoints
	s.router.Post("/quote", s.handleQuote)
	s.router.Post("/quote/compare", s.handleCompare)
	s.router.Post("/step", s.handleStep)
	s.router.Post("/finalize", s.handleFinalize)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// metadata describes how a response was priced
func (s *Server) metadata(start time.Time, input interface{}) output.Metadata {
	md := output.Metadata{
		Timestamp:        s.now().UTC().Format(time.RFC3339),
		Duration:         time.Since(start).String(),
		EngineVersion:    pricing.EngineVersion,
		RateTableVersion: s.rates.Version,
		RateFingerprint:  s.fingerprint,
	}
	if h, err := determinism.HashJSON(input); err == nil {
		md.InputHash = h.Hex()
	}
	return md
}

func decodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var qe *qerrors.Error
		if errors.As(err, &qe) {
			return qe
		}
		return qerrors.Input("invalid request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error("failed to write response", zap.Error(err))
	}
}

// writeError maps a domain error to its status and writes the error body
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	detail := ErrorDetail{
		Code:    string(qerrors.TypeOf(err)),
		Message: err.Error(),
	}
	var qe *qerrors.Error
	if errors.As(err, &qe) {
		detail.Message = qe.Message
		if qe.Type == qerrors.TypeValidation {
			detail.Fields = qe.Context
		}
	}
	if status >= http.StatusInternalServerError {
		logging.Error("request error", zap.String("code", detail.Code), zap.Error(err))
	}
	writeJSON(w, status, ErrorResponse{Error: detail})
}

func statusFor(err error) int {
	switch qerrors.TypeOf(err) {
	case qerrors.TypeInput, qerrors.TypeValidation, qerrors.TypeUnrecognizedKey:
		return http.StatusBadRequest
	case qerrors.TypeNotification:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
