package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"retreat-quote/core/output"
	"retreat-quote/core/pricing"
	"retreat-quote/core/quote"
	qerrors "retreat-quote/internal/errors"
	"retreat-quote/internal/logging"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"version":       s.version,
		"email_enabled": s.notifier.EmailEnabled(),
		"time":          s.now().UTC().Format(time.RFC3339),
	})
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":            s.version,
		"engine":             pricing.EngineVersion,
		"rate_table_version": s.rates.Version,
		"rate_fingerprint":   s.fingerprint,
	})
}

// handleRates handles GET /rates
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RatesResponse{
		Version:     s.rates.Version,
		Currency:    s.rates.Currency,
		Fingerprint: s.fingerprint,
		Rates:       s.rates,
	})
}

// handleSession handles GET /session
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	resp := SessionResponse{CSRF: s.csrf}
	if s.csrf {
		resp.CSRFToken = csrf.Token(r)
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

// handleQuote handles POST /quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	q := req.quote()
	if err := q.ValidateSelection(); err != nil {
		writeError(w, err)
		return
	}

	// Execute engine (NO PRICING LOGIC HERE)
	b, err := q.Price(s.rates)
	if err != nil {
		writeError(w, err)
		return
	}

	logging.ForQuote(q.ID).Debug("quote priced",
		zap.String("formula", string(b.Formula)),
		zap.Int("participants", b.Participants),
		logging.Money("grand_total", b.GrandTotal))

	writeJSON(w, http.StatusOK, QuoteResponse{
		QuoteID:  q.ID,
		Nights:   b.Nights,
		Pricing:  b,
		Metadata: s.metadata(start, &req),
	})
}

// handleCompare handles POST /quote/compare
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	q := req.quote()
	if err := q.ValidateSelection(); err != nil {
		writeError(w, err)
		return
	}

	cmp, err := pricing.CompareUpgrade(q.Selection, q.Event.EventDates, s.rates)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CompareResponse{
		QuoteID:    q.ID,
		Comparison: cmp,
		Metadata:   s.metadata(start, &req),
	})
}

// handleStep handles POST /step
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req StepRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Step < quote.StepClient || req.Step > quote.StepFinal {
		writeError(w, qerrors.Validation(map[string]string{
			"step": fmt.Sprintf("must be between %d and %d", quote.StepClient, quote.StepFinal),
		}))
		return
	}

	q := req.quote()
	if err := q.ValidateThrough(req.Step); err != nil {
		writeError(w, err)
		return
	}
	if err := s.notifier.StepCheckpoint(r.Context(), q, req.Step); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StepResponse{QuoteID: q.ID, Step: req.Step, Status: "notified"})
}

// handleFinalize handles POST /finalize. The X-Action header selects between
// downloading the PDF, asking a question and the default final email.
func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var q quote.Quote
	if err := decodeJSON(r, &q); err != nil {
		writeError(w, err)
		return
	}
	q.EnsureID()
	action := r.Header.Get("X-Action")

	if action == ActionSendQuestion {
		if err := q.ValidateThrough(quote.StepClient); err != nil {
			writeError(w, err)
			return
		}
		if err := s.notifier.Question(r.Context(), &q, q.Question); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, FinalizeResponse{QuoteID: q.ID, Status: "question_sent"})
		return
	}
	if action != "" && action != ActionDownloadPDF {
		writeError(w, qerrors.Newf(qerrors.TypeInput, "unknown X-Action %q", action))
		return
	}

	if err := q.Validate(); err != nil {
		writeError(w, err)
		return
	}
	cmp, err := pricing.CompareUpgrade(q.Selection, q.Event.EventDates, s.rates)
	if err != nil {
		writeError(w, err)
		return
	}
	result := &output.Result{
		Quote:      &q,
		Breakdown:  cmp.Current,
		Comparison: cmp,
		Metadata:   s.metadata(start, &q),
	}

	if action == ActionDownloadPDF {
		pdf, err := s.notifier.RenderDocument(r.Context(), result)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", q.AttachmentName()))
		w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdf); err != nil {
			logging.ForQuote(q.ID).Warn("pdf download interrupted", zap.Error(err))
		}
		return
	}

	if err := s.notifier.Finalize(r.Context(), result); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FinalizeResponse{
		QuoteID:    q.ID,
		Status:     "sent",
		Attachment: q.AttachmentName(),
	})
}
