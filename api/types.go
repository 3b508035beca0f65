// Package api - API types for the quote wizard
// These types define the JSON contract between the wizard and the server.
// Every request carries the whole quote; the server keeps no session state.
package api

import (
	"retreat-quote/core/output"
	"retreat-quote/core/pricing"
	"retreat-quote/core/quote"
	"retreat-quote/core/ratetable"
	"retreat-quote/core/types"
)

// QuoteRequest is the input to POST /quote and POST /quote/compare
type QuoteRequest struct {
	// QuoteID is echoed back; a new id is issued when empty
	QuoteID string `json:"quote_id,omitempty"`

	// Client is optional while the wizard only prices
	Client *quote.Client `json:"client,omitempty"`

	Event     quote.Event     `json:"event"`
	Selection types.Selection `json:"selection"`
}

func (r *QuoteRequest) quote() *quote.Quote {
	q := &quote.Quote{
		ID:        r.QuoteID,
		Event:     r.Event,
		Selection: r.Selection,
	}
	if r.Client != nil {
		q.Client = *r.Client
	}
	q.EnsureID()
	return q
}

// QuoteResponse is the output of POST /quote
type QuoteResponse struct {
	QuoteID  string           `json:"quote_id"`
	Nights   int              `json:"nights"`
	Pricing  *types.Breakdown `json:"pricing"`
	Metadata output.Metadata  `json:"metadata"`
}

// CompareResponse is the output of POST /quote/compare
type CompareResponse struct {
	QuoteID    string              `json:"quote_id"`
	Comparison *pricing.Comparison `json:"comparison"`
	Metadata   output.Metadata     `json:"metadata"`
}

// StepRequest is the input to POST /step
type StepRequest struct {
	QuoteID   string          `json:"quote_id"`
	Step      int             `json:"step"`
	Client    quote.Client    `json:"client"`
	Event     quote.Event     `json:"event"`
	Selection types.Selection `json:"selection"`
}

func (r *StepRequest) quote() *quote.Quote {
	q := &quote.Quote{
		ID:        r.QuoteID,
		Step:      r.Step,
		Client:    r.Client,
		Event:     r.Event,
		Selection: r.Selection,
	}
	q.EnsureID()
	return q
}

// StepResponse acknowledges a checkpoint
type StepResponse struct {
	QuoteID string `json:"quote_id"`
	Step    int    `json:"step"`
	Status  string `json:"status"`
}

// FinalizeResponse acknowledges the final email or the question
type FinalizeResponse struct {
	QuoteID    string `json:"quote_id"`
	Status     string `json:"status"`
	Attachment string `json:"attachment,omitempty"`
}

// RatesResponse is the output of GET /rates
type RatesResponse struct {
	Version     string               `json:"version"`
	Currency    string               `json:"currency"`
	Fingerprint string               `json:"fingerprint"`
	Rates       *ratetable.RateTable `json:"rates"`
}

// SessionResponse carries the CSRF token for form posts
type SessionResponse struct {
	CSRFToken string `json:"csrf_token,omitempty"`
	CSRF      bool   `json:"csrf"`
}

// ErrorResponse is the body of every error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail provides error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// X-Action values understood by POST /finalize
const (
	ActionDownloadPDF  = "download-pdf"
	ActionSendQuestion = "send-question"
)
