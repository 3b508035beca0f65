// Package notify - Operator notifications for quote progress.
// The venue operator gets an email at each wizard checkpoint, a final email
// with the PDF quote attached, and any question the client asks.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"retreat-quote/adapters/document"
	"retreat-quote/adapters/email"
	"retreat-quote/core/output"
	"retreat-quote/core/quote"
	qerrors "retreat-quote/internal/errors"
	"retreat-quote/internal/logging"
)

// errEmailNotConfigured is returned when no sender or recipient is set up.
// Each call builds a new error so callers may add context to it.
func errEmailNotConfigured() error {
	return qerrors.Config("email configuration missing")
}

// markdown renders email bodies. Raw HTML in client input is dropped.
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Options configures a Notifier
type Options struct {
	// Sender delivers mail; nil disables every email
	Sender email.Sender

	// Renderer prints the quote document to PDF
	Renderer document.Renderer

	// Document renders the quote document HTML
	Document *output.HTMLFormatter

	From    string
	Manager string
	SiteURL string

	// ReplyTo is used when the email has no client to reply to
	ReplyTo string

	// Timeout bounds each outbound call
	Timeout time.Duration
}

// Notifier sends operator emails
type Notifier struct {
	opts    Options
	summary *output.MarkdownFormatter
}

// New creates a notifier
func New(opts Options) *Notifier {
	if opts.Document == nil {
		opts.Document = &output.HTMLFormatter{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Notifier{opts: opts, summary: &output.MarkdownFormatter{}}
}

// EmailEnabled reports whether emails can be sent
func (n *Notifier) EmailEnabled() bool {
	return n.opts.Sender != nil && n.opts.Manager != "" && n.opts.From != ""
}

// StepCheckpoint tells the operator a client completed a wizard step
func (n *Notifier) StepCheckpoint(ctx context.Context, q *quote.Quote, step int) error {
	if !n.EmailEnabled() {
		return errEmailNotConfigured()
	}
	if step < quote.StepClient || step > quote.StepFinal {
		return qerrors.Newf(qerrors.TypeValidation, "step must be between %d and %d", quote.StepClient, quote.StepFinal).
			WithContext("step", step)
	}

	selection, err := json.MarshalIndent(q.Selection, "", "  ")
	if err != nil {
		return qerrors.Internal("failed to encode selection", err)
	}

	var md strings.Builder
	fmt.Fprintf(&md, "## Nouveau prospect - Étape %d/%d\n\n", step, quote.StepFinal)
	fmt.Fprintf(&md, "**Client :** %s (%s)\n", q.Client.FullName(), q.Client.Email)
	fmt.Fprintf(&md, "**ID devis :** %s\n\n", q.ID)
	md.WriteString("### Progression\n\n")
	fmt.Fprintf(&md, "Le client vient de valider l'étape %d.\n\n", step)
	fmt.Fprintf(&md, "```json\n%s\n```\n", selection)
	if n.opts.SiteURL != "" {
		fmt.Fprintf(&md, "\n[Voir le site](%s)\n", n.opts.SiteURL)
	}

	body, err := renderMarkdown(md.String())
	if err != nil {
		return err
	}
	return n.send(ctx, q, email.SendRequest{
		Subject: fmt.Sprintf("[Step %d] Simulation Devis - %s", step, q.Client.LastName),
		HTML:    body,
	})
}

// RenderDocument renders the quote document and prints it to PDF
func (n *Notifier) RenderDocument(ctx context.Context, result *output.Result) ([]byte, error) {
	if n.opts.Renderer == nil {
		return nil, qerrors.Config("no PDF renderer configured")
	}
	var html bytes.Buffer
	if err := n.opts.Document.Render(&html, result); err != nil {
		return nil, qerrors.Render("failed to render quote document", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.opts.Timeout)
	defer cancel()
	pdf, err := n.opts.Renderer.RenderPDF(ctx, html.Bytes())
	if err != nil {
		return nil, qerrors.Render("failed to print quote document", err)
	}
	return pdf, nil
}

// Finalize emails the operator the finished simulation with its PDF
func (n *Notifier) Finalize(ctx context.Context, result *output.Result) error {
	if !n.EmailEnabled() {
		return errEmailNotConfigured()
	}
	q := result.Quote
	if q == nil {
		return qerrors.New(qerrors.TypeInput, "final email needs client details")
	}

	pdf, err := n.RenderDocument(ctx, result)
	if err != nil {
		return err
	}

	var md bytes.Buffer
	md.WriteString("Le devis PDF complet est joint à cet email.\n\n")
	if err := n.summary.Render(&md, result); err != nil {
		return qerrors.Render("failed to render summary", err)
	}
	body, err := renderMarkdown(md.String())
	if err != nil {
		return err
	}
	// the markdown totals comment does not survive rendering
	totals, err := output.TotalsScript(result.Breakdown)
	if err != nil {
		return qerrors.Render("failed to encode totals", err)
	}
	body += totals + "\n"

	return n.send(ctx, q, email.SendRequest{
		Subject:     fmt.Sprintf("Simulation Terminée - %s %s", q.Client.FirstName, q.Client.LastName),
		HTML:        body,
		ReplyTo:     q.Client.Email,
		Attachments: []email.Attachment{{Filename: q.AttachmentName(), Content: pdf}},
	})
}

// Question forwards a free-text question from the client
func (n *Notifier) Question(ctx context.Context, q *quote.Quote, question string) error {
	if !n.EmailEnabled() {
		return errEmailNotConfigured()
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return qerrors.Validation(map[string]string{"question": "required"})
	}

	var md strings.Builder
	fmt.Fprintf(&md, "## Question de %s\n\n", q.Client.FullName())
	fmt.Fprintf(&md, "**Email :** %s\n", q.Client.Email)
	fmt.Fprintf(&md, "**Téléphone :** %s\n", q.Client.Phone)
	fmt.Fprintf(&md, "**ID devis :** %s\n\n", q.ID)
	for _, line := range strings.Split(question, "\n") {
		fmt.Fprintf(&md, "> %s\n", line)
	}

	body, err := renderMarkdown(md.String())
	if err != nil {
		return err
	}
	return n.send(ctx, q, email.SendRequest{
		Subject: fmt.Sprintf("Question client - %s", q.Client.FullName()),
		HTML:    body,
		ReplyTo: q.Client.Email,
	})
}

func (n *Notifier) send(ctx context.Context, q *quote.Quote, req email.SendRequest) error {
	req.From = n.opts.From
	req.To = []string{n.opts.Manager}
	if req.ReplyTo == "" {
		req.ReplyTo = n.opts.ReplyTo
	}

	ctx, cancel := context.WithTimeout(ctx, n.opts.Timeout)
	defer cancel()

	log := logging.ForQuote(q.ID)
	res, err := n.opts.Sender.Send(ctx, req)
	if err != nil {
		log.Error("notification failed", zap.String("subject", req.Subject), zap.Error(err))
		return qerrors.Notification("failed to send email", err)
	}
	log.Info("notification sent", zap.String("subject", req.Subject), zap.String("message_id", res.MessageID))
	return nil
}

func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", qerrors.Render("failed to render email body", err)
	}
	return buf.String(), nil
}
