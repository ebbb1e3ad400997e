package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/debuggerone/comako/aperak"
	"github.com/debuggerone/comako/canonical"
	"github.com/debuggerone/comako/edifact"
	"github.com/debuggerone/comako/errors"
	"github.com/debuggerone/comako/interpret"
	"github.com/debuggerone/comako/message"
	"github.com/debuggerone/comako/metric"
	"github.com/debuggerone/comako/pkg/retry"
	"github.com/debuggerone/comako/validate"
)

// Publisher sends serialized messages to the bus. Satisfied by
// natsclient.Client.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Result is the complete outcome of processing one interchange.
type Result struct {
	MessageType  string              `json:"message_type"`
	Document     *canonical.Document `json:"document"`
	Report       *validate.Report    `json:"report"`
	Aperak       string              `json:"aperak,omitempty"`
	AperakStatus aperak.Status       `json:"aperak_status,omitempty"`
}

// Processor runs the four pipeline stages over raw interchanges.
type Processor struct {
	source    string
	converter *canonical.Converter
	validator *validate.Validator
	generator *aperak.Generator
	publisher Publisher
	metrics   *metric.Metrics
	logger    *slog.Logger
	retryCfg  retry.Config
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithPublisher enables publishing of results to the bus.
func WithPublisher(p Publisher) ProcessorOption {
	return func(pr *Processor) { pr.publisher = p }
}

// WithMetrics enables metric recording.
func WithMetrics(m *metric.Metrics) ProcessorOption {
	return func(pr *Processor) { pr.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(pr *Processor) {
		if logger != nil {
			pr.logger = logger
		}
	}
}

// WithRetryConfig overrides the publish retry policy.
func WithRetryConfig(cfg retry.Config) ProcessorOption {
	return func(pr *Processor) { pr.retryCfg = cfg }
}

// WithValidator replaces the default validator, e.g. to register
// custom rules.
func WithValidator(v *validate.Validator) ProcessorOption {
	return func(pr *Processor) { pr.validator = v }
}

// WithGenerator replaces the default acknowledgment generator.
func WithGenerator(g *aperak.Generator) ProcessorOption {
	return func(pr *Processor) { pr.generator = g }
}

// NewProcessor creates a processor acknowledging as senderID. The
// source names this service in published messages.
func NewProcessor(source, senderID string, opts ...ProcessorOption) *Processor {
	p := &Processor{
		source:    source,
		converter: canonical.NewConverter(),
		validator: validate.NewValidator(),
		logger:    slog.Default(),
		retryCfg:  retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.generator == nil {
		p.generator = aperak.NewGenerator(senderID, aperak.WithLogger(p.logger))
	}
	return p
}

// Process runs all stages over one raw interchange. Parse failures are
// fatal to the message and abort processing; validation findings never
// do. A valid report yields an acceptance APERAK, an invalid one a
// rejection carrying the error findings. A missing APERAK recipient is
// logged and leaves the acknowledgment empty rather than failing the
// whole message.
func (p *Processor) Process(ctx context.Context, raw string) (*Result, error) {
	start := time.Now()

	ic, err := edifact.Tokenize(raw)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordParseFailure()
			p.metrics.RecordError("pipeline", errors.Classify(err).String())
		}
		p.logger.Error("tokenize failed", "error", err)
		return nil, err
	}
	p.observeStage("tokenize", start)

	messageType := canonical.MessageType(ic)
	if p.metrics != nil {
		p.metrics.RecordInterchangeReceived(messageType)
	}

	validateStart := time.Now()
	report := p.validator.Validate(ic)
	p.observeStage("validate", validateStart)
	if p.metrics != nil {
		p.metrics.RecordValidationReport(messageType, report.Valid)
		p.metrics.RecordValidationIssues(string(validate.SeverityError), report.Statistics.Errors)
		p.metrics.RecordValidationIssues(string(validate.SeverityWarning), report.Statistics.Warnings)
		p.metrics.RecordValidationIssues(string(validate.SeverityInfo), report.Statistics.Info)
	}

	convertStart := time.Now()
	doc, err := p.converter.Convert(ic)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("pipeline", errors.Classify(err).String())
		}
		return nil, err
	}
	p.observeStage("convert", convertStart)
	if p.metrics != nil {
		p.metrics.RecordDocumentConverted(messageType)
	}

	result := &Result{
		MessageType: messageType,
		Document:    doc,
		Report:      report,
	}

	aperakStart := time.Now()
	p.generateAperak(ic, report, result)
	p.observeStage("aperak", aperakStart)

	if err := p.publishResult(ctx, result); err != nil {
		return result, err
	}

	p.logger.Info("interchange processed",
		"message_type", messageType,
		"valid", report.Valid,
		"issues", report.Statistics.TotalIssues,
		"aperak_status", string(result.AperakStatus),
		"duration", time.Since(start),
	)
	return result, nil
}

func (p *Processor) generateAperak(ic *edifact.Interchange, report *validate.Report, result *Result) {
	var (
		text   string
		status aperak.Status
		err    error
	)
	if report.Valid {
		status = aperak.StatusAccepted
		text, err = p.generator.Accept(ic, "")
	} else {
		status = aperak.StatusRejected
		text, err = p.generator.Reject(ic, aperak.ErrorsFromIssues(report.Issues), "")
	}
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("aperak", errors.Classify(err).String())
		}
		p.logger.Warn("acknowledgment generation failed", "error", err)
		return
	}
	result.Aperak = text
	result.AperakStatus = status
	if p.metrics != nil {
		p.metrics.RecordAperakGenerated(string(status))
	}
}

// publishResult publishes the canonical document, validation report and
// acknowledgment. Absent publisher means the caller only wants the
// returned Result.
func (p *Processor) publishResult(ctx context.Context, result *Result) error {
	if p.publisher == nil {
		return nil
	}

	msgs := []*message.BaseMessage{
		message.New(
			message.ReceivedType(result.MessageType),
			&message.CanonicalPayload{Document: result.Document},
			p.source,
		),
		message.New(
			message.TypeValidationCompleted,
			&message.ReportPayload{Report: result.Report},
			p.source,
		),
	}
	if result.Aperak != "" {
		msgs = append(msgs, message.New(
			message.TypeAperakGenerated,
			&message.AperakPayload{
				Status:      string(result.AperakStatus),
				OriginalRef: originalReference(result.Document),
				Aperak:      result.Aperak,
			},
			p.source,
		))
	}

	for _, msg := range msgs {
		if err := p.publish(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) publish(ctx context.Context, msg *message.BaseMessage) error {
	data, err := msg.MarshalJSON()
	if err != nil {
		return err
	}
	subject := msg.Type().String()

	err = retry.Do(ctx, p.retryCfg, func() error {
		return p.publisher.Publish(subject, data)
	})
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("publish", errors.Classify(err).String())
		}
		return errors.WrapTransient(err, "Processor", "publish", "publish to "+subject)
	}
	if p.metrics != nil {
		p.metrics.RecordMessagePublished(subject)
	}
	return nil
}

// observeStage records one stage duration.
func (p *Processor) observeStage(stage string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordProcessingDuration(stage, time.Since(start))
	}
}

// originalReference pulls the original UNH reference out of the
// canonical header for the acknowledgment payload.
func originalReference(doc *canonical.Document) string {
	if doc == nil {
		return ""
	}
	if mh, ok := doc.Header[string(interpret.KindMessageHeader)].(interpret.MessageHeader); ok {
		return mh.ReferenceNumber
	}
	return ""
}
