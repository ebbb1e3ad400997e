package aperak

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/debuggerone/comako/edifact"
	"github.com/debuggerone/comako/errors"
	"github.com/debuggerone/comako/validate"
)

// Status is the processing outcome an APERAK reports for the original
// message.
type Status string

const (
	StatusAccepted          Status = "accepted"
	StatusRejected          Status = "rejected"
	StatusPartiallyAccepted Status = "partially_accepted"
	StatusReceived          Status = "received"
)

// responseCodes maps a status to the BGM response code.
var responseCodes = map[Status]string{
	StatusAccepted:          "29",
	StatusRejected:          "27",
	StatusPartiallyAccepted: "28",
	StatusReceived:          "26",
}

// statusTexts is the FTX free-text line per status.
var statusTexts = map[Status]string{
	StatusAccepted:          "Message processed successfully",
	StatusRejected:          "Message rejected due to errors",
	StatusPartiallyAccepted: "Message partially processed",
	StatusReceived:          "Message received and queued for processing",
}

// ERC application error codes for common findings.
const (
	CodeSyntaxError            = "2"
	CodeSegmentMissing         = "12"
	CodeSegmentInvalid         = "13"
	CodeDataElementMissing     = "15"
	CodeDataElementInvalid     = "16"
	CodeSegmentSequenceError   = "17"
	CodeDuplicateMessage       = "18"
	CodeMessageTypeUnsupported = "19"
)

// Error is one application error carried in an ERC segment.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ErrorsFromIssues converts error-severity validation issues into APERAK
// errors. Warnings and info findings are dropped: they never justify a
// rejection on their own.
func ErrorsFromIssues(issues []validate.Issue) []Error {
	var out []Error
	for _, issue := range issues {
		if issue.Severity != validate.SeverityError {
			continue
		}
		out = append(out, Error{
			Code:        codeForRule(issue.RuleID),
			Description: issue.Message,
		})
	}
	return out
}

func codeForRule(ruleID string) string {
	switch ruleID {
	case "STRUCT_001", "MSGTYPE_001":
		return CodeSegmentMissing
	default:
		return CodeDataElementInvalid
	}
}

// Generator builds APERAK acknowledgments. The zero value is not usable;
// create instances with NewGenerator.
type Generator struct {
	sender           string
	defaultRecipient string
	logger           *slog.Logger
	clock            func() time.Time
	newReference     func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithDefaultRecipient sets the recipient used when neither an explicit
// override nor the original sender is available.
func WithDefaultRecipient(id string) Option {
	return func(g *Generator) { g.defaultRecipient = id }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithClock replaces the time source. Used by tests for deterministic
// UNB timestamps and DTM dates.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) { g.clock = clock }
}

// WithReferenceFunc replaces the reference generator. Used by tests for
// deterministic interchange and message references.
func WithReferenceFunc(fn func() string) Option {
	return func(g *Generator) { g.newReference = fn }
}

// NewGenerator creates a Generator that acknowledges on behalf of the
// given sender ID.
func NewGenerator(sender string, opts ...Option) *Generator {
	g := &Generator{
		sender:       sender,
		logger:       slog.Default(),
		clock:        time.Now,
		newReference: newReference,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds an APERAK for the original interchange. The recipient
// resolves explicit override first, then the original UNB sender, then
// the configured default; with none of these the call fails. Errors are
// only embedded for rejected and partially accepted statuses.
func (g *Generator) Generate(original *edifact.Interchange, status Status, errs []Error, recipient string) (string, error) {
	code, ok := responseCodes[status]
	if !ok {
		return "", errors.WrapInvalid(fmt.Errorf("unknown status %q", status), "Generator", "Generate", "map status to response code")
	}

	originalRef := extractMessageReference(original)
	to := recipient
	if to == "" {
		to = extractSender(original)
	}
	if to == "" {
		to = g.defaultRecipient
	}
	if to == "" {
		return "", errors.WrapInvalid(errors.ErrNoRecipient, "Generator", "Generate", "resolve recipient")
	}

	now := g.clock().UTC()
	interchangeRef := g.newReference()
	messageRef := g.newReference()

	segments := []string{
		fmt.Sprintf("UNB+UNOC:3+%s+%s+%s:%s+00+%s'", g.sender, to, now.Format("060102"), now.Format("1504"), interchangeRef),
		fmt.Sprintf("UNH+%s+APERAK:D:03B:UN:EEG+1.1e'", messageRef),
		fmt.Sprintf("BGM+916+%s+%s'", messageRef, code),
		fmt.Sprintf("DTM+137:%s:102'", now.Format("20060102")),
	}

	if originalRef != "" {
		segments = append(segments, fmt.Sprintf("RFF+ACW:%s'", originalRef))
	}

	if status == StatusRejected || status == StatusPartiallyAccepted {
		for _, e := range errs {
			ercCode := e.Code
			if ercCode == "" {
				ercCode = CodeDataElementInvalid
			}
			desc := e.Description
			if desc == "" {
				desc = "Unspecified error"
			}
			segments = append(segments, fmt.Sprintf("ERC+%s:%s'", ercCode, desc))
		}
	}

	segments = append(segments, fmt.Sprintf("FTX+AAO+++%s'", statusTexts[status]))

	// UNT counts UNH through UNT inclusive. Everything after UNB plus
	// UNT itself, which is len(segments) at this point.
	segments = append(segments, fmt.Sprintf("UNT+%d+%s'", len(segments), messageRef))
	segments = append(segments, fmt.Sprintf("UNZ+1+%s'", interchangeRef))

	text := strings.Join(segments, "\n")

	if !ValidateStructure(text) {
		return "", errors.WrapInvalid(errors.ErrGenerationFailed, "Generator", "Generate", "verify generated structure")
	}

	g.logger.Info("generated acknowledgment",
		"status", string(status),
		"original_ref", originalRef,
		"recipient", to,
	)
	return text, nil
}

// Accept generates an acceptance APERAK.
func (g *Generator) Accept(original *edifact.Interchange, recipient string) (string, error) {
	return g.Generate(original, StatusAccepted, nil, recipient)
}

// Reject generates a rejection APERAK carrying the given errors.
func (g *Generator) Reject(original *edifact.Interchange, errs []Error, recipient string) (string, error) {
	return g.Generate(original, StatusRejected, errs, recipient)
}

// Acknowledge generates a receipt-only APERAK.
func (g *Generator) Acknowledge(original *edifact.Interchange, recipient string) (string, error) {
	return g.Generate(original, StatusReceived, nil, recipient)
}

// extractMessageReference reads the UNH message reference from the
// original interchange. Returns "" when unavailable.
func extractMessageReference(ic *edifact.Interchange) string {
	if ic == nil {
		return ""
	}
	unh, ok := ic.ByTag("UNH")
	if !ok {
		return ""
	}
	return unh.Element(0).Value()
}

// extractSender reads the UNB sender ID from the original interchange.
func extractSender(ic *edifact.Interchange) string {
	if ic == nil {
		return ""
	}
	unb, ok := ic.ByTag("UNB")
	if !ok {
		return ""
	}
	return unb.Element(1).Component(0)
}

// newReference derives a 12-character uppercase reference from a UUID.
func newReference() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
}
