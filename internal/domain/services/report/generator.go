package report

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"suraksha-api/internal/domain/services/ai"
	"suraksha-api/pkg/logger"
)

// ErrUnknownComplaintType is returned for a complaint_type outside the
// fixed template set. It is a client fault, not a server crash.
var ErrUnknownComplaintType = errors.New("unknown complaint type")

//go:embed templates/*.txt
var templateFS embed.FS

// templateFiles maps each complaint type to its static template resource
var templateFiles = map[string]string{
	"cybercrime": "templates/cybercrime.txt",
	"fir":        "templates/fir.txt",
	"platform":   "templates/platform.txt",
}

// IncidentRecorder persists an audit row for a generated report. Recording
// is best-effort; the generator logs and swallows its failures.
type IncidentRecorder interface {
	RecordReport(ctx context.Context, complaintType, incidentText string) error
}

// Generator turns a free-form incident description into a formal report
// using a static template and the text generation service.
type Generator struct {
	llm      ai.ChatCompleter
	recorder IncidentRecorder // nil when no store is configured
	logger   *logger.Logger
}

// NewGenerator creates a report generator. recorder may be nil.
func NewGenerator(llm ai.ChatCompleter, recorder IncidentRecorder, log *logger.Logger) *Generator {
	return &Generator{
		llm:      llm,
		recorder: recorder,
		logger:   log.WithComponent("report-generator"),
	}
}

// Template returns the static template for a complaint type
func Template(complaintType string) (string, error) {
	file, ok := templateFiles[complaintType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownComplaintType, complaintType)
	}
	data, err := templateFS.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", file, err)
	}
	return string(data), nil
}

// ComplaintTypes returns the supported complaint type keys
func ComplaintTypes() []string {
	return []string{"cybercrime", "fir", "platform"}
}

// Generate produces a formal report for the incident. An unknown complaint
// type fails before any generative call is made.
func (g *Generator) Generate(ctx context.Context, complaintType, incidentText string) (string, error) {
	tmpl, err := Template(complaintType)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`%s

USER INCIDENT DESCRIPTION:
%s

Generate a structured, formal report suitable for official submission.
Do not ask questions.
Do not invent facts.`, tmpl, incidentText)

	reportText, err := g.llm.Chat(ctx, []ai.Message{
		{Role: "system", Content: "You generate formal complaint reports."},
		{Role: "user", Content: prompt},
	}, ai.ChatOptions{Temperature: 0.3, MaxTokens: 400})
	if err != nil {
		return "", fmt.Errorf("report generation: %w", err)
	}

	if g.recorder != nil {
		if err := g.recorder.RecordReport(ctx, complaintType, incidentText); err != nil {
			g.logger.Warn().Err(err).Str("complaint_type", complaintType).Msg("failed to record report audit row")
		}
	}

	return reportText, nil
}
