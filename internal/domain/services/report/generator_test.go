package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suraksha-api/internal/domain/services/ai"
	"suraksha-api/internal/domain/services/report"
	"suraksha-api/pkg/logger"
)

type fakeCompleter struct {
	reply    string
	err      error
	calls    int
	lastUser string
}

func (f *fakeCompleter) Chat(ctx context.Context, messages []ai.Message, opts ai.ChatOptions) (string, error) {
	f.calls++
	for _, m := range messages {
		if m.Role == "user" {
			f.lastUser = m.Content
		}
	}
	return f.reply, f.err
}

type fakeRecorder struct {
	err           error
	calls         int
	complaintType string
}

func (f *fakeRecorder) RecordReport(ctx context.Context, complaintType, incidentText string) error {
	f.calls++
	f.complaintType = complaintType
	return f.err
}

func TestGenerator_Generate(t *testing.T) {
	llm := &fakeCompleter{reply: "FORMAL COMPLAINT\n..."}
	rec := &fakeRecorder{}
	g := report.NewGenerator(llm, rec, logger.NewDefault())

	out, err := g.Generate(context.Background(), "cybercrime", "I was defrauded of 5000 rupees via a fake UPI link")

	require.NoError(t, err)
	assert.Equal(t, "FORMAL COMPLAINT\n...", out)
	assert.Contains(t, llm.lastUser, "I was defrauded of 5000 rupees")
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, "cybercrime", rec.complaintType)
}

func TestGenerator_UnknownComplaintType(t *testing.T) {
	llm := &fakeCompleter{reply: "should not be called"}
	g := report.NewGenerator(llm, nil, logger.NewDefault())

	_, err := g.Generate(context.Background(), "parking-ticket", "some incident")

	assert.ErrorIs(t, err, report.ErrUnknownComplaintType)
	assert.Equal(t, 0, llm.calls)
}

func TestGenerator_LLMFailure(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("upstream timeout")}
	rec := &fakeRecorder{}
	g := report.NewGenerator(llm, rec, logger.NewDefault())

	_, err := g.Generate(context.Background(), "fir", "some incident")

	require.Error(t, err)
	assert.Equal(t, 0, rec.calls)
}

func TestGenerator_RecorderFailureIsSwallowed(t *testing.T) {
	llm := &fakeCompleter{reply: "report text"}
	rec := &fakeRecorder{err: errors.New("db down")}
	g := report.NewGenerator(llm, rec, logger.NewDefault())

	out, err := g.Generate(context.Background(), "platform", "harassment on social media")

	require.NoError(t, err)
	assert.Equal(t, "report text", out)
	assert.Equal(t, 1, rec.calls)
}

func TestTemplate_AllComplaintTypes(t *testing.T) {
	for _, ct := range report.ComplaintTypes() {
		tmpl, err := report.Template(ct)
		require.NoError(t, err, ct)
		assert.NotEmpty(t, tmpl, ct)
	}
}

func TestTemplate_Unknown(t *testing.T) {
	_, err := report.Template("noise-complaint")
	assert.ErrorIs(t, err, report.ErrUnknownComplaintType)
}
