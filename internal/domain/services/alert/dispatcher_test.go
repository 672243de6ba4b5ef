package alert_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suraksha-api/internal/domain/services/alert"
	"suraksha-api/internal/domain/services/auth"
	"suraksha-api/pkg/logger"
)

type fakeSender struct {
	sent map[string]string
	err  error
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: map[string]string{}}
}

func (f *fakeSender) Send(ctx context.Context, toNumber, message string) error {
	f.sent[toNumber] = message
	return f.err
}

type fakeAlertRecorder struct {
	email      string
	recipients []string
	calls      int
	err        error
}

func (f *fakeAlertRecorder) RecordAlert(ctx context.Context, email, location, incidentText string, recipients []string) error {
	f.calls++
	f.email = email
	f.recipients = recipients
	return f.err
}

const cybercell = "+919999999999"

func TestDispatcher_SendsToContactAndCybercell(t *testing.T) {
	sender := newFakeSender()
	d := alert.NewDispatcher(sender, nil, cybercell, logger.NewDefault())

	status := d.Trigger(context.Background(), auth.Verified("user@example.com"), "threatening messages", "+911234567890", "Mumbai")

	assert.True(t, status.Dispatched)
	assert.Equal(t, []string{"+911234567890", cybercell}, status.Recipients)
	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[cybercell], "CRITICAL DIGITAL SAFETY ALERT")
	assert.Contains(t, sender.sent[cybercell], "user@example.com")
	assert.Contains(t, sender.sent[cybercell], "Mumbai")
}

func TestDispatcher_NoEmergencyContact(t *testing.T) {
	sender := newFakeSender()
	d := alert.NewDispatcher(sender, nil, cybercell, logger.NewDefault())

	status := d.Trigger(context.Background(), auth.Unverified(), "incident", "", "")

	assert.Equal(t, []string{cybercell}, status.Recipients)
	assert.Contains(t, sender.sent[cybercell], "unverified user")
	assert.Contains(t, sender.sent[cybercell], "India")
}

func TestDispatcher_SendFailureStillDispatches(t *testing.T) {
	sender := newFakeSender()
	sender.err = errors.New("carrier rejected")
	rec := &fakeAlertRecorder{}
	d := alert.NewDispatcher(sender, rec, cybercell, logger.NewDefault())

	status := d.Trigger(context.Background(), auth.Unverified(), "incident", "+911111111111", "Delhi")

	assert.True(t, status.Dispatched)
	assert.Len(t, status.Recipients, 2)
	assert.Equal(t, 1, rec.calls)
}

func TestDispatcher_TruncatesLongIncident(t *testing.T) {
	sender := newFakeSender()
	d := alert.NewDispatcher(sender, nil, cybercell, logger.NewDefault())
	long := strings.Repeat("a", 1000)

	d.Trigger(context.Background(), auth.Unverified(), long, "", "")

	assert.Contains(t, sender.sent[cybercell], strings.Repeat("a", 300)+"...")
	assert.NotContains(t, sender.sent[cybercell], strings.Repeat("a", 301))
}

func TestDispatcher_RecordsVerifiedEmailOnly(t *testing.T) {
	rec := &fakeAlertRecorder{}
	d := alert.NewDispatcher(newFakeSender(), rec, cybercell, logger.NewDefault())

	d.Trigger(context.Background(), auth.Unverified(), "incident", "", "")
	assert.Equal(t, "", rec.email)

	d.Trigger(context.Background(), auth.Verified("a@b.c"), "incident", "", "")
	assert.Equal(t, "a@b.c", rec.email)
}
