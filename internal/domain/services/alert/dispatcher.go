package alert

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"suraksha-api/internal/domain/services/auth"
	"suraksha-api/pkg/logger"
)

// SMSSender delivers one SMS message. Delivery is best-effort throughout
// this package: a failed send is logged, never propagated to the caller.
type SMSSender interface {
	Send(ctx context.Context, toNumber, message string) error
}

// DispatchRecorder persists an audit row for a dispatched alert
type DispatchRecorder interface {
	RecordAlert(ctx context.Context, email, location, incidentText string, recipients []string) error
}

// Dispatcher fans a critical incident alert out to the emergency contact
// and the cybercrime cell.
type Dispatcher struct {
	sender          SMSSender
	recorder        DispatchRecorder // nil when no store is configured
	cybercellNumber string
	logger          *logger.Logger
}

// NewDispatcher creates an alert dispatcher. recorder may be nil.
func NewDispatcher(sender SMSSender, recorder DispatchRecorder, cybercellNumber string, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		sender:          sender,
		recorder:        recorder,
		cybercellNumber: cybercellNumber,
		logger:          log.WithComponent("alert-dispatcher"),
	}
}

// DispatchStatus reports which recipients an alert went out to
type DispatchStatus struct {
	Dispatched bool     `json:"dispatched"`
	Recipients []string `json:"recipients"`
}

// Trigger composes the critical alert message and sends it to the
// emergency contact (when given) and the cybercell number. Send failures
// are swallowed per recipient; the returned status lists the recipients
// that were attempted.
func (d *Dispatcher) Trigger(ctx context.Context, identity auth.Result, incidentText, emergencyContact, location string) DispatchStatus {
	if location == "" {
		location = "India"
	}

	user := "unverified user"
	if identity.Verified {
		user = identity.Email
	}

	msg := fmt.Sprintf("CRITICAL DIGITAL SAFETY ALERT \n\n"+
		"User: %s\n"+
		"Location: %s\n\n"+
		"A high-risk digital incident was detected.\n\n"+
		"Incident summary:\n%s...\n\n"+
		"Please take immediate action.", user, location, truncate(incidentText, 300))

	var recipients []string
	if emergencyContact != "" {
		recipients = append(recipients, emergencyContact)
	}
	recipients = append(recipients, d.cybercellNumber)

	for _, to := range recipients {
		if err := d.sender.Send(ctx, to, msg); err != nil {
			d.logger.Error().Err(err).Str("to", to).Msg("failed to send alert SMS")
		}
	}

	if d.recorder != nil {
		email := ""
		if identity.Verified {
			email = identity.Email
		}
		if err := d.recorder.RecordAlert(ctx, email, location, incidentText, recipients); err != nil {
			d.logger.Warn().Err(err).Msg("failed to record alert audit row")
		}
	}

	d.logger.Info().Int("recipients", len(recipients)).Str("location", location).Msg("alert dispatched")
	return DispatchStatus{Dispatched: true, Recipients: recipients}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TwilioSender sends SMS through the Twilio REST API
type TwilioSender struct {
	httpClient *http.Client
	accountSID string
	authToken  string
	fromNumber string
	logger     *logger.Logger
}

// NewTwilioSender creates a Twilio-backed SMS sender
func NewTwilioSender(accountSID, authToken, fromNumber string, log *logger.Logger) *TwilioSender {
	return &TwilioSender{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		logger:     log.WithComponent("twilio"),
	}
}

// Send delivers one SMS via the Twilio messages endpoint
func (t *TwilioSender) Send(ctx context.Context, toNumber, message string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", t.accountSID)

	form := url.Values{}
	form.Set("To", toNumber)
	form.Set("From", t.fromNumber)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio error %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// NoopSender is the clearly-labeled stand-in used when SMS credentials are
// not configured. It logs what would have been sent and succeeds.
type NoopSender struct {
	logger *logger.Logger
}

// NewNoopSender creates a no-op SMS sender
func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{logger: log.WithComponent("sms-noop")}
}

// Send logs the message instead of delivering it
func (n *NoopSender) Send(_ context.Context, toNumber, message string) error {
	n.logger.Info().Str("to", toNumber).Int("chars", len(message)).Msg("SMS delivery not configured, dropping alert")
	return nil
}
