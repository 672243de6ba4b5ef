package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"suraksha-api/pkg/logger"
)

// Result is the outcome of token verification. Verified carries the
// account email; an unverified result carries no identity at all, so a
// demo path can never be mistaken for a real user.
type Result struct {
	Verified bool
	Email    string
}

// Verified constructs a verified identity
func Verified(email string) Result {
	return Result{Verified: true, Email: email}
}

// Unverified constructs the anonymous identity
func Unverified() Result {
	return Result{}
}

// Verifier validates access tokens against the identity backend
type Verifier interface {
	Verify(ctx context.Context, accessToken string) (Result, error)
}

// SupabaseVerifier validates tokens against a Supabase auth endpoint
type SupabaseVerifier struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
	logger     *logger.Logger
}

// NewSupabaseVerifier creates a verifier for the given project URL
func NewSupabaseVerifier(baseURL, anonKey string, log *logger.Logger) *SupabaseVerifier {
	return &SupabaseVerifier{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		anonKey:    anonKey,
		logger:     log.WithComponent("auth"),
	}
}

// Verify resolves the token's user. An invalid or expired token is an
// error; callers surface it as an authentication failure.
func (v *SupabaseVerifier) Verify(ctx context.Context, accessToken string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Unverified(), err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", v.anonKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return Unverified(), fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unverified(), fmt.Errorf("invalid access token (status %d)", resp.StatusCode)
	}

	var user struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return Unverified(), fmt.Errorf("decode auth response: %w", err)
	}

	return Verified(user.Email), nil
}

// DemoVerifier is used when no identity backend is configured. Every token
// resolves to the unverified identity; it never errors, and it never
// fabricates an email.
type DemoVerifier struct {
	logger *logger.Logger
}

// NewDemoVerifier creates the no-backend verifier
func NewDemoVerifier(log *logger.Logger) *DemoVerifier {
	return &DemoVerifier{logger: log.WithComponent("auth-demo")}
}

// Verify always returns the unverified identity
func (v *DemoVerifier) Verify(_ context.Context, _ string) (Result, error) {
	v.logger.Debug().Msg("identity backend not configured, treating caller as unverified")
	return Unverified(), nil
}
