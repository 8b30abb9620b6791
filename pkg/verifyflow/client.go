// File: pkg/verifyflow/client.go

// Package verifyflow is the client half of the player verification
// workflow: a REST client with typed errors plus a coordinator that tracks
// form state, the current step, and per-channel resend cooldowns.
package verifyflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrorKind classifies a workflow failure so callers can branch without
// string matching.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindRateLimited ErrorKind = "rate_limited"
	KindInvalidCode ErrorKind = "invalid_code"
	KindConflict    ErrorKind = "conflict"
	KindNetwork     ErrorKind = "network"
	KindServer      ErrorKind = "server"
)

// Error is the typed failure every Client call returns.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	// RetryAfter is set only for KindRateLimited, in seconds.
	RetryAfter int
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("verification request failed (%s)", e.Kind)
}

// TokenSource supplies the bearer token for each request so callers decide
// where credentials live.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource wrapping a fixed token string.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// SeasonLine is the stat line submitted for review.
type SeasonLine struct {
	Appearances   int `json:"appearances"`
	Starts        int `json:"starts"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	MinutesPlayed int `json:"minutes_played"`
	CleanSheets   int `json:"clean_sheets,omitempty"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
}

// Snapshot is the frozen stats payload the reviewer sees.
type Snapshot struct {
	Stats     SeasonLine `json:"stats"`
	GPA       float64    `json:"gpa"`
	Positions []string   `json:"positions"`
}

// ReviewOutcome is the admin verdict attached to a decided submission.
type ReviewOutcome struct {
	Decision   string    `json:"decision"`
	Notes      string    `json:"notes"`
	ReviewerID uint      `json:"reviewer_id"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// State mirrors GET /api/verification/me.
type State struct {
	Status          string         `json:"status"`
	Step            int            `json:"step"`
	EmailConfirmed  bool           `json:"email_confirmed"`
	Phone           string         `json:"phone"`
	PhoneConfirmed  bool           `json:"phone_confirmed"`
	Attested        bool           `json:"attested"`
	SupportingFiles []string       `json:"supporting_files"`
	Snapshot        *Snapshot      `json:"stats_snapshot"`
	Review          *ReviewOutcome `json:"review"`
	EmailRetryAfter int            `json:"email_retry_after"`
	PhoneRetryAfter int            `json:"phone_retry_after"`
}

// Client calls the verification endpoints. All methods return *Error on
// failure.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient builds a Client. A nil httpClient falls back to a 15 second
// timeout default.
func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: httpClient,
	}
}

// Start begins the workflow by requesting the email code.
func (c *Client) Start(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/verification/start", nil, nil)
}

// ConfirmEmail redeems the emailed code.
func (c *Client) ConfirmEmail(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/api/verification/email/confirm", map[string]string{"code": code}, nil)
}

// SendPhoneCode requests the SMS code for the given number.
func (c *Client) SendPhoneCode(ctx context.Context, phone string) error {
	return c.do(ctx, http.MethodPost, "/api/verification/phone/send", map[string]string{"phone": phone}, nil)
}

// ConfirmPhone redeems the SMS code.
func (c *Client) ConfirmPhone(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, "/api/verification/phone/confirm", map[string]string{"code": code}, nil)
}

// SubmitStats sends the attested snapshot and supporting file URLs.
func (c *Client) SubmitStats(ctx context.Context, snapshot Snapshot, attested bool, supportingFiles []string) error {
	payload := map[string]interface{}{
		"statsSnapshot":   snapshot,
		"attested":        attested,
		"supportingFiles": supportingFiles,
	}
	return c.do(ctx, http.MethodPost, "/api/verification/stats", payload, nil)
}

// Me fetches the authoritative verification state.
func (c *Client) Me(ctx context.Context) (*State, error) {
	var state State
	if err := c.do(ctx, http.MethodGet, "/api/verification/me", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

type errorBody struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: err.Error()}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return &Error{Kind: KindValidation, Message: "no auth token available: " + err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return &Error{Kind: KindServer, Message: "malformed response: " + err.Error(), StatusCode: resp.StatusCode}
			}
		}
		return nil
	}

	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)

	return classify(resp.StatusCode, eb)
}

// classify maps an HTTP failure onto a typed Error. The 429 contract
// carries retryAfter in the body; "Invalid code" is its own kind so forms
// can highlight the code field.
func classify(status int, eb errorBody) *Error {
	e := &Error{Message: eb.Error, StatusCode: status}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		e.RetryAfter = eb.RetryAfter
	case status == http.StatusBadRequest && strings.EqualFold(eb.Error, "Invalid code"):
		e.Kind = KindInvalidCode
	case status == http.StatusBadRequest:
		e.Kind = KindValidation
	case status == http.StatusConflict:
		e.Kind = KindConflict
	case status >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindServer
	}
	return e
}
