// File: pkg/verifyflow/coordinator.go
package verifyflow

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Workflow status names as the server reports them.
const (
	StatusNone         = "none"
	StatusEmailPending = "email_pending"
	StatusPhonePending = "phone_pending"
	StatusStatsPending = "stats_pending"
	StatusInReview     = "in_review"
	StatusNeedsUpdates = "needs_updates"
	StatusVerified     = "verified"
)

// DefaultSendCooldown is assumed after a successful code send. The server
// overrides it via retryAfter when it disagrees.
const DefaultSendCooldown = 60

// StepFor resolves a status to its wizard step index. needs_updates lands
// back on the stats step so the player can resubmit.
func StepFor(status string) int {
	switch status {
	case StatusNone, StatusEmailPending:
		return 0
	case StatusPhonePending:
		return 1
	case StatusStatsPending, StatusNeedsUpdates:
		return 2
	case StatusInReview:
		return 3
	case StatusVerified:
		return 4
	default:
		return 0
	}
}

// SplitSupportingFiles turns textarea input into a clean URL list: split
// on newlines, trim, drop empties.
func SplitSupportingFiles(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Coordinator drives the verification wizard client side. It owns the form
// fields, the current step, and the per-channel resend cooldowns, and it
// decrements those cooldowns on a ticker so UIs can re-render countdowns.
type Coordinator struct {
	client *Client

	mu            sync.Mutex
	status        string
	emailCooldown int
	phoneCooldown int

	// form state
	Phone           string
	Attested        bool
	Snapshot        Snapshot
	SupportingFiles string // raw textarea text, split on submit

	tickInterval time.Duration
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// NewCoordinator starts the cooldown ticker immediately. Call Close when
// the wizard unmounts.
func NewCoordinator(client *Client, tickInterval time.Duration) *Coordinator {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	c := &Coordinator{
		client:       client,
		status:       StatusNone,
		tickInterval: tickInterval,
		stopCh:       make(chan struct{}),
	}
	go c.tickLoop()
	return c
}

func (c *Coordinator) tickLoop() {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			if c.emailCooldown > 0 {
				c.emailCooldown--
			}
			if c.phoneCooldown > 0 {
				c.phoneCooldown--
			}
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

// Close stops the ticker and zeroes both cooldowns. Safe to call twice.
func (c *Coordinator) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.mu.Lock()
		c.emailCooldown = 0
		c.phoneCooldown = 0
		c.mu.Unlock()
	})
}

// Status returns the last known workflow status.
func (c *Coordinator) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Step returns the wizard step for the last known status.
func (c *Coordinator) Step() int {
	return StepFor(c.Status())
}

// Cooldowns returns the remaining seconds before each channel may resend.
func (c *Coordinator) Cooldowns() (email, phone int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emailCooldown, c.phoneCooldown
}

// Refresh pulls the authoritative state, including server-computed
// cooldowns, so a reloaded client does not assume zero.
func (c *Coordinator) Refresh(ctx context.Context) (*State, error) {
	state, err := c.client.Me(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.status = state.Status
	c.emailCooldown = state.EmailRetryAfter
	c.phoneCooldown = state.PhoneRetryAfter
	if state.Phone != "" {
		c.Phone = state.Phone
	}
	c.Attested = state.Attested
	c.mu.Unlock()

	return state, nil
}

// Start requests the email code. A success arms the default cooldown; a
// rate limit arms the server's retryAfter; any other failure leaves both
// the cooldown and the status untouched.
func (c *Coordinator) Start(ctx context.Context) error {
	err := c.client.Start(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err == nil:
		c.emailCooldown = DefaultSendCooldown
		if c.status == StatusNone {
			c.status = StatusEmailPending
		}
		return nil
	case isRateLimited(err):
		c.emailCooldown = retryAfter(err)
		return err
	default:
		return err
	}
}

// ConfirmEmail redeems the emailed code and advances to the phone step.
func (c *Coordinator) ConfirmEmail(ctx context.Context, code string) error {
	if err := c.client.ConfirmEmail(ctx, code); err != nil {
		return err
	}
	c.mu.Lock()
	c.status = StatusPhonePending
	c.emailCooldown = 0
	c.mu.Unlock()
	return nil
}

// SendPhoneCode requests the SMS code for the stored phone number.
func (c *Coordinator) SendPhoneCode(ctx context.Context) error {
	c.mu.Lock()
	phone := c.Phone
	c.mu.Unlock()

	err := c.client.SendPhoneCode(ctx, phone)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err == nil:
		c.phoneCooldown = DefaultSendCooldown
		return nil
	case isRateLimited(err):
		c.phoneCooldown = retryAfter(err)
		return err
	default:
		return err
	}
}

// ConfirmPhone redeems the SMS code and advances to the stats step.
func (c *Coordinator) ConfirmPhone(ctx context.Context, code string) error {
	if err := c.client.ConfirmPhone(ctx, code); err != nil {
		return err
	}
	c.mu.Lock()
	c.status = StatusStatsPending
	c.phoneCooldown = 0
	c.mu.Unlock()
	return nil
}

// SubmitStats validates the attestation locally, then submits. Without the
// attestation no request is made at all.
func (c *Coordinator) SubmitStats(ctx context.Context) error {
	c.mu.Lock()
	attested := c.Attested
	snapshot := c.Snapshot
	files := SplitSupportingFiles(c.SupportingFiles)
	c.mu.Unlock()

	if !attested {
		return &Error{Kind: KindValidation, Message: "You must certify your stats are accurate."}
	}

	if err := c.client.SubmitStats(ctx, snapshot, attested, files); err != nil {
		return err
	}

	c.mu.Lock()
	c.status = StatusInReview
	c.mu.Unlock()
	return nil
}

func isRateLimited(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindRateLimited
}

func retryAfter(err error) int {
	if e, ok := err.(*Error); ok && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	return DefaultSendCooldown
}
