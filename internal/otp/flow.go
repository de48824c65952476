// Package otp drives the mobile verification gate in front of registration.
// A phone number is turned into a single-use verification token through a
// request/verify round trip; any edit to the number invalidates the result.
package otp

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/alsafar-travels/umrahdesk/internal/backend"
	"github.com/alsafar-travels/umrahdesk/internal/errs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type State int

const (
	StateIdle State = iota
	StateChallengeRequested
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateChallengeRequested:
		return "challenge_requested"
	case StateVerified:
		return "verified"
	default:
		return "idle"
	}
}

// Verifier is the slice of the backend client the flow needs.
type Verifier interface {
	RequestOTP(ctx context.Context, mobileNumber string) (backend.OTPChallenge, error)
	VerifyOTP(ctx context.Context, mobileNumber, otp string) (string, error)
}

var mobilePattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// NormalizeMobile builds a full E.164-style number from a country code and a
// local part. A local part already carrying a leading + wins over the country
// code; leading zeros are stripped from the local digits.
func NormalizeMobile(countryCode, local string) string {
	local = strings.TrimSpace(local)
	if strings.HasPrefix(local, "+") {
		return strings.Join(strings.Fields(local), "")
	}

	countryDigits := digits(countryCode)
	localDigits := strings.TrimLeft(digits(local), "0")
	if countryDigits == "" || localDigits == "" {
		return ""
	}
	return "+" + countryDigits + localDigits
}

// ValidMobile reports whether the normalized number looks like E.164:
// a plus, a non-zero leading digit, 7 to 15 digits total.
func ValidMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type Flow struct {
	mu       sync.Mutex
	state    State
	mobile   string
	token    string
	verifier Verifier
	logger   *zap.Logger
}

func NewFlow(verifier Verifier, logger *zap.Logger) *Flow {
	return &Flow{verifier: verifier, logger: logger}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Mobile() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mobile
}

// SetMobile records the number the user is registering with. Changing the
// country code or the local number after a challenge or a verification
// invalidates both: stale tokens must never be submitted.
func (f *Flow) SetMobile(countryCode, local string) string {
	normalized := NormalizeMobile(countryCode, local)

	f.mu.Lock()
	defer f.mu.Unlock()
	if normalized != f.mobile {
		f.mobile = normalized
		f.state = StateIdle
		f.token = ""
	}
	return normalized
}

// RequestChallenge asks the backend to send an OTP to the current number.
// A malformed number fails locally without a network call. Any previously
// verified token for the number is discarded.
func (f *Flow) RequestChallenge(ctx context.Context) (backend.OTPChallenge, error) {
	f.mu.Lock()
	mobile := f.mobile
	f.mu.Unlock()

	if !ValidMobile(mobile) {
		return backend.OTPChallenge{}, fmt.Errorf("%w: enter a valid mobile with country code, e.g. +919876543210", errs.ErrValidation)
	}

	challengeID := uuid.NewString()
	challenge, err := f.verifier.RequestOTP(ctx, mobile)
	if err != nil {
		f.logger.Warn("otp challenge request failed", zap.String("challenge_id", challengeID), zap.Error(err))
		return backend.OTPChallenge{}, err
	}

	f.mu.Lock()
	if f.mobile == mobile {
		f.state = StateChallengeRequested
		f.token = ""
	}
	f.mu.Unlock()

	f.logger.Info("otp challenge requested", zap.String("challenge_id", challengeID))
	return challenge, nil
}

// Verify exchanges the user-entered code for a verification token. A failure
// clears any held token and leaves the flow unverified, surfacing the
// backend's reason.
func (f *Flow) Verify(ctx context.Context, code string) error {
	f.mu.Lock()
	mobile := f.mobile
	f.mu.Unlock()

	if !ValidMobile(mobile) {
		return fmt.Errorf("%w: enter a valid mobile with country code before OTP verification", errs.ErrValidation)
	}

	token, err := f.verifier.VerifyOTP(ctx, mobile, code)
	if err != nil {
		f.mu.Lock()
		if f.mobile == mobile {
			f.token = ""
			if f.state == StateVerified {
				f.state = StateChallengeRequested
			}
		}
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mobile != mobile {
		// Number changed while the call was in flight; the token no
		// longer matches what the user will register with.
		return fmt.Errorf("%w: mobile number changed, request a new OTP", errs.ErrValidation)
	}
	f.state = StateVerified
	f.token = token
	return nil
}

// RegistrationToken returns the verification token for the given number.
// Registration is rejected locally unless the flow is verified and the token
// was issued for exactly that number.
func (f *Flow) RegistrationToken(mobile string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateVerified || f.token == "" || f.mobile != mobile {
		return "", fmt.Errorf("%w: verify mobile number with OTP before creating account", errs.ErrValidation)
	}
	return f.token, nil
}

// Reset returns the flow to idle, dropping any held token.
func (f *Flow) Reset() {
	f.mu.Lock()
	f.state = StateIdle
	f.mobile = ""
	f.token = ""
	f.mu.Unlock()
}
