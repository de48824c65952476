package backend

import (
	"context"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
)

// SessionPayload is the body of every successful auth response. The backend
// reports the account email under "user".
type SessionPayload struct {
	Token        string      `json:"token"`
	Role         domain.Role `json:"role"`
	User         string      `json:"user"`
	TenantID     string      `json:"tenantId"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	MobileNumber string      `json:"mobileNumber"`
}

// Session converts the payload into a desk session.
func (p SessionPayload) Session() domain.Session {
	return domain.Session{
		Token:        p.Token,
		Role:         p.Role,
		Email:        p.User,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		MobileNumber: p.MobileNumber,
		TenantID:     p.TenantID,
	}
}

// Profile is the GET /auth/me body. It never carries a token.
type Profile struct {
	User         string      `json:"user"`
	Role         domain.Role `json:"role"`
	TenantID     string      `json:"tenantId"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	MobileNumber string      `json:"mobileNumber"`
}

type RegisterRequest struct {
	FirstName               string `json:"firstName"`
	LastName                string `json:"lastName"`
	Email                   string `json:"email"`
	MobileNumber            string `json:"mobileNumber"`
	MobileVerificationToken string `json:"mobileVerificationToken"`
	Password                string `json:"password"`
}

// OTPChallenge is the response to an OTP request. Demo deployments echo the
// generated code in DemoOTP.
type OTPChallenge struct {
	Message   string `json:"message"`
	ExpiresAt string `json:"expiresAt"`
	DemoOTP   string `json:"demoOtp,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (SessionPayload, error) {
	var out SessionPayload
	err := c.post(ctx, "/auth/login", map[string]string{"email": email, "password": password}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (SessionPayload, error) {
	var out SessionPayload
	err := c.post(ctx, "/auth/register", req, &out)
	return out, err
}

func (c *Client) GoogleSignIn(ctx context.Context, idToken string) (SessionPayload, error) {
	var out SessionPayload
	err := c.post(ctx, "/auth/google", map[string]string{"idToken": idToken}, &out)
	return out, err
}

func (c *Client) RequestOTP(ctx context.Context, mobileNumber string) (OTPChallenge, error) {
	var out OTPChallenge
	err := c.post(ctx, "/auth/otp/request", map[string]string{"mobileNumber": mobileNumber}, &out)
	return out, err
}

// VerifyOTP exchanges a correct code for a single-use verification token.
func (c *Client) VerifyOTP(ctx context.Context, mobileNumber, otp string) (string, error) {
	var out struct {
		MobileVerificationToken string `json:"mobileVerificationToken"`
	}
	err := c.post(ctx, "/auth/otp/verify", map[string]string{"mobileNumber": mobileNumber, "otp": otp}, &out)
	return out.MobileVerificationToken, err
}

func (c *Client) Me(ctx context.Context) (Profile, error) {
	var out Profile
	err := c.get(ctx, "/auth/me", &out)
	return out, err
}
