// Package account composes authentication: credential and federated sign-in,
// OTP-gated registration, and sign-out. Successful auth responses replace
// the session wholesale; failed ones leave it untouched.
package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/alsafar-travels/umrahdesk/internal/backend"
	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/errs"
	"github.com/alsafar-travels/umrahdesk/internal/otp"
	"go.uber.org/zap"
)

// AccountUseCase is the authentication surface consumed by the HTTP facade.
type AccountUseCase interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Register(ctx context.Context, in RegisterInput) (domain.Session, error)
	GoogleSignIn(ctx context.Context, idToken string) (domain.Session, error)
	Refresh(ctx context.Context) (domain.Session, error)
	Logout(ctx context.Context) error
}

type AuthBackend interface {
	Login(ctx context.Context, email, password string) (backend.SessionPayload, error)
	Register(ctx context.Context, req backend.RegisterRequest) (backend.SessionPayload, error)
	GoogleSignIn(ctx context.Context, idToken string) (backend.SessionPayload, error)
	Me(ctx context.Context) (backend.Profile, error)
}

// SessionSink is the slice of the session store the service writes to.
type SessionSink interface {
	Session() domain.Session
	SetSession(ctx context.Context, sess domain.Session) error
	Logout(ctx context.Context) error
}

type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	CountryCode string
	Mobile      string
	Password    string
}

type Service struct {
	backend AuthBackend
	store   SessionSink
	flow    *otp.Flow
	logger  *zap.Logger
}

func NewService(ab AuthBackend, store SessionSink, flow *otp.Flow, logger *zap.Logger) *Service {
	return &Service{backend: ab, store: store, flow: flow, logger: logger}
}

func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	payload, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	if payload.Token == "" {
		return domain.Session{}, fmt.Errorf("%w: auth response carried no token", errs.ErrUnavailable)
	}
	sess := payload.Session()
	if err := s.store.SetSession(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// Register completes the OTP-gated sign-up. It is rejected locally, without
// a network call, unless the verification flow holds a token for exactly the
// number being registered.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.Session, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return domain.Session{}, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}

	mobile := otp.NormalizeMobile(in.CountryCode, in.Mobile)
	token, err := s.flow.RegistrationToken(mobile)
	if err != nil {
		return domain.Session{}, err
	}

	payload, err := s.backend.Register(ctx, backend.RegisterRequest{
		FirstName:               in.FirstName,
		LastName:                in.LastName,
		Email:                   in.Email,
		MobileNumber:            mobile,
		MobileVerificationToken: token,
		Password:                in.Password,
	})
	if err != nil {
		return domain.Session{}, err
	}
	if payload.Token == "" {
		return domain.Session{}, fmt.Errorf("%w: auth response carried no token", errs.ErrUnavailable)
	}

	sess := payload.Session()
	if err := s.store.SetSession(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	s.flow.Reset()
	return sess, nil
}

func (s *Service) GoogleSignIn(ctx context.Context, idToken string) (domain.Session, error) {
	if strings.TrimSpace(idToken) == "" {
		return domain.Session{}, fmt.Errorf("%w: idToken is required", errs.ErrValidation)
	}
	payload, err := s.backend.GoogleSignIn(ctx, idToken)
	if err != nil {
		return domain.Session{}, err
	}
	if payload.Token == "" {
		return domain.Session{}, fmt.Errorf("%w: auth response carried no token", errs.ErrUnavailable)
	}
	sess := payload.Session()
	if err := s.store.SetSession(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// Refresh pulls the current profile and folds it into the session, keeping
// the existing token and role when the backend omits them.
func (s *Service) Refresh(ctx context.Context) (domain.Session, error) {
	current := s.store.Session()
	if !current.Authenticated() {
		return domain.Session{}, errs.ErrUnauthenticated
	}
	profile, err := s.backend.Me(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	sess := domain.Session{
		Token:        current.Token,
		Role:         profile.Role,
		Email:        profile.User,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		MobileNumber: profile.MobileNumber,
		TenantID:     profile.TenantID,
	}
	if sess.Role == "" {
		sess.Role = current.Role
	}
	if err := s.store.SetSession(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.store.Logout(ctx)
}

var _ AccountUseCase = (*Service)(nil)
