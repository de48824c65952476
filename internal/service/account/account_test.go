package account

import (
	"context"
	"errors"
	"testing"

	"github.com/alsafar-travels/umrahdesk/internal/backend"
	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/errs"
	"github.com/alsafar-travels/umrahdesk/internal/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAuthBackend struct {
	mock.Mock
}

func (m *MockAuthBackend) Login(ctx context.Context, email, password string) (backend.SessionPayload, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(backend.SessionPayload), args.Error(1)
}

func (m *MockAuthBackend) Register(ctx context.Context, req backend.RegisterRequest) (backend.SessionPayload, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(backend.SessionPayload), args.Error(1)
}

func (m *MockAuthBackend) GoogleSignIn(ctx context.Context, idToken string) (backend.SessionPayload, error) {
	args := m.Called(ctx, idToken)
	return args.Get(0).(backend.SessionPayload), args.Error(1)
}

func (m *MockAuthBackend) Me(ctx context.Context) (backend.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).(backend.Profile), args.Error(1)
}

type memSink struct {
	sess      domain.Session
	loggedOut bool
}

func (s *memSink) Session() domain.Session { return s.sess }

func (s *memSink) SetSession(_ context.Context, sess domain.Session) error {
	s.sess = sess
	return nil
}

func (s *memSink) Logout(context.Context) error {
	s.sess = domain.Session{}
	s.loggedOut = true
	return nil
}

type stubVerifier struct {
	token string
}

func (v stubVerifier) RequestOTP(context.Context, string) (backend.OTPChallenge, error) {
	return backend.OTPChallenge{}, nil
}

func (v stubVerifier) VerifyOTP(context.Context, string, string) (string, error) {
	return v.token, nil
}

func verifiedFlow(t *testing.T, token, countryCode, local string) *otp.Flow {
	t.Helper()
	flow := otp.NewFlow(stubVerifier{token: token}, zap.NewNop())
	flow.SetMobile(countryCode, local)
	_, err := flow.RequestChallenge(context.Background())
	require.NoError(t, err)
	require.NoError(t, flow.Verify(context.Background(), "123456"))
	return flow
}

func TestLogin_ReplacesSessionWholesale(t *testing.T) {
	ab := &MockAuthBackend{}
	sink := &memSink{sess: domain.Session{Token: "old", MobileNumber: "+911111111111"}}
	svc := NewService(ab, sink, otp.NewFlow(stubVerifier{}, zap.NewNop()), zap.NewNop())

	payload := backend.SessionPayload{Token: "fresh", Role: domain.RoleUser, User: "pilgrim@example.com", TenantID: "makkah-tours"}
	ab.On("Login", mock.Anything, "pilgrim@example.com", "secret").Return(payload, nil)

	sess, err := svc.Login(context.Background(), "pilgrim@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "fresh", sess.Token)
	assert.Equal(t, sess, sink.sess)
	// Nothing from the previous session survives the replacement.
	assert.Empty(t, sink.sess.MobileNumber)
}

func TestLogin_RejectedCredentialsLeaveSessionUntouched(t *testing.T) {
	ab := &MockAuthBackend{}
	sink := &memSink{sess: domain.Session{Token: "current", Email: "pilgrim@example.com"}}
	svc := NewService(ab, sink, otp.NewFlow(stubVerifier{}, zap.NewNop()), zap.NewNop())

	ab.On("Login", mock.Anything, "pilgrim@example.com", "wrong").
		Return(backend.SessionPayload{}, errors.New("Invalid credentials"))

	_, err := svc.Login(context.Background(), "pilgrim@example.com", "wrong")

	assert.EqualError(t, err, "Invalid credentials")
	assert.Equal(t, "current", sink.sess.Token)
}

func TestLogin_TokenlessResponseIsAnError(t *testing.T) {
	ab := &MockAuthBackend{}
	sink := &memSink{}
	svc := NewService(ab, sink, otp.NewFlow(stubVerifier{}, zap.NewNop()), zap.NewNop())

	ab.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(backend.SessionPayload{User: "pilgrim@example.com"}, nil)

	_, err := svc.Login(context.Background(), "pilgrim@example.com", "secret")

	assert.ErrorIs(t, err, errs.ErrUnavailable)
	assert.False(t, sink.sess.Authenticated())
}

func TestRegister_BlockedWithoutVerifiedMobile(t *testing.T) {
	ab := &MockAuthBackend{}
	sink := &memSink{}
	flow := otp.NewFlow(stubVerifier{}, zap.NewNop())
	svc := NewService(ab, sink, flow, zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "new@example.com",
		Password:    "secret",
		CountryCode: "+91",
		Mobile:      "9876543210",
	})

	assert.ErrorIs(t, err, errs.ErrValidation)
	ab.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_SendsVerificationTokenAndResetsFlow(t *testing.T) {
	ab := &MockAuthBackend{}
	sink := &memSink{}
	flow := verifiedFlow(t, "verify-token", "+91", "9876543210")
	svc := NewService(ab, sink, flow, zap.NewNop())

	ab.On("Register", mock.Anything, backend.RegisterRequest{
		FirstName:               "Ahmed",
		LastName:                "Khan",
		Email:                   "new@example.com",
		MobileNumber:            "+919876543210",
		MobileVerificationToken: "verify-token",
		Password:                "secret",
	}).Return(backend.SessionPayload{Token: "session-token", Role: domain.RoleUser}, nil)

	sess, err := svc.Register(context.Background(), RegisterInput{
		FirstName:   "Ahmed",
		LastName:    "Khan",
		Email:       "new@example.com",
		Password:    "secret",
		CountryCode: "+91",
		Mobile:      "9876543210",
	})

	require.NoError(t, err)
	assert.Equal(t, "session-token", sess.Token)
	assert.Equal(t, otp.StateIdle, flow.State())
	ab.AssertExpectations(t)
}

func TestRegister_TokenForDifferentNumberRejected(t *testing.T) {
	ab := &MockAuthBackend{}
	sink := &memSink{}
	flow := verifiedFlow(t, "verify-token", "+91", "9876543210")
	svc := NewService(ab, sink, flow, zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "new@example.com",
		Password:    "secret",
		CountryCode: "+91",
		Mobile:      "9876543211",
	})

	assert.ErrorIs(t, err, errs.ErrValidation)
	ab.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_RequiresEmailAndPassword(t *testing.T) {
	ab := &MockAuthBackend{}
	svc := NewService(ab, &memSink{}, otp.NewFlow(stubVerifier{}, zap.NewNop()), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterInput{CountryCode: "+91", Mobile: "9876543210"})

	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestGoogleSignIn_RequiresIDToken(t *testing.T) {
	ab := &MockAuthBackend{}
	svc := NewService(ab, &memSink{}, otp.NewFlow(stubVerifier{}, zap.NewNop()), zap.NewNop())

	_, err := svc.GoogleSignIn(context.Background(), "  ")

	assert.ErrorIs(t, err, errs.ErrValidation)
	ab.AssertNotCalled(t, "GoogleSignIn", mock.Anything, mock.Anything)
}

func TestRefresh_KeepsTokenAndFoldsProfile(t *testing.T) {
	ab := &MockAuthBackend{}
	sink := &memSink{sess: domain.Session{Token: "current", Role: domain.RoleAdmin}}
	svc := NewService(ab, sink, otp.NewFlow(stubVerifier{}, zap.NewNop()), zap.NewNop())

	ab.On("Me", mock.Anything).Return(backend.Profile{
		User:         "admin@example.com",
		FirstName:    "Aisha",
		TenantID:     "makkah-tours",
		MobileNumber: "+919876543210",
	}, nil)

	sess, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "current", sess.Token)
	assert.Equal(t, domain.RoleAdmin, sess.Role)
	assert.Equal(t, "admin@example.com", sess.Email)
	assert.Equal(t, "makkah-tours", sess.TenantID)
}

func TestRefresh_AnonymousFailsLocally(t *testing.T) {
	ab := &MockAuthBackend{}
	svc := NewService(ab, &memSink{}, otp.NewFlow(stubVerifier{}, zap.NewNop()), zap.NewNop())

	_, err := svc.Refresh(context.Background())

	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	ab.AssertNotCalled(t, "Me", mock.Anything)
}

func TestLogout_DelegatesToStore(t *testing.T) {
	sink := &memSink{sess: domain.Session{Token: "current"}}
	svc := NewService(&MockAuthBackend{}, sink, otp.NewFlow(stubVerifier{}, zap.NewNop()), zap.NewNop())

	require.NoError(t, svc.Logout(context.Background()))
	assert.True(t, sink.loggedOut)
}
