package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAdminBackend struct {
	mock.Mock
}

func (m *MockAdminBackend) AdminListPackages(ctx context.Context) ([]domain.Package, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Package), args.Error(1)
}

func (m *MockAdminBackend) AdminCreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	args := m.Called(ctx, pkg)
	return args.Get(0).(domain.Package), args.Error(1)
}

func (m *MockAdminBackend) AdminUpdatePackage(ctx context.Context, id int64, pkg domain.Package) (domain.Package, error) {
	args := m.Called(ctx, id, pkg)
	return args.Get(0).(domain.Package), args.Error(1)
}

func (m *MockAdminBackend) AdminDeletePackage(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAdminBackend) AdminListBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockAdminBackend) AdminDeleteBooking(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockAdminBackend) AdminListPayments(ctx context.Context) ([]domain.Installment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockAdminBackend) AdminUpdatePayment(ctx context.Context, id int64, payment domain.Installment) (domain.Installment, error) {
	args := m.Called(ctx, id, payment)
	return args.Get(0).(domain.Installment), args.Error(1)
}

func (m *MockAdminBackend) AdminDeletePayment(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error {
	args := m.Called(ctx, topic, key, value, maxRetries)
	return args.Error(0)
}

type roleSession struct {
	role domain.Role
}

func (s roleSession) Session() domain.Session {
	return domain.Session{Token: "t", Role: s.role, TenantID: "makkah-tours"}
}

func adminSession() roleSession { return roleSession{role: domain.RoleAdmin} }

func expectLoadAll(ab *MockAdminBackend) {
	ab.On("AdminListPackages", mock.Anything).
		Return([]domain.Package{{ID: 1, Code: "gold-14", Price: 165000}}, nil)
	ab.On("AdminListBookings", mock.Anything).
		Return([]domain.Booking{{ID: 42, PackageID: "gold-14"}}, nil)
	ab.On("AdminListPayments", mock.Anything).
		Return([]domain.Installment{{ID: 7, BookingID: "42", Amount: 55000}}, nil)
}

func TestLoadAll_RefreshesAllThreeCollections(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, adminSession(), nil, "", zap.NewNop())
	expectLoadAll(ab)

	require.NoError(t, r.LoadAll(context.Background()))

	view := r.View()
	assert.Len(t, view.Packages, 1)
	assert.Len(t, view.Bookings, 1)
	assert.Len(t, view.Payments, 1)
	assert.False(t, view.LoadedAt.IsZero())
}

func TestLoadAll_OneFailureLeavesPreviousSnapshotIntact(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, adminSession(), nil, "", zap.NewNop())

	expectLoadAll(ab)
	require.NoError(t, r.LoadAll(context.Background()))
	before := r.View()

	failing := &MockAdminBackend{}
	failing.On("AdminListPackages", mock.Anything).
		Return([]domain.Package{{ID: 2, Code: "new"}}, nil)
	failing.On("AdminListBookings", mock.Anything).
		Return([]domain.Booking(nil), errors.New("bookings read timed out"))
	failing.On("AdminListPayments", mock.Anything).
		Return([]domain.Installment{}, nil)
	r.backend = failing

	err := r.LoadAll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin load failed")
	assert.Equal(t, before, r.View())
}

func TestLoadAll_NonAdminIsSilentNoOp(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, roleSession{role: domain.RoleUser}, nil, "", zap.NewNop())

	require.NoError(t, r.LoadAll(context.Background()))

	ab.AssertNotCalled(t, "AdminListPackages", mock.Anything)
	ab.AssertNotCalled(t, "AdminListBookings", mock.Anything)
	ab.AssertNotCalled(t, "AdminListPayments", mock.Anything)
	assert.True(t, r.View().LoadedAt.IsZero())
}

func TestSavePackage_WritesThenReloadsEverything(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, adminSession(), nil, "", zap.NewNop())

	pkg := domain.Package{ID: 1, Code: "gold-14", Price: 175000}
	ab.On("AdminUpdatePackage", mock.Anything, int64(1), pkg).Return(pkg, nil)
	expectLoadAll(ab)

	require.NoError(t, r.SavePackage(context.Background(), 1, pkg))

	ab.AssertCalled(t, "AdminListPackages", mock.Anything)
	ab.AssertCalled(t, "AdminListBookings", mock.Anything)
	ab.AssertCalled(t, "AdminListPayments", mock.Anything)
}

func TestCreatePackage_WritesThenReloads(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, adminSession(), nil, "", zap.NewNop())

	pkg := domain.Package{Code: "bronze-7", Name: "Bronze 7 Nights", Nights: 7, Price: 90000}
	ab.On("AdminCreatePackage", mock.Anything, pkg).Return(domain.Package{ID: 3}, nil)
	expectLoadAll(ab)

	require.NoError(t, r.CreatePackage(context.Background(), pkg))
	ab.AssertCalled(t, "AdminCreatePackage", mock.Anything, pkg)
}

func TestSavePayment_FailedWriteSkipsReload(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, adminSession(), nil, "", zap.NewNop())

	ab.On("AdminUpdatePayment", mock.Anything, int64(7), mock.Anything).
		Return(domain.Installment{}, errors.New("Payment not found"))

	err := r.SavePayment(context.Background(), 7, domain.Installment{ID: 7})

	assert.EqualError(t, err, "Payment not found")
	ab.AssertNotCalled(t, "AdminListPayments", mock.Anything)
}

func TestDeleteBooking_EmptyReasonRejectedBeforeAnyCall(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, adminSession(), nil, "", zap.NewNop())

	err := r.DeleteBooking(context.Background(), 42, "   ")

	assert.ErrorIs(t, err, errs.ErrValidation)
	ab.AssertNotCalled(t, "AdminDeleteBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteBooking_SendsTrimmedReasonThenReloads(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, adminSession(), nil, "", zap.NewNop())

	ab.On("AdminDeleteBooking", mock.Anything, int64(42), "duplicate entry").Return(nil)
	expectLoadAll(ab)

	require.NoError(t, r.DeleteBooking(context.Background(), 42, "  duplicate entry "))

	ab.AssertCalled(t, "AdminDeleteBooking", mock.Anything, int64(42), "duplicate entry")
	ab.AssertCalled(t, "AdminListBookings", mock.Anything)
}

func TestDeleteBooking_AuditEventPublishedWithRetries(t *testing.T) {
	ab := &MockAdminBackend{}
	producer := &MockProducer{}
	r := NewReconciler(ab, adminSession(), producer, "desk-events", zap.NewNop())

	ab.On("AdminDeleteBooking", mock.Anything, int64(42), "duplicate entry").Return(nil)
	producer.On("PublishWithRetry", mock.Anything, "desk-events", "booking:42", mock.Anything, 3).Return(nil)
	expectLoadAll(ab)

	require.NoError(t, r.DeleteBooking(context.Background(), 42, "duplicate entry"))

	producer.AssertExpectations(t)
}

func TestDeletePayment_RequiresReason(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, adminSession(), nil, "", zap.NewNop())

	err := r.DeletePayment(context.Background(), 7, "")

	assert.ErrorIs(t, err, errs.ErrValidation)
	ab.AssertNotCalled(t, "AdminDeletePayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeletePackage_NoReasonNeeded(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, adminSession(), nil, "", zap.NewNop())

	ab.On("AdminDeletePackage", mock.Anything, int64(1)).Return(nil)
	expectLoadAll(ab)

	require.NoError(t, r.DeletePackage(context.Background(), 1))
}

func TestReset_DropsSnapshot(t *testing.T) {
	ab := &MockAdminBackend{}
	r := NewReconciler(ab, adminSession(), nil, "", zap.NewNop())
	expectLoadAll(ab)
	require.NoError(t, r.LoadAll(context.Background()))

	r.Reset()

	assert.Equal(t, Snapshot{}, r.View())
}
