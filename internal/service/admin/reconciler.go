// Package admin is the privileged reconciliation view over packages,
// bookings and payments. Every write is followed by a full reload so the
// view never diverges from the backend; destructive deletes require a
// caller-supplied audit reason.
package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/errs"
	"github.com/alsafar-travels/umrahdesk/internal/events"
	"go.uber.org/zap"
)

// ReconcilerUseCase is the admin surface consumed by the HTTP facade.
type ReconcilerUseCase interface {
	LoadAll(ctx context.Context) error
	View() Snapshot
	CreatePackage(ctx context.Context, pkg domain.Package) error
	SavePackage(ctx context.Context, id int64, pkg domain.Package) error
	DeletePackage(ctx context.Context, id int64) error
	SavePayment(ctx context.Context, id int64, payment domain.Installment) error
	DeleteBooking(ctx context.Context, id int64, reason string) error
	DeletePayment(ctx context.Context, id int64, reason string) error
}

type AdminBackend interface {
	AdminListPackages(ctx context.Context) ([]domain.Package, error)
	AdminCreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error)
	AdminUpdatePackage(ctx context.Context, id int64, pkg domain.Package) (domain.Package, error)
	AdminDeletePackage(ctx context.Context, id int64) error
	AdminListBookings(ctx context.Context) ([]domain.Booking, error)
	AdminDeleteBooking(ctx context.Context, id int64, reason string) error
	AdminListPayments(ctx context.Context) ([]domain.Installment, error)
	AdminUpdatePayment(ctx context.Context, id int64, payment domain.Installment) (domain.Installment, error)
	AdminDeletePayment(ctx context.Context, id int64, reason string) error
}

type SessionSource interface {
	Session() domain.Session
}

// Producer publishes deletion audit events. Deletes carry the operator's
// reason, so the reconciler retries the publish instead of dropping it on
// the first broker hiccup.
type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// Snapshot is one fully refreshed admin view. A load either replaces the
// whole snapshot or leaves the previous one untouched.
type Snapshot struct {
	Packages []domain.Package     `json:"packages"`
	Bookings []domain.Booking     `json:"bookings"`
	Payments []domain.Installment `json:"payments"`
	LoadedAt time.Time            `json:"loadedAt"`
}

type Reconciler struct {
	backend AdminBackend
	session SessionSource

	producer Producer
	topic    string
	logger   *zap.Logger

	mu   sync.RWMutex
	view Snapshot
}

func NewReconciler(ab AdminBackend, session SessionSource, producer Producer, topic string, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		backend:  ab,
		session:  session,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// LoadAll refreshes packages, bookings and payments concurrently. If any of
// the three reads fails, the whole load fails and nothing of the cycle is
// applied; the view refreshes all-or-nothing.
func (r *Reconciler) LoadAll(ctx context.Context) error {
	if !r.session.Session().IsAdmin() {
		return nil
	}

	var (
		wg       sync.WaitGroup
		packages []domain.Package
		bookings []domain.Booking
		payments []domain.Installment
		pkgErr   error
		bkErr    error
		payErr   error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		packages, pkgErr = r.backend.AdminListPackages(ctx)
	}()
	go func() {
		defer wg.Done()
		bookings, bkErr = r.backend.AdminListBookings(ctx)
	}()
	go func() {
		defer wg.Done()
		payments, payErr = r.backend.AdminListPayments(ctx)
	}()
	wg.Wait()

	for _, err := range []error{pkgErr, bkErr, payErr} {
		if err != nil {
			return fmt.Errorf("admin load failed: %w", err)
		}
	}

	r.mu.Lock()
	r.view = Snapshot{
		Packages: packages,
		Bookings: bookings,
		Payments: payments,
		LoadedAt: time.Now(),
	}
	r.mu.Unlock()
	return nil
}

// View returns the last fully applied snapshot.
func (r *Reconciler) View() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

// SavePackage sends the full record and re-syncs the whole view instead of
// patching the edited row locally.
func (r *Reconciler) SavePackage(ctx context.Context, id int64, pkg domain.Package) error {
	if !r.session.Session().IsAdmin() {
		return nil
	}
	if _, err := r.backend.AdminUpdatePackage(ctx, id, pkg); err != nil {
		return err
	}
	return r.LoadAll(ctx)
}

// CreatePackage adds a catalog entry for the active tenant and re-syncs.
func (r *Reconciler) CreatePackage(ctx context.Context, pkg domain.Package) error {
	if !r.session.Session().IsAdmin() {
		return nil
	}
	if _, err := r.backend.AdminCreatePackage(ctx, pkg); err != nil {
		return err
	}
	return r.LoadAll(ctx)
}

// SavePayment sends the full record and re-syncs.
func (r *Reconciler) SavePayment(ctx context.Context, id int64, payment domain.Installment) error {
	if !r.session.Session().IsAdmin() {
		return nil
	}
	if _, err := r.backend.AdminUpdatePayment(ctx, id, payment); err != nil {
		return err
	}
	return r.LoadAll(ctx)
}

// DeleteBooking removes a booking. The reason is mandatory, checked before
// any request is sent, and travels with the delete for the audit trail.
func (r *Reconciler) DeleteBooking(ctx context.Context, id int64, reason string) error {
	if !r.session.Session().IsAdmin() {
		return nil
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: delete reason is required", errs.ErrValidation)
	}
	if err := r.backend.AdminDeleteBooking(ctx, id, reason); err != nil {
		return err
	}
	r.publishDeleted(ctx, "booking", id, reason)
	return r.LoadAll(ctx)
}

// DeletePayment removes a payment record, reason mandatory as for bookings.
func (r *Reconciler) DeletePayment(ctx context.Context, id int64, reason string) error {
	if !r.session.Session().IsAdmin() {
		return nil
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: delete reason is required", errs.ErrValidation)
	}
	if err := r.backend.AdminDeletePayment(ctx, id, reason); err != nil {
		return err
	}
	r.publishDeleted(ctx, "payment", id, reason)
	return r.LoadAll(ctx)
}

// DeletePackage removes a catalog entry; packages carry no audit reason on
// the backend.
func (r *Reconciler) DeletePackage(ctx context.Context, id int64) error {
	if !r.session.Session().IsAdmin() {
		return nil
	}
	if err := r.backend.AdminDeletePackage(ctx, id); err != nil {
		return err
	}
	return r.LoadAll(ctx)
}

// Reset drops the cached snapshot. Wired to the session logout cascade.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	r.view = Snapshot{}
	r.mu.Unlock()
}

func (r *Reconciler) publishDeleted(ctx context.Context, record string, id int64, reason string) {
	if r.producer == nil || r.topic == "" {
		return
	}
	sess := r.session.Session()
	event := events.DeskEvent{
		Type:     events.TypeRecordDeleted,
		TenantID: sess.TenantID,
		Email:    sess.Email,
		Record:   record + ":" + strconv.FormatInt(id, 10),
		Reason:   reason,
		At:       time.Now(),
	}
	if err := r.producer.PublishWithRetry(ctx, r.topic, event.Record, event, 3); err != nil {
		r.logger.Warn("record_deleted event not published", zap.String("record", event.Record), zap.Error(err))
	}
}

var _ ReconcilerUseCase = (*Reconciler)(nil)
