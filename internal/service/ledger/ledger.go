// Package ledger owns the three-part payment plan attached to a booking:
// idempotent plan creation, per-installment payment transitions and the
// derived paid/due aggregates.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alsafar-travels/umrahdesk/internal/backend"
	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/errs"
	"github.com/alsafar-travels/umrahdesk/internal/events"
	"go.uber.org/zap"
)

// PlanUseCase is the ledger surface consumed by the HTTP facade and the
// booking orchestrator.
type PlanUseCase interface {
	EnsurePlan(ctx context.Context, bookingID string, totalAmount int, travelDate string) ([]domain.Installment, error)
	Installments(ctx context.Context, bookingID string) ([]domain.Installment, error)
	Pay(ctx context.Context, bookingID string, installmentNumber int) ([]domain.Installment, error)
	Totals(items []domain.Installment) domain.InstallmentTotals
	AuditTrail(ctx context.Context, bookings []domain.Booking) []AuditRow
}

// PaymentBackend is the slice of the backend client the ledger needs.
type PaymentBackend interface {
	CreatePlan(ctx context.Context, req backend.PlanRequest) ([]domain.Installment, error)
	Installments(ctx context.Context, bookingID string) ([]domain.Installment, error)
	PayInstallment(ctx context.Context, bookingID string, installmentNumber int) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// SessionSource provides the current session for event attribution.
type SessionSource interface {
	Session() domain.Session
}

type Ledger struct {
	backend  PaymentBackend
	producer Producer
	session  SessionSource
	topic    string
	logger   *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
	// view is the last server-confirmed installment set per booking.
	view map[string][]domain.Installment
}

func NewLedger(pb PaymentBackend, session SessionSource, producer Producer, topic string, logger *zap.Logger) *Ledger {
	return &Ledger{
		backend:  pb,
		producer: producer,
		session:  session,
		topic:    topic,
		logger:   logger,
		inflight: make(map[string]bool),
		view:     make(map[string][]domain.Installment),
	}
}

// EnsurePlan materializes the payment plan for a booking. The payment
// service de-duplicates on bookingId, so a booking that already has a plan
// gets its existing installments back unchanged; the response is treated as
// the authoritative current set either way.
func (l *Ledger) EnsurePlan(ctx context.Context, bookingID string, totalAmount int, travelDate string) ([]domain.Installment, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" || totalAmount <= 0 {
		return nil, fmt.Errorf("%w: bookingId and a positive totalAmount are required", errs.ErrValidation)
	}

	items, err := l.backend.CreatePlan(ctx, backend.PlanRequest{
		BookingID:   bookingID,
		TotalAmount: totalAmount,
		TravelDate:  travelDate,
	})
	if err != nil {
		return nil, err
	}

	sortByNumber(items)
	l.storeView(bookingID, items)
	return items, nil
}

// Installments returns the authoritative ordered set for a booking. A
// failure means "no data available right now", never "no plan exists";
// callers must not infer plan absence from it.
func (l *Ledger) Installments(ctx context.Context, bookingID string) ([]domain.Installment, error) {
	items, err := l.backend.Installments(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	sortByNumber(items)
	l.storeView(bookingID, items)
	return items, nil
}

// Pay settles one due installment and reloads the booking's full set so the
// aggregates always derive from a server-confirmed snapshot. Only one
// payment per booking may be in flight at a time.
func (l *Ledger) Pay(ctx context.Context, bookingID string, installmentNumber int) ([]domain.Installment, error) {
	if installmentNumber < 1 {
		return nil, fmt.Errorf("%w: installment number must be positive", errs.ErrValidation)
	}

	l.mu.Lock()
	if l.inflight[bookingID] {
		l.mu.Unlock()
		return nil, errs.ErrPaymentInFlight
	}
	for _, it := range l.view[bookingID] {
		if it.InstallmentNumber == installmentNumber && it.Status == domain.InstallmentStatusPaid {
			l.mu.Unlock()
			return nil, fmt.Errorf("%w: installment %d is already paid", errs.ErrValidation, installmentNumber)
		}
	}
	l.inflight[bookingID] = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.inflight, bookingID)
		l.mu.Unlock()
	}()

	if err := l.backend.PayInstallment(ctx, bookingID, installmentNumber); err != nil {
		return nil, err
	}

	items, err := l.Installments(ctx, bookingID)
	if err != nil {
		// The payment went through; only the refresh failed.
		return nil, fmt.Errorf("payment recorded but plan reload failed: %w", err)
	}

	l.publishPaid(ctx, bookingID, installmentNumber, items)
	return items, nil
}

// Totals recomputes the paid/due aggregates from the given set.
func (l *Ledger) Totals(items []domain.Installment) domain.InstallmentTotals {
	return domain.Totals(items)
}

// View returns the last server-confirmed set for a booking, if any.
func (l *Ledger) View(bookingID string) []domain.Installment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Installment(nil), l.view[bookingID]...)
}

// Reset drops all cached installment views. Wired to the session store's
// logout cascade.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.view = make(map[string][]domain.Installment)
	l.mu.Unlock()
}

func (l *Ledger) storeView(bookingID string, items []domain.Installment) {
	l.mu.Lock()
	l.view[bookingID] = append([]domain.Installment(nil), items...)
	l.mu.Unlock()
}

func (l *Ledger) publishPaid(ctx context.Context, bookingID string, installmentNumber int, items []domain.Installment) {
	if l.producer == nil || l.topic == "" {
		return
	}
	var amount int
	for _, it := range items {
		if it.InstallmentNumber == installmentNumber {
			amount = it.Amount
		}
	}
	sess := l.session.Session()
	event := events.DeskEvent{
		Type:              events.TypeInstallmentPaid,
		TenantID:          sess.TenantID,
		Email:             sess.Email,
		BookingID:         bookingID,
		InstallmentNumber: installmentNumber,
		Amount:            amount,
		At:                time.Now(),
	}
	if err := l.producer.Publish(ctx, l.topic, bookingID, event); err != nil {
		l.logger.Warn("installment_paid event not published", zap.String("booking", bookingID), zap.Error(err))
	}
}

func sortByNumber(items []domain.Installment) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].InstallmentNumber < items[j].InstallmentNumber
	})
}

var _ PlanUseCase = (*Ledger)(nil)
