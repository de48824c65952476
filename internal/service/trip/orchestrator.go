// Package trip orchestrates the booking flow: reservation against the
// catalog followed by a strict handoff to the installment ledger. A booking
// and its payment plan are never created independently from this path.
package trip

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alsafar-travels/umrahdesk/internal/backend"
	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/errs"
	"github.com/alsafar-travels/umrahdesk/internal/events"
	"github.com/alsafar-travels/umrahdesk/internal/service/ledger"
	"go.uber.org/zap"
)

// TripUseCase is the orchestrator surface consumed by the HTTP facade.
type TripUseCase interface {
	CreateBooking(ctx context.Context, pkg domain.Package, travelerName, travelDate string) (Confirmation, error)
	AccountView(ctx context.Context) (AccountView, error)
}

type BookingBackend interface {
	CreateBooking(ctx context.Context, req backend.CreateBookingRequest) (domain.Booking, error)
	MyBookings(ctx context.Context) ([]domain.Booking, error)
}

// Planner materializes the installment plan once a booking exists.
type Planner interface {
	EnsurePlan(ctx context.Context, bookingID string, totalAmount int, travelDate string) ([]domain.Installment, error)
	AuditTrail(ctx context.Context, bookings []domain.Booking) []ledger.AuditRow
}

type SessionSource interface {
	Session() domain.Session
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Orchestrator struct {
	backend BookingBackend
	planner Planner
	session SessionSource

	producer Producer
	topic    string
	logger   *zap.Logger
}

func NewOrchestrator(bb BookingBackend, planner Planner, session SessionSource, producer Producer, topic string, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		backend:  bb,
		planner:  planner,
		session:  session,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Confirmation is the result of a completed booking flow: the reservation
// plus its freshly ensured payment plan.
type Confirmation struct {
	Booking      domain.Booking       `json:"booking"`
	Installments []domain.Installment `json:"installments"`
}

// CreateBooking reserves the selected package and hands off to the ledger.
// Without a signed-in session it short-circuits before any network call.
// The flow is complete only once the plan exists; a booking failure stops
// everything and no plan is attempted.
func (o *Orchestrator) CreateBooking(ctx context.Context, pkg domain.Package, travelerName, travelDate string) (Confirmation, error) {
	if !o.session.Session().Authenticated() {
		return Confirmation{}, errs.ErrUnauthenticated
	}

	packageID := pkg.Code
	if packageID == "" {
		packageID = strconv.FormatInt(pkg.ID, 10)
	}
	if strings.TrimSpace(travelerName) == "" {
		travelerName = "Traveler"
	}

	booking, err := o.backend.CreateBooking(ctx, backend.CreateBookingRequest{
		PackageID:    packageID,
		TravelerName: travelerName,
		TravelDate:   travelDate,
	})
	if err != nil {
		return Confirmation{}, err
	}
	if booking.ID == 0 {
		return Confirmation{}, fmt.Errorf("%w: booking was not created", errs.ErrUnavailable)
	}

	planDate := booking.TravelDate
	if planDate == "" {
		planDate = travelDate
	}
	bookingID := strconv.FormatInt(booking.ID, 10)
	items, err := o.planner.EnsurePlan(ctx, bookingID, pkg.Price, planDate)
	if err != nil {
		// The reservation exists; the caller gets it along with the
		// plan failure so the flow is not reported as complete.
		return Confirmation{Booking: booking}, fmt.Errorf("booking %s created but plan not ready: %w", bookingID, err)
	}

	o.publishConfirmed(ctx, booking, packageID)
	return Confirmation{Booking: booking, Installments: items}, nil
}

// AccountView is the signed-in traveler's bookings with the parallel
// payment-audit fan-out over them.
type AccountView struct {
	Bookings []domain.Booking  `json:"bookings"`
	Payments []ledger.AuditRow `json:"payments"`
}

func (o *Orchestrator) AccountView(ctx context.Context) (AccountView, error) {
	if !o.session.Session().Authenticated() {
		return AccountView{}, errs.ErrUnauthenticated
	}

	bookings, err := o.backend.MyBookings(ctx)
	if err != nil {
		return AccountView{}, err
	}

	return AccountView{
		Bookings: bookings,
		Payments: o.planner.AuditTrail(ctx, bookings),
	}, nil
}

func (o *Orchestrator) publishConfirmed(ctx context.Context, booking domain.Booking, packageID string) {
	if o.producer == nil || o.topic == "" {
		return
	}
	sess := o.session.Session()
	event := events.DeskEvent{
		Type:      events.TypeBookingConfirmed,
		TenantID:  sess.TenantID,
		Email:     sess.Email,
		BookingID: strconv.FormatInt(booking.ID, 10),
		PackageID: packageID,
		At:        time.Now(),
	}
	if err := o.producer.Publish(ctx, o.topic, event.BookingID, event); err != nil {
		o.logger.Warn("booking_confirmed event not published", zap.Int64("booking", booking.ID), zap.Error(err))
	}
}

var _ TripUseCase = (*Orchestrator)(nil)
