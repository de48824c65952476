package ledger

import (
	"context"
	"strconv"
	"sync"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"go.uber.org/zap"
)

func formatBookingID(id int64) string { return strconv.FormatInt(id, 10) }

// AuditRow is one installment annotated with its booking's context, as shown
// in the account payment trail.
type AuditRow struct {
	domain.Installment
	TravelDate   string `json:"travelDate"`
	PackageID    string `json:"packageId"`
	TravelerName string `json:"travelerName"`
}

// AuditTrail fetches the installments of every booking in parallel. Each
// per-booking fetch is isolated: a failure contributes an empty slice for
// that booking only and never aborts the others.
func (l *Ledger) AuditTrail(ctx context.Context, bookings []domain.Booking) []AuditRow {
	rows := make([][]AuditRow, len(bookings))

	var wg sync.WaitGroup
	for i, b := range bookings {
		wg.Add(1)
		go func(i int, b domain.Booking) {
			defer wg.Done()
			bookingID := formatBookingID(b.ID)
			items, err := l.backend.Installments(ctx, bookingID)
			if err != nil {
				l.logger.Debug("audit fetch skipped booking", zap.String("booking", bookingID), zap.Error(err))
				return
			}
			sortByNumber(items)
			out := make([]AuditRow, 0, len(items))
			for _, it := range items {
				it.BookingID = bookingID
				out = append(out, AuditRow{
					Installment:  it,
					TravelDate:   b.TravelDate,
					PackageID:    b.PackageID,
					TravelerName: b.TravelerName,
				})
			}
			rows[i] = out
		}(i, b)
	}
	wg.Wait()

	var trail []AuditRow
	for _, r := range rows {
		trail = append(trail, r...)
	}
	return trail
}

// AuditTotals splits the trail into paid and outstanding sums.
func AuditTotals(trail []AuditRow) (paid, due int) {
	for _, row := range trail {
		if row.Status == domain.InstallmentStatusPaid {
			paid += row.Amount
		} else {
			due += row.Amount
		}
	}
	return paid, due
}
