package domain

import "time"

type InstallmentStatus string

const (
	InstallmentStatusDue    InstallmentStatus = "due"
	InstallmentStatusPaid   InstallmentStatus = "paid"
	InstallmentStatusFailed InstallmentStatus = "failed"
)

// Installment is one part of a booking's payment plan. User-initiated plans
// are always split into three parts by the payment service.
type Installment struct {
	ID                int64             `json:"id"`
	BookingID         string            `json:"bookingId"`
	InstallmentNumber int               `json:"installmentNumber"`
	TotalInstallments int               `json:"totalInstallments"`
	Amount            int               `json:"amount"`
	Status            InstallmentStatus `json:"status"`
	DueDate           string            `json:"dueDate,omitempty"`
	TravelDate        string            `json:"travelDate,omitempty"`
	PaidAt            *time.Time        `json:"paidAt,omitempty"`
	PaymentProvider   string            `json:"paymentProvider,omitempty"`
	PaymentMethod     string            `json:"paymentMethod,omitempty"`
}

// InstallmentTotals are derived sums over a set of installments. They are
// recomputed from the current set on every read, never cached.
type InstallmentTotals struct {
	Total int
	Paid  int
	Due   int
}

// Totals computes the paid/due aggregates for the given installments.
// Due never goes negative.
func Totals(items []Installment) InstallmentTotals {
	var t InstallmentTotals
	for _, it := range items {
		t.Total += it.Amount
		if it.Status == InstallmentStatusPaid {
			t.Paid += it.Amount
		}
	}
	t.Due = t.Total - t.Paid
	if t.Due < 0 {
		t.Due = 0
	}
	return t
}
