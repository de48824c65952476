// Package events publishes desk lifecycle events to Kafka. Publishing is
// fire-and-forget from the user's point of view: a broker failure is logged
// and never fails the operation that produced the event.
package events

import "time"

const (
	TypeBookingConfirmed = "booking_confirmed"
	TypeInstallmentPaid  = "installment_paid"
	TypeRecordDeleted    = "record_deleted"
)

type DeskEvent struct {
	Type              string    `json:"type"`
	TenantID          string    `json:"tenantId"`
	Email             string    `json:"email,omitempty"`
	BookingID         string    `json:"bookingId,omitempty"`
	PackageID         string    `json:"packageId,omitempty"`
	InstallmentNumber int       `json:"installmentNumber,omitempty"`
	Amount            int       `json:"amount,omitempty"`
	Record            string    `json:"record,omitempty"`
	Reason            string    `json:"reason,omitempty"`
	At                time.Time `json:"at"`
}
