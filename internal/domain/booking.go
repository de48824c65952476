package domain

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID           int64         `json:"id"`
	PackageID    string        `json:"packageId"`
	TravelerName string        `json:"travelerName"`
	TravelDate   string        `json:"travelDate"`
	Status       BookingStatus `json:"status"`
	UserEmail    string        `json:"userEmail,omitempty"`
}
