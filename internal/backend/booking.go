package backend

import (
	"context"
	"fmt"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
)

type CreateBookingRequest struct {
	PackageID    string `json:"packageId"`
	TravelerName string `json:"travelerName"`
	TravelDate   string `json:"travelDate"`
}

func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (domain.Booking, error) {
	var out domain.Booking
	err := c.post(ctx, "/booking", req, &out)
	return out, err
}

func (c *Client) MyBookings(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	err := c.get(ctx, "/booking/my", &out)
	return out, err
}

func (c *Client) AdminListBookings(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	err := c.get(ctx, "/admin/booking/bookings", &out)
	return out, err
}

// AdminDeleteBooking removes a booking; the reason travels in the request
// body and ends up in the backend's deletion audit trail.
func (c *Client) AdminDeleteBooking(ctx context.Context, id int64, reason string) error {
	body := map[string]string{"reason": reason}
	return c.delete(ctx, fmt.Sprintf("/admin/booking/bookings/%d", id), body, nil)
}
