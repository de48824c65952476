package backend

import (
	"context"
	"fmt"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
)

type PlanRequest struct {
	BookingID   string `json:"bookingId"`
	TotalAmount int    `json:"totalAmount"`
	TravelDate  string `json:"travelDate"`
}

// CreatePlan asks the payment service for the booking's installment plan.
// The service de-duplicates on bookingId: if a plan already exists the
// existing installments come back unchanged, so the call is safe to retry.
func (c *Client) CreatePlan(ctx context.Context, req PlanRequest) ([]domain.Installment, error) {
	var out []domain.Installment
	err := c.post(ctx, "/payment/installments/plan", req, &out)
	return out, err
}

func (c *Client) Installments(ctx context.Context, bookingID string) ([]domain.Installment, error) {
	var out []domain.Installment
	err := c.get(ctx, "/payment/installments/"+bookingID, &out)
	return out, err
}

// PayInstallment marks one due installment as paid. The response body is not
// authoritative for the rest of the plan; callers reload the full set after
// a success instead of patching locally.
func (c *Client) PayInstallment(ctx context.Context, bookingID string, installmentNumber int) error {
	body := map[string]any{"bookingId": bookingID, "installmentNumber": installmentNumber}
	return c.post(ctx, "/payment/installments/pay", body, nil)
}

func (c *Client) AdminListPayments(ctx context.Context) ([]domain.Installment, error) {
	var out []domain.Installment
	err := c.get(ctx, "/admin/payment/payments", &out)
	return out, err
}

// AdminUpdatePayment is a full-record replace, mirroring AdminUpdatePackage.
func (c *Client) AdminUpdatePayment(ctx context.Context, id int64, payment domain.Installment) (domain.Installment, error) {
	var out domain.Installment
	err := c.put(ctx, fmt.Sprintf("/admin/payment/payments/%d", id), payment, &out)
	return out, err
}

func (c *Client) AdminDeletePayment(ctx context.Context, id int64, reason string) error {
	body := map[string]string{"reason": reason}
	return c.delete(ctx, fmt.Sprintf("/admin/payment/payments/%d", id), body, nil)
}
