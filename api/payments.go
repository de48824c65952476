package api

import (
	"net/http"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/service/ledger"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	ledger ledger.PlanUseCase
}

type payRequest struct {
	BookingID         string `json:"bookingId"`
	InstallmentNumber int    `json:"installmentNumber"`
}

type planResponse struct {
	Installments []domain.Installment `json:"installments"`
	Total        int                  `json:"totalInstallmentAmount"`
	Paid         int                  `json:"paidInstallmentAmount"`
	Due          int                  `json:"dueInstallmentAmount"`
}

func NewPaymentHandler(l ledger.PlanUseCase) *PaymentHandler {
	return &PaymentHandler{ledger: l}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.GET("/installments/:bookingId", h.installments)
	router.POST("/pay", h.pay)
}

func (h *PaymentHandler) installments(c *gin.Context) {
	items, err := h.ledger.Installments(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPlanResponse(h.ledger, items))
}

func (h *PaymentHandler) pay(c *gin.Context) {
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.ledger.Pay(c.Request.Context(), req.BookingID, req.InstallmentNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPlanResponse(h.ledger, items))
}

func toPlanResponse(l ledger.PlanUseCase, items []domain.Installment) planResponse {
	totals := l.Totals(items)
	return planResponse{
		Installments: items,
		Total:        totals.Total,
		Paid:         totals.Paid,
		Due:          totals.Due,
	}
}
