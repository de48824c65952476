package api

import (
	"net/http"
	"strconv"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/service/admin"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	reconciler admin.ReconcilerUseCase
}

type deleteRequest struct {
	Reason string `json:"reason"`
}

func NewAdminHandler(reconciler admin.ReconcilerUseCase) *AdminHandler {
	return &AdminHandler{reconciler: reconciler}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.POST("/sync", h.sync)
	router.GET("/view", h.view)
	router.POST("/packages", h.createPackage)
	router.PUT("/packages/:id", h.savePackage)
	router.DELETE("/packages/:id", h.deletePackage)
	router.PUT("/payments/:id", h.savePayment)
	router.DELETE("/payments/:id", h.deletePayment)
	router.DELETE("/bookings/:id", h.deleteBooking)
}

func (h *AdminHandler) sync(c *gin.Context) {
	if err := h.reconciler.LoadAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.reconciler.View())
}

func (h *AdminHandler) view(c *gin.Context) {
	c.JSON(http.StatusOK, h.reconciler.View())
}

func (h *AdminHandler) createPackage(c *gin.Context) {
	var pkg domain.Package
	if err := c.ShouldBindJSON(&pkg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.reconciler.CreatePackage(c.Request.Context(), pkg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.reconciler.View())
}

func (h *AdminHandler) savePackage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var pkg domain.Package
	if err := c.ShouldBindJSON(&pkg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.reconciler.SavePackage(c.Request.Context(), id, pkg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.reconciler.View())
}

func (h *AdminHandler) deletePackage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.reconciler.DeletePackage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.reconciler.View())
}

func (h *AdminHandler) savePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payment domain.Installment
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.reconciler.SavePayment(c.Request.Context(), id, payment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.reconciler.View())
}

func (h *AdminHandler) deletePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.reconciler.DeletePayment(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.reconciler.View())
}

func (h *AdminHandler) deleteBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.reconciler.DeleteBooking(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.reconciler.View())
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
