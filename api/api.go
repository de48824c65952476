// Package api is the desk's HTTP facade: thin gin handlers over the
// orchestration services, serving the local desk UI.
package api

import (
	"errors"
	"net/http"

	"github.com/alsafar-travels/umrahdesk/internal/backend"
	"github.com/alsafar-travels/umrahdesk/internal/errs"
	"github.com/gin-gonic/gin"
)

// NewRouter assembles the desk routes.
func NewRouter(auth *AuthHandler, catalog *CatalogHandler, bookings *BookingHandler, payments *PaymentHandler, admin *AdminHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	auth.Register(router.Group("/auth"))
	catalog.Register(router.Group("/catalog"))
	bookings.Register(router.Group("/"))
	payments.Register(router.Group("/payments"))
	admin.Register(router.Group("/admin"))

	return router
}

// respondError maps service errors onto HTTP statuses. Backend messages are
// passed through verbatim; sentinel classifications pick the status.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadGateway

	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Status
	case errors.Is(err, errs.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrPaymentInFlight):
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
