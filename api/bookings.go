package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/errs"
	"github.com/alsafar-travels/umrahdesk/internal/service/trip"
	"github.com/gin-gonic/gin"
)

// SessionSource exposes the desk's current session to handlers that must
// gate access before touching the backend.
type SessionSource interface {
	Session() domain.Session
}

type BookingHandler struct {
	orchestrator trip.TripUseCase
	catalog      CatalogBackend
	session      SessionSource
}

type createBookingRequest struct {
	PackageID    string `json:"packageId"`
	TravelerName string `json:"travelerName"`
	TravelDate   string `json:"travelDate"`
}

func NewBookingHandler(orchestrator trip.TripUseCase, catalog CatalogBackend, session SessionSource) *BookingHandler {
	return &BookingHandler{orchestrator: orchestrator, catalog: catalog, session: session}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings", h.create)
	router.GET("/account", h.account)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// An anonymous desk is bounced to sign-in before any backend call,
	// including the catalog lookup.
	if !h.session.Session().Authenticated() {
		respondError(c, errs.ErrUnauthenticated)
		return
	}

	pkg, err := h.resolvePackage(c, req.PackageID)
	if err != nil {
		respondError(c, err)
		return
	}

	confirmation, err := h.orchestrator.CreateBooking(c.Request.Context(), pkg, req.TravelerName, req.TravelDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}

func (h *BookingHandler) account(c *gin.Context) {
	view, err := h.orchestrator.AccountView(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// resolvePackage looks the selection up in the catalog so the orchestrator
// gets the authoritative price, not one supplied by the UI.
func (h *BookingHandler) resolvePackage(c *gin.Context, packageID string) (domain.Package, error) {
	packages, err := h.catalog.ListPackages(c.Request.Context())
	if err != nil {
		return domain.Package{}, err
	}
	for _, pkg := range packages {
		if pkg.Code == packageID || strconv.FormatInt(pkg.ID, 10) == packageID {
			return pkg, nil
		}
	}
	return domain.Package{}, fmt.Errorf("%w: unknown package %q", errs.ErrValidation, packageID)
}
