package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/service/trip"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTripUseCase is a mock implementation of trip.TripUseCase
type MockTripUseCase struct {
	mock.Mock
}

func (m *MockTripUseCase) CreateBooking(ctx context.Context, pkg domain.Package, travelerName, travelDate string) (trip.Confirmation, error) {
	args := m.Called(ctx, pkg, travelerName, travelDate)
	return args.Get(0).(trip.Confirmation), args.Error(1)
}

func (m *MockTripUseCase) AccountView(ctx context.Context) (trip.AccountView, error) {
	args := m.Called(ctx)
	return args.Get(0).(trip.AccountView), args.Error(1)
}

// countingCatalog records how many times the catalog was fetched.
type countingCatalog struct {
	calls    int
	packages []domain.Package
}

func (c *countingCatalog) ListPackages(context.Context) ([]domain.Package, error) {
	c.calls++
	return c.packages, nil
}

type fixedSession struct {
	sess domain.Session
}

func (s fixedSession) Session() domain.Session { return s.sess }

func TestBookingHandler_createAnonymousNeverTouchesBackend(t *testing.T) {
	mockTrips := &MockTripUseCase{}
	catalog := &countingCatalog{packages: []domain.Package{{ID: 1, Code: "gold-14", Price: 165000}}}
	handler := NewBookingHandler(mockTrips, catalog, fixedSession{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{PackageID: "gold-14", TravelerName: "Ahmed", TravelDate: "2026-10-01"})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, catalog.calls)
	mockTrips.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_createResolvesAuthoritativePrice(t *testing.T) {
	mockTrips := &MockTripUseCase{}
	pkg := domain.Package{ID: 1, Code: "gold-14", Name: "Gold 14 Nights", Price: 165000}
	catalog := &countingCatalog{packages: []domain.Package{pkg}}
	handler := NewBookingHandler(mockTrips, catalog, fixedSession{sess: domain.Session{Token: "tok", Role: domain.RoleUser}})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{PackageID: "gold-14", TravelerName: "Ahmed", TravelDate: "2026-10-01"})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	confirmation := trip.Confirmation{Booking: domain.Booking{ID: 42, PackageID: "gold-14"}}
	mockTrips.On("CreateBooking", c.Request.Context(), pkg, "Ahmed", "2026-10-01").Return(confirmation, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, catalog.calls)
	mockTrips.AssertExpectations(t)
}

func TestBookingHandler_createUnknownPackage(t *testing.T) {
	mockTrips := &MockTripUseCase{}
	catalog := &countingCatalog{}
	handler := NewBookingHandler(mockTrips, catalog, fixedSession{sess: domain.Session{Token: "tok"}})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{PackageID: "no-such", TravelDate: "2026-10-01"})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockTrips.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
