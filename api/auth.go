package api

import (
	"net/http"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/alsafar-travels/umrahdesk/internal/otp"
	"github.com/alsafar-travels/umrahdesk/internal/service/account"
	"github.com/alsafar-travels/umrahdesk/internal/session"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	accounts account.AccountUseCase
	flow     *otp.Flow
	store    *session.Store
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	CountryCode  string `json:"countryCode"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
}

type otpRequest struct {
	CountryCode  string `json:"countryCode"`
	MobileNumber string `json:"mobileNumber"`
	OTP          string `json:"otp"`
}

type googleRequest struct {
	IDToken string `json:"idToken"`
}

type tenantRequest struct {
	TenantID string `json:"tenantId"`
}

// sessionResponse never echoes the bearer token back to the UI.
type sessionResponse struct {
	SignedIn     bool        `json:"signedIn"`
	Role         domain.Role `json:"role,omitempty"`
	Email        string      `json:"email,omitempty"`
	FirstName    string      `json:"firstName,omitempty"`
	LastName     string      `json:"lastName,omitempty"`
	MobileNumber string      `json:"mobileNumber,omitempty"`
	TenantID     string      `json:"tenantId"`
}

func NewAuthHandler(accounts account.AccountUseCase, flow *otp.Flow, store *session.Store) *AuthHandler {
	return &AuthHandler{accounts: accounts, flow: flow, store: store}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/login", h.login)
	router.POST("/register", h.register)
	router.POST("/google", h.google)
	router.POST("/otp/request", h.requestOTP)
	router.POST("/otp/verify", h.verifyOTP)
	router.POST("/logout", h.logout)
	router.POST("/refresh", h.refresh)
	router.GET("/session", h.session)
	router.PUT("/tenant", h.tenant)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess, h.store.Tenant()))
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.accounts.Register(c.Request.Context(), account.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		CountryCode: req.CountryCode,
		Mobile:      req.MobileNumber,
		Password:    req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(sess, h.store.Tenant()))
}

func (h *AuthHandler) google(c *gin.Context) {
	var req googleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.accounts.GoogleSignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess, h.store.Tenant()))
}

func (h *AuthHandler) requestOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.flow.SetMobile(req.CountryCode, req.MobileNumber)
	challenge, err := h.flow.RequestChallenge(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

func (h *AuthHandler) verifyOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.flow.SetMobile(req.CountryCode, req.MobileNumber)
	if err := h.flow.Verify(c.Request.Context(), req.OTP); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true, "mobileNumber": h.flow.Mobile()})
}

func (h *AuthHandler) logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signedIn": false})
}

// refresh re-pulls the profile behind the current token, as the UI does on
// every load.
func (h *AuthHandler) refresh(c *gin.Context) {
	sess, err := h.accounts.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess, h.store.Tenant()))
}

func (h *AuthHandler) session(c *gin.Context) {
	c.JSON(http.StatusOK, toSessionResponse(h.store.Session(), h.store.Tenant()))
}

func (h *AuthHandler) tenant(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.store.SetTenant(req.TenantID)
	c.JSON(http.StatusOK, gin.H{"tenantId": h.store.Tenant()})
}

func toSessionResponse(sess domain.Session, tenant string) sessionResponse {
	resp := sessionResponse{
		SignedIn:     sess.Authenticated(),
		Role:         sess.Role,
		Email:        sess.Email,
		FirstName:    sess.FirstName,
		LastName:     sess.LastName,
		MobileNumber: sess.MobileNumber,
		TenantID:     tenant,
	}
	if sess.TenantID != "" {
		resp.TenantID = sess.TenantID
	}
	return resp
}
