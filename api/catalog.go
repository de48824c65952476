package api

import (
	"context"
	"net/http"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/gin-gonic/gin"
)

// CatalogBackend is the read-only slice of the backend client the public
// catalog route needs.
type CatalogBackend interface {
	ListPackages(ctx context.Context) ([]domain.Package, error)
}

type CatalogHandler struct {
	backend CatalogBackend
}

func NewCatalogHandler(backend CatalogBackend) *CatalogHandler {
	return &CatalogHandler{backend: backend}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.GET("/packages", h.list)
}

func (h *CatalogHandler) list(c *gin.Context) {
	packages, err := h.backend.ListPackages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, packages)
}
