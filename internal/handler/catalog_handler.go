package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bailakids/registration-api/internal/dto"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
	"github.com/bailakids/registration-api/pkg/response"
)

type catalogService interface {
	Sections(ctx context.Context) (*dto.SectionsResponse, error)
	ClassCounts(ctx context.Context) (*dto.ClassCountsResponse, error)
}

type availabilityService interface {
	Snapshot(ctx context.Context) (*dto.AvailabilityResponse, error)
}

// CatalogHandler serves the read endpoints the registration form polls.
type CatalogHandler struct {
	catalog      catalogService
	availability availabilityService
}

// NewCatalogHandler builds a CatalogHandler.
func NewCatalogHandler(catalog catalogService, availability availabilityService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, availability: availability}
}

// Sections godoc
// @Summary List class sections of the active session with seats remaining
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.SectionsResponse
// @Failure 500 {object} map[string]interface{}
// @Router /sections [get]
func (h *CatalogHandler) Sections(c *gin.Context) {
	res, err := h.catalog.Sections(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Raw(c, appErrors.FromError(err).Status, gin.H{"sections": []dto.SectionView{}, "error": "Internal error"})
		return
	}
	response.Raw(c, http.StatusOK, res)
}

// ClassCounts godoc
// @Summary Students per studio weekday for the legacy day picker
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.ClassCountsResponse
// @Failure 500 {object} map[string]interface{}
// @Router /class-counts [get]
func (h *CatalogHandler) ClassCounts(c *gin.Context) {
	res, err := h.catalog.ClassCounts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Raw(c, http.StatusInternalServerError, gin.H{"error": "Failed to compute class counts"})
		return
	}
	response.Raw(c, http.StatusOK, res)
}

// Availability godoc
// @Summary Per-studio availability snapshot with sold-out messages and prices
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.AvailabilityResponse
// @Router /availability [get]
func (h *CatalogHandler) Availability(c *gin.Context) {
	res, err := h.availability.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, res)
}
