package handler

import (
	"context"
	"net/http"

	"location-api/internal/models"

	"github.com/gin-gonic/gin"
)

// LookupService is the service interface for dependency injection.
type LookupService interface {
	Lookup(ctx context.Context, postcode string) (*models.Location, error)
}

// LocationHandler handles exact postcode lookups.
type LocationHandler struct {
	service LookupService
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(svc LookupService) *LocationHandler {
	return &LocationHandler{service: svc}
}

// GetLocation handles GET /location/:postcode requests.
//
//	@Summary	Get the location record for a full postcode
//	@Tags		locations
//	@Produce	json
//	@Param		postcode	path		string	true	"Full UK postcode"
//	@Success	200			{object}	models.Location
//	@Failure	400			{object}	map[string]string
//	@Failure	404			{object}	map[string]string
//	@Router		/location/{postcode} [get]
func (h *LocationHandler) GetLocation(c *gin.Context) {
	postcode := c.Param("postcode")

	location, err := h.service.Lookup(c.Request.Context(), postcode)
	if err != nil {
		writeError(c, err)
		return
	}
	if location == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Postcode " + postcode + " not found"})
		return
	}
	c.JSON(http.StatusOK, location)
}
