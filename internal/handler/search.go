package handler

import (
	"context"
	"errors"
	"net/http"

	"location-api/internal/models"
	"location-api/internal/repository"
	"location-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SearchService is the service interface for dependency injection.
type SearchService interface {
	Search(ctx context.Context, query models.SearchQuery) ([]models.Location, error)
}

// SearchHandler handles the four search endpoints.
type SearchHandler struct {
	service SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// searchParams are the query parameters shared by the text search endpoints.
// Range checks run in the binding layer; the all-or-nothing rule for the
// spatial trio is enforced by the service.
type searchParams struct {
	Limit        int      `form:"limit,default=1000" binding:"gte=1"`
	CenterLat    *float64 `form:"center_lat" binding:"omitempty,gte=-90,lte=90"`
	CenterLon    *float64 `form:"center_lon" binding:"omitempty,gte=-180,lte=180"`
	RadiusMeters *float64 `form:"radius_meters" binding:"omitempty,gte=0,lte=50000"`
}

type spatialParams struct {
	Limit        int      `form:"limit,default=1000" binding:"gte=1"`
	CenterLat    *float64 `form:"center_lat" binding:"required,gte=-90,lte=90"`
	CenterLon    *float64 `form:"center_lon" binding:"required,gte=-180,lte=180"`
	RadiusMeters *float64 `form:"radius_meters" binding:"omitempty,gte=0,lte=50000"`
}

// SearchPostcode handles GET /search/postcode/:value requests.
//
//	@Summary	Search locations by full or partial postcode
//	@Tags		locations
//	@Produce	json
//	@Param		value			path		string	true	"Full or partial postcode"
//	@Param		limit			query		int		false	"Maximum number of results"
//	@Param		center_lat		query		number	false	"Geofence center latitude"
//	@Param		center_lon		query		number	false	"Geofence center longitude"
//	@Param		radius_meters	query		number	false	"Geofence radius in meters"
//	@Success	200				{object}	models.LocationList
//	@Failure	400				{object}	map[string]string
//	@Router		/search/postcode/{value} [get]
func (h *SearchHandler) SearchPostcode(c *gin.Context) {
	h.search(c, models.ModePostcode)
}

// SearchTown handles GET /search/town/:value requests.
//
//	@Summary	Search locations by town or district name
//	@Tags		locations
//	@Produce	json
//	@Param		value	path		string	true	"Town name"
//	@Success	200		{object}	models.LocationList
//	@Failure	400		{object}	map[string]string
//	@Router		/search/town/{value} [get]
func (h *SearchHandler) SearchTown(c *gin.Context) {
	h.search(c, models.ModeTown)
}

// SearchCounty handles GET /search/county/:value requests.
//
//	@Summary	Search locations by county name
//	@Tags		locations
//	@Produce	json
//	@Param		value	path		string	true	"County name"
//	@Success	200		{object}	models.LocationList
//	@Failure	400		{object}	map[string]string
//	@Router		/search/county/{value} [get]
func (h *SearchHandler) SearchCounty(c *gin.Context) {
	h.search(c, models.ModeCounty)
}

// SearchSpatial handles GET /search/spatial requests: a pure radius search
// around a center point, no text value.
//
//	@Summary	Search locations within a radius of a point
//	@Tags		locations
//	@Produce	json
//	@Param		center_lat		query		number	true	"Center latitude"
//	@Param		center_lon		query		number	true	"Center longitude"
//	@Param		radius_meters	query		number	false	"Radius in meters (default 15000)"
//	@Param		limit			query		int		false	"Maximum number of results"
//	@Success	200				{object}	models.LocationList
//	@Failure	400				{object}	map[string]string
//	@Router		/search/spatial [get]
func (h *SearchHandler) SearchSpatial(c *gin.Context) {
	var params spatialParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid query parameters: " + err.Error()})
		return
	}
	if params.RadiusMeters == nil {
		radius := 15000.0
		params.RadiusMeters = &radius
	}

	query := models.SearchQuery{
		Mode:         models.ModeSpatial,
		Limit:        params.Limit,
		CenterLat:    params.CenterLat,
		CenterLon:    params.CenterLon,
		RadiusMeters: params.RadiusMeters,
	}
	h.respond(c, query)
}

func (h *SearchHandler) search(c *gin.Context, mode models.SearchMode) {
	var params searchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid query parameters: " + err.Error()})
		return
	}

	query := models.SearchQuery{
		Mode:         mode,
		Value:        c.Param("value"),
		Limit:        params.Limit,
		CenterLat:    params.CenterLat,
		CenterLon:    params.CenterLon,
		RadiusMeters: params.RadiusMeters,
	}
	h.respond(c, query)
}

func (h *SearchHandler) respond(c *gin.Context, query models.SearchQuery) {
	locations, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}

	response := models.LocationList{
		Locations:  locations,
		TotalCount: len(locations),
	}
	if query.HasSpatialFilter() {
		within := 0
		for _, loc := range locations {
			if loc.WithinGeofence != nil && *loc.WithinGeofence {
				within++
			}
		}
		response.WithinRadiusCount = &within
	}
	c.JSON(http.StatusOK, response)
}

// writeError maps the engine's error taxonomy onto HTTP statuses: validation
// failures are the caller's fault, pool exhaustion is retryable, everything
// else is an opaque server error (details go to the log, not the response).
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, repository.ErrPoolExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "server busy, retry later"})
	default:
		log.Error().Err(err).Msg("search request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}
