package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"location-api/internal/models"
	"location-api/internal/repository"
	"location-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSearchService is a mock implementation of the SearchService interface
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, query models.SearchQuery) ([]models.Location, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Location), args.Error(1)
}

func performSearch(t *testing.T, svc SearchService, route func(*SearchHandler, *gin.Context), value, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if value != "" {
		c.Params = gin.Params{{Key: "value", Value: value}}
	}

	route(NewSearchHandler(svc), c)
	return w
}

func TestSearchHandler_SearchTown(t *testing.T) {
	within := true
	dist := 1234.5

	tests := []struct {
		name           string
		rawQuery       string
		mockLocations  []models.Location
		mockError      error
		expectMock     bool
		expectedStatus int
		expectedDetail string
	}{
		{
			name:     "successful search",
			rawQuery: "limit=10",
			mockLocations: []models.Location{
				{Postcode: "SW1A 1AA", Latitude: 51.501009, Longitude: -0.141588, Town: "LONDON"},
			},
			expectMock:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "validation error from service",
			rawQuery:       "",
			mockLocations:  nil,
			mockError:      fmt.Errorf("%w: town must not be empty", service.ErrInvalidQuery),
			expectMock:     true,
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "invalid query: town must not be empty",
		},
		{
			name:           "pool exhaustion maps to 503",
			rawQuery:       "",
			mockError:      fmt.Errorf("service: town search failed: %w", repository.ErrPoolExhausted),
			expectMock:     true,
			expectedStatus: http.StatusServiceUnavailable,
			expectedDetail: "server busy, retry later",
		},
		{
			name:           "storage failure maps to 500",
			rawQuery:       "",
			mockError:      assert.AnError,
			expectMock:     true,
			expectedStatus: http.StatusInternalServerError,
			expectedDetail: "internal server error",
		},
		{
			name:           "malformed limit rejected at binding",
			rawQuery:       "limit=0",
			expectMock:     false,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "latitude out of binding range",
			rawQuery:       "center_lat=95&center_lon=0&radius_meters=100",
			expectMock:     false,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "spatial annotations pass through",
			rawQuery: "center_lat=51.5074&center_lon=-0.1276&radius_meters=5000",
			mockLocations: []models.Location{
				{Postcode: "SW1A 1AA", Latitude: 51.501009, Longitude: -0.141588, WithinGeofence: &within, Distance: &dist},
			},
			expectMock:     true,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockSearchService)
			if tt.expectMock {
				mockSvc.On("Search", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool {
					return q.Mode == models.ModeTown && q.Value == "London"
				})).Return(tt.mockLocations, tt.mockError)
			}

			w := performSearch(t, mockSvc, (*SearchHandler).SearchTown, "London", tt.rawQuery)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

			if tt.expectedStatus != http.StatusOK {
				detail, ok := body["detail"].(string)
				require.True(t, ok, "error responses carry a detail message")
				if tt.expectedDetail != "" {
					assert.Equal(t, tt.expectedDetail, detail)
				}
				mockSvc.AssertExpectations(t)
				return
			}

			locations := body["locations"].([]any)
			assert.Len(t, locations, len(tt.mockLocations))
			assert.Equal(t, float64(len(tt.mockLocations)), body["total_count"])
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestSearchHandler_SearchSpatial(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing center is rejected before the service runs", func(t *testing.T) {
		mockSvc := new(MockSearchService)

		w := performSearch(t, mockSvc, (*SearchHandler).SearchSpatial, "", "radius_meters=5000")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Search")
	})

	t.Run("radius defaults to 15000", func(t *testing.T) {
		mockSvc := new(MockSearchService)
		mockSvc.On("Search", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool {
			return q.Mode == models.ModeSpatial &&
				q.RadiusMeters != nil && *q.RadiusMeters == 15000 &&
				q.CenterLat != nil && *q.CenterLat == 51.5074
		})).Return([]models.Location{}, nil)

		w := performSearch(t, mockSvc, (*SearchHandler).SearchSpatial, "", "center_lat=51.5074&center_lon=-0.1276")

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("within_radius_count reported for spatial results", func(t *testing.T) {
		within := true
		d1, d2 := 100.0, 200.0
		mockSvc := new(MockSearchService)
		mockSvc.On("Search", mock.Anything, mock.Anything).Return([]models.Location{
			{Postcode: "A", WithinGeofence: &within, Distance: &d1},
			{Postcode: "B", WithinGeofence: &within, Distance: &d2},
		}, nil)

		w := performSearch(t, mockSvc, (*SearchHandler).SearchSpatial, "",
			"center_lat=51.5074&center_lon=-0.1276&radius_meters=5000")

		require.Equal(t, http.StatusOK, w.Code)

		var body models.LocationList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 2, body.TotalCount)
		require.NotNil(t, body.WithinRadiusCount)
		assert.Equal(t, 2, *body.WithinRadiusCount)
	})
}

func TestSearchHandler_NullAnnotationsWithoutSpatialFilter(t *testing.T) {
	mockSvc := new(MockSearchService)
	mockSvc.On("Search", mock.Anything, mock.Anything).Return([]models.Location{
		{Postcode: "SW1A 1AA", Latitude: 51.501009, Longitude: -0.141588},
	}, nil)

	w := performSearch(t, mockSvc, (*SearchHandler).SearchPostcode, "SW1A 1AA", "")

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	record := body["locations"].([]any)[0].(map[string]any)
	_, hasDistance := record["distance"]
	assert.True(t, hasDistance)
	assert.Nil(t, record["distance"])
	assert.Nil(t, record["within_geofence"])
	assert.Nil(t, body["within_radius_count"])
}
