package models

// Location represents a single UK address point with its geographic coordinates.
// Records are read-only at serving time; the engine never mutates what it reads
// from storage. Distance and WithinGeofence are populated only when a search
// carried a spatial filter, and stay null in the JSON body otherwise.
type Location struct {
	Postcode       string   `json:"postcode"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Town           string   `json:"town"`
	County         string   `json:"county"`
	Street1        string   `json:"street1"`
	Street2        string   `json:"street2"`
	District1      string   `json:"district1"`
	District2      string   `json:"district2"`
	WithinGeofence *bool    `json:"within_geofence"`
	Distance       *float64 `json:"distance"`
}

// LocationList is the response body for the search endpoints.
type LocationList struct {
	Locations         []Location `json:"locations"`
	TotalCount        int        `json:"total_count"`
	WithinRadiusCount *int       `json:"within_radius_count"`
}
