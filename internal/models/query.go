package models

// SearchMode selects one of the four query shapes the engine supports.
// It is a closed set: the service layer switches over it exhaustively, so
// adding a mode is a compile-time-checked change.
type SearchMode uint8

const (
	ModePostcode SearchMode = iota
	ModeTown
	ModeCounty
	ModeSpatial
)

func (m SearchMode) String() string {
	switch m {
	case ModePostcode:
		return "postcode"
	case ModeTown:
		return "town"
	case ModeCounty:
		return "county"
	case ModeSpatial:
		return "spatial"
	default:
		return "unknown"
	}
}

// SearchQuery is a validated-later search request. Value is required for
// non-spatial modes. The spatial fields are all-or-nothing: a spatial mode
// query requires all three, other modes may carry all three as a post-filter.
type SearchQuery struct {
	Mode         SearchMode
	Value        string
	Limit        int
	CenterLat    *float64
	CenterLon    *float64
	RadiusMeters *float64
}

// HasSpatialFilter reports whether all three spatial fields are present.
func (q SearchQuery) HasSpatialFilter() bool {
	return q.CenterLat != nil && q.CenterLon != nil && q.RadiusMeters != nil
}
