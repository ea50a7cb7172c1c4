package outlet

type OutletResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	IsActive     bool    `json:"is_active"`
}

type ListOutletsResponse struct {
	Outlets []OutletResponse `json:"outlets"`
	Total   int              `json:"total"`
}
