package models

// LatLonPair is a [lat, lon] coordinate as sent by API clients
type LatLonPair [2]float64

// GridCountRequest is the JSON body of a grid occupancy request
type GridCountRequest struct {
	UpperRight LatLonPair   `json:"upperRight"`
	LowerLeft  LatLonPair   `json:"lowerLeft"`
	N          int          `json:"n"`
	Points     []LatLonPair `json:"points"`
}

// GridCellCount is one cell of an n x n grid with its occupancy
type GridCellCount struct {
	Index      int          `json:"index"`
	Row        int          `json:"row"`
	Col        int          `json:"col"`
	LowerLeft  LatLonPair   `json:"lowerLeft"`
	UpperRight LatLonPair   `json:"upperRight"`
	Polygon    [][2]float64 `json:"polygon"` // GeoJSON ring, [lon, lat]
	Count      int          `json:"count"`
}

// GridCountResponse is returned by the grid occupancy endpoint
type GridCountResponse struct {
	Cells    []GridCellCount `json:"cells"`
	MaxCount int             `json:"maxCount"`
	Total    int             `json:"total"`
}

// ContainsRequest asks whether a point lies inside a polygon
type ContainsRequest struct {
	Point   LatLonPair   `json:"point"`
	Polygon []LatLonPair `json:"polygon"`
}
