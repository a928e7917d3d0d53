package models

// Pagination defaults shared by every listing
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// NormalizePage clamps page to at least 1 and pageSize to [1, MaxPageSize],
// using DefaultPageSize when pageSize is unset
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// StayPointFilter represents filter parameters for querying stored stay points
type StayPointFilter struct {
	Weekday  *int   `form:"weekday"` // 0-6, Monday=0
	Date     string `form:"date"`    // YYYY-MM-DD
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// TrajectoryPointFilter represents filter parameters for querying stored points
type TrajectoryPointFilter struct {
	StartTime int64 `form:"startTime"` // Unix timestamp
	EndTime   int64 `form:"endTime"`   // Unix timestamp
	Page      int   `form:"page"`
	PageSize  int   `form:"pageSize"`
}
