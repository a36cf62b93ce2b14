package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AttendanceAnalyticsKey returns the cache key for an analytics response.
// An empty session means the combined (no filter) view.
func (r *CacheKeyStruct) AttendanceAnalyticsKey(academicYearID int, periodType, session string) string {
	if session == "" {
		session = "all"
	}
	return fmt.Sprintf("analytics:attendance:%d:%s:%s", academicYearID, periodType, session)
}

var CacheKey = NewCacheKeyStruct()
