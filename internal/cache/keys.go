package cache

import "fmt"

// HospitalStatsKey is the cache key for one hospital's aggregated stats.
// Review and reservation writers invalidate it; the stats reader fills it.
func HospitalStatsKey(hospitalID int64) string {
	return fmt.Sprintf("hospital:stats:%d", hospitalID)
}
