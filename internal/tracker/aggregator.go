package tracker

import "dlb/internal/models"

// SumSince totals the income of rooms started at or after windowStart.
// Rooms without a usable start time are excluded; unparseable income
// values were already mapped to 0 at the decode boundary. A malformed
// record can therefore never abort the aggregation.
func SumSince(rooms []models.RoomSnapshot, windowStart int64) int64 {
	var total int64
	for _, r := range rooms {
		if r.StartTime <= 0 {
			continue
		}
		if r.StartTime >= windowStart {
			total += r.Income
		}
	}
	return total
}
