package core

import "time"

// ResolveSeed returns seed, or a time-based one when seed is 0.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
