package fees

import "time"

// MatchesPeriod reports whether a timestamp falls in the given month (1-12)
// and year. A nil filter matches everything; comparisons use the UTC
// calendar month and year.
func MatchesPeriod(ts time.Time, month, year *int) bool {
	u := ts.UTC()
	if month != nil && int(u.Month()) != *month {
		return false
	}
	if year != nil && u.Year() != *year {
		return false
	}
	return true
}

// FilterByPeriod keeps the items whose timestamp matches the optional
// month/year filters.
func FilterByPeriod[T any](items []T, timestamp func(T) time.Time, month, year *int) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if MatchesPeriod(timestamp(item), month, year) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
