package service

import "time"

const dateLayout = "2006-01-02"

// DateRange resolves a period type into an inclusive [start, end] ISO date
// pair relative to now. Unknown period types fall back to the last 30 days.
func DateRange(periodType string, now time.Time) (string, string) {
	today := now

	switch periodType {
	case "daily":
		return today.AddDate(0, 0, -30).Format(dateLayout), today.Format(dateLayout)
	case "weekly":
		// Last 12 weeks, anchored on the most recent Sunday.
		daysSinceSunday := int(today.Weekday())
		lastSunday := today.AddDate(0, 0, -daysSinceSunday)
		return lastSunday.AddDate(0, 0, -12*7).Format(dateLayout), today.Format(dateLayout)
	case "monthly":
		return today.AddDate(0, 0, -365).Format(dateLayout), today.Format(dateLayout)
	case "yearly":
		// Last 5 academic years; the school year starts in September.
		year := today.Year()
		if today.Month() < time.September {
			year--
		}
		start := time.Date(year-5, time.September, 1, 0, 0, 0, 0, today.Location())
		return start.Format(dateLayout), today.Format(dateLayout)
	default:
		return today.AddDate(0, 0, -30).Format(dateLayout), today.Format(dateLayout)
	}
}
