package scheduler

import (
	"time"
)

var knownSchedules = map[string]string{
	"0 * * * *":    "every hour at :00",
	"*/15 * * * *": "every 15 minutes",
	"*/30 * * * *": "every 30 minutes",
	"0 */6 * * *":  "every 6 hours",
	"0 0 * * *":    "daily at midnight",
	"0 0 * * 0":    "weekly on Sunday at midnight",
}

// ValidateSchedule reports whether spec is a usable five-field cron spec.
func ValidateSchedule(spec string) error {
	_, err := Parser.Parse(spec)
	return err
}

// Describe returns a short human-readable form of spec for log lines.
func Describe(spec string) string {
	if description, ok := knownSchedules[spec]; ok {
		return description
	}
	return "custom schedule " + spec
}

// NextRun returns the first activation of spec after from.
func NextRun(spec string, from time.Time) (time.Time, error) {
	schedule, err := Parser.Parse(spec)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(from), nil
}
