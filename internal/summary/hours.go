package summary

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// NotGiven is the display literal for an arrival or departure that failed
// format validation.
const NotGiven = "not given"

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// displayTime returns the time-of-day display value for a date/time pair,
// or NotGiven when either part fails validation.
func displayTime(date, clock string) string {
	if dateRe.MatchString(date) && timeRe.MatchString(clock) {
		return clock
	}
	return NotGiven
}

// totalHours computes the billable-hours display. Both endpoints must be
// valid; the difference is clamped to a one-hour minimum and rounded to the
// nearest quarter hour. Any invalid endpoint yields the literal "1.00".
func totalHours(arrDate, arrTime, depDate, depTime string) string {
	if displayTime(arrDate, arrTime) == NotGiven || displayTime(depDate, depTime) == NotGiven {
		return "1.00"
	}

	arr, err1 := time.Parse("2006-01-02 15:04", arrDate+" "+arrTime)
	dep, err2 := time.Parse("2006-01-02 15:04", depDate+" "+depTime)
	if err1 != nil || err2 != nil {
		return "1.00"
	}

	hours := dep.Sub(arr).Hours()
	if hours < 1.0 {
		hours = 1.0
	}
	return fmt.Sprintf("%.2f", math.Round(hours*4)/4)
}
