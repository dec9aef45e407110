package rules

import (
	"fmt"
	"time"
)

const ageBandYears = 5

// AgeAt returns completed years between birthdate and now, counting a
// year only once the birthday month/day has passed.
func AgeAt(birthdate, now time.Time) int {
	b := birthdate.UTC()
	n := now.UTC()

	years := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// AgeBand buckets an age into the five-year band used when
// conditioning like rates on shared attributes, e.g. 32 -> "30-34".
func AgeBand(age int) string {
	if age < 0 {
		age = 0
	}
	low := age / ageBandYears * ageBandYears
	return fmt.Sprintf("%d-%d", low, low+ageBandYears-1)
}

func IsMinor(birthdate *time.Time, now time.Time) bool {
	if birthdate == nil {
		return false
	}
	return AgeAt(*birthdate, now) < 18
}
