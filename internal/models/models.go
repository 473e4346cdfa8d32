package models

import "time"

// DateLayout is the on-disk and on-screen form of a donation date.
const DateLayout = "2006-01-02"

// DonationRecord is one logged donation. Records are never edited once appended.
type DonationRecord struct {
	Name         string    // Title-cased donor name, the identity key
	BloodGroup   string    // e.g. "A+", "O-"
	DonationDate time.Time // Calendar date at UTC midnight
	VolumeML     float64
}

// EligibilitySummary is derived per donor on every request
type EligibilitySummary struct {
	Name             string
	BloodGroup       string // Group from the donor's first record
	LastDonationDate time.Time
	DaysSinceLast    int
	Eligible         bool
}

// DonorSummary holds per-donor totals for reports and export
type DonorSummary struct {
	Name             string
	BloodGroup       string
	TotalVolumeML    float64
	DonationCount    int
	LastDonationDate time.Time
	DaysSinceLast    int
}

// DateOf strips the clock from t, keeping the calendar date t falls on in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from earlier to later.
func DaysBetween(later, earlier time.Time) int {
	return int(DateOf(later).Sub(DateOf(earlier)).Hours() / 24)
}
