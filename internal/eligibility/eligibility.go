// Package eligibility applies the 90-day donation gap rule to the ledger.
package eligibility

import (
	"fmt"
	"sort"
	"time"

	"github.com/centromex/donorlog/internal/ledger"
	"github.com/centromex/donorlog/internal/models"
)

// DonationGapDays is the minimum number of days between two donations.
const DonationGapDays = 90

// RecordSource is satisfied by *ledger.Store.
type RecordSource interface {
	Records() []models.DonationRecord
}

type Engine struct {
	source RecordSource
}

func New(source RecordSource) *Engine {
	return &Engine{source: source}
}

// Verdict answers whether a single donor may donate today.
type Verdict struct {
	Eligible bool
	Message  string // Set only when not eligible
}

// ComputeAll derives one EligibilitySummary per donor, most recent donors first.
// An empty ledger yields an empty slice.
func (e *Engine) ComputeAll(today time.Time) []models.EligibilitySummary {
	groups := ledger.GroupByDonor(e.source.Records())

	result := make([]models.EligibilitySummary, 0, len(groups))
	for _, g := range groups {
		last := g.LastDonationDate()
		days := models.DaysBetween(today, last)
		result = append(result, models.EligibilitySummary{
			Name:             g.Name,
			BloodGroup:       g.First().BloodGroup,
			LastDonationDate: last,
			DaysSinceLast:    days,
			Eligible:         days >= DonationGapDays,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastDonationDate.After(result[j].LastDonationDate)
	})
	return result
}

// Check looks name up case-insensitively. Donors with no history are eligible.
func (e *Engine) Check(name string, today time.Time) Verdict {
	for _, s := range e.ComputeAll(today) {
		if !ledger.SameDonor(s.Name, name) {
			continue
		}
		if s.Eligible {
			return Verdict{Eligible: true}
		}
		return Verdict{Eligible: false, Message: WaitMessage(s.DaysSinceLast)}
	}
	return Verdict{Eligible: true}
}

// WaitMessage tells a donor how long until they may donate again. It is empty
// once the gap has already passed.
func WaitMessage(daysSinceLast int) string {
	daysLeft := DonationGapDays - daysSinceLast
	if daysLeft <= 0 {
		return ""
	}
	return fmt.Sprintf("You are not eligible to donate blood. Please wait at least %d more day(s).", daysLeft)
}

// NotEligibleError rejects a donation that falls inside the gap.
type NotEligibleError struct {
	Name    string
	Message string
}

func (e *NotEligibleError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s is not eligible to donate yet", e.Name)
	}
	return e.Message
}

func (e *NotEligibleError) Unwrap() error {
	return models.ErrNotEligible
}
