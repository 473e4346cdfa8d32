// Package summary aggregates per-donor totals for reports and export.
package summary

import (
	"sort"
	"time"

	"github.com/centromex/donorlog/internal/ledger"
	"github.com/centromex/donorlog/internal/models"
)

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

// ComputeAll returns one DonorSummary per donor sorted by last donation,
// newest first. Callers must treat an empty result as "no records".
func (e *Engine) ComputeAll(today time.Time) []models.DonorSummary {
	groups := ledger.GroupByDonor(e.source.Records())

	result := make([]models.DonorSummary, 0, len(groups))
	for _, g := range groups {
		var total float64
		for _, rec := range g.Records {
			total += rec.VolumeML
		}
		last := g.LastDonationDate()
		result = append(result, models.DonorSummary{
			Name:             g.Name,
			BloodGroup:       g.First().BloodGroup,
			TotalVolumeML:    total,
			DonationCount:    len(g.Records),
			LastDonationDate: last,
			DaysSinceLast:    models.DaysBetween(today, last),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastDonationDate.After(result[j].LastDonationDate)
	})
	return result
}
