package ledger

import (
	"time"

	"github.com/centromex/donorlog/internal/models"
)

// DonorGroup is one donor's records in insertion order.
type DonorGroup struct {
	Name    string
	Records []models.DonationRecord
}

// First is the donor's earliest-inserted record.
func (g DonorGroup) First() models.DonationRecord {
	return g.Records[0]
}

// LastDonationDate is the latest donation date in the group.
func (g DonorGroup) LastDonationDate() time.Time {
	var last time.Time
	for _, rec := range g.Records {
		if rec.DonationDate.After(last) {
			last = rec.DonationDate
		}
	}
	return last
}

// GroupByDonor groups records by normalised name. Groups come back in the
// order each donor first appears.
func GroupByDonor(records []models.DonationRecord) []DonorGroup {
	index := make(map[string]int)
	var groups []DonorGroup
	for _, rec := range records {
		key := NormalizeName(rec.Name)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DonorGroup{Name: key})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}
