package session

import (
	"fmt"
	"strings"

	"github.com/centromex/donorlog/internal/models"
)

const noRecords = "No donation records found."

func eligibilityLabel(eligible bool) string {
	if eligible {
		return "Eligible"
	}
	return "Not Eligible"
}

// FormatEligibility renders the 90-day eligibility table.
func FormatEligibility(rows []models.EligibilitySummary) string {
	if len(rows) == 0 {
		return noRecords
	}

	var sb strings.Builder
	sb.WriteString("Eligibility Status based on 90-day rule\n")
	sb.WriteString(fmt.Sprintf("%-25s    %-15s    %16s    %14s    %12s\n",
		"Name", "Blood Group", "Last Donation", "Days Since", "Eligibility"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-25s    %-15s    %16s    %14d    %12s\n",
			r.Name, r.BloodGroup, r.LastDonationDate.Format(models.DateLayout),
			r.DaysSinceLast, eligibilityLabel(r.Eligible)))
	}
	return sb.String()
}

// FormatSummary renders the per-donor totals table.
func FormatSummary(rows []models.DonorSummary) string {
	if len(rows) == 0 {
		return noRecords
	}

	var sb strings.Builder
	sb.WriteString("Donor Summary\n")
	sb.WriteString(fmt.Sprintf("%-25s    %-15s    %12s    %8s    %16s    %14s\n",
		"Name", "Blood Group", "Total(ml)", "Count", "Last Donation", "Days Since"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-25s    %-15s    %12.0f    %8d    %16s    %14d\n",
			r.Name, r.BloodGroup, r.TotalVolumeML, r.DonationCount,
			r.LastDonationDate.Format(models.DateLayout), r.DaysSinceLast))
	}
	return sb.String()
}
