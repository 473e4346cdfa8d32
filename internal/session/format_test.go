package session

import (
	"strings"
	"testing"

	"github.com/centromex/donorlog/internal/models"
)

func TestFormatEligibility(t *testing.T) {
	d := seedRecord("x", "x", "2024-02-01", 0).DonationDate
	out := FormatEligibility([]models.EligibilitySummary{
		{Name: "Alice", BloodGroup: "O-", LastDonationDate: d, DaysSinceLast: 90, Eligible: true},
		{Name: "Bob", BloodGroup: "A+", LastDonationDate: d, DaysSinceLast: 12, Eligible: false},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], "Alice") || !strings.HasSuffix(lines[2], "    Eligible") {
		t.Errorf("Alice row = %q", lines[2])
	}
	if !strings.HasSuffix(lines[3], "Not Eligible") || !strings.Contains(lines[3], "2024-02-01") {
		t.Errorf("Bob row = %q", lines[3])
	}
}

func TestFormatSummary(t *testing.T) {
	d := seedRecord("x", "x", "2024-02-01", 0).DonationDate
	out := FormatSummary([]models.DonorSummary{
		{Name: "Alice", BloodGroup: "O-", TotalVolumeML: 850, DonationCount: 2, LastDonationDate: d, DaysSinceLast: 90},
	})

	row := strings.Split(strings.TrimRight(out, "\n"), "\n")[2]
	fields := strings.Fields(row)
	want := []string{"Alice", "O-", "850", "2", "2024-02-01", "90"}
	if strings.Join(fields, " ") != strings.Join(want, " ") {
		t.Errorf("row fields = %v, want %v", fields, want)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := FormatEligibility(nil); got != "No donation records found." {
		t.Errorf("FormatEligibility(nil) = %q", got)
	}
	if got := FormatSummary(nil); got != "No donation records found." {
		t.Errorf("FormatSummary(nil) = %q", got)
	}
}
