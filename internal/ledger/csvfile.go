package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/centromex/donorlog/internal/models"
)

var (
	donationHeader = []string{"Name", "Blood Group", "Donation Date", "Volume (ml)"}
	summaryHeader  = []string{"Name", "Blood Group", "Total Volume (ml)", "Donation Count", "Last Donation", "Days Since Last Donation"}
)

// CSVFiles persists records and summaries as two comma-separated files.
type CSVFiles struct {
	DataPath    string
	SummaryPath string
}

func NewCSVFiles(dataPath, summaryPath string) *CSVFiles {
	return &CSVFiles{DataPath: dataPath, SummaryPath: summaryPath}
}

// LoadDonations reads the record file. A missing file is an empty ledger.
func (c *CSVFiles) LoadDonations() ([]models.DonationRecord, error) {
	f, err := os.Open(c.DataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.DataPath, err)
	}
	defer f.Close()

	return ReadDonations(f)
}

// ReadDonations decodes a record CSV with a header row.
func ReadDonations(r io.Reader) ([]models.DonationRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(donationHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := checkHeader(header, donationHeader); err != nil {
		return nil, err
	}

	var records []models.DonationRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrParse, err)
		}
		line, _ := cr.FieldPos(0)

		date, err := time.Parse(models.DateLayout, strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: date %q is not YYYY-MM-DD", models.ErrParse, line, row[2])
		}
		volume, err := ParseVolume(row[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		records = append(records, models.DonationRecord{
			Name:         row[0],
			BloodGroup:   row[1],
			DonationDate: date,
			VolumeML:     volume,
		})
	}

	return records, nil
}

// SaveDonations overwrites the record file.
func (c *CSVFiles) SaveDonations(records []models.DonationRecord) error {
	return writeFile(c.DataPath, func(w io.Writer) error {
		return WriteDonations(w, records)
	})
}

// WriteDonations encodes records with a header row.
func WriteDonations(w io.Writer, records []models.DonationRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(donationHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Name,
			rec.BloodGroup,
			rec.DonationDate.Format(models.DateLayout),
			FormatVolume(rec.VolumeML),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveSummaries overwrites the summary file.
func (c *CSVFiles) SaveSummaries(summaries []models.DonorSummary) error {
	return writeFile(c.SummaryPath, func(w io.Writer) error {
		return WriteSummaries(w, summaries)
	})
}

// WriteSummaries encodes per-donor totals with a header row.
func WriteSummaries(w io.Writer, summaries []models.DonorSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		row := []string{
			s.Name,
			s.BloodGroup,
			FormatVolume(s.TotalVolumeML),
			strconv.Itoa(s.DonationCount),
			s.LastDonationDate.Format(models.DateLayout),
			strconv.Itoa(s.DaysSinceLast),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func checkHeader(got, want []string) error {
	for i := range want {
		// Spreadsheet tools sometimes prepend a BOM.
		if strings.TrimPrefix(strings.TrimSpace(got[i]), "\ufeff") != want[i] {
			return fmt.Errorf("%w: unexpected header %q, want %q", models.ErrParse, strings.Join(got, ","), strings.Join(want, ","))
		}
	}
	return nil
}

// writeFile truncates path and writes it in place. A crash mid-write can leave
// a partial file.
func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
