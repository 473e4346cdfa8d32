// Package ledger owns the in-memory list of donation records and its
// persisted forms.
package ledger

import (
	"fmt"
	"math"
	"strings"

	"github.com/centromex/donorlog/internal/models"
)

// Persister moves the record set to and from durable storage.
type Persister interface {
	LoadDonations() ([]models.DonationRecord, error)
	SaveDonations(records []models.DonationRecord) error
	SaveSummaries(summaries []models.DonorSummary) error
}

// Store is the authoritative, append-only record collection.
// It is owned by a single goroutine.
type Store struct {
	records []models.DonationRecord
}

func NewStore() *Store {
	return &Store{}
}

// Load replaces the current records with the persisted set.
// A persister with nothing saved yet yields an empty store.
func (s *Store) Load(p Persister) error {
	records, err := p.LoadDonations()
	if err != nil {
		return fmt.Errorf("failed to load donations: %w", err)
	}

	loaded := make([]models.DonationRecord, 0, len(records))
	for _, rec := range records {
		rec.Name = NormalizeName(rec.Name)
		rec.BloodGroup = strings.ToUpper(strings.TrimSpace(rec.BloodGroup))
		rec.DonationDate = models.DateOf(rec.DonationDate)
		loaded = append(loaded, rec)
	}
	s.records = loaded
	return nil
}

// Append adds one record to the end of the collection.
// On error the store is left unchanged.
func (s *Store) Append(rec models.DonationRecord) (models.DonationRecord, error) {
	rec.Name = NormalizeName(rec.Name)
	if rec.Name == "" {
		return rec, fmt.Errorf("%w: donor name is empty", models.ErrInvalidRecord)
	}
	if rec.DonationDate.IsZero() {
		return rec, fmt.Errorf("%w: donation date is missing", models.ErrInvalidRecord)
	}
	if rec.VolumeML < 0 || math.IsNaN(rec.VolumeML) || math.IsInf(rec.VolumeML, 0) {
		return rec, fmt.Errorf("%w: volume %v must be a non-negative number", models.ErrInvalidRecord, rec.VolumeML)
	}
	group, err := ParseBloodGroup(rec.BloodGroup)
	if err != nil {
		return rec, err
	}

	rec.BloodGroup = group
	rec.DonationDate = models.DateOf(rec.DonationDate)
	s.records = append(s.records, rec)
	return rec, nil
}

// FindExistingBloodGroup returns the group of the first record for name.
func (s *Store) FindExistingBloodGroup(name string) (string, bool) {
	for _, rec := range s.records {
		if SameDonor(rec.Name, name) {
			return rec.BloodGroup, true
		}
	}
	return "", false
}

// Export overwrites the persisted record set with the current collection.
func (s *Store) Export(p Persister) error {
	if err := p.SaveDonations(s.Records()); err != nil {
		return fmt.Errorf("failed to save donations: %w", err)
	}
	return nil
}

// Records returns a copy of the collection in insertion order.
func (s *Store) Records() []models.DonationRecord {
	out := make([]models.DonationRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	return len(s.records)
}
