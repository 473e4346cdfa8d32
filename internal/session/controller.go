// Package session drives the ledger on behalf of a front-end: the console
// menu or the Telegram bot.
package session

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/centromex/donorlog/internal/eligibility"
	"github.com/centromex/donorlog/internal/ledger"
	"github.com/centromex/donorlog/internal/models"
	"github.com/centromex/donorlog/internal/summary"
)

// DonationInput is one add-donation command as typed by the user.
type DonationInput struct {
	Name       string
	BloodGroup string // Ignored when the donor already has a group on file
	Date       string // Blank means today
	Volume     string
}

type Controller struct {
	store       *ledger.Store
	eligibility *eligibility.Engine
	summary     *summary.Engine
	persister   ledger.Persister
	now         func() time.Time
	log         zerolog.Logger
}

type Option func(*Controller)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

func NewController(store *ledger.Store, persister ledger.Persister, opts ...Option) *Controller {
	c := &Controller{
		store:       store,
		eligibility: eligibility.New(store),
		summary:     summary.New(store),
		persister:   persister,
		now:         time.Now,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Today is read from the clock on every call so long sessions stay correct.
func (c *Controller) Today() time.Time {
	return models.DateOf(c.now())
}

func (c *Controller) Check(name string) eligibility.Verdict {
	return c.eligibility.Check(name, c.Today())
}

func (c *Controller) KnownBloodGroup(name string) (string, bool) {
	return c.store.FindExistingBloodGroup(name)
}

// AddDonation validates in and appends it. Donors still inside the donation
// gap are rejected with *eligibility.NotEligibleError. Any error leaves the
// ledger unchanged.
func (c *Controller) AddDonation(in DonationInput) (models.DonationRecord, error) {
	today := c.Today()
	name := ledger.NormalizeName(in.Name)
	if name == "" {
		return models.DonationRecord{}, fmt.Errorf("%w: donor name is empty", models.ErrInvalidRecord)
	}

	if v := c.eligibility.Check(name, today); !v.Eligible {
		return models.DonationRecord{}, &eligibility.NotEligibleError{Name: name, Message: v.Message}
	}

	group, known := c.store.FindExistingBloodGroup(name)
	if !known {
		var err error
		if group, err = ledger.ParseBloodGroup(in.BloodGroup); err != nil {
			return models.DonationRecord{}, err
		}
	}

	date, err := ledger.ParseDate(in.Date, today)
	if err != nil {
		return models.DonationRecord{}, err
	}
	volume, err := ledger.ParseVolume(in.Volume)
	if err != nil {
		return models.DonationRecord{}, err
	}

	rec, err := c.store.Append(models.DonationRecord{
		Name:         name,
		BloodGroup:   group,
		DonationDate: date,
		VolumeML:     volume,
	})
	if err != nil {
		return models.DonationRecord{}, err
	}

	c.log.Debug().
		Str("donor", rec.Name).
		Str("blood_group", rec.BloodGroup).
		Str("date", rec.DonationDate.Format(models.DateLayout)).
		Float64("volume_ml", rec.VolumeML).
		Msg("donation logged")
	return rec, nil
}

func (c *Controller) Eligibility() []models.EligibilitySummary {
	return c.eligibility.ComputeAll(c.Today())
}

func (c *Controller) Summaries() []models.DonorSummary {
	return c.summary.ComputeAll(c.Today())
}

// Export writes the full record set, and the summaries when there is at
// least one record.
func (c *Controller) Export() error {
	if err := c.store.Export(c.persister); err != nil {
		return err
	}

	summaries := c.Summaries()
	if len(summaries) > 0 {
		if err := c.persister.SaveSummaries(summaries); err != nil {
			return fmt.Errorf("failed to save summaries: %w", err)
		}
	}

	c.log.Info().
		Int("records", c.store.Len()).
		Int("donors", len(summaries)).
		Msg("ledger exported")
	return nil
}
