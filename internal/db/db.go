package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/centromex/donorlog/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DB persists the ledger in a local SQLite file
type DB struct {
	conn *sql.DB
}

// New opens (creating if needed) the SQLite database at dbPath
func New(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS donations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		blood_group TEXT NOT NULL,
		donation_date TEXT NOT NULL,
		volume_ml REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS donor_summaries (
		name TEXT PRIMARY KEY,
		blood_group TEXT NOT NULL,
		total_volume_ml REAL NOT NULL,
		donation_count INTEGER NOT NULL,
		last_donation TEXT NOT NULL,
		days_since_last INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_donations_name ON donations(name);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// LoadDonations returns every stored donation in insertion order
func (db *DB) LoadDonations() ([]models.DonationRecord, error) {
	rows, err := db.conn.Query(
		`SELECT name, blood_group, donation_date, volume_ml FROM donations ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DonationRecord
	for rows.Next() {
		var rec models.DonationRecord
		var date string
		if err := rows.Scan(&rec.Name, &rec.BloodGroup, &date, &rec.VolumeML); err != nil {
			return nil, err
		}
		rec.DonationDate, err = time.Parse(models.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("%w: stored date %q for %s", models.ErrParse, date, rec.Name)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// SaveDonations replaces the stored donations with records
func (db *DB) SaveDonations(records []models.DonationRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM donations`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO donations (name, blood_group, donation_date, volume_ml) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.Exec(rec.Name, rec.BloodGroup, rec.DonationDate.Format(models.DateLayout), rec.VolumeML)
		if err != nil {
			return fmt.Errorf("failed to insert donation for %s: %w", rec.Name, err)
		}
	}

	return tx.Commit()
}

// SaveSummaries replaces the stored donor summaries
func (db *DB) SaveSummaries(summaries []models.DonorSummary) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM donor_summaries`); err != nil {
		return err
	}

	for _, s := range summaries {
		_, err := tx.Exec(
			`INSERT INTO donor_summaries (name, blood_group, total_volume_ml, donation_count, last_donation, days_since_last)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.Name, s.BloodGroup, s.TotalVolumeML, s.DonationCount,
			s.LastDonationDate.Format(models.DateLayout), s.DaysSinceLast,
		)
		if err != nil {
			return fmt.Errorf("failed to insert summary for %s: %w", s.Name, err)
		}
	}

	return tx.Commit()
}

// LoadSummaries returns the summaries written by the last export, newest donation first
func (db *DB) LoadSummaries() ([]models.DonorSummary, error) {
	rows, err := db.conn.Query(
		`SELECT name, blood_group, total_volume_ml, donation_count, last_donation, days_since_last
		 FROM donor_summaries ORDER BY last_donation DESC, rowid ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.DonorSummary
	for rows.Next() {
		var s models.DonorSummary
		var last string
		err := rows.Scan(&s.Name, &s.BloodGroup, &s.TotalVolumeML, &s.DonationCount, &last, &s.DaysSinceLast)
		if err != nil {
			return nil, err
		}
		if s.LastDonationDate, err = time.Parse(models.DateLayout, last); err != nil {
			return nil, fmt.Errorf("%w: stored date %q for %s", models.ErrParse, last, s.Name)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
