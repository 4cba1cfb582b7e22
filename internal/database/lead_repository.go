package database

import (
	"fmt"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/google/uuid"
)

const leadSchema = `
	CREATE TABLE IF NOT EXISTS leads (
		id          UUID PRIMARY KEY,
		kind        VARCHAR(32)  NOT NULL,
		status      VARCHAR(16)  NOT NULL,
		name        VARCHAR(255) NOT NULL DEFAULT '',
		email       VARCHAR(255) NOT NULL DEFAULT '',
		phone       VARCHAR(64)  NOT NULL DEFAULT '',
		subject     VARCHAR(255) NOT NULL DEFAULT '',
		payload     TEXT         NOT NULL DEFAULT '',
		error       TEXT         NOT NULL DEFAULT '',
		ip_address  VARCHAR(64)  NOT NULL DEFAULT '',
		device_type VARCHAR(32)  NOT NULL DEFAULT '',
		os          VARCHAR(64)  NOT NULL DEFAULT '',
		browser     VARCHAR(64)  NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ  NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at DESC)
`

// LeadRepository handles the lead journal
type LeadRepository struct {
	db DB
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// EnsureSchema creates the leads table when it does not exist yet
func (r *LeadRepository) EnsureSchema() error {
	if _, err := r.db.Exec(leadSchema); err != nil {
		return fmt.Errorf("failed to create leads table: %w", err)
	}
	return nil
}

// Create records a lead. ID and CreatedAt are filled in when empty.
func (r *LeadRepository) Create(lead *models.Lead) error {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO leads (
			id, kind, status, name, email, phone, subject, payload, error,
			ip_address, device_type, os, browser, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(
		query,
		lead.ID,
		lead.Kind,
		lead.Status,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Subject,
		lead.Payload,
		lead.Error,
		lead.IPAddress,
		lead.DeviceType,
		lead.OS,
		lead.Browser,
		lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

// ListRecent returns the newest leads first
func (r *LeadRepository) ListRecent(limit int) ([]models.Lead, error) {
	query := `
		SELECT id, kind, status, name, email, phone, subject, payload, error,
		       ip_address, device_type, os, browser, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`

	leads := []models.Lead{}
	if err := r.db.Select(&leads, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, nil
}

// PurgeOlderThan deletes leads created before cutoff and returns the count
func (r *LeadRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM leads WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge leads: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged leads: %w", err)
	}

	return removed, nil
}
