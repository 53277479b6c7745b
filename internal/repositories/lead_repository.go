package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"crmdesk/internal/models"
)

type LeadRepository struct {
	db *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	const q = `
		INSERT INTO leads (name, email, phone, source, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(q),
		lead.Name, lead.Email, lead.Phone, lead.Source, lead.Status, lead.CreatedAt,
	).Scan(&lead.ID)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*models.Lead, error) {
	const q = `SELECT id, name, email, phone, source, status, created_at FROM leads WHERE id = ?`
	var l models.Lead
	if err := r.db.GetContext(ctx, &l, r.db.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &l, nil
}

func (r *LeadRepository) List(ctx context.Context) ([]models.Lead, error) {
	const q = `SELECT id, name, email, phone, source, status, created_at FROM leads ORDER BY created_at DESC, id DESC`
	out := []models.Lead{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return out, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status models.LeadStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE leads SET status = ? WHERE id = ?`), status, id)
	if err != nil {
		return false, fmt.Errorf("update lead status: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *LeadRepository) AddNote(ctx context.Context, note *models.LeadNote) error {
	const q = `INSERT INTO lead_notes (lead_id, note, created_at) VALUES (?, ?, ?) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(q), note.LeadID, note.Note, note.CreatedAt).Scan(&note.ID); err != nil {
		return fmt.Errorf("add lead note: %w", err)
	}
	return nil
}

func (r *LeadRepository) ListNotes(ctx context.Context, leadID int64) ([]models.LeadNote, error) {
	const q = `
		SELECT id, lead_id, note, created_at
		FROM lead_notes
		WHERE lead_id = ?
		ORDER BY created_at DESC, id DESC`
	out := []models.LeadNote{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), leadID); err != nil {
		return nil, fmt.Errorf("list lead notes: %w", err)
	}
	return out, nil
}
