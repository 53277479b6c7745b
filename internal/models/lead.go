package models

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
)

// Lead is a prospect captured by the public form or entered by an admin.
type Lead struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Email     string     `json:"email" db:"email"`
	Phone     *string    `json:"phone" db:"phone"`
	Source    *string    `json:"source" db:"source"`
	Status    LeadStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type LeadNote struct {
	ID        int64     `json:"id" db:"id"`
	LeadID    int64     `json:"-" db:"lead_id"`
	Note      string    `json:"note" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LeadInput is the body of the public POST /leads.
type LeadInput struct {
	Name   string  `json:"name" binding:"required"`
	Email  string  `json:"email" binding:"required,email"`
	Phone  *string `json:"phone"`
	Source *string `json:"source"`
}

type LeadStatusInput struct {
	Status LeadStatus `json:"status" binding:"required,lead_status"`
}

type LeadNoteInput struct {
	Note string `json:"note" binding:"required"`
}
