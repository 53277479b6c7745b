package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"crmdesk/internal/metrics"
	"crmdesk/internal/models"
	"crmdesk/internal/repositories"
	"crmdesk/internal/utils"
)

const notifyTimeout = 30 * time.Second

type LeadService struct {
	Repo        *repositories.LeadRepository
	Notifier    Notifier
	Metrics     *metrics.Metrics
	PhoneRegion string

	wg  sync.WaitGroup
	now func() time.Time
}

func NewLeadService(repo *repositories.LeadRepository, notifier Notifier, m *metrics.Metrics, phoneRegion string) *LeadService {
	return &LeadService{
		Repo:        repo,
		Notifier:    notifier,
		Metrics:     m,
		PhoneRegion: phoneRegion,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new lead and fires the new-lead notification in the
// background. Notification failures never reach the caller.
func (s *LeadService) Create(ctx context.Context, in models.LeadInput) (*models.Lead, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, NewValidationError("name and email are required")
	}
	lead := &models.Lead{
		Name:      name,
		Email:     email,
		Phone:     in.Phone,
		Source:    in.Source,
		Status:    models.LeadNew,
		CreatedAt: s.now(),
	}
	if in.Phone != nil {
		if p := utils.NormalizePhone(*in.Phone, s.PhoneRegion); p != "" {
			lead.Phone = &p
		} else {
			lead.Phone = nil
		}
	}
	if err := s.Repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	s.Metrics.LeadCaptured()
	log.Printf("[leads][create] id=%d email=%s", lead.ID, lead.Email)

	if s.Notifier != nil {
		s.wg.Add(1)
		go func(l models.Lead) {
			defer s.wg.Done()
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := s.Notifier.NotifyNewLead(nctx, &l); err != nil {
				log.Printf("[leads][notify][err] id=%d: %v", l.ID, err)
			}
		}(*lead)
	}
	return lead, nil
}

// Wait blocks until in-flight notifications finish.
func (s *LeadService) Wait() {
	s.wg.Wait()
}

func (s *LeadService) List(ctx context.Context) ([]models.Lead, error) {
	return s.Repo.List(ctx)
}

func (s *LeadService) Get(ctx context.Context, id int64) (*models.Lead, error) {
	lead, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, NewNotFoundError("lead")
	}
	return lead, nil
}

func (s *LeadService) UpdateStatus(ctx context.Context, id int64, status models.LeadStatus) error {
	if !LeadStatuses[status] {
		return NewValidationError("invalid status %q", status)
	}
	ok, err := s.Repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("lead")
	}
	return nil
}

func (s *LeadService) AddNote(ctx context.Context, leadID int64, text string) (*models.LeadNote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewValidationError("note is required")
	}
	if _, err := s.Get(ctx, leadID); err != nil {
		return nil, err
	}
	note := &models.LeadNote{LeadID: leadID, Note: text, CreatedAt: s.now()}
	if err := s.Repo.AddNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *LeadService) ListNotes(ctx context.Context, leadID int64) ([]models.LeadNote, error) {
	if _, err := s.Get(ctx, leadID); err != nil {
		return nil, err
	}
	return s.Repo.ListNotes(ctx, leadID)
}
