package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/models"
	"crmdesk/internal/repositories"
	"crmdesk/internal/testutil"
)

type recordingNotifier struct {
	mu    sync.Mutex
	leads []models.Lead
	err   error
}

func (n *recordingNotifier) NotifyNewLead(_ context.Context, lead *models.Lead) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leads = append(n.leads, *lead)
	return n.err
}

func (n *recordingNotifier) received() []models.Lead {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Lead(nil), n.leads...)
}

func newLeadService(t *testing.T, n Notifier) *LeadService {
	db := testutil.NewDB(t)
	return NewLeadService(repositories.NewLeadRepository(db), n, nil, "US")
}

func TestLeadCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Stored and notified", func(t *testing.T) {
		n := &recordingNotifier{}
		svc := newLeadService(t, n)

		lead, err := svc.Create(ctx, models.LeadInput{
			Name:   " Jane Roe ",
			Email:  "jane@example.com",
			Phone:  testutil.Ptr("201-555-0123"),
			Source: testutil.Ptr("website"),
		})
		require.NoError(t, err)
		svc.Wait()

		assert.NotZero(t, lead.ID)
		assert.Equal(t, "Jane Roe", lead.Name)
		assert.Equal(t, models.LeadNew, lead.Status)
		require.NotNil(t, lead.Phone)
		assert.Equal(t, "+12015550123", *lead.Phone)

		got := n.received()
		require.Len(t, got, 1)
		assert.Equal(t, lead.ID, got[0].ID)
	})

	t.Run("Success - Notifier failure is swallowed", func(t *testing.T) {
		svc := newLeadService(t, &recordingNotifier{err: errors.New("smtp down")})
		_, err := svc.Create(ctx, models.LeadInput{Name: "A", Email: "a@example.com"})
		require.NoError(t, err)
		svc.Wait()
	})

	t.Run("Success - No notifier", func(t *testing.T) {
		svc := newLeadService(t, nil)
		_, err := svc.Create(ctx, models.LeadInput{Name: "A", Email: "a@example.com"})
		require.NoError(t, err)
	})

	t.Run("Error - Missing fields", func(t *testing.T) {
		svc := newLeadService(t, nil)
		_, err := svc.Create(ctx, models.LeadInput{Name: " ", Email: "a@example.com"})
		assert.True(t, IsValidation(err))
	})
}

func TestLeadStatusAndNotes(t *testing.T) {
	ctx := context.Background()
	svc := newLeadService(t, nil)
	lead, err := svc.Create(ctx, models.LeadInput{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, lead.ID, models.LeadContacted))
	got, err := svc.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadContacted, got.Status)

	// any status may follow any other
	require.NoError(t, svc.UpdateStatus(ctx, lead.ID, models.LeadNew))

	assert.True(t, IsValidation(svc.UpdateStatus(ctx, lead.ID, "lost")))
	assert.True(t, IsNotFound(svc.UpdateStatus(ctx, 9999, models.LeadConverted)))

	_, err = svc.AddNote(ctx, lead.ID, "called, left voicemail")
	require.NoError(t, err)
	_, err = svc.AddNote(ctx, lead.ID, "sent proposal")
	require.NoError(t, err)

	notes, err := svc.ListNotes(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	_, err = svc.AddNote(ctx, lead.ID, "   ")
	assert.True(t, IsValidation(err))
	_, err = svc.AddNote(ctx, 9999, "x")
	assert.True(t, IsNotFound(err))
	_, err = svc.ListNotes(ctx, 9999)
	assert.True(t, IsNotFound(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
