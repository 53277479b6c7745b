package services

import (
	"context"
	"errors"
	"log"

	"crmdesk/internal/metrics"
	"crmdesk/internal/models"
)

// Notifier tells the sales team about a freshly captured lead.
type Notifier interface {
	NotifyNewLead(ctx context.Context, lead *models.Lead) error
}

// namedNotifier pairs a channel label with its notifier for logs and metrics.
type namedNotifier struct {
	name string
	n    Notifier
}

// MultiNotifier fans a notification out to every configured channel. One
// failing channel does not stop the others.
type MultiNotifier struct {
	channels []namedNotifier
	metrics  *metrics.Metrics
}

func NewMultiNotifier(m *metrics.Metrics) *MultiNotifier {
	return &MultiNotifier{metrics: m}
}

func (m *MultiNotifier) Add(name string, n Notifier) *MultiNotifier {
	m.channels = append(m.channels, namedNotifier{name: name, n: n})
	return m
}

func (m *MultiNotifier) Len() int { return len(m.channels) }

func (m *MultiNotifier) NotifyNewLead(ctx context.Context, lead *models.Lead) error {
	var errs []error
	for _, ch := range m.channels {
		if err := ch.n.NotifyNewLead(ctx, lead); err != nil {
			log.Printf("[notify][%s][err] lead=%d: %v", ch.name, lead.ID, err)
			m.metrics.NotificationFailed(ch.name)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
