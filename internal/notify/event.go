package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
)

//go:generate mockgen -source=event.go -destination=mocks/mock_event.go -package=mocks

// Kind - тип события жизненного цикла, о котором уведомляется автор сообщения
type Kind string

const (
	KindReported Kind = "reported"
	KindVerified Kind = "verified"
	KindRejected Kind = "rejected"
	KindResolved Kind = "resolved"
)

// Event - событие для уведомления автора инцидента
type Event struct {
	Kind         Kind                `json:"kind"`
	IncidentID   uuid.UUID           `json:"incident_id"`
	IncidentType models.IncidentType `json:"incident_type"`
	ReporterID   uuid.UUID           `json:"reporter_id"`
	Reason       string              `json:"reason,omitempty"`
	OccurredAt   time.Time           `json:"occurred_at"`
}

// NewEvent собирает событие по состоянию инцидента после перехода
func NewEvent(kind Kind, incident *models.Incident, at time.Time) Event {
	return Event{
		Kind:         kind,
		IncidentID:   incident.ID,
		IncidentType: incident.Type,
		ReporterID:   incident.ReportedBy,
		Reason:       incident.RejectionReason,
		OccurredAt:   at,
	}
}

// Publisher - интерфейс для публикации событий в очередь
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Dispatcher принимает событие и возвращает управление сразу, не дожидаясь доставки.
// Ошибки доставки не возвращаются вызывающему.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}
