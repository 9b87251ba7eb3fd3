package resume

import (
	"time"

	"github.com/google/uuid"
)

const EventsTopic = "resume.events"

type EventType string

const (
	EventCreated       EventType = "resume.created"
	EventUpdated       EventType = "resume.updated"
	EventImageReplaced EventType = "resume.image_replaced"
	EventDeleted       EventType = "resume.deleted"
)

// Event is the lifecycle notification published after a commit. AssetID
// names an image asset that is no longer referenced and may be destroyed.
type Event struct {
	Type       EventType `json:"type"`
	ResumeID   uuid.UUID `json:"resume_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	AssetID    string    `json:"asset_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(t EventType, r *Resume, now time.Time) Event {
	return Event{
		Type:       t,
		ResumeID:   r.ID,
		OwnerID:    r.OwnerID,
		OccurredAt: now,
	}
}
