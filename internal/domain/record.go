package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubjectStatus tracks a record through the handoff queue
type SubjectStatus string

const (
	StatusIssued  SubjectStatus = "issued"
	StatusClaimed SubjectStatus = "claimed"
)

// SubjectRecord is a row in the handoff queue: an issued subject parked
// in its serialized form until the transfer engine claims it
type SubjectRecord struct {
	ID         string        `json:"id" gorm:"primaryKey"`
	Kind       SubjectKind   `json:"kind" gorm:"not null;index"`
	Title      string        `json:"title"`
	URL        string        `json:"url"`
	NotifyID   int           `json:"notify_id" gorm:"not null"`
	AutoLaunch bool          `json:"auto_launch"`
	Envelope   string        `json:"envelope" gorm:"type:text"`
	Status     SubjectStatus `json:"status" gorm:"not null;index"`
	CreatedAt  time.Time     `json:"created_at" gorm:"autoCreateTime"`
	ClaimedAt  *time.Time    `json:"claimed_at,omitempty"`
}

// NewSubjectRecord creates a queue record for an issued subject
func NewSubjectRecord(s Subject, envelope []byte) *SubjectRecord {
	return &SubjectRecord{
		ID:         uuid.New().String(),
		Kind:       s.Kind(),
		Title:      s.Title(),
		URL:        s.URL(),
		NotifyID:   s.NotifyID(),
		AutoLaunch: s.AutoLaunch(),
		Envelope:   string(envelope),
		Status:     StatusIssued,
		CreatedAt:  time.Now(),
	}
}

// MarkClaimed marks the record as handed to the transfer engine
func (r *SubjectRecord) MarkClaimed() {
	r.Status = StatusClaimed
	now := time.Now()
	r.ClaimedAt = &now
}

// SubjectRepository defines the interface for handoff-queue persistence
type SubjectRepository interface {
	// Create stores a newly issued record
	Create(record *SubjectRecord) error

	// FindByID finds a record by id
	FindByID(id string) (*SubjectRecord, error)

	// FindAll finds records matching the optional filters
	FindAll(filters map[string]interface{}) ([]*SubjectRecord, error)

	// ClaimNext atomically claims the oldest issued record, returning
	// nil when the queue is drained
	ClaimNext() (*SubjectRecord, error)

	// MaxNotifyID returns the highest notification id ever recorded,
	// zero when the queue has never held a record
	MaxNotifyID() (int, error)

	// Stats returns queue statistics
	Stats() (*SubjectStats, error)
}

// SubjectStats summarizes the handoff queue
type SubjectStats struct {
	Total    int64 `json:"total"`
	Issued   int64 `json:"issued"`
	Claimed  int64 `json:"claimed"`
	Modules  int64 `json:"modules"`
	Updates  int64 `json:"updates"`
	NetTests int64 `json:"net_tests"`
}
