package domain

import "time"

// Lifecycle holds the identity and timestamps shared by soft-deletable records.
// A record with a nil DeletedAt is live; a non-nil DeletedAt means it sits in the trash.
type Lifecycle struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	ID        string     `json:"id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (l *Lifecycle) Touch() {
	l.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new record.
func (l *Lifecycle) InitTimestamps() {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
}

// IsLive reports whether the record has not been trashed.
func (l *Lifecycle) IsLive() bool {
	return l.DeletedAt == nil
}

// IsTrashed reports whether the record has been soft-deleted.
func (l *Lifecycle) IsTrashed() bool {
	return l.DeletedAt != nil
}

// MarkDeleted moves the record to the trash.
// A record that is already trashed keeps its original DeletedAt.
func (l *Lifecycle) MarkDeleted() bool {
	if l.DeletedAt != nil {
		return false
	}
	now := time.Now()
	l.DeletedAt = &now
	l.UpdatedAt = now
	return true
}

// MarkRestored clears DeletedAt, making the record live again.
func (l *Lifecycle) MarkRestored() {
	l.DeletedAt = nil
	l.UpdatedAt = time.Now()
}
