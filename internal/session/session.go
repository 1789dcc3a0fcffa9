package session

import (
	"context"
	"errors"
	"time"

	"github.com/tritonlifts/api/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Session identifies the user a client is acting as. It is created at login
// and ends at logout or when it expires.
type Session struct {
	ID        string             `json:"id"`
	UserID    int64              `json:"user_id"`
	Email     string             `json:"email"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
	Drafts    map[int64]SetDraft `json:"drafts,omitempty"`
}

// SetDraft holds the not yet submitted weight and reps typed for one exercise.
// The zero value is the default: both fields blank.
type SetDraft struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

func (d SetDraft) IsZero() bool {
	return d.Weight == "" && d.Reps == ""
}

// Draft returns the draft for exerciseID, or the default draft.
func (s *Session) Draft(exerciseID int64) SetDraft {
	if s == nil || s.Drafts == nil {
		return SetDraft{}
	}
	return s.Drafts[exerciseID]
}

func (s *Session) SetDraft(exerciseID int64, draft SetDraft) {
	if draft.IsZero() {
		s.ClearDraft(exerciseID)
		return
	}
	if s.Drafts == nil {
		s.Drafts = make(map[int64]SetDraft)
	}
	s.Drafts[exerciseID] = draft
}

func (s *Session) ClearDraft(exerciseID int64) {
	delete(s.Drafts, exerciseID)
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

type Store interface {
	Open(ctx context.Context, user *models.User) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Close(ctx context.Context, id string) error
}
