package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rokibulparves/sobol/internal/entitlement"
	"github.com/rokibulparves/sobol/internal/model"
)

var (
	// ErrPremiumRequired means the day is outside the free window and the
	// user has no paid profile.
	ErrPremiumRequired = errors.New("premium subscription required")
	// ErrDayLocked means pacing has not unlocked the day yet.
	ErrDayLocked = errors.New("day not unlocked yet")
	// ErrNotCurrentDay means a completion was attempted for a day other
	// than the current one (including a repeat of an already-completed day).
	ErrNotCurrentDay = errors.New("only the current day can be completed")
)

type ProgressStore interface {
	GetOrCreateProgress(ctx context.Context, userID uuid.UUID) (*model.Progress, error)
	CompleteDay(ctx context.Context, userID uuid.UUID, day int, watchedAt time.Time) error
}

type VideoStore interface {
	GetVideoByDay(ctx context.Context, day int) (*model.Video, error)
	TotalDays(ctx context.Context) (int, error)
}

type UserReader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type MediaResolver interface {
	VideoURL(ctx context.Context, filename string) (string, error)
}

// DayContent is one serveable training day: the video row, a playable URL
// and the viewer's pacing state.
type DayContent struct {
	Video     *model.Video
	VideoURL  string
	Progress  *model.Progress
	TotalDays int
}

// TrainingService serves the daily program: day lookup behind the
// entitlement gate, pacing bounds, and completion.
type TrainingService struct {
	progress ProgressStore
	videos   VideoStore
	users    UserReader
	media    MediaResolver
	gate     *entitlement.Gate
}

func NewTrainingService(progress ProgressStore, videos VideoStore, users UserReader,
	media MediaResolver, gate *entitlement.Gate) *TrainingService {
	return &TrainingService{
		progress: progress,
		videos:   videos,
		users:    users,
		media:    media,
		gate:     gate,
	}
}

// Today serves the user's current day.
func (s *TrainingService) Today(ctx context.Context, userID uuid.UUID) (*DayContent, error) {
	p, err := s.progress.GetOrCreateProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.serveDay(ctx, userID, p, p.CurrentDay)
}

// Day serves an explicitly requested day. Pacing bounds it to the unlocked
// range; the entitlement gate is re-evaluated on every request, so a payment
// completed since the last call takes effect immediately.
func (s *TrainingService) Day(ctx context.Context, userID uuid.UUID, day int) (*DayContent, error) {
	if day < 1 {
		return nil, ErrDayLocked
	}
	p, err := s.progress.GetOrCreateProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if day > p.CurrentDay {
		return nil, ErrDayLocked
	}
	return s.serveDay(ctx, userID, p, day)
}

// Complete marks day as done and advances the pacing pointer by one. Only
// the current day can complete, so last_completed_day < current_day is
// preserved and repeats are rejected.
func (s *TrainingService) Complete(ctx context.Context, userID uuid.UUID, day int) (*model.Progress, error) {
	if err := s.progress.CompleteDay(ctx, userID, day, time.Now()); err != nil {
		return nil, ErrNotCurrentDay
	}
	return s.progress.GetOrCreateProgress(ctx, userID)
}

func (s *TrainingService) serveDay(ctx context.Context, userID uuid.UUID, p *model.Progress, day int) (*DayContent, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.gate.Evaluate(day, user.IsPaid) == entitlement.RequirePremium {
		return nil, ErrPremiumRequired
	}

	video, err := s.videos.GetVideoByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	videoURL, err := s.media.VideoURL(ctx, video.Filename)
	if err != nil {
		return nil, err
	}
	total, err := s.videos.TotalDays(ctx)
	if err != nil {
		return nil, err
	}

	return &DayContent{
		Video:     video,
		VideoURL:  videoURL,
		Progress:  p,
		TotalDays: total,
	}, nil
}
