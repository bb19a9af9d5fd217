// Package listing maintains the worker-facing view of published jobs: an
// initial snapshot from storage merged with live insert notifications from
// NATS. Both sources land in one index keyed by posting id, so a row that
// arrives over the stream after already being present in the snapshot is
// displayed once.
package listing

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/chief-rocca/shiftly/internal/events"
	"github.com/chief-rocca/shiftly/internal/models"
)

// Job is the fixed projection the feed exposes.
type Job struct {
	ID             string  `json:"id"`
	JobTitle       string  `json:"job_title"`
	Industry       string  `json:"industry"`
	Occupation     string  `json:"occupation"`
	JobDate        string  `json:"job_date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	HeadCount      int     `json:"head_count"`
	WageAmount     float64 `json:"wage_amount"`
	VisibilityType string  `json:"visibility_type"`
}

// Lister is the snapshot source, satisfied by the job repository.
type Lister interface {
	ListPublished(ctx context.Context) ([]models.JobPosting, error)
}

type Feed struct {
	logger *zap.Logger
	nc     *nats.Conn
	lister Lister

	mu   sync.RWMutex
	jobs map[string]Job
	sub  *nats.Subscription
}

func NewFeed(logger *zap.Logger, nc *nats.Conn, lister Lister) *Feed {
	return &Feed{
		logger: logger,
		nc:     nc,
		lister: lister,
		jobs:   make(map[string]Job),
	}
}

// Start loads the initial snapshot and subscribes to published-job inserts.
// Registered on the fx lifecycle so the subscription is dropped on shutdown.
func (f *Feed) Start(lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := f.Refresh(ctx); err != nil {
				// Feed comes up empty and fills from the stream.
				f.logger.Warn("initial feed snapshot failed", zap.Error(err))
			}

			sub, err := f.nc.Subscribe(events.JobPublishedSubject, f.handleJobPublished)
			if err != nil {
				return err
			}
			f.sub = sub
			f.logger.Info("job feed subscribed", zap.String("subject", events.JobPublishedSubject))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if f.sub != nil {
				return f.sub.Unsubscribe()
			}
			return nil
		},
	})
}

// Refresh replaces the index with a fresh snapshot of published postings.
func (f *Feed) Refresh(ctx context.Context) error {
	postings, err := f.lister.ListPublished(ctx)
	if err != nil {
		return err
	}

	next := make(map[string]Job, len(postings))
	for _, p := range postings {
		next[p.ID] = projectPosting(p)
	}

	f.mu.Lock()
	f.jobs = next
	f.mu.Unlock()

	f.logger.Debug("feed snapshot refreshed", zap.Int("count", len(next)))
	return nil
}

func (f *Feed) handleJobPublished(msg *nats.Msg) {
	var event events.JobPublishedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		f.logger.Error("dropping malformed job event", zap.Error(err))
		return
	}

	f.Upsert(Job{
		ID:             event.ID,
		JobTitle:       event.JobTitle,
		Industry:       event.Industry,
		Occupation:     event.Occupation,
		JobDate:        event.JobDate,
		StartTime:      event.StartTime,
		EndTime:        event.EndTime,
		HeadCount:      event.HeadCount,
		WageAmount:     event.WageAmount,
		VisibilityType: event.VisibilityType,
	})
}

// Upsert inserts or replaces one job in the index.
func (f *Feed) Upsert(job Job) {
	f.mu.Lock()
	f.jobs[job.ID] = job
	f.mu.Unlock()
}

// Snapshot returns the merged view ordered by job date ascending, start time
// and id as tie-breakers for a stable listing.
func (f *Feed) Snapshot() []Job {
	f.mu.RLock()
	out := make([]Job, 0, len(f.jobs))
	for _, job := range f.jobs {
		out = append(out, job)
	}
	f.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].JobDate != out[j].JobDate {
			return out[i].JobDate < out[j].JobDate
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func projectPosting(p models.JobPosting) Job {
	return Job{
		ID:             p.ID,
		JobTitle:       p.JobTitle,
		Industry:       p.Industry,
		Occupation:     p.Occupation,
		JobDate:        p.JobDate,
		StartTime:      p.StartTime,
		EndTime:        p.EndTime,
		HeadCount:      p.HeadCount,
		WageAmount:     p.WageAmount,
		VisibilityType: string(p.VisibilityType),
	}
}
