package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/chief-rocca/shiftly/internal/events"
	"github.com/chief-rocca/shiftly/internal/models"
)

type stubLister struct {
	postings []models.JobPosting
	err      error
}

func (s *stubLister) ListPublished(ctx context.Context) ([]models.JobPosting, error) {
	return s.postings, s.err
}

func posting(id, date, start string) models.JobPosting {
	return models.JobPosting{
		ID:             id,
		JobTitle:       "Kitchen Helper",
		Industry:       "food & drink",
		Occupation:     "restaurant staff",
		JobDate:        date,
		StartTime:      start,
		EndTime:        "17:00",
		HeadCount:      2,
		WageAmount:     110,
		VisibilityType: models.VisibilityGeneral,
		Status:         models.StatusPublished,
	}
}

func publishedMsg(t *testing.T, event events.JobPublishedEvent) *nats.Msg {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return &nats.Msg{Subject: events.JobPublishedSubject, Data: data}
}

func TestRefreshLoadsSnapshot(t *testing.T) {
	lister := &stubLister{postings: []models.JobPosting{
		posting("job-1", "2025-03-01", "09:00"),
		posting("job-2", "2025-03-02", "09:00"),
	}}
	feed := NewFeed(zap.NewNop(), nil, lister)

	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	jobs := feed.Snapshot()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != "job-1" || jobs[0].WageAmount != 110 {
		t.Fatalf("unexpected projection: %+v", jobs[0])
	}
}

func TestStreamInsertAfterSnapshotShowsOnce(t *testing.T) {
	lister := &stubLister{postings: []models.JobPosting{posting("job-1", "2025-03-01", "09:00")}}
	feed := NewFeed(zap.NewNop(), nil, lister)

	if err := feed.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// The insert notification for a row already in the snapshot replaces it
	// rather than duplicating it.
	feed.handleJobPublished(publishedMsg(t, events.JobPublishedEvent{
		ID:             "job-1",
		JobTitle:       "Kitchen Helper",
		Industry:       "food & drink",
		Occupation:     "restaurant staff",
		JobDate:        "2025-03-01",
		StartTime:      "09:00",
		EndTime:        "17:00",
		HeadCount:      2,
		WageAmount:     110,
		VisibilityType: string(models.VisibilityGeneral),
	}))

	jobs := feed.Snapshot()
	if len(jobs) != 1 {
		t.Fatalf("expected job-1 to appear once, got %d rows", len(jobs))
	}
}

func TestStreamInsertAddsNewJob(t *testing.T) {
	feed := NewFeed(zap.NewNop(), nil, &stubLister{})

	feed.handleJobPublished(publishedMsg(t, events.JobPublishedEvent{
		ID:        "job-9",
		JobTitle:  "Event Staff",
		JobDate:   "2025-03-05",
		StartTime: "12:00",
	}))

	jobs := feed.Snapshot()
	if len(jobs) != 1 || jobs[0].ID != "job-9" || jobs[0].JobTitle != "Event Staff" {
		t.Fatalf("stream insert not reflected: %+v", jobs)
	}
}

func TestMalformedEventDropped(t *testing.T) {
	feed := NewFeed(zap.NewNop(), nil, &stubLister{})

	feed.handleJobPublished(&nats.Msg{Subject: events.JobPublishedSubject, Data: []byte("{not json")})

	if jobs := feed.Snapshot(); len(jobs) != 0 {
		t.Fatalf("malformed event must not enter the index: %+v", jobs)
	}
}

func TestSnapshotOrdering(t *testing.T) {
	feed := NewFeed(zap.NewNop(), nil, &stubLister{})

	feed.Upsert(Job{ID: "b", JobDate: "2025-03-02", StartTime: "09:00"})
	feed.Upsert(Job{ID: "a", JobDate: "2025-03-01", StartTime: "14:00"})
	feed.Upsert(Job{ID: "d", JobDate: "2025-03-01", StartTime: "09:00"})
	feed.Upsert(Job{ID: "c", JobDate: "2025-03-01", StartTime: "09:00"})

	jobs := feed.Snapshot()
	want := []string{"c", "d", "a", "b"}
	if len(jobs) != len(want) {
		t.Fatalf("expected %d jobs, got %d", len(want), len(jobs))
	}
	for i, id := range want {
		if jobs[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, jobs[i].ID, id)
		}
	}
}

func TestRefreshReplacesIndex(t *testing.T) {
	lister := &stubLister{postings: []models.JobPosting{posting("job-1", "2025-03-01", "09:00")}}
	feed := NewFeed(zap.NewNop(), nil, lister)
	ctx := context.Background()

	if err := feed.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	lister.postings = []models.JobPosting{posting("job-2", "2025-03-02", "09:00")}
	if err := feed.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	jobs := feed.Snapshot()
	if len(jobs) != 1 || jobs[0].ID != "job-2" {
		t.Fatalf("refresh should replace the index, got %+v", jobs)
	}
}

func TestRefreshErrorKeepsIndex(t *testing.T) {
	lister := &stubLister{postings: []models.JobPosting{posting("job-1", "2025-03-01", "09:00")}}
	feed := NewFeed(zap.NewNop(), nil, lister)
	ctx := context.Background()

	if err := feed.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	lister.err = fmt.Errorf("clickhouse unavailable")
	if err := feed.Refresh(ctx); err == nil {
		t.Fatal("expected refresh error")
	}

	if jobs := feed.Snapshot(); len(jobs) != 1 {
		t.Fatalf("failed refresh must keep the previous index, got %+v", jobs)
	}
}
