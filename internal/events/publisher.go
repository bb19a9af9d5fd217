// Package events carries row-change notifications over NATS: template CRUD
// announcements for dashboard listings and published-job inserts for the
// worker-facing live feed.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/chief-rocca/shiftly/internal/errors"
	"github.com/chief-rocca/shiftly/internal/models"
	"github.com/chief-rocca/shiftly/internal/telemetry"
)

var tracer = telemetry.GetTracer("shiftly/events")

const (
	JobPublishedSubject   = "jobs.published"
	TemplateChangeSubject = "templates.changed"
)

// JobPublishedEvent is the wire form of a published posting insert, the
// fields the worker feed renders.
type JobPublishedEvent struct {
	ID             string    `json:"id"`
	JobTitle       string    `json:"job_title"`
	Industry       string    `json:"industry"`
	Occupation     string    `json:"occupation"`
	JobDate        string    `json:"job_date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	HeadCount      int       `json:"head_count"`
	WageAmount     float64   `json:"wage_amount"`
	VisibilityType string    `json:"visibility_type"`
	PublishedAt    time.Time `json:"published_at"`
}

type TemplateChangeEvent struct {
	Event      string `json:"event"`
	TemplateID string `json:"template_id"`
}

type Publisher interface {
	PublishJobPublished(ctx context.Context, posting *models.JobPosting) error
	PublishTemplateChange(ctx context.Context, event string, templateID string) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger, conn *nats.Conn) Publisher {
	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}
}

func (p *natsPublisher) PublishJobPublished(ctx context.Context, posting *models.JobPosting) error {
	_, span := tracer.Start(ctx, "PublishJobPublished")
	defer span.End()

	event := JobPublishedEvent{
		ID:             posting.ID,
		JobTitle:       posting.JobTitle,
		Industry:       posting.Industry,
		Occupation:     posting.Occupation,
		JobDate:        posting.JobDate,
		StartTime:      posting.StartTime,
		EndTime:        posting.EndTime,
		HeadCount:      posting.HeadCount,
		WageAmount:     posting.WageAmount,
		VisibilityType: string(posting.VisibilityType),
		PublishedAt:    posting.UpdatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling job published event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", JobPublishedSubject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(JobPublishedSubject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish job event",
			zap.String("id", posting.ID),
			zap.Error(err))
		return errors.Unavailable("publishing to NATS", err)
	}

	p.logger.Debug("published job event",
		zap.String("id", posting.ID),
		zap.String("subject", JobPublishedSubject))
	return nil
}

func (p *natsPublisher) PublishTemplateChange(ctx context.Context, event string, templateID string) error {
	_, span := tracer.Start(ctx, "PublishTemplateChange")
	defer span.End()

	data, err := json.Marshal(TemplateChangeEvent{Event: event, TemplateID: templateID})
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling template change event", err)
	}

	if err := p.conn.Publish(TemplateChangeSubject, data); err != nil {
		span.RecordError(err)
		return errors.Unavailable("publishing to NATS", err)
	}

	p.logger.Debug("published template change",
		zap.String("event", event),
		zap.String("template_id", templateID))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
