// Package templates is the authoring workflow over the template repository:
// validate, persist, announce.
package templates

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/chief-rocca/shiftly/internal/models"
	"github.com/chief-rocca/shiftly/internal/repository"
	"github.com/chief-rocca/shiftly/internal/telemetry"
	"github.com/chief-rocca/shiftly/internal/validation"
)

// Store is the persistence surface the service needs from the repository.
type Store interface {
	Create(ctx context.Context, in validation.TemplateInput) (*models.TemplateWithRelations, error)
	Get(ctx context.Context, id string) (*models.TemplateWithRelations, error)
	Update(ctx context.Context, id string, in validation.TemplateInput) (*models.TemplateWithRelations, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) (*repository.TemplatePage, error)
}

// Publisher announces template row changes for live listings.
type Publisher interface {
	PublishTemplateChange(ctx context.Context, event string, templateID string) error
}

type Service struct {
	logger    *zap.Logger
	store     Store
	publisher Publisher
	pageSize  int
	tracer    trace.Tracer
}

func NewService(logger *zap.Logger, store Store, publisher Publisher, pageSize int) *Service {
	return &Service{
		logger:    logger,
		store:     store,
		publisher: publisher,
		pageSize:  pageSize,
		tracer:    telemetry.GetTracer("shiftly/templates"),
	}
}

func (s *Service) Create(ctx context.Context, in validation.TemplateInput) (*models.TemplateWithRelations, error) {
	ctx, span := s.tracer.Start(ctx, "TemplateService.Create")
	defer span.End()

	if err := validation.ValidateTemplate(in); err != nil {
		span.RecordError(err)
		return nil, err
	}

	tpl, err := s.store.Create(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.announce(ctx, "created", tpl.ID)
	return tpl, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.TemplateWithRelations, error) {
	ctx, span := s.tracer.Start(ctx, "TemplateService.Get")
	defer span.End()
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, in validation.TemplateInput) (*models.TemplateWithRelations, error) {
	ctx, span := s.tracer.Start(ctx, "TemplateService.Update")
	defer span.End()
	span.SetAttributes(telemetry.String("template_id", id))

	if err := validation.ValidateTemplate(in); err != nil {
		span.RecordError(err)
		return nil, err
	}

	tpl, err := s.store.Update(ctx, id, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.announce(ctx, "updated", id)
	return tpl, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "TemplateService.Delete")
	defer span.End()
	span.SetAttributes(telemetry.String("template_id", id))

	if err := s.store.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	s.announce(ctx, "deleted", id)
	return nil
}

// List returns one page of templates, newest first. A non-positive pageSize
// falls back to the configured default so both the paginated table and the
// infinite-scroll path share one window size.
func (s *Service) List(ctx context.Context, page, pageSize int) (*repository.TemplatePage, error) {
	ctx, span := s.tracer.Start(ctx, "TemplateService.List")
	defer span.End()

	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	return s.store.List(ctx, page, pageSize)
}

func (s *Service) announce(ctx context.Context, event, templateID string) {
	if err := s.publisher.PublishTemplateChange(ctx, event, templateID); err != nil {
		s.logger.Warn("failed to announce template change",
			zap.String("event", event),
			zap.String("template_id", templateID),
			zap.Error(err))
	}
}
