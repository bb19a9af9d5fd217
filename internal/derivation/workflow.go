// Package derivation implements the review-then-publish flow that turns a
// template plus operator-entered scheduling, visibility and compensation
// input into a published job posting.
//
// The review step writes nothing. It hands back a one-time confirmation
// token; publishing requires that token, so a caller cannot reach the write
// path without having gone through review, and a retry after a failed
// publish has to review again.
package derivation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/chief-rocca/shiftly/internal/cache"
	"github.com/chief-rocca/shiftly/internal/errors"
	"github.com/chief-rocca/shiftly/internal/models"
	"github.com/chief-rocca/shiftly/internal/telemetry"
	"github.com/chief-rocca/shiftly/internal/validation"
)

// TemplateSource resolves the template a job is derived from.
type TemplateSource interface {
	Get(ctx context.Context, id string) (*models.TemplateWithRelations, error)
}

// PostingStore is the write side of the derivation sequence. Each call is an
// independent storage operation; there is no cross-call transaction.
type PostingStore interface {
	InsertPosting(ctx context.Context, posting *models.JobPosting) error
	InsertExperienceGroups(ctx context.Context, jobID string, groups []string) error
	InsertBenefits(ctx context.Context, jobID string, benefits []models.TemplateBenefit) error
	InsertBringWithItems(ctx context.Context, jobID string, items []models.TemplateBringWithItem) error
	InsertEligibilityCriteria(ctx context.Context, jobID string, criteria []models.TemplateEligibilityCriterion) error
	UpdateStatus(ctx context.Context, jobID string, status models.JobStatus) error
	Get(ctx context.Context, id string) (*models.JobPostingWithRelations, error)
}

// Publisher announces newly published postings.
type Publisher interface {
	PublishJobPublished(ctx context.Context, posting *models.JobPosting) error
}

type Workflow struct {
	logger    *zap.Logger
	templates TemplateSource
	store     PostingStore
	tokens    cache.Cache
	publisher Publisher
	tokenTTL  time.Duration
	tracer    trace.Tracer
	now       func() time.Time
}

func NewWorkflow(logger *zap.Logger, templates TemplateSource, store PostingStore, tokens cache.Cache, publisher Publisher, tokenTTL time.Duration) *Workflow {
	return &Workflow{
		logger:    logger,
		templates: templates,
		store:     store,
		tokens:    tokens,
		publisher: publisher,
		tokenTTL:  tokenTTL,
		tracer:    telemetry.GetTracer("shiftly/derivation"),
		now:       time.Now,
	}
}

// ReviewResult is what the operator confirms before anything is written.
type ReviewResult struct {
	ConfirmationToken string  `json:"confirmation_token"`
	JobTitle          string  `json:"job_title"`
	JobDate           string  `json:"job_date"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	HeadCount         int     `json:"head_count"`
	WageAmount        float64 `json:"wage_amount"`
	VisibilityType    string  `json:"visibility_type"`
	SendAutoMessage   bool    `json:"send_auto_message"`
}

func tokenKey(templateID, token string) string {
	return fmt.Sprintf("derive:confirm:%s:%s", templateID, token)
}

// Review validates the input against the template and issues a one-time
// confirmation token. No rows are written.
func (w *Workflow) Review(ctx context.Context, templateID string, in validation.JobInput) (*ReviewResult, error) {
	ctx, span := w.tracer.Start(ctx, "Workflow.Review")
	defer span.End()
	span.SetAttributes(telemetry.String("template_id", templateID))

	in = validation.NormalizeJob(in)
	if err := validation.ValidateJob(in); err != nil {
		span.RecordError(err)
		return nil, err
	}

	tpl, err := w.templates.Get(ctx, templateID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	token := uuid.NewString()
	if err := w.tokens.Set(ctx, tokenKey(templateID, token), templateID, w.tokenTTL); err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("storing confirmation token", err)
	}

	w.logger.Info("review issued",
		zap.String("template_id", templateID),
		zap.String("job_date", in.JobDate))

	return &ReviewResult{
		ConfirmationToken: token,
		JobTitle:          tpl.JobTitle,
		JobDate:           in.JobDate,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		HeadCount:         in.HeadCount,
		WageAmount:        in.WageAmount,
		VisibilityType:    in.VisibilityType,
		SendAutoMessage:   in.SendAutoMessage,
	}, nil
}

// Publish consumes the confirmation token and materializes the posting:
// parent row in draft, child rows, then promotion to published. A failure
// after the parent insert leaves the posting in draft so readers never see a
// published job with a partial child set, and the error reports the partial
// write.
func (w *Workflow) Publish(ctx context.Context, templateID, token string, in validation.JobInput) (*models.JobPostingWithRelations, error) {
	ctx, span := w.tracer.Start(ctx, "Workflow.Publish")
	defer span.End()
	span.SetAttributes(telemetry.String("template_id", templateID))

	in = validation.NormalizeJob(in)
	if err := validation.ValidateJob(in); err != nil {
		span.RecordError(err)
		return nil, err
	}

	tpl, err := w.templates.Get(ctx, templateID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if _, err := w.tokens.Take(ctx, tokenKey(templateID, token)); err != nil {
		if err == cache.ErrNotFound {
			return nil, errors.Validation("publish requires a fresh review", map[string]string{
				"confirmation_token": "Review the job details before publishing",
			})
		}
		span.RecordError(err)
		return nil, errors.Unavailable("checking confirmation token", err)
	}

	posting := w.buildPosting(tpl, in)

	if err := w.store.InsertPosting(ctx, posting); err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("inserting job posting", err)
	}

	if err := w.insertChildren(ctx, posting, tpl, in); err != nil {
		span.RecordError(err)
		w.logger.Error("derivation incomplete, posting left in draft",
			zap.String("job_posting_id", posting.ID),
			zap.Error(err))
		return nil, errors.PartialWrite("job posting created but derived rows incomplete", err)
	}

	if err := w.store.UpdateStatus(ctx, posting.ID, models.StatusPublished); err != nil {
		span.RecordError(err)
		return nil, errors.PartialWrite("job posting complete but not yet published", err)
	}
	posting.Status = models.StatusPublished

	if err := w.publisher.PublishJobPublished(ctx, posting); err != nil {
		// The posting is live either way; feeds will pick it up on the
		// next snapshot.
		w.logger.Warn("failed to announce published job",
			zap.String("job_posting_id", posting.ID),
			zap.Error(err))
	}

	w.logger.Info("published job posting",
		zap.String("job_posting_id", posting.ID),
		zap.String("template_id", templateID),
		zap.String("job_date", posting.JobDate))

	out, err := w.store.Get(ctx, posting.ID)
	if err != nil {
		// The posting is live and the token is consumed; failing now would
		// send the operator into a retry that gets rejected. Serve the rows
		// we just wrote.
		w.logger.Warn("readback of published posting failed",
			zap.String("job_posting_id", posting.ID),
			zap.Error(err))
		return w.assembleResult(posting, tpl, in), nil
	}
	return out, nil
}

func (w *Workflow) assembleResult(posting *models.JobPosting, tpl *models.TemplateWithRelations, in validation.JobInput) *models.JobPostingWithRelations {
	out := &models.JobPostingWithRelations{JobPosting: *posting}
	if posting.VisibilityType == models.VisibilityGroups {
		for _, g := range in.ExperienceGroups {
			out.ExperienceGroups = append(out.ExperienceGroups, models.JobPostingExperienceGroup{
				JobPostingID:   posting.ID,
				ExperienceType: g,
			})
		}
	}
	for _, b := range tpl.Benefits {
		out.Benefits = append(out.Benefits, models.JobPostingBenefit{
			JobPostingID: posting.ID,
			BenefitType:  b.BenefitType,
		})
	}
	for i, item := range tpl.BringWithItems {
		out.BringWithItems = append(out.BringWithItems, models.JobPostingBringWithItem{
			JobPostingID: posting.ID,
			Item:         item.Item,
			OrderIndex:   i,
		})
	}
	for i, c := range tpl.EligibilityCriteria {
		out.EligibilityCriteria = append(out.EligibilityCriteria, models.JobPostingEligibilityCriterion{
			JobPostingID: posting.ID,
			Criterion:    c.Criterion,
			OrderIndex:   i,
		})
	}
	return out
}

// buildPosting freezes the template's descriptive fields into the posting
// and resolves the auto-message trio: target and text are set only when the
// send flag is on, text verbatim from the template.
func (w *Workflow) buildPosting(tpl *models.TemplateWithRelations, in validation.JobInput) *models.JobPosting {
	now := w.now().UTC()

	posting := &models.JobPosting{
		ID:                       uuid.NewString(),
		TemplateID:               tpl.ID,
		JobTitle:                 tpl.JobTitle,
		Industry:                 tpl.Industry,
		Occupation:               tpl.Occupation,
		JobDescription:           tpl.JobDescription,
		LocationWorkEnvironment:  tpl.LocationWorkEnvironment,
		EmergencyContact:         tpl.EmergencyContact,
		JobDate:                  in.JobDate,
		StartTime:                in.StartTime,
		EndTime:                  in.EndTime,
		ApplicationClosingOption: models.ApplicationClosingOption(in.ApplicationClosingOption),
		HeadCount:                in.HeadCount,
		VisibilityType:           models.VisibilityType(in.VisibilityType),
		WageAmount:               in.WageAmount,
		TravelCompensation:       in.TravelCompensation,
		SendAutoMessage:          in.SendAutoMessage,
		Status:                   models.StatusDraft,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	if in.BreakStartTime != "" {
		posting.BreakStartTime = &in.BreakStartTime
	}
	if in.BreakEndTime != "" {
		posting.BreakEndTime = &in.BreakEndTime
	}

	if in.SendAutoMessage {
		target := models.AutoMessageTarget(in.AutoMessageTarget)
		posting.AutoMessageTarget = &target
		text := tpl.AutoMessage
		posting.AutoMessageText = &text
	}

	return posting
}

func (w *Workflow) insertChildren(ctx context.Context, posting *models.JobPosting, tpl *models.TemplateWithRelations, in validation.JobInput) error {
	if posting.VisibilityType == models.VisibilityGroups {
		if len(in.ExperienceGroups) == 0 {
			// Accepted today: the posting stays groups-restricted with no
			// grants, so nobody can see it until groups are added.
			w.logger.Warn("groups visibility with empty selection",
				zap.String("job_posting_id", posting.ID))
		} else {
			if err := w.store.InsertExperienceGroups(ctx, posting.ID, in.ExperienceGroups); err != nil {
				return fmt.Errorf("insert experience groups: %w", err)
			}
		}
	}

	if len(tpl.Benefits) > 0 {
		if err := w.store.InsertBenefits(ctx, posting.ID, tpl.Benefits); err != nil {
			return fmt.Errorf("copy benefits: %w", err)
		}
	}

	if len(tpl.BringWithItems) > 0 {
		if err := w.store.InsertBringWithItems(ctx, posting.ID, tpl.BringWithItems); err != nil {
			return fmt.Errorf("copy bring-with items: %w", err)
		}
	}

	if len(tpl.EligibilityCriteria) > 0 {
		if err := w.store.InsertEligibilityCriteria(ctx, posting.ID, tpl.EligibilityCriteria); err != nil {
			return fmt.Errorf("copy eligibility criteria: %w", err)
		}
	}

	return nil
}
