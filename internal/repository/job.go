package repository

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/chief-rocca/shiftly/internal/errors"
	"github.com/chief-rocca/shiftly/internal/models"
	"github.com/chief-rocca/shiftly/internal/telemetry"
)

type JobRepository struct {
	logger *zap.Logger
	db     clickhouse.Conn
	tracer trace.Tracer
}

func NewJobRepository(logger *zap.Logger, db clickhouse.Conn) *JobRepository {
	return &JobRepository{
		logger: logger,
		db:     db,
		tracer: telemetry.GetTracer("shiftly/repository/job"),
	}
}

// InsertPosting writes the posting row exactly as given, status included.
// The derivation workflow inserts in draft and promotes once the child rows
// have landed.
func (r *JobRepository) InsertPosting(ctx context.Context, posting *models.JobPosting) error {
	ctx, span := r.tracer.Start(ctx, "JobRepository.InsertPosting")
	defer span.End()
	span.SetAttributes(telemetry.String("job_posting_id", posting.ID))

	query := `
		INSERT INTO job_postings (
			id, template_id, job_title, industry, occupation, job_description,
			location_work_environment, emergency_contact,
			job_date, start_time, end_time, break_start_time, break_end_time,
			application_closing_option, head_count, visibility_type,
			wage_amount, travel_compensation,
			send_auto_message, auto_message_target, auto_message_text,
			status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if err := r.db.Exec(ctx, query,
		posting.ID,
		posting.TemplateID,
		posting.JobTitle,
		posting.Industry,
		posting.Occupation,
		posting.JobDescription,
		posting.LocationWorkEnvironment,
		posting.EmergencyContact,
		posting.JobDate,
		posting.StartTime,
		posting.EndTime,
		posting.BreakStartTime,
		posting.BreakEndTime,
		string(posting.ApplicationClosingOption),
		int32(posting.HeadCount),
		string(posting.VisibilityType),
		posting.WageAmount,
		posting.TravelCompensation,
		posting.SendAutoMessage,
		autoMessageTargetValue(posting.AutoMessageTarget),
		posting.AutoMessageText,
		string(posting.Status),
		posting.CreatedAt,
		posting.UpdatedAt,
	); err != nil {
		span.RecordError(err)
		return err
	}

	return nil
}

func autoMessageTargetValue(t *models.AutoMessageTarget) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func (r *JobRepository) InsertExperienceGroups(ctx context.Context, jobID string, groups []string) error {
	ctx, span := r.tracer.Start(ctx, "JobRepository.InsertExperienceGroups")
	defer span.End()
	span.SetAttributes(telemetry.String("job_posting_id", jobID), telemetry.Int("groups", len(groups)))

	batch, err := r.db.PrepareBatch(ctx, "INSERT INTO job_posting_experience_groups (id, job_posting_id, experience_type)")
	if err != nil {
		span.RecordError(err)
		return err
	}
	for _, g := range groups {
		if err := batch.Append(uuid.NewString(), jobID, g); err != nil {
			span.RecordError(err)
			return err
		}
	}
	return batch.Send()
}

func (r *JobRepository) InsertBenefits(ctx context.Context, jobID string, benefits []models.TemplateBenefit) error {
	ctx, span := r.tracer.Start(ctx, "JobRepository.InsertBenefits")
	defer span.End()

	batch, err := r.db.PrepareBatch(ctx, "INSERT INTO job_posting_benefits (id, job_posting_id, benefit_type)")
	if err != nil {
		span.RecordError(err)
		return err
	}
	for _, b := range benefits {
		if err := batch.Append(uuid.NewString(), jobID, string(b.BenefitType)); err != nil {
			span.RecordError(err)
			return err
		}
	}
	return batch.Send()
}

func (r *JobRepository) InsertBringWithItems(ctx context.Context, jobID string, items []models.TemplateBringWithItem) error {
	ctx, span := r.tracer.Start(ctx, "JobRepository.InsertBringWithItems")
	defer span.End()

	batch, err := r.db.PrepareBatch(ctx, "INSERT INTO job_posting_bring_with_items (id, job_posting_id, item, order_index)")
	if err != nil {
		span.RecordError(err)
		return err
	}
	for i, item := range items {
		if err := batch.Append(uuid.NewString(), jobID, item.Item, int32(i)); err != nil {
			span.RecordError(err)
			return err
		}
	}
	return batch.Send()
}

func (r *JobRepository) InsertEligibilityCriteria(ctx context.Context, jobID string, criteria []models.TemplateEligibilityCriterion) error {
	ctx, span := r.tracer.Start(ctx, "JobRepository.InsertEligibilityCriteria")
	defer span.End()

	batch, err := r.db.PrepareBatch(ctx, "INSERT INTO job_posting_eligibility_criteria (id, job_posting_id, criterion, order_index)")
	if err != nil {
		span.RecordError(err)
		return err
	}
	for i, c := range criteria {
		if err := batch.Append(uuid.NewString(), jobID, c.Criterion, int32(i)); err != nil {
			span.RecordError(err)
			return err
		}
	}
	return batch.Send()
}

// UpdateStatus promotes or demotes a posting. Runs as a synchronous
// lightweight mutation so the new status is visible to the next read.
func (r *JobRepository) UpdateStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	ctx, span := r.tracer.Start(ctx, "JobRepository.UpdateStatus")
	defer span.End()
	span.SetAttributes(telemetry.String("job_posting_id", jobID), telemetry.String("status", string(status)))

	if err := r.db.Exec(ctx,
		"ALTER TABLE job_postings UPDATE status = ?, updated_at = now() WHERE id = ?",
		string(status), jobID,
	); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

const postingColumns = `
	id, template_id, job_title, industry, occupation, job_description,
	location_work_environment, emergency_contact,
	job_date, start_time, end_time, break_start_time, break_end_time,
	application_closing_option, head_count, visibility_type,
	wage_amount, travel_compensation,
	send_auto_message, auto_message_target, auto_message_text,
	status, created_at, updated_at
`

func (r *JobRepository) scanPosting(scan func(dest ...any) error) (*models.JobPosting, error) {
	var p models.JobPosting
	var closingOption, visibility, status string
	var headCount int32
	var target *string

	if err := scan(
		&p.ID,
		&p.TemplateID,
		&p.JobTitle,
		&p.Industry,
		&p.Occupation,
		&p.JobDescription,
		&p.LocationWorkEnvironment,
		&p.EmergencyContact,
		&p.JobDate,
		&p.StartTime,
		&p.EndTime,
		&p.BreakStartTime,
		&p.BreakEndTime,
		&closingOption,
		&headCount,
		&visibility,
		&p.WageAmount,
		&p.TravelCompensation,
		&p.SendAutoMessage,
		&target,
		&p.AutoMessageText,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.ApplicationClosingOption = models.ApplicationClosingOption(closingOption)
	p.HeadCount = int(headCount)
	p.VisibilityType = models.VisibilityType(visibility)
	p.Status = models.JobStatus(status)
	if target != nil {
		t := models.AutoMessageTarget(*target)
		p.AutoMessageTarget = &t
	}

	return &p, nil
}

// Get fetches a posting with its derived child rows.
func (r *JobRepository) Get(ctx context.Context, id string) (*models.JobPostingWithRelations, error) {
	ctx, span := r.tracer.Start(ctx, "JobRepository.Get")
	defer span.End()
	span.SetAttributes(telemetry.String("job_posting_id", id))

	row := r.db.QueryRow(ctx, "SELECT "+postingColumns+" FROM job_postings FINAL WHERE id = ?", id)
	posting, err := r.scanPosting(row.Scan)
	if err != nil {
		span.RecordError(err)
		return nil, classifyReadError("job posting", err)
	}

	out := &models.JobPostingWithRelations{JobPosting: *posting}
	if err := r.loadChildren(ctx, out); err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("loading job posting children", err)
	}
	return out, nil
}

func (r *JobRepository) loadChildren(ctx context.Context, out *models.JobPostingWithRelations) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, job_posting_id, experience_type
		FROM job_posting_experience_groups WHERE job_posting_id = ?
	`, out.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var g models.JobPostingExperienceGroup
		if err := rows.Scan(&g.ID, &g.JobPostingID, &g.ExperienceType); err != nil {
			rows.Close()
			return err
		}
		out.ExperienceGroups = append(out.ExperienceGroups, g)
	}
	rows.Close()

	rows, err = r.db.Query(ctx, `
		SELECT id, job_posting_id, benefit_type
		FROM job_posting_benefits WHERE job_posting_id = ?
	`, out.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var b models.JobPostingBenefit
		var benefitType string
		if err := rows.Scan(&b.ID, &b.JobPostingID, &benefitType); err != nil {
			rows.Close()
			return err
		}
		b.BenefitType = models.BenefitType(benefitType)
		out.Benefits = append(out.Benefits, b)
	}
	rows.Close()

	rows, err = r.db.Query(ctx, `
		SELECT id, job_posting_id, item, order_index
		FROM job_posting_bring_with_items WHERE job_posting_id = ?
		ORDER BY order_index
	`, out.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var item models.JobPostingBringWithItem
		var idx int32
		if err := rows.Scan(&item.ID, &item.JobPostingID, &item.Item, &idx); err != nil {
			rows.Close()
			return err
		}
		item.OrderIndex = int(idx)
		out.BringWithItems = append(out.BringWithItems, item)
	}
	rows.Close()

	rows, err = r.db.Query(ctx, `
		SELECT id, job_posting_id, criterion, order_index
		FROM job_posting_eligibility_criteria WHERE job_posting_id = ?
		ORDER BY order_index
	`, out.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var c models.JobPostingEligibilityCriterion
		var idx int32
		if err := rows.Scan(&c.ID, &c.JobPostingID, &c.Criterion, &idx); err != nil {
			rows.Close()
			return err
		}
		c.OrderIndex = int(idx)
		out.EligibilityCriteria = append(out.EligibilityCriteria, c)
	}
	rows.Close()

	return nil
}

// ListPublished returns published postings ordered by job date ascending,
// the projection the worker app renders.
func (r *JobRepository) ListPublished(ctx context.Context) ([]models.JobPosting, error) {
	ctx, span := r.tracer.Start(ctx, "JobRepository.ListPublished")
	defer span.End()

	rows, err := r.db.Query(ctx,
		"SELECT "+postingColumns+" FROM job_postings FINAL WHERE status = ? ORDER BY job_date ASC",
		string(models.StatusPublished),
	)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("listing published jobs", err)
	}
	defer rows.Close()

	var out []models.JobPosting
	for rows.Next() {
		posting, err := r.scanPosting(rows.Scan)
		if err != nil {
			span.RecordError(err)
			return nil, errors.Unavailable("scanning job posting row", err)
		}
		out = append(out, *posting)
	}

	span.SetAttributes(telemetry.Int("jobs.count", len(out)))
	return out, nil
}
