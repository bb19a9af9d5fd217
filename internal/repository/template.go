// Package repository owns durable storage of templates and job postings.
//
// Template and posting rows live in ReplacingMergeTree tables versioned by
// updated_at, so an update is an insert of a newer row version and reads go
// through FINAL. Child collections are full-replace only: every edit deletes
// the parent's rows and re-inserts the submitted set, which keeps order
// indices a contiguous zero-based sequence by construction.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/chief-rocca/shiftly/internal/errors"
	"github.com/chief-rocca/shiftly/internal/models"
	"github.com/chief-rocca/shiftly/internal/telemetry"
	"github.com/chief-rocca/shiftly/internal/validation"
)

type TemplateRepository struct {
	logger *zap.Logger
	db     clickhouse.Conn
	tracer trace.Tracer
}

func NewTemplateRepository(logger *zap.Logger, db clickhouse.Conn) *TemplateRepository {
	return &TemplateRepository{
		logger: logger,
		db:     db,
		tracer: telemetry.GetTracer("shiftly/repository/template"),
	}
}

// classifyReadError keeps a storage outage distinct from a missing row:
// only an empty result maps to NOT_FOUND.
func classifyReadError(entity string, err error) error {
	if err == sql.ErrNoRows {
		return errors.NotFound(entity+" not found", err)
	}
	return errors.Unavailable("reading "+entity, err)
}

// Create persists the template row first, then each non-empty child
// collection in turn. Child inserts after a failure are not rolled back;
// the caller surfaces that as a partial write.
func (r *TemplateRepository) Create(ctx context.Context, in validation.TemplateInput) (*models.TemplateWithRelations, error) {
	ctx, span := r.tracer.Start(ctx, "TemplateRepository.Create")
	defer span.End()

	now := time.Now().UTC()
	tpl := models.JobPostingTemplate{
		ID:                      uuid.NewString(),
		JobTitle:                in.JobTitle,
		Industry:                in.Industry,
		Occupation:              in.Occupation,
		JobDescription:          in.JobDescription,
		LocationWorkEnvironment: in.LocationWorkEnvironment,
		EmergencyContact:        in.EmergencyContact,
		AutoMessage:             in.AutoMessage,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := r.insertTemplateRow(ctx, tpl); err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("inserting template row", err)
	}

	if err := r.insertChildren(ctx, tpl.ID, in); err != nil {
		span.RecordError(err)
		return nil, errors.PartialWrite("template created but child rows incomplete", err)
	}

	r.logger.Info("created template",
		zap.String("template_id", tpl.ID),
		zap.String("job_title", tpl.JobTitle))

	return r.Get(ctx, tpl.ID)
}

func (r *TemplateRepository) insertTemplateRow(ctx context.Context, tpl models.JobPostingTemplate) error {
	query := `
		INSERT INTO job_posting_templates (
			id, job_title, industry, occupation, job_description,
			location_work_environment, emergency_contact, auto_message,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.Exec(ctx, query,
		tpl.ID,
		tpl.JobTitle,
		tpl.Industry,
		tpl.Occupation,
		tpl.JobDescription,
		tpl.LocationWorkEnvironment,
		tpl.EmergencyContact,
		tpl.AutoMessage,
		tpl.CreatedAt,
		tpl.UpdatedAt,
	)
}

func (r *TemplateRepository) insertChildren(ctx context.Context, templateID string, in validation.TemplateInput) error {
	if len(in.Benefits) > 0 {
		batch, err := r.db.PrepareBatch(ctx, "INSERT INTO template_benefits (id, template_id, benefit_type)")
		if err != nil {
			return err
		}
		for _, b := range in.Benefits {
			if err := batch.Append(uuid.NewString(), templateID, b); err != nil {
				return err
			}
		}
		if err := batch.Send(); err != nil {
			return err
		}
	}

	if len(in.BringWithItems) > 0 {
		batch, err := r.db.PrepareBatch(ctx, "INSERT INTO template_bring_with_items (id, template_id, item, order_index)")
		if err != nil {
			return err
		}
		for i, item := range in.BringWithItems {
			if err := batch.Append(uuid.NewString(), templateID, item, int32(i)); err != nil {
				return err
			}
		}
		if err := batch.Send(); err != nil {
			return err
		}
	}

	if len(in.EligibilityCriteria) > 0 {
		batch, err := r.db.PrepareBatch(ctx, "INSERT INTO template_eligibility_criteria (id, template_id, criterion, order_index)")
		if err != nil {
			return err
		}
		for i, criterion := range in.EligibilityCriteria {
			if err := batch.Append(uuid.NewString(), templateID, criterion, int32(i)); err != nil {
				return err
			}
		}
		if err := batch.Send(); err != nil {
			return err
		}
	}

	if len(in.WorkplaceImages) > 0 {
		batch, err := r.db.PrepareBatch(ctx, "INSERT INTO template_workplace_images (id, template_id, image_type, image_url, uploaded_at)")
		if err != nil {
			return err
		}
		for _, img := range in.WorkplaceImages {
			if err := batch.Append(uuid.NewString(), templateID, img.ImageType, img.ImageURL, time.Now().UTC()); err != nil {
				return err
			}
		}
		if err := batch.Send(); err != nil {
			return err
		}
	}

	if len(in.WorkDocuments) > 0 {
		batch, err := r.db.PrepareBatch(ctx, "INSERT INTO template_work_documents (id, template_id, document_name, document_url, uploaded_at)")
		if err != nil {
			return err
		}
		for _, doc := range in.WorkDocuments {
			if err := batch.Append(uuid.NewString(), templateID, doc.DocumentName, doc.DocumentURL, time.Now().UTC()); err != nil {
				return err
			}
		}
		if err := batch.Send(); err != nil {
			return err
		}
	}

	return nil
}

// Get fetches the template row plus all five child collections. Ordered
// collections come back sorted by order index.
func (r *TemplateRepository) Get(ctx context.Context, id string) (*models.TemplateWithRelations, error) {
	ctx, span := r.tracer.Start(ctx, "TemplateRepository.Get")
	defer span.End()
	span.SetAttributes(telemetry.String("template_id", id))

	row := r.db.QueryRow(ctx, `
		SELECT id, job_title, industry, occupation, job_description,
		       location_work_environment, emergency_contact, auto_message,
		       created_at, updated_at
		FROM job_posting_templates FINAL
		WHERE id = ?
	`, id)

	var tpl models.JobPostingTemplate
	if err := row.Scan(
		&tpl.ID,
		&tpl.JobTitle,
		&tpl.Industry,
		&tpl.Occupation,
		&tpl.JobDescription,
		&tpl.LocationWorkEnvironment,
		&tpl.EmergencyContact,
		&tpl.AutoMessage,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	); err != nil {
		span.RecordError(err)
		return nil, classifyReadError("template", err)
	}

	out := &models.TemplateWithRelations{JobPostingTemplate: tpl}

	if err := r.loadChildren(ctx, out); err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("loading template children", err)
	}

	return out, nil
}

func (r *TemplateRepository) loadChildren(ctx context.Context, out *models.TemplateWithRelations) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, template_id, benefit_type
		FROM template_benefits WHERE template_id = ?
	`, out.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var b models.TemplateBenefit
		var benefitType string
		if err := rows.Scan(&b.ID, &b.TemplateID, &benefitType); err != nil {
			rows.Close()
			return err
		}
		b.BenefitType = models.BenefitType(benefitType)
		out.Benefits = append(out.Benefits, b)
	}
	rows.Close()

	rows, err = r.db.Query(ctx, `
		SELECT id, template_id, item, order_index
		FROM template_bring_with_items WHERE template_id = ?
		ORDER BY order_index
	`, out.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var item models.TemplateBringWithItem
		var idx int32
		if err := rows.Scan(&item.ID, &item.TemplateID, &item.Item, &idx); err != nil {
			rows.Close()
			return err
		}
		item.OrderIndex = int(idx)
		out.BringWithItems = append(out.BringWithItems, item)
	}
	rows.Close()

	rows, err = r.db.Query(ctx, `
		SELECT id, template_id, criterion, order_index
		FROM template_eligibility_criteria WHERE template_id = ?
		ORDER BY order_index
	`, out.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var c models.TemplateEligibilityCriterion
		var idx int32
		if err := rows.Scan(&c.ID, &c.TemplateID, &c.Criterion, &idx); err != nil {
			rows.Close()
			return err
		}
		c.OrderIndex = int(idx)
		out.EligibilityCriteria = append(out.EligibilityCriteria, c)
	}
	rows.Close()

	rows, err = r.db.Query(ctx, `
		SELECT id, template_id, image_type, image_url, uploaded_at
		FROM template_workplace_images WHERE template_id = ?
	`, out.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var img models.TemplateWorkplaceImage
		var imageType string
		if err := rows.Scan(&img.ID, &img.TemplateID, &imageType, &img.ImageURL, &img.UploadedAt); err != nil {
			rows.Close()
			return err
		}
		img.ImageType = models.ImageType(imageType)
		out.WorkplaceImages = append(out.WorkplaceImages, img)
	}
	rows.Close()

	rows, err = r.db.Query(ctx, `
		SELECT id, template_id, document_name, document_url, uploaded_at
		FROM template_work_documents WHERE template_id = ?
	`, out.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var doc models.TemplateWorkDocument
		if err := rows.Scan(&doc.ID, &doc.TemplateID, &doc.DocumentName, &doc.DocumentURL, &doc.UploadedAt); err != nil {
			rows.Close()
			return err
		}
		out.WorkDocuments = append(out.WorkDocuments, doc)
	}
	rows.Close()

	return nil
}

// Update replaces the template row and unconditionally rebuilds all child
// collections from the submitted set, changed or not.
func (r *TemplateRepository) Update(ctx context.Context, id string, in validation.TemplateInput) (*models.TemplateWithRelations, error) {
	ctx, span := r.tracer.Start(ctx, "TemplateRepository.Update")
	defer span.End()
	span.SetAttributes(telemetry.String("template_id", id))

	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tpl := models.JobPostingTemplate{
		ID:                      id,
		JobTitle:                in.JobTitle,
		Industry:                in.Industry,
		Occupation:              in.Occupation,
		JobDescription:          in.JobDescription,
		LocationWorkEnvironment: in.LocationWorkEnvironment,
		EmergencyContact:        in.EmergencyContact,
		AutoMessage:             in.AutoMessage,
		CreatedAt:               existing.CreatedAt,
		UpdatedAt:               time.Now().UTC(),
	}

	// ReplacingMergeTree: the newer updated_at wins at merge time, reads
	// use FINAL in the meantime.
	if err := r.insertTemplateRow(ctx, tpl); err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("updating template row", err)
	}

	if err := r.deleteChildren(ctx, id); err != nil {
		span.RecordError(err)
		return nil, errors.PartialWrite("template updated but old child rows remain", err)
	}

	if err := r.insertChildren(ctx, id, in); err != nil {
		span.RecordError(err)
		return nil, errors.PartialWrite("template updated but child rows incomplete", err)
	}

	r.logger.Info("updated template", zap.String("template_id", id))

	return r.Get(ctx, id)
}

func (r *TemplateRepository) deleteChildren(ctx context.Context, id string) error {
	for _, table := range []string{
		"template_benefits",
		"template_bring_with_items",
		"template_eligibility_criteria",
		"template_workplace_images",
		"template_work_documents",
	} {
		if err := r.db.Exec(ctx, "DELETE FROM "+table+" WHERE template_id = ?", id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the template row and all child rows. There are no foreign
// key cascades here, the repository owns the fan-out.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "TemplateRepository.Delete")
	defer span.End()
	span.SetAttributes(telemetry.String("template_id", id))

	if err := r.db.Exec(ctx, "DELETE FROM job_posting_templates WHERE id = ?", id); err != nil {
		span.RecordError(err)
		return errors.Unavailable("deleting template row", err)
	}
	if err := r.deleteChildren(ctx, id); err != nil {
		span.RecordError(err)
		return errors.PartialWrite("template deleted but child rows remain", err)
	}

	r.logger.Info("deleted template", zap.String("template_id", id))
	return nil
}

// TemplatePage is one window of the template listing plus the total count,
// enough for both numbered pagination and infinite-scroll append.
type TemplatePage struct {
	Templates  []models.JobPostingTemplate
	TotalCount uint64
	Page       int
	PageSize   int
}

// List returns page (1-based) of templates ordered by creation time
// descending.
func (r *TemplateRepository) List(ctx context.Context, page, pageSize int) (*TemplatePage, error) {
	ctx, span := r.tracer.Start(ctx, "TemplateRepository.List")
	defer span.End()
	span.SetAttributes(telemetry.Int("page", page), telemetry.Int("page_size", pageSize))

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	var total uint64
	if err := r.db.QueryRow(ctx, "SELECT count() FROM job_posting_templates FINAL").Scan(&total); err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("counting templates", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, job_title, industry, occupation, job_description,
		       location_work_environment, emergency_contact, auto_message,
		       created_at, updated_at
		FROM job_posting_templates FINAL
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, pageSize, offset)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Unavailable("listing templates", err)
	}
	defer rows.Close()

	out := &TemplatePage{TotalCount: total, Page: page, PageSize: pageSize}
	for rows.Next() {
		var tpl models.JobPostingTemplate
		if err := rows.Scan(
			&tpl.ID,
			&tpl.JobTitle,
			&tpl.Industry,
			&tpl.Occupation,
			&tpl.JobDescription,
			&tpl.LocationWorkEnvironment,
			&tpl.EmergencyContact,
			&tpl.AutoMessage,
			&tpl.CreatedAt,
			&tpl.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, errors.Unavailable("scanning template row", err)
		}
		out.Templates = append(out.Templates, tpl)
	}

	return out, nil
}
