package derivation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chief-rocca/shiftly/internal/cache"
	"github.com/chief-rocca/shiftly/internal/errors"
	"github.com/chief-rocca/shiftly/internal/models"
	"github.com/chief-rocca/shiftly/internal/validation"
)

type stubTemplates struct {
	templates map[string]*models.TemplateWithRelations
}

func (s *stubTemplates) Get(ctx context.Context, id string) (*models.TemplateWithRelations, error) {
	tpl, ok := s.templates[id]
	if !ok {
		return nil, errors.NotFound("template not found", nil)
	}
	return tpl, nil
}

type stubStore struct {
	posting          *models.JobPosting
	experienceGroups []string
	benefits         []models.TemplateBenefit
	bringWithItems   []models.TemplateBringWithItem
	criteria         []models.TemplateEligibilityCriterion
	status           models.JobStatus
	statusUpdates    int

	failBringWithItems bool
	failGet            bool
}

func (s *stubStore) InsertPosting(ctx context.Context, posting *models.JobPosting) error {
	p := *posting
	s.posting = &p
	s.status = posting.Status
	return nil
}

func (s *stubStore) InsertExperienceGroups(ctx context.Context, jobID string, groups []string) error {
	s.experienceGroups = append(s.experienceGroups, groups...)
	return nil
}

func (s *stubStore) InsertBenefits(ctx context.Context, jobID string, benefits []models.TemplateBenefit) error {
	s.benefits = append(s.benefits, benefits...)
	return nil
}

func (s *stubStore) InsertBringWithItems(ctx context.Context, jobID string, items []models.TemplateBringWithItem) error {
	if s.failBringWithItems {
		return fmt.Errorf("connection reset")
	}
	s.bringWithItems = append(s.bringWithItems, items...)
	return nil
}

func (s *stubStore) InsertEligibilityCriteria(ctx context.Context, jobID string, criteria []models.TemplateEligibilityCriterion) error {
	s.criteria = append(s.criteria, criteria...)
	return nil
}

func (s *stubStore) UpdateStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	s.status = status
	s.statusUpdates++
	return nil
}

func (s *stubStore) Get(ctx context.Context, id string) (*models.JobPostingWithRelations, error) {
	if s.failGet {
		return nil, errors.Unavailable("loading job posting children", fmt.Errorf("connection reset"))
	}
	if s.posting == nil || s.posting.ID != id {
		return nil, errors.NotFound("job posting not found", nil)
	}
	out := &models.JobPostingWithRelations{JobPosting: *s.posting}
	out.Status = s.status
	for _, g := range s.experienceGroups {
		out.ExperienceGroups = append(out.ExperienceGroups, models.JobPostingExperienceGroup{JobPostingID: id, ExperienceType: g})
	}
	for _, b := range s.benefits {
		out.Benefits = append(out.Benefits, models.JobPostingBenefit{JobPostingID: id, BenefitType: b.BenefitType})
	}
	for i, item := range s.bringWithItems {
		out.BringWithItems = append(out.BringWithItems, models.JobPostingBringWithItem{JobPostingID: id, Item: item.Item, OrderIndex: i})
	}
	for i, c := range s.criteria {
		out.EligibilityCriteria = append(out.EligibilityCriteria, models.JobPostingEligibilityCriterion{JobPostingID: id, Criterion: c.Criterion, OrderIndex: i})
	}
	return out, nil
}

type stubCache struct {
	values map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{values: make(map[string]string)}
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *stubCache) Get(ctx context.Context, key string, value interface{}) error {
	v, ok := c.values[key]
	if !ok {
		return cache.ErrNotFound
	}
	if s, isString := value.(*string); isString {
		*s = v
		return nil
	}
	return cache.ErrInvalidValue
}

func (c *stubCache) Take(ctx context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", cache.ErrNotFound
	}
	delete(c.values, key)
	return v, nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func (c *stubCache) Close() error { return nil }

type stubPublisher struct {
	published []string
}

func (p *stubPublisher) PublishJobPublished(ctx context.Context, posting *models.JobPosting) error {
	p.published = append(p.published, posting.ID)
	return nil
}

func restaurantTemplate() *models.TemplateWithRelations {
	return &models.TemplateWithRelations{
		JobPostingTemplate: models.JobPostingTemplate{
			ID:                      "tpl-1",
			JobTitle:                "Restaurant Manager",
			Industry:                "food & drink",
			Occupation:              "restaurant staff",
			JobDescription:          "Run the floor during the lunch rush",
			LocationWorkEnvironment: "Downtown branch, busy counter service",
			EmergencyContact:        "Store phone 555-0100",
			AutoMessage:             "Thanks for applying, see you soon!",
		},
		Benefits: []models.TemplateBenefit{
			{ID: "b-1", TemplateID: "tpl-1", BenefitType: models.BenefitFoodProvided},
		},
		BringWithItems: []models.TemplateBringWithItem{
			{ID: "i-1", TemplateID: "tpl-1", Item: "Apron", OrderIndex: 0},
		},
	}
}

func newTestWorkflow(store *stubStore) (*Workflow, *stubCache, *stubPublisher) {
	tokens := newStubCache()
	publisher := &stubPublisher{}
	wf := NewWorkflow(
		zap.NewNop(),
		&stubTemplates{templates: map[string]*models.TemplateWithRelations{"tpl-1": restaurantTemplate()}},
		store,
		tokens,
		publisher,
		15*time.Minute,
	)
	return wf, tokens, publisher
}

func baseInput() validation.JobInput {
	return validation.JobInput{
		JobDate:    "2025-03-01",
		StartTime:  "09:00",
		EndTime:    "17:00",
		HeadCount:  2,
		WageAmount: 150,
	}
}

func TestReviewWritesNothing(t *testing.T) {
	store := &stubStore{}
	wf, tokens, _ := newTestWorkflow(store)

	review, err := wf.Review(context.Background(), "tpl-1", baseInput())
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if review.ConfirmationToken == "" {
		t.Fatal("expected a confirmation token")
	}
	if store.posting != nil {
		t.Fatal("review must not write any rows")
	}
	if len(tokens.values) != 1 {
		t.Fatalf("expected exactly one pending token, got %d", len(tokens.values))
	}
	if review.JobTitle != "Restaurant Manager" || review.HeadCount != 2 || review.WageAmount != 150 {
		t.Fatalf("unexpected review summary: %+v", review)
	}
	if review.VisibilityType != string(models.VisibilityGeneral) {
		t.Fatalf("default visibility not applied: %q", review.VisibilityType)
	}
}

func TestPublishAfterReview(t *testing.T) {
	store := &stubStore{}
	wf, _, publisher := newTestWorkflow(store)
	ctx := context.Background()

	review, err := wf.Review(ctx, "tpl-1", baseInput())
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	posting, err := wf.Publish(ctx, "tpl-1", review.ConfirmationToken, baseInput())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if posting.Status != models.StatusPublished {
		t.Fatalf("expected published status, got %q", posting.Status)
	}
	if posting.HeadCount != 2 {
		t.Fatalf("head count = %d, want 2", posting.HeadCount)
	}
	if posting.AutoMessageTarget != nil || posting.AutoMessageText != nil {
		t.Fatal("auto message fields must be nil when send flag is off")
	}
	if len(posting.Benefits) != 1 || posting.Benefits[0].BenefitType != models.BenefitFoodProvided {
		t.Fatalf("expected copied benefit food_provided, got %+v", posting.Benefits)
	}
	if len(posting.BringWithItems) != 1 || posting.BringWithItems[0].Item != "Apron" || posting.BringWithItems[0].OrderIndex != 0 {
		t.Fatalf("expected copied bring-with item Apron at index 0, got %+v", posting.BringWithItems)
	}
	if len(posting.ExperienceGroups) != 0 {
		t.Fatal("general visibility must create no experience group rows")
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.published))
	}
}

func TestPublishWithoutReviewRejected(t *testing.T) {
	store := &stubStore{}
	wf, _, _ := newTestWorkflow(store)

	_, err := wf.Publish(context.Background(), "tpl-1", "never-issued", baseInput())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsType(err, errors.ErrTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.posting != nil {
		t.Fatal("rejected publish must not write rows")
	}
}

func TestConfirmationTokenSingleUse(t *testing.T) {
	store := &stubStore{}
	wf, _, _ := newTestWorkflow(store)
	ctx := context.Background()

	review, err := wf.Review(ctx, "tpl-1", baseInput())
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if _, err := wf.Publish(ctx, "tpl-1", review.ConfirmationToken, baseInput()); err != nil {
		t.Fatalf("first Publish: %v", err)
	}

	_, err = wf.Publish(ctx, "tpl-1", review.ConfirmationToken, baseInput())
	if !errors.IsType(err, errors.ErrTypeValidation) {
		t.Fatalf("reused token must be rejected, got %v", err)
	}
}

func TestPublishWithAutoMessage(t *testing.T) {
	store := &stubStore{}
	wf, _, _ := newTestWorkflow(store)
	ctx := context.Background()

	in := baseInput()
	in.SendAutoMessage = true

	review, err := wf.Review(ctx, "tpl-1", in)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	posting, err := wf.Publish(ctx, "tpl-1", review.ConfirmationToken, in)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if posting.AutoMessageTarget == nil || *posting.AutoMessageTarget != models.AutoMessageAlways {
		t.Fatalf("expected default target always, got %v", posting.AutoMessageTarget)
	}
	if posting.AutoMessageText == nil || *posting.AutoMessageText != "Thanks for applying, see you soon!" {
		t.Fatalf("auto message text must be copied verbatim from the template, got %v", posting.AutoMessageText)
	}
}

func TestPublishGroupsVisibility(t *testing.T) {
	store := &stubStore{}
	wf, _, _ := newTestWorkflow(store)
	ctx := context.Background()

	in := baseInput()
	in.VisibilityType = string(models.VisibilityGroups)
	in.ExperienceGroups = []string{"barista", "kitchen_staff"}

	review, err := wf.Review(ctx, "tpl-1", in)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	posting, err := wf.Publish(ctx, "tpl-1", review.ConfirmationToken, in)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(posting.ExperienceGroups) != 2 {
		t.Fatalf("expected 2 experience group rows, got %d", len(posting.ExperienceGroups))
	}
}

func TestPublishGroupsWithEmptySelectionAccepted(t *testing.T) {
	store := &stubStore{}
	wf, _, _ := newTestWorkflow(store)
	ctx := context.Background()

	in := baseInput()
	in.VisibilityType = string(models.VisibilityGroups)

	review, err := wf.Review(ctx, "tpl-1", in)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	posting, err := wf.Publish(ctx, "tpl-1", review.ConfirmationToken, in)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if posting.VisibilityType != models.VisibilityGroups {
		t.Fatalf("visibility = %q, want groups", posting.VisibilityType)
	}
	if len(posting.ExperienceGroups) != 0 {
		t.Fatalf("expected zero experience group rows, got %d", len(posting.ExperienceGroups))
	}
}

func TestPublishChildFailureLeavesDraft(t *testing.T) {
	store := &stubStore{failBringWithItems: true}
	wf, _, publisher := newTestWorkflow(store)
	ctx := context.Background()

	review, err := wf.Review(ctx, "tpl-1", baseInput())
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	_, err = wf.Publish(ctx, "tpl-1", review.ConfirmationToken, baseInput())
	if !errors.IsType(err, errors.ErrTypePartialWrite) {
		t.Fatalf("expected partial write error, got %v", err)
	}
	if store.status != models.StatusDraft {
		t.Fatalf("posting must stay in draft after a child failure, got %q", store.status)
	}
	if store.statusUpdates != 0 {
		t.Fatal("status must not be promoted after a child failure")
	}
	if len(publisher.published) != 0 {
		t.Fatal("no event may be announced for an incomplete derivation")
	}
}

func TestPublishSurvivesReadbackFailure(t *testing.T) {
	store := &stubStore{failGet: true}
	wf, _, publisher := newTestWorkflow(store)
	ctx := context.Background()

	review, err := wf.Review(ctx, "tpl-1", baseInput())
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	posting, err := wf.Publish(ctx, "tpl-1", review.ConfirmationToken, baseInput())
	if err != nil {
		t.Fatalf("a failed readback must not fail a completed publish: %v", err)
	}

	if posting.Status != models.StatusPublished {
		t.Fatalf("expected published status, got %q", posting.Status)
	}
	if store.status != models.StatusPublished {
		t.Fatalf("store status = %q, want published", store.status)
	}
	if len(posting.Benefits) != 1 || posting.Benefits[0].BenefitType != models.BenefitFoodProvided {
		t.Fatalf("fallback result missing copied benefits: %+v", posting.Benefits)
	}
	if len(posting.BringWithItems) != 1 || posting.BringWithItems[0].Item != "Apron" {
		t.Fatalf("fallback result missing copied bring-with items: %+v", posting.BringWithItems)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected the publish to be announced, got %d events", len(publisher.published))
	}
}

func TestPublishUnknownTemplate(t *testing.T) {
	store := &stubStore{}
	wf, _, _ := newTestWorkflow(store)

	_, err := wf.Review(context.Background(), "tpl-missing", baseInput())
	if !errors.IsType(err, errors.ErrTypeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDerivedPostingUnaffectedByTemplateEdit(t *testing.T) {
	store := &stubStore{}
	templates := &stubTemplates{templates: map[string]*models.TemplateWithRelations{"tpl-1": restaurantTemplate()}}
	wf := NewWorkflow(zap.NewNop(), templates, store, newStubCache(), &stubPublisher{}, 15*time.Minute)
	ctx := context.Background()

	review, err := wf.Review(ctx, "tpl-1", baseInput())
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	posting, err := wf.Publish(ctx, "tpl-1", review.ConfirmationToken, baseInput())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// Mutate the template after derivation; the posting holds copies.
	templates.templates["tpl-1"].JobTitle = "Renamed Role"
	templates.templates["tpl-1"].BringWithItems[0].Item = "Hard hat"

	stored, err := store.Get(ctx, posting.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.JobTitle != "Restaurant Manager" {
		t.Fatalf("posting title changed with the template: %q", stored.JobTitle)
	}
	if stored.BringWithItems[0].Item != "Apron" {
		t.Fatalf("posting bring-with item changed with the template: %q", stored.BringWithItems[0].Item)
	}
}
