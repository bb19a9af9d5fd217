package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/chief-rocca/shiftly/internal/derivation"
	"github.com/chief-rocca/shiftly/internal/errors"
	"github.com/chief-rocca/shiftly/internal/listing"
	"github.com/chief-rocca/shiftly/internal/repository"
	"github.com/chief-rocca/shiftly/internal/templates"
	"github.com/chief-rocca/shiftly/internal/validation"
)

type Handlers struct {
	logger     *zap.Logger
	templates  *templates.Service
	derivation *derivation.Workflow
	feed       *listing.Feed
	jobs       *repository.JobRepository
}

func NewHandlers(logger *zap.Logger, tpl *templates.Service, wf *derivation.Workflow, feed *listing.Feed, jobs *repository.JobRepository) *Handlers {
	return &Handlers{
		logger:     logger,
		templates:  tpl,
		derivation: wf,
		feed:       feed,
		jobs:       jobs,
	}
}

func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var in validation.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, errors.Validation("invalid request body", map[string]string{"body": "malformed JSON"}))
		return
	}

	tpl, err := h.templates.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, templateToResponse(tpl))
}

func (h *Handlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.templates.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, templateToResponse(tpl))
}

func (h *Handlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var in validation.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, errors.Validation("invalid request body", map[string]string{"body": "malformed JSON"}))
		return
	}

	tpl, err := h.templates.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, templateToResponse(tpl))
}

func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	page := atoiDefault(r.URL.Query().Get("page"), 1)
	pageSize := atoiDefault(r.URL.Query().Get("page_size"), 0)

	result, err := h.templates.List(r.Context(), page, pageSize)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, templatePageToResponse(result))
}

type publishRequest struct {
	ConfirmationToken string              `json:"confirmation_token"`
	Job               validation.JobInput `json:"job"`
}

func (h *Handlers) ReviewJob(w http.ResponseWriter, r *http.Request) {
	var in validation.JobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, errors.Validation("invalid request body", map[string]string{"body": "malformed JSON"}))
		return
	}

	review, err := h.derivation.Review(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, review)
}

func (h *Handlers) PublishJob(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errors.Validation("invalid request body", map[string]string{"body": "malformed JSON"}))
		return
	}

	posting, err := h.derivation.Publish(r.Context(), r.PathValue("id"), req.ConfirmationToken, req.Job)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, postingToResponse(posting))
}

func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"jobs": h.feed.Snapshot()})
}

func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	posting, err := h.jobs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, postingToResponse(posting))
}

type errorResponse struct {
	Error  string            `json:"error"`
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps the domain taxonomy onto HTTP statuses. Every failure is
// a response, never a crash.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: "something went wrong", Type: string(errors.ErrTypeInternal)}
	status := http.StatusInternalServerError

	if derr, ok := err.(*errors.DomainError); ok {
		resp.Type = string(derr.Type)
		switch derr.Type {
		case errors.ErrTypeValidation:
			status = http.StatusUnprocessableEntity
			resp.Error = derr.Message
			resp.Fields = derr.Fields
		case errors.ErrTypeNotFound:
			status = http.StatusNotFound
			resp.Error = derr.Message
		case errors.ErrTypeUnavailable:
			status = http.StatusServiceUnavailable
			resp.Error = derr.Message
		case errors.ErrTypePartialWrite:
			status = http.StatusInternalServerError
			resp.Error = derr.Message
		}
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}

	h.writeJSON(w, status, resp)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
