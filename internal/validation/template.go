// Package validation checks workflow inputs field by field before any write
// is attempted. Messages are keyed by field name so the UI can surface them
// inline next to the offending input.
package validation

import (
	"unicode/utf8"

	"github.com/chief-rocca/shiftly/internal/errors"
	"github.com/chief-rocca/shiftly/internal/models"
)

const maxWorkDocuments = 5

// TemplateInput is the full submission for creating or replacing a template,
// child collections included. Slice order is meaningful for bring-with items
// and eligibility criteria.
type TemplateInput struct {
	JobTitle                string               `json:"job_title"`
	Industry                string               `json:"industry"`
	Occupation              string               `json:"occupation"`
	JobDescription          string               `json:"job_description"`
	Benefits                []string             `json:"benefits"`
	BringWithItems          []string             `json:"bring_with_items"`
	EligibilityCriteria     []string             `json:"eligibility_criteria"`
	WorkplaceImages         []WorkplaceImageRef  `json:"workplace_images"`
	WorkDocuments           []WorkDocumentRef    `json:"work_documents"`
	LocationWorkEnvironment string               `json:"location_work_environment"`
	EmergencyContact        string               `json:"emergency_contact"`
	AutoMessage             string               `json:"auto_message"`
}

type WorkplaceImageRef struct {
	ImageType string `json:"image_type"`
	ImageURL  string `json:"image_url"`
}

type WorkDocumentRef struct {
	DocumentName string `json:"document_name"`
	DocumentURL  string `json:"document_url"`
}

// ValidateTemplate returns a VALIDATION DomainError listing every failing
// field, or nil when the input is acceptable.
func ValidateTemplate(in TemplateInput) error {
	fields := map[string]string{}

	if utf8.RuneCountInString(in.JobTitle) < 2 {
		fields["job_title"] = "Job title must be at least 2 characters"
	}
	if in.Industry == "" {
		fields["industry"] = "Please select an industry"
	} else if !inOptionSet(in.Industry, models.Industries) {
		fields["industry"] = "Unknown industry"
	}
	if in.Occupation == "" {
		fields["occupation"] = "Please select an occupation"
	} else if !inOptionSet(in.Occupation, models.Occupations) {
		fields["occupation"] = "Unknown occupation"
	}
	if utf8.RuneCountInString(in.JobDescription) < 10 {
		fields["job_description"] = "Job description must be at least 10 characters"
	}
	if utf8.RuneCountInString(in.LocationWorkEnvironment) < 5 {
		fields["location_work_environment"] = "Please describe the location and work environment"
	}
	if utf8.RuneCountInString(in.EmergencyContact) < 5 {
		fields["emergency_contact"] = "Please provide emergency contact information"
	}
	for _, b := range in.Benefits {
		if !models.ValidBenefitType(b) {
			fields["benefits"] = "Unknown benefit type: " + b
			break
		}
	}
	for _, img := range in.WorkplaceImages {
		if !models.ValidImageType(img.ImageType) {
			fields["workplace_images"] = "Unknown image type: " + img.ImageType
			break
		}
	}
	if len(in.WorkDocuments) > maxWorkDocuments {
		fields["work_documents"] = "Maximum 5 documents allowed"
	}

	if len(fields) > 0 {
		return errors.Validation("template input failed validation", fields)
	}
	return nil
}

func inOptionSet(value string, options []string) bool {
	for _, opt := range options {
		if value == opt {
			return true
		}
	}
	return false
}
