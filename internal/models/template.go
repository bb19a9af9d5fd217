package models

import (
	"time"
)

type BenefitType string

const (
	BenefitNoExperience BenefitType = "no_experience"
	BenefitNoUniform    BenefitType = "no_uniform"
	BenefitFoodProvided BenefitType = "food_provided"
	BenefitParking      BenefitType = "parking"
	BenefitDiscount     BenefitType = "discount"
)

func ValidBenefitType(v string) bool {
	switch BenefitType(v) {
	case BenefitNoExperience, BenefitNoUniform, BenefitFoodProvided, BenefitParking, BenefitDiscount:
		return true
	}
	return false
}

type ImageType string

const (
	ImageSetting  ImageType = "setting"
	ImageExterior ImageType = "exterior"
	ImageInterior ImageType = "interior"
)

func ValidImageType(v string) bool {
	switch ImageType(v) {
	case ImageSetting, ImageExterior, ImageInterior:
		return true
	}
	return false
}

// Industries and Occupations are the closed option sets offered by the
// template authoring form. Values are stored lower-cased.
var Industries = []string{
	"food & drink",
	"retail",
	"hospitality",
	"healthcare",
	"technology",
	"other",
}

var Occupations = []string{
	"restaurant staff",
	"kitchen staff",
	"cashier",
	"sales associate",
	"security",
	"cleaner",
	"other",
}

// JobPostingTemplate is a reusable, store-authored job description. Jobs
// derived from it copy its descriptive fields by value, so later edits never
// touch already-published postings.
type JobPostingTemplate struct {
	ID                      string
	JobTitle                string
	Industry                string
	Occupation              string
	JobDescription          string
	LocationWorkEnvironment string
	EmergencyContact        string
	AutoMessage             string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

type TemplateBenefit struct {
	ID          string
	TemplateID  string
	BenefitType BenefitType
}

type TemplateBringWithItem struct {
	ID         string
	TemplateID string
	Item       string
	OrderIndex int
}

type TemplateEligibilityCriterion struct {
	ID         string
	TemplateID string
	Criterion  string
	OrderIndex int
}

type TemplateWorkplaceImage struct {
	ID         string
	TemplateID string
	ImageType  ImageType
	ImageURL   string
	UploadedAt time.Time
}

type TemplateWorkDocument struct {
	ID           string
	TemplateID   string
	DocumentName string
	DocumentURL  string
	UploadedAt   time.Time
}

// TemplateWithRelations bundles a template row with all of its child
// collections, ordered child sets sorted by order index.
type TemplateWithRelations struct {
	JobPostingTemplate
	Benefits            []TemplateBenefit
	BringWithItems      []TemplateBringWithItem
	EligibilityCriteria []TemplateEligibilityCriterion
	WorkplaceImages     []TemplateWorkplaceImage
	WorkDocuments       []TemplateWorkDocument
}
