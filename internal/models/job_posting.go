package models

import (
	"time"
)

type ApplicationClosingOption string

const (
	ClosingTwoDaysBefore ApplicationClosingOption = "2_days_before"
	ClosingOneDayBefore  ApplicationClosingOption = "1_day_before"
	ClosingDayOf         ApplicationClosingOption = "day_of"
)

func ValidClosingOption(v string) bool {
	switch ApplicationClosingOption(v) {
	case ClosingTwoDaysBefore, ClosingOneDayBefore, ClosingDayOf:
		return true
	}
	return false
}

type VisibilityType string

const (
	VisibilityGeneral   VisibilityType = "general"
	VisibilityCertified VisibilityType = "certified"
	VisibilityGroups    VisibilityType = "groups"
)

func ValidVisibilityType(v string) bool {
	switch VisibilityType(v) {
	case VisibilityGeneral, VisibilityCertified, VisibilityGroups:
		return true
	}
	return false
}

type AutoMessageTarget string

const (
	AutoMessageAlways      AutoMessageTarget = "always"
	AutoMessageFirstTimers AutoMessageTarget = "first_timers_only"
)

func ValidAutoMessageTarget(v string) bool {
	switch AutoMessageTarget(v) {
	case AutoMessageAlways, AutoMessageFirstTimers:
		return true
	}
	return false
}

type JobStatus string

const (
	StatusDraft     JobStatus = "draft"
	StatusPublished JobStatus = "published"
	StatusClosed    JobStatus = "closed"
	StatusCancelled JobStatus = "cancelled"
)

// JobPosting is a concrete, time-bound job derived from a template. The
// descriptive fields are frozen copies taken at derivation time. TemplateID
// is empty for postings not created from a template; the derivation workflow
// is currently the only creation path.
type JobPosting struct {
	ID                       string
	TemplateID               string
	JobTitle                 string
	Industry                 string
	Occupation               string
	JobDescription           string
	LocationWorkEnvironment  string
	EmergencyContact         string
	JobDate                  string
	StartTime                string
	EndTime                  string
	BreakStartTime           *string
	BreakEndTime             *string
	ApplicationClosingOption ApplicationClosingOption
	HeadCount                int
	VisibilityType           VisibilityType
	WageAmount               float64
	TravelCompensation       float64
	SendAutoMessage          bool
	AutoMessageTarget        *AutoMessageTarget
	AutoMessageText          *string
	Status                   JobStatus
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// JobPostingExperienceGroup grants visibility of a groups-restricted posting
// to workers tagged with one experience type. Rows exist only for postings
// with VisibilityGroups.
type JobPostingExperienceGroup struct {
	ID             string
	JobPostingID   string
	ExperienceType string
}

type JobPostingBenefit struct {
	ID           string
	JobPostingID string
	BenefitType  BenefitType
}

type JobPostingBringWithItem struct {
	ID           string
	JobPostingID string
	Item         string
	OrderIndex   int
}

type JobPostingEligibilityCriterion struct {
	ID           string
	JobPostingID string
	Criterion    string
	OrderIndex   int
}

// JobPostingWithRelations bundles a posting with its derived child rows.
type JobPostingWithRelations struct {
	JobPosting
	ExperienceGroups    []JobPostingExperienceGroup
	Benefits            []JobPostingBenefit
	BringWithItems      []JobPostingBringWithItem
	EligibilityCriteria []JobPostingEligibilityCriterion
}
