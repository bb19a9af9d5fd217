package api

import (
	"strconv"
	"time"

	"github.com/chief-rocca/shiftly/internal/models"
	"github.com/chief-rocca/shiftly/internal/repository"
)

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

type templateResponse struct {
	ID                      string                `json:"id"`
	JobTitle                string                `json:"job_title"`
	Industry                string                `json:"industry"`
	Occupation              string                `json:"occupation"`
	JobDescription          string                `json:"job_description"`
	LocationWorkEnvironment string                `json:"location_work_environment"`
	EmergencyContact        string                `json:"emergency_contact"`
	AutoMessage             string                `json:"auto_message"`
	Benefits                []string              `json:"benefits"`
	BringWithItems          []orderedItem         `json:"bring_with_items"`
	EligibilityCriteria     []orderedItem         `json:"eligibility_criteria"`
	WorkplaceImages         []imageResponse       `json:"workplace_images"`
	WorkDocuments           []documentResponse    `json:"work_documents"`
	CreatedAt               time.Time             `json:"created_at"`
	UpdatedAt               time.Time             `json:"updated_at"`
}

type orderedItem struct {
	Value      string `json:"value"`
	OrderIndex int    `json:"order_index"`
}

type imageResponse struct {
	ImageType string `json:"image_type"`
	ImageURL  string `json:"image_url"`
}

type documentResponse struct {
	DocumentName string `json:"document_name"`
	DocumentURL  string `json:"document_url"`
}

func templateToResponse(tpl *models.TemplateWithRelations) templateResponse {
	resp := templateResponse{
		ID:                      tpl.ID,
		JobTitle:                tpl.JobTitle,
		Industry:                tpl.Industry,
		Occupation:              tpl.Occupation,
		JobDescription:          tpl.JobDescription,
		LocationWorkEnvironment: tpl.LocationWorkEnvironment,
		EmergencyContact:        tpl.EmergencyContact,
		AutoMessage:             tpl.AutoMessage,
		Benefits:                []string{},
		BringWithItems:          []orderedItem{},
		EligibilityCriteria:     []orderedItem{},
		WorkplaceImages:         []imageResponse{},
		WorkDocuments:           []documentResponse{},
		CreatedAt:               tpl.CreatedAt,
		UpdatedAt:               tpl.UpdatedAt,
	}
	for _, b := range tpl.Benefits {
		resp.Benefits = append(resp.Benefits, string(b.BenefitType))
	}
	for _, item := range tpl.BringWithItems {
		resp.BringWithItems = append(resp.BringWithItems, orderedItem{Value: item.Item, OrderIndex: item.OrderIndex})
	}
	for _, c := range tpl.EligibilityCriteria {
		resp.EligibilityCriteria = append(resp.EligibilityCriteria, orderedItem{Value: c.Criterion, OrderIndex: c.OrderIndex})
	}
	for _, img := range tpl.WorkplaceImages {
		resp.WorkplaceImages = append(resp.WorkplaceImages, imageResponse{ImageType: string(img.ImageType), ImageURL: img.ImageURL})
	}
	for _, doc := range tpl.WorkDocuments {
		resp.WorkDocuments = append(resp.WorkDocuments, documentResponse{DocumentName: doc.DocumentName, DocumentURL: doc.DocumentURL})
	}
	return resp
}

type templatePageResponse struct {
	Templates  []templateSummary `json:"templates"`
	TotalCount uint64            `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

type templateSummary struct {
	ID         string    `json:"id"`
	JobTitle   string    `json:"job_title"`
	Industry   string    `json:"industry"`
	Occupation string    `json:"occupation"`
	CreatedAt  time.Time `json:"created_at"`
}

func templatePageToResponse(page *repository.TemplatePage) templatePageResponse {
	resp := templatePageResponse{
		Templates:  []templateSummary{},
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}
	for _, tpl := range page.Templates {
		resp.Templates = append(resp.Templates, templateSummary{
			ID:         tpl.ID,
			JobTitle:   tpl.JobTitle,
			Industry:   tpl.Industry,
			Occupation: tpl.Occupation,
			CreatedAt:  tpl.CreatedAt,
		})
	}
	return resp
}

type postingResponse struct {
	ID                       string        `json:"id"`
	TemplateID               string        `json:"template_id"`
	JobTitle                 string        `json:"job_title"`
	Industry                 string        `json:"industry"`
	Occupation               string        `json:"occupation"`
	JobDescription           string        `json:"job_description"`
	LocationWorkEnvironment  string        `json:"location_work_environment"`
	EmergencyContact         string        `json:"emergency_contact"`
	JobDate                  string        `json:"job_date"`
	StartTime                string        `json:"start_time"`
	EndTime                  string        `json:"end_time"`
	BreakStartTime           *string       `json:"break_start_time"`
	BreakEndTime             *string       `json:"break_end_time"`
	ApplicationClosingOption string        `json:"application_closing_option"`
	HeadCount                int           `json:"head_count"`
	VisibilityType           string        `json:"visibility_type"`
	ExperienceGroups         []string      `json:"experience_groups"`
	WageAmount               float64       `json:"wage_amount"`
	TravelCompensation       float64       `json:"travel_compensation"`
	SendAutoMessage          bool          `json:"send_auto_message"`
	AutoMessageTarget        *string       `json:"auto_message_target"`
	AutoMessageText          *string       `json:"auto_message_text"`
	Status                   string        `json:"status"`
	Benefits                 []string      `json:"benefits"`
	BringWithItems           []orderedItem `json:"bring_with_items"`
	EligibilityCriteria      []orderedItem `json:"eligibility_criteria"`
	CreatedAt                time.Time     `json:"created_at"`
}

func postingToResponse(p *models.JobPostingWithRelations) postingResponse {
	resp := postingResponse{
		ID:                       p.ID,
		TemplateID:               p.TemplateID,
		JobTitle:                 p.JobTitle,
		Industry:                 p.Industry,
		Occupation:               p.Occupation,
		JobDescription:           p.JobDescription,
		LocationWorkEnvironment:  p.LocationWorkEnvironment,
		EmergencyContact:         p.EmergencyContact,
		JobDate:                  p.JobDate,
		StartTime:                p.StartTime,
		EndTime:                  p.EndTime,
		BreakStartTime:           p.BreakStartTime,
		BreakEndTime:             p.BreakEndTime,
		ApplicationClosingOption: string(p.ApplicationClosingOption),
		HeadCount:                p.HeadCount,
		VisibilityType:           string(p.VisibilityType),
		ExperienceGroups:         []string{},
		WageAmount:               p.WageAmount,
		TravelCompensation:       p.TravelCompensation,
		SendAutoMessage:          p.SendAutoMessage,
		AutoMessageText:          p.AutoMessageText,
		Status:                   string(p.Status),
		Benefits:                 []string{},
		BringWithItems:           []orderedItem{},
		EligibilityCriteria:      []orderedItem{},
		CreatedAt:                p.CreatedAt,
	}
	if p.AutoMessageTarget != nil {
		target := string(*p.AutoMessageTarget)
		resp.AutoMessageTarget = &target
	}
	for _, g := range p.ExperienceGroups {
		resp.ExperienceGroups = append(resp.ExperienceGroups, g.ExperienceType)
	}
	for _, b := range p.Benefits {
		resp.Benefits = append(resp.Benefits, string(b.BenefitType))
	}
	for _, item := range p.BringWithItems {
		resp.BringWithItems = append(resp.BringWithItems, orderedItem{Value: item.Item, OrderIndex: item.OrderIndex})
	}
	for _, c := range p.EligibilityCriteria {
		resp.EligibilityCriteria = append(resp.EligibilityCriteria, orderedItem{Value: c.Criterion, OrderIndex: c.OrderIndex})
	}
	return resp
}
