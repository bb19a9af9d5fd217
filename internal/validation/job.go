package validation

import (
	"github.com/chief-rocca/shiftly/internal/errors"
	"github.com/chief-rocca/shiftly/internal/models"
)

// JobInput carries the operator-entered scheduling, visibility and
// compensation values for deriving a posting from a template. Descriptive
// fields never appear here; they are copied from the template.
type JobInput struct {
	JobDate                  string   `json:"job_date"`
	StartTime                string   `json:"start_time"`
	EndTime                  string   `json:"end_time"`
	BreakStartTime           string   `json:"break_start_time"`
	BreakEndTime             string   `json:"break_end_time"`
	ApplicationClosingOption string   `json:"application_closing_option"`
	HeadCount                int      `json:"head_count"`
	VisibilityType           string   `json:"visibility_type"`
	ExperienceGroups         []string `json:"experience_groups"`
	WageAmount               float64  `json:"wage_amount"`
	TravelCompensation       float64  `json:"travel_compensation"`
	SendAutoMessage          bool     `json:"send_auto_message"`
	AutoMessageTarget        string   `json:"auto_message_target"`
}

// NormalizeJob fills the defaults the form would have preselected: closing
// option 1_day_before, general visibility, auto-message target "always".
func NormalizeJob(in JobInput) JobInput {
	if in.ApplicationClosingOption == "" {
		in.ApplicationClosingOption = string(models.ClosingOneDayBefore)
	}
	if in.VisibilityType == "" {
		in.VisibilityType = string(models.VisibilityGeneral)
	}
	if in.SendAutoMessage && in.AutoMessageTarget == "" {
		in.AutoMessageTarget = string(models.AutoMessageAlways)
	}
	return in
}

// ValidateJob checks a normalized JobInput. Cross-field time ordering is
// deliberately not checked: an end time before the start time is accepted,
// matching the product's current behavior. Likewise an empty experience
// group selection under groups visibility passes; callers log it instead.
func ValidateJob(in JobInput) error {
	fields := map[string]string{}

	if in.JobDate == "" {
		fields["job_date"] = "Please select a date"
	}
	if in.StartTime == "" {
		fields["start_time"] = "Please select a start time"
	}
	if in.EndTime == "" {
		fields["end_time"] = "Please select an end time"
	}
	if !models.ValidClosingOption(in.ApplicationClosingOption) {
		fields["application_closing_option"] = "Unknown application closing option"
	}
	if in.HeadCount < 1 {
		fields["head_count"] = "At least 1 person required"
	}
	if !models.ValidVisibilityType(in.VisibilityType) {
		fields["visibility_type"] = "Unknown visibility type"
	}
	for _, g := range in.ExperienceGroups {
		if !models.ValidExperienceType(g) {
			fields["experience_groups"] = "Unknown experience group: " + g
			break
		}
	}
	if in.WageAmount < 0 {
		fields["wage_amount"] = "Wage must be positive"
	}
	if in.TravelCompensation < 0 {
		fields["travel_compensation"] = "Travel compensation must be positive"
	}
	if in.SendAutoMessage && !models.ValidAutoMessageTarget(in.AutoMessageTarget) {
		fields["auto_message_target"] = "Unknown auto-message target"
	}

	if len(fields) > 0 {
		return errors.Validation("job input failed validation", fields)
	}
	return nil
}
