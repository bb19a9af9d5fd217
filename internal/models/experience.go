package models

// ExperienceCategory is a display grouping of experience tags.
type ExperienceCategory struct {
	Name string
	Tags []ExperienceTag
}

type ExperienceTag struct {
	Value string
	Label string
}

// ExperienceCatalog is the fixed set of experience-type tags a posting with
// groups visibility can be restricted to, grouped for display.
var ExperienceCatalog = []ExperienceCategory{
	{
		Name: "Customer Service",
		Tags: []ExperienceTag{
			{Value: "customer_service", Label: "Customer Service Experience"},
			{Value: "retail", Label: "Retail Experience"},
			{Value: "sales", Label: "Sales Experience"},
			{Value: "front_desk", Label: "Front Desk Experience"},
			{Value: "hospitality", Label: "Hospitality Experience"},
		},
	},
	{
		Name: "Food & Beverage",
		Tags: []ExperienceTag{
			{Value: "food_service", Label: "Food Service Experience"},
			{Value: "hall_staff", Label: "Hall Staff Experience"},
			{Value: "kitchen_staff", Label: "Kitchen Staff Experience"},
			{Value: "barista", Label: "Barista Experience"},
			{Value: "dishwashing", Label: "Dishwashing Experience"},
		},
	},
	{
		Name: "Operations",
		Tags: []ExperienceTag{
			{Value: "cash_handling", Label: "Cash Handling Experience"},
			{Value: "inventory_management", Label: "Inventory Management Experience"},
			{Value: "opening_closing", Label: "Opening/Closing Experience"},
			{Value: "pos_system", Label: "POS System Experience"},
		},
	},
	{
		Name: "Light Labor",
		Tags: []ExperienceTag{
			{Value: "cleaning", Label: "Cleaning Experience"},
			{Value: "packing_sorting", Label: "Packing/Sorting Experience"},
			{Value: "warehouse", Label: "Warehouse Experience"},
			{Value: "moving_loading", Label: "Moving/Loading Experience"},
		},
	},
	{
		Name: "Office & Other",
		Tags: []ExperienceTag{
			{Value: "administrative", Label: "Administrative Experience"},
			{Value: "data_entry", Label: "Data Entry Experience"},
			{Value: "call_center", Label: "Call Center Experience"},
			{Value: "event_staff", Label: "Event Staff Experience"},
		},
	},
	{
		Name: "Special",
		Tags: []ExperienceTag{
			{Value: "previous_work_experience", Label: "Previous Work Experience (at this role)"},
			{Value: "favourite_recurring", Label: "Favourite / Recurring Workers"},
			{Value: "other", Label: "Other Experience"},
		},
	},
}

var experienceValues = buildExperienceIndex()

func buildExperienceIndex() map[string]struct{} {
	idx := make(map[string]struct{})
	for _, cat := range ExperienceCatalog {
		for _, tag := range cat.Tags {
			idx[tag.Value] = struct{}{}
		}
	}
	return idx
}

func ValidExperienceType(v string) bool {
	_, ok := experienceValues[v]
	return ok
}
