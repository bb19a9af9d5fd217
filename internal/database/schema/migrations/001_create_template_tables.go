package migrations

import "github.com/chief-rocca/shiftly/internal/database/schema"

var CreateTemplateTables = schema.Migration{
	Version:     1,
	Description: "Create job posting template tables",
	Up: []string{
		`
		CREATE TABLE IF NOT EXISTS job_posting_templates (
			id UUID,
			job_title String,
			industry String,
			occupation String,
			job_description String,
			location_work_environment String,
			emergency_contact String,
			auto_message String,
			created_at DateTime,
			updated_at DateTime,
			PRIMARY KEY (id)
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY id
		SETTINGS index_granularity = 8192
		`,
		`
		CREATE TABLE IF NOT EXISTS template_benefits (
			id UUID,
			template_id UUID,
			benefit_type String,
			PRIMARY KEY (template_id, id)
		) ENGINE = MergeTree()
		ORDER BY (template_id, id)
		`,
		`
		CREATE TABLE IF NOT EXISTS template_bring_with_items (
			id UUID,
			template_id UUID,
			item String,
			order_index Int32,
			PRIMARY KEY (template_id, order_index)
		) ENGINE = MergeTree()
		ORDER BY (template_id, order_index)
		`,
		`
		CREATE TABLE IF NOT EXISTS template_eligibility_criteria (
			id UUID,
			template_id UUID,
			criterion String,
			order_index Int32,
			PRIMARY KEY (template_id, order_index)
		) ENGINE = MergeTree()
		ORDER BY (template_id, order_index)
		`,
		`
		CREATE TABLE IF NOT EXISTS template_workplace_images (
			id UUID,
			template_id UUID,
			image_type String,
			image_url String,
			uploaded_at DateTime,
			PRIMARY KEY (template_id, id)
		) ENGINE = MergeTree()
		ORDER BY (template_id, id)
		`,
		`
		CREATE TABLE IF NOT EXISTS template_work_documents (
			id UUID,
			template_id UUID,
			document_name String,
			document_url String,
			uploaded_at DateTime,
			PRIMARY KEY (template_id, id)
		) ENGINE = MergeTree()
		ORDER BY (template_id, id)
		`,
	},
	Down: []string{
		`DROP TABLE IF EXISTS template_work_documents`,
		`DROP TABLE IF EXISTS template_workplace_images`,
		`DROP TABLE IF EXISTS template_eligibility_criteria`,
		`DROP TABLE IF EXISTS template_bring_with_items`,
		`DROP TABLE IF EXISTS template_benefits`,
		`DROP TABLE IF EXISTS job_posting_templates`,
	},
}
