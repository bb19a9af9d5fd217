package migrations

import "github.com/chief-rocca/shiftly/internal/database/schema"

var CreateJobPostingTables = schema.Migration{
	Version:     2,
	Description: "Create job posting tables",
	Up: []string{
		`
		CREATE TABLE IF NOT EXISTS job_postings (
			id UUID,
			template_id String,
			job_title String,
			industry String,
			occupation String,
			job_description String,
			location_work_environment String,
			emergency_contact String,
			job_date String,
			start_time String,
			end_time String,
			break_start_time Nullable(String),
			break_end_time Nullable(String),
			application_closing_option String,
			head_count Int32,
			visibility_type String,
			wage_amount Float64,
			travel_compensation Float64,
			send_auto_message Bool,
			auto_message_target Nullable(String),
			auto_message_text Nullable(String),
			status String,
			created_at DateTime,
			updated_at DateTime,
			PRIMARY KEY (id)
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY id
		SETTINGS index_granularity = 8192
		`,
		`
		CREATE TABLE IF NOT EXISTS job_posting_experience_groups (
			id UUID,
			job_posting_id UUID,
			experience_type String,
			PRIMARY KEY (job_posting_id, id)
		) ENGINE = MergeTree()
		ORDER BY (job_posting_id, id)
		`,
		`
		CREATE TABLE IF NOT EXISTS job_posting_benefits (
			id UUID,
			job_posting_id UUID,
			benefit_type String,
			PRIMARY KEY (job_posting_id, id)
		) ENGINE = MergeTree()
		ORDER BY (job_posting_id, id)
		`,
		`
		CREATE TABLE IF NOT EXISTS job_posting_bring_with_items (
			id UUID,
			job_posting_id UUID,
			item String,
			order_index Int32,
			PRIMARY KEY (job_posting_id, order_index)
		) ENGINE = MergeTree()
		ORDER BY (job_posting_id, order_index)
		`,
		`
		CREATE TABLE IF NOT EXISTS job_posting_eligibility_criteria (
			id UUID,
			job_posting_id UUID,
			criterion String,
			order_index Int32,
			PRIMARY KEY (job_posting_id, order_index)
		) ENGINE = MergeTree()
		ORDER BY (job_posting_id, order_index)
		`,
	},
	Down: []string{
		`DROP TABLE IF EXISTS job_posting_eligibility_criteria`,
		`DROP TABLE IF EXISTS job_posting_bring_with_items`,
		`DROP TABLE IF EXISTS job_posting_benefits`,
		`DROP TABLE IF EXISTS job_posting_experience_groups`,
		`DROP TABLE IF EXISTS job_postings`,
	},
}
