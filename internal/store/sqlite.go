package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobscout/internal/model"
)

// Ensure SQLiteStore satisfies both store interfaces.
var (
	_ model.JobStore    = (*SQLiteStore)(nil)
	_ model.ResultStore = (*SQLiteStore)(nil)
)

// SQLiteStore persists scraped jobs and enriched results in one SQLite
// database. Jobs are keyed by job ID with upsert semantics, so re-scraping
// the same posting across queries or runs never duplicates it. Every write
// is durable on return, which gives per-batch and per-job checkpointing
// for free.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	job_id            TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	organisation_name TEXT NOT NULL,
	organisation_url  TEXT NOT NULL,
	description       TEXT NOT NULL,
	criteria          TEXT NOT NULL,
	url               TEXT NOT NULL,
	posted_time       TEXT NOT NULL,
	applicants        TEXT NOT NULL,
	scraped_at        DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS results (
	job_id           TEXT PRIMARY KEY,
	relevant         INTEGER NOT NULL,
	confidence       REAL NOT NULL,
	explanation      TEXT NOT NULL,
	key_requirements TEXT NOT NULL,
	role_details     TEXT NOT NULL,
	enriched_at      DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// Open opens (or creates) the database at dbPath and ensures the schema
// exists. A file that cannot be opened as a database is moved aside to
// <dbPath>.corrupt and replaced with a fresh store, so corrupted state never
// fails a run.
func Open(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := open(dbPath)
	if err == nil {
		return &SQLiteStore{db: db}, nil
	}

	if _, statErr := os.Stat(dbPath); statErr != nil {
		return nil, err
	}

	logger.Warn("store unreadable, starting fresh", "path", dbPath, "error", err)
	if renameErr := os.Rename(dbPath, dbPath+".corrupt"); renameErr != nil {
		return nil, fmt.Errorf("moving corrupt store aside: %w", renameErr)
	}

	db, err = open(dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return db, nil
}

// UpsertJobs writes a batch of scraped records in one transaction. Existing
// records are refreshed in place, keeping their original insertion order.
func (s *SQLiteStore) UpsertJobs(records []model.JobRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning job upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO jobs
		(job_id, title, organisation_name, organisation_url, description, criteria, url, posted_time, applicants)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			title = excluded.title,
			organisation_name = excluded.organisation_name,
			organisation_url = excluded.organisation_url,
			description = excluded.description,
			criteria = excluded.criteria,
			url = excluded.url,
			posted_time = excluded.posted_time,
			applicants = excluded.applicants`)
	if err != nil {
		return fmt.Errorf("preparing job upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(
			r.ID, r.Title, r.OrganisationName, r.OrganisationURL,
			r.Description, r.Criteria, r.URL, r.PostedTime, r.Applicants,
		); err != nil {
			return fmt.Errorf("upserting job %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing job upsert: %w", err)
	}
	return nil
}

// LoadJobs returns all stored records in insertion order.
func (s *SQLiteStore) LoadJobs() ([]model.JobRecord, error) {
	rows, err := s.db.Query(`SELECT job_id, title, organisation_name, organisation_url,
		description, criteria, url, posted_time, applicants
		FROM jobs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("loading jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.JobRecord
	for rows.Next() {
		var r model.JobRecord
		if err := rows.Scan(
			&r.ID, &r.Title, &r.OrganisationName, &r.OrganisationURL,
			&r.Description, &r.Criteria, &r.URL, &r.PostedTime, &r.Applicants,
		); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		jobs = append(jobs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading jobs: %w", err)
	}
	return jobs, nil
}

// HasJob returns true if the given job ID has already been scraped.
func (s *SQLiteStore) HasJob(jobID string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM jobs WHERE job_id = ?", jobID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking job %s: %w", jobID, err)
	}
	return true, nil
}

// UpsertResult checkpoints one enriched job. The write is durable on return,
// so an interrupted run loses at most the job being enriched when it died.
func (s *SQLiteStore) UpsertResult(job model.EnrichedJob) error {
	reqs, err := json.Marshal(job.Summary.KeyRequirements)
	if err != nil {
		return fmt.Errorf("encoding key requirements for %s: %w", job.ID, err)
	}
	details, err := json.Marshal(job.Summary.RoleDetails)
	if err != nil {
		return fmt.Errorf("encoding role details for %s: %w", job.ID, err)
	}

	_, err = s.db.Exec(`INSERT INTO results
		(job_id, relevant, confidence, explanation, key_requirements, role_details)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			relevant = excluded.relevant,
			confidence = excluded.confidence,
			explanation = excluded.explanation,
			key_requirements = excluded.key_requirements,
			role_details = excluded.role_details,
			enriched_at = CURRENT_TIMESTAMP`,
		job.ID, job.Verdict.Relevant, job.Verdict.Confidence, job.Verdict.Explanation,
		string(reqs), string(details),
	)
	if err != nil {
		return fmt.Errorf("upserting result for %s: %w", job.ID, err)
	}
	return nil
}

// LoadResults returns all enriched jobs joined with their scraped records,
// in enrichment order.
func (s *SQLiteStore) LoadResults() ([]model.EnrichedJob, error) {
	rows, err := s.db.Query(`SELECT
		j.job_id, j.title, j.organisation_name, j.organisation_url,
		j.description, j.criteria, j.url, j.posted_time, j.applicants,
		r.relevant, r.confidence, r.explanation, r.key_requirements, r.role_details
		FROM results r
		JOIN jobs j ON j.job_id = r.job_id
		ORDER BY r.rowid`)
	if err != nil {
		return nil, fmt.Errorf("loading results: %w", err)
	}
	defer rows.Close()

	var out []model.EnrichedJob
	for rows.Next() {
		var (
			e             model.EnrichedJob
			reqs, details string
		)
		if err := rows.Scan(
			&e.ID, &e.Title, &e.OrganisationName, &e.OrganisationURL,
			&e.Description, &e.Criteria, &e.URL, &e.PostedTime, &e.Applicants,
			&e.Verdict.Relevant, &e.Verdict.Confidence, &e.Verdict.Explanation,
			&reqs, &details,
		); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		if err := json.Unmarshal([]byte(reqs), &e.Summary.KeyRequirements); err != nil {
			return nil, fmt.Errorf("decoding key requirements for %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(details), &e.Summary.RoleDetails); err != nil {
			return nil, fmt.Errorf("decoding role details for %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading results: %w", err)
	}
	return out, nil
}

// HasResult returns true if the given job ID already has a checkpointed result.
func (s *SQLiteStore) HasResult(jobID string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM results WHERE job_id = ?", jobID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking result %s: %w", jobID, err)
	}
	return true, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
