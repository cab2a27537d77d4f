package generator

import (
	"context"
	"database/sql"
	"errors"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) Create(ctx context.Context, session Session) error {
	const query = `
INSERT INTO flow_sessions (id, user_id, step, job_url, job_analysis, resume_data, cover_letter, company_name, job_title, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := s.DB.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		string(session.Step),
		session.JobURL,
		nullableJSON(session.JobAnalysis),
		nullableJSON(session.ResumeData),
		session.CoverLetter,
		session.CompanyName,
		session.JobTitle,
	)
	return err
}

func (s *PGStore) GetByID(ctx context.Context, userID, sessionID string) (Session, error) {
	const query = `
SELECT id, user_id, step, job_url, job_analysis, resume_data, cover_letter, company_name, job_title, created_at, updated_at
FROM flow_sessions
WHERE id = $1 AND user_id = $2
LIMIT 1`
	var (
		session     Session
		step        string
		jobAnalysis []byte
		resumeData  []byte
	)
	err := s.DB.QueryRowContext(ctx, query, sessionID, userID).Scan(
		&session.ID,
		&session.UserID,
		&step,
		&session.JobURL,
		&jobAnalysis,
		&resumeData,
		&session.CoverLetter,
		&session.CompanyName,
		&session.JobTitle,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	session.Step = Step(step)
	if len(jobAnalysis) > 0 {
		session.JobAnalysis = jobAnalysis
	}
	if len(resumeData) > 0 {
		session.ResumeData = resumeData
	}
	return session, nil
}

func (s *PGStore) Update(ctx context.Context, session Session) error {
	const query = `
UPDATE flow_sessions SET
  step = $3,
  job_url = $4,
  job_analysis = $5,
  resume_data = $6,
  cover_letter = $7,
  company_name = $8,
  job_title = $9,
  updated_at = now()
WHERE id = $1 AND user_id = $2`
	res, err := s.DB.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		string(session.Step),
		session.JobURL,
		nullableJSON(session.JobAnalysis),
		nullableJSON(session.ResumeData),
		session.CoverLetter,
		session.CompanyName,
		session.JobTitle,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
