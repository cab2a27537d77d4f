package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"bewerbung-gateway/internal/pdfcheck"
	"bewerbung-gateway/internal/shared/telemetry"
	"bewerbung-gateway/internal/shared/util"
	"bewerbung-gateway/internal/upstream"
)

// UpstreamAPI is the slice of the assistant service the workflow depends on.
type UpstreamAPI interface {
	AnalyzeJob(ctx context.Context, token, jobURL string) (json.RawMessage, error)
	AnalyzeResume(ctx context.Context, token, fileName string, file io.Reader) (json.RawMessage, error)
	GenerateCoverLetter(ctx context.Context, token string, jobAnalysis, resumeData json.RawMessage) (json.RawMessage, error)
	GeneratePDF(ctx context.Context, token string, payload upstream.ApplicationPayload) ([]byte, error)
	CreateApplication(ctx context.Context, token string, payload upstream.ApplicationPayload) (json.RawMessage, error)
}

// Service drives the four-step generation workflow. Each mutation validates
// the current step, performs at most one upstream call, and persists the
// outcome. Analysis payloads pass through untouched.
type Service struct {
	Store    Store
	Upstream UpstreamAPI
}

func NewService(store Store, api UpstreamAPI) *Service {
	return &Service{Store: store, Upstream: api}
}

// Start creates a fresh session in the awaiting_job_url step.
func (s *Service) Start(ctx context.Context, userID string) (Session, error) {
	session := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Step:      StepAwaitingJobURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Create(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Get returns the session as stored.
func (s *Service) Get(ctx context.Context, userID, sessionID string) (Session, error) {
	return s.Store.GetByID(ctx, userID, sessionID)
}

// SubmitJobURL runs the job analysis and advances to awaiting_resume. An
// empty URL is rejected before any upstream call. On upstream failure the
// session stays in awaiting_job_url.
func (s *Service) SubmitJobURL(ctx context.Context, token, userID, sessionID, jobURL string) (Session, error) {
	jobURL = strings.TrimSpace(jobURL)
	if jobURL == "" {
		return Session{}, ErrEmptyJobURL
	}

	session, err := s.Store.GetByID(ctx, userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if session.Step != StepAwaitingJobURL {
		return Session{}, ErrInvalidStep
	}

	analysis, err := s.Upstream.AnalyzeJob(ctx, token, jobURL)
	if err != nil {
		return Session{}, err
	}

	session.JobURL = jobURL
	session.JobAnalysis = analysis
	session.CompanyName, session.JobTitle = liftDisplayFields(analysis)
	session.Step = StepAwaitingResume
	if err := s.Store.Update(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// UploadResume validates the file locally, runs the résumé analysis, and
// stores the result. The session stays in awaiting_resume; generation only
// unlocks once résumé data is present.
func (s *Service) UploadResume(ctx context.Context, token, userID, sessionID, fileName string, data []byte) (Session, error) {
	if err := pdfcheck.ValidateName(fileName); err != nil {
		return Session{}, err
	}
	if err := pdfcheck.ValidateBytes(data); err != nil {
		return Session{}, err
	}

	session, err := s.Store.GetByID(ctx, userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if session.Step != StepAwaitingResume {
		return Session{}, ErrInvalidStep
	}

	resumeData, err := s.Upstream.AnalyzeResume(ctx, token, fileName, bytes.NewReader(data))
	if err != nil {
		return Session{}, err
	}

	session.ResumeData = resumeData
	if err := s.Store.Update(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Generate synthesizes the cover letter from the two stored analysis results.
// The session sits in the generating step for the duration of the upstream
// call; on failure it reverts to awaiting_resume with both results intact.
func (s *Service) Generate(ctx context.Context, token, userID, sessionID string) (Session, error) {
	session, err := s.Store.GetByID(ctx, userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if session.Step != StepAwaitingResume {
		return Session{}, ErrInvalidStep
	}
	if len(session.ResumeData) == 0 {
		return Session{}, ErrResumeMissing
	}

	session.Step = StepGenerating
	if err := s.Store.Update(ctx, session); err != nil {
		return Session{}, err
	}

	result, genErr := s.Upstream.GenerateCoverLetter(ctx, token, session.JobAnalysis, session.ResumeData)
	if genErr != nil {
		session.Step = StepAwaitingResume
		if err := s.Store.Update(ctx, session); err != nil {
			telemetry.Error("generator.revert_failed", map[string]any{
				"session_id": session.ID,
				"err":        err.Error(),
			})
		}
		return Session{}, genErr
	}

	var payload struct {
		CoverLetter string `json:"cover_letter"`
	}
	if err := json.Unmarshal(result, &payload); err != nil || strings.TrimSpace(payload.CoverLetter) == "" {
		session.Step = StepAwaitingResume
		if updErr := s.Store.Update(ctx, session); updErr != nil {
			telemetry.Error("generator.revert_failed", map[string]any{
				"session_id": session.ID,
				"err":        updErr.Error(),
			})
		}
		return Session{}, errors.New("upstream returned no cover letter")
	}

	session.CoverLetter = payload.CoverLetter
	session.Step = StepReadyToExport
	if err := s.Store.Update(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Back applies an explicit back transition. Accumulated data is kept so a
// forward step never re-enters from scratch.
func (s *Service) Back(ctx context.Context, userID, sessionID string) (Session, error) {
	session, err := s.Store.GetByID(ctx, userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	prev, ok := session.Step.BackStep()
	if !ok {
		return Session{}, ErrInvalidStep
	}
	session.Step = prev
	if err := s.Store.Update(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Save persists the assembled application record upstream. The session is
// not mutated, so the action can be retried freely.
func (s *Service) Save(ctx context.Context, token, userID, sessionID string) (json.RawMessage, error) {
	session, err := s.Store.GetByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != StepReadyToExport || strings.TrimSpace(session.CoverLetter) == "" {
		return nil, ErrNotReady
	}
	return s.Upstream.CreateApplication(ctx, token, applicationPayload(session))
}

// ExportPDF renders the application upstream and returns the PDF bytes with
// the derived download filename. The session is not mutated.
func (s *Service) ExportPDF(ctx context.Context, token, userID, sessionID string) ([]byte, string, error) {
	session, err := s.Store.GetByID(ctx, userID, sessionID)
	if err != nil {
		return nil, "", err
	}
	if session.Step != StepReadyToExport || strings.TrimSpace(session.CoverLetter) == "" {
		return nil, "", ErrNotReady
	}
	pdf, err := s.Upstream.GeneratePDF(ctx, token, applicationPayload(session))
	if err != nil {
		return nil, "", err
	}
	return pdf, util.ExportFileName(session.CompanyName), nil
}

func applicationPayload(session Session) upstream.ApplicationPayload {
	return upstream.ApplicationPayload{
		JobURL:      session.JobURL,
		JobAnalysis: session.JobAnalysis,
		ResumeData:  session.ResumeData,
		CoverLetter: session.CoverLetter,
		CompanyName: session.CompanyName,
		JobTitle:    session.JobTitle,
	}
}

// liftDisplayFields peeks at the two fields the views show. The payload
// itself stays opaque and is forwarded unchanged.
func liftDisplayFields(analysis json.RawMessage) (companyName, jobTitle string) {
	var fields struct {
		CompanyName string `json:"company_name"`
		JobTitle    string `json:"job_title"`
	}
	if err := json.Unmarshal(analysis, &fields); err != nil {
		return "", ""
	}
	return fields.CompanyName, fields.JobTitle
}
