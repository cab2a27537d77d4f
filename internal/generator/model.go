package generator

import (
	"encoding/json"
	"time"
)

// Step identifies the current position in the generation workflow.
type Step string

const (
	StepAwaitingJobURL Step = "awaiting_job_url"
	StepAwaitingResume Step = "awaiting_resume"
	StepGenerating     Step = "generating"
	StepReadyToExport  Step = "ready_to_export"
)

// Valid reports whether s is a known workflow step.
func (s Step) Valid() bool {
	switch s {
	case StepAwaitingJobURL, StepAwaitingResume, StepGenerating, StepReadyToExport:
		return true
	}
	return false
}

// BackStep returns the step an explicit "back" action lands on. Only
// ready_to_export → awaiting_resume and awaiting_resume → awaiting_job_url
// are permitted.
func (s Step) BackStep() (Step, bool) {
	switch s {
	case StepReadyToExport:
		return StepAwaitingResume, true
	case StepAwaitingResume:
		return StepAwaitingJobURL, true
	}
	return "", false
}

// Session is one run of the generation workflow. The analysis payloads are
// owned by the upstream service and held here as opaque JSON; the gateway
// never inspects them beyond lifting company name and job title for display.
type Session struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Step        Step            `json:"step"`
	JobURL      string          `json:"jobUrl"`
	JobAnalysis json.RawMessage `json:"jobAnalysis,omitempty"`
	ResumeData  json.RawMessage `json:"resumeData,omitempty"`
	CoverLetter string          `json:"coverLetter,omitempty"`
	CompanyName string          `json:"companyName,omitempty"`
	JobTitle    string          `json:"jobTitle,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
