package generator

import "errors"

var (
	// ErrInvalidStep means the requested action is not legal from the
	// session's current step.
	ErrInvalidStep = errors.New("action not allowed in current step")
	// ErrEmptyJobURL means the submitted job URL was blank; no upstream call
	// is made in that case.
	ErrEmptyJobURL = errors.New("job url is empty")
	// ErrResumeMissing means generation was requested before a résumé
	// analysis result was stored.
	ErrResumeMissing = errors.New("resume data missing")
	// ErrNotReady means an export action was requested before a cover letter
	// was generated.
	ErrNotReady = errors.New("cover letter not generated")
)
