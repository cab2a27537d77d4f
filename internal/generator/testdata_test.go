package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"bewerbung-gateway/internal/upstream"
)

// fakeUpstream counts calls and returns canned responses. Error fields, when
// set, are returned instead.
type fakeUpstream struct {
	analyzeJobCalls    int
	analyzeResumeCalls int
	generateCalls      int
	pdfCalls           int
	createCalls        int

	jobAnalysis  json.RawMessage
	resumeData   json.RawMessage
	coverLetter  json.RawMessage
	pdfBytes     []byte
	createdRec   json.RawMessage
	lastPayload  upstream.ApplicationPayload
	onGenerate   func()
	jobErr       error
	resumeErr    error
	generateErr  error
	pdfErr       error
	createErr    error
}

func (f *fakeUpstream) AnalyzeJob(ctx context.Context, token, jobURL string) (json.RawMessage, error) {
	f.analyzeJobCalls++
	if f.jobErr != nil {
		return nil, f.jobErr
	}
	return f.jobAnalysis, nil
}

func (f *fakeUpstream) AnalyzeResume(ctx context.Context, token, fileName string, file io.Reader) (json.RawMessage, error) {
	f.analyzeResumeCalls++
	if f.resumeErr != nil {
		return nil, f.resumeErr
	}
	return f.resumeData, nil
}

func (f *fakeUpstream) GenerateCoverLetter(ctx context.Context, token string, jobAnalysis, resumeData json.RawMessage) (json.RawMessage, error) {
	f.generateCalls++
	if f.onGenerate != nil {
		f.onGenerate()
	}
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.coverLetter, nil
}

func (f *fakeUpstream) GeneratePDF(ctx context.Context, token string, payload upstream.ApplicationPayload) ([]byte, error) {
	f.pdfCalls++
	f.lastPayload = payload
	if f.pdfErr != nil {
		return nil, f.pdfErr
	}
	return f.pdfBytes, nil
}

func (f *fakeUpstream) CreateApplication(ctx context.Context, token string, payload upstream.ApplicationPayload) (json.RawMessage, error) {
	f.createCalls++
	f.lastPayload = payload
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createdRec, nil
}

// minimalPDF builds the smallest well-formed single-page PDF, with the xref
// offsets computed so the reader accepts it.
func minimalPDF() []byte {
	var buf bytes.Buffer
	var offsets []int
	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")
	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	addObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n")

	xrefPos := buf.Len()
	buf.WriteString("xref\n")
	fmt.Fprintf(&buf, "0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefPos)
	return buf.Bytes()
}
