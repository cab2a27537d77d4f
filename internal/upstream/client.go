package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to the assistant service that owns job analysis, résumé
// extraction, cover-letter generation, PDF rendering and persistence. The
// gateway treats every payload as opaque and forwards the caller's bearer
// token on each request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client for the given base URL, e.g.
// "http://localhost:8000/api".
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// AnalyzeJob submits a job-posting URL and returns the opaque analysis object.
func (c *Client) AnalyzeJob(ctx context.Context, token, jobURL string) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]string{"url": jobURL})
	if err != nil {
		return nil, err
	}
	return c.postJSON(ctx, token, "/analyze-job", body)
}

// AnalyzeResume uploads a résumé PDF as multipart form data and returns the
// opaque résumé data object.
func (c *Client) AnalyzeResume(ctx context.Context, token, fileName string, file io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-resume", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	setAuth(req, token)

	return c.do(req)
}

// GenerateCoverLetter asks the service to synthesize a cover letter from the
// two prior analysis results, forwarded verbatim.
func (c *Client) GenerateCoverLetter(ctx context.Context, token string, jobAnalysis, resumeData json.RawMessage) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]json.RawMessage{
		"job_analysis": jobAnalysis,
		"resume_data":  resumeData,
	})
	if err != nil {
		return nil, err
	}
	return c.postJSON(ctx, token, "/generate-cover-letter", body)
}

// ApplicationPayload is the bundle the service persists and renders. All
// nested objects stay opaque to the gateway.
type ApplicationPayload struct {
	JobURL      string          `json:"job_url"`
	JobAnalysis json.RawMessage `json:"job_analysis"`
	ResumeData  json.RawMessage `json:"resume_data"`
	CoverLetter string          `json:"cover_letter"`
	CompanyName string          `json:"company_name,omitempty"`
	JobTitle    string          `json:"job_title,omitempty"`
}

// GeneratePDF renders the application bundle and returns the raw PDF bytes.
func (c *Client) GeneratePDF(ctx context.Context, token string, payload ApplicationPayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-pdf", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	setAuth(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransportErr(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorFromBody(resp.StatusCode, raw)
	}
	return raw, nil
}

// CreateApplication persists the application bundle and returns the stored
// record as the service reports it.
func (c *Client) CreateApplication(ctx context.Context, token string, payload ApplicationPayload) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.postJSON(ctx, token, "/applications", body)
}

// ListApplications returns the caller's saved application records verbatim.
func (c *Client) ListApplications(ctx context.Context, token string) (json.RawMessage, error) {
	return c.getJSON(ctx, token, "/applications")
}

// GetApplication returns a single application record verbatim.
func (c *Client) GetApplication(ctx context.Context, token, id string) (json.RawMessage, error) {
	return c.getJSON(ctx, token, "/applications/"+id)
}

// DeleteApplication removes a single application record.
func (c *Client) DeleteApplication(ctx context.Context, token, id string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/applications/"+id, nil)
	if err != nil {
		return nil, err
	}
	setAuth(req, token)
	return c.do(req)
}

// Register creates an account and returns the token response verbatim.
func (c *Client) Register(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.postJSON(ctx, "", "/auth/register", body)
}

// Login exchanges credentials for a token response, forwarded verbatim.
func (c *Client) Login(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.postJSON(ctx, "", "/auth/login", body)
}

// Me returns the caller's profile as the service reports it.
func (c *Client) Me(ctx context.Context, token string) (json.RawMessage, error) {
	return c.getJSON(ctx, token, "/auth/me")
}

func (c *Client) postJSON(ctx context.Context, token, path string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	setAuth(req, token)
	return c.do(req)
}

func (c *Client) getJSON(ctx context.Context, token, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	setAuth(req, token)
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransportErr(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromBody(resp.StatusCode, raw)
	}
	return json.RawMessage(raw), nil
}

func setAuth(req *http.Request, token string) {
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func wrapTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
		return fmt.Errorf("upstream request timeout: %w", err)
	}
	return err
}
