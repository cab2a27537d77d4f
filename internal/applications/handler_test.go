package applications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"bewerbung-gateway/internal/upstream"
)

type fakeUpstream struct {
	listCalls   int
	getCalls    int
	deleteCalls int
	lastID      string

	listResult json.RawMessage
	getResult  json.RawMessage
	getErr     error
}

func (f *fakeUpstream) ListApplications(_ context.Context, _ string) (json.RawMessage, error) {
	f.listCalls++
	return f.listResult, nil
}

func (f *fakeUpstream) GetApplication(_ context.Context, _ string, id string) (json.RawMessage, error) {
	f.getCalls++
	f.lastID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
}

func (f *fakeUpstream) DeleteApplication(_ context.Context, _ string, id string) (json.RawMessage, error) {
	f.deleteCalls++
	f.lastID = id
	return json.RawMessage(`{"message":"Bewerbung gelöscht"}`), nil
}

func newRouter(api UpstreamAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("rawToken", "token-1")
		c.Next()
	})
	NewHandler(api).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestListPassesRecordsThroughVerbatim(t *testing.T) {
	raw := json.RawMessage(`[{"id":"app-1","company_name":"ACME GmbH","status":"saved"}]`)
	fake := &fakeUpstream{listResult: raw}
	r := newRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Body.String() != string(raw) {
		t.Fatalf("body rewritten: %s", w.Body.String())
	}
	if fake.listCalls != 1 {
		t.Fatalf("listCalls = %d", fake.listCalls)
	}
}

func TestDeleteIssuesExactlyOneCallWithMatchingID(t *testing.T) {
	fake := &fakeUpstream{}
	r := newRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/applications/app-42", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if fake.deleteCalls != 1 {
		t.Fatalf("deleteCalls = %d, want 1", fake.deleteCalls)
	}
	if fake.lastID != "app-42" {
		t.Fatalf("deleted id = %q, want app-42", fake.lastID)
	}
}

func TestGetUnknownRecordReturns404(t *testing.T) {
	fake := &fakeUpstream{getErr: &upstream.APIError{StatusCode: http.StatusNotFound, Message: "Bewerbung nicht gefunden"}}
	r := newRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/applications/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Error.Message != "Bewerbung nicht gefunden" {
		t.Fatalf("message = %q", resp.Error.Message)
	}
}

func TestUpstreamFailureMapsToBadGateway(t *testing.T) {
	fake := &fakeUpstream{getErr: &upstream.APIError{StatusCode: http.StatusInternalServerError}}
	r := newRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/applications/app-1", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}
