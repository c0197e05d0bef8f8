package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/vsevolod6/practika/internal/gateway"
	"github.com/vsevolod6/practika/internal/health"
	"github.com/vsevolod6/practika/internal/reports"
	"github.com/vsevolod6/practika/internal/resources"
	"go.uber.org/zap"
)

type fakeGateway struct {
	getBook    func(ctx context.Context, inventoryNumber string) (gateway.PhysicalBook, error)
	search     func(ctx context.Context, author string) ([]gateway.PhysicalBook, error)
	loan       func(ctx context.Context, request gateway.LoanRequest) (gateway.LoanResult, error)
	returnBook func(ctx context.Context, inventoryNumber string) (gateway.LoanResult, error)
	calls      int
}

func (f *fakeGateway) GetBookByInventory(ctx context.Context, inventoryNumber string) (gateway.PhysicalBook, error) {
	f.calls++
	return f.getBook(ctx, inventoryNumber)
}

func (f *fakeGateway) SearchBooksByAuthor(ctx context.Context, author string) ([]gateway.PhysicalBook, error) {
	f.calls++
	return f.search(ctx, author)
}

func (f *fakeGateway) RegisterLoan(ctx context.Context, request gateway.LoanRequest) (gateway.LoanResult, error) {
	f.calls++
	return f.loan(ctx, request)
}

func (f *fakeGateway) ReturnBook(ctx context.Context, inventoryNumber string) (gateway.LoanResult, error) {
	f.calls++
	return f.returnBook(ctx, inventoryNumber)
}

type fakeReports struct {
	fetch     func(ctx context.Context, reportType reports.ReportType) (reports.Report, error)
	requested []reports.ReportType
}

func (f *fakeReports) Fetch(ctx context.Context, reportType reports.ReportType) (reports.Report, error) {
	f.requested = append(f.requested, reportType)
	return f.fetch(ctx, reportType)
}

type fakeHealth struct {
	report health.Report
	err    error
}

func (f fakeHealth) Check(context.Context) (health.Report, error) {
	return f.report, f.err
}

func unusedGateway(t *testing.T) *fakeGateway {
	t.Helper()
	fail := func() { t.Fatalf("gateway must not be called") }
	return &fakeGateway{
		getBook: func(context.Context, string) (gateway.PhysicalBook, error) {
			fail()
			return gateway.PhysicalBook{}, nil
		},
		search: func(context.Context, string) ([]gateway.PhysicalBook, error) {
			fail()
			return nil, nil
		},
		loan: func(context.Context, gateway.LoanRequest) (gateway.LoanResult, error) {
			fail()
			return gateway.LoanResult{}, nil
		},
		returnBook: func(context.Context, string) (gateway.LoanResult, error) {
			fail()
			return gateway.LoanResult{}, nil
		},
	}
}

func unusedReports(t *testing.T) *fakeReports {
	t.Helper()
	return &fakeReports{fetch: func(context.Context, reports.ReportType) (reports.Report, error) {
		t.Fatalf("reports must not be called")
		return reports.Report{}, nil
	}}
}

// openTestStore opens a seeded store in a temporary directory.
func openTestStore(t *testing.T) *resources.Store {
	t.Helper()
	store, _ := openTestStoreAt(t)
	return store
}

func openTestStoreAt(t *testing.T) (*resources.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tinydb.json")
	store, err := resources.Open(context.Background(), resources.StoreConfig{Path: path})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store, path
}

// openCorruptedStore returns a store whose document was damaged after open.
func openCorruptedStore(t *testing.T) *resources.Store {
	t.Helper()
	store, path := openTestStoreAt(t)
	if err := os.WriteFile(path, []byte(`{"resources": [`), 0o644); err != nil {
		t.Fatalf("failed to corrupt store document: %v", err)
	}
	return store
}

func newTestHandler(t *testing.T, deps Dependencies) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if deps.Gateway == nil {
		deps.Gateway = unusedGateway(t)
	}
	if deps.Catalog == nil {
		deps.Catalog = openTestStore(t)
	}
	if deps.Reports == nil {
		deps.Reports = unusedReports(t)
	}
	if deps.Health == nil {
		deps.Health = fakeHealth{report: health.Report{Status: health.StatusOK}}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	handler, err := NewHTTPHandler(deps)
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	return handler
}

func performRequest(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return payload
}

func assertFailure(t *testing.T, recorder *httptest.ResponseRecorder, wantStatus int, wantError string) map[string]any {
	t.Helper()
	if recorder.Code != wantStatus {
		t.Fatalf("expected status %d, got %d: %s", wantStatus, recorder.Code, recorder.Body.String())
	}
	payload := decodeBody(t, recorder)
	if payload["success"] != false {
		t.Fatalf("expected success=false, got %v", payload["success"])
	}
	if payload["error"] != wantError {
		t.Fatalf("expected error %q, got %v", wantError, payload["error"])
	}
	return payload
}
