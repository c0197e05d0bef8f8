package reports

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds one report fetch.
	DefaultTimeout = 5 * time.Second

	reportRootElement = "library_report"
	maxReportBytes    = 8 << 20
)

var (
	// ErrFetch reports a transport failure or a non-success status.
	ErrFetch = errors.New("reports: fetch failed")
	// ErrMalformedReport reports a body that is not a library report document.
	ErrMalformedReport = errors.New("reports: malformed report")

	errMissingBaseURL = errors.New("report base url is required")
)

// ReportError identifies the report that failed. Status is 0 when no
// response was received.
type ReportError struct {
	Type   ReportType
	Status int
	Err    error
}

func (e *ReportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("reports: %s report (status %d): %v", e.Type, e.Status, e.Err)
	}
	return fmt.Sprintf("reports: %s report: %v", e.Type, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

type TranslatorConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Translator fetches legacy XML reports and normalizes them.
type Translator struct {
	baseURL    *url.URL
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

func NewTranslator(cfg TranslatorConfig) (*Translator, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errMissingBaseURL
	}
	baseURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("reports: invalid base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Translator{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger.With(zap.String("component", "reports")),
	}, nil
}

func (t *Translator) reportURL(reportType ReportType) string {
	target := *t.baseURL
	query := target.Query()
	query.Set("type", reportType.String())
	query.Set("xml", "1")
	target.RawQuery = query.Encode()
	return target.String()
}

// Fetch downloads the report document for reportType and normalizes it.
func (t *Translator) Fetch(ctx context.Context, reportType ReportType) (Report, error) {
	reportType = ParseType(reportType.String())
	started := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, t.reportURL(reportType), nil)
	if err != nil {
		return Report{}, &ReportError{Type: reportType, Err: fmt.Errorf("%w: %w", ErrFetch, err)}
	}
	request.Header.Set("Accept", "application/xml, text/xml")

	response, err := t.httpClient.Do(request)
	if err != nil {
		observeFetch(reportType, outcomeFetchFailed, started)
		t.logger.Warn("report fetch failed", zap.String("type", reportType.String()), zap.Error(err))
		return Report{}, &ReportError{Type: reportType, Err: fmt.Errorf("%w: %w", ErrFetch, err)}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxReportBytes))
	if err != nil {
		observeFetch(reportType, outcomeFetchFailed, started)
		t.logger.Warn("report read failed", zap.String("type", reportType.String()), zap.Error(err))
		return Report{}, &ReportError{Type: reportType, Status: response.StatusCode, Err: fmt.Errorf("%w: %w", ErrFetch, err)}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		observeFetch(reportType, outcomeFetchFailed, started)
		t.logger.Warn("report endpoint returned error status",
			zap.String("type", reportType.String()),
			zap.Int("status", response.StatusCode))
		return Report{}, &ReportError{Type: reportType, Status: response.StatusCode, Err: ErrFetch}
	}

	doc, err := parseDocument(body)
	if err != nil {
		observeFetch(reportType, outcomeMalformed, started)
		t.logger.Warn("report document malformed", zap.String("type", reportType.String()), zap.Error(err))
		return Report{}, &ReportError{Type: reportType, Status: response.StatusCode, Err: err}
	}

	observeFetch(reportType, outcomeOK, started)
	return normalize(reportType, doc), nil
}

func parseDocument(body []byte) (libraryReportXML, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	for {
		token, err := decoder.Token()
		if err != nil {
			return libraryReportXML{}, fmt.Errorf("%w: %v", ErrMalformedReport, err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != reportRootElement {
			return libraryReportXML{}, fmt.Errorf("%w: unexpected root <%s>", ErrMalformedReport, start.Name.Local)
		}

		var doc libraryReportXML
		if err := decoder.DecodeElement(&doc, &start); err != nil {
			return libraryReportXML{}, fmt.Errorf("%w: %v", ErrMalformedReport, err)
		}
		return doc, nil
	}
}
