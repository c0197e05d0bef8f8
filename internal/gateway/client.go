package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds every call; no call is retried.
	DefaultTimeout = 5 * time.Second

	maxResponseBytes = 4 << 20
	maxFaultBody     = 500
)

var (
	errMissingEndpoint  = errors.New("gateway endpoint is required")
	errMissingNamespace = errors.New("gateway namespace is required")
	errMissingProbeKey  = errors.New("probe inventory number is required")
)

type ClientConfig struct {
	Endpoint       string
	Namespace      string
	Timeout        time.Duration
	ProbeInventory string
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// Client translates local calls into SOAP requests against the legacy
// library service and normalizes the untyped replies.
type Client struct {
	endpoint       string
	namespace      string
	timeout        time.Duration
	probeInventory string
	httpClient     *http.Client
	logger         *zap.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errMissingEndpoint
	}
	namespace := strings.TrimSpace(cfg.Namespace)
	if namespace == "" {
		return nil, errMissingNamespace
	}
	probeInventory := strings.TrimSpace(cfg.ProbeInventory)
	if probeInventory == "" {
		return nil, errMissingProbeKey
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

	return &Client{
		endpoint:       endpoint,
		namespace:      namespace,
		timeout:        timeout,
		probeInventory: probeInventory,
		httpClient:     httpClient,
		logger:         logger.With(zap.String("component", "gateway")),
	}, nil
}

// Call sends one request and decodes the `return` value. The caller's
// cancellation is not propagated: the request runs until it completes or the
// client timeout elapses.
func (c *Client) Call(ctx context.Context, method Method, params map[string]string) (Value, error) {
	payload, err := buildEnvelope(c.namespace, method, params)
	if err != nil {
		return Value{}, err
	}

	started := time.Now()
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Value{}, fmt.Errorf("gateway: build request: %w", err)
	}
	request.Header.Set("Content-Type", "text/xml; charset=utf-8")
	request.Header.Set("SOAPAction", string(method))

	c.logger.Debug("rpc call", zap.String("method", string(method)), zap.Int("params", len(params)))

	response, err := c.httpClient.Do(request)
	if err != nil {
		observeCall(method, outcomeUnreachable, started)
		c.logger.Warn("rpc call failed", zap.String("method", string(method)), zap.Error(err))
		return Value{}, fmt.Errorf("%w: %s: %w", ErrUnreachable, method, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		observeCall(method, outcomeUnreachable, started)
		c.logger.Warn("rpc response read failed", zap.String("method", string(method)), zap.Error(err))
		return Value{}, fmt.Errorf("%w: %s: %w", ErrUnreachable, method, err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		observeCall(method, outcomeRemoteFault, started)
		fault := &RemoteFaultError{Status: response.StatusCode, Body: faultBody(body, method)}
		c.logger.Warn("rpc remote fault",
			zap.String("method", string(method)),
			zap.Int("status", response.StatusCode),
			zap.String("fault", fault.Body))
		return Value{}, fault
	}

	returnValue, fault, err := extractReturn(body, method)
	if err != nil {
		observeCall(method, outcomeMalformed, started)
		c.logger.Warn("rpc response malformed", zap.String("method", string(method)), zap.Error(err))
		return Value{}, err
	}
	if fault != nil {
		observeCall(method, outcomeRemoteFault, started)
		c.logger.Warn("rpc soap fault",
			zap.String("method", string(method)),
			zap.String("fault_code", fault.Code),
			zap.String("fault", fault.String))
		return Value{}, &RemoteFaultError{Status: response.StatusCode, Body: fault.String}
	}

	observeCall(method, outcomeOK, started)
	value := Decode(returnValue)
	c.logger.Debug("rpc call completed", zap.String("method", string(method)), zap.Stringer("kind", value.Kind))
	return value, nil
}

func faultBody(body []byte, method Method) string {
	if _, fault, err := extractReturn(body, method); err == nil && fault != nil && fault.String != "" {
		return fault.String
	}
	text := strings.TrimSpace(string(body))
	if len(text) <= maxFaultBody {
		return text
	}
	cut := maxFaultBody
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

// GetBookByInventory looks up one book. Plain text, null or an object
// without an inventory number mean the book does not exist.
func (c *Client) GetBookByInventory(ctx context.Context, inventoryNumber string) (PhysicalBook, error) {
	inventoryNumber = strings.TrimSpace(inventoryNumber)
	if inventoryNumber == "" {
		return PhysicalBook{}, fmt.Errorf("%w: %s", ErrMissingParameter, paramInventoryNumber)
	}

	value, err := c.Call(ctx, MethodGetBookByInventory, map[string]string{paramInventoryNumber: inventoryNumber})
	if err != nil {
		return PhysicalBook{}, err
	}

	books := booksFromValue(value)
	if value.Kind != KindText && len(books) == 1 {
		return books[0], nil
	}
	detail := value.Text
	if value.Kind != KindText {
		detail = strings.TrimSpace(value.Raw)
	}
	return PhysicalBook{}, &NotFoundError{Key: inventoryNumber, Detail: detail}
}

// SearchBooksByAuthor returns the books whose author matches. No results is
// reported as NotFoundError; an opaque text reply as BusinessError.
func (c *Client) SearchBooksByAuthor(ctx context.Context, author string) ([]PhysicalBook, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, paramAuthorName)
	}

	value, err := c.Call(ctx, MethodSearchBooksByAuthor, map[string]string{paramAuthorName: author})
	if err != nil {
		return nil, err
	}
	if value.Kind == KindText && value.Text != "" {
		return nil, &BusinessError{Method: MethodSearchBooksByAuthor, Text: value.Text}
	}

	books := booksFromValue(value)
	if len(books) == 0 {
		return nil, &NotFoundError{Key: author}
	}
	return books, nil
}

// RegisterLoan issues a book to a reader. The call is not idempotent: after
// an ErrUnreachable the loan may or may not exist on the remote side.
func (c *Client) RegisterLoan(ctx context.Context, request LoanRequest) (LoanResult, error) {
	request.InventoryNumber = strings.TrimSpace(request.InventoryNumber)
	request.ReaderCard = strings.TrimSpace(request.ReaderCard)
	if request.InventoryNumber == "" {
		return LoanResult{}, fmt.Errorf("%w: %s", ErrMissingParameter, paramInventoryNumber)
	}
	if request.ReaderCard == "" {
		return LoanResult{}, fmt.Errorf("%w: %s", ErrMissingParameter, paramReaderCard)
	}

	value, err := c.Call(ctx, MethodRegisterLoan, map[string]string{
		paramInventoryNumber: request.InventoryNumber,
		paramReaderCard:      request.ReaderCard,
	})
	if err != nil {
		return LoanResult{}, err
	}
	return interpretLoan(MethodRegisterLoan, value, request)
}

// ReturnBook closes the open loan of a book. Same delivery caveats as RegisterLoan.
func (c *Client) ReturnBook(ctx context.Context, inventoryNumber string) (LoanResult, error) {
	inventoryNumber = strings.TrimSpace(inventoryNumber)
	if inventoryNumber == "" {
		return LoanResult{}, fmt.Errorf("%w: %s", ErrMissingParameter, paramInventoryNumber)
	}

	value, err := c.Call(ctx, MethodReturnBook, map[string]string{paramInventoryNumber: inventoryNumber})
	if err != nil {
		return LoanResult{}, err
	}
	return interpretLoan(MethodReturnBook, value, LoanRequest{InventoryNumber: inventoryNumber})
}

func interpretLoan(method Method, value Value, request LoanRequest) (LoanResult, error) {
	if result, ok := loanFromValue(value, request); ok {
		return result, nil
	}
	text := value.Text
	if value.Kind != KindText {
		text = strings.TrimSpace(value.Raw)
	}
	return LoanResult{}, &BusinessError{Method: method, Text: text}
}

// ProbeResult reports whether a known record could be fetched end to end.
type ProbeResult struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
}

// Probe fetches the well-known probe record. A healthy service whose probe
// record is missing is reported as unavailable.
func (c *Client) Probe(ctx context.Context) ProbeResult {
	if _, err := c.GetBookByInventory(ctx, c.probeInventory); err != nil {
		return ProbeResult{
			Available: false,
			Message:   "SOAP сервер недоступен",
			Error:     err.Error(),
		}
	}
	return ProbeResult{Available: true, Message: "SOAP сервер доступен"}
}
