package resources

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotFound indicates that no catalog entry matches the requested id.
	ErrNotFound = errors.New("resources: resource not found")
	// ErrInvalidResourceID indicates a non-positive resource id.
	ErrInvalidResourceID = errors.New("resources: invalid resource id")

	errMissingPath = errors.New("document path is required")
	noOpLogger     = zap.NewNop()
)

const popularResourceLimit = 5

// StoreError carries a dotted `<operation>.<reason>` code alongside the cause.
type StoreError struct {
	code string
	err  error
}

func (e *StoreError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *StoreError) Unwrap() error {
	return e.err
}

func (e *StoreError) Code() string {
	return e.code
}

const (
	opOpen        = "resources.open"
	opGetAll      = "resources.get_all"
	opGetByID     = "resources.get_by_id"
	opSearch      = "resources.search"
	opLogDownload = "resources.log_download"
	opStats       = "resources.stats"
	opSummary     = "resources.summary"
)

func newStoreError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &StoreError{code: code, err: cause}
}

type StoreConfig struct {
	Path   string
	Clock  func() time.Time
	Logger *zap.Logger
}

// Store owns the flat JSON document holding the digital catalog and the
// download log. Every operation reloads the file; mu serializes the
// load-modify-save cycles so concurrent downloads never lose an increment.
type Store struct {
	file   documentFile
	clock  func() time.Time
	logger *zap.Logger
	mu     sync.Mutex
}

// Open constructs the store and seeds the demo catalog when the document has
// no resources. A missing file is created with the empty shape first.
func Open(ctx context.Context, cfg StoreConfig) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, newStoreError(opOpen, "missing_path", errMissingPath)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	store := &Store{
		file:   documentFile{path: cfg.Path},
		clock:  clock,
		logger: logger,
	}
	if err := store.bootstrap(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(ctx, opOpen, func(doc *document) (bool, error) {
		if len(doc.Resources) > 0 {
			return false, nil
		}
		if err := doc.replaceResources(seedCatalog(s.clock().UTC())); err != nil {
			return false, err
		}
		s.logger.Info("digital catalog seeded",
			zap.String("path", s.file.path),
			zap.Int("resources", len(doc.Resources)))
		return true, nil
	})
}

// GetAll returns every catalog entry in document order.
func (s *Store) GetAll(ctx context.Context) ([]DigitalResource, error) {
	doc, err := s.read(ctx, opGetAll)
	if err != nil {
		return nil, err
	}
	return doc.Resources, nil
}

// GetByID returns the entry with the exact id or an error wrapping ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (DigitalResource, error) {
	doc, err := s.read(ctx, opGetByID)
	if err != nil {
		return DigitalResource{}, err
	}
	index := doc.findResource(id)
	if index < 0 {
		return DigitalResource{}, newStoreError(opGetByID, "not_found", ErrNotFound)
	}
	return doc.Resources[index], nil
}

// Search returns the entries whose title, author or any tag contains query,
// ignoring case. An empty query matches everything.
func (s *Store) Search(ctx context.Context, query string) ([]DigitalResource, error) {
	doc, err := s.read(ctx, opSearch)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return doc.Resources, nil
	}

	needle := strings.ToLower(query)
	matches := make([]DigitalResource, 0, len(doc.Resources))
	for _, resource := range doc.Resources {
		if matchesQuery(resource, needle) {
			matches = append(matches, resource)
		}
	}
	return matches, nil
}

func matchesQuery(resource DigitalResource, needle string) bool {
	if strings.Contains(strings.ToLower(resource.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(resource.Author), needle) {
		return true
	}
	for _, tag := range resource.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// LogDownload appends a download log entry and increments the matching
// resource's downloadCount by one, persisting the whole document.
func (s *Store) LogDownload(ctx context.Context, request DownloadRequest) (DownloadReceipt, error) {
	if request.ResourceID <= 0 {
		return DownloadReceipt{}, newStoreError(opLogDownload, "invalid_resource_id", ErrInvalidResourceID)
	}
	userID := strings.TrimSpace(request.UserID)
	if userID == "" {
		userID = AnonymousUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var receipt DownloadReceipt
	err := s.mutate(ctx, opLogDownload, func(doc *document) (bool, error) {
		now := s.clock().UTC()
		entry := DownloadLogEntry{
			ID:            nextLogID(doc.DownloadLogs, now),
			ResourceID:    request.ResourceID,
			UserID:        userID,
			Timestamp:     now.Format(timestampLayout),
			OriginAddress: request.OriginAddress,
		}
		if err := doc.appendDownload(entry); err != nil {
			return false, err
		}
		receipt.LogID = entry.ID

		if index := doc.findResource(request.ResourceID); index >= 0 {
			updated, err := doc.incrementDownloads(index)
			if err != nil {
				return false, err
			}
			receipt.Resource = &updated
		} else {
			s.logger.Warn("download logged for unknown resource",
				zap.Int64("resource_id", request.ResourceID),
				zap.Int64("log_id", entry.ID))
		}
		return true, nil
	})
	if err != nil {
		return DownloadReceipt{}, err
	}
	return receipt, nil
}

// nextLogID derives the id from the wall clock and moves past the newest
// existing id so two downloads in the same millisecond stay distinct.
func nextLogID(logs []DownloadLogEntry, now time.Time) int64 {
	id := now.UnixMilli()
	for _, entry := range logs {
		if entry.ID >= id {
			id = entry.ID + 1
		}
	}
	return id
}

// Stats aggregates the download log and returns the most downloaded resources.
func (s *Store) Stats(ctx context.Context) (DownloadStats, error) {
	doc, err := s.read(ctx, opStats)
	if err != nil {
		return DownloadStats{}, err
	}

	users := make(map[string]struct{}, len(doc.DownloadLogs))
	for _, entry := range doc.DownloadLogs {
		users[entry.UserID] = struct{}{}
	}

	popular := make([]DigitalResource, len(doc.Resources))
	copy(popular, doc.Resources)
	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].DownloadCount > popular[j].DownloadCount
	})
	if len(popular) > popularResourceLimit {
		popular = popular[:popularResourceLimit]
	}

	return DownloadStats{
		TotalDownloads:   len(doc.DownloadLogs),
		UniqueUsers:      len(users),
		PopularResources: popular,
	}, nil
}

// Summary reports the resource count; an error means the document could not be read.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	doc, err := s.read(ctx, opSummary)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Available: true, ResourceCount: len(doc.Resources)}, nil
}

func (s *Store) read(ctx context.Context, operation string) (document, error) {
	if err := ctx.Err(); err != nil {
		return document{}, newStoreError(operation, "canceled", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.file.load()
	if err != nil {
		s.logError(operation, "load_failed", err)
		recordStoreOperation(operation, outcomeError)
		return document{}, newStoreError(operation, "load_failed", err)
	}
	recordStoreOperation(operation, outcomeOK)
	return doc, nil
}

// mutate runs one load-modify-save cycle. Callers must hold s.mu. The
// document is written only when apply reports a change.
func (s *Store) mutate(ctx context.Context, operation string, apply func(*document) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return newStoreError(operation, "canceled", err)
	}

	doc, err := s.file.load()
	if err != nil {
		s.logError(operation, "load_failed", err)
		recordStoreOperation(operation, outcomeError)
		return newStoreError(operation, "load_failed", err)
	}

	changed, err := apply(&doc)
	if err != nil {
		s.logError(operation, "apply_failed", err)
		recordStoreOperation(operation, outcomeError)
		return newStoreError(operation, "apply_failed", err)
	}
	if changed {
		if err := s.file.save(doc); err != nil {
			s.logError(operation, "save_failed", err)
			recordStoreOperation(operation, outcomeError)
			return newStoreError(operation, "save_failed", err)
		}
	}
	recordStoreOperation(operation, outcomeOK)
	return nil
}

func (s *Store) loggerOrDefault() *zap.Logger {
	if s == nil || s.logger == nil {
		return noOpLogger
	}
	return s.logger
}

func (s *Store) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.String("path", s.file.path),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("resource store error", attrs...)
}
