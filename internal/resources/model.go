package resources

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Format enumerates the file formats offered by the digital catalog.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatEPUB Format = "epub"
)

// AnonymousUser is recorded when a download arrives without a user id.
const AnonymousUser = "anonymous"

// timestampLayout matches the ISO strings written by the other tools sharing
// the document.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// DigitalResource is one entry of the digital catalog. CreatedAt is kept as
// written so foreign date formats load unchanged.
type DigitalResource struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Format        Format    `json:"format"`
	FileSizeLabel string    `json:"fileSize"`
	DownloadCount int64     `json:"downloadCount"`
	Tags          []string  `json:"tags"`
	Description   string    `json:"description"`
	FileURL       string    `json:"fileUrl"`
	CreatedAt     string    `json:"createdAt,omitempty"`
}

// DownloadLogEntry is an append-only record of a single download.
// ResourceID is not checked against the catalog.
type DownloadLogEntry struct {
	ID            int64     `json:"id"`
	ResourceID    int64     `json:"resourceId"`
	UserID        string    `json:"userId"`
	Timestamp     string    `json:"timestamp"`
	OriginAddress string    `json:"ip"`
}

const (
	pathResources    = "resources"
	pathDownloadLogs = "downloadLogs"
)

var errDocumentNotObject = errors.New("document root is not an object")

// document is the whole persisted file. raw holds the file content and every
// change is patched into it, so fields not modelled here survive a save.
// Resources and DownloadLogs are the decoded view of raw.
type document struct {
	raw          []byte
	Resources    []DigitalResource
	DownloadLogs []DownloadLogEntry
}

type documentView struct {
	Resources    []DigitalResource  `json:"resources"`
	DownloadLogs []DownloadLogEntry `json:"downloadLogs"`
}

func emptyDocument() document {
	return document{
		raw:          []byte(`{"resources":[],"downloadLogs":[]}`),
		Resources:    []DigitalResource{},
		DownloadLogs: []DownloadLogEntry{},
	}
}

func parseDocument(raw []byte) (document, error) {
	var view documentView
	if err := json.Unmarshal(raw, &view); err != nil {
		return document{}, err
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return document{}, errDocumentNotObject
	}
	doc := document{raw: raw, Resources: view.Resources, DownloadLogs: view.DownloadLogs}
	for _, path := range []string{pathResources, pathDownloadLogs} {
		if gjson.GetBytes(doc.raw, path).IsArray() {
			continue
		}
		patched, err := sjson.SetRawBytes(doc.raw, path, []byte("[]"))
		if err != nil {
			return document{}, fmt.Errorf("initialize %s: %w", path, err)
		}
		doc.raw = patched
	}
	if doc.Resources == nil {
		doc.Resources = []DigitalResource{}
	}
	if doc.DownloadLogs == nil {
		doc.DownloadLogs = []DownloadLogEntry{}
	}
	return doc, nil
}

func (d *document) replaceResources(resources []DigitalResource) error {
	encoded, err := json.Marshal(resources)
	if err != nil {
		return fmt.Errorf("encode resources: %w", err)
	}
	patched, err := sjson.SetRawBytes(d.raw, pathResources, encoded)
	if err != nil {
		return fmt.Errorf("patch resources: %w", err)
	}
	d.raw = patched
	d.Resources = resources
	return nil
}

// incrementDownloads bumps downloadCount of the entry at index and returns
// the updated entry.
func (d *document) incrementDownloads(index int) (DigitalResource, error) {
	count := d.Resources[index].DownloadCount + 1
	path := fmt.Sprintf("%s.%d.downloadCount", pathResources, index)
	patched, err := sjson.SetBytes(d.raw, path, count)
	if err != nil {
		return DigitalResource{}, fmt.Errorf("patch %s: %w", path, err)
	}
	d.raw = patched
	d.Resources[index].DownloadCount = count
	return d.Resources[index], nil
}

func (d *document) appendDownload(entry DownloadLogEntry) error {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode download log entry: %w", err)
	}
	patched, err := sjson.SetRawBytes(d.raw, pathDownloadLogs+".-1", encoded)
	if err != nil {
		return fmt.Errorf("append download log entry: %w", err)
	}
	d.raw = patched
	d.DownloadLogs = append(d.DownloadLogs, entry)
	return nil
}

func (d *document) findResource(id int64) int {
	for index := range d.Resources {
		if d.Resources[index].ID == id {
			return index
		}
	}
	return -1
}

// DownloadRequest describes a download to be logged.
type DownloadRequest struct {
	ResourceID    int64
	UserID        string
	OriginAddress string
}

// DownloadReceipt is returned by LogDownload. Resource is nil when the id
// did not match any catalog entry.
type DownloadReceipt struct {
	LogID    int64
	Resource *DigitalResource
}

// DownloadStats aggregates the download log.
type DownloadStats struct {
	TotalDownloads   int               `json:"totalDownloads"`
	UniqueUsers      int               `json:"uniqueUsers"`
	PopularResources []DigitalResource `json:"popularResources"`
}

// Summary is the store liveness snapshot used by the health aggregator.
type Summary struct {
	Available     bool `json:"available"`
	ResourceCount int  `json:"resourceCount"`
}
