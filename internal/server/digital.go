package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vsevolod6/practika/internal/resources"
)

const downloadFilePathFormat = "/api/digital/download/file/%d"

// resourceIDField accepts a JSON number or a numeric string.
type resourceIDField int64

func (id *resourceIDField) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("resourceId must be an integer: %w", err)
	}
	*id = resourceIDField(value)
	return nil
}

type downloadRequestPayload struct {
	ResourceID resourceIDField `json:"resourceId"`
	UserID     string          `json:"userId"`
}

type downloadResourcePayload struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	Format        resources.Format `json:"format"`
	FileURL       string           `json:"fileUrl"`
	DownloadCount int64            `json:"downloadCount"`
}

type downloadResponsePayload struct {
	Success    bool                     `json:"success"`
	Message    string                   `json:"message"`
	DownloadID int64                    `json:"downloadId"`
	Resource   *downloadResourcePayload `json:"resource"`
}

func (h *httpHandler) handleListResources(c *gin.Context) {
	items, err := h.catalog.GetAll(c.Request.Context())
	if err != nil {
		h.respondStoreError(c, "digital.list", err, messageResourcesFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

func (h *httpHandler) handleSearchResources(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		respondError(c, http.StatusBadRequest, messageQueryRequired)
		return
	}

	items, err := h.catalog.Search(c.Request.Context(), query)
	if err != nil {
		h.respondStoreError(c, "digital.search", err, messageSearchFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"query":   query,
		"data":    items,
	})
}

func (h *httpHandler) handleGetResource(c *gin.Context) {
	resource, ok := h.lookupResource(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    resource,
	})
}

func (h *httpHandler) handleDownload(c *gin.Context) {
	var request downloadRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBindingError(c, err, messageResourceIDRequired)
		return
	}
	if request.ResourceID <= 0 {
		respondError(c, http.StatusBadRequest, messageResourceIDRequired)
		return
	}

	receipt, err := h.catalog.LogDownload(c.Request.Context(), resources.DownloadRequest{
		ResourceID:    int64(request.ResourceID),
		UserID:        request.UserID,
		OriginAddress: c.ClientIP(),
	})
	if err != nil {
		h.respondStoreError(c, "digital.download", err, messageDownloadFailed)
		return
	}

	response := downloadResponsePayload{
		Success:    true,
		Message:    messageDownloadLogged,
		DownloadID: receipt.LogID,
	}
	if receipt.Resource != nil {
		response.Resource = &downloadResourcePayload{
			ID:            receipt.Resource.ID,
			Title:         receipt.Resource.Title,
			Format:        receipt.Resource.Format,
			FileURL:       downloadFileURL(*receipt.Resource),
			DownloadCount: receipt.Resource.DownloadCount,
		}
	}
	c.JSON(http.StatusOK, response)
}

func (h *httpHandler) handleDownloadFile(c *gin.Context) {
	resource, ok := h.lookupResource(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": messageFileStub,
		"note":    messageFileStubNote,
		"resource": gin.H{
			"id":     resource.ID,
			"title":  resource.Title,
			"format": resource.Format,
		},
	})
}

func (h *httpHandler) handleStats(c *gin.Context) {
	stats, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		h.respondStoreError(c, "digital.stats", err, messageStatsFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// lookupResource resolves the :id parameter. A non-numeric id matches no
// resource.
func (h *httpHandler) lookupResource(c *gin.Context) (resources.DigitalResource, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusNotFound, messageResourceNotFound)
		return resources.DigitalResource{}, false
	}

	resource, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondStoreError(c, "digital.get", err, messageResourceFailed)
		return resources.DigitalResource{}, false
	}
	return resource, true
}

func downloadFileURL(resource resources.DigitalResource) string {
	if strings.TrimSpace(resource.FileURL) != "" {
		return resource.FileURL
	}
	return fmt.Sprintf(downloadFilePathFormat, resource.ID)
}
