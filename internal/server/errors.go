package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vsevolod6/practika/internal/gateway"
	"github.com/vsevolod6/practika/internal/reports"
	"github.com/vsevolod6/practika/internal/resources"
	"go.uber.org/zap"
)

const (
	messageInternalError      = "Внутренняя ошибка сервера"
	messageUpstreamFailure    = "Ошибка обращения к SOAP серверу"
	messageEndpointNotFound   = "Эндпоинт не найден"
	messageBookFound          = "Книга найдена"
	messageBookNotFound       = "Книга не найдена"
	messageBooksNotFound      = "Книги не найдены"
	messageInventoryRequired  = "Требуется инвентарный номер"
	messageAuthorRequired     = "Требуется параметр author"
	messageLoanFieldsRequired = "Требуются параметры: inventory_number и reader_card"
	messageLoanIssued         = "Книга успешно выдана"
	messageLoanFailed         = "Не удалось выдать книгу"
	messageBookReturned       = "Книга успешно возвращена"
	messageReturnFailed       = "Не удалось вернуть книгу"
	messageResourceNotFound   = "Ресурс не найден"
	messageQueryRequired      = "Требуется параметр q"
	messageResourceIDRequired = "Требуется resourceId"
	messageDownloadLogged     = "Скачивание залогировано"
	messageResourcesFailed    = "Ошибка получения ресурсов"
	messageResourceFailed     = "Ошибка получения ресурса"
	messageSearchFailed       = "Ошибка поиска ресурсов"
	messageDownloadFailed     = "Ошибка логирования скачивания"
	messageStatsFailed        = "Ошибка получения статистики"
	messageReportReady        = "Отчет получен"
	messageReportFailed       = "Ошибка получения отчета"
	messageFileStub           = "Это заглушка для скачивания файла"
	messageFileStubNote       = "В реальном приложении здесь бы отдавался файл"
	messageBodyTooLarge       = "Слишком большое тело запроса"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondBindingError answers a failed bind with 413 when the body hit the
// size limit and with the validation message otherwise.
func respondBindingError(c *gin.Context, err error, validationMessage string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, http.StatusRequestEntityTooLarge, messageBodyTooLarge)
		return
	}
	respondError(c, http.StatusBadRequest, validationMessage)
}

func respondErrorWithDetails(c *gin.Context, status int, message, details string) {
	body := gin.H{"success": false, "error": message}
	if details != "" {
		body["details"] = details
	}
	c.JSON(status, body)
}

// respondGatewayError maps a gateway failure. notFoundMessage is used for
// lookup misses; business text is passed through as details.
func (h *httpHandler) respondGatewayError(c *gin.Context, operation string, err error, notFoundMessage string) {
	var (
		notFound *gateway.NotFoundError
		business *gateway.BusinessError
		fault    *gateway.RemoteFaultError
	)
	switch {
	case errors.As(err, &notFound):
		respondErrorWithDetails(c, http.StatusNotFound, notFoundMessage, notFound.Detail)
	case errors.Is(err, gateway.ErrNotFound):
		respondError(c, http.StatusNotFound, notFoundMessage)
	case errors.As(err, &business):
		respondErrorWithDetails(c, http.StatusNotFound, notFoundMessage, business.Text)
	case errors.Is(err, gateway.ErrUnreachable),
		errors.Is(err, gateway.ErrMalformedResponse),
		errors.As(err, &fault):
		h.logger.Error("legacy rpc call failed", zap.String("operation", operation), zap.Error(err))
		respondErrorWithDetails(c, http.StatusInternalServerError, messageUpstreamFailure, err.Error())
	default:
		h.respondInternal(c, operation, err)
	}
}

// respondStoreError maps a resource store failure; failureMessage names the
// operation for the client.
func (h *httpHandler) respondStoreError(c *gin.Context, operation string, err error, failureMessage string) {
	var storeErr *resources.StoreError
	switch {
	case errors.Is(err, resources.ErrNotFound):
		respondError(c, http.StatusNotFound, messageResourceNotFound)
	case errors.Is(err, resources.ErrInvalidResourceID):
		respondError(c, http.StatusBadRequest, messageResourceIDRequired)
	case errors.As(err, &storeErr):
		h.logger.Error("resource store failed",
			zap.String("operation", operation),
			zap.String("code", storeErr.Code()),
			zap.Error(err))
		respondErrorWithDetails(c, http.StatusInternalServerError, failureMessage, storeErr.Code())
	default:
		h.respondInternal(c, operation, err)
	}
}

func (h *httpHandler) respondReportError(c *gin.Context, err error) {
	var reportErr *reports.ReportError
	if errors.As(err, &reportErr) {
		h.logger.Error("report fetch failed",
			zap.String("type", reportErr.Type.String()),
			zap.Int("status", reportErr.Status),
			zap.Error(err))
		respondErrorWithDetails(c, http.StatusInternalServerError, messageReportFailed, err.Error())
		return
	}
	h.respondInternal(c, "reports.fetch", err)
}

func (h *httpHandler) respondInternal(c *gin.Context, operation string, err error) {
	h.logger.Error("request failed", zap.String("operation", operation), zap.Error(err))
	respondError(c, http.StatusInternalServerError, messageInternalError)
}
