package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vsevolod6/practika/internal/gateway"
)

type loanRequestPayload struct {
	InventoryNumber string `json:"inventory_number" form:"inventory_number"`
	ReaderCard      string `json:"reader_card" form:"reader_card"`
}

type returnRequestPayload struct {
	InventoryNumber string `json:"inventory_number" form:"inventory_number"`
}

// loanResponsePayload reports a loan or return. Confirmed is false when the
// legacy service answered with free text that cannot be classified.
type loanResponsePayload struct {
	InventoryNumber string `json:"inventory_number"`
	ReaderCard      string `json:"reader_card,omitempty"`
	Message         string `json:"message"`
	Confirmed       bool   `json:"confirmed"`
}

func (h *httpHandler) handleGetBook(c *gin.Context) {
	inventoryNumber := strings.TrimSpace(c.Param("inventoryNumber"))
	if inventoryNumber == "" {
		respondError(c, http.StatusBadRequest, messageInventoryRequired)
		return
	}

	book, err := h.gateway.GetBookByInventory(c.Request.Context(), inventoryNumber)
	if err != nil {
		h.respondGatewayError(c, "physical.get_book", err, messageBookNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": messageBookFound,
		"data":    book,
	})
}

func (h *httpHandler) handleSearchBooks(c *gin.Context) {
	author := strings.TrimSpace(c.Query("author"))
	if author == "" {
		respondError(c, http.StatusBadRequest, messageAuthorRequired)
		return
	}

	books, err := h.gateway.SearchBooksByAuthor(c.Request.Context(), author)
	if err != nil {
		h.respondGatewayError(c, "physical.search_books", err, messageBooksNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(books),
		"data":    books,
	})
}

func (h *httpHandler) handleRegisterLoan(c *gin.Context) {
	var request loanRequestPayload
	if err := c.ShouldBind(&request); err != nil {
		respondBindingError(c, err, messageLoanFieldsRequired)
		return
	}
	request.InventoryNumber = strings.TrimSpace(request.InventoryNumber)
	request.ReaderCard = strings.TrimSpace(request.ReaderCard)
	if request.InventoryNumber == "" || request.ReaderCard == "" {
		respondError(c, http.StatusBadRequest, messageLoanFieldsRequired)
		return
	}

	result, err := h.gateway.RegisterLoan(c.Request.Context(), gateway.LoanRequest{
		InventoryNumber: request.InventoryNumber,
		ReaderCard:      request.ReaderCard,
	})
	h.respondLoanOutcome(c, "physical.register_loan", loanResponsePayload{
		InventoryNumber: request.InventoryNumber,
		ReaderCard:      request.ReaderCard,
	}, result, err, messageLoanIssued, messageLoanFailed)
}

func (h *httpHandler) handleReturnBook(c *gin.Context) {
	var request returnRequestPayload
	if err := c.ShouldBind(&request); err != nil {
		respondBindingError(c, err, messageInventoryRequired)
		return
	}
	request.InventoryNumber = strings.TrimSpace(request.InventoryNumber)
	if request.InventoryNumber == "" {
		respondError(c, http.StatusBadRequest, messageInventoryRequired)
		return
	}

	result, err := h.gateway.ReturnBook(c.Request.Context(), request.InventoryNumber)
	h.respondLoanOutcome(c, "physical.return_book", loanResponsePayload{
		InventoryNumber: request.InventoryNumber,
	}, result, err, messageBookReturned, messageReturnFailed)
}

// respondLoanOutcome shapes the reply of a mutating call. Free text from the
// legacy service is passed through verbatim with confirmed=false.
func (h *httpHandler) respondLoanOutcome(c *gin.Context, operation string, payload loanResponsePayload, result gateway.LoanResult, err error, successMessage, failureMessage string) {
	var business *gateway.BusinessError
	switch {
	case errors.As(err, &business):
		payload.Message = business.Text
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": business.Text,
			"data":    payload,
		})
	case err != nil:
		h.respondGatewayError(c, operation, err, messageBookNotFound)
	case !result.Success:
		respondErrorWithDetails(c, http.StatusBadRequest, failureMessage, result.Message)
	default:
		payload.Message = result.Message
		if payload.Message == "" {
			payload.Message = successMessage
		}
		payload.Confirmed = true
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": successMessage,
			"data":    payload,
		})
	}
}
