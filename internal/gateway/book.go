package gateway

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/tidwall/gjson"
)

// BookStatus is the normalized circulation status of a physical book.
type BookStatus string

const (
	BookStatusAvailable BookStatus = "available"
	BookStatusBorrowed  BookStatus = "borrowed"
	BookStatusUnknown   BookStatus = "unknown"
)

// PhysicalBook mirrors a legacy record; the legacy system owns it.
type PhysicalBook struct {
	InventoryNumber string     `json:"inventory_number"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Status          BookStatus `json:"status"`
	Year            int        `json:"year,omitempty"`
}

// LoanRequest identifies a book and a reader card for registerLoan.
type LoanRequest struct {
	InventoryNumber string
	ReaderCard      string
}

// LoanResult is the structured outcome of registerLoan or returnBook.
type LoanResult struct {
	InventoryNumber string `json:"inventory_number"`
	ReaderCard      string `json:"reader_card,omitempty"`
	Success         bool   `json:"success"`
	Message         string `json:"message"`
}

func normalizeStatus(raw string) BookStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(BookStatusAvailable):
		return BookStatusAvailable
	case string(BookStatusBorrowed):
		return BookStatusBorrowed
	default:
		return BookStatusUnknown
	}
}

// bookFromRPCJSON adapts a database row serialized as JSON by the legacy
// service. Rows use snake_case column names.
func bookFromRPCJSON(row gjson.Result) (PhysicalBook, bool) {
	if !row.IsObject() {
		return PhysicalBook{}, false
	}
	inventory := strings.TrimSpace(row.Get("inventory_number").String())
	if inventory == "" {
		return PhysicalBook{}, false
	}
	return PhysicalBook{
		InventoryNumber: inventory,
		Title:           row.Get("title").String(),
		Author:          row.Get("author").String(),
		Status:          normalizeStatus(row.Get("status").String()),
		Year:            int(row.Get("year").Int()),
	}, true
}

// bookFromRPCXML adapts a `<book>` fragment. The fragment carries the
// inventory number as an `inventoryNumber` attribute or an
// `inventory_number` child element.
func bookFromRPCXML(element *etree.Element) (PhysicalBook, bool) {
	if element == nil || element.Tag != "book" {
		return PhysicalBook{}, false
	}
	inventory := strings.TrimSpace(element.SelectAttrValue("inventoryNumber", ""))
	if inventory == "" {
		inventory = childText(element, "inventory_number")
	}
	if inventory == "" {
		return PhysicalBook{}, false
	}
	year, _ := strconv.Atoi(childText(element, "year"))
	return PhysicalBook{
		InventoryNumber: inventory,
		Title:           childText(element, "title"),
		Author:          childText(element, "author"),
		Status:          normalizeStatus(childText(element, "status")),
		Year:            year,
	}, true
}

func booksFromValue(value Value) []PhysicalBook {
	var books []PhysicalBook
	switch value.Kind {
	case KindJSON:
		if value.JSON.IsArray() {
			value.JSON.ForEach(func(_, row gjson.Result) bool {
				if book, ok := bookFromRPCJSON(row); ok {
					books = append(books, book)
				}
				return true
			})
		} else if book, ok := bookFromRPCJSON(value.JSON); ok {
			books = append(books, book)
		}
	case KindXML:
		if book, ok := bookFromRPCXML(value.XML); ok {
			return []PhysicalBook{book}
		}
		for _, element := range value.XML.SelectElements("book") {
			if book, ok := bookFromRPCXML(element); ok {
				books = append(books, book)
			}
		}
	}
	return books
}

func loanFromValue(value Value, request LoanRequest) (LoanResult, bool) {
	result := LoanResult{InventoryNumber: request.InventoryNumber, ReaderCard: request.ReaderCard}
	switch value.Kind {
	case KindJSON:
		if !value.JSON.IsObject() {
			return LoanResult{}, false
		}
		success := value.JSON.Get("success")
		if !success.Exists() {
			return LoanResult{}, false
		}
		result.Success = success.Bool()
		result.Message = value.JSON.Get("message").String()
		return result, true
	case KindXML:
		if value.XML.SelectElement("success") == nil {
			return LoanResult{}, false
		}
		parsed, err := strconv.ParseBool(childText(value.XML, "success"))
		if err != nil {
			return LoanResult{}, false
		}
		result.Success = parsed
		result.Message = childText(value.XML, "message")
		return result, true
	}
	return LoanResult{}, false
}
