package reports

import (
	"strconv"
	"strings"
)

// ReportType selects one of the legacy report documents.
type ReportType string

const (
	// ReportTypeOverdue lists open loans past their due date.
	ReportTypeOverdue ReportType = "overdue"
	// ReportTypePopular ranks books by loan count.
	ReportTypePopular ReportType = "popular"
	// ReportTypeStatus groups books by circulation status.
	ReportTypeStatus ReportType = "status"
)

const criticalOverdueDays = 30

// ParseType maps raw input to a ReportType. Unknown values select overdue.
func ParseType(raw string) ReportType {
	switch ReportType(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportTypePopular:
		return ReportTypePopular
	case ReportTypeStatus:
		return ReportTypeStatus
	default:
		return ReportTypeOverdue
	}
}

func (t ReportType) String() string {
	return string(t)
}

// Report is the normalized form of a legacy report document. Only the
// section matching Type is set.
type Report struct {
	Type          ReportType      `json:"type"`
	GeneratedAt   string          `json:"generated_at"`
	ReportType    string          `json:"report_type"`
	OverdueBooks  *OverdueSection `json:"overdue_books,omitzero"`
	PopularBooks  []PopularBook   `json:"popular_books,omitzero"`
	BooksByStatus []StatusGroup   `json:"books_by_status,omitzero"`
}

type OverdueSection struct {
	Count int           `json:"count"`
	Books []OverdueBook `json:"books"`
}

type OverdueBook struct {
	InventoryNumber string `json:"inventory_number"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ReaderCard      string `json:"reader_card"`
	DateTaken       string `json:"date_taken"`
	DaysOverdue     int    `json:"days_overdue"`
	IsCritical      bool   `json:"is_critical"`
}

type PopularBook struct {
	Rank            int    `json:"rank"`
	InventoryNumber string `json:"inventory_number"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	LoanCount       int    `json:"loan_count"`
}

// StatusGroup counts books in one status. Percentage is always 0; consumers
// compute it from the counts.
type StatusGroup struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type libraryReportXML struct {
	GeneratedAt   string            `xml:"generated_at"`
	ReportType    string            `xml:"report_type"`
	OverdueBooks  *overdueXML       `xml:"overdue_books"`
	PopularBooks  *popularXML       `xml:"popular_books"`
	BooksByStatus *booksByStatusXML `xml:"books_by_status"`
}

type overdueXML struct {
	Count string           `xml:"count"`
	Books []overdueBookXML `xml:"book"`
}

type overdueBookXML struct {
	InventoryNumber string `xml:"inventory_number"`
	Title           string `xml:"title"`
	Author          string `xml:"author"`
	ReaderCard      string `xml:"reader_card"`
	DateTaken       string `xml:"date_taken"`
	DaysOverdue     string `xml:"days_overdue"`
}

type popularXML struct {
	Books []popularBookXML `xml:"book"`
}

type popularBookXML struct {
	InventoryNumber string `xml:"inventory_number"`
	Title           string `xml:"title"`
	Author          string `xml:"author"`
	LoanCount       string `xml:"loan_count"`
}

type booksByStatusXML struct {
	Statuses []statusXML `xml:"status"`
}

type statusXML struct {
	Name  string `xml:"name"`
	Count string `xml:"count"`
}

// normalize maps the parsed document into the section for reportType. A
// missing section yields an empty one.
func normalize(reportType ReportType, doc libraryReportXML) Report {
	report := Report{
		Type:        reportType,
		GeneratedAt: strings.TrimSpace(doc.GeneratedAt),
		ReportType:  strings.TrimSpace(doc.ReportType),
	}

	switch reportType {
	case ReportTypePopular:
		report.PopularBooks = normalizePopular(doc.PopularBooks)
	case ReportTypeStatus:
		report.BooksByStatus = normalizeStatus(doc.BooksByStatus)
	default:
		report.OverdueBooks = normalizeOverdue(doc.OverdueBooks)
	}
	return report
}

func normalizeOverdue(section *overdueXML) *OverdueSection {
	normalized := &OverdueSection{Books: []OverdueBook{}}
	if section == nil {
		return normalized
	}

	for _, book := range section.Books {
		days := parseCount(book.DaysOverdue)
		normalized.Books = append(normalized.Books, OverdueBook{
			InventoryNumber: strings.TrimSpace(book.InventoryNumber),
			Title:           strings.TrimSpace(book.Title),
			Author:          strings.TrimSpace(book.Author),
			ReaderCard:      strings.TrimSpace(book.ReaderCard),
			DateTaken:       strings.TrimSpace(book.DateTaken),
			DaysOverdue:     days,
			IsCritical:      days > criticalOverdueDays,
		})
	}

	normalized.Count = parseCount(section.Count)
	if normalized.Count == 0 {
		normalized.Count = len(normalized.Books)
	}
	return normalized
}

// normalizePopular keeps the upstream order as the rank.
func normalizePopular(section *popularXML) []PopularBook {
	books := []PopularBook{}
	if section == nil {
		return books
	}
	for index, book := range section.Books {
		books = append(books, PopularBook{
			Rank:            index + 1,
			InventoryNumber: strings.TrimSpace(book.InventoryNumber),
			Title:           strings.TrimSpace(book.Title),
			Author:          strings.TrimSpace(book.Author),
			LoanCount:       parseCount(book.LoanCount),
		})
	}
	return books
}

func normalizeStatus(section *booksByStatusXML) []StatusGroup {
	groups := []StatusGroup{}
	if section == nil {
		return groups
	}
	for _, status := range section.Statuses {
		groups = append(groups, StatusGroup{
			Name:  strings.TrimSpace(status.Name),
			Count: parseCount(status.Count),
		})
	}
	return groups
}

// parseCount reads a decimal integer; anything else is 0.
func parseCount(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}
