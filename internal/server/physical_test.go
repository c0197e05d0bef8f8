package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/vsevolod6/practika/internal/gateway"
)

func TestGetBookFound(t *testing.T) {
	fake := unusedGateway(t)
	fake.getBook = func(_ context.Context, inventoryNumber string) (gateway.PhysicalBook, error) {
		return gateway.PhysicalBook{
			InventoryNumber: inventoryNumber,
			Title:           "Мастер и Маргарита",
			Author:          "Михаил Булгаков",
			Status:          gateway.BookStatusAvailable,
			Year:            1967,
		}, nil
	}
	handler := newTestHandler(t, Dependencies{Gateway: fake})

	recorder := performRequest(handler, http.MethodGet, "/api/physical/books/LIB-2024-001", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	payload := decodeBody(t, recorder)
	data, ok := payload["data"].(map[string]any)
	if !ok || data["inventory_number"] != "LIB-2024-001" || data["status"] != "available" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["success"] != true || payload["message"] != messageBookFound {
		t.Fatalf("unexpected envelope %v", payload)
	}
}

func TestGetBookUnknownInventory(t *testing.T) {
	fake := unusedGateway(t)
	fake.getBook = func(_ context.Context, inventoryNumber string) (gateway.PhysicalBook, error) {
		return gateway.PhysicalBook{}, &gateway.NotFoundError{Key: inventoryNumber, Detail: "Книга не найдена: LIB-UNKNOWN"}
	}
	handler := newTestHandler(t, Dependencies{Gateway: fake})

	recorder := performRequest(handler, http.MethodGet, "/api/physical/books/LIB-UNKNOWN", "")
	payload := assertFailure(t, recorder, http.StatusNotFound, "Книга не найдена")
	if payload["details"] != "Книга не найдена: LIB-UNKNOWN" {
		t.Fatalf("expected upstream detail, got %v", payload["details"])
	}
}

func TestGetBookUpstreamFailures(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{name: "unreachable", err: fmt.Errorf("%w: getBookByInventory: connection refused", gateway.ErrUnreachable)},
		{name: "remote-fault", err: &gateway.RemoteFaultError{Status: http.StatusInternalServerError, Body: "boom"}},
		{name: "malformed", err: fmt.Errorf("%w: no envelope", gateway.ErrMalformedResponse)},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fake := unusedGateway(t)
			fake.getBook = func(context.Context, string) (gateway.PhysicalBook, error) {
				return gateway.PhysicalBook{}, testCase.err
			}
			handler := newTestHandler(t, Dependencies{Gateway: fake})

			recorder := performRequest(handler, http.MethodGet, "/api/physical/books/LIB-1", "")
			payload := assertFailure(t, recorder, http.StatusInternalServerError, messageUpstreamFailure)
			if payload["details"] != testCase.err.Error() {
				t.Fatalf("expected upstream message in details, got %v", payload["details"])
			}
		})
	}
}

func TestGetBookUnexpectedErrorIsGeneric(t *testing.T) {
	fake := unusedGateway(t)
	fake.getBook = func(context.Context, string) (gateway.PhysicalBook, error) {
		return gateway.PhysicalBook{}, fmt.Errorf("nil map write in adapter")
	}
	handler := newTestHandler(t, Dependencies{Gateway: fake})

	recorder := performRequest(handler, http.MethodGet, "/api/physical/books/LIB-1", "")
	payload := assertFailure(t, recorder, http.StatusInternalServerError, messageInternalError)
	if _, leaked := payload["details"]; leaked {
		t.Fatalf("unexpected errors must not leak details: %v", payload)
	}
}

func TestSearchBooks(t *testing.T) {
	testCases := []struct {
		name        string
		target      string
		result      []gateway.PhysicalBook
		err         error
		wantStatus  int
		wantError   string
		wantDetails string
		wantCount   float64
	}{
		{
			name:       "missing-author",
			target:     "/api/physical/books",
			wantStatus: http.StatusBadRequest,
			wantError:  messageAuthorRequired,
		},
		{
			name:       "found",
			target:     "/api/physical/books?author=Булгаков",
			result:     []gateway.PhysicalBook{{InventoryNumber: "LIB-1"}, {InventoryNumber: "LIB-2"}},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:       "none",
			target:     "/api/physical/books?author=Nobody",
			err:        &gateway.NotFoundError{Key: "Nobody"},
			wantStatus: http.StatusNotFound,
			wantError:  messageBooksNotFound,
		},
		{
			name:        "business-text",
			target:      "/api/physical/books?author=Nobody",
			err:         &gateway.BusinessError{Method: gateway.MethodSearchBooksByAuthor, Text: "Ошибка: database is locked"},
			wantStatus:  http.StatusNotFound,
			wantError:   messageBooksNotFound,
			wantDetails: "Ошибка: database is locked",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fake := unusedGateway(t)
			if testCase.wantStatus != http.StatusBadRequest {
				fake.search = func(_ context.Context, author string) ([]gateway.PhysicalBook, error) {
					return testCase.result, testCase.err
				}
			}
			handler := newTestHandler(t, Dependencies{Gateway: fake})

			recorder := performRequest(handler, http.MethodGet, testCase.target, "")
			if testCase.wantError != "" {
				payload := assertFailure(t, recorder, testCase.wantStatus, testCase.wantError)
				if testCase.wantDetails != "" && payload["details"] != testCase.wantDetails {
					t.Fatalf("expected details %q, got %v", testCase.wantDetails, payload["details"])
				}
				return
			}
			if recorder.Code != testCase.wantStatus {
				t.Fatalf("expected %d, got %d", testCase.wantStatus, recorder.Code)
			}
			payload := decodeBody(t, recorder)
			if payload["count"] != testCase.wantCount {
				t.Fatalf("expected count %v, got %v", testCase.wantCount, payload["count"])
			}
		})
	}
}

func TestRegisterLoanValidation(t *testing.T) {
	testCases := map[string]string{
		"empty-body":       "",
		"missing-card":     `{"inventory_number":"LIB-1"}`,
		"missing-book":     `{"reader_card":"RC-1"}`,
		"blank-fields":     `{"inventory_number":" ","reader_card":" "}`,
		"malformed-json":   `{"inventory_number":`,
		"wrong-field-type": `{"inventory_number":12,"reader_card":"RC-1"}`,
	}
	for name, body := range testCases {
		t.Run(name, func(t *testing.T) {
			fake := unusedGateway(t)
			handler := newTestHandler(t, Dependencies{Gateway: fake})

			recorder := performRequest(handler, http.MethodPost, "/api/physical/loan", body)
			assertFailure(t, recorder, http.StatusBadRequest, messageLoanFieldsRequired)
			if fake.calls != 0 {
				t.Fatalf("validation failures must not reach the gateway")
			}
		})
	}
}

func TestRegisterLoanOutcomes(t *testing.T) {
	t.Run("opaque-text", func(t *testing.T) {
		fake := unusedGateway(t)
		fake.loan = func(context.Context, gateway.LoanRequest) (gateway.LoanResult, error) {
			return gateway.LoanResult{}, &gateway.BusinessError{Method: gateway.MethodRegisterLoan, Text: "Книга выдана успешно. ID выдачи: 12"}
		}
		handler := newTestHandler(t, Dependencies{Gateway: fake})

		recorder := performRequest(handler, http.MethodPost, "/api/physical/loan", `{"inventory_number":"LIB-3","reader_card":"RC-1"}`)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		payload := decodeBody(t, recorder)
		data := payload["data"].(map[string]any)
		if payload["message"] != "Книга выдана успешно. ID выдачи: 12" || data["confirmed"] != false {
			t.Fatalf("free text must be passed through unconfirmed, got %v", payload)
		}
		if data["reader_card"] != "RC-1" || data["inventory_number"] != "LIB-3" {
			t.Fatalf("unexpected data %v", data)
		}
	})

	t.Run("structured-success", func(t *testing.T) {
		fake := unusedGateway(t)
		fake.loan = func(_ context.Context, request gateway.LoanRequest) (gateway.LoanResult, error) {
			return gateway.LoanResult{InventoryNumber: request.InventoryNumber, ReaderCard: request.ReaderCard, Success: true, Message: "loan 12"}, nil
		}
		handler := newTestHandler(t, Dependencies{Gateway: fake})

		recorder := performRequest(handler, http.MethodPost, "/api/physical/loan", `{"inventory_number":"LIB-3","reader_card":"RC-1"}`)
		payload := decodeBody(t, recorder)
		data := payload["data"].(map[string]any)
		if recorder.Code != http.StatusOK || payload["message"] != messageLoanIssued || data["confirmed"] != true || data["message"] != "loan 12" {
			t.Fatalf("unexpected response %d %v", recorder.Code, payload)
		}
	})

	t.Run("structured-refusal", func(t *testing.T) {
		fake := unusedGateway(t)
		fake.loan = func(context.Context, gateway.LoanRequest) (gateway.LoanResult, error) {
			return gateway.LoanResult{Success: false, Message: "Книга уже выдана"}, nil
		}
		handler := newTestHandler(t, Dependencies{Gateway: fake})

		recorder := performRequest(handler, http.MethodPost, "/api/physical/loan", `{"inventory_number":"LIB-3","reader_card":"RC-1"}`)
		payload := assertFailure(t, recorder, http.StatusBadRequest, messageLoanFailed)
		if payload["details"] != "Книга уже выдана" {
			t.Fatalf("unexpected details %v", payload["details"])
		}
	})

	t.Run("timeout", func(t *testing.T) {
		fake := unusedGateway(t)
		fake.loan = func(context.Context, gateway.LoanRequest) (gateway.LoanResult, error) {
			return gateway.LoanResult{}, fmt.Errorf("%w: registerLoan: context deadline exceeded", gateway.ErrUnreachable)
		}
		handler := newTestHandler(t, Dependencies{Gateway: fake})

		recorder := performRequest(handler, http.MethodPost, "/api/physical/loan", `{"inventory_number":"LIB-3","reader_card":"RC-1"}`)
		assertFailure(t, recorder, http.StatusInternalServerError, messageUpstreamFailure)
		if fake.calls != 1 {
			t.Fatalf("mutating calls must not be retried, got %d calls", fake.calls)
		}
	})
}

func TestReturnBook(t *testing.T) {
	fake := unusedGateway(t)
	fake.returnBook = func(_ context.Context, inventoryNumber string) (gateway.LoanResult, error) {
		return gateway.LoanResult{InventoryNumber: inventoryNumber, Success: true}, nil
	}
	handler := newTestHandler(t, Dependencies{Gateway: fake})

	recorder := performRequest(handler, http.MethodPost, "/api/physical/return", `{"inventory_number":"LIB-3"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	payload := decodeBody(t, recorder)
	data := payload["data"].(map[string]any)
	if payload["message"] != messageBookReturned || data["message"] != messageBookReturned || data["confirmed"] != true {
		t.Fatalf("unexpected payload %v", payload)
	}

	recorder = performRequest(handler, http.MethodPost, "/api/physical/return", `{}`)
	assertFailure(t, recorder, http.StatusBadRequest, messageInventoryRequired)
}
