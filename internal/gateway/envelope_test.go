package gateway

import (
	"errors"
	"strings"
	"testing"
)

const testNamespace = "http://localhost/php-legacy/library.wsdl"

func TestBuildEnvelopeOrdersParameters(t *testing.T) {
	payload, err := buildEnvelope(testNamespace, MethodRegisterLoan, map[string]string{
		paramReaderCard:      "RC-42",
		paramInventoryNumber: "LIB-2024-003",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	envelope := string(payload)

	inventoryIndex := strings.Index(envelope, "<inventory_number>LIB-2024-003</inventory_number>")
	readerIndex := strings.Index(envelope, "<reader_card>RC-42</reader_card>")
	if inventoryIndex < 0 || readerIndex < 0 {
		t.Fatalf("parameters missing from envelope:\n%s", envelope)
	}
	if inventoryIndex > readerIndex {
		t.Fatalf("inventory_number must precede reader_card")
	}
	if !strings.Contains(envelope, `xmlns:ns1="`+testNamespace+`"`) {
		t.Fatalf("namespace binding missing:\n%s", envelope)
	}
	if !strings.Contains(envelope, "<ns1:registerLoan>") || !strings.Contains(envelope, "</ns1:registerLoan>") {
		t.Fatalf("method element missing:\n%s", envelope)
	}
}

func TestBuildEnvelopeEscapesValues(t *testing.T) {
	payload, err := buildEnvelope(testNamespace, MethodSearchBooksByAuthor, map[string]string{
		paramAuthorName: `</author_name><evil>1</evil>&`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	envelope := string(payload)
	if strings.Contains(envelope, "<evil>") {
		t.Fatalf("parameter value was inserted unescaped:\n%s", envelope)
	}
	if !strings.Contains(envelope, "&lt;/author_name&gt;&lt;evil&gt;1&lt;/evil&gt;&amp;") {
		t.Fatalf("expected escaped value:\n%s", envelope)
	}
	if _, err := ParseTree(envelope); err != nil {
		t.Fatalf("envelope must stay well-formed: %v", err)
	}
}

func TestBuildEnvelopeRejectsUnknownMethod(t *testing.T) {
	_, err := buildEnvelope(testNamespace, Method("dropTables"), nil)
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestExtractReturn(t *testing.T) {
	testCases := []struct {
		name      string
		method    Method
		payload   string
		want      string
		wantFault string
		wantErr   error
	}{
		{
			name:    "escaped-json",
			payload: soapResponse(MethodGetBookByInventory, `{&quot;inventory_number&quot;:&quot;LIB-1&quot;}`),
			want:    `{"inventory_number":"LIB-1"}`,
		},
		{
			name:    "escaped-xml",
			payload: soapResponse(MethodGetBookByInventory, `&lt;book&gt;&lt;title&gt;T&lt;/title&gt;&lt;/book&gt;`),
			want:    `<book><title>T</title></book>`,
		},
		{
			name:    "inline-xml",
			payload: soapResponse(MethodGetBookByInventory, `<book><title>T</title></book>`),
			want:    `<book><title>T</title></book>`,
		},
		{
			name:    "inline-xml-with-entity",
			payload: soapResponse(MethodGetBookByInventory, `<book inventoryNumber="LIB-2"><title>A &lt; B</title></book>`),
			want:    `<book inventoryNumber="LIB-2"><title>A &lt; B</title></book>`,
		},
		{
			name:    "text-trimmed",
			method:  MethodRegisterLoan,
			payload: soapResponse(MethodRegisterLoan, "\n  Книга выдана успешно. ID выдачи: 9  \n"),
			want:    "Книга выдана успешно. ID выдачи: 9",
		},
		{
			name:      "soap-fault",
			payload:   `<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"><SOAP-ENV:Body><SOAP-ENV:Fault><faultcode>SOAP-ENV:Server</faultcode><faultstring>Procedure not present</faultstring></SOAP-ENV:Fault></SOAP-ENV:Body></SOAP-ENV:Envelope>`,
			wantFault: "Procedure not present",
		},
		{
			name:    "wrong-response-element",
			payload: soapResponse(MethodReturnBook, "ok"),
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "not-xml",
			payload: "<html><body>Fatal error",
			wantErr: ErrMalformedResponse,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			method := testCase.method
			if method == "" {
				method = MethodGetBookByInventory
			}
			got, fault, err := extractReturn([]byte(testCase.payload), method)
			if testCase.wantErr != nil {
				if !errors.Is(err, testCase.wantErr) {
					t.Fatalf("expected %v, got %v", testCase.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if testCase.wantFault != "" {
				if fault == nil || fault.String != testCase.wantFault {
					t.Fatalf("expected fault %q, got %+v", testCase.wantFault, fault)
				}
				return
			}
			if got != testCase.want {
				t.Fatalf("unexpected return %q, want %q", got, testCase.want)
			}
		})
	}
}

func soapResponse(method Method, returnValue string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/" xmlns:ns1="` + testNamespace + `" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<SOAP-ENV:Body><ns1:` + string(method) + `Response><return xsi:type="xsd:string">` + returnValue + `</return></ns1:` + string(method) + `Response></SOAP-ENV:Body>
</SOAP-ENV:Envelope>`
}
