package gateway

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Method names one of the remote operations exposed by the legacy service.
type Method string

const (
	MethodGetBookByInventory  Method = "getBookByInventory"
	MethodSearchBooksByAuthor Method = "searchBooksByAuthor"
	MethodRegisterLoan        Method = "registerLoan"
	MethodReturnBook          Method = "returnBook"
)

const (
	paramInventoryNumber = "inventory_number"
	paramAuthorName      = "author_name"
	paramReaderCard      = "reader_card"

	soapEnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
)

// methodParams fixes the parameter order inside each body element.
var methodParams = map[Method][]string{
	MethodGetBookByInventory:  {paramInventoryNumber},
	MethodSearchBooksByAuthor: {paramAuthorName},
	MethodRegisterLoan:        {paramInventoryNumber, paramReaderCard},
	MethodReturnBook:          {paramInventoryNumber},
}

func (m Method) responseElement() string {
	return string(m) + "Response"
}

// buildEnvelope renders the SOAP request for method. Parameter values are
// XML-escaped; names absent from params are sent as empty elements.
func buildEnvelope(namespace string, method Method, params map[string]string) ([]byte, error) {
	names, ok := methodParams[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	body.WriteString(`<SOAP-ENV:Envelope xmlns:SOAP-ENV="` + soapEnvelopeNamespace + `" xmlns:ns1="`)
	if err := xml.EscapeText(&body, []byte(namespace)); err != nil {
		return nil, err
	}
	body.WriteString("\">\n  <SOAP-ENV:Body>\n")
	body.WriteString("    <ns1:" + string(method) + ">\n")
	for _, name := range names {
		body.WriteString("      <" + name + ">")
		if err := xml.EscapeText(&body, []byte(params[name])); err != nil {
			return nil, err
		}
		body.WriteString("</" + name + ">\n")
	}
	body.WriteString("    </ns1:" + string(method) + ">\n")
	body.WriteString("  </SOAP-ENV:Body>\n</SOAP-ENV:Envelope>")
	return body.Bytes(), nil
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// returnElement captures the `return` payload either as escaped text or as
// inline child elements.
type returnElement struct {
	Text     string       `xml:",chardata"`
	Inner    string       `xml:",innerxml"`
	Children []anyElement `xml:",any"`
}

type anyElement struct {
	XMLName xml.Name
}

// extractReturn walks the response envelope and returns the text of the
// `return` element inside the method's response element. A SOAP fault is
// reported through the returned fault.
func extractReturn(payload []byte, method Method) (string, *soapFault, error) {
	decoder := xml.NewDecoder(bytes.NewReader(payload))
	inResponse := false
	sawEnvelope := false

	for {
		token, err := decoder.Token()
		if err != nil {
			if sawEnvelope && inResponse {
				return "", nil, fmt.Errorf("%w: %s has no return element", ErrMalformedResponse, method.responseElement())
			}
			if sawEnvelope {
				return "", nil, fmt.Errorf("%w: %s element missing", ErrMalformedResponse, method.responseElement())
			}
			return "", nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case start.Name.Local == "Envelope":
			sawEnvelope = true
		case start.Name.Local == "Fault":
			var fault soapFault
			if err := decoder.DecodeElement(&fault, &start); err != nil {
				return "", nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			return "", &fault, nil
		case start.Name.Local == method.responseElement():
			inResponse = true
		case inResponse && start.Name.Local == "return":
			var element returnElement
			if err := decoder.DecodeElement(&element, &start); err != nil {
				return "", nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			if len(element.Children) > 0 {
				return strings.TrimSpace(element.Inner), nil, nil
			}
			return strings.TrimSpace(element.Text), nil, nil
		}
	}
}
