package gateway

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
	"github.com/tidwall/gjson"
)

// Kind tags the shape of a decoded return value.
type Kind int

const (
	KindText Kind = iota
	KindJSON
	KindXML
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindXML:
		return "xml"
	default:
		return "text"
	}
}

// Value is the decoded `return` string of an RPC reply. Exactly one of JSON,
// XML or Text is meaningful, selected by Kind. Raw always holds the input.
type Value struct {
	Kind Kind
	Raw  string
	JSON gjson.Result
	XML  *etree.Element
	Text string
}

// childText returns the trimmed text of the first direct child named name,
// or "" when element or the child is missing.
func childText(element *etree.Element, name string) string {
	if element == nil {
		return ""
	}
	child := element.SelectElement(name)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// Decode applies the disambiguation policy to a raw return value:
// a leading `{` or `[` means JSON, otherwise any `<` means an XML fragment,
// otherwise opaque text. A failed JSON or XML parse yields text.
func Decode(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	textValue := Value{Kind: KindText, Raw: raw, Text: trimmed}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if !gjson.Valid(trimmed) {
			return textValue
		}
		return Value{Kind: KindJSON, Raw: raw, JSON: gjson.Parse(trimmed)}
	}

	if strings.Contains(trimmed, "<") {
		tree, err := ParseTree(trimmed)
		if err != nil {
			return textValue
		}
		return Value{Kind: KindXML, Raw: raw, XML: tree}
	}

	return textValue
}

var (
	errNoRootElement        = errors.New("no root element")
	errMultipleRootElements = errors.New("multiple root elements")
	errTextOutsideRoot      = errors.New("text outside root element")
)

// ParseTree parses an XML document or fragment with a single root element.
func ParseTree(input string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(input); err != nil {
		return nil, err
	}
	for _, token := range doc.Child {
		if text, ok := token.(*etree.CharData); ok && strings.TrimSpace(text.Data) != "" {
			return nil, errTextOutsideRoot
		}
	}
	switch roots := doc.ChildElements(); len(roots) {
	case 0:
		return nil, errNoRootElement
	case 1:
		return roots[0], nil
	default:
		return nil, errMultipleRootElements
	}
}
