package host

import (
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/spanlab/spanedit/internal/engine/span"
)

// Document is the host-supplied input: the source text and the initial
// candidate spans.
type Document struct {
	Text  string
	Spans []span.Span
}

// ParseError describes a malformed document.
type ParseError struct {
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("document: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("document: %s", e.Message)
}

// ParseDocument decodes a JSON document of the form
//
//	{"text": "...", "spans": [{"start": 0, "end": 3, "label": "PERSON"}]}
//
// The text field is required; spans are optional. Span validity is not
// checked here — the store filters invalid seeds itself.
func ParseDocument(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)

	textField := root.Get("text")
	if !textField.Exists() {
		return nil, &ParseError{Field: "text", Message: "missing"}
	}
	if textField.Type != gjson.String {
		return nil, &ParseError{Field: "text", Message: "must be a string"}
	}

	doc := &Document{Text: textField.String()}

	spansField := root.Get("spans")
	if spansField.Exists() && !spansField.IsArray() {
		return nil, &ParseError{Field: "spans", Message: "must be an array"}
	}
	spansField.ForEach(func(_, v gjson.Result) bool {
		doc.Spans = append(doc.Spans, span.Span{
			Start: int(v.Get("start").Int()),
			End:   int(v.Get("end").Int()),
			Label: v.Get("label").String(),
		})
		return true
	})
	return doc, nil
}

// ReadDocument reads and decodes a JSON document from r.
func ReadDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return ParseDocument(data)
}
