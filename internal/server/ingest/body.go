package ingest

import (
	"bytes"
	"encoding/json"

	"github.com/jaineet17/AWS-File-Processing-System/internal/common"
)

// Input is the normalized ingestion request.
type Input struct {
	Text        string `json:"inputText"`
	FileContent string `json:"fileContent"`
}

// Body is the request payload as delivered by the transport: either still
// JSON-encoded text or an already decoded object. Parse normalizes both.
type Body interface {
	Parse() (Input, error)
	isBody()
}

// RawBody is a request whose JSON has not been decoded yet.
type RawBody string

// StructuredBody is a request the transport has already decoded.
type StructuredBody Input

func (RawBody) isBody()        {}
func (StructuredBody) isBody() {}

// Parse decodes the JSON object. Anything that is not an object with string
// fields is an invalid body.
func (b RawBody) Parse() (Input, error) {
	in, ok := decodeInput([]byte(b))
	if !ok {
		return Input{}, common.NewValidationError(common.InvalidBodyFormat)
	}
	return in, nil
}

// decodeInput reads the exact keys inputText and fileContent from a JSON
// object; other spellings are ignored. A missing or null key decodes as
// empty, any other non-string value fails.
func decodeInput(data []byte) (Input, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Input{}, false
	}

	var in Input
	for key, dst := range map[string]*string{"inputText": &in.Text, "fileContent": &in.FileContent} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return Input{}, false
		}
		if v != nil {
			*dst = *v
		}
	}
	return in, true
}

func (b StructuredBody) Parse() (Input, error) {
	return Input(b), nil
}

// DecodeBody classifies an HTTP payload. A JSON string literal carries an
// encoded object and becomes RawBody of its contents; a JSON object is
// decoded directly. Everything else is kept raw and fails in Parse.
func DecodeBody(payload []byte) Body {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return RawBody("")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return RawBody(s)
		}
	case '{':
		if in, ok := decodeInput(trimmed); ok {
			return StructuredBody(in)
		}
	}
	return RawBody(trimmed)
}
