package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for the response bodies the client depends on. A 2xx
// response that fails its schema is reported as malformed instead of
// being half-decoded.

const dealListSchema = `{
	"type": "object",
	"required": ["deals"],
	"properties": {
		"deals": {"type": "array", "items": {"type": "string"}}
	}
}`

const askResponseSchema = `{
	"type": "object",
	"required": ["deal_id", "query", "answer"],
	"properties": {
		"deal_id":   {"type": "string"},
		"query":     {"type": "string"},
		"answer":    {"type": "string"},
		"citations": {"type": "array", "items": {"type": "string"}}
	}
}`

const chunkResponseSchema = `{
	"type": "object",
	"required": ["documents"],
	"properties": {
		"documents": {"type": "array", "items": {"type": "string"}},
		"metadatas": {"type": "array", "items": {"type": "object"}}
	}
}`

// validateBody checks raw against schemaJSON and returns a descriptive
// error wrapping ErrMalformedResponse on violation.
func validateBody(schemaJSON string, raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if !result.Valid() {
		var errorMsgs []string
		for _, verr := range result.Errors() {
			errorMsgs = append(errorMsgs, verr.String())
		}
		return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(errorMsgs, "; "))
	}

	return nil
}
