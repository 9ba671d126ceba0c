package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/matchup/internal/ir"
)

const schemaID = "https://github.com/roach88/matchup/schemas/record-v1.json"

// JSONSchema produces the JSON Schema document for ir.Record.
func JSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&ir.Record{})
	s.ID = schemaID
	s.Title = "matchup record v1"
	s.Description = "Participants and ordered observation history of one tracked group"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// ValidationError is a single schema violation with its location.
type ValidationError struct {
	// Path is a JSON pointer into the document, e.g. "/history/0/kind".
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks a JSON document against the record schema.
// Returns nil when the document is valid.
func Validate(data []byte) []*ValidationError {
	sch, err := compileSchema()
	if err != nil {
		return []*ValidationError{{Message: err.Error()}}
	}

	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []*ValidationError{{Message: fmt.Sprintf("parse document: %v", err)}}
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return []*ValidationError{{Message: err.Error()}}
	}

	printer := message.NewPrinter(language.English)
	var errs []*ValidationError
	for _, cause := range flattenValidationErrors(ve) {
		path := ""
		if len(cause.InstanceLocation) > 0 {
			path = "/" + strings.Join(cause.InstanceLocation, "/")
		}
		errs = append(errs, &ValidationError{
			Path:    path,
			Message: cause.ErrorKind.LocalizedString(printer),
		})
	}
	return errs
}

func compileSchema() (*sjsonschema.Schema, error) {
	schemaJSON, err := JSONSchema()
	if err != nil {
		return nil, err
	}
	schemaDoc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(schemaID, schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(schemaID)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return sch, nil
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}
