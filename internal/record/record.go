package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/matchup/internal/ir"
)

// Format is a record file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported record extension %q (want .json, .yaml, .yml or .cue)", filepath.Ext(path))
	}
}

// InvalidError reports a record file that failed schema validation.
type InvalidError struct {
	Source string
	Errors []*ValidationError
}

func (e *InvalidError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("invalid record %s: %s", e.Source, strings.Join(msgs, "; "))
}

// ReadFile reads, validates and decodes a record file.
func ReadFile(path string) (ir.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return ir.Record{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ir.Record{}, fmt.Errorf("read record: %w", err)
	}
	return Decode(data, format, path)
}

// Decode validates and decodes record data in the given format. source
// names the data in error messages and CUE positions.
func Decode(data []byte, format Format, source string) (ir.Record, error) {
	doc, err := toJSON(data, format, source)
	if err != nil {
		return ir.Record{}, err
	}

	if errs := Validate(doc); len(errs) > 0 {
		return ir.Record{}, &InvalidError{Source: source, Errors: errs}
	}

	var rec ir.Record
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return ir.Record{}, fmt.Errorf("decode record %s: %w", source, err)
	}
	return rec, nil
}

// toJSON normalizes any supported encoding to a JSON document.
func toJSON(data []byte, format Format, source string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil

	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse YAML %s: %w", source, err)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert YAML %s: %w", source, err)
		}
		return out, nil

	case FormatCUE:
		ctx := cuecontext.New()
		value := ctx.CompileBytes(data, cue.Filename(source))
		if err := value.Err(); err != nil {
			return nil, fmt.Errorf("compile CUE %s: %w", source, err)
		}
		if err := value.Validate(cue.Concrete(true)); err != nil {
			return nil, fmt.Errorf("CUE %s is not concrete: %w", source, err)
		}
		out, err := value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("export CUE %s: %w", source, err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported record format %q", format)
	}
}

// WriteFile writes rec to path in the encoding its extension names.
// CUE is read-only.
func WriteFile(path string, rec ir.Record) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := Encode(f, format, rec); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Encode writes rec to w as JSON or YAML.
func Encode(w io.Writer, format Format, rec ir.Record) error {
	if rec.History == nil {
		rec.History = []ir.Observation{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode JSON record: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode YAML record: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode YAML record: %w", err)
		}
		return nil

	case FormatCUE:
		return fmt.Errorf("CUE records are read-only")

	default:
		return fmt.Errorf("unsupported record format %q", format)
	}
}
