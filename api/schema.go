package api

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// PAYLOAD VALIDATION - JSON Schema checks before decoding
// =============================================================================

//go:embed schemas/timesheet.json
var schemaDocument []byte

// maxBodyBytes bounds request bodies; a week of entries is a few KB.
const maxBodyBytes = 1 << 20

// Schemas holds one compiled schema per request body type.
type Schemas struct {
	Entry      *gojsonschema.Schema
	Week       *gojsonschema.Schema
	Layout     *gojsonschema.Schema
	DaySummary *gojsonschema.Schema
	Scenario   *gojsonschema.Schema
}

// LoadSchemas compiles the embedded schema document.
func LoadSchemas() (*Schemas, error) {
	var doc map[string]any
	if err := json.Unmarshal(schemaDocument, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema document: %w", err)
	}
	definitions, ok := doc["definitions"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema document has no definitions")
	}

	compile := func(name string) (*gojsonschema.Schema, error) {
		def, ok := definitions[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schema definition %q not found", name)
		}
		// Each root carries the shared definitions so local $refs resolve.
		root := make(map[string]any, len(def)+1)
		for k, v := range def {
			root[k] = v
		}
		root["definitions"] = definitions

		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(root))
		if err != nil {
			return nil, fmt.Errorf("failed to load schema %q: %w", name, err)
		}
		return schema, nil
	}

	var s Schemas
	var err error
	if s.Entry, err = compile("entry"); err != nil {
		return nil, err
	}
	if s.Week, err = compile("week"); err != nil {
		return nil, err
	}
	if s.Layout, err = compile("layout"); err != nil {
		return nil, err
	}
	if s.DaySummary, err = compile("day_summary"); err != nil {
		return nil, err
	}
	if s.Scenario, err = compile("scenario"); err != nil {
		return nil, err
	}
	return &s, nil
}

// MustLoadSchemas is LoadSchemas for package initialization.
func MustLoadSchemas() *Schemas {
	s, err := LoadSchemas()
	if err != nil {
		panic(err)
	}
	return s
}

// PayloadError lists the schema violations of a request body.
type PayloadError struct {
	Problems []string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Problems, "; "))
}

// ValidatePayload checks a JSON document against a schema.
func ValidatePayload(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("failed to validate: %w", err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return &PayloadError{Problems: problems}
	}

	return nil
}

// decodeBody reads the request body, validates it and unmarshals it into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err := ValidatePayload(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// DecodeWeek validates a week document and converts its entries, reducing
// any day windows they carry to one summary per day.
func (s *Schemas) DecodeWeek(data []byte) ([]timesheet.Entry, map[timesheet.DayKey]timesheet.DaySummary, error) {
	if err := ValidatePayload(s.Week, data); err != nil {
		return nil, nil, err
	}
	var req WeekRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return entriesFromRequests(req.Entries)
}
