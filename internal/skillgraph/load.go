package skillgraph

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed skills.json
var defaultDefinitions []byte

// definitionsFile mirrors the on-disk skill definitions format.
type definitionsFile struct {
	Skills []Skill `json:"skills"`
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// getCompiledSchema compiles the definitions schema once and caches it.
func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not
		// raw bytes. Marshal then unmarshal to get a clean representation.
		defBytes, err := json.Marshal(definitionsSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://skill-definitions.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// Parse validates raw skill definitions JSON against the schema and
// builds the graph. Schema or structural failures are configuration
// errors: the process should not start with a bad skill set.
func Parse(raw []byte) (*Graph, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ErrConfiguration{Problems: []string{fmt.Sprintf("invalid JSON: %v", err)}}
	}

	schema, err := getCompiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile definitions schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &ErrConfiguration{Problems: []string{fmt.Sprintf("schema validation failed: %v", err)}}
	}

	var defs definitionsFile
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, &ErrConfiguration{Problems: []string{fmt.Sprintf("decode definitions: %v", err)}}
	}

	return New(defs.Skills)
}

// LoadFile reads and parses a skill definitions file.
func LoadFile(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill definitions: %w", err)
	}
	return Parse(raw)
}

// Default builds the graph from the embedded skill definitions.
func Default() (*Graph, error) {
	return Parse(defaultDefinitions)
}
