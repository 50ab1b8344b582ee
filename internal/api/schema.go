package api

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Payload contracts for the quiz endpoints.
const (
	schemaStartSession = "start_session"
	schemaAnswerResult = "answer_result"
	schemaNextQuestion = "next_question"
	schemaFeedback     = "feedback"
)

// schemaBase is the URL root the embedded schemas are registered under.
const schemaBase = "https://schemas.torredebabel.local/icfes/"

//go:embed schemas/*.json
var schemaFS embed.FS

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validatePayload validates a raw data payload against the named schema.
func validatePayload(name string, raw []byte) error {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := getCompiledSchema(name)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}

	if err := compiled.Validate(instance); err != nil {
		return fmt.Errorf("schema %q validation failed: %w", name, err)
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
// Every embedded schema is registered so that relative $refs resolve.
func getCompiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	c := jsonschema.NewCompiler()
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	for _, e := range entries {
		b, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		if err := c.AddResource(schemaBase+e.Name(), doc); err != nil {
			return nil, fmt.Errorf("add resource %s: %w", e.Name(), err)
		}
	}

	compiled, err := c.Compile(schemaBase + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
