package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled caches compiled schemas by name. Schemas are package-level
// constants in practice, so the cache never needs invalidation.
var compiled sync.Map

// conform checks a reply body against a schema. A failure is always a
// *BadReplyError carrying the body.
func conform(s *Schema, body json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return &BadReplyError{Body: body, Err: fmt.Errorf("not JSON: %w", err)}
	}

	sch, err := compileSchema(s)
	if err != nil {
		return &BadReplyError{Body: body, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &BadReplyError{Body: body, Err: fmt.Errorf("schema %s: %w", s.Name, err)}
	}
	return nil
}

func compileSchema(s *Schema) (*jsonschema.Schema, error) {
	if c, ok := compiled.Load(s.Name); ok {
		return c.(*jsonschema.Schema), nil
	}

	// The compiler wants a parsed JSON value, not a Go map holding
	// arbitrary types. Round-trip through encoding/json to normalize.
	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", s.Name, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", s.Name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("register schema %s: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}

	compiled.Store(s.Name, sch)
	return sch, nil
}
