package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// bankSchemaJSON is the contract every bank file must satisfy before its
// problems are unmarshalled. The oneOf branches enforce that fill_in and
// multiple_choice problems carry exactly their own field group.
const bankSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "subject", "format_version", "problems"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "subject": {"type": "string", "minLength": 1},
    "format_version": {"type": "string", "pattern": "^v[0-9]+\\.[0-9]+\\.[0-9]+$"},
    "problems": {
      "type": "array",
      "items": {"$ref": "#/$defs/problem"}
    }
  },
  "$defs": {
    "problem": {
      "type": "object",
      "required": ["id", "type", "knowledge_tags", "difficulty", "question_text"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "type": {"enum": ["fill_in", "multiple_choice"]},
        "subject": {"type": "string"},
        "chapter": {"type": "string"},
        "knowledge_tags": {
          "type": "array",
          "items": {"type": "string", "minLength": 1},
          "minItems": 1
        },
        "difficulty": {"type": "number", "minimum": 0, "maximum": 1},
        "question_text": {"type": "string", "minLength": 1},
        "answer": {"type": "string", "minLength": 1},
        "answer_type": {"enum": ["numeric", "formula", "string"]},
        "options": {
          "type": "array",
          "items": {"type": "string", "minLength": 1},
          "minItems": 2
        },
        "correct_option": {"type": "integer", "minimum": 0}
      },
      "oneOf": [
        {
          "properties": {"type": {"const": "fill_in"}},
          "required": ["answer", "answer_type"],
          "not": {"anyOf": [{"required": ["options"]}, {"required": ["correct_option"]}]}
        },
        {
          "properties": {"type": {"const": "multiple_choice"}},
          "required": ["options", "correct_option"],
          "not": {"anyOf": [{"required": ["answer"]}, {"required": ["answer_type"]}]}
        }
      ]
    }
  }
}`

var (
	bankSchemaOnce sync.Once
	bankSchema     *jsonschema.Schema
	bankSchemaErr  error
)

func compiledBankSchema() (*jsonschema.Schema, error) {
	bankSchemaOnce.Do(func() {
		var parsed any
		if err := json.Unmarshal([]byte(bankSchemaJSON), &parsed); err != nil {
			bankSchemaErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		const url = "schema://bank.json"
		if err := compiler.AddResource(url, parsed); err != nil {
			bankSchemaErr = fmt.Errorf("add bank schema resource: %w", err)
			return
		}
		bankSchema, bankSchemaErr = compiler.Compile(url)
	})
	return bankSchema, bankSchemaErr
}

// validateBankDocument checks raw bank JSON against the embedded schema.
func validateBankDocument(raw []byte) error {
	schema, err := compiledBankSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse bank JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("bank schema validation: %w", err)
	}
	return nil
}
