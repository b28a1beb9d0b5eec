package models

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaptinlin/jsonrepair"
)

// Load reads and decodes the model document at path.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	doc, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a model document. Hand-edited files often carry trailing
// commas or comments, so content that does not decode as-is goes through
// jsonrepair once before giving up.
func Parse(content []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(content, &doc); err == nil {
		return &doc, nil
	}

	repaired, err := jsonrepair.JSONRepair(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to repair model JSON: %w", err)
	}

	doc = Document{}
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode model JSON: %w", err)
	}
	return &doc, nil
}
