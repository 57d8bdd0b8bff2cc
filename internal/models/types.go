package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a JSONB-backed ordered list of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// YearsMap maps a normalized technology name to years of experience.
type YearsMap map[string]int

func (m YearsMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal years map: %w", err)
	}
	return string(b), nil
}

func (m *YearsMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// ScoreMap maps a component name to its similarity score.
type ScoreMap map[string]float64

func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score map: %w", err)
	}
	return string(b), nil
}

func (m *ScoreMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// Explanation is the human-readable breakdown of a match result.
type Explanation struct {
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
}

func (e Explanation) Value() (driver.Value, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal explanation: %w", err)
	}
	return string(b), nil
}

func (e *Explanation) Scan(src interface{}) error {
	return scanJSON(src, e)
}

func scanJSON(src interface{}, dst interface{}) error {
	if src == nil {
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal column: %w", err)
	}
	return nil
}
