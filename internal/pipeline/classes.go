package pipeline

import (
	"encoding/json"
	"fmt"

	"ttabscan/internal/tsdr"
)

// classPayload is the JSON shape stored in the cache's classes column.
type classPayload struct {
	US          []string `json:"us,omitempty"`
	Intl        []string `json:"intl,omitempty"`
	Description string   `json:"description,omitempty"`
	FilingDate  string   `json:"filing_date,omitempty"`
}

func encodeClasses(data tsdr.ClassData) (string, error) {
	payload := classPayload{
		US:          data.USCodes(),
		Intl:        data.IntlCodes(),
		Description: data.Description,
		FilingDate:  data.FilingDate,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode classes: %w", err)
	}
	return string(encoded), nil
}

func decodeClasses(raw string) (classPayload, error) {
	var payload classPayload
	if raw == "" {
		return payload, nil
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return payload, fmt.Errorf("decode cached classes: %w", err)
	}
	return payload, nil
}
