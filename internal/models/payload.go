package models

import (
	"encoding/json"
	"fmt"
)

// Card is one 5x5 bingo card. Grid is indexed [row][column]; each
// column holds 5 distinct ascending values from its own number range.
type Card struct {
	Grid [GridSize][GridSize]int `json:"grid"`
}

// SheetPayload is the structured content of one sheet.
type SheetPayload struct {
	Cards []Card `json:"cards"`
}

// MarshalPayload serializes a payload deterministically: fixed field
// order, no extraneous whitespace. Byte-identical content must always
// produce identical output because the result is what gets
// fingerprinted.
func MarshalPayload(p SheetPayload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal sheet payload: %w", err)
	}
	return data, nil
}

// UnmarshalPayload parses a serialized sheet payload.
func UnmarshalPayload(data []byte) (SheetPayload, error) {
	var p SheetPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return SheetPayload{}, fmt.Errorf("unmarshal sheet payload: %w", err)
	}
	return p, nil
}
