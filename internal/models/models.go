package models

import "time"

const (
	// CodeLength is the fixed length of a generation code.
	CodeLength = 10

	// MaxSheetNumber is the hard ceiling on sheets per generation.
	MaxSheetNumber = 1000

	// CardsPerSheet is the number of bingo cards printed on one sheet.
	CardsPerSheet = 4

	// GridSize is the card dimension (GridSize x GridSize numbers).
	GridSize = 5
)

// Generation is a named batch of sheets sharing a code. At most one
// generation is active at a time; rows are immutable except for the
// active flag.
type Generation struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
}

// Sheet is one sellable unit: a numbered, uniquely fingerprinted set of
// cards belonging to exactly one generation.
type Sheet struct {
	ID             int64       `json:"id"`
	GenerationID   int64       `json:"generation_id"`
	GenerationCode string      `json:"generation_code"`
	Number         int         `json:"number"`
	Status         SheetStatus `json:"status"`
	SoldAt         *time.Time  `json:"sold_at,omitempty"`
	Payload        string      `json:"payload"`
	Fingerprint    string      `json:"fingerprint"`
	CreatedAt      time.Time   `json:"created_at"`
}
