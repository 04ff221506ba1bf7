package models

import "fmt"

// SheetStatus defines the sale state of a sheet. The transition is
// forward-only: Unassigned -> Sold.
type SheetStatus string

const (
	StatusUnassigned SheetStatus = "Unassigned"
	StatusSold       SheetStatus = "Sold"
)

// ValidStatus reports whether s is a known sheet status.
func ValidStatus(s SheetStatus) bool {
	switch s {
	case StatusUnassigned, StatusSold:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a SheetStatus.
func ParseStatus(raw string) (SheetStatus, error) {
	s := SheetStatus(raw)
	if !ValidStatus(s) {
		return "", fmt.Errorf("invalid sheet status %q", raw)
	}
	return s, nil
}
