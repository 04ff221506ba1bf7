package main

import (
	"fmt"
	"os"

	"benji/internal/format"
)

var outputFormatter format.Formatter

func selectFormatter(jsonOutput, yamlOutput bool) {
	switch {
	case yamlOutput:
		outputFormatter = format.YAMLFormatter{}
	case jsonOutput:
		outputFormatter = format.JSONFormatter{}
	default:
		outputFormatter = nil
	}
}

// writeResult writes payload with the selected formatter, or falls
// back to the provided plain-text rendering.
func writeResult(payload any, plain func() error) error {
	if outputFormatter != nil {
		return outputFormatter.Write(os.Stdout, payload)
	}
	return plain()
}

func writePlain(formatStr string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, formatStr, args...)
	return err
}
