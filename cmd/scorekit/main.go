// Package main provides the scorekit CLI tool.
//
// Usage:
//
//	scorekit [flags] <command> [args]
//
// Commands:
//
//	new       - Build an empty score from a template spec
//	validate  - Check the structure of a MusicXML document
//	info      - Show score metadata
//	merge     - Merge one score's measures into another
//	excerpt   - Extract a measure range into a new score
//	compose   - Generate or edit a score with a model
//	serve     - Run the streaming composition server
package main

import (
	"fmt"
	"os"

	"github.com/maestoso/scorekit/cmd/scorekit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
