package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/maestoso/scorekit/pkg/musicxml"
)

var (
	// Global flags
	outputFile string
	outputJSON bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "scorekit",
	Short: "MusicXML score toolkit",
	Long: `scorekit - build, inspect, edit, and generate MusicXML scores.

Structural commands work offline on local files:
  new       build an empty score from a template spec
  validate  check the structure of a document
  info      show score metadata
  merge     merge one score's measures into another
  excerpt   extract a measure range into a new score

Model-backed commands need an API key in the environment
(GEMINI_API_KEY or OPENAI_API_KEY):
  compose   generate or edit a score from a text request
  serve     run the streaming composition server

Examples:
  scorekit new -f quartet.yaml -o quartet.musicxml
  scorekit validate quartet.musicxml
  scorekit excerpt quartet.musicxml --start 9 --end 16 -o theme.musicxml
  scorekit compose "a gentle waltz in A minor" -o waltz.musicxml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initLogging() {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
}

// readScore loads and parses a score file. "-" reads stdin.
func readScore(path string) (*musicxml.Score, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return musicxml.Parse(data)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to the -o file, or stdout when unset.
func writeOutput(data []byte) error {
	if outputFile == "" || outputFile == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputFile, err)
	}
	return nil
}

func writeScore(score *musicxml.Score) error {
	return writeOutput([]byte(score.String()))
}
