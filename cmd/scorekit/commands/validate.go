package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maestoso/scorekit/pkg/musicxml"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check the structure of MusicXML documents",
	Long: `Check that each file parses as XML and has the structural skeleton a
renderer needs: a score-partwise root, a part-list, and at least one
measure in every part. Exits non-zero if any file fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, path := range args {
			data, err := readInput(path)
			if err != nil {
				return err
			}
			if err := musicxml.Validate(data); err != nil {
				failed++
				fmt.Printf("%s %s: %s\n", errStyle.Render("FAIL"), path, describeValidation(err))
				continue
			}
			fmt.Printf("%s %s\n", okStyle.Render("OK"), path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files invalid", failed, len(args))
		}
		return nil
	},
}

func describeValidation(err error) string {
	var syn *musicxml.SyntaxError
	if errors.As(err, &syn) {
		return "not well-formed XML: " + syn.Err.Error()
	}
	var sch *musicxml.SchemaError
	if errors.As(err, &sch) {
		return sch.Reason
	}
	return err.Error()
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
