package commands

import (
	"github.com/spf13/cobra"

	"github.com/maestoso/scorekit/pkg/musicxml"
)

var (
	excerptStart int
	excerptEnd   int
)

var excerptCmd = &cobra.Command{
	Use:   "excerpt <file>",
	Short: "Extract a measure range into a new score",
	Long: `Extract measures --start through --end (inclusive, 1-based) from every
part into a standalone score. The excerpt's measures are renumbered
from 1; the source file is untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := readScore(args[0])
		if err != nil {
			return err
		}
		excerpt, err := musicxml.Excerpt(score, excerptStart, excerptEnd)
		if err != nil {
			return err
		}
		return writeScore(excerpt)
	},
}

func init() {
	excerptCmd.Flags().IntVar(&excerptStart, "start", 1, "first measure (1-based)")
	excerptCmd.Flags().IntVar(&excerptEnd, "end", 0, "last measure (inclusive)")
	excerptCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(excerptCmd)
}
