package commands

import (
	"github.com/spf13/cobra"

	"github.com/maestoso/scorekit/pkg/musicxml"
)

var mergeAt int

var mergeCmd = &cobra.Command{
	Use:   "merge <base> <addition>",
	Short: "Merge one score's measures into another",
	Long: `Merge the addition score's measures into the base score, part by part.

By default the addition is appended after the base's last measure. With
--at N the addition is spliced in starting at measure N: the addition's
measures take numbers N onward and the base's measures from N shift
after them. Parts present only in the addition are ignored.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := readScore(args[0])
		if err != nil {
			return err
		}
		addition, err := readScore(args[1])
		if err != nil {
			return err
		}
		merged, err := musicxml.Merge(base, addition, mergeAt)
		if err != nil {
			return err
		}
		return writeScore(merged)
	},
}

func init() {
	mergeCmd.Flags().IntVar(&mergeAt, "at", 0, "splice position (measure number, 0 = append)")
	rootCmd.AddCommand(mergeCmd)
}
