package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show score metadata",
	Long: `Show a score's title, composer, parts, measure count, key, and time
signature. With --json the same fields are emitted as one JSON object.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := readScore(args[0])
		if err != nil {
			return err
		}
		info := score.Info()

		if outputJSON {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(append(data, '\n'))
		}

		field := func(label, value string) {
			if value != "" {
				fmt.Printf("%s %s\n", labelStyle.Render(label+":"), value)
			}
		}
		field("Title", info.Title)
		field("Composer", info.Composer)
		field("Key", info.Key)
		field("Time", info.Time)
		field("Measures", fmt.Sprintf("%d", info.Measures))
		fmt.Printf("%s\n", labelStyle.Render("Parts:"))
		for _, p := range info.Parts {
			fmt.Printf("  %s %s\n", p.ID, dimStyle.Render(p.Name))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
