package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maestoso/scorekit/pkg/composer"
	"github.com/maestoso/scorekit/pkg/musicxml"
)

var (
	composeScoreFile string
	composeStart     int
	composeEnd       int
	composePlanOnly  bool
)

var composeCmd = &cobra.Command{
	Use:   "compose <request>",
	Short: "Generate or edit a score with a model",
	Long: `Send a composition request to the model and write the resulting score.

Without --score the model composes a new piece from the request.
With --score the current document is sent as context and the model
returns a full replacement; --start/--end additionally mark a measure
selection for the model to focus on.

Progress streams to stderr as the score arrives; the final document
goes to -o (or stdout). With --plan the model only fills in a template
spec via a function call and the empty score is built locally.

Examples:
  scorekit compose "a gentle waltz in A minor, 16 measures" -o waltz.musicxml
  scorekit compose "add a walking bass line" --score waltz.musicxml -o waltz2.musicxml
  scorekit compose "harmonize these measures" --score waltz.musicxml --start 5 --end 8
  scorekit compose --plan "string quartet in G minor, 3/4" -o quartet.musicxml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		gen, err := newGenerator(ctx)
		if err != nil {
			return err
		}
		session := composer.NewSession(gen)

		if composePlanOnly {
			score, spec, err := session.PlanTemplate(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s, %d measures\n",
				okStyle.Render("planned"), spec.Title, spec.Measures)
			return writeScore(score)
		}

		var scoreXML string
		var sel *composer.Selection
		if composeScoreFile != "" {
			score, err := readScore(composeScoreFile)
			if err != nil {
				return err
			}
			scoreXML = score.String()
			if composeStart > 0 && composeEnd > 0 {
				sel = &composer.Selection{StartMeasure: composeStart, EndMeasure: composeEnd}
				if excerpt, err := musicxml.Excerpt(score, composeStart, composeEnd); err == nil {
					sel.XML = excerpt.String()
				}
			}
		}

		es, err := session.ChatStream(ctx, args[0], scoreXML, sel)
		if err != nil {
			return err
		}
		defer es.Close()

		stderr := cmd.ErrOrStderr()
		for {
			ev, err := es.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			switch ev.Type {
			case composer.EventText:
				fmt.Fprint(stderr, ev.Text)
			case composer.EventPartial:
				fmt.Fprintf(stderr, "\r%s %d measures", dimStyle.Render("streaming:"), ev.Measures)
			case composer.EventComplete:
				fmt.Fprintln(stderr)
				if ev.XML == "" {
					return fmt.Errorf("model reply contains no usable score")
				}
				fmt.Fprintf(stderr, "%s %d measures\n", okStyle.Render("complete:"), ev.Measures)
				if err := writeOutput([]byte(ev.XML)); err != nil {
					return err
				}
				if text := strings.TrimSpace(ev.Text); text != "" && verbose {
					fmt.Fprintln(stderr, dimStyle.Render(text))
				}
			}
		}
	},
}

func init() {
	composeCmd.Flags().StringVar(&composeScoreFile, "score", "", "current score file to edit")
	composeCmd.Flags().IntVar(&composeStart, "start", 0, "selection start measure")
	composeCmd.Flags().IntVar(&composeEnd, "end", 0, "selection end measure")
	composeCmd.Flags().BoolVar(&composePlanOnly, "plan", false, "build an empty template from the request instead of composing")
	addGeneratorFlags(composeCmd)
	rootCmd.AddCommand(composeCmd)
}
