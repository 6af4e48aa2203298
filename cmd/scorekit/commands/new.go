package commands

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/maestoso/scorekit/pkg/musicxml"
)

var (
	newSpecFile string
	newSpec     musicxml.TemplateSpec
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Build an empty score from a template spec",
	Long: `Build an empty, valid score from a template spec.

The spec comes from a YAML file (-f) or from flags. Flags override the
file. Omitted fields fall back to a single treble-clef piano part, 4/4,
C major, 120 bpm, 4 measures.

Example spec file:

  title: String Quartet No. 1
  composer: A. Student
  beats: 3
  beat_type: 4
  fifths: -3
  tempo: 72
  measures: 16
  parts:
    - {id: P1, name: Violin I, clef: G}
    - {id: P2, name: Violin II, clef: G}
    - {id: P3, name: Viola, clef: C}
    - {id: P4, name: Cello, clef: F, midi_program: 42}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := musicxml.TemplateSpec{}
		if newSpecFile != "" {
			data, err := readInput(newSpecFile)
			if err != nil {
				return err
			}
			if err := yaml.Unmarshal(data, &spec); err != nil {
				return fmt.Errorf("parse %s: %w", newSpecFile, err)
			}
		}
		mergeSpecFlags(cmd, &spec)

		score, err := musicxml.NewTemplate(spec)
		if err != nil {
			return err
		}
		return writeScore(score)
	},
}

func mergeSpecFlags(cmd *cobra.Command, spec *musicxml.TemplateSpec) {
	if cmd.Flags().Changed("title") {
		spec.Title = newSpec.Title
	}
	if cmd.Flags().Changed("composer") {
		spec.Composer = newSpec.Composer
	}
	if cmd.Flags().Changed("beats") {
		spec.Beats = newSpec.Beats
	}
	if cmd.Flags().Changed("beat-type") {
		spec.BeatType = newSpec.BeatType
	}
	if cmd.Flags().Changed("fifths") {
		spec.Fifths = newSpec.Fifths
	}
	if cmd.Flags().Changed("tempo") {
		spec.Tempo = newSpec.Tempo
	}
	if cmd.Flags().Changed("measures") {
		spec.Measures = newSpec.Measures
	}
}

func init() {
	newCmd.Flags().StringVarP(&newSpecFile, "file", "f", "", "template spec file (YAML)")
	newCmd.Flags().StringVar(&newSpec.Title, "title", "", "work title")
	newCmd.Flags().StringVar(&newSpec.Composer, "composer", "", "composer name")
	newCmd.Flags().IntVar(&newSpec.Beats, "beats", 0, "time signature beats")
	newCmd.Flags().IntVar(&newSpec.BeatType, "beat-type", 0, "time signature beat type")
	newCmd.Flags().IntVar(&newSpec.Fifths, "fifths", 0, "key signature (-7..7, negative = flats)")
	newCmd.Flags().IntVar(&newSpec.Tempo, "tempo", 0, "tempo in bpm")
	newCmd.Flags().IntVar(&newSpec.Measures, "measures", 0, "measure count")

	rootCmd.AddCommand(newCmd)
}
