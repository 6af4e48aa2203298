package musicxml

// Key and clef lookups are table-driven and deterministic. The fifths
// value is the circle-of-fifths distance from C (positive = sharps,
// negative = flats), clamped to the MusicXML range -7..7.

// Mode selects the key naming table.
type Mode string

const (
	ModeMajor Mode = "major"
	ModeMinor Mode = "minor"
)

// Index 0..7 holds 0..7 sharps, index 8..14 holds 1..7 flats.
var majorKeys = [...]string{
	"C", "G", "D", "A", "E", "B", "F#", "C#",
	"F", "Bb", "Eb", "Ab", "Db", "Gb", "Cb",
}

var minorKeys = [...]string{
	"a", "e", "b", "f#", "c#", "g#", "d#", "a#",
	"d", "g", "c", "f", "bb", "eb", "ab",
}

// KeyName maps a fifths count to the key name for the given mode.
// Out-of-range values collapse to the unmodified key of the sign.
func KeyName(fifths int, mode Mode) string {
	keys := majorKeys
	if mode == ModeMinor {
		keys = minorKeys
	}
	if fifths >= 0 {
		if fifths < 8 {
			return keys[fifths]
		}
		return keys[0]
	}
	if -fifths < 8 {
		return keys[8+(-fifths)-1]
	}
	return keys[8]
}

// Clef is a staff clef as MusicXML encodes it.
type Clef struct {
	Sign string
	Line string
}

var clefTable = map[string]Clef{
	"G":          {Sign: "G", Line: "2"}, // treble
	"F":          {Sign: "F", Line: "4"}, // bass
	"C":          {Sign: "C", Line: "3"}, // alto
	"C4":         {Sign: "C", Line: "4"}, // tenor
	"percussion": {Sign: "percussion", Line: "2"},
}

// ClefInfo maps a clef type token to its sign and line. Unrecognized
// tokens fall back to treble.
func ClefInfo(clefType string) Clef {
	if c, ok := clefTable[clefType]; ok {
		return c
	}
	return clefTable["G"]
}
