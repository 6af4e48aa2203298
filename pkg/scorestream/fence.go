package scorestream

import (
	"regexp"
	"strings"
)

var (
	fencedMusicXML = regexp.MustCompile("(?s)```musicxml\\s*(.*?)\\s*```")
	fencedXML      = regexp.MustCompile("(?s)```xml\\s*(.*?)\\s*```")
)

// ExtractFenced pulls a MusicXML document out of a markdown code block.
// A ```musicxml fence wins; a plain ```xml fence is accepted only when
// its content carries a score root tag.
func ExtractFenced(text string) (string, bool) {
	if m := fencedMusicXML.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := fencedXML.FindStringSubmatch(text); m != nil {
		inner := strings.TrimSpace(m[1])
		if strings.Contains(inner, "<score-partwise") || strings.Contains(inner, "<score-timewise") {
			return inner, true
		}
	}
	return "", false
}
