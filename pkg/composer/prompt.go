package composer

import (
	"fmt"
	"strings"
)

// systemPrompt is the standing contract with the model: full documents
// only, fenced, renderable. The streaming reconstructor depends on the
// fenced-full-score convention.
const systemPrompt = `You are an expert music composition assistant powering a music notation editor.
You help users create and edit musical notation using MusicXML.

When the user asks you to write, compose, edit, or modify music, you MUST:
1. Output COMPLETE, VALID MusicXML wrapped in a ` + "```musicxml" + ` code block
2. Produce a full score that can replace the current score outright
3. Preserve the instruments and parts of the current score context when provided
4. Include all required elements: part-list, parts, measures, attributes, notes

Your MusicXML is parsed and rendered as it streams; incomplete or invalid
XML breaks the display.

Structure requirements:
1. Root element: <score-partwise version="4.0">
2. Include the <?xml version="1.0" encoding="UTF-8"?> declaration
3. A <part-list> with a <score-part> per instrument
4. Each <part> contains <measure> elements:
   - the first measure MUST carry <attributes> with <divisions>, <key>, <time>, <clef>
   - notes carry <pitch> (step, alter, octave), <duration>, and <type>
   - rests use <rest/> instead of <pitch>
   - chord notes after the first carry <chord/> before the pitch

When responding, explain what you are composing in one or two sentences,
then provide the complete MusicXML code block. Never output partial
fragments or snippets.`

// Selection describes the measures the user has highlighted.
type Selection struct {
	StartMeasure int
	EndMeasure   int
	XML          string
}

// buildUserMessage assembles the model-facing turn: current score
// context, selection context, then the user's request.
func buildUserMessage(request, scoreXML string, sel *Selection) string {
	var parts []string

	if scoreXML != "" {
		parts = append(parts, "Current full score (MusicXML):\n```musicxml\n"+scoreXML+"\n```")
	}
	if sel != nil {
		if sel.StartMeasure > 0 && sel.EndMeasure > 0 {
			parts = append(parts, fmt.Sprintf("User has selected measures %d to %d.", sel.StartMeasure, sel.EndMeasure))
		}
		if sel.XML != "" {
			parts = append(parts, "Selected measures (MusicXML):\n```musicxml\n"+sel.XML+"\n```")
		}
	}

	if len(parts) == 0 {
		return request
	}
	return strings.Join(parts, "\n\n") + "\n\nUser request: " + request
}
