package musicxml

import "fmt"

// Validate checks src against the minimal structural contract a renderer
// requires. Checks run in order and stop at the first failure:
//
//  1. src parses as well-formed XML
//  2. the root element is <score-partwise> or <score-timewise>
//  3. a <part-list> exists
//  4. at least one <part> exists
//  5. every <part> has at least one <measure>
//
// Nothing else is checked; full grammar validation is out of scope.
func Validate(src []byte) error {
	s, err := Parse(src)
	if err != nil {
		return err
	}
	return s.Validate()
}

// ValidateString is Validate for string input.
func ValidateString(src string) error {
	return Validate([]byte(src))
}

// Validate runs the structural checks on an already-parsed score.
func (s *Score) Validate() error {
	root := s.Root()
	if root.Tag != RootPartwise && root.Tag != RootTimewise {
		return &SchemaError{Reason: fmt.Sprintf(
			"Invalid root element: %s. Expected '%s' or '%s'", root.Tag, RootPartwise, RootTimewise)}
	}
	if s.PartList() == nil {
		return &SchemaError{Reason: "Missing required <part-list> element"}
	}
	parts := s.Parts()
	if len(parts) == 0 {
		return &SchemaError{Reason: "No <part> elements found"}
	}
	for _, part := range parts {
		if len(Measures(part)) == 0 {
			id := part.SelectAttrValue("id", "unknown")
			return &SchemaError{
				Reason: fmt.Sprintf("Part '%s' has no measures", id),
				PartID: id,
			}
		}
	}
	return nil
}
