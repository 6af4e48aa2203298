package musicxml

import (
	"errors"
	"testing"
)

func measureNumbers(t *testing.T, s *Score, partID string) []int {
	t.Helper()
	part := s.Part(partID)
	if part == nil {
		t.Fatalf("part %s not found", partID)
	}
	var nums []int
	for _, m := range Measures(part) {
		n, err := measureNumber(m)
		if err != nil {
			t.Fatalf("measure number: %v", err)
		}
		nums = append(nums, n)
	}
	return nums
}

func wantContiguous(t *testing.T, nums []int, n int) {
	t.Helper()
	if len(nums) != n {
		t.Fatalf("measures = %d, want %d", len(nums), n)
	}
	for i, got := range nums {
		if got != i+1 {
			t.Fatalf("measure %d numbered %d, want %d (full: %v)", i, got, i+1, nums)
		}
	}
}

func TestMergeAppend(t *testing.T) {
	base := mustTemplate(t, TemplateSpec{Measures: 2})
	addition := mustTemplate(t, TemplateSpec{Measures: 3})

	merged, err := Merge(base, addition, 0)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	wantContiguous(t, measureNumbers(t, merged, "P1"), 5)
	if err := merged.Validate(); err != nil {
		t.Fatalf("merged does not validate: %v", err)
	}

	// Inputs untouched.
	if base.MeasureCount() != 2 || addition.MeasureCount() != 3 {
		t.Error("Merge mutated its inputs")
	}
}

func TestMergeSplice(t *testing.T) {
	base := mustTemplate(t, TemplateSpec{Measures: 2})
	addition := mustTemplate(t, TemplateSpec{Measures: 3})

	merged, err := Merge(base, addition, 2)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	// Addition occupies measures 2-4, original measure 2 becomes 5.
	wantContiguous(t, measureNumbers(t, merged, "P1"), 5)

	ms := Measures(merged.Part("P1"))
	// The original first measure keeps its attributes block; the spliced
	// measures 2-4 are the addition's (its measure 1 carries attributes).
	if ms[1].SelectElement("attributes") == nil {
		t.Error("spliced measure 2 should be the addition's first measure")
	}
	if ms[4].SelectElement("attributes") != nil {
		t.Error("measure 5 should be the original plain measure 2")
	}
}

func TestMergeIgnoresUnknownParts(t *testing.T) {
	base := mustTemplate(t, TemplateSpec{Measures: 2})
	addition := mustTemplate(t, TemplateSpec{
		Parts: []PartSpec{
			{ID: "P1", Name: "Piano"},
			{ID: "P7", Name: "Tuba", Clef: "F"},
		},
		Measures: 1,
	})

	merged, err := Merge(base, addition, 0)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if merged.Part("P7") != nil {
		t.Error("merge must not introduce new parts")
	}
	wantContiguous(t, measureNumbers(t, merged, "P1"), 3)
	if len(merged.PartList().SelectElements("score-part")) != 1 {
		t.Error("part-list must be left untouched")
	}
}

func TestMergeConflicts(t *testing.T) {
	base := mustTemplate(t, TemplateSpec{Measures: 2})
	addition := mustTemplate(t, TemplateSpec{Measures: 1})

	if _, err := Merge(base, addition, 5); err == nil {
		t.Error("splice beyond the base sequence should conflict")
	} else {
		var ec *EditConflictError
		if !errors.As(err, &ec) {
			t.Errorf("got %T, want *EditConflictError", err)
		}
	}

	broken, err := ParseString(`<score-partwise><part-list/></score-partwise>`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Merge(broken, addition, 0); err == nil {
		t.Error("invalid base must be rejected before merging")
	}
	if _, err := Merge(base, broken, 0); err == nil {
		t.Error("invalid addition must be rejected before merging")
	}
}

func TestExcerpt(t *testing.T) {
	src := mustTemplate(t, TemplateSpec{Measures: 8})

	ex, err := Excerpt(src, 3, 5)
	if err != nil {
		t.Fatalf("Excerpt() error: %v", err)
	}
	wantContiguous(t, measureNumbers(t, ex, "P1"), 3)
	if src.MeasureCount() != 8 {
		t.Error("Excerpt mutated its source")
	}
	if err := ex.Validate(); err != nil {
		t.Fatalf("excerpt does not validate: %v", err)
	}
}

func TestExcerptConflicts(t *testing.T) {
	src := mustTemplate(t, TemplateSpec{Measures: 4})

	for _, r := range [][2]int{{3, 2}, {0, 2}, {-1, 1}} {
		if _, err := Excerpt(src, r[0], r[1]); err == nil {
			t.Errorf("range %v should be invalid", r)
		}
	}

	_, err := Excerpt(src, 9, 12)
	var ec *EditConflictError
	if !errors.As(err, &ec) {
		t.Fatalf("out-of-range excerpt: got %T (%v), want *EditConflictError", err, err)
	}
}

func TestMergeThenExcerptRecoversAddition(t *testing.T) {
	base := mustTemplate(t, TemplateSpec{Measures: 4})
	addition := mustTemplate(t, TemplateSpec{Measures: 3})

	merged, err := Merge(base, addition, 0)
	if err != nil {
		t.Fatal(err)
	}
	tail, err := Excerpt(merged, 5, 7)
	if err != nil {
		t.Fatal(err)
	}
	wantContiguous(t, measureNumbers(t, tail, "P1"), 3)
}

func TestExcerptThenMergeKeepsTotal(t *testing.T) {
	src := mustTemplate(t, TemplateSpec{Measures: 6})

	middle, err := Excerpt(src, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	head, err := Excerpt(src, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	tail, err := Excerpt(src, 5, 6)
	if err != nil {
		t.Fatal(err)
	}

	// Rebuild: head + tail, then splice the middle back at its original
	// position. Total measure count must match the source.
	remainder, err := Merge(head, tail, 0)
	if err != nil {
		t.Fatal(err)
	}
	rebuilt, err := Merge(remainder, middle, 3)
	if err != nil {
		t.Fatal(err)
	}
	wantContiguous(t, measureNumbers(t, rebuilt, "P1"), 6)
}

func TestEditRejectsTimewise(t *testing.T) {
	src := `<score-timewise><part-list><score-part id="P1"/></part-list><part id="P1"><measure number="1"/></part></score-timewise>`
	tw, err := ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Excerpt(tw, 1, 1); err == nil {
		t.Error("timewise documents must be rejected by the editor")
	}
	pw := mustTemplate(t, TemplateSpec{Measures: 1})
	if _, err := Merge(pw, tw, 0); err == nil {
		t.Error("timewise addition must be rejected by the editor")
	}
}
