package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// stubSimilarity returns canned scores keyed by "a|b" and a default for
// everything else.
type stubSimilarity struct {
	scores       map[string]float64
	defaultScore float64
	err          error
}

func (s *stubSimilarity) Similarity(_ context.Context, a, b string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if score, ok := s.scores[a+"|"+b]; ok {
		return score, nil
	}
	return s.defaultScore, nil
}

func newTestSegmenter(similarity TextSimilarity) *SectionSegmenter {
	return NewSectionSegmenter(DefaultSectionVocabulary(), similarity, 0.7, zap.NewNop())
}

func TestSegmentSplitsOnHeadings(t *testing.T) {
	segmenter := newTestSegmenter(nil)

	text := strings.Join([]string{
		"Jane Doe, Backend Engineer",
		"Work Experience:",
		"Five years building APIs in Go.",
		"Education",
		"BSc Computer Science.",
		"Technical Skills",
		"Go, Python, PostgreSQL.",
	}, "\n")

	sections := segmenter.Segment(context.Background(), text)

	if got := sections[SectionExperience]; !strings.Contains(got, "Five years") {
		t.Fatalf("experience section = %q", got)
	}
	if got := sections[SectionEducation]; !strings.Contains(got, "BSc") {
		t.Fatalf("education section = %q", got)
	}
	if got := sections[SectionSkills]; !strings.Contains(got, "PostgreSQL") {
		t.Fatalf("skills section = %q", got)
	}
	if got := sections[SectionUnknown]; !strings.Contains(got, "Jane Doe") {
		t.Fatalf("preamble should land in unknown, got %q", got)
	}
}

func TestSegmentDropsNoContent(t *testing.T) {
	segmenter := newTestSegmenter(nil)

	lines := []string{
		"Jane Doe, Backend Engineer",
		"Summary",
		"Backend engineer focused on billing systems.",
		"Work Experience:",
		"Five years building APIs in Go.",
		"Earlier frontend role at a startup.",
		"Projects",
		"Open source contributions to a queueing library.",
		"Skills",
		"Go, Python, PostgreSQL.",
	}
	text := strings.Join(lines, "\n")

	sections := segmenter.Segment(context.Background(), text)

	var contents []string
	for _, content := range sections {
		contents = append(contents, content)
	}
	all := strings.Join(contents, "\n")

	headings := map[string]struct{}{
		"Summary": {}, "Work Experience:": {}, "Projects": {}, "Skills": {},
	}
	for _, line := range lines {
		if _, isHeading := headings[line]; isHeading {
			continue
		}
		if !strings.Contains(all, line) {
			t.Fatalf("segmentation dropped %q; sections: %v", line, sections)
		}
	}
	if len(sections) != 5 {
		t.Fatalf("expected unknown plus four named sections, got %v", sections)
	}
}

func TestSegmentWithoutHeadingsFallsBackToUnknown(t *testing.T) {
	segmenter := newTestSegmenter(nil)

	text := "Ten years of backend work across fintech and logistics."
	sections := segmenter.Segment(context.Background(), text)

	if len(sections) != 1 {
		t.Fatalf("expected a single section, got %d", len(sections))
	}
	if sections[SectionUnknown] != text {
		t.Fatalf("unknown section = %q", sections[SectionUnknown])
	}
}

func TestSegmentConcatenatesDuplicateKinds(t *testing.T) {
	segmenter := newTestSegmenter(nil)

	text := strings.Join([]string{
		"Experience",
		"Backend role.",
		"Work History",
		"Earlier frontend role.",
	}, "\n")

	sections := segmenter.Segment(context.Background(), text)

	got := sections[SectionExperience]
	if !strings.Contains(got, "Backend role.") || !strings.Contains(got, "Earlier frontend role.") {
		t.Fatalf("duplicate headings should concatenate, got %q", got)
	}
}

func TestSegmentEmptyText(t *testing.T) {
	segmenter := newTestSegmenter(nil)

	sections := segmenter.Segment(context.Background(), "   \n  ")
	if len(sections) != 0 {
		t.Fatalf("expected no sections, got %v", sections)
	}
}

func TestResolveHeadingExactAndPlural(t *testing.T) {
	segmenter := newTestSegmenter(nil)
	ctx := context.Background()

	if got := segmenter.ResolveHeading(ctx, "Work Experience:"); got != SectionExperience {
		t.Fatalf("exact lookup = %q", got)
	}
	if got := segmenter.ResolveHeading(ctx, "Overviews"); got != SectionSummary {
		t.Fatalf("de-pluralized lookup = %q", got)
	}
}

func TestResolveHeadingBySimilarity(t *testing.T) {
	similarity := &stubSimilarity{
		scores: map[string]float64{
			"my career so far|experience": 0.85,
		},
		defaultScore: 0.1,
	}
	segmenter := newTestSegmenter(similarity)

	got := segmenter.ResolveHeading(context.Background(), "My Career So Far")
	if got != SectionExperience {
		t.Fatalf("similarity resolution = %q, want %q", got, SectionExperience)
	}
}

func TestResolveHeadingBelowThresholdIsUnknown(t *testing.T) {
	segmenter := newTestSegmenter(&stubSimilarity{defaultScore: 0.4})

	got := segmenter.ResolveHeading(context.Background(), "Hobbies and Interests")
	if got != SectionUnknown {
		t.Fatalf("below-threshold heading = %q, want unknown", got)
	}
}

func TestResolveHeadingSimilarityErrorIsUnknown(t *testing.T) {
	segmenter := newTestSegmenter(&stubSimilarity{err: errors.New("model offline")})

	got := segmenter.ResolveHeading(context.Background(), "Career Path")
	if got != SectionUnknown {
		t.Fatalf("error path = %q, want unknown", got)
	}
}
