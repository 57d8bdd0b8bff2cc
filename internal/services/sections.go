package services

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// TextSimilarity scores how close two short texts are in meaning, in
// [0,1]. Pluggable so heading resolution can be tested with a stub.
type TextSimilarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// SectionSegmenter splits raw résumé text into canonical named sections by
// heading detection. Heading-to-kind resolution is a two-stage matcher:
// exact synonym lookup first, then nearest-synonym similarity with a
// rejection threshold.
type SectionSegmenter struct {
	vocab      SectionVocabulary
	exact      map[string]string
	headingRx  *regexp.Regexp
	similarity TextSimilarity
	threshold  float64
	logger     *zap.Logger
}

func NewSectionSegmenter(
	vocab SectionVocabulary,
	similarity TextSimilarity,
	threshold float64,
	logger *zap.Logger,
) *SectionSegmenter {
	exact := make(map[string]string)
	var synonyms []string
	for kind, list := range vocab {
		for _, syn := range list {
			exact[strings.ToLower(syn)] = kind
			synonyms = append(synonyms, regexp.QuoteMeta(syn))
		}
	}

	// Longer synonyms first so "work experience" wins over "experience".
	sort.Slice(synonyms, func(i, j int) bool {
		return len(synonyms[i]) > len(synonyms[j])
	})

	// A heading is a synonym standing alone on its own line, optionally
	// pluralized or followed by a colon.
	pattern := `(?mi)^[ \t]*(` + strings.Join(synonyms, "|") + `)s?[ \t]*:?[ \t]*$`

	return &SectionSegmenter{
		vocab:      vocab,
		exact:      exact,
		headingRx:  regexp.MustCompile(pattern),
		similarity: similarity,
		threshold:  threshold,
		logger:     logger,
	}
}

// Segment walks all heading matches in document order; the span between
// consecutive headings is that section's content, heading stripped. Two
// headings resolving to the same kind concatenate. No heading at all
// yields a single "unknown" section holding the full text -- a valid
// terminal state, not an error.
func (s *SectionSegmenter) Segment(ctx context.Context, text string) map[string]string {
	sections := make(map[string]string)
	if strings.TrimSpace(text) == "" {
		return sections
	}

	matches := s.headingRx.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		sections[SectionUnknown] = strings.TrimSpace(text)
		return sections
	}

	appendContent := func(kind, content string) {
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		if existing, ok := sections[kind]; ok && existing != "" {
			sections[kind] = existing + "\n" + content
		} else {
			sections[kind] = content
		}
	}

	// Text before the first heading has no known kind.
	if lead := text[:matches[0][0]]; strings.TrimSpace(lead) != "" {
		appendContent(SectionUnknown, lead)
	}

	for i, m := range matches {
		heading := text[m[2]:m[3]]
		kind := s.ResolveHeading(ctx, heading)

		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		appendContent(kind, text[m[1]:end])
	}

	return sections
}

// ResolveHeading maps a matched heading line onto a canonical section
// kind. Below the similarity threshold the heading resolves to "unknown"
// rather than guessing.
func (s *SectionSegmenter) ResolveHeading(ctx context.Context, heading string) string {
	h := strings.ToLower(strings.TrimSpace(heading))
	h = strings.TrimSuffix(h, ":")
	h = strings.TrimSpace(h)

	if kind, ok := s.exact[h]; ok {
		return kind
	}
	if kind, ok := s.exact[strings.TrimSuffix(h, "s")]; ok {
		return kind
	}

	if s.similarity == nil {
		return SectionUnknown
	}

	bestKind := SectionUnknown
	bestScore := 0.0
	for kind, synonyms := range s.vocab {
		for _, syn := range synonyms {
			score, err := s.similarity.Similarity(ctx, h, syn)
			if err != nil {
				s.logger.Debug("heading similarity unavailable",
					zap.String("heading", h), zap.Error(err))
				return SectionUnknown
			}
			if score > bestScore {
				bestScore = score
				bestKind = kind
			}
		}
	}

	if bestScore >= s.threshold {
		return bestKind
	}
	return SectionUnknown
}
