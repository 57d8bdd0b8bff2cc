package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// substitution is one ordered, case-insensitive rewrite applied during
// technology-name normalization.
type substitution struct {
	pattern *regexp.Regexp
	repl    string
}

// Abbreviation expansion. Applied after variant folding so dotted
// spellings like node.js reach their fold before the generic js rewrite
// can split them; a preceding dot also blocks the js and ts rewrites.
var abbreviationTable = []substitution{
	{regexp.MustCompile(`(?i)\bci/cd\b`), "continuous integration and continuous deployment"},
	{regexp.MustCompile(`(?i)(^|[^a-z0-9.])js\b`), "${1}javascript"},
	{regexp.MustCompile(`(?i)(^|[^a-z0-9.])ts\b`), "${1}typescript"},
	{regexp.MustCompile(`(?i)\bml\b`), "machine learning"},
	{regexp.MustCompile(`(?i)\bai\b`), "artificial intelligence"},
	{regexp.MustCompile(`(?i)\bnlp\b`), "natural language processing"},
	{regexp.MustCompile(`(?i)\boop\b`), "object oriented programming"},
	{regexp.MustCompile(`(?i)\bui\b`), "user interface"},
	{regexp.MustCompile(`(?i)\bux\b`), "user experience"},
	{regexp.MustCompile(`(?i)\bqa\b`), "quality assurance"},
	{regexp.MustCompile(`(?i)\bsdk\b`), "software development kit"},
	{regexp.MustCompile(`(?i)\bdb\b`), "database"},
	{regexp.MustCompile(`(?i)\bk8s\b`), "kubernetes"},
}

// Technology variant folding. Order matters: longer and more specific
// patterns run before generic ones to avoid partial-match corruption.
var techVariantTable = []substitution{
	{regexp.MustCompile(`(?i)\bruby\s+on\s+rails\b`), "ruby on rails"},
	{regexp.MustCompile(`(?i)\basp\.net(?:\s*core)?\b`), "asp.net"},
	{regexp.MustCompile(`(?i)\bspring\s*boot\b`), "spring boot"},
	{regexp.MustCompile(`(?i)\bgithub\s+actions\b`), "github actions"},
	{regexp.MustCompile(`(?i)\bgitlab\s+ci\b`), "gitlab ci"},
	{regexp.MustCompile(`(?i)\bdocker[\s-]*compose\b`), "docker-compose"},
	{regexp.MustCompile(`(?i)\bscikit[\s-]*learn\b|\bsklearn\b`), "scikit-learn"},
	{regexp.MustCompile(`(?i)\btensor\s*flow\b`), "tensorflow"},
	{regexp.MustCompile(`(?i)\bpy\s*torch\b`), "pytorch"},
	{regexp.MustCompile(`(?i)\bjava\s+script\b`), "javascript"},
	{regexp.MustCompile(`(?i)\btype\s+script\b`), "typescript"},
	{regexp.MustCompile(`(?i)\breact[\s.]?js\b`), "react"},
	{regexp.MustCompile(`(?i)\bnode\.?js\b`), "node"},
	{regexp.MustCompile(`(?i)\bvue\.?js\b`), "vue"},
	{regexp.MustCompile(`(?i)\bnext\.?js\b`), "nextjs"},
	{regexp.MustCompile(`(?i)\bnest\.?js\b`), "nestjs"},
	{regexp.MustCompile(`(?i)\bexpress\.?js\b`), "express"},
	{regexp.MustCompile(`(?i)\bangular(?:js)?\b`), "angular"},
	{regexp.MustCompile(`(?i)\bmongo\s*db\b`), "mongodb"},
	{regexp.MustCompile(`(?i)\bpostgre(?:sql|s)\b`), "postgresql"},
	{regexp.MustCompile(`(?i)\bms\s+sql\b|\bmssql\b`), "mssql"},
	{regexp.MustCompile(`(?i)\bmy\s+sql\b`), "mysql"},
	{regexp.MustCompile(`(?i)\bdot\s*net\b|\bdotnet\b`), ".net"},
	{regexp.MustCompile(`(?i)\bgolang\b`), "go"},
}

// NormalizeTech lowercases text and applies technology variant folding
// followed by abbreviation expansion. Variants run first so node.js and
// react.js fold to node and react intact.
func NormalizeTech(text string) string {
	text = strings.ToLower(text)
	for _, sub := range techVariantTable {
		text = sub.pattern.ReplaceAllString(text, sub.repl)
	}
	for _, sub := range abbreviationTable {
		text = sub.pattern.ReplaceAllString(text, sub.repl)
	}
	return text
}

// Word boundary for technology names: +, # and . are part of a name
// (c++, c#, .net), so \b alone would miss them.
const techBoundary = `[^a-z0-9+#.]`

func wholeWordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?i)(?:^|` + techBoundary + `)` + regexp.QuoteMeta(word) + `(?:$|` + techBoundary + `)`,
	)
}

// Proficiency levels. Proficient and advanced collapse to expert.
var levelAliases = map[string]string{
	"expert":       "expert",
	"advanced":     "expert",
	"proficient":   "expert",
	"intermediate": "intermediate",
	"basic":        "basic",
	"beginner":     "beginner",
}

// phraseToken matches one word of a skill phrase. Periods and hyphens are
// only allowed inside a token (node.js, scikit-learn) or as a leading dot
// (.net), so captures stop at sentence punctuation instead of running
// across it.
const phraseToken = `\.?[a-z0-9+#]+(?:[.\-][a-z0-9+#]+)*`

var (
	levelBeforePattern = regexp.MustCompile(
		`(?i)\b(expert|advanced|proficient|intermediate|basic|beginner)\s+(?:knowledge\s+(?:of|in)\s+|in\s+|with\s+)?((?:` + phraseToken + ` ?){1,3})`)
	levelAfterPattern = regexp.MustCompile(
		`(?i)\b((?:` + phraseToken + ` ?){1,3}?)\s*(?:at\s+)?(expert|advanced|proficient|intermediate|basic|beginner)\s+level\b`)

	yearsLeadPattern = regexp.MustCompile(
		`(\d+)\+?\s*(?:years?|yrs?)\s*(?:of\s*)?experience\s*(?:with|in|using)?\s*((?:` + phraseToken + ` ?){1,4})`)
	yearsAsPattern = regexp.MustCompile(
		`(\d+)\+?\s*(?:years?|yrs?)\s+(?:as|of)\s+((?:` + phraseToken + ` ?){1,4})`)
	yearsTrailPattern = regexp.MustCompile(
		`((?:` + phraseToken + ` ?){1,4}?)\s*(?:with\s*)?(\d+)\+?\s*(?:years?|yrs?)\s*(?:of\s*)?experience`)

	heuristicDotted  = regexp.MustCompile(`^[A-Za-z]+\.[A-Za-z]+$`)
	heuristicAcronym = regexp.MustCompile(`^[A-Z]{2,6}$`)
	heuristicSuffix  = regexp.MustCompile(`^[A-Za-z]\+\+$|^[A-Za-z]#$`)
	heuristicCap     = regexp.MustCompile(`^[A-Z][a-z]{2,}$`)
	tokenSplit       = regexp.MustCompile(`[^A-Za-z0-9+#.]+`)
)

// Common words the capitalization heuristic must never promote to skills.
var heuristicStopWords = map[string]struct{}{
	"the": {}, "and": {}, "with": {}, "for": {}, "from": {}, "this": {},
	"that": {}, "have": {}, "has": {}, "was": {}, "were": {}, "are": {},
	"worked": {}, "working": {}, "developed": {}, "built": {}, "using": {},
	"used": {}, "experience": {}, "experienced": {}, "skills": {},
	"education": {}, "university": {}, "college": {}, "team": {},
	"company": {}, "projects": {}, "project": {}, "developer": {},
	"engineer": {}, "senior": {}, "junior": {}, "lead": {}, "years": {},
	"including": {}, "responsible": {}, "knowledge": {}, "strong": {},
}

// Stop-words stripped from experience-requirement phrases.
var phraseStopWords = map[string]struct{}{
	"and": {}, "with": {}, "for": {}, "the": {}, "or": {}, "in": {},
	"of": {}, "using": {}, "a": {}, "an": {},
}

// SkillExtraction is the result of scanning one span of text.
type SkillExtraction struct {
	// Skills is ordered and de-duplicated, with inline annotations for
	// detected years or proficiency.
	Skills []string
	Levels map[string]string
	Years  map[string]int
}

// SkillExtractor detects canonical skills, proficiency levels and
// years-of-experience figures in cleaned text. The vocabulary is immutable
// after construction.
type SkillExtractor struct {
	vocabulary []string
	patterns   map[string]*regexp.Regexp
	logger     *zap.Logger
}

func NewSkillExtractor(vocabulary []string, logger *zap.Logger) *SkillExtractor {
	patterns := make(map[string]*regexp.Regexp, len(vocabulary))
	for _, skill := range vocabulary {
		patterns[skill] = wholeWordPattern(skill)
	}

	return &SkillExtractor{
		vocabulary: vocabulary,
		patterns:   patterns,
		logger:     logger,
	}
}

// Extract runs detection, proficiency extraction and years extraction over
// one span of text. tags is an optional externally supplied canonical
// vocabulary searched ahead of the curated list.
func (e *SkillExtractor) Extract(text string, tags []string) SkillExtraction {
	result := SkillExtraction{
		Levels: make(map[string]string),
		Years:  make(map[string]int),
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	cleaned := CleanText(text)
	normalized := NormalizeTech(cleaned)

	seen := make(map[string]struct{})
	add := func(skill string) {
		key := strings.ToLower(skill)
		if len(key) < 2 {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		result.Skills = append(result.Skills, key)
	}

	// Externally supplied tags first, then the curated vocabulary.
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if wholeWordPattern(tag).MatchString(normalized) {
			add(tag)
		}
	}
	for _, skill := range e.vocabulary {
		if e.patterns[skill].MatchString(normalized) {
			add(skill)
		}
	}

	// Heuristic pass over the original casing for skill-like tokens the
	// vocabulary does not know.
	for _, token := range tokenSplit.Split(cleaned, -1) {
		token = strings.Trim(token, ".")
		if len(token) < 2 {
			continue
		}
		if _, stop := heuristicStopWords[strings.ToLower(token)]; stop {
			continue
		}
		if heuristicDotted.MatchString(token) ||
			heuristicAcronym.MatchString(token) ||
			heuristicSuffix.MatchString(token) ||
			heuristicCap.MatchString(token) {
			add(token)
		}
	}

	result.Levels = e.extractLevels(normalized, result.Skills)
	result.Years = e.ExtractYears(text)

	return result
}

// extractLevels scans for "<level> [knowledge of] <skill>" and
// "<skill> [at] <level> level" phrasings. A candidate skill name is only
// accepted when it matches the known set by containment in either
// direction.
func (e *SkillExtractor) extractLevels(normalized string, known []string) map[string]string {
	levels := make(map[string]string)

	record := func(rawSkill, rawLevel string) {
		level, ok := levelAliases[strings.ToLower(strings.TrimSpace(rawLevel))]
		if !ok {
			return
		}
		phrase := strings.TrimSpace(strings.ToLower(rawSkill))
		if phrase == "" {
			return
		}
		for _, skill := range known {
			if strings.Contains(phrase, skill) || strings.Contains(skill, phrase) {
				if _, exists := levels[skill]; !exists {
					levels[skill] = level
				}
				return
			}
		}
	}

	for _, m := range levelBeforePattern.FindAllStringSubmatch(normalized, -1) {
		record(m[2], m[1])
	}
	for _, m := range levelAfterPattern.FindAllStringSubmatch(normalized, -1) {
		record(m[1], m[2])
	}

	return levels
}

// ExtractYears scans for quantified experience phrases and maps each onto
// a normalized technology name. Duplicate mentions of the same technology
// keep the first occurrence; later ones are ignored.
func (e *SkillExtractor) ExtractYears(text string) map[string]int {
	years := make(map[string]int)
	if strings.TrimSpace(text) == "" {
		return years
	}

	normalized := NormalizeTech(CleanText(text))

	record := func(numeric, phrase string) {
		n, err := strconv.Atoi(numeric)
		if err != nil || n <= 0 {
			return
		}

		for _, key := range e.resolveSkills(phrase) {
			if _, exists := years[key]; exists {
				continue
			}
			years[key] = n
		}
	}

	for _, pattern := range []*regexp.Regexp{yearsLeadPattern, yearsAsPattern} {
		for _, m := range pattern.FindAllStringSubmatch(normalized, -1) {
			record(m[1], m[2])
		}
	}
	for _, m := range yearsTrailPattern.FindAllStringSubmatch(normalized, -1) {
		record(m[2], m[1])
	}

	return years
}

// resolveSkills strips stop-words from a captured skill phrase and maps
// it onto every vocabulary skill the phrase names, so "python and django"
// credits both. A skill contained in a longer match is dropped ("spring"
// under "spring boot"). Phrases naming no known skill are retained as a
// single free-form key when longer than two characters.
func (e *SkillExtractor) resolveSkills(phrase string) []string {
	var kept []string
	for _, word := range strings.Fields(strings.ToLower(phrase)) {
		if _, stop := phraseStopWords[word]; stop {
			continue
		}
		kept = append(kept, word)
	}
	cleanPhrase := strings.Join(kept, " ")
	if cleanPhrase == "" {
		return nil
	}

	var matched []string
	for _, skill := range e.vocabulary {
		if e.patterns[skill].MatchString(cleanPhrase) {
			matched = append(matched, skill)
		}
	}

	var keys []string
	for _, skill := range matched {
		shadowed := false
		for _, other := range matched {
			if other != skill && strings.Contains(other, skill) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			keys = append(keys, skill)
		}
	}
	if len(keys) > 0 {
		return keys
	}

	if len(cleanPhrase) > 2 {
		return []string{cleanPhrase}
	}
	return nil
}

// AnnotateSkills renders the ordered skill list with inline years or
// proficiency annotations, matching the stored presentation format.
func AnnotateSkills(extraction SkillExtraction) []string {
	annotated := make([]string, 0, len(extraction.Skills))
	for _, skill := range extraction.Skills {
		if y, ok := extraction.Years[skill]; ok {
			annotated = append(annotated, fmt.Sprintf("%s (%d years)", skill, y))
			continue
		}
		if lvl, ok := extraction.Levels[skill]; ok {
			annotated = append(annotated, fmt.Sprintf("%s (%s)", skill, lvl))
			continue
		}
		annotated = append(annotated, skill)
	}
	return annotated
}

// BaseSkill strips an inline annotation, returning the canonical name.
func BaseSkill(annotated string) string {
	if idx := strings.Index(annotated, " ("); idx > 0 {
		return annotated[:idx]
	}
	return annotated
}
