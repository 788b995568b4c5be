package curriculum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	minExerciseRunes = 5
	starterEchoRunes = 60
)

var (
	levelPattern    = regexp.MustCompile(`(?i)level\s*([1-3])|([1-3])\s*级`)
	numberedPattern = regexp.MustCompile(`^\d+[.)]\s+(.+)$`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

type vocabularyTerm struct {
	tag     string
	pattern *regexp.Regexp
}

// vocabulary is ordered; tags are emitted in this order.
var vocabulary = []vocabularyTerm{
	{"print", regexp.MustCompile(`(?i)\bprint|打印|输出`)},
	{"variable", regexp.MustCompile(`(?i)\bvariables?\b|变量`)},
	{"string", regexp.MustCompile(`(?i)\bstrings?\b|\bstr\b|字符串`)},
	{"number", regexp.MustCompile(`(?i)\bnumbers?\b|\bint\b|\bfloat\b|数字`)},
	{"list", regexp.MustCompile(`(?i)\blists?\b|列表`)},
	{"tuple", regexp.MustCompile(`(?i)\btuples?\b|元组`)},
	{"set", regexp.MustCompile(`(?i)\bsets?\b|集合`)},
	{"dictionary", regexp.MustCompile(`(?i)\bdictionar(?:y|ies)\b|\bdict\b|字典`)},
	{"condition", regexp.MustCompile(`(?i)\bcondition(?:s|al|als)?\b|\bif\b|条件`)},
	{"loop", regexp.MustCompile(`(?i)\bloops?\b|\biterat|循环`)},
	{"function", regexp.MustCompile(`(?i)\bfunctions?\b|\bdef\b|函数`)},
	{"module", regexp.MustCompile(`(?i)\bmodules?\b|\bimport\b|模块`)},
	{"class", regexp.MustCompile(`(?i)\bclass(?:es)?\b|面向对象|对象`)},
	{"file", regexp.MustCompile(`(?i)\bfiles?\b|文件`)},
	{"exception", regexp.MustCompile(`(?i)\bexceptions?\b|\berrors?\b|异常`)},
	{"regex", regexp.MustCompile(`(?i)\bregex|\bregular\s+expressions?\b|正则`)},
	{"json", regexp.MustCompile(`(?i)\bjson\b`)},
}

var keywordHints = map[string]string{
	"print":    "Use print() to show output; separate several values with commas.",
	"variable": "Give variables descriptive names and assign values with =.",
	"function": "Define a function with def, pass inputs as parameters and return the result.",
	"list":     "Lists use square brackets; append() adds an item and len() counts them.",
}

var hintOrder = []string{"print", "variable", "function", "list"}

var genericHints = []string{
	"Break the problem into small steps and check each one.",
	"Compare your output with the expected result before submitting.",
}

func matchedTags(text string) []string {
	tags := make([]string, 0, 4)
	for _, term := range vocabulary {
		if term.pattern.MatchString(text) {
			tags = append(tags, term.tag)
		}
	}
	return tags
}

func hintsFor(tags []string) []string {
	present := make(map[string]bool, len(tags))
	for _, tag := range tags {
		present[tag] = true
	}
	hints := make([]string, 0, len(hintOrder))
	for _, key := range hintOrder {
		if present[key] {
			hints = append(hints, keywordHints[key])
		}
	}
	if len(hints) == 0 {
		hints = append(hints, genericHints...)
	}
	return hints
}

func starterCodeFor(description string) string {
	echo := truncateRunes(description, starterEchoRunes)
	if echo != description {
		echo += "..."
	}
	return fmt.Sprintf("# %s\n# Write your code below\n\n", echo)
}

// exerciseScanner carries the state of one pass over a lesson's lines.
type exerciseScanner struct {
	lessonID     int
	inSection    bool
	sectionLevel int
	level        int
	inFence      bool
	current      []string
	set          ExerciseSet
}

func (s *exerciseScanner) flush() {
	if len(s.current) == 0 {
		return
	}
	description := stripHTML(strings.Join(s.current, " "))
	description = strings.TrimSpace(spacePattern.ReplaceAllString(description, " "))
	s.current = nil
	if runeLen(description) <= minExerciseRunes {
		return
	}

	order := len(s.set.ByLevel(s.level)) + 1
	tags := matchedTags(description)
	s.set.add(Exercise{
		ID:          fmt.Sprintf("day%d_level%d_%d", s.lessonID, s.level, order),
		Level:       s.level,
		Order:       order,
		Description: description,
		StarterCode: starterCodeFor(description),
		Hints:       hintsFor(tags),
		Tags:        append([]string{fmt.Sprintf("day-%d", s.lessonID)}, tags...),
	})
}

func (s *exerciseScanner) heading(depth int, text string) {
	s.flush()
	folded := fold(stripHTML(text))
	isExercise := exerciseKeywords.MatchString(folded)

	level := 0
	if m := levelPattern.FindStringSubmatch(folded); m != nil {
		digit := m[1]
		if digit == "" {
			digit = m[2]
		}
		level, _ = strconv.Atoi(digit)
	}

	switch {
	case !s.inSection:
		if isExercise {
			s.inSection = true
			s.sectionLevel = depth
			s.level = level
		}
	case depth <= s.sectionLevel:
		if isExercise || level > 0 {
			s.sectionLevel = depth
			s.level = level
			return
		}
		s.inSection = false
		s.level = 0
	case level > 0:
		s.level = level
	}
}

func (s *exerciseScanner) line(raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}

	if m := numberedPattern.FindStringSubmatch(trimmed); m != nil {
		s.flush()
		s.current = []string{m[1]}
		return
	}

	if len(s.current) > 0 {
		s.current = append(s.current, trimmed)
	}
}

// ParseExercises extracts the leveled exercises of a lesson. Every numbered
// line starts an exercise, whatever its indentation, and the non-blank lines
// that follow it wrap into its description until the next numbered line,
// heading or code fence.
func ParseExercises(rawText string, lessonID int) ExerciseSet {
	s := &exerciseScanner{lessonID: lessonID, set: newExerciseSet()}

	for _, raw := range splitLines(rawText) {
		trimmed := strings.TrimSpace(raw)

		if _, _, ok := matchFence(trimmed); ok {
			s.flush()
			s.inFence = !s.inFence
			continue
		}
		if s.inFence {
			continue
		}

		if depth, text, ok := matchHeading(trimmed); ok {
			s.heading(depth, text)
			continue
		}

		if !s.inSection || s.level == 0 {
			continue
		}
		s.line(raw)
	}
	s.flush()

	return s.set
}
