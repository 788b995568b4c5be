package curriculum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	// DefaultSummary is used when no paragraph qualifies as a summary.
	DefaultSummary = "Learn the core concepts and hands-on skills of Python programming."

	maxTitleRunes      = 50
	maxSummaryRunes    = 150
	minSummaryRunes    = 20
	maxObjectives      = 5
	wordsPerMinute     = 200
	objectiveMinRunes  = 2
	objectiveMaxRunes  = 50
	objectiveHeadLevel = 2
)

var (
	subtitlePattern  = regexp.MustCompile(`(?i)(?:\bday\s*\d+|第\s*[0-9一二三四五六七八九十百]+\s*天)\s*[-–—:：]\s*(.+)`)
	readTimePattern  = regexp.MustCompile(`(?i)(?:estimated\s+reading\s+time|reading\s+time|阅读大约需要)\s*:\s*(\d+)\s*(minutes|minute|mins|min|m|hours|hour|hrs|hr|h|分钟|小时)`)
	tocItemPattern   = regexp.MustCompile(`^\s*[-*]\s+\[(.+?)\]\(.*\)\s*$`)
	exerciseKeywords = regexp.MustCompile(`(?i)exercise|练习`)

	genericObjectives = []string{
		"Understand the core concepts of this lesson",
		"Master the related Python syntax",
		"Reinforce the material through hands-on exercises",
	}
)

// Parse converts one raw lesson document into a LessonDocument. It never
// fails: every extraction step falls back to a documented default.
func Parse(rawText string, lessonID int) LessonDocument {
	blocks := ParseBlocks(rawText)

	return LessonDocument{
		ID:                 lessonID,
		Order:              lessonID,
		Title:              extractTitle(blocks, lessonID),
		Summary:            extractSummary(blocks),
		EstimatedTime:      extractEstimatedTime(rawText),
		RawText:            rawText,
		Blocks:             blocks,
		Exercises:          ParseExercises(rawText, lessonID),
		LearningObjectives: extractObjectives(rawText, blocks),
	}
}

func extractTitle(blocks []Block, lessonID int) string {
	for _, block := range blocks {
		if block.Type != BlockHeading || !isDayMarker(block.Content) {
			continue
		}
		title := strings.TrimSpace(block.Content)
		if runeLen(title) <= maxTitleRunes {
			return title
		}
		if m := subtitlePattern.FindStringSubmatch(title); m != nil {
			if subtitle := strings.TrimSpace(m[1]); subtitle != "" {
				return truncateRunes(subtitle, maxTitleRunes)
			}
		}
		return title
	}
	return fmt.Sprintf("Day %d", lessonID)
}

func extractSummary(blocks []Block) string {
	for _, block := range blocks {
		if block.Type != BlockParagraph {
			continue
		}
		if strings.HasPrefix(block.Content, "<") || strings.HasPrefix(block.Content, "[") {
			continue
		}
		text := stripHTML(block.Content)
		if runeLen(text) < minSummaryRunes {
			continue
		}
		if runeLen(text) > maxSummaryRunes {
			return truncateRunes(text, maxSummaryRunes-3) + "..."
		}
		return text
	}
	return DefaultSummary
}

func extractEstimatedTime(rawText string) string {
	if m := readTimePattern.FindStringSubmatch(fold(rawText)); m != nil {
		amount, err := strconv.Atoi(m[1])
		if err == nil {
			switch strings.ToLower(m[2]) {
			case "h", "hr", "hrs", "hour", "hours", "小时":
				if amount == 1 {
					return "1 hour"
				}
				return fmt.Sprintf("%d hours", amount)
			default:
				return fmt.Sprintf("%d min", amount)
			}
		}
	}
	return estimateFromWords(countWords(rawText))
}

// countWords counts whitespace separated tokens, treating each Han rune as a
// word of its own.
func countWords(text string) int {
	count := 0
	for _, field := range strings.Fields(text) {
		han := 0
		other := false
		for _, r := range field {
			if unicode.Is(unicode.Han, r) {
				han++
				continue
			}
			if unicode.IsLetter(r) || unicode.IsNumber(r) {
				other = true
			}
		}
		count += han
		if other {
			count++
		}
	}
	return count
}

func estimateFromWords(words int) string {
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	switch {
	case minutes < 30:
		return fmt.Sprintf("%d min", minutes)
	case minutes <= 90:
		band := (minutes + 15) / 30 * 30
		if band > 90 {
			band = 90
		}
		return fmt.Sprintf("%d min", band)
	default:
		hours := minutes / 60
		return fmt.Sprintf("%d-%d hours", hours, hours+1)
	}
}

func extractObjectives(rawText string, blocks []Block) []string {
	objectives := make([]string, 0, maxObjectives)
	for _, line := range splitLines(rawText) {
		m := tocItemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := stripHTML(m[1])
		if isDayMarker(text) {
			continue
		}
		if n := runeLen(text); n <= objectiveMinRunes || n >= objectiveMaxRunes {
			continue
		}
		objectives = append(objectives, text)
		if len(objectives) == maxObjectives {
			return objectives
		}
	}
	if len(objectives) > 0 {
		return objectives
	}

	for _, block := range blocks {
		if block.Type != BlockHeading || block.Level != objectiveHeadLevel {
			continue
		}
		if exerciseKeywords.MatchString(block.Content) {
			continue
		}
		text := trimDecoration(block.Content)
		if text == "" {
			continue
		}
		objectives = append(objectives, "Understand "+text)
		if len(objectives) == maxObjectives {
			return objectives
		}
	}
	if len(objectives) > 0 {
		return objectives
	}

	return append(objectives, genericObjectives...)
}
