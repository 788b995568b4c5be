package ai

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	fallbackPassScore  = 70
	fallbackFailScore  = 30
	fallbackEfficiency = 60
	minCodeRunes       = 20
	minLogicRunes      = 10
)

var lineComment = regexp.MustCompile(`#.*`)

// FallbackGrade scores a submission with fixed rules. Code passes when it is
// longer than a trivial snippet and is not made only of comments. The
// correctness sub-score is derived from the target score so the composite
// of the sub-scores reproduces it exactly.
func FallbackGrade(input GradingContext) GradingResult {
	code := strings.TrimSpace(input.Code)
	hasComment := strings.Contains(code, "#")
	logic := strings.TrimSpace(lineComment.ReplaceAllString(code, ""))
	passed := utf8.RuneCountInString(code) > minCodeRunes && utf8.RuneCountInString(logic) > minLogicRunes

	target := fallbackFailScore
	if passed {
		target = fallbackPassScore
	}
	quality := 50
	if hasComment {
		quality = 70
	}

	result := GradingResult{
		Analysis: Analysis{
			Correctness: correctnessFor(target, quality, fallbackEfficiency),
			CodeQuality: quality,
			Efficiency:  fallbackEfficiency,
			Suggestions: []string{
				"Add comments that explain the logic of your code",
				"Consider handling invalid input and errors",
				"Try to simplify the structure of your code",
			},
			Strengths:  []string{},
			Weaknesses: []string{},
		},
		Fallback: true,
	}
	if passed {
		result.Feedback = "Submission received. Run your code against a few inputs to confirm it works."
		result.Analysis.Strengths = []string{"The code is clearly structured"}
	} else {
		result.Feedback = "The submission is too short. Complete the implementation and try again."
		result.Analysis.Weaknesses = []string{"The implementation is incomplete"}
	}
	result.normalize()
	return result
}

// correctnessFor solves Composite(c, quality, efficiency) == target for c.
func correctnessFor(target, quality, efficiency int) int {
	remainder := target*100 - qualityWeight*quality - efficiencyWeight*efficiency
	c := clampScore((remainder + correctnessWeight/2) / correctnessWeight)
	for c < 100 && Composite(c, quality, efficiency) < target {
		c++
	}
	for c > 0 && Composite(c, quality, efficiency) > target {
		c--
	}
	return c
}

// FallbackGrader grades every submission with FallbackGrade. It is used
// when no model is configured.
type FallbackGrader struct{}

// Grade implements Grader.
func (FallbackGrader) Grade(_ context.Context, input GradingContext) GradingResult {
	return FallbackGrade(input)
}

// CheckSyntax implements Grader and accepts every submission.
func (FallbackGrader) CheckSyntax(context.Context, string) SyntaxCheckResult {
	return SyntaxCheckResult{Valid: true}
}
