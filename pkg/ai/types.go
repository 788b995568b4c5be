package ai

import "context"

const (
	// PassingScore is the minimum composite score of a passing submission.
	PassingScore = 60

	correctnessWeight = 60
	qualityWeight     = 25
	efficiencyWeight  = 15
)

// GradingContext contains the artefacts needed to grade a submission.
type GradingContext struct {
	Description       string
	ReferenceAnswer   string
	AnswerExplanation string
	Criteria          []string
	Code              string
}

// Analysis breaks a grade down into weighted sub-scores and review notes.
type Analysis struct {
	Correctness int      `json:"correctness"`
	CodeQuality int      `json:"code_quality"`
	Efficiency  int      `json:"efficiency"`
	Suggestions []string `json:"suggestions"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
}

// GradingResult is the structured verdict for one submission. Score is
// always the weighted composite of the analysis sub-scores and Passed is
// always Score >= PassingScore, whichever path produced the result.
type GradingResult struct {
	Passed   bool     `json:"passed"`
	Score    int      `json:"score"`
	Feedback string   `json:"feedback"`
	Analysis Analysis `json:"analysis"`
	Fallback bool     `json:"-"`
}

// SyntaxCheckResult reports whether submitted code parses.
type SyntaxCheckResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Grader grades submissions. Implementations never fail outward: when the
// model is unavailable they degrade to FallbackGrade.
type Grader interface {
	Grade(ctx context.Context, input GradingContext) GradingResult
	CheckSyntax(ctx context.Context, code string) SyntaxCheckResult
}

// Composite returns round(0.6*correctness + 0.25*quality + 0.15*efficiency)
// using integer arithmetic so the rounding is exact.
func Composite(correctness, quality, efficiency int) int {
	return (correctnessWeight*correctness + qualityWeight*quality + efficiencyWeight*efficiency + 50) / 100
}

func clampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// normalize recomputes Score and Passed from the sub-scores.
func (r *GradingResult) normalize() {
	r.Analysis.Correctness = clampScore(r.Analysis.Correctness)
	r.Analysis.CodeQuality = clampScore(r.Analysis.CodeQuality)
	r.Analysis.Efficiency = clampScore(r.Analysis.Efficiency)
	r.Score = Composite(r.Analysis.Correctness, r.Analysis.CodeQuality, r.Analysis.Efficiency)
	r.Passed = r.Score >= PassingScore
	if r.Analysis.Suggestions == nil {
		r.Analysis.Suggestions = []string{}
	}
	if r.Analysis.Strengths == nil {
		r.Analysis.Strengths = []string{}
	}
	if r.Analysis.Weaknesses == nil {
		r.Analysis.Weaknesses = []string{}
	}
}
