package curriculum

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const generatedLevel = 3

// DefaultAnswerExplanation accompanies challenges that have no curated
// explanation.
const DefaultAnswerExplanation = "Apply everything covered in this lesson to complete the challenge."

// DefaultGradingCriteria is used for challenges without curated criteria.
var DefaultGradingCriteria = []string{
	"The code runs without errors",
	"The program does what the task asks",
	"The code is clean and readable",
	"The solution uses the concepts from this lesson",
}

// DefaultReferenceAnswer stands in for challenges without an authored answer.
const DefaultReferenceAnswer = "# Any solution that meets the grading criteria is accepted.\n"

type challengeTemplate struct {
	Title             string   `yaml:"title"`
	Description       string   `yaml:"description"`
	StarterCode       string   `yaml:"starter_code"`
	ReferenceAnswer   string   `yaml:"reference_answer"`
	AnswerExplanation string   `yaml:"answer_explanation"`
	Hints             []string `yaml:"hints"`
	Tags              []string `yaml:"tags"`
	GradingCriteria   []string `yaml:"grading_criteria"`
}

type templateTable struct {
	Lessons map[int][]challengeTemplate `yaml:"lessons"`
}

//go:embed data/templates.yaml
var templatesYAML []byte

var curated = mustLoadTemplates(templatesYAML)

func mustLoadTemplates(data []byte) map[int][]challengeTemplate {
	var table templateTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		panic(fmt.Sprintf("curriculum: decode challenge templates: %v", err))
	}
	return table.Lessons
}

func genericTemplates(lessonID int, title string) []challengeTemplate {
	dayTag := fmt.Sprintf("day-%d", lessonID)
	return []challengeTemplate{
		{
			Title:       fmt.Sprintf("Day %d Comprehensive Review", lessonID),
			Description: "Write one program that combines every concept covered in this lesson.",
			StarterCode: fmt.Sprintf("# Day %d Comprehensive Review\n# Write your code below\n\n", lessonID),
			Hints: []string{
				"Review every concept from this lesson",
				"Try to combine several concepts in one program",
			},
			Tags: []string{dayTag, "comprehensive"},
		},
		{
			Title:       fmt.Sprintf("Mini Project: %s", title),
			Description: "Use what you learned in this lesson to build a small practical project.",
			StarterCode: fmt.Sprintf("# Mini Project: %s\n# Write your code below\n\n", title),
			Hints: []string{
				"Think about a real situation where this is useful",
				"Keep the code readable",
			},
			Tags: []string{dayTag, "project"},
		},
	}
}

// GenerateExtraChallenges returns the level 3 challenges for a lesson. The
// result is never empty and depends only on lessonID and title.
func GenerateExtraChallenges(lessonID int, title string) []GeneratedChallenge {
	templates, ok := curated[lessonID]
	if !ok || len(templates) == 0 {
		templates = genericTemplates(lessonID, title)
	}

	challenges := make([]GeneratedChallenge, 0, len(templates))
	for i, tpl := range templates {
		challenge := GeneratedChallenge{
			ID:                fmt.Sprintf("challenge_%d_%d_%d", lessonID, generatedLevel, i+1),
			Level:             generatedLevel,
			Order:             i + 1,
			Title:             tpl.Title,
			Description:       tpl.Description,
			StarterCode:       tpl.StarterCode,
			ReferenceAnswer:   tpl.ReferenceAnswer,
			AnswerExplanation: tpl.AnswerExplanation,
			Hints:             append([]string(nil), tpl.Hints...),
			Tags:              append([]string(nil), tpl.Tags...),
			GradingCriteria:   append([]string(nil), tpl.GradingCriteria...),
		}
		if challenge.ReferenceAnswer == "" {
			challenge.ReferenceAnswer = DefaultReferenceAnswer
		}
		if challenge.AnswerExplanation == "" {
			challenge.AnswerExplanation = DefaultAnswerExplanation
		}
		if len(challenge.GradingCriteria) == 0 {
			challenge.GradingCriteria = append([]string(nil), DefaultGradingCriteria...)
		}
		challenges = append(challenges, challenge)
	}
	return challenges
}
