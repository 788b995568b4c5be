package curriculum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateExtraChallengesIsDeterministicAndNonEmpty(t *testing.T) {
	for id := MinLessonID; id <= MaxLessonID; id++ {
		first := GenerateExtraChallenges(id, "Lists")
		second := GenerateExtraChallenges(id, "Lists")

		require.NotEmpty(t, first, "lesson %d", id)
		require.Equal(t, first, second, "lesson %d", id)
		for i, challenge := range first {
			require.Equal(t, 3, challenge.Level)
			require.Equal(t, i+1, challenge.Order)
			require.NotEmpty(t, challenge.ReferenceAnswer)
			require.NotEmpty(t, challenge.AnswerExplanation)
			require.NotEmpty(t, challenge.GradingCriteria)
		}
	}
}

func TestGenerateExtraChallengesUsesCuratedTemplates(t *testing.T) {
	challenges := GenerateExtraChallenges(1, "ignored")

	require.Len(t, challenges, 2)
	require.Equal(t, "challenge_1_3_1", challenges[0].ID)
	require.Equal(t, "Personal Info Card", challenges[0].Title)
	require.Contains(t, challenges[0].ReferenceAnswer, "input(")
	require.Equal(t, []string{
		"Reads the values with input()",
		"Formats the output with f-strings",
		"The card is clear and easy to read",
	}, challenges[0].GradingCriteria)
}

func TestGenerateExtraChallengesGenericPair(t *testing.T) {
	challenges := GenerateExtraChallenges(12, "Modules")

	require.Len(t, challenges, 2)
	require.Equal(t, "challenge_12_3_1", challenges[0].ID)
	require.Equal(t, "Day 12 Comprehensive Review", challenges[0].Title)
	require.Equal(t, "challenge_12_3_2", challenges[1].ID)
	require.Equal(t, "Mini Project: Modules", challenges[1].Title)
	require.Equal(t, []string{"day-12", "project"}, challenges[1].Tags)
	require.Equal(t, DefaultGradingCriteria, challenges[1].GradingCriteria)
	require.Equal(t, DefaultAnswerExplanation, challenges[1].AnswerExplanation)
}

func TestGenerateExtraChallengesReturnsIndependentCopies(t *testing.T) {
	challenges := GenerateExtraChallenges(2, "Variables")
	challenges[0].Hints[0] = "mutated"

	require.NotEqual(t, "mutated", GenerateExtraChallenges(2, "Variables")[0].Hints[0])
}
