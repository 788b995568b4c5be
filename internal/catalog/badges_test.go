package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pydays-api/internal/models"
)

func TestBadgesCatalog(t *testing.T) {
	badges, err := Badges()
	require.NoError(t, err)
	require.Len(t, badges, 6)

	codes := make([]string, 0, len(badges))
	for _, badge := range badges {
		codes = append(codes, badge.Code)
		require.NotEmpty(t, badge.Name)
		require.NotEmpty(t, badge.Icon)
		require.Positive(t, badge.Points)
	}
	require.Equal(t, []string{BadgeFirstDay, BadgeWeekWarrior, BadgePerfectScore, BadgeSpeedDemon, BadgeHalfway, BadgeGraduate}, codes)

	first := badges[0].Rule.Data()
	require.Equal(t, models.BadgeRuleCompleteDay, first.Type)
	require.Equal(t, 1, first.LessonID)

	graduate := badges[5].Rule.Data()
	require.Equal(t, models.BadgeRuleCompleteDays, graduate.Type)
	require.Equal(t, 30, graduate.Count)
	require.Equal(t, 500, badges[5].Points)
}

func TestDecodeBadgesRejectsDuplicates(t *testing.T) {
	_, err := decodeBadges([]byte("badges:\n  - code: a\n    name: A\n  - code: a\n    name: B\n"))
	require.Error(t, err)

	_, err = decodeBadges([]byte("badges:\n  - name: nameless\n"))
	require.Error(t, err)
}

func TestQualifies(t *testing.T) {
	firstDay := models.BadgeRule{Type: models.BadgeRuleCompleteDay, LessonID: 1}
	require.True(t, Qualifies(firstDay, Achievement{LessonID: 1, LessonCompleted: true, LessonsCompleted: 1}))
	require.False(t, Qualifies(firstDay, Achievement{LessonID: 1}))
	require.False(t, Qualifies(firstDay, Achievement{LessonID: 2, LessonCompleted: true}))

	perfect := models.BadgeRule{Type: models.BadgeRulePerfectDay}
	require.True(t, Qualifies(perfect, Achievement{LessonID: 9, LessonCompleted: true}))
	require.False(t, Qualifies(perfect, Achievement{LessonID: 9}))

	halfway := models.BadgeRule{Type: models.BadgeRuleCompleteDays, Count: 15}
	require.False(t, Qualifies(halfway, Achievement{LessonCompleted: true, LessonsCompleted: 14}))
	require.True(t, Qualifies(halfway, Achievement{LessonCompleted: true, LessonsCompleted: 15}))
	require.True(t, Qualifies(halfway, Achievement{LessonCompleted: true, LessonsCompleted: 16}))

	require.False(t, Qualifies(models.BadgeRule{Type: models.BadgeRuleStreak, Days: 7}, Achievement{LessonCompleted: true, LessonsCompleted: 30}))
	require.False(t, Qualifies(models.BadgeRule{Type: models.BadgeRuleFastSolve, Minutes: 5}, Achievement{LessonCompleted: true}))
}
