// Package catalog holds the static badge catalog seeded alongside the
// curriculum.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/noah-isme/pydays-api/internal/models"
)

// Badge codes referenced by the progress service.
const (
	BadgeFirstDay     = "first_day"
	BadgeWeekWarrior  = "week_warrior"
	BadgePerfectScore = "perfect_score"
	BadgeSpeedDemon   = "speed_demon"
	BadgeHalfway      = "halfway"
	BadgeGraduate     = "graduate"
)

type badgeEntry struct {
	Code        string           `yaml:"code"`
	Name        string           `yaml:"name"`
	Icon        string           `yaml:"icon"`
	Description string           `yaml:"description"`
	Points      int              `yaml:"points"`
	Rule        models.BadgeRule `yaml:"rule"`
}

//go:embed data/badges.yaml
var badgesYAML []byte

// Badges decodes the embedded catalog into badge rows.
func Badges() ([]models.Badge, error) {
	return decodeBadges(badgesYAML)
}

func decodeBadges(data []byte) ([]models.Badge, error) {
	var doc struct {
		Badges []badgeEntry `yaml:"badges"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode badge catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Badges))
	badges := make([]models.Badge, 0, len(doc.Badges))
	for _, entry := range doc.Badges {
		if entry.Code == "" {
			return nil, fmt.Errorf("badge %q has no code", entry.Name)
		}
		if _, ok := seen[entry.Code]; ok {
			return nil, fmt.Errorf("duplicate badge code %q", entry.Code)
		}
		seen[entry.Code] = struct{}{}

		badges = append(badges, models.Badge{
			Code:        entry.Code,
			Name:        entry.Name,
			Icon:        entry.Icon,
			Description: entry.Description,
			Rule:        datatypes.NewJSONType(entry.Rule),
			Points:      entry.Points,
		})
	}
	return badges, nil
}

// Achievement is the state of a user right after a recorded pass.
type Achievement struct {
	LessonID         int
	LessonCompleted  bool
	LessonsCompleted int
}

// Qualifies reports whether a badge rule is met. Streak and fast-solve rules
// need activity timestamps that are not tracked yet and never qualify.
func Qualifies(rule models.BadgeRule, a Achievement) bool {
	switch rule.Type {
	case models.BadgeRuleCompleteDay:
		return a.LessonCompleted && a.LessonID == rule.LessonID
	case models.BadgeRulePerfectDay:
		return a.LessonCompleted
	case models.BadgeRuleCompleteDays:
		return a.LessonCompleted && rule.Count > 0 && a.LessonsCompleted >= rule.Count
	default:
		return false
	}
}
