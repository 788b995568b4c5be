package models

import (
	"fmt"
	"time"
)

// LevelCounters tracks passed and total challenges per level.
type LevelCounters struct {
	Level1Passed int `gorm:"not null;default:0" json:"level1_passed"`
	Level1Total  int `gorm:"not null;default:0" json:"level1_total"`
	Level2Passed int `gorm:"not null;default:0" json:"level2_passed"`
	Level2Total  int `gorm:"not null;default:0" json:"level2_total"`
	Level3Passed int `gorm:"not null;default:0" json:"level3_passed"`
	Level3Total  int `gorm:"not null;default:0" json:"level3_total"`
}

// Passed returns the passed counter of a level.
func (c LevelCounters) Passed(level int) int {
	switch level {
	case 1:
		return c.Level1Passed
	case 2:
		return c.Level2Passed
	case 3:
		return c.Level3Passed
	default:
		return 0
	}
}

// Total returns the number of challenges of a level.
func (c LevelCounters) Total(level int) int {
	switch level {
	case 1:
		return c.Level1Total
	case 2:
		return c.Level2Total
	case 3:
		return c.Level3Total
	default:
		return 0
	}
}

// SetTotal sets the number of challenges of a level.
func (c *LevelCounters) SetTotal(level, total int) {
	switch level {
	case 1:
		c.Level1Total = total
	case 2:
		c.Level2Total = total
	case 3:
		c.Level3Total = total
	}
}

// Complete reports whether every challenge of the lesson has been passed.
func (c LevelCounters) Complete() bool {
	total := c.Level1Total + c.Level2Total + c.Level3Total
	if total == 0 {
		return false
	}
	for level := 1; level <= 3; level++ {
		if c.Passed(level) < c.Total(level) {
			return false
		}
	}
	return true
}

// PassedColumn maps a level to its passed counter column.
func PassedColumn(level int) (string, error) {
	switch level {
	case 1:
		return "level1_passed", nil
	case 2:
		return "level2_passed", nil
	case 3:
		return "level3_passed", nil
	default:
		return "", fmt.Errorf("unknown challenge level %d", level)
	}
}

// UserLessonProgress is a user's progress through one lesson.
type UserLessonProgress struct {
	UserID   uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	LessonID uint `gorm:"primaryKey;autoIncrement:false" json:"lesson_id"`
	Learned  bool `gorm:"not null;default:false" json:"learned"`

	LevelCounters `gorm:"embedded"`

	Score       int        `gorm:"not null;default:0" json:"score"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserStats aggregates a user's overall results.
type UserStats struct {
	UserID           uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	TotalScore       int       `gorm:"not null;default:0;index" json:"total_score"`
	LessonsCompleted int       `gorm:"not null;default:0" json:"lessons_completed"`
	ChallengesPassed int       `gorm:"not null;default:0" json:"challenges_passed"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName keeps the progress table name singular.
func (UserLessonProgress) TableName() string {
	return "user_lesson_progress"
}

// TableName overrides the default pluralisation.
func (UserStats) TableName() string {
	return "user_stats"
}

// ChallengePass marks the first passing submission of a user for a challenge.
type ChallengePass struct {
	UserID      uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ChallengeID string    `gorm:"primaryKey;size:100" json:"challenge_id"`
	PassedAt    time.Time `gorm:"not null" json:"passed_at"`
}
