package models

import (
	"time"

	"gorm.io/datatypes"
)

// Badge rule types.
const (
	BadgeRuleCompleteDay  = "complete_day"
	BadgeRuleCompleteDays = "complete_days"
	BadgeRuleStreak       = "streak"
	BadgeRulePerfectDay   = "perfect_day"
	BadgeRuleFastSolve    = "fast_solve"
)

// BadgeRule describes the condition under which a badge is granted.
type BadgeRule struct {
	Type     string `json:"type" yaml:"type"`
	LessonID int    `json:"lesson_id,omitempty" yaml:"lesson_id"`
	Count    int    `json:"count,omitempty" yaml:"count"`
	Days     int    `json:"days,omitempty" yaml:"days"`
	Minutes  int    `json:"minutes,omitempty" yaml:"minutes"`
}

// Badge is an achievement from the badge catalog.
type Badge struct {
	ID          uint                          `gorm:"primaryKey" json:"id"`
	Code        string                        `gorm:"size:100;not null;uniqueIndex" json:"code"`
	Name        string                        `gorm:"size:100;not null" json:"name"`
	Icon        string                        `gorm:"size:50;not null" json:"icon"`
	Description string                        `gorm:"type:text;not null" json:"description"`
	Rule        datatypes.JSONType[BadgeRule] `json:"rule"`
	Points      int                           `gorm:"not null;default:0" json:"points"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

// UserBadge records that a user earned a badge.
type UserBadge struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	BadgeID   uint      `gorm:"primaryKey;autoIncrement:false" json:"badge_id"`
	GrantedAt time.Time `gorm:"not null" json:"granted_at"`
	Badge     Badge     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"badge"`
}
