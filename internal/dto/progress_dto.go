package dto

import (
	"time"

	"github.com/noah-isme/pydays-api/internal/models"
)

// LessonProgressResponse is a user's progress through one lesson.
type LessonProgressResponse struct {
	LessonID    uint                 `json:"lesson_id"`
	Learned     bool                 `json:"learned"`
	Levels      models.LevelCounters `json:"levels"`
	Score       int                  `json:"score"`
	Completed   bool                 `json:"completed"`
	StartedAt   *time.Time           `json:"started_at,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

// NewLessonProgressResponse converts a progress row into its DTO.
func NewLessonProgressResponse(progress models.UserLessonProgress) LessonProgressResponse {
	return LessonProgressResponse{
		LessonID:    progress.LessonID,
		Learned:     progress.Learned,
		Levels:      progress.LevelCounters,
		Score:       progress.Score,
		Completed:   progress.CompletedAt != nil,
		StartedAt:   progress.StartedAt,
		CompletedAt: progress.CompletedAt,
	}
}

// UserStatsResponse aggregates a user's results.
type UserStatsResponse struct {
	TotalScore       int `json:"total_score"`
	LessonsCompleted int `json:"lessons_completed"`
	ChallengesPassed int `json:"challenges_passed"`
}

// BadgeResponse is an earned badge.
type BadgeResponse struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	GrantedAt   time.Time `json:"granted_at"`
}

// ProgressOverviewResponse is everything the progress page shows.
type ProgressOverviewResponse struct {
	UserID  uint                     `json:"user_id"`
	Stats   UserStatsResponse        `json:"stats"`
	Lessons []LessonProgressResponse `json:"lessons"`
	Badges  []BadgeResponse          `json:"badges"`
}

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	Rank             int  `json:"rank"`
	UserID           uint `json:"user_id"`
	TotalScore       int  `json:"total_score"`
	LessonsCompleted int  `json:"lessons_completed"`
	ChallengesPassed int  `json:"challenges_passed"`
}

// LeaderboardRequest bounds the leaderboard size.
type LeaderboardRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// LeaderboardResponse wraps ranked users.
type LeaderboardResponse struct {
	Items    []LeaderboardEntry `json:"items"`
	CacheHit bool               `json:"cache_hit"`
}
