package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Lesson{},
		&Challenge{},
		&Badge{},
		&UserBadge{},
		&Submission{},
		&ChallengePass{},
		&UserLessonProgress{},
		&UserStats{},
	}
}
