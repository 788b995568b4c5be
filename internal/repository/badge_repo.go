package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/pydays-api/internal/models"
)

// BadgeRepository manages the badge catalog and user grants.
type BadgeRepository interface {
	List(ctx context.Context) ([]models.Badge, error)
	GetByCode(ctx context.Context, code string) (models.Badge, error)
	Grant(ctx context.Context, userID, badgeID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UserBadge, error)
}

type badgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository constructs the repository implementation.
func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) List(ctx context.Context) ([]models.Badge, error) {
	var badges []models.Badge
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *badgeRepository) GetByCode(ctx context.Context, code string) (models.Badge, error) {
	var badge models.Badge
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&badge).Error; err != nil {
		return models.Badge{}, err
	}
	return badge, nil
}

// Grant awards a badge once; it reports whether the grant is new.
func (r *badgeRepository) Grant(ctx context.Context, userID, badgeID uint) (bool, error) {
	grant := models.UserBadge{UserID: userID, BadgeID: badgeID, GrantedAt: time.Now().UTC()}
	res := r.db.WithContext(ctx).
		Omit("Badge").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&grant)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *badgeRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var grants []models.UserBadge
	err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("granted_at ASC, badge_id ASC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}
