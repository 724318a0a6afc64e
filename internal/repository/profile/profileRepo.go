package profileRepo

import (
	"context"
	"errors"
	"strings"

	"github.com/ajisaka/devmatch/internal/entity"
	"gorm.io/gorm"
)

type IProfileRepo interface {
	Create(ctx context.Context, profile *entity.Profile) (*entity.Profile, error)
	GetByID(ctx context.Context, id uint) (*entity.Profile, error)
	GetByUnameOrEmail(ctx context.Context, email, uname string) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error

	// UpsertIdentity creates the profile on first identity sync and refreshes
	// name/avatar on subsequent syncs.
	UpsertIdentity(ctx context.Context, provider entity.Provider, email, name, avatarURL string) (*entity.Profile, error)

	// FindCandidates returns up to limit profiles matching one retrieval
	// tier, excluding the given ids, ordered by id.
	FindCandidates(ctx context.Context, tier entity.CandidateTier, excludeIDs []uint, limit int) ([]entity.Profile, error)
}

type ProfileRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) IProfileRepo {
	return &ProfileRepo{
		db: db,
	}
}

func (r *ProfileRepo) Create(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	result := r.db.WithContext(ctx).Create(profile)
	return profile, result.Error
}

func (r *ProfileRepo) GetByID(ctx context.Context, id uint) (*entity.Profile, error) {
	var profile entity.Profile
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&profile)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, entity.ErrNotFound
	}
	return &profile, result.Error
}

func (r *ProfileRepo) GetByUnameOrEmail(ctx context.Context, email, uname string) (*entity.Profile, error) {
	var profile entity.Profile
	query := r.db.WithContext(ctx)
	if email != "" {
		query = query.Where("email = ?", email)
	}
	if uname != "" {
		query = query.Or("username = ?", uname)
	}
	result := query.First(&profile)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, entity.ErrNotFound
	}
	return &profile, result.Error
}

func (r *ProfileRepo) Update(ctx context.Context, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *ProfileRepo) UpsertIdentity(ctx context.Context, provider entity.Provider, email, name, avatarURL string) (*entity.Profile, error) {
	var profile entity.Profile
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&profile)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		profile = entity.Profile{
			Provider:  provider,
			Email:     email,
			Name:      name,
			AvatarURL: avatarURL,
		}
		if profile.Name == "" {
			profile.Name = strings.SplitN(email, "@", 2)[0]
		}
		if err := r.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	if profile.Provider == "" {
		profile.Provider = provider
	}
	if name != "" && profile.Name != name {
		profile.Name = name
	}
	if avatarURL != "" && profile.AvatarURL != avatarURL {
		profile.AvatarURL = avatarURL
	}
	if err := r.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepo) FindCandidates(ctx context.Context, tier entity.CandidateTier, excludeIDs []uint, limit int) ([]entity.Profile, error) {
	var profiles []entity.Profile

	query := r.db.WithContext(ctx).Model(&entity.Profile{})
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	switch tier {
	case entity.TierComplete:
		query = query.
			Where("profile_complete = ?", true).
			Where("quiz_answers <> '{}'::jsonb").
			Where("jsonb_array_length(meme_reactions) > 0")
	case entity.TierPartial:
		query = query.
			Where("quiz_answers <> '{}'::jsonb OR jsonb_array_length(meme_reactions) > 0")
	case entity.TierAny:
		// no onboarding filter
	}

	result := query.Order("id").Limit(limit).Find(&profiles)
	return profiles, result.Error
}
