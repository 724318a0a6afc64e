package profile

import (
	"context"

	"github.com/ajisaka/devmatch/internal/entity"
	"github.com/ajisaka/devmatch/internal/matching"
	profileRepo "github.com/ajisaka/devmatch/internal/repository/profile"
	"go.uber.org/zap"
)

type IProfileUseCase interface {
	// UpdateOnboarding merges a partial onboarding submission into the stored
	// profile: quiz answers merge by question id, meme reactions merge by
	// meme id (later reaction replaces earlier), and the complete flag is
	// only touched when the request sets it explicitly. Traits, badges and
	// codename are rederived from the merged answers.
	UpdateOnboarding(ctx context.Context, userID uint, request entity.UpdateProfileRequest) (*entity.Profile, error)

	GetProfile(ctx context.Context, userID uint) (*entity.Profile, error)
}

type profileUseCase struct {
	profileRepo profileRepo.IProfileRepo
	log         *zap.Logger
}

func NewProfileUseCase(profiles profileRepo.IProfileRepo, log *zap.Logger) IProfileUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &profileUseCase{
		profileRepo: profiles,
		log:         log,
	}
}

func (p *profileUseCase) UpdateOnboarding(ctx context.Context, userID uint, request entity.UpdateProfileRequest) (*entity.Profile, error) {
	profile, err := p.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(request.QuizAnswers) > 0 {
		profile.QuizAnswers = profile.QuizAnswers.Merge(request.QuizAnswers)
		profile.Badges = matching.DeriveBadges(profile.QuizAnswers)
		if profile.Codename == "" {
			profile.Codename = matching.Codename(profile.QuizAnswers)
		}
	}

	if len(request.MemeReactions) > 0 {
		profile.MemeReactions = profile.MemeReactions.Merge(request.MemeReactions)
	}

	if request.ProfileComplete != nil {
		profile.ProfileComplete = *request.ProfileComplete
	}

	profile.Traits = matching.DeriveTraits(profile.QuizAnswers, profile.MemeReactions)

	if err := p.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	p.log.Debug("onboarding updated",
		zap.Uint("user", userID),
		zap.Int("quizAnswers", len(profile.QuizAnswers)),
		zap.Int("memeReactions", len(profile.MemeReactions)))

	return profile, nil
}

func (p *profileUseCase) GetProfile(ctx context.Context, userID uint) (*entity.Profile, error) {
	return p.profileRepo.GetByID(ctx, userID)
}
