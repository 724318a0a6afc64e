package match

import (
	"context"
	"sort"

	"github.com/ajisaka/devmatch/internal/entity"
	"github.com/ajisaka/devmatch/internal/matching"
	profileRepo "github.com/ajisaka/devmatch/internal/repository/profile"
	relationRepo "github.com/ajisaka/devmatch/internal/repository/relation"
	"go.uber.org/zap"
)

const (
	// CandidatePageSize caps one retrieval tier query.
	CandidatePageSize = 10
	// DefaultBufferSize is the rolling window of unacted candidates per user.
	DefaultBufferSize = 10
)

type IMatchUseCase interface {
	// GetMatches returns up to k reranked match results for the user, topping
	// the buffer up first if it has room.
	GetMatches(ctx context.Context, userID uint, k int) ([]entity.MatchResult, error)

	// RetrieveCandidates walks the three retrieval tiers and returns the
	// first non-empty pool. An empty result after tier three just means no
	// other profile exists.
	RetrieveCandidates(ctx context.Context, userID uint, excludeIDs []uint) ([]entity.Profile, error)

	// ProfileActed drops the target from the actor's buffer and refills it.
	ProfileActed(ctx context.Context, actorID, targetID uint)
}

type matchUseCase struct {
	profileRepo  profileRepo.IProfileRepo
	relationRepo relationRepo.IRelationRepo
	engine       *matching.Engine
	buffer       *MatchBuffer
	log          *zap.Logger
}

func NewMatchUseCase(
	profiles profileRepo.IProfileRepo,
	relations relationRepo.IRelationRepo,
	engine *matching.Engine,
	buffer *MatchBuffer,
	log *zap.Logger,
) IMatchUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &matchUseCase{
		profileRepo:  profiles,
		relationRepo: relations,
		engine:       engine,
		buffer:       buffer,
		log:          log,
	}
}

func (m *matchUseCase) GetMatches(ctx context.Context, userID uint, k int) ([]entity.MatchResult, error) {
	if _, err := m.profileRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if m.buffer.Len(userID) < m.buffer.Max() {
		if err := m.refill(ctx, userID); err != nil {
			return nil, err
		}
	}

	buffered := m.buffer.Snapshot(userID)
	sort.SliceStable(buffered, func(i, j int) bool {
		return buffered[i].Score > buffered[j].Score
	})

	if k <= 0 || k > len(buffered) {
		k = len(buffered)
	}
	return matching.Rerank(buffered, k, m.engine.Weights().MMRLambda), nil
}

func (m *matchUseCase) RetrieveCandidates(ctx context.Context, userID uint, excludeIDs []uint) ([]entity.Profile, error) {
	exclude := append([]uint{userID}, excludeIDs...)

	for _, tier := range []entity.CandidateTier{entity.TierComplete, entity.TierPartial, entity.TierAny} {
		profiles, err := m.profileRepo.FindCandidates(ctx, tier, exclude, CandidatePageSize)
		if err != nil {
			return nil, err
		}
		if len(profiles) > 0 {
			m.log.Debug("candidate tier selected",
				zap.Uint("user", userID),
				zap.String("tier", tier.String()),
				zap.Int("count", len(profiles)))
			return profiles, nil
		}
	}

	// Legitimate empty pool: no other profile exists.
	return []entity.Profile{}, nil
}

func (m *matchUseCase) ProfileActed(ctx context.Context, actorID, targetID uint) {
	m.buffer.Remove(actorID, targetID)
	if err := m.refill(ctx, actorID); err != nil {
		m.log.Warn("buffer refill failed", zap.Uint("user", actorID), zap.Error(err))
	}
}

// refill tops the user's buffer back up to its cap, excluding the user
// itself, everything currently buffered, and every profile already acted on
// (requested, matched, or passed).
func (m *matchUseCase) refill(ctx context.Context, userID uint) error {
	room := m.buffer.Max() - m.buffer.Len(userID)
	if room <= 0 {
		return nil
	}

	requester, err := m.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	acted, err := m.relationRepo.ActedProfileIDs(ctx, userID)
	if err != nil {
		return err
	}
	exclude := append(m.buffer.IDs(userID), acted...)

	candidates, err := m.RetrieveCandidates(ctx, userID, exclude)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	results := make([]entity.MatchResult, 0, len(candidates))
	for i := range candidates {
		results = append(results, m.engine.Score(requester, &candidates[i]))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	m.buffer.Append(userID, results)
	return nil
}
