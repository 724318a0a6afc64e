package relationRepo

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/ajisaka/devmatch/internal/entity"
	"github.com/go-redis/redis"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const actedCacheTTL = 24 * time.Hour

type IRelationRepo interface {
	// Pending edges (stored once, requester -> target).
	AddPending(ctx context.Context, fromID, toID uint) error
	HasPending(ctx context.Context, fromID, toID uint) (bool, error)

	// ResolvePending removes the pending edge from -> to; accept additionally
	// records the mutual edge. Returns entity.ErrNotPending when no pending
	// edge exists, which also serializes concurrent accept/reject races: the
	// transition that deletes the edge wins, the other observes NotPending.
	ResolvePending(ctx context.Context, fromID, toID uint, accept bool) error

	// Passed edges (passer -> target, never removed).
	AddPassed(ctx context.Context, fromID, toID uint) error
	HasPassed(ctx context.Context, fromID, toID uint) (bool, error)

	State(ctx context.Context, profileID uint) (*entity.RelationshipState, error)

	// ActedProfileIDs is the exclusion set for candidate retrieval: everyone
	// the profile already sent a request to, matched with, or passed on.
	ActedProfileIDs(ctx context.Context, profileID uint) ([]uint, error)
}

type RelationRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

func New(db *gorm.DB, rdb *redis.Client) IRelationRepo {
	return &RelationRepo{
		db:  db,
		rdb: rdb,
	}
}

func (r *RelationRepo) AddPending(ctx context.Context, fromID, toID uint) error {
	err := r.insertEdge(ctx, fromID, toID, entity.EdgePending)
	if err == nil {
		r.invalidateActedCache(fromID)
	}
	return err
}

func (r *RelationRepo) HasPending(ctx context.Context, fromID, toID uint) (bool, error) {
	return r.hasEdge(ctx, fromID, toID, entity.EdgePending)
}

func (r *RelationRepo) ResolvePending(ctx context.Context, fromID, toID uint, accept bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("from_id = ? AND to_id = ? AND kind = ?", fromID, toID, entity.EdgePending).
			Delete(&entity.RelationEdge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrNotPending
		}

		if !accept {
			return nil
		}

		low, high := entity.OrderPair(fromID, toID)
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entity.RelationEdge{FromID: low, ToID: high, Kind: entity.EdgeMutual}).Error
	})
	if err == nil {
		r.invalidateActedCache(fromID)
		r.invalidateActedCache(toID)
	}
	return err
}

func (r *RelationRepo) AddPassed(ctx context.Context, fromID, toID uint) error {
	err := r.insertEdge(ctx, fromID, toID, entity.EdgePassed)
	if err == nil {
		r.invalidateActedCache(fromID)
	}
	return err
}

func (r *RelationRepo) HasPassed(ctx context.Context, fromID, toID uint) (bool, error) {
	return r.hasEdge(ctx, fromID, toID, entity.EdgePassed)
}

func (r *RelationRepo) State(ctx context.Context, profileID uint) (*entity.RelationshipState, error) {
	var edges []entity.RelationEdge
	result := r.db.WithContext(ctx).
		Where("from_id = ? OR to_id = ?", profileID, profileID).
		Find(&edges)
	if result.Error != nil {
		return nil, result.Error
	}

	state := &entity.RelationshipState{
		Sent:     []uint{},
		Incoming: []uint{},
		Mutual:   []uint{},
		Passed:   []uint{},
	}
	for _, edge := range edges {
		switch edge.Kind {
		case entity.EdgePending:
			if edge.FromID == profileID {
				state.Sent = append(state.Sent, edge.ToID)
			} else {
				state.Incoming = append(state.Incoming, edge.FromID)
			}
		case entity.EdgeMutual:
			if edge.FromID == profileID {
				state.Mutual = append(state.Mutual, edge.ToID)
			} else {
				state.Mutual = append(state.Mutual, edge.FromID)
			}
		case entity.EdgePassed:
			if edge.FromID == profileID {
				state.Passed = append(state.Passed, edge.ToID)
			}
		}
	}
	return state, nil
}

func (r *RelationRepo) ActedProfileIDs(ctx context.Context, profileID uint) ([]uint, error) {
	cacheKey := actedCacheKey(profileID)

	if r.rdb != nil {
		exists, err := r.rdb.Exists(cacheKey).Result()
		if err == nil && exists > 0 {
			var ids []uint
			if err := r.rdb.SMembers(cacheKey).ScanSlice(&ids); err == nil {
				return ids, nil
			}
		}
	}

	state, err := r.State(ctx, profileID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{})
	ids := make([]uint, 0, len(state.Sent)+len(state.Mutual)+len(state.Passed))
	for _, group := range [][]uint{state.Sent, state.Mutual, state.Passed} {
		for _, id := range group {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	if r.rdb != nil && len(ids) > 0 {
		for _, id := range ids {
			if err := r.rdb.SAdd(cacheKey, id).Err(); err != nil {
				log.Println("error caching acted profiles in redis", err)
				break
			}
		}
		r.rdb.Expire(cacheKey, actedCacheTTL)
	}

	return ids, nil
}

// Private functions

func (r *RelationRepo) insertEdge(ctx context.Context, fromID, toID uint, kind entity.EdgeKind) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.RelationEdge{FromID: fromID, ToID: toID, Kind: kind}).Error
}

func (r *RelationRepo) hasEdge(ctx context.Context, fromID, toID uint, kind entity.EdgeKind) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entity.RelationEdge{}).
		Where("from_id = ? AND to_id = ? AND kind = ?", fromID, toID, kind).
		Count(&count)
	return count > 0, result.Error
}

func (r *RelationRepo) invalidateActedCache(profileID uint) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(actedCacheKey(profileID)).Err(); err != nil && err != redis.Nil {
		log.Println("error invalidating acted profiles cache", err)
	}
}

func actedCacheKey(profileID uint) string {
	return ":user:" + strconv.FormatUint(uint64(profileID), 10) + ":acted:profiles"
}
