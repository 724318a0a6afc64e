package connection

import (
	"context"

	"github.com/ajisaka/devmatch/internal/entity"
	profileRepo "github.com/ajisaka/devmatch/internal/repository/profile"
	relationRepo "github.com/ajisaka/devmatch/internal/repository/relation"
	"go.uber.org/zap"
)

// BufferNotifier lets the match buffer drop a profile once the owner acted
// on it. Wired to the match usecase; nil disables notification.
type BufferNotifier interface {
	ProfileActed(ctx context.Context, actorID, targetID uint)
}

// IConnectionUseCase is the connection lifecycle state machine. Per ordered
// pair the pending edge moves None -> Pending -> Mutual (accept) or back to
// None (reject); Passed is an independent absorbing state that only blocks
// future requests in the reverse direction. All transitions are idempotent
// set-union operations, so retries and races converge to the same state.
type IConnectionUseCase interface {
	Request(ctx context.Context, fromID, toID uint) error
	Accept(ctx context.Context, ofID, fromID uint) error
	Reject(ctx context.Context, ofID, fromID uint) error
	Pass(ctx context.Context, ofID, targetID uint) error
	State(ctx context.Context, profileID uint) (*entity.RelationshipState, error)
}

type connectionUseCase struct {
	profileRepo  profileRepo.IProfileRepo
	relationRepo relationRepo.IRelationRepo
	notifier     BufferNotifier
	log          *zap.Logger
}

func New(profiles profileRepo.IProfileRepo, relations relationRepo.IRelationRepo, notifier BufferNotifier, log *zap.Logger) IConnectionUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &connectionUseCase{
		profileRepo:  profiles,
		relationRepo: relations,
		notifier:     notifier,
		log:          log,
	}
}

// Request records fromID -> toID as pending. Duplicate requests are no-op
// successes; a request toward someone who passed on the requester fails with
// ErrBlocked.
func (c *connectionUseCase) Request(ctx context.Context, fromID, toID uint) error {
	if fromID == toID {
		return entity.ErrSelfReference
	}
	if err := c.ensureExists(ctx, fromID, toID); err != nil {
		return err
	}

	blocked, err := c.relationRepo.HasPassed(ctx, toID, fromID)
	if err != nil {
		return err
	}
	if blocked {
		return entity.ErrBlocked
	}

	if err := c.relationRepo.AddPending(ctx, fromID, toID); err != nil {
		return err
	}
	c.log.Debug("connection requested", zap.Uint("from", fromID), zap.Uint("to", toID))

	c.notify(ctx, fromID, toID)
	return nil
}

// Accept resolves the pending request fromID -> ofID into a mutual edge for
// both profiles.
func (c *connectionUseCase) Accept(ctx context.Context, ofID, fromID uint) error {
	if ofID == fromID {
		return entity.ErrSelfReference
	}
	if err := c.ensureExists(ctx, ofID, fromID); err != nil {
		return err
	}

	if err := c.relationRepo.ResolvePending(ctx, fromID, ofID, true); err != nil {
		return err
	}
	c.log.Debug("connection accepted", zap.Uint("of", ofID), zap.Uint("from", fromID))

	c.notify(ctx, ofID, fromID)
	c.notify(ctx, fromID, ofID)
	return nil
}

// Reject clears the pending request fromID -> ofID. Rejection is soft: the
// requester may request again later.
func (c *connectionUseCase) Reject(ctx context.Context, ofID, fromID uint) error {
	if ofID == fromID {
		return entity.ErrSelfReference
	}
	if err := c.ensureExists(ctx, ofID, fromID); err != nil {
		return err
	}

	if err := c.relationRepo.ResolvePending(ctx, fromID, ofID, false); err != nil {
		return err
	}
	c.log.Debug("connection rejected", zap.Uint("of", ofID), zap.Uint("from", fromID))

	c.notify(ctx, ofID, fromID)
	return nil
}

// Pass records ofID passing on targetID. Always succeeds, idempotent, never
// undone; its only effect on legality is blocking future requests from the
// passed target back to the passer.
func (c *connectionUseCase) Pass(ctx context.Context, ofID, targetID uint) error {
	if ofID == targetID {
		return entity.ErrSelfReference
	}
	if err := c.ensureExists(ctx, ofID, targetID); err != nil {
		return err
	}

	if err := c.relationRepo.AddPassed(ctx, ofID, targetID); err != nil {
		return err
	}
	c.log.Debug("candidate passed", zap.Uint("of", ofID), zap.Uint("target", targetID))

	c.notify(ctx, ofID, targetID)
	return nil
}

func (c *connectionUseCase) State(ctx context.Context, profileID uint) (*entity.RelationshipState, error) {
	if _, err := c.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return c.relationRepo.State(ctx, profileID)
}

func (c *connectionUseCase) ensureExists(ctx context.Context, ids ...uint) error {
	for _, id := range ids {
		if _, err := c.profileRepo.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (c *connectionUseCase) notify(ctx context.Context, actorID, targetID uint) {
	if c.notifier == nil {
		return
	}
	c.notifier.ProfileActed(ctx, actorID, targetID)
}
