package entity

import "time"

type EdgeKind string

const (
	// EdgePending is a connection request, stored once as requester → target.
	EdgePending EdgeKind = "pending"
	// EdgeMutual is an accepted connection, stored once with the lower id first.
	EdgeMutual EdgeKind = "mutual"
	// EdgePassed is a pass, stored passer → passed target. Never removed.
	EdgePassed EdgeKind = "passed"
)

// RelationEdge is the single source of truth for the connection graph. A
// profile's sent/incoming/mutual/passed sets are projections of this table,
// so the pair-symmetry invariants cannot be violated by a partial write.
type RelationEdge struct {
	FromID    uint      `gorm:"primaryKey;column:from_id"`
	ToID      uint      `gorm:"primaryKey;column:to_id"`
	Kind      EdgeKind  `gorm:"primaryKey;column:kind"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (RelationEdge) TableName() string {
	return "relation_edges"
}

// OrderPair normalizes an unordered pair for mutual-edge storage.
func OrderPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// RelationshipState is the read-only snapshot of one profile's relationship
// sets.
type RelationshipState struct {
	Sent     []uint `json:"sent"`
	Incoming []uint `json:"incoming"`
	Mutual   []uint `json:"mutual"`
	Passed   []uint `json:"passed"`
}
