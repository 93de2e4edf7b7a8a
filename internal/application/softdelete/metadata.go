package softdelete

import "time"

// Metadata describes what a pending undo token would restore. It is a sealed
// variant: SingleDeletion for one entity, BulkDeletion for a batch. The undo
// paths discriminate by type assertion, so a token minted on one path cannot
// be consumed on the other.
type Metadata interface {
	isMetadata()
}

// SingleDeletion is the metadata captured by a single-entity delete
type SingleDeletion struct {
	EntityType string
	EntityID   string
	DeletedAt  time.Time
	Result     any
}

func (SingleDeletion) isMetadata() {}

// BulkDeletion is the metadata captured by a bulk delete
type BulkDeletion struct {
	EntityType string
	EntityIDs  []string
	DeletedAt  time.Time
	Result     any
}

func (BulkDeletion) isMetadata() {}
