package shared

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// AuditedAggregateRoot extends BaseAggregateRoot with creator info and
// soft-delete audit columns. Deleted rows stay in the table with deleted_at
// and deleted_by set; repositories exclude them from normal queries.
type AuditedAggregateRoot struct {
	BaseAggregateRoot
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
	DeletedAt *time.Time `gorm:"index"`
	DeletedBy *uuid.UUID `gorm:"type:uuid"`
}

// NewAuditedAggregateRoot creates a new audited aggregate root
func NewAuditedAggregateRoot() AuditedAggregateRoot {
	return AuditedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
	}
}

// SetCreatedBy sets the creator user ID
func (a *AuditedAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	a.CreatedBy = &userID
}

// MarkDeleted stamps the soft-delete audit columns
func (a *AuditedAggregateRoot) MarkDeleted(by *uuid.UUID) {
	now := time.Now()
	a.DeletedAt = &now
	a.DeletedBy = by
}

// ClearDeleted removes the soft-delete audit columns, restoring the record
func (a *AuditedAggregateRoot) ClearDeleted() {
	a.DeletedAt = nil
	a.DeletedBy = nil
}

// IsDeleted returns true when the record is soft deleted
func (a *AuditedAggregateRoot) IsDeleted() bool {
	return a.DeletedAt != nil
}
