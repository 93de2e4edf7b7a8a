package softdelete

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultUndoWindow is the undo window applied when Options.UndoWindow is zero
const DefaultUndoWindow = 5 * time.Second

// DeleteFunc performs the persistence write for a single-entity delete and
// returns whatever result the caller wants preserved in the token metadata
type DeleteFunc func(ctx context.Context) (any, error)

// BulkDeleteFunc performs one batched persistence write for the given ids
type BulkDeleteFunc func(ctx context.Context, ids []string) (any, error)

// SideEffectFunc is a zero-argument side-effecting step. Atomic operations run
// strictly after a successful delete; rollback operations compensate for them.
type SideEffectFunc func(ctx context.Context) error

// RestoreFunc performs the restoring write for a single-entity undo
type RestoreFunc func(ctx context.Context, meta SingleDeletion) (any, error)

// BulkRestoreFunc performs the restoring write for a bulk undo
type BulkRestoreFunc func(ctx context.Context, meta BulkDeletion) (any, error)

// Options configures one delete operation
type Options struct {
	// UndoWindow is the length of the undo window. Zero means DefaultUndoWindow.
	UndoWindow time.Duration
	// SkipUndoToken makes the delete irreversible: no token is minted.
	SkipUndoToken bool
	// AtomicOps run in order, strictly after the main delete succeeds.
	AtomicOps []SideEffectFunc
	// RollbackOps compensate for AtomicOps and the main delete. They run in
	// reverse order when the delete fails and in forward order on undo.
	RollbackOps []SideEffectFunc
}

// Result is the uniform outcome of a delete or undo operation
type Result struct {
	Message       string    `json:"message"`
	UndoToken     string    `json:"undo_token,omitempty"`
	UndoExpiresAt time.Time `json:"undo_expires_at,omitempty"`
	Value         any       `json:"-"`
}

// Manager wraps an arbitrary delete write (plus optional side effects) with a
// uniform result shape and a time-boxed path to reverse it. It owns the token
// store; consumers reach the store only through the Manager.
type Manager struct {
	store         *TokenStore
	logger        *zap.Logger
	defaultWindow time.Duration
}

// NewManager creates a soft-delete manager on top of the given token store
func NewManager(store *TokenStore, logger *zap.Logger) *Manager {
	return &Manager{
		store:         store,
		logger:        logger,
		defaultWindow: DefaultUndoWindow,
	}
}

// WithDefaultWindow overrides the window used when Options.UndoWindow is zero
func (m *Manager) WithDefaultWindow(window time.Duration) *Manager {
	if window > 0 {
		m.defaultWindow = window
	}
	return m
}

// Delete runs the delete operation and the atomic operations, then mints an
// undo token unless Options.SkipUndoToken is set. On failure the rollback
// operations run in reverse order, best effort, and the original error
// propagates.
func (m *Manager) Delete(ctx context.Context, entityType, entityID string, op DeleteFunc, opts Options) (*Result, error) {
	value, err := m.runDelete(ctx, op, opts)
	if err != nil {
		return nil, operationError(err, "DELETE_FAILED", fmt.Sprintf("Failed to delete %s", entityType))
	}

	result := &Result{
		Message: fmt.Sprintf("%s %s deleted", entityType, entityID),
		Value:   value,
	}
	if !opts.SkipUndoToken {
		meta := SingleDeletion{
			EntityType: entityType,
			EntityID:   entityID,
			DeletedAt:  time.Now(),
			Result:     value,
		}
		m.mintToken(result, entityType, entityID, meta, opts)
	}
	return result, nil
}

// BulkDelete is the batched variant of Delete. The id list must be non-empty;
// validation happens before the delete operation is invoked.
func (m *Manager) BulkDelete(ctx context.Context, entityType string, ids []string, op BulkDeleteFunc, opts Options) (*Result, error) {
	if len(ids) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("No %s ids provided for bulk delete", entityType))
	}

	idsCopy := make([]string, len(ids))
	copy(idsCopy, ids)

	value, err := m.runDelete(ctx, func(ctx context.Context) (any, error) {
		return op(ctx, idsCopy)
	}, opts)
	if err != nil {
		return nil, operationError(err, "DELETE_FAILED", fmt.Sprintf("Failed to delete %s", entityType))
	}

	result := &Result{
		Message: fmt.Sprintf("%d %s(s) deleted", len(idsCopy), entityType),
		Value:   value,
	}
	if !opts.SkipUndoToken {
		meta := BulkDeletion{
			EntityType: entityType,
			EntityIDs:  idsCopy,
			DeletedAt:  time.Now(),
			Result:     value,
		}
		m.mintToken(result, entityType, fmt.Sprintf("bulk-%d", len(idsCopy)), meta, opts)
	}
	return result, nil
}

// Undo reverses a single-entity delete identified by token. The token must be
// present, unexpired, and minted by Delete. On restore failure the token stays
// in the store so the undo can be retried within the window.
func (m *Manager) Undo(ctx context.Context, token string, restore RestoreFunc) (*Result, error) {
	e, ok := m.store.acquire(token)
	if !ok {
		return nil, shared.ErrInvalidUndoToken
	}

	meta, ok := e.meta.(SingleDeletion)
	if !ok {
		m.store.release(token)
		return nil, shared.NewDomainError("UNDO_TOKEN_MISMATCH", "Undo token is not for a single-entity operation")
	}

	value, err := restore(ctx, meta)
	if err != nil {
		m.store.release(token)
		return nil, operationError(err, "RESTORE_FAILED", "Failed to restore item")
	}

	// Compensate the auxiliary side effects applied during the delete, in the
	// original order.
	m.runRollback(ctx, e.rollback, false)
	m.store.remove(token)

	return &Result{
		Message: fmt.Sprintf("%s %s restored", meta.EntityType, meta.EntityID),
		Value:   value,
	}, nil
}

// BulkUndo mirrors Undo for tokens minted by BulkDelete
func (m *Manager) BulkUndo(ctx context.Context, token string, restore BulkRestoreFunc) (*Result, error) {
	e, ok := m.store.acquire(token)
	if !ok {
		return nil, shared.ErrInvalidUndoToken
	}

	meta, ok := e.meta.(BulkDeletion)
	if !ok {
		m.store.release(token)
		return nil, shared.NewDomainError("UNDO_TOKEN_MISMATCH", "Undo token is not for a bulk operation")
	}

	value, err := restore(ctx, meta)
	if err != nil {
		m.store.release(token)
		return nil, operationError(err, "RESTORE_FAILED", "Failed to restore items")
	}

	m.runRollback(ctx, e.rollback, false)
	m.store.remove(token)

	return &Result{
		Message: fmt.Sprintf("%d %s(s) restored", len(meta.EntityIDs), meta.EntityType),
		Value:   value,
	}, nil
}

// IsValidToken reports whether the token is present and unexpired
func (m *Manager) IsValidToken(token string) bool {
	return m.store.Valid(token)
}

// TokenMetadata returns the metadata stored with a token, or false if the
// token is unknown
func (m *Manager) TokenMetadata(token string) (Metadata, bool) {
	return m.store.Metadata(token)
}

// CleanupExpiredTokens removes every expired token and returns the number
// removed
func (m *Manager) CleanupExpiredTokens() int {
	return m.store.CleanupExpired()
}

// ActiveTokenCount returns the number of pending tokens after a cleanup scan
func (m *Manager) ActiveTokenCount() int {
	return m.store.ActiveCount()
}

// Close releases the underlying token store
func (m *Manager) Close() {
	m.store.Close()
}

// runDelete executes the main delete and the atomic operations. Any failure
// triggers the rollback operations in reverse order before returning the
// original error.
func (m *Manager) runDelete(ctx context.Context, op DeleteFunc, opts Options) (any, error) {
	value, err := op(ctx)
	if err != nil {
		m.runRollback(ctx, opts.RollbackOps, true)
		return nil, err
	}

	for i, atomic := range opts.AtomicOps {
		if err := atomic(ctx); err != nil {
			m.logger.Warn("atomic operation failed after delete",
				zap.Int("index", i),
				zap.Error(err),
			)
			m.runRollback(ctx, opts.RollbackOps, true)
			return nil, err
		}
	}

	return value, nil
}

// runRollback executes compensating actions best effort: failures are logged,
// never raised, and never mask the error that triggered the rollback
func (m *Manager) runRollback(ctx context.Context, ops []SideEffectFunc, reverse bool) {
	if reverse {
		for i := len(ops) - 1; i >= 0; i-- {
			if err := ops[i](ctx); err != nil {
				m.logger.Error("rollback operation failed", zap.Int("index", i), zap.Error(err))
			}
		}
		return
	}
	for i, op := range ops {
		if err := op(ctx); err != nil {
			m.logger.Error("rollback operation failed", zap.Int("index", i), zap.Error(err))
		}
	}
}

// mintToken stores a fresh token for the result and stamps its expiry
func (m *Manager) mintToken(result *Result, entityType, ref string, meta Metadata, opts Options) {
	window := opts.UndoWindow
	if window <= 0 {
		window = m.defaultWindow
	}

	now := time.Now()
	token := fmt.Sprintf("%s-%s-%d-%s", entityType, ref, now.UnixNano(), uuid.NewString()[:8])
	expiresAt := now.Add(window)

	m.store.put(token, expiresAt, meta, opts.RollbackOps)

	result.UndoToken = token
	result.UndoExpiresAt = expiresAt
}

// operationError passes structured domain errors through unchanged and wraps
// everything else into a generic fault
func operationError(err error, code, message string) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return shared.WrapDomainError(code, message, err)
}
