package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	t.Run("message is the error string", func(t *testing.T) {
		err := NewDomainError("SOME_CODE", "something happened")
		assert.Equal(t, "something happened", err.Error())
		assert.Equal(t, "SOME_CODE", err.Code)
	})

	t.Run("wraps a cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := WrapDomainError("DB_FAULT", "query failed", cause)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("errors.As finds domain error through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", ErrNotFound)

		var domainErr *DomainError
		require.ErrorAs(t, wrapped, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("sentinels compare with errors.Is", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", ErrInvalidUndoToken)
		assert.ErrorIs(t, err, ErrInvalidUndoToken)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}
