package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDContext(t *testing.T) {
	t.Run("round trips a request ID", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-123")
		assert.Equal(t, "req-123", GetRequestID(ctx))
	})

	t.Run("empty without a stored ID", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
	})

	t.Run("latest value wins", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "first")
		ctx = WithRequestID(ctx, "second")
		assert.Equal(t, "second", GetRequestID(ctx))
	})

	t.Run("ignores foreign value under a string key", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), requestIDKey, 42)
		assert.Empty(t, GetRequestID(ctx))
	})
}
