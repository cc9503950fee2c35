package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
)

func TestActionReturnsVerificationErrorOnExhaustion(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{502, 502}}
	p := New(WithClient(doer), WithAttempts(2), WithDelay(0))
	action := NewAction(p, "http://example.com")

	err := action.Apply(pipeline.NewRunContext(context.Background()))
	require.Error(t, err)

	var verr *pipeline.VerificationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "http://example.com", verr.Target)
	assert.Equal(t, 2, verr.Attempts)
	assert.Equal(t, 502, verr.LastStatus)
}

func TestActionSucceedsAndUndoIsNoop(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{200}}
	p := New(WithClient(doer), WithDelay(0))
	action := NewAction(p, "http://example.com")

	ctx := pipeline.NewRunContext(context.Background())
	require.NoError(t, action.Apply(ctx))
	assert.NoError(t, action.Undo(ctx))
	assert.True(t, action.Transient())
}
