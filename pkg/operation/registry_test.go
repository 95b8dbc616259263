package operation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestTryRegister(t *testing.T) {
	reg := NewRegistry()

	ctx, release, err := reg.TryRegister(context.Background(), "op1")
	require.NoError(t, err)
	assert.NoError(t, ctx.Err())
	assert.True(t, reg.IsActive("op1"))

	_, _, err = reg.TryRegister(context.Background(), "op1")
	assert.True(t, errors.Is(err, ErrAlreadyRunning))

	release()
	assert.False(t, reg.IsActive("op1"))
	assert.Error(t, ctx.Err(), "release should cancel the context")

	// second release is a no-op
	release()
	assert.Equal(t, 0, reg.Len())
}

func TestTryRegisterTombstone(t *testing.T) {
	reg := NewRegistry()

	reg.Cancel("op1")
	assert.True(t, reg.IsTombstone("op1"))

	_, _, err := reg.TryRegister(context.Background(), "op1")
	assert.True(t, errors.Is(err, ErrCancelled))
	assert.Equal(t, 0, reg.Len(), "tombstone should be consumed")

	// the id is usable again afterwards
	_, release, err := reg.TryRegister(context.Background(), "op1")
	require.NoError(t, err)
	release()
}

func TestCancelActive(t *testing.T) {
	reg := NewRegistry()
	ctx, release, err := reg.TryRegister(context.Background(), "op1")
	require.NoError(t, err)
	defer release()

	reg.Cancel("op1")
	assert.True(t, errors.Is(ctx.Err(), context.Canceled))
	assert.True(t, reg.IsActive("op1"), "cancel should not remove an active entry")

	// idempotent
	reg.Cancel("op1")
	assert.True(t, reg.IsActive("op1"))
}

func TestCancelIdempotentTombstone(t *testing.T) {
	reg := NewRegistry()
	reg.Cancel("op1")
	reg.Cancel("op1")
	assert.Equal(t, 1, reg.Len())
}

func TestReleaseDoesNotRemoveNewerRegistration(t *testing.T) {
	reg := NewRegistry()
	_, first, err := reg.TryRegister(context.Background(), "op1")
	require.NoError(t, err)
	first()

	_, second, err := reg.TryRegister(context.Background(), "op1")
	require.NoError(t, err)
	defer second()

	first()
	assert.True(t, reg.IsActive("op1"))
}

func TestSweepOldTombstones(t *testing.T) {
	reg := NewRegistry()
	now := time.Now()
	reg.now = func() time.Time { return now.Add(-2 * tombstoneMaxAge) }

	for i := 0; i <= sweepThreshold; i++ {
		reg.Cancel(fmt.Sprintf("old-%d", i))
	}
	reg.now = func() time.Time { return now }
	reg.Cancel("fresh")
	require.Equal(t, sweepThreshold+2, reg.Len())

	_, release, err := reg.TryRegister(context.Background(), "new")
	require.NoError(t, err)
	defer release()

	assert.Equal(t, 2, reg.Len(), "only the fresh tombstone and the new entry should remain")
	assert.True(t, reg.IsTombstone("fresh"))
	assert.True(t, reg.IsActive("new"))
}

func TestSweepKeepsActiveEntries(t *testing.T) {
	reg := NewRegistry()
	var releases []func()
	for i := 0; i <= sweepThreshold; i++ {
		_, release, err := reg.TryRegister(context.Background(), fmt.Sprintf("op-%d", i))
		require.NoError(t, err)
		releases = append(releases, release)
	}
	defer func() {
		for _, r := range releases {
			r()
		}
	}()

	_, release, err := reg.TryRegister(context.Background(), "one-more")
	require.NoError(t, err)
	defer release()
	assert.Equal(t, sweepThreshold+2, reg.Len())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("op-%d", i)
			_, release, err := reg.TryRegister(context.Background(), id)
			if err != nil {
				return
			}
			reg.Cancel(id)
			release()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, reg.Len())
}
