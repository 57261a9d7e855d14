package cascade

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

func TestLevelQueryZeroParentYieldsEmptyWithoutRequest(t *testing.T) {
	var calls atomic.Int32
	q := newLevelQuery(func(_ context.Context, parentID kernel.RegionID) ([]Option, error) {
		calls.Add(1)
		return []Option{{ID: parentID * 10, Name: "X"}}, nil
	}, false)

	q.Refresh(context.Background(), 0)

	assert.Empty(t, q.Options())
	assert.False(t, q.Loading())
	assert.NoError(t, q.Err())
	assert.Equal(t, int32(0), calls.Load())
}

func TestLevelQueryParentlessAlwaysFetches(t *testing.T) {
	var calls atomic.Int32
	q := newLevelQuery(func(_ context.Context, _ kernel.RegionID) ([]Option, error) {
		calls.Add(1)
		return []Option{{ID: 10, Name: "JAWA BARAT"}}, nil
	}, true)

	q.Refresh(context.Background(), 0)

	require.Len(t, q.Options(), 1)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLevelQueryStaleResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	q := newLevelQuery(func(_ context.Context, parentID kernel.RegionID) ([]Option, error) {
		if parentID == 1 {
			close(started)
			<-release
		}
		return []Option{{ID: parentID * 100, Name: "CHILD"}}, nil
	}, false)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Refresh(context.Background(), 1)
	}()
	<-started

	// parent 2 supersedes parent 1 while 1's request is still in flight
	q.Refresh(context.Background(), 2)
	require.Len(t, q.Options(), 1)
	assert.Equal(t, kernel.RegionID(200), q.Options()[0].ID)

	// the slow answer for parent 1 lands last and must be dropped
	close(release)
	wg.Wait()

	require.Len(t, q.Options(), 1)
	assert.Equal(t, kernel.RegionID(200), q.Options()[0].ID)
	assert.Equal(t, kernel.RegionID(2), q.ParentID())
	assert.False(t, q.Loading())
}

func TestLevelQueryResetCancelsInFlightResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	q := newLevelQuery(func(_ context.Context, _ kernel.RegionID) ([]Option, error) {
		close(started)
		<-release
		return []Option{{ID: 100, Name: "CHILD"}}, nil
	}, false)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Refresh(context.Background(), 1)
	}()
	<-started

	q.Reset()
	close(release)
	wg.Wait()

	assert.Empty(t, q.Options())
	assert.False(t, q.Loading())
	assert.True(t, q.ParentID().IsZero())
}

func TestLevelQueryErrorDegradesToEmpty(t *testing.T) {
	fail := true
	q := newLevelQuery(func(_ context.Context, _ kernel.RegionID) ([]Option, error) {
		if fail {
			return nil, assert.AnError
		}
		return []Option{{ID: 100, Name: "CHILD"}}, nil
	}, false)

	q.Refresh(context.Background(), 1)
	assert.Empty(t, q.Options())
	assert.Error(t, q.Err())
	assert.False(t, q.Loading())

	// re-selecting the parent retries and clears the error
	fail = false
	q.Refresh(context.Background(), 1)
	require.Len(t, q.Options(), 1)
	assert.NoError(t, q.Err())
}
