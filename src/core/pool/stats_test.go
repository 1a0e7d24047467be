package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	p, _ := newTestPool(t, testConfig(0, 3))
	ctx := context.Background()

	a, err := p.Acquire(ctx)
	require.NoError(t, err)
	b, err := p.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Release(a))

	got := p.Stats()
	want := Stats{
		Name:      p.Name(),
		Min:       0,
		Max:       3,
		Open:      2,
		Idle:      1,
		InUse:     1,
		Requests:  2,
		Successes: 2,
		Created:   2,
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 2, got.Available())

	require.NoError(t, p.Destroy(b))
	got = p.Stats()
	assert.Equal(t, int64(1), got.Destroyed)
	assert.Equal(t, 3, got.Available())
}

func TestCounter(t *testing.T) {
	var c counter
	for range 5 {
		c.inc()
	}
	assert.Equal(t, int64(5), c.val())
}
