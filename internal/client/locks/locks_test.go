package locks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_TryAcquire(t *testing.T) {
	r := NewRegistry()

	release, ok := r.TryAcquire("translate:b1")
	require.True(t, ok)
	require.NotNil(t, release)

	// same name is held
	_, ok = r.TryAcquire("translate:b1")
	assert.False(t, ok)

	// other names are independent
	release2, ok := r.TryAcquire("translate:b2")
	require.True(t, ok)
	release2()

	release()
	_, ok = r.TryAcquire("translate:b1")
	assert.True(t, ok)
}

func TestRegistry_ReleaseIsIdempotent(t *testing.T) {
	r := NewRegistry()

	release, ok := r.TryAcquire("x")
	require.True(t, ok)
	release()
	release() // second call must not unlock someone else's acquisition

	release2, ok := r.TryAcquire("x")
	require.True(t, ok)
	defer release2()

	_, ok = r.TryAcquire("x")
	assert.False(t, ok)
}

func TestNoop_AlwaysGrants(t *testing.T) {
	var l Locker = Noop{}

	release, ok := l.TryAcquire("anything")
	require.True(t, ok)
	release()

	_, ok = l.TryAcquire("anything")
	assert.True(t, ok)
}
