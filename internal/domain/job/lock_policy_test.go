package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLockPolicy(t *testing.T) {
	t.Run("rejects non-positive lock", func(t *testing.T) {
		p, err := NewLockPolicy(0, time.Second)
		require.ErrorIs(t, err, ErrInvalidLockDuration)
		assert.Nil(t, p)
	})

	t.Run("derives stalled interval", func(t *testing.T) {
		p, err := NewLockPolicy(10*time.Second, 0)
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, p.LockDuration())
		assert.Equal(t, 5*time.Second, p.StalledInterval())
		assert.Equal(t, 5*time.Second, p.RenewInterval())
	})
}

func TestDefaultLockPolicy(t *testing.T) {
	p := DefaultLockPolicy()
	assert.Equal(t, 60*time.Second, p.LockDuration())
	assert.Equal(t, 30*time.Second, p.StalledInterval())
	assert.Equal(t, 30*time.Second, p.RenewInterval())
}

func TestLockPolicy_Resolve(t *testing.T) {
	p := DefaultLockPolicy()

	t.Run("default", func(t *testing.T) {
		d := p.Resolve(0)
		assert.True(t, d.UsedDefault())
		assert.Equal(t, int64(60000), d.Millis())
	})

	t.Run("explicit truncated", func(t *testing.T) {
		d := p.Resolve(1500*time.Millisecond + 300*time.Microsecond)
		assert.Equal(t, LockSourceExplicit, d.Source)
		assert.Equal(t, int64(1500), d.Millis())
	})

	t.Run("clamped", func(t *testing.T) {
		d := p.Resolve(time.Microsecond)
		assert.True(t, d.Clamped())
		assert.Equal(t, int64(1), d.Millis())
	})

	t.Run("nil policy", func(t *testing.T) {
		var nilPolicy *LockPolicy
		d := nilPolicy.Resolve(time.Second)
		assert.True(t, d.UsedDefault())
		assert.Zero(t, d.Duration)
		assert.Zero(t, nilPolicy.RenewInterval())
	})
}
