//go:build linux

package reactor

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

func TestDriver_FailedArmReleasesOnce(t *testing.T) {
	d, err := NewDriver(control.Config{})
	require.NoError(t, err)
	defer d.Close()

	var released, woke atomic.Int32
	tok, err := d.track(-1, api.WakerFunc(func() { woke.Add(1) }), func() { released.Add(1) })
	require.NoError(t, err)

	_, err = d.armFailed(tok, unix.EBADF)
	assert.ErrorIs(t, err, unix.EBADF)
	assert.EqualValues(t, 1, released.Load())
	assert.Zero(t, woke.Load())
	assert.Zero(t, d.Pending())
}

func TestDriver_FailedArmAfterCloseLeavesSourceToClose(t *testing.T) {
	d, err := NewDriver(control.Config{})
	require.NoError(t, err)

	var released, woke atomic.Int32
	tok, err := d.track(-1, api.WakerFunc(func() { woke.Add(1) }), func() { released.Add(1) })
	require.NoError(t, err)

	// Close wins the race against the poller registration.
	d.Close()
	assert.EqualValues(t, 1, released.Load())
	assert.EqualValues(t, 1, woke.Load())

	got, err := d.armFailed(tok, unix.EBADF)
	require.NoError(t, err)
	assert.Equal(t, tok, got)
	assert.EqualValues(t, 1, released.Load(), "released twice")

	_, done, err := d.poll(tok, api.NoopWaker)
	assert.True(t, done)
	assert.ErrorIs(t, err, api.ErrReactorClosed)
}

func TestDriver_RegisterOnClosedDriverReleases(t *testing.T) {
	d, err := NewDriver(control.Config{})
	require.NoError(t, err)
	d.Close()

	var released atomic.Int32
	_, err = d.register(0, api.EventRead, api.NoopWaker, func() { released.Add(1) })
	assert.ErrorIs(t, err, api.ErrReactorClosed)
	assert.EqualValues(t, 1, released.Load())
}
