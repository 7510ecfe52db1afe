//go:build unix

package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elbo-studio/pivot-sdk-go/internal/infrastructure/logging"
)

// writeFakeEngine writes an executable shell script standing in for the
// engine binary.
func writeFakeEngine(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake_engine")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newTestChannel() *Channel {
	return NewChannel("", logging.NewNop())
}

func TestStopNeverStarted(t *testing.T) {
	ch := newTestChannel()

	start := time.Now()
	ch.Stop()
	ch.Stop()

	assert.Less(t, time.Since(start), 500*time.Millisecond,
		"stop on a never-started channel must not block for the shutdown timeout")
	assert.False(t, ch.IsRunning())
}

func TestStartMissingBinary(t *testing.T) {
	ch := newTestChannel()

	err := ch.Start(filepath.Join(t.TempDir(), "no_such_engine"))
	require.Error(t, err)
	assert.False(t, ch.IsRunning())

	_, err = ch.SendCommand(`{"id":1,"op":"sync_license"}`)
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestStartIdempotent(t *testing.T) {
	path := writeFakeEngine(t, `cat >/dev/null`)
	ch := newTestChannel()

	require.NoError(t, ch.Start(path))
	defer ch.Stop()

	pid := ch.cmd.Process.Pid
	require.NoError(t, ch.Start(path), "second start should be a no-op")
	assert.Equal(t, pid, ch.cmd.Process.Pid)
	assert.True(t, ch.IsRunning())

	ch.Stop()
	assert.False(t, ch.IsRunning())
}

func TestSendCommandEcho(t *testing.T) {
	path := writeFakeEngine(t, `cat`)
	ch := newTestChannel()

	require.NoError(t, ch.Start(path))
	defer ch.Stop()

	line := `{"id":1,"op":"sync_license","ok":true}`
	got, err := ch.SendCommand(line)
	require.NoError(t, err)
	assert.Equal(t, line, got)
}

func TestSendCommandSkipsNoise(t *testing.T) {
	path := writeFakeEngine(t, `read line
echo 'this is not json'
echo '[1,2,3]'
echo '42'
echo 'null'
echo '{"id":9}'
echo '{"ok":false,"id":1,"error":"license expired"}'
cat >/dev/null`)
	ch := newTestChannel()

	require.NoError(t, ch.Start(path))
	defer ch.Stop()

	got, err := ch.SendCommand(`{"id":1,"op":"sync_license"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":false,"id":1,"error":"license expired"}`, got)
}

func TestSendCommandEOFBeforeQualifying(t *testing.T) {
	path := writeFakeEngine(t, `read line
echo '{"id":1}'
exit 0`)
	ch := newTestChannel()

	require.NoError(t, ch.Start(path))
	defer ch.Stop()

	_, err := ch.SendCommand(`{"id":1,"op":"sync_license"}`)
	require.Error(t, err)

	assert.Eventually(t, func() bool { return !ch.IsRunning() },
		2*time.Second, 10*time.Millisecond)
}

func TestWaitForResponse(t *testing.T) {
	path := writeFakeEngine(t, `echo '{"id":8,"ok":true}'
echo '{"id":7.5}'
echo '{"status":"busy"}'
echo '{"id":7,"ok":true}'
cat >/dev/null`)
	ch := newTestChannel()

	require.NoError(t, ch.Start(path))
	defer ch.Stop()

	got, err := ch.WaitForResponse(7)
	require.NoError(t, err)
	assert.Equal(t, `{"id":7,"ok":true}`, got,
		"replies to other ids are discarded, not buffered")
}

func TestOperationsRequireRunningEngine(t *testing.T) {
	ch := newTestChannel()

	_, err := ch.SendCommand(`{"id":1,"op":"sync_license"}`)
	assert.ErrorIs(t, err, ErrNotRunning)

	err = ch.SendCommandAsync(`{"id":1,"op":"sync_license"}`)
	assert.ErrorIs(t, err, ErrNotRunning)

	_, err = ch.WaitForResponse(1)
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestStopHonorsQuitSentinel(t *testing.T) {
	path := writeFakeEngine(t, `while read line; do
  if [ "$line" = "`+QuitSentinel+`" ]; then exit 0; fi
done`)
	ch := newTestChannel()

	require.NoError(t, ch.Start(path))
	require.NoError(t, ch.SendCommandAsync(`{"id":1,"op":"sync_license"}`))

	start := time.Now()
	ch.Stop()

	assert.Less(t, time.Since(start), stopGraceTimeout,
		"a quit-aware engine should exit inside the grace window")
	assert.False(t, ch.IsRunning())
}

func TestStopEscalatesToKill(t *testing.T) {
	if testing.Short() {
		t.Skip("escalation test waits out the full shutdown timeouts")
	}

	// Ignores the sentinel and SIGTERM; only SIGKILL gets rid of it.
	path := writeFakeEngine(t, `trap '' TERM
while true; do sleep 1; done`)
	ch := newTestChannel()

	require.NoError(t, ch.Start(path))

	ch.Stop()
	assert.False(t, ch.IsRunning())

	// State is cleared even after forced termination.
	_, err := ch.SendCommand(`{"id":1,"op":"sync_license"}`)
	assert.ErrorIs(t, err, ErrNotRunning)
}
