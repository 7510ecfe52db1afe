package engine

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/elbo-studio/pivot-sdk-go/internal/infrastructure/logging"
)

// QuitSentinel is the literal line requesting graceful engine exit.
const QuitSentinel = "__quit__"

const (
	// stopGraceTimeout bounds the wait for natural exit after the quit
	// sentinel.
	stopGraceTimeout = 2 * time.Second
	// stopKillTimeout bounds each wait after an escalation signal.
	stopKillTimeout = 1 * time.Second

	// maxLineSize caps a single protocol line. Replies are small control
	// envelopes; bulk data travels through shared memory.
	maxLineSize = 4 * 1024 * 1024
)

// ErrNotRunning is returned by channel operations invoked while no engine
// process is alive.
var ErrNotRunning = errors.New("engine is not running")

// Channel owns one engine subprocess and its pipes and implements the line
// protocol. All operations, including Stop, share one exclusive lock: the
// channel is a strictly serialized resource, and a blocking SendCommand holds
// off every other operation until it returns.
type Channel struct {
	mu  sync.Mutex
	log *logging.Logger

	bundledDir string

	cmd     *exec.Cmd
	stdin   *os.File
	stdout  *os.File
	scanner *bufio.Scanner
	done    chan struct{} // closed by the monitor goroutine on process exit
}

// NewChannel creates a channel. bundledDir is the optional root of bundled
// per-platform engine binaries used as the last discovery step.
func NewChannel(bundledDir string, log *logging.Logger) *Channel {
	if log == nil {
		log = logging.NewDefault()
	}
	return &Channel{bundledDir: bundledDir, log: log}
}

// Start spawns the engine process. Idempotent: returns nil immediately if the
// engine is already running. An empty path is resolved through the discovery
// order. On failure no partially-initialized pipes or process remain.
func (c *Channel) Start(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.runningLocked() {
		return nil
	}

	resolved, err := ResolveBinary(path, c.bundledDir)
	if err != nil {
		return err
	}

	cmd := exec.Command(resolved)
	cmd.Stderr = os.Stderr

	inR, inW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("failed to create engine stdin pipe: %w", err)
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		inR.Close()
		inW.Close()
		return fmt.Errorf("failed to create engine stdout pipe: %w", err)
	}
	cmd.Stdin = inR
	cmd.Stdout = outW

	if err := cmd.Start(); err != nil {
		inR.Close()
		inW.Close()
		outR.Close()
		outW.Close()
		return fmt.Errorf("failed to start engine %q: %w", resolved, err)
	}

	// The child holds its own copies of the pipe ends.
	inR.Close()
	outW.Close()

	scanner := bufio.NewScanner(outR)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	// Process exit closes the child's write end, so the scanner sees EOF
	// after draining whatever the engine managed to flush.
	done := make(chan struct{})
	go func() {
		cmd.Wait()
		close(done)
	}()

	c.cmd = cmd
	c.stdin = inW
	c.stdout = outR
	c.scanner = scanner
	c.done = done

	c.log.Info("engine started",
		zap.String("path", resolved),
		zap.Int("pid", cmd.Process.Pid),
	)
	return nil
}

// Stop shuts the engine down. Idempotent and bounded: a quit sentinel is
// written best-effort, then the process gets up to 2s to exit naturally
// before SIGTERM and finally SIGKILL. Owned resources are always cleared on
// return, even when termination could not be confirmed.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd == nil {
		return
	}

	if c.runningLocked() {
		// Write failure here just means the engine beat us to exiting.
		c.writeLineLocked(QuitSentinel)
		c.stdin.Close()

		if !c.waitExitLocked(stopGraceTimeout) {
			c.log.Warn("engine ignored quit sentinel, terminating",
				zap.Int("pid", c.cmd.Process.Pid))
			c.cmd.Process.Signal(syscall.SIGTERM)

			if !c.waitExitLocked(stopKillTimeout) {
				c.cmd.Process.Kill()
				c.waitExitLocked(stopKillTimeout)
			}
		}
	}

	c.clearLocked()
	c.log.Info("engine stopped")
}

// IsRunning reports engine liveness. Race-free with respect to concurrent
// Start/Stop through the shared channel lock.
func (c *Channel) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runningLocked()
}

// SendCommand writes one command line and blocks until a qualifying reply
// arrives: a JSON object containing an "ok" field. Every other line is
// discarded as protocol noise. Returns the raw qualifying line.
func (c *Channel) SendCommand(payload string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.runningLocked() {
		return "", ErrNotRunning
	}
	if err := c.writeLineLocked(payload); err != nil {
		return "", err
	}

	return c.scanLocked(func(obj map[string]json.RawMessage) bool {
		_, ok := obj["ok"]
		return ok
	})
}

// SendCommandAsync writes one command line without awaiting a reply.
func (c *Channel) SendCommandAsync(payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.runningLocked() {
		return ErrNotRunning
	}
	return c.writeLineLocked(payload)
}

// WaitForResponse blocks until a reply whose "id" field numerically equals
// expectedID arrives. Replies to other ids are discarded, not queued: the
// channel is only correct under a single-outstanding-request discipline.
func (c *Channel) WaitForResponse(expectedID int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.runningLocked() {
		return "", ErrNotRunning
	}

	return c.scanLocked(func(obj map[string]json.RawMessage) bool {
		raw, ok := obj["id"]
		if !ok {
			return false
		}
		return idMatches(raw, expectedID)
	})
}

// runningLocked reports liveness without blocking. Caller must hold mu.
func (c *Channel) runningLocked() bool {
	if c.cmd == nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// writeLineLocked writes one line to the engine's stdin, appending the
// trailing newline when absent. Caller must hold mu.
func (c *Channel) writeLineLocked(line string) error {
	if c.stdin == nil {
		return ErrNotRunning
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if _, err := c.stdin.WriteString(line); err != nil {
		return fmt.Errorf("failed writing to engine stdin: %w", err)
	}
	return nil
}

// scanLocked reads reply lines until accept qualifies one, silently skipping
// anything that is not a JSON object. Caller must hold mu.
func (c *Channel) scanLocked(accept func(map[string]json.RawMessage) bool) (string, error) {
	for c.scanner.Scan() {
		line := c.scanner.Text()
		if line == "" {
			continue
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &obj); err != nil || obj == nil {
			// Interleaved diagnostic output is protocol noise, not an error.
			c.log.Debug("discarding non-protocol line", zap.Int("len", len(line)))
			continue
		}

		if accept(obj) {
			return line, nil
		}
		c.log.Debug("discarding non-qualifying reply", zap.Int("len", len(line)))
	}

	if err := c.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed reading from engine stdout: %w", err)
	}
	return "", errors.New("engine stdout closed before a qualifying reply")
}

// idMatches compares a raw "id" value numerically, accepting both signed and
// unsigned encodings that fit the awaited value.
func idMatches(raw json.RawMessage, want int64) bool {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return false
	}
	v, err := num.Int64()
	if err != nil {
		// Unsigned values beyond int64 range can never equal an awaited id.
		return false
	}
	return v == want
}

// waitExitLocked waits up to d for the monitor goroutine to observe process
// exit. Caller must hold mu.
func (c *Channel) waitExitLocked(d time.Duration) bool {
	select {
	case <-c.done:
		return true
	case <-time.After(d):
		return false
	}
}

// clearLocked releases all owned resources. Caller must hold mu.
func (c *Channel) clearLocked() {
	if c.stdin != nil {
		c.stdin.Close()
	}
	if c.stdout != nil {
		c.stdout.Close()
	}
	c.cmd = nil
	c.stdin = nil
	c.stdout = nil
	c.scanner = nil
	c.done = nil
}
