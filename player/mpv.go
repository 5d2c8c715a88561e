package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/reelcue-cli/reelcue/key"
	"github.com/reelcue-cli/reelcue/log"
	"github.com/spf13/viper"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitGracePeriod   = 3 * time.Second
)

// MPV implements the Backend interface using mpv's JSON-IPC protocol.
//
// Each instance owns one mpv process: Load spawns it paused and minimized,
// Play reveals it, Stop re-hides it, Unload quits it. A buffer slot's
// lifecycle maps directly onto these operations.
type MPV struct {
	name       string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	listener   *EventListener
	onClipEnd  func() // invoked when the playing clip reaches its end
	mu         sync.Mutex
}

// NewMPV creates a new MPV surface (does not start a process).
// The name labels the window and log lines; onClipEnd may be nil.
func NewMPV(name string, onClipEnd func()) *MPV {
	return &MPV{
		name:      name,
		onClipEnd: onClipEnd,
	}
}

// Load spawns a paused, hidden mpv instance bound to the given locator and
// waits until its IPC socket accepts commands.
func (m *MPV) Load(locator string) error {
	// Sanitize the locator to prevent flag injection from manifest files.
	target, err := sanitizeMediaTarget(locator)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	// Generate a random socket path using os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/)
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("reelcue-%x.sock", randomBytes))

	m.cmd = exec.Command("mpv", loadArgs(m.socketPath, m.name, target)...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()

	// Disable standard pipes to prevent resource leaks.
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies
	m.exited = make(chan struct{})
	go func(cmd *exec.Cmd, exited chan struct{}) {
		_ = cmd.Wait()
		close(exited)
	}(m.cmd, m.exited)

	if err := m.waitForSocket(); err != nil {
		// If socket never became ready, kill the orphaned process
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
				// Already exited
			default:
				log.Warnf("killing mpv (%s): socket never became ready", m.name)
				_ = m.cmd.Process.Kill()
			}
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.handleEvent)
	if err := m.listener.Start(); err != nil {
		log.Warnf("mpv (%s) event listener unavailable: %v", m.name, err)
	}

	return nil
}

// loadArgs builds the mpv invocation for a preloading surface: paused,
// minimized, holding the last frame at end-of-file so the swap away from it
// never shows a black frame.
func loadArgs(socketPath, title, target string) []string {
	return []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		fmt.Sprintf("--force-media-title=%s", sanitizeTitle(title)),
		"--pause",
		"--keep-open=yes",
		"--force-window=yes",
		"--window-minimized=yes",
		target,
	}
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		// Check if process already exited
		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// handleEvent dispatches observed mpv property changes.
func (m *MPV) handleEvent(property string, data interface{}) {
	if property != "eof-reached" {
		return
	}
	if reached, ok := data.(bool); ok && reached && m.onClipEnd != nil {
		m.onClipEnd()
	}
}

// Play reveals the window and starts rendering.
func (m *MPV) Play() error {
	if err := m.Set("window-minimized", false); err != nil {
		return err
	}
	if viper.GetBool(key.PlayerFullscreen) {
		if err := m.Set("fullscreen", true); err != nil {
			return err
		}
	}
	if err := m.Set("ontop", true); err != nil {
		return err
	}
	return m.Set("pause", false)
}

// Stop pauses rendering and hides the window; the media stays loaded.
func (m *MPV) Stop() error {
	if err := m.Set("pause", true); err != nil {
		return err
	}
	_ = m.Set("ontop", false)
	return m.Set("window-minimized", true)
}

// Unload shuts down the mpv process and cleans up resources.
func (m *MPV) Unload() error {
	if m.listener != nil {
		m.listener.Stop()
		m.listener = nil
	}

	if m.socketPath == "" {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand([]interface{}{"quit"})

	// Wait for process to exit (with timeout)
	select {
	case <-m.exited:
		// Clean exit
	case <-time.After(quitGracePeriod):
		// Force kill if graceful quit didn't work
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	m.socketPath = ""
	m.cmd = nil

	return nil
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	// Fast check: process already exited?
	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Set assigns a property on the running instance.
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// sanitizeMediaTarget validates that a locator is safe to pass to mpv.
// Prevents flag injection from untrusted manifest files.
func sanitizeMediaTarget(locator string) (string, error) {
	l := strings.TrimSpace(locator)
	if l == "" {
		return "", fmt.Errorf("empty locator")
	}

	// Reject control characters
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in locator")
	}

	// Prevent flag injection: locators must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("locator must not start with '-' (looks like a flag)")
	}

	// If it contains "://", validate as URL
	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the window title for mpv.
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
