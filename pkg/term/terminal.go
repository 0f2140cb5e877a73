// Package term hosts a weft component tree on a terminal: raw-mode I/O,
// decoding of key input, focus routing, and differential line rendering
// in the normal scrollback buffer (no alternate screen). Synchronized
// output brackets every frame to prevent flicker.
package term

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Terminal abstracts terminal I/O so [Screen] can be tested against a
// fake terminal.
type Terminal interface {
	// Start puts the terminal into raw mode and begins listening.
	// onInput receives raw bytes from stdin; onResize fires when the
	// dimensions change.
	Start(onInput func([]byte), onResize func()) error

	// Stop restores the terminal to its original state.
	Stop()

	// WriteString sends a string to the terminal.
	WriteString(s string)

	// Columns returns the current terminal width.
	Columns() int

	// Rows returns the current terminal height.
	Rows() int

	// HideCursor hides the hardware cursor.
	HideCursor()

	// ShowCursor shows the hardware cursor.
	ShowCursor()
}

// ProcessTerminal is a Terminal backed by os.Stdin / os.Stdout. The size
// is cached and refreshed on SIGWINCH so rendering never blocks on an
// ioctl.
type ProcessTerminal struct {
	origTermios *unix.Termios
	sigCh       chan os.Signal
	stopCtx     context.Context
	stopCancel  context.CancelFunc

	sizeMu sync.RWMutex
	cols   int
	rows   int
}

// NewProcessTerminal returns an unstarted process terminal.
func NewProcessTerminal() *ProcessTerminal {
	return &ProcessTerminal{}
}

func (t *ProcessTerminal) Start(onInput func([]byte), onResize func()) error {
	t.stopCtx, t.stopCancel = context.WithCancel(context.Background())

	fd := int(os.Stdin.Fd())
	orig, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return errors.Wrap(err, "get termios")
	}
	t.origTermios = orig

	raw := *orig
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return errors.Wrap(err, "set raw mode")
	}

	t.refreshSize()

	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				onInput(data)
			}
			if err != nil {
				return
			}
		}
	}()

	t.sigCh = make(chan os.Signal, 1)
	signal.Notify(t.sigCh, syscall.SIGWINCH)
	go func() {
		for {
			select {
			case <-t.sigCh:
				t.refreshSize()
				if onResize != nil {
					onResize()
				}
			case <-t.stopCtx.Done():
				return
			}
		}
	}()

	return nil
}

func (t *ProcessTerminal) Stop() {
	if t.stopCancel != nil {
		t.stopCancel()
	}
	if t.sigCh != nil {
		signal.Stop(t.sigCh)
	}
	if t.origTermios != nil {
		fd := int(os.Stdin.Fd())
		_ = unix.IoctlSetTermios(fd, ioctlWriteTermios, t.origTermios)
	}
}

func (t *ProcessTerminal) WriteString(s string) {
	_, _ = os.Stdout.WriteString(s)
}

func (t *ProcessTerminal) Columns() int {
	t.sizeMu.RLock()
	c := t.cols
	t.sizeMu.RUnlock()
	if c == 0 {
		return 80
	}
	return c
}

func (t *ProcessTerminal) Rows() int {
	t.sizeMu.RLock()
	r := t.rows
	t.sizeMu.RUnlock()
	if r == 0 {
		return 24
	}
	return r
}

func (t *ProcessTerminal) refreshSize() {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return
	}
	t.sizeMu.Lock()
	if ws.Col > 0 {
		t.cols = int(ws.Col)
	}
	if ws.Row > 0 {
		t.rows = int(ws.Row)
	}
	t.sizeMu.Unlock()
}

func (t *ProcessTerminal) HideCursor() { t.WriteString("\x1b[?25l") }
func (t *ProcessTerminal) ShowCursor() { t.WriteString("\x1b[?25h") }
