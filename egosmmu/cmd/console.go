package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-tty"
)

type stdioConsole struct{}

func (stdioConsole) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdioConsole) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

// ttyConsole reads keys one at a time from a terminal in raw mode, the way
// the kernel reads its serial line.
type ttyConsole struct {
	t       *tty.TTY
	restore func() error
}

func (c *ttyConsole) Read(p []byte) (int, error) {
	return c.t.Input().Read(p)
}

func (c *ttyConsole) Write(p []byte) (int, error) {
	return c.t.Output().Write(p)
}

func (c *ttyConsole) Close() error {
	err := c.restore()
	if err != nil {
		return err
	}

	return c.t.Close()
}

// openConsole opens the serial line used for the boot prompt. "stdio" uses
// the standard streams, "tty" the controlling terminal, and anything else is
// a terminal device path.
func openConsole(name string) (io.ReadWriter, func() error, error) {
	if name == "" || name == "stdio" {
		return stdioConsole{}, func() error { return nil }, nil
	}

	var (
		t   *tty.TTY
		err error
	)

	if name == "tty" {
		t, err = tty.Open()
	} else {
		t, err = tty.OpenDevice(name)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("open console %s: %w", name, err)
	}

	restore, err := t.Raw()
	if err != nil {
		t.Close()
		return nil, nil, fmt.Errorf("raw mode on %s: %w", name, err)
	}

	c := &ttyConsole{t: t, restore: restore}

	return c, c.Close, nil
}
