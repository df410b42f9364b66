package input

import (
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// RawMode switches the terminal behind fd into raw mode so single key presses
// arrive without waiting for enter. The returned func restores the previous
// state.
func RawMode(fd int) (func() error, error) {
	if !term.IsTerminal(fd) {
		return nil, errors.Errorf("fd %d is not a terminal", fd)
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "unable to enter raw mode")
	}
	return func() error {
		return errors.Wrap(term.Restore(fd, state), "unable to restore terminal")
	}, nil
}
