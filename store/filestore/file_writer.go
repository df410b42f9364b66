package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/battlesnakeio/termsnake/store"
	"github.com/pkg/errors"
)

var openFileWriter = appendOnlyFileWriter

type writer interface {
	WriteString(s string) (int, error)
	Close() error
}

// record is a single line of a game file. A game line replaces the previous
// game metadata, a frame line appends a frame.
type record struct {
	Game  *store.Game  `json:",omitempty"`
	Frame *store.Frame `json:",omitempty"`
}

func getFilePath(dir, id string) string {
	return filepath.Join(dir, id+".jsonl")
}

func writeLine(w writer, data interface{}) error {
	j, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.WriteString(string(j) + "\n")
	return err
}

func writeGame(w writer, g *store.Game) error {
	return writeLine(w, &record{Game: g})
}

func writeFrame(w writer, f *store.Frame) error {
	return writeLine(w, &record{Frame: f})
}

func appendOnlyFileWriter(dir, id string, mustCreate bool) (writer, error) {
	if err := os.MkdirAll(dir, 0775); err != nil {
		return nil, errors.Wrap(err, "unable to create game directory")
	}

	path := getFilePath(dir, id)
	flags := os.O_APPEND | os.O_WRONLY | os.O_CREATE
	if mustCreate {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	return f, nil
}
