package filestore

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/battlesnakeio/termsnake/store"
	"github.com/pkg/errors"
)

var openFileReader = func(dir, id string) (io.ReadCloser, error) {
	return os.Open(getFilePath(dir, id))
}

type gameArchive struct {
	game   *store.Game
	frames []*store.Frame
}

// readLine reads the next record. It returns false once the input is
// exhausted; a final line without a newline is still being written and is
// skipped.
func readLine(r *bufio.Reader, out *record) (bool, error) {
	line, err := r.ReadBytes('\n')
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(line, out); err != nil {
		return false, err
	}
	return true, nil
}

func readArchive(dir, id string) (gameArchive, error) {
	f, err := openFileReader(dir, id)
	if err != nil {
		if os.IsNotExist(err) {
			return gameArchive{}, store.ErrNotFound
		}
		return gameArchive{}, err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	a := gameArchive{frames: []*store.Frame{}}
	for {
		rec := record{}
		more, err := readLine(reader, &rec)
		if err != nil {
			return gameArchive{}, errors.Wrapf(err, "corrupt game file for %s", id)
		}
		if !more {
			break
		}
		if rec.Game != nil {
			a.game = rec.Game
		}
		if rec.Frame != nil {
			a.frames = append(a.frames, rec.Frame)
		}
	}

	if a.game == nil {
		return gameArchive{}, store.ErrNotFound
	}
	return a, nil
}
