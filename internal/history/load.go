package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ademuri/spotify-plot/internal/logger"
)

var ErrNotFound = errors.New("the provided filepath does not exist")

type Loader struct {
	fs afero.Fs
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load reads every .json file in dir from the OS filesystem.
func Load(dir string) (*Dataset, error) {
	return NewLoader(afero.NewOsFs()).Load(dir)
}

// Load reads every .json file in dir. Each file holds a sequence of JSON
// values: arrays contribute their object elements, objects contribute
// themselves, and anything else is ignored.
func (l *Loader) Load(dir string) (*Dataset, error) {
	info, err := l.fs.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		logger.L().Error("The provided filepath does not exist.", zap.String("path", dir))
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	ds := NewDataset(nil)
	files := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := l.loadFile(path, ds); err != nil {
			return nil, err
		}
		files++
	}

	logger.L().Info("Loaded streaming history",
		zap.String("path", dir),
		zap.Int("files", files),
		zap.Int("plays", ds.Len()))
	return ds, nil
}

func (l *Loader) loadFile(path string, ds *Dataset) error {
	f, err := l.fs.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
		if err := appendValue(raw, ds); err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
	}
}

func appendValue(raw json.RawMessage, ds *Dataset) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return err
		}
		for _, elem := range elems {
			elem = bytes.TrimSpace(elem)
			if len(elem) == 0 || elem[0] != '{' {
				continue
			}
			if err := appendRecord(elem, ds); err != nil {
				return err
			}
		}
	case '{':
		return appendRecord(trimmed, ds)
	}
	return nil
}

func appendRecord(raw json.RawMessage, ds *Dataset) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return err
	}
	var p Play
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	for k := range keys {
		ds.addColumn(k)
	}
	ds.Plays = append(ds.Plays, p)
	return nil
}
