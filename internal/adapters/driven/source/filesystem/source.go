// Package filesystem reads records from JSON files on disk.
//
// Supported layouts:
//   - .json: a JSON array of records, or a single record object
//   - .jsonl, .ndjson: one record per non-blank line
//   - a directory: every supported, non-hidden file beneath it, in lexical
//     path order
package filesystem

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 16 * 1024 * 1024

// Source reads records from a file or directory.
type Source struct {
	rootPath string
}

// New creates a filesystem source rooted at path.
func New(path string) *Source {
	return &Source{rootPath: path}
}

// Describe returns the root path.
func (s *Source) Describe() string {
	return s.rootPath
}

// Validate checks that the root path exists.
func (s *Source) Validate() error {
	info, err := os.Stat(s.rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: path does not exist: %s", domain.ErrInvalidInput, s.rootPath)
		}
		return fmt.Errorf("stat %s: %w", s.rootPath, err)
	}
	if !info.IsDir() && !Supported(s.rootPath) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedType, s.rootPath)
	}
	return nil
}

// Records reads every record under the root path.
func (s *Source) Records(ctx context.Context) ([]domain.Record, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	files, err := s.files()
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := readFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// files lists the files to read, sorted.
func (s *Source) files() ([]string, error) {
	info, err := os.Stat(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.rootPath, err)
	}
	if !info.IsDir() {
		return []string{s.rootPath}, nil
	}

	var files []string
	err = filepath.WalkDir(s.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(s.rootPath, path)
		if relErr == nil && rel != "." && isHidden(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.rootPath, err)
	}
	sort.Strings(files)
	return files, nil
}

// Supported reports whether the file extension is a record format.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return true
	default:
		return false
	}
}

func readFile(path string) ([]domain.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return readJSON(path)
	case ".jsonl", ".ndjson":
		return readJSONLines(path)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
	}
}

// readJSON splits a top-level array into records. Any other document is
// one record; the decoder rejects it if it is not an object. The whole file
// must be valid JSON, otherwise nothing is returned.
func readJSON(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s: invalid JSON", domain.ErrMalformedRecord, path)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return []domain.Record{{Origin: path, Payload: data}}, nil
	}

	var records []domain.Record
	doc.ForEach(func(_, value gjson.Result) bool {
		records = append(records, domain.Record{
			Origin:  fmt.Sprintf("%s[%d]", path, len(records)),
			Payload: []byte(value.Raw),
		})
		return true
	})
	return records, nil
}

func readJSONLines(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var records []domain.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		records = append(records, domain.Record{
			Origin:  fmt.Sprintf("%s:%d", path, line),
			Payload: bytes.Clone(text),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// isHidden reports whether any path element starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
