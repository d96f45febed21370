package synth

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Label pairs a written image with the text rendered into it.
type Label struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// labelsPath resolves req.LabelsFile against the output directory.
func labelsPath(req Request) string {
	if filepath.IsAbs(req.LabelsFile) {
		return req.LabelsFile
	}
	return filepath.Join(req.OutputDir, req.LabelsFile)
}

// labelWriter collects "<name>\t<text>" lines for the labels manifest and
// writes them on Close. Names are relative to the manifest's directory. A
// name recorded twice keeps its first position and its latest text, matching
// the file left on disk.
type labelWriter struct {
	dir    string
	f      *os.File
	rows   []Label
	index  map[string]int
	closed bool
}

func createLabels(path string) (*labelWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create labels file: %w", err)
	}
	return &labelWriter{dir: filepath.Dir(path), f: f, index: make(map[string]int)}, nil
}

func (l *labelWriter) Add(path, text string) {
	name, err := filepath.Rel(l.dir, path)
	if err != nil {
		if name, err = filepath.Abs(path); err != nil {
			name = path
		}
	}
	if i, ok := l.index[name]; ok {
		l.rows[i].Text = text
		return
	}
	l.index[name] = len(l.rows)
	l.rows = append(l.rows, Label{Path: name, Text: text})
}

// Close writes the manifest and closes it. It is safe to call more than once.
func (l *labelWriter) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true

	w := bufio.NewWriter(l.f)
	var writeErr error
	for _, row := range l.rows {
		if _, writeErr = fmt.Fprintf(w, "%s\t%s\n", row.Path, row.Text); writeErr != nil {
			break
		}
	}
	if writeErr == nil {
		writeErr = w.Flush()
	}
	closeErr := l.f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return fmt.Errorf("write labels file: %w", err)
	}
	return nil
}

// ReadLabels parses a labels manifest. Relative image names are resolved
// against the manifest's directory. Blank lines are skipped.
func ReadLabels(path string) ([]Label, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels file: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var labels []Label
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		row := scanner.Text()
		if strings.TrimSpace(row) == "" {
			continue
		}
		name, text, ok := strings.Cut(row, "\t")
		if !ok {
			return nil, fmt.Errorf("labels file %s line %d: missing tab separator", path, line)
		}
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		labels = append(labels, Label{Path: name, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read labels file: %w", err)
	}
	return labels, nil
}
