// Package present writes a rendered recipe to disk and shows it to the user.
package present

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

// Destination says where the document goes. Both fields are optional: an
// empty Name writes a temporary file, an empty Dir means the working
// directory (or the system temp dir for temporary files).
type Destination struct {
	Dir  string
	Name string
}

// Presenter writes documents and hands the written path to Open.
type Presenter struct {
	// Open is called once with the absolute path of every written file.
	// Nil disables opening.
	Open func(path string)
}

// New returns a Presenter that opens files in the default browser when
// open is true.
func New(open bool) *Presenter {
	p := &Presenter{}
	if open {
		p.Open = OpenInBrowser
	}
	return p
}

// OpenInBrowser asks the OS to show path in the default browser. It does
// not wait for the browser.
func OpenInBrowser(path string) {
	launcher.Open("file://" + filepath.ToSlash(path))
}

// Present writes content to dst and returns the absolute path written.
func (p *Presenter) Present(content string, dst Destination) (string, error) {
	path, err := write(content, dst)
	if err != nil {
		return "", err
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	slog.Info("HTML file created at " + path)

	if p.Open != nil {
		p.Open(path)
	}
	return path, nil
}

func write(content string, dst Destination) (string, error) {
	if dst.Dir != "" {
		if err := os.MkdirAll(dst.Dir, 0o755); err != nil {
			return "", fmt.Errorf("present: create dir: %w", err)
		}
	}

	if dst.Name == "" {
		dir := dst.Dir
		if dir == "" {
			dir = os.TempDir()
		}
		f, err := os.CreateTemp(dir, "recipy-*.html")
		if err != nil {
			return "", fmt.Errorf("present: create temp file: %w", err)
		}
		if _, err := f.WriteString(content); err != nil {
			f.Close()
			return "", fmt.Errorf("present: write %s: %w", f.Name(), err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("present: close %s: %w", f.Name(), err)
		}
		return f.Name(), nil
	}

	name := dst.Name
	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}
	path := name
	if dst.Dir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(dst.Dir, name)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("present: write %s: %w", path, err)
	}
	return path, nil
}
