package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/loamkb/loam/internal/atomicfile"
	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/parser"
)

// Dir persists each note as a markdown file under a root directory.
// The file location follows the note's path; the permalink in the
// frontmatter remains the identity, so a note can move on disk without
// changing identity.
type Dir struct {
	root string

	// files maps permalink to the store-relative file path (without
	// extension) it was last written to, so moves clean up after
	// themselves.
	files map[string]string
}

// OpenDir opens (creating if needed) a markdown directory store.
func OpenDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Dir{root: root, files: make(map[string]string)}, nil
}

// Root returns the store's root directory.
func (d *Dir) Root() string {
	return d.root
}

// LoadAll parses every markdown file under the root.
func (d *Dir) LoadAll() ([]*model.Note, error) {
	var notes []*model.Note

	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			// Skip hidden directories like .git.
			if strings.HasPrefix(entry.Name(), ".") && path != d.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(entry.Name(), ".md") {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		relPath := strings.TrimSuffix(filepath.ToSlash(rel), ".md")

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		n, err := parser.Decode(relPath, string(content))
		if err != nil {
			return err
		}

		d.files[n.Permalink] = relPath
		notes = append(notes, n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load store %s: %w", d.root, err)
	}

	return notes, nil
}

// Persist writes a note to its markdown file, removing the previous file
// if the note moved.
func (d *Dir) Persist(n *model.Note) error {
	content, err := parser.Encode(n)
	if err != nil {
		return err
	}

	relPath := n.EffectivePath()
	file := d.filePath(relPath)
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create note directory: %w", err)
	}
	if err := atomicfile.WriteFile(file, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}

	if prev, ok := d.files[n.Permalink]; ok && prev != relPath {
		if err := os.Remove(d.filePath(prev)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove moved note %s: %w", prev, err)
		}
	}
	d.files[n.Permalink] = relPath
	return nil
}

// Delete removes a note's markdown file. Deleting an unknown permalink is
// a no-op.
func (d *Dir) Delete(permalink string) error {
	relPath, ok := d.files[permalink]
	if !ok {
		return nil
	}
	if err := os.Remove(d.filePath(relPath)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete note %s: %w", permalink, err)
	}
	delete(d.files, permalink)
	return nil
}

func (d *Dir) filePath(relPath string) string {
	return filepath.Join(d.root, filepath.FromSlash(relPath)+".md")
}
