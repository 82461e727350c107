package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Default directories, relative to the repository root.
const (
	DefaultInitDir       = "BD_Fitness_App/init"
	DefaultMigrationsDir = "app/database/migrations"
)

// Init files matching either rule are the database bootstrap script, which
// must not run against a managed database.
const (
	bootstrapPrefix    = "00_"
	bootstrapSubstring = "create_database"
)

// Layout locates the two migration directories.
type Layout struct {
	Root          string
	InitDir       string // relative to Root unless absolute
	MigrationsDir string // relative to Root unless absolute
}

// DefaultLayout returns the standard directory layout under root.
func DefaultLayout(root string) Layout {
	return Layout{
		Root:          root,
		InitDir:       DefaultInitDir,
		MigrationsDir: DefaultMigrationsDir,
	}
}

// Collect returns the absolute paths of every candidate migration file.
// Init files come first, then migrations; each group is sorted by filename.
// A missing directory, or a path that is not a directory, contributes nothing.
func Collect(l Layout) ([]string, error) {
	root, err := filepath.Abs(l.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving repository root %s: %w", l.Root, err)
	}

	initFiles, err := listSQL(resolve(root, l.InitDir), isBootstrap)
	if err != nil {
		return nil, err
	}

	migrationFiles, err := listSQL(resolve(root, l.MigrationsDir), nil)
	if err != nil {
		return nil, err
	}

	return append(initFiles, migrationFiles...), nil
}

func resolve(root, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}

	return filepath.Join(root, dir)
}

// listSQL returns sorted paths of .sql files in dir, dropping names for which
// exclude returns true.
func listSQL(dir string, exclude func(name string) bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading migrations directory %s: %w", dir, err)
	}

	if !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".sql") {
			continue
		}

		if exclude != nil && exclude(name) {
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}

	return paths, nil
}

func isBootstrap(name string) bool {
	return strings.HasPrefix(name, bootstrapPrefix) ||
		strings.Contains(strings.ToLower(name), bootstrapSubstring)
}
