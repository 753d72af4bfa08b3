// Package project locates the project root and the beads store for a directory.
package project

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/runoshun/skillbeads/internal/domain"
)

// Locator implements domain.ProjectLocator using go-git for root detection.
type Locator struct {
	getenv func(string) string
}

// NewLocator creates a new Locator.
func NewLocator() *Locator {
	return &Locator{getenv: os.Getenv}
}

// Ensure Locator implements domain.ProjectLocator interface.
var _ domain.ProjectLocator = (*Locator)(nil)

// Root returns the worktree root of the git repository containing dir.
// Outside a repository, dir itself is the root.
func (l *Locator) Root(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	root, err := gitRoot(abs)
	if err != nil {
		return abs
	}
	return root
}

// FindBeadsDir walks up from dir to the filesystem root looking for a .beads
// directory, crossing nested repositories and submodules the way bd does.
// BEADS_DIR in the environment wins when it points at an existing directory.
func (l *Locator) FindBeadsDir(dir string) string {
	if envDir := l.getenv(domain.BeadsDirEnv); envDir != "" && isDir(envDir) {
		return envDir
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for current := abs; ; {
		candidate := filepath.Join(current, domain.BeadsDirName)
		if isDir(candidate) {
			return candidate
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// gitRoot opens the repository containing dir and returns its worktree root.
func gitRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return "", domain.ErrNotAGitRepository
		}
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
