package gitsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/melih/composedeck/internal/core/domain"
	"github.com/sirupsen/logrus"
)

// Source implements ports.ComposeSource by keeping client directories as git
// checkouts.
type Source struct {
	root  string
	depth int
	log   *logrus.Entry
}

// NewSource creates a source writing checkouts under root. A positive depth
// makes clones shallow.
func NewSource(root string, depth int, log *logrus.Entry) *Source {
	return &Source{root: root, depth: depth, log: log.WithField("component", "git-source")}
}

// Clone checks out repoURL as a new client directory.
func (s *Source) Clone(ctx context.Context, client, repoURL string) error {
	if err := domain.ValidateClientName(client); err != nil {
		return err
	}
	dir := filepath.Join(s.root, client)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrClientExists, client)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create clients directory: %w", err)
	}

	s.log.WithField("client", client).Infof("Cloning %s", repoURL)
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   repoURL,
		Depth: s.depth,
	})
	if err != nil {
		// Leave no half-written client behind.
		_ = os.RemoveAll(dir)
		return fmt.Errorf("failed to clone repo: %w", err)
	}
	return nil
}

// Sync pulls the latest commits into an existing client checkout.
func (s *Source) Sync(ctx context.Context, client string) error {
	if err := domain.ValidateClientName(client); err != nil {
		return err
	}
	dir := filepath.Join(s.root, client)

	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return fmt.Errorf("%w: %s is not a git checkout", domain.ErrNotFound, client)
	}
	if err != nil {
		return fmt.Errorf("failed to open repo: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: git.DefaultRemoteName})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		s.log.WithField("client", client).Debug("Already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to pull: %w", err)
	}
	s.log.WithField("client", client).Info("Pulled latest compose definition")
	return nil
}
