package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/melih/composedeck/internal/compose"
	"github.com/melih/composedeck/internal/core/domain"
	"github.com/sirupsen/logrus"
)

// Loader implements ports.ComposeLoader over a directory holding one
// subdirectory per client.
type Loader struct {
	root string
	log  *logrus.Entry
}

// NewLoader creates a loader rooted at root. The directory is created on
// first use if it does not exist.
func NewLoader(root string, log *logrus.Entry) *Loader {
	return &Loader{root: root, log: log.WithField("component", "compose-loader")}
}

// Root returns the clients root directory.
func (l *Loader) Root() string {
	return l.root
}

// Clients lists client directories in name order. Directories whose names
// cannot address a client are skipped.
func (l *Loader) Clients() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(l.root, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create clients directory: %w", err)
		}
		l.log.WithField("root", l.root).Info("Created clients directory")
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read clients directory: %w", err)
	}

	clients := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := domain.ValidateClientName(e.Name()); err != nil {
			l.log.WithError(err).WithField("dir", e.Name()).Warn("Skipping client directory")
			continue
		}
		clients = append(clients, e.Name())
	}
	return clients, nil
}

// Load reads and decodes the client's compose file. A missing or unusable
// file yields a nil project and no error.
func (l *Loader) Load(client string) (*compose.Project, error) {
	if err := domain.ValidateClientName(client); err != nil {
		return nil, err
	}
	log := l.log.WithField("client", client)
	path := filepath.Join(l.root, client, compose.FileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("No %s found", compose.FileName)
		return nil, nil
	}
	if err != nil {
		log.WithError(err).Warnf("Failed to read %s", compose.FileName)
		return nil, nil
	}

	project, err := compose.Parse(data)
	if err != nil {
		log.WithError(err).Warnf("Invalid %s", compose.FileName)
		return nil, nil
	}
	for _, s := range project.Skipped {
		log.WithField("service", s.Name).Infof("Skipping service: %s", s.Reason)
	}
	return project, nil
}
