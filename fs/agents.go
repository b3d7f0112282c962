package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/workflow"
)

// DefaultPattern matches roster files anywhere under the agents directory.
const DefaultPattern = "**/*.{yaml,yml}"

// Interface compliance check.
var _ workflow.AgentSource = (*Agents)(nil)

// Agents is a [workflow.AgentSource] reading the built-in roster and any
// user roster files. User entries replace built-ins with the same name and
// are appended otherwise. Files are read on every call so edits show up
// without a restart.
type Agents struct {
	dir     string
	pattern string
	logger  *slog.Logger
}

// NewAgents returns an agent source. An empty dir disables user files; an
// empty pattern uses [DefaultPattern]. A nil logger uses slog.Default().
func NewAgents(dir, pattern string, logger *slog.Logger) (*Agents, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("fs: invalid glob pattern %q: %w", pattern, workflow.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agents{dir: dir, pattern: pattern, logger: logger}, nil
}

// Agents returns the merged roster. Unreadable or invalid user files are
// logged and skipped.
func (s *Agents) Agents(ctx context.Context) ([]workflow.Agent, error) {
	agents := BuiltinAgents()
	if s.dir == "" {
		return agents, nil
	}
	paths, err := s.match()
	if err != nil {
		s.logger.Warn("list agent files", "dir", s.dir, "error", err)
		return agents, nil
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.dir, p))
		if err != nil {
			s.logger.Warn("read agent file", "path", p, "error", err)
			continue
		}
		loaded, err := ParseAgents(data)
		if err != nil {
			s.logger.Warn("parse agent file", "path", p, "error", err)
			continue
		}
		agents = merge(agents, loaded)
	}
	return agents, nil
}

// Agent returns the agent with the given name.
func (s *Agents) Agent(ctx context.Context, name string) (workflow.Agent, error) {
	agents, err := s.Agents(ctx)
	if err != nil {
		return workflow.Agent{}, err
	}
	for _, a := range agents {
		if a.Name == name {
			return a, nil
		}
	}
	return workflow.Agent{}, fmt.Errorf("fs: agent %q: %w", name, workflow.ErrNotFound)
}

// match returns roster files under dir in lexical order.
func (s *Agents) match() ([]string, error) {
	info, err := os.Stat(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", s.dir)
	}
	var matches []string
	err = doublestar.GlobWalk(os.DirFS(s.dir), s.pattern, func(path string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, filepath.FromSlash(path))
		return nil
	})
	return matches, err
}

func merge(base, extra []workflow.Agent) []workflow.Agent {
	for _, a := range extra {
		replaced := false
		for i := range base {
			if base[i].Name == a.Name {
				base[i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			base = append(base, a)
		}
	}
	return base
}
