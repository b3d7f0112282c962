// Package fs loads agent personas from YAML: a built-in roster embedded in
// the binary plus optional user files found by glob under a directory.
package fs

import (
	_ "embed"
	"fmt"

	"github.com/fwojciec/workflow"
	"gopkg.in/yaml.v3"
)

//go:embed agents.yaml
var builtinYAML []byte

// agentFile is the on-disk roster format.
type agentFile struct {
	Agents []agentYAML `yaml:"agents"`
}

type agentYAML struct {
	Name        string   `yaml:"name"`
	Gender      string   `yaml:"gender"`
	Role        string   `yaml:"role"`
	Skills      []string `yaml:"skills"`
	Personality string   `yaml:"personality"`
	Prompt      string   `yaml:"prompt"`
}

func (a agentYAML) agent() workflow.Agent {
	return workflow.Agent{
		Name:        a.Name,
		Gender:      workflow.Gender(a.Gender),
		Role:        a.Role,
		Skills:      a.Skills,
		Personality: a.Personality,
		Prompt:      a.Prompt,
	}
}

// ParseAgents decodes a roster document and validates every entry.
func ParseAgents(data []byte) ([]workflow.Agent, error) {
	var f agentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fs: decode agents: %w", err)
	}
	agents := make([]workflow.Agent, 0, len(f.Agents))
	for _, a := range f.Agents {
		agent := a.agent()
		if err := agent.Validate(); err != nil {
			return nil, fmt.Errorf("fs: %w", err)
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

// BuiltinAgents returns the embedded roster.
func BuiltinAgents() []workflow.Agent {
	agents, err := ParseAgents(builtinYAML)
	if err != nil {
		panic(err)
	}
	return agents
}
