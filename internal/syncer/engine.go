package syncer

import (
	"github.com/JustAGhosT/agentkit-forge/internal/logging"
	"github.com/JustAGhosT/agentkit-forge/internal/scaffold"
)

// Engine runs the diff and apply stages for one engine install.
type Engine struct {
	log          *logging.Logger
	policy       *scaffold.Policy
	manifestPath string
}

// NewEngine creates an Engine. manifestPath is the fixed manifest location
// inside the engine install, not the project.
func NewEngine(log *logging.Logger, policy *scaffold.Policy, manifestPath string) *Engine {
	if log == nil {
		log = logging.Discard()
	}
	if policy == nil {
		policy = scaffold.Default()
	}
	return &Engine{
		log:          log,
		policy:       policy,
		manifestPath: manifestPath,
	}
}

// ManifestPath returns where the engine reads and writes its manifest.
func (e *Engine) ManifestPath() string { return e.manifestPath }

func (e *Engine) removeStaging(staging *Staging, warnings *[]Warning) {
	if err := staging.Remove(); err != nil {
		e.log.Warn("could not remove staging directory", "error", err)
		if warnings != nil {
			*warnings = append(*warnings, Warning{Kind: WarnStagingRemove, Path: staging.Root(), Err: err})
		}
	}
}
