package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/periodicity/sim/internal/core/ecs"
	coresys "github.com/periodicity/sim/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Phase 7 (Cleanup).
type CleanupSystem struct {
	world *ecs.World
	log   *zap.Logger
}

func NewCleanupSystem(world *ecs.World, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if gone := s.world.FlushDestroyQueue(); len(gone) > 0 {
		s.log.Debug("entities destroyed", zap.Int("count", len(gone)))
	}
}
