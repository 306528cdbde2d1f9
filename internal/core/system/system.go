package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput     Phase = iota // 0: swap event buffers, drain input commands
	PhaseMortality              // 1: derive alive/dead from last tick's health
	PhaseDebuff                 // 2: tick debuffs and buffs, queue DoT damage
	PhaseEffect                 // 3: apply last tick's completion effects
	PhaseDamage                 // 4: drain the damage queue
	PhaseAction                 // 5: advance action queues
	PhasePresent                // 6: sync presentation components
	PhaseCleanup                // 7: destroy queued entities
)

var phaseNames = [...]string{"input", "mortality", "debuff", "effect", "damage", "action", "present", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
