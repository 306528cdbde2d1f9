package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/core/event"
	coresys "github.com/periodicity/sim/internal/core/system"
	"github.com/periodicity/sim/internal/data"
	"github.com/periodicity/sim/internal/game"
	"github.com/periodicity/sim/internal/present"
)

func testSpells() *data.SpellTable {
	return data.NewSpellTable(
		data.SpellInfo{
			ID: data.SpellMiasma, Name: "miasma", Icon: "Miasma",
			Coefficient: 1, DPS: 3, Duration: 4 * time.Second, CastTime: 4 * time.Second,
		},
		data.SpellInfo{
			ID: data.SpellInfernum, Name: "infernum", Icon: "Infernum",
			UpfrontDamage: 5, Coefficient: 2, DPS: 1, Duration: 10 * time.Second, CastTime: 4 * time.Second,
			Anim: &data.AnimInfo{Texture: "Infernum_anim", Frames: 10, FrameTime: 100 * time.Millisecond, Width: 256, Height: 256},
		},
	)
}

type fakeXP struct{}

func (fakeXP) ExpForLevel(level int) int     { return 100 * level }
func (fakeXP) XPForKill(victimLevel int) int { return 25 * victimLevel }

type recordingText struct{ shown []game.Damage }

func (r *recordingText) ShowDamage(d game.Damage) { r.shown = append(r.shown, d) }

// fixture wires the full tick pipeline around a player and one enemy.
type fixture struct {
	world    *ecs.World
	game     *game.Store
	pres     *present.Store
	spells   *data.SpellTable
	bus      *event.Bus
	damage   *game.DamageQueue
	commands chan Command
	runner   *coresys.Runner
	text     *recordingText
	effects  *present.EffectQueue

	player ecs.EntityID
	enemy  ecs.EntityID
}

func newFixture(t *testing.T, enemyHealth uint32) *fixture {
	t.Helper()
	log := zap.NewNop()
	w := ecs.NewWorld()
	f := &fixture{
		world:    w,
		game:     game.NewStore(w),
		pres:     present.NewStore(w),
		spells:   testSpells(),
		bus:      event.NewBus(),
		damage:   game.NewDamageQueue(),
		commands: make(chan Command, 16),
		runner:   coresys.NewRunner(),
		text:     &recordingText{},
		effects:  &present.EffectQueue{},
	}

	var err error
	f.player, err = f.game.Spawn(data.UnitTemplate{
		Tag: "player", Allegiance: "player", Level: 5, XP: 50, NextLevelXP: 100, HealthMax: 100,
	})
	require.NoError(t, err)
	f.enemy, err = f.game.Spawn(data.UnitTemplate{
		Tag: "alpine_terror", Allegiance: "enemy", Level: 2, HealthMax: enemyHealth,
	})
	require.NoError(t, err)

	f.runner.Register(NewInputSystem(f.bus, f.game, f.pres, f.spells, f.commands, 16, log))
	f.runner.Register(NewMortalitySystem(f.game, f.bus, log))
	f.runner.Register(NewDebuffSystem(f.game, f.spells, f.damage, log))
	f.runner.Register(NewBuffTickSystem(f.game))
	f.runner.Register(NewEffectSystem(f.bus, f.game, f.pres, f.spells, f.damage, f.effects, fakeXP{}, log))
	f.runner.Register(NewDamageSystem(f.game, f.damage, f.text, log))
	f.runner.Register(NewActionSystem(f.game, f.bus, log))
	f.runner.Register(NewPresentSyncSystem(f.game, f.pres, f.spells))
	f.runner.Register(NewCleanupSystem(w, log))
	return f
}

func (f *fixture) tick(dt time.Duration, n int) {
	for i := 0; i < n; i++ {
		f.runner.Tick(dt)
	}
}

func (f *fixture) health(id ecs.EntityID) uint32 {
	st, _ := f.game.Stats.Get(id)
	return st.HealthCurr
}
