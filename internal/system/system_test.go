package system

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/core/event"
	"github.com/periodicity/sim/internal/data"
	"github.com/periodicity/sim/internal/game"
	"github.com/periodicity/sim/internal/present"
)

func TestInfernumScenario(t *testing.T) {
	f := newFixture(t, 200)
	f.commands <- CastCommand{Caster: f.player, Spell: data.SpellInfernum}

	// Cast time 4s: queued and advanced on tick 1, completes on tick 4.
	f.tick(time.Second, 4)
	assert.EqualValues(t, 200, f.health(f.enemy))
	tgt, _ := f.game.Targets.Get(f.player)
	assert.Equal(t, f.enemy, tgt.Entity)

	// Tick 5 applies the completion: upfront damage only.
	f.tick(time.Second, 1)
	assert.EqualValues(t, 195, f.health(f.enemy))
	bar, _ := f.game.DebuffBars.Get(f.enemy)
	require.Len(t, bar.Debuffs, 1)
	assert.Equal(t, 10*time.Second, bar.Debuffs[0].TimeLeft)
	assert.Equal(t, f.player, bar.Debuffs[0].Source)

	// Ten seconds of 2 damage per second.
	f.tick(time.Second, 10)
	assert.EqualValues(t, 175, f.health(f.enemy))

	f.tick(time.Second, 3)
	assert.EqualValues(t, 175, f.health(f.enemy))
	assert.Empty(t, bar.Debuffs, "expired debuff is dropped lazily")
	assert.Zero(t, f.damage.Len())

	fx := f.effects.Take()
	require.Len(t, fx, 1)
	assert.Equal(t, "Infernum_anim", fx[0].Texture)
	assert.Equal(t, time.Second, fx[0].Duration)
	assert.Equal(t, f.enemy, fx[0].Target)
}

func TestCastCompletesExactlyOnceAt16ms(t *testing.T) {
	gs := game.NewStore(ecs.NewWorld())
	bus := event.NewBus()
	id := gs.AddEntity("caster")
	gs.ActionQueues.Set(id, &game.ActionQueue{})
	q, _ := gs.ActionQueues.Get(id)
	q.Push(game.Action{Tag: "cast", TakesTime: 4 * time.Second, Remaining: 4 * time.Second})

	tick := 0
	var completedAt []int
	event.Subscribe(bus, func(event.ActionCompleted) { completedAt = append(completedAt, tick) })

	sys := NewActionSystem(gs, bus, zap.NewNop())
	for tick = 1; tick <= 400; tick++ {
		sys.Update(16 * time.Millisecond)
		bus.SwapBuffers()
		bus.DispatchAll()
	}
	assert.Equal(t, []int{250}, completedAt)
	assert.Empty(t, q.Queue)
}

func TestActionQueueCompletesFIFO(t *testing.T) {
	gs := game.NewStore(ecs.NewWorld())
	bus := event.NewBus()
	id := gs.AddEntity("worker")
	gs.ActionQueues.Set(id, &game.ActionQueue{})
	q, _ := gs.ActionQueues.Get(id)
	for _, tag := range []string{"first", "second", "third"} {
		q.Push(game.Action{Kind: game.ActionMining, Tag: tag, TakesTime: 100 * time.Millisecond, Remaining: 100 * time.Millisecond})
	}

	var order []string
	event.Subscribe(bus, func(ev event.ActionCompleted) { order = append(order, ev.Tag) })
	sys := NewActionSystem(gs, bus, zap.NewNop())

	sys.Update(50 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, q.Queue[0].Remaining)
	assert.Equal(t, 100*time.Millisecond, q.Queue[1].Remaining, "only the front ticks")

	for i := 0; i < 20; i++ {
		sys.Update(70 * time.Millisecond)
		bus.SwapBuffers()
		bus.DispatchAll()
	}
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestDamageDrainSaturatesAndEmpties(t *testing.T) {
	gs := game.NewStore(ecs.NewWorld())
	id, err := gs.Spawn(data.UnitTemplate{Tag: "dummy", Allegiance: "enemy", HealthMax: 10})
	require.NoError(t, err)
	src := gs.AddEntity("attacker")

	dq := game.NewDamageQueue()
	text := &recordingText{}
	sys := NewDamageSystem(gs, dq, text, zap.NewNop())

	dq.Push(game.Damage{Amount: 5, Target: id, Source: src})
	dq.Push(game.Damage{Amount: 3, Target: id, Source: src})
	sys.Update(0)
	st, _ := gs.Stats.Get(id)
	assert.EqualValues(t, 2, st.HealthCurr)
	assert.Zero(t, dq.Len())

	dq.Push(game.Damage{Amount: 50, Target: id, Source: src})
	dq.Push(game.Damage{Amount: 1, Target: 999})
	sys.Update(0)
	assert.Zero(t, st.HealthCurr)
	assert.Zero(t, dq.Len(), "drain clears even skipped events")

	m, _ := gs.Mortalities.Get(id)
	assert.Equal(t, src, m.LastAttacker)
	assert.Len(t, text.shown, 3)
}

func TestFractionalCarryAnyPartition(t *testing.T) {
	partitions := map[string][]time.Duration{
		"one second":  repeat(time.Second, 4),
		"16ms frames": repeat(16*time.Millisecond, 250),
		"irregular":   irregular(4*time.Second, []time.Duration{7, 13, 29, 50, 1, 16, 333}),
		"single tick": {4 * time.Second},
	}
	const dps, coef, duration = 3.0, 1.0, 4.0
	want := math.Floor(dps * coef * duration)

	for name, steps := range partitions {
		t.Run(name, func(t *testing.T) {
			gs := game.NewStore(ecs.NewWorld())
			id, err := gs.Spawn(data.UnitTemplate{Tag: "dummy", Allegiance: "enemy", HealthMax: 1000})
			require.NoError(t, err)
			bar, _ := gs.DebuffBars.Get(id)
			bar.Debuffs = append(bar.Debuffs, game.Debuff{
				Spell: data.SpellMiasma, Name: "miasma",
				TotalDuration: 4 * time.Second, TimeLeft: 4 * time.Second, Stacks: 1,
			})

			dq := game.NewDamageQueue()
			sys := NewDebuffSystem(gs, testSpells(), dq, zap.NewNop())
			total := 0.0
			for _, dt := range steps {
				sys.Update(dt)
				dq.Drain(func(d game.Damage) { total += float64(d.Amount) })
				require.GreaterOrEqual(t, bar.Debuffs[0].PendingDamage, 0.0)
				require.Less(t, bar.Debuffs[0].PendingDamage, 1.0)
			}
			assert.InDelta(t, want, total, 1)
			assert.True(t, bar.Debuffs[0].Expired())

			sys.Update(time.Second)
			assert.Empty(t, bar.Debuffs)
			assert.Zero(t, dq.Len())
		})
	}
}

func TestDebuffWithoutStatsOnlyCountsDown(t *testing.T) {
	gs := game.NewStore(ecs.NewWorld())
	id := gs.AddEntity("ghost")
	gs.DebuffBars.Set(id, &game.DebuffBar{Debuffs: []game.Debuff{
		{Spell: data.SpellMiasma, TimeLeft: time.Second},
		{Spell: data.SpellUmbraMortis, TimeLeft: time.Second},
	}})
	dq := game.NewDamageQueue()
	NewDebuffSystem(gs, testSpells(), dq, zap.NewNop()).Update(400 * time.Millisecond)

	bar, _ := gs.DebuffBars.Get(id)
	assert.Zero(t, dq.Len())
	for _, d := range bar.Debuffs {
		assert.Equal(t, 600*time.Millisecond, d.TimeLeft)
	}
}

func TestSameSpellDebuffsStack(t *testing.T) {
	f := newFixture(t, 1000)
	f.commands <- CastCommand{Caster: f.player, Spell: data.SpellMiasma}
	f.commands <- CastCommand{Caster: f.player, Spell: data.SpellMiasma}
	f.tick(time.Second, 8)
	f.tick(time.Second, 1)

	bar, _ := f.game.DebuffBars.Get(f.enemy)
	assert.Len(t, bar.Debuffs, 2)
}

func TestMortalityNeverRevives(t *testing.T) {
	f := newFixture(t, 10)
	var deaths []event.EntityDied
	event.Subscribe(f.bus, func(ev event.EntityDied) { deaths = append(deaths, ev) })

	st, _ := f.game.Stats.Get(f.enemy)
	m, _ := f.game.Mortalities.Get(f.enemy)
	m.LastAttacker = f.player
	st.HealthCurr = 0
	f.tick(time.Millisecond, 1)
	assert.False(t, m.Alive)

	st.HealthCurr = 10
	f.tick(time.Millisecond, 3)
	assert.False(t, m.Alive)
	require.Len(t, deaths, 1)
	assert.Equal(t, event.EntityDied{Entity: f.enemy, Killer: f.player}, deaths[0])
}

func TestKillAwardsExperience(t *testing.T) {
	f := newFixture(t, 10)
	var ups []event.LevelUp
	event.Subscribe(f.bus, func(ev event.LevelUp) { ups = append(ups, ev) })

	f.damage.Push(game.Damage{Amount: 10, Target: f.enemy, Source: f.player})
	// Damage drains in tick 1, death is derived in tick 2, awarded in tick 3.
	f.tick(time.Millisecond, 4)

	lvl, _ := f.game.Levels.Get(f.player)
	// 50 + 25*2 = 100 reaches the threshold exactly.
	assert.EqualValues(t, 6, lvl.Curr)
	assert.EqualValues(t, 0, lvl.XP)
	assert.EqualValues(t, 600, lvl.NextLevelXP)
	require.Len(t, ups, 1)
	assert.EqualValues(t, 6, ups[0].Level)
}

func TestCastValidation(t *testing.T) {
	f := newFixture(t, 100)
	q, _ := f.game.ActionQueues.Get(f.player)

	f.commands <- CastCommand{Caster: f.player, Spell: data.SpellUmbraMortis}
	f.commands <- CastCommand{Caster: 999, Spell: data.SpellMiasma}
	f.tick(time.Millisecond, 1)
	assert.Empty(t, q.Queue)

	// A lone entity has no one to target.
	lone := newFixture(t, 100)
	lone.world.MarkForDestruction(lone.enemy)
	lone.tick(time.Millisecond, 1)
	lone.commands <- CastCommand{Caster: lone.player, Spell: data.SpellMiasma}
	lone.tick(time.Millisecond, 1)
	lq, _ := lone.game.ActionQueues.Get(lone.player)
	assert.Empty(t, lq.Queue)
}

func TestClickButtons(t *testing.T) {
	f := newFixture(t, 100)
	scale := uint32(1)
	castB := f.pres.BuildButton("button_b", "B", present.ClickB, 0, 0, scale, nil)
	run := f.pres.BuildButton("run", "Run", present.ClickRun, 200, 0, scale, nil)

	f.commands <- ClickCommand{Element: castB}
	f.commands <- ClickCommand{Element: run}
	f.tick(time.Millisecond, 1)

	q, _ := f.game.ActionQueues.Get(f.player)
	require.Len(t, q.Queue, 1)
	assert.Equal(t, data.SpellInfernum, q.Queue[0].Spell)

	st, ok := f.pres.States.Get(run)
	require.True(t, ok)
	assert.EqualValues(t, 1, st.Get(present.SlotRunToggled))
	r, _ := f.pres.Rects.Get(run)
	assert.True(t, r.Pressed)

	f.commands <- ClickCommand{Element: run}
	f.tick(time.Millisecond, 1)
	assert.EqualValues(t, 0, st.Get(present.SlotRunToggled))
	assert.False(t, r.Pressed)

	c, _ := f.pres.Clickables.Get(castB)
	c.Enabled = false
	f.commands <- ClickCommand{Element: castB}
	f.tick(time.Millisecond, 1)
	assert.Len(t, q.Queue, 1)
}

func TestPointerHoverAndPress(t *testing.T) {
	f := newFixture(t, 100)
	f.pres.BuildRegion("bar", 0, 0, 400, 200)
	castA := f.pres.BuildButton("button_a", "A", present.ClickA, 10, 10, 1, nil)
	q, _ := f.game.ActionQueues.Get(f.player)
	r, _ := f.pres.Rects.Get(castA)

	f.commands <- PointerCommand{X: 50, Y: 50}
	f.tick(time.Millisecond, 1)
	assert.True(t, r.Hovered)
	assert.Empty(t, q.Queue, "hovering does not click")

	f.commands <- PointerCommand{X: 50, Y: 50, Pressed: true}
	f.tick(time.Millisecond, 1)
	require.Len(t, q.Queue, 1)
	assert.Equal(t, data.SpellMiasma, q.Queue[0].Spell)

	f.commands <- PointerCommand{X: 300, Y: 150, Pressed: true}
	f.tick(time.Millisecond, 1)
	assert.False(t, r.Hovered)
	assert.Len(t, q.Queue, 1, "the region under the pointer is not clickable")
}

func TestCompletionCarriesTargetOnlyWhenSet(t *testing.T) {
	gs := game.NewStore(ecs.NewWorld())
	bus := event.NewBus()
	aimed := gs.AddEntity("aimed")
	idle := gs.AddEntity("idle")
	for _, id := range []ecs.EntityID{aimed, idle} {
		gs.Targets.Set(id, &game.Target{})
		gs.ActionQueues.Set(id, &game.ActionQueue{Queue: []game.Action{{Tag: "cast"}}})
	}
	tgt, _ := gs.Targets.Get(aimed)
	tgt.Entity = idle

	got := map[ecs.EntityID]ecs.EntityID{}
	event.Subscribe(bus, func(ev event.ActionCompleted) { got[ev.Entity] = ev.Target })
	NewActionSystem(gs, bus, zap.NewNop()).Update(time.Millisecond)
	bus.SwapBuffers()
	bus.DispatchAll()

	require.Len(t, got, 2)
	assert.Equal(t, idle, got[aimed])
	assert.True(t, got[idle].IsZero())
}

func TestInputRespectsPerTickLimit(t *testing.T) {
	f := newFixture(t, 100)
	in := NewInputSystem(f.bus, f.game, f.pres, f.spells, f.commands, 2, zap.NewNop())
	for i := 0; i < 5; i++ {
		f.commands <- CastCommand{Caster: f.player, Spell: data.SpellMiasma}
	}
	in.Update(0)
	q, _ := f.game.ActionQueues.Get(f.player)
	assert.Len(t, q.Queue, 2)
	assert.Len(t, f.commands, 3)
}

func TestPresentSync(t *testing.T) {
	f := newFixture(t, 200)
	frame := f.pres.BuildUnitFrame(f.enemy, "alpine_terror", "Alpe", 3000, 420, 1)
	playerFrame := f.pres.BuildUnitFrame(f.player, "player", "main_warlock", 2000, 420, 1)

	st, _ := f.game.Stats.Get(f.enemy)
	st.HealthCurr = 50
	f.commands <- CastCommand{Caster: f.player, Spell: data.SpellMiasma}
	f.tick(time.Second, 1)

	hb, _ := f.pres.Healthbars.Get(frame.Healthbar)
	assert.InDelta(t, 0.25, hb.Fill, 1e-9)
	cb, _ := f.pres.Castbars.Get(playerFrame.Castbar)
	assert.True(t, cb.Draw)
	assert.InDelta(t, 0.25, cb.Progress, 1e-9)
	assert.Equal(t, "Miasma", cb.Icon)
	sp, _ := f.pres.Sprites.Get(playerFrame.Avatar)
	assert.Equal(t, present.AnimCast, sp.Animation)

	st.HealthCurr = 0
	f.tick(time.Millisecond, 2)
	enemySprite, _ := f.pres.Sprites.Get(frame.Avatar)
	assert.True(t, enemySprite.Desaturated)
	assert.Equal(t, present.AnimDead, enemySprite.Animation)

	// Destroying the game entity leaves its presentation unlinked and hidden.
	f.world.MarkForDestruction(f.enemy)
	f.tick(time.Millisecond, 2)
	_, linked := f.pres.Links.Game(frame.Healthbar)
	assert.False(t, linked)
	assert.False(t, hb.Draw)
	assert.True(t, f.pres.Healthbars.Has(frame.Healthbar))
}

func TestBuffTick(t *testing.T) {
	gs := game.NewStore(ecs.NewWorld())
	id := gs.AddEntity("buffed")
	gs.BuffBars.Set(id, &game.BuffBar{Buffs: []game.Buff{
		{Name: "short", Duration: 100 * time.Millisecond},
		{Name: "long", Duration: time.Second},
	}})
	sys := NewBuffTickSystem(gs)
	sys.Update(300 * time.Millisecond)

	bar, _ := gs.BuffBars.Get(id)
	require.Len(t, bar.Buffs, 2)
	assert.Zero(t, bar.Buffs[0].Duration)
	assert.Equal(t, 700*time.Millisecond, bar.Buffs[1].Duration)

	sys.Update(300 * time.Millisecond)
	require.Len(t, bar.Buffs, 1)
	assert.Equal(t, "long", bar.Buffs[0].Name)
}

func repeat(dt time.Duration, n int) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = dt
	}
	return out
}

// irregular cycles through ms step sizes until total is covered exactly.
func irregular(total time.Duration, stepsMs []time.Duration) []time.Duration {
	var out []time.Duration
	var sum time.Duration
	for i := 0; sum < total; i++ {
		dt := stepsMs[i%len(stepsMs)] * time.Millisecond
		if sum+dt > total {
			dt = total - sum
		}
		out = append(out, dt)
		sum += dt
	}
	return out
}
