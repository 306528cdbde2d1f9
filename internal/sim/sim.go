// Package sim hosts the simulation: it builds the world from data, registers
// the tick systems in phase order and drives them from a frame loop.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/periodicity/sim/internal/config"
	"github.com/periodicity/sim/internal/core/ecs"
	"github.com/periodicity/sim/internal/core/event"
	coresys "github.com/periodicity/sim/internal/core/system"
	"github.com/periodicity/sim/internal/data"
	"github.com/periodicity/sim/internal/game"
	"github.com/periodicity/sim/internal/present"
	"github.com/periodicity/sim/internal/scripting"
	"github.com/periodicity/sim/internal/system"
)

var (
	// ErrNoPlayer means no spawned unit has player allegiance.
	ErrNoPlayer = game.ErrNoPlayer

	ErrEmptyCatalog = errors.New("spell catalog is empty")
	ErrQueueFull    = errors.New("command queue full")

	ErrMissingScript = errors.New("required lua function not defined")
)

// requiredScripts are the Lua functions the experience award calls.
var requiredScripts = []string{"exp_for_level", "xp_for_kill"}

// Options carries everything New needs. Nil sinks get in-memory defaults.
type Options struct {
	Spells     *data.SpellTable
	Units      []data.UnitTemplate
	XP         system.XPFormula
	Renderer   present.Renderer
	Animator   present.Animator
	Text       present.CombatTextSink
	Simulation config.SimulationConfig
	Window     config.WindowConfig
}

// Sim owns one world and its tick pipeline. All methods except RequestCast,
// RequestCastByTag and Click must be called from the loop goroutine.
type Sim struct {
	cfg config.SimulationConfig
	log *zap.Logger

	world   *ecs.World
	game    *game.Store
	present *present.Store
	spells  *data.SpellTable
	bus     *event.Bus
	damage  *game.DamageQueue
	runner  *coresys.Runner

	commands chan system.Command
	renderer present.Renderer
	text     present.CombatTextSink
	animator present.Animator
	scripts  *scripting.Engine // owned when built by Load

	player  ecs.EntityID
	ui      UI
	pending []scheduledCast
	stats   Stats
	frames  uint64
	elapsed time.Duration
}

// UI lists the presentation entities built at startup.
type UI struct {
	Frames  map[string]present.UnitFrame
	Region  ecs.EntityID
	ButtonA ecs.EntityID
	ButtonB ecs.EntityID
	Run     ecs.EntityID
}

// Stats counts gameplay events seen since start.
type Stats struct {
	SpellsLanded   int
	DebuffsApplied int
	Deaths         int
	LevelUps       int
}

type scheduledCast struct {
	at     time.Duration
	caster ecs.EntityID
	spell  data.SpellID
}

// New spawns the units, validates the world and wires the systems.
func New(opts Options, log *zap.Logger) (*Sim, error) {
	if opts.Spells == nil || opts.Spells.Count() == 0 {
		return nil, ErrEmptyCatalog
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Simulation
	def := config.Defaults().Simulation
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = def.FrameRate
	}
	if cfg.MaxFrameDelta < 0 {
		cfg.MaxFrameDelta = 0
	}
	if cfg.CommandQueueSize <= 0 {
		cfg.CommandQueueSize = def.CommandQueueSize
	}
	if cfg.MaxCommandsPerTick <= 0 {
		cfg.MaxCommandsPerTick = def.MaxCommandsPerTick
	}

	w := ecs.NewWorld()
	s := &Sim{
		cfg:      cfg,
		log:      log,
		world:    w,
		game:     game.NewStore(w),
		present:  present.NewStore(w),
		spells:   opts.Spells,
		bus:      event.NewBus(),
		damage:   game.NewDamageQueue(),
		runner:   coresys.NewRunner(),
		commands: make(chan system.Command, cfg.CommandQueueSize),
		renderer: opts.Renderer,
		text:     opts.Text,
		animator: opts.Animator,
	}
	if s.text == nil {
		s.text = present.NewFloatingTextBuffer(cfg.CombatTextLimit)
	}
	if s.animator == nil {
		s.animator = &present.EffectQueue{}
	}

	for _, u := range opts.Units {
		if _, err := s.game.Spawn(u); err != nil {
			return nil, fmt.Errorf("world construction: %w", err)
		}
	}
	player, err := s.game.Player()
	if err != nil {
		return nil, fmt.Errorf("world construction: %w", err)
	}
	s.player = player

	s.buildUI(opts.Units, opts.Window)
	s.registerSystems(opts.XP)
	s.subscribe()

	log.Info("simulation ready",
		zap.Int("units", s.game.Identities.Len()),
		zap.Int("enemies", len(s.game.Enemies())),
		zap.Int("spells", s.spells.Count()),
		zap.Int("links", s.present.Links.Len()),
		zap.Int("systems", s.runner.Len()),
	)
	return s, nil
}

// Load reads the catalog, spawn list and scripts named in cfg and builds a Sim.
// The returned Sim must be closed.
func Load(cfg *config.Config, renderer present.Renderer, log *zap.Logger) (*Sim, error) {
	spells, err := data.LoadSpellTable(cfg.Data.SpellList)
	if err != nil {
		return nil, fmt.Errorf("load spells: %w", err)
	}
	units, err := data.LoadSpawnList(cfg.Data.SpawnList)
	if err != nil {
		return nil, fmt.Errorf("load spawn list: %w", err)
	}
	engine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	for _, fn := range requiredScripts {
		if !engine.HasFunc(fn) {
			engine.Close()
			return nil, fmt.Errorf("load scripts: %s: %w", fn, ErrMissingScript)
		}
	}

	s, err := New(Options{
		Spells:     spells,
		Units:      units,
		XP:         engine,
		Renderer:   renderer,
		Simulation: cfg.Simulation,
		Window:     cfg.Window,
	}, log)
	if err != nil {
		engine.Close()
		return nil, err
	}
	s.scripts = engine

	for _, c := range cfg.Demo.Casts {
		if err := s.ScheduleCast(c.At, c.Caster, c.Spell); err != nil {
			s.Close()
			return nil, fmt.Errorf("demo cast: %w", err)
		}
	}
	return s, nil
}

func (s *Sim) registerSystems(xp system.XPFormula) {
	s.runner.Register(system.NewInputSystem(s.bus, s.game, s.present, s.spells, s.commands, s.cfg.MaxCommandsPerTick, s.log))
	s.runner.Register(system.NewMortalitySystem(s.game, s.bus, s.log))
	s.runner.Register(system.NewDebuffSystem(s.game, s.spells, s.damage, s.log))
	s.runner.Register(system.NewBuffTickSystem(s.game))
	s.runner.Register(system.NewEffectSystem(s.bus, s.game, s.present, s.spells, s.damage, s.animator, xp, s.log))
	s.runner.Register(system.NewDamageSystem(s.game, s.damage, s.text, s.log))
	s.runner.Register(system.NewActionSystem(s.game, s.bus, s.log))
	s.runner.Register(system.NewPresentSyncSystem(s.game, s.present, s.spells))
	s.runner.Register(system.NewCleanupSystem(s.world, s.log))
}

func (s *Sim) subscribe() {
	event.Subscribe(s.bus, func(ev event.ActionCompleted) {
		if s.spells.Get(ev.Spell) != nil {
			s.stats.SpellsLanded++
		}
	})
	event.Subscribe(s.bus, func(event.DebuffApplied) { s.stats.DebuffsApplied++ })
	event.Subscribe(s.bus, func(event.EntityDied) { s.stats.Deaths++ })
	event.Subscribe(s.bus, func(event.LevelUp) { s.stats.LevelUps++ })
}

// Close releases the script engine, if the Sim owns one.
func (s *Sim) Close() {
	if s.scripts != nil {
		s.scripts.Close()
		s.scripts = nil
	}
}

func (s *Sim) Game() *game.Store        { return s.game }
func (s *Sim) Present() *present.Store  { return s.present }
func (s *Sim) Spells() *data.SpellTable { return s.spells }
func (s *Sim) World() *ecs.World        { return s.world }
func (s *Sim) Player() ecs.EntityID     { return s.player }
func (s *Sim) UI() UI                   { return s.ui }
func (s *Sim) Stats() Stats             { return s.stats }
func (s *Sim) Frames() uint64           { return s.frames }
func (s *Sim) Elapsed() time.Duration   { return s.elapsed }

// CombatText returns the sink damage text goes to.
func (s *Sim) CombatText() present.CombatTextSink { return s.text }

// Animator returns the sink visual effects go to.
func (s *Sim) Animator() present.Animator { return s.animator }

// RequestCast queues a cast for the next input phase. Safe for concurrent use.
func (s *Sim) RequestCast(caster ecs.EntityID, spell data.SpellID) error {
	return s.send(system.CastCommand{Caster: caster, Spell: spell})
}

// PointerAt queues a pointer update at screen position (x, y); pressed clicks
// whatever clickable lies under it. Safe for concurrent use.
func (s *Sim) PointerAt(x, y int32, pressed bool) error {
	return s.send(system.PointerCommand{X: x, Y: y, Pressed: pressed})
}

// Click queues a click on a presentation entity. Safe for concurrent use.
func (s *Sim) Click(element ecs.EntityID) error {
	return s.send(system.ClickCommand{Element: element})
}

func (s *Sim) send(cmd system.Command) error {
	select {
	case s.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// ScheduleCast arranges for caster to request spell once the simulated clock
// reaches at. Names are resolved immediately; the spell must be in the catalog.
func (s *Sim) ScheduleCast(at time.Duration, casterTag, spellName string) error {
	info := s.spells.GetByName(spellName)
	if info == nil {
		return fmt.Errorf("%w: %q not in catalog", data.ErrUnknownSpell, spellName)
	}
	spell := info.ID
	caster, ok := s.game.FindByTag(casterTag)
	if !ok {
		return fmt.Errorf("unknown caster %q", casterTag)
	}
	s.pending = append(s.pending, scheduledCast{at: at, caster: caster, spell: spell})
	sort.SliceStable(s.pending, func(i, j int) bool { return s.pending[i].at < s.pending[j].at })
	return nil
}

// Step runs one tick with the measured dt. Negative dt counts as zero; dt is
// capped at max_frame_delta only when that is set.
func (s *Sim) Step(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	if s.cfg.MaxFrameDelta > 0 && dt > s.cfg.MaxFrameDelta {
		dt = s.cfg.MaxFrameDelta
	}
	s.releaseScheduled()

	s.runner.Tick(dt)
	s.frames++
	s.elapsed += dt

	if s.renderer != nil {
		s.renderer.Render(s.present)
	}
}

func (s *Sim) releaseScheduled() {
	n := 0
	for _, c := range s.pending {
		if c.at > s.elapsed {
			break
		}
		if err := s.RequestCast(c.caster, c.spell); err != nil {
			s.log.Warn("scheduled cast dropped", zap.Stringer("spell", c.spell), zap.Error(err))
		}
		n++
	}
	s.pending = s.pending[n:]
}

// Run drives Step from a wall-clock ticker until ctx is done or, when
// maxFrames is positive, that many frames have run.
func (s *Sim) Run(ctx context.Context, maxFrames uint64) error {
	ticker := time.NewTicker(s.cfg.FrameRate)
	defer ticker.Stop()

	s.log.Info("frame loop started", zap.Duration("frame_rate", s.cfg.FrameRate))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("frame loop stopped", zap.Uint64("frames", s.frames), zap.Duration("elapsed", s.elapsed))
			return nil
		case now := <-ticker.C:
			s.Step(now.Sub(last))
			last = now
			if maxFrames > 0 && s.frames >= maxFrames {
				s.log.Info("frame limit reached", zap.Uint64("frames", s.frames))
				return nil
			}
		}
	}
}
