package data

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSpell is returned when a spell name does not map to a SpellID.
var ErrUnknownSpell = errors.New("unknown spell")

// SpellID is the closed set of spells the simulation knows about. Effects,
// debuffs and actions refer to spells by ID, never by free-form string.
type SpellID uint8

const (
	SpellNone SpellID = iota
	SpellMiasma
	SpellInfernum
	SpellUmbraMortis
)

var spellNames = map[SpellID]string{
	SpellMiasma:      "miasma",
	SpellInfernum:    "infernum",
	SpellUmbraMortis: "umbra_mortis",
}

func (id SpellID) String() string {
	if n, ok := spellNames[id]; ok {
		return n
	}
	return "none"
}

// ParseSpellID maps a catalog name to its SpellID.
func ParseSpellID(name string) (SpellID, error) {
	for id, n := range spellNames {
		if n == name {
			return id, nil
		}
	}
	return SpellNone, fmt.Errorf("%w: %q", ErrUnknownSpell, name)
}

// RGB is an 8-bit colour triple.
type RGB [3]uint8

// ColorPair is a fill colour plus an outline colour.
type ColorPair struct {
	Fill    RGB `yaml:"fill"`
	Outline RGB `yaml:"outline"`
}

// AnimInfo describes the visual effect spawned when a spell lands.
type AnimInfo struct {
	Texture   string
	Frames    int
	FrameTime time.Duration
	Width     uint32
	Height    uint32
}

// Duration of one full play of the animation.
func (a AnimInfo) Duration() time.Duration {
	return time.Duration(a.Frames) * a.FrameTime
}

// SpellInfo holds a single spell template. Read-only after load.
type SpellInfo struct {
	ID            SpellID
	Name          string
	Icon          string
	Colors        ColorPair
	UpfrontDamage uint32        // applied once when the cast completes
	Coefficient   float64       // multiplier on DPS for the debuff
	DPS           float64       // base damage per second of the debuff
	Duration      time.Duration // debuff lifetime (0 = no debuff)
	CastTime      time.Duration // how long the cast occupies the action queue
	Tooltip       string
	Anim          *AnimInfo // nil = no visual effect
}

// AppliesDebuff reports whether landing the spell attaches a debuff.
func (s *SpellInfo) AppliesDebuff() bool {
	return s.Duration > 0
}

// SpellTable holds all spells indexed by SpellID.
type SpellTable struct {
	spells map[SpellID]*SpellInfo
}

// NewSpellTable builds a table from already-validated entries.
func NewSpellTable(spells ...SpellInfo) *SpellTable {
	t := &SpellTable{spells: make(map[SpellID]*SpellInfo, len(spells))}
	for i := range spells {
		s := spells[i]
		if s.Name == "" {
			s.Name = s.ID.String()
		}
		t.spells[s.ID] = &s
	}
	return t
}

// Get returns a spell by ID, or nil if not found.
func (t *SpellTable) Get(id SpellID) *SpellInfo {
	return t.spells[id]
}

// GetByName returns a spell by catalog name, or nil if not found.
func (t *SpellTable) GetByName(name string) *SpellInfo {
	id, err := ParseSpellID(name)
	if err != nil {
		return nil
	}
	return t.spells[id]
}

// Count returns total loaded spells.
func (t *SpellTable) Count() int {
	return len(t.spells)
}

// All returns every spell ordered by ID.
func (t *SpellTable) All() []*SpellInfo {
	result := make([]*SpellInfo, 0, len(t.spells))
	for _, s := range t.spells {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// --- YAML loading ---

type animEntry struct {
	Texture     string `yaml:"texture"`
	Frames      int    `yaml:"frames"`
	FrameTimeMs int    `yaml:"frame_time_ms"`
	Width       uint32 `yaml:"width"`
	Height      uint32 `yaml:"height"`
}

type spellEntry struct {
	Spell         string     `yaml:"spell"`
	Icon          string     `yaml:"icon"`
	Colors        ColorPair  `yaml:"colors"`
	UpfrontDamage uint32     `yaml:"upfront_damage"`
	Coefficient   float64    `yaml:"coefficient"`
	DPS           float64    `yaml:"dps"`
	DurationMs    int64      `yaml:"duration_ms"`
	CastTimeMs    int64      `yaml:"cast_time_ms"`
	Tooltip       string     `yaml:"tooltip"`
	Anim          *animEntry `yaml:"anim"`
}

type spellListFile struct {
	Spells []spellEntry `yaml:"spells"`
}

// LoadSpellTable loads spell definitions from YAML.
func LoadSpellTable(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spells: %w", err)
	}
	var f spellListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spells: %w", err)
	}
	infos := make([]SpellInfo, 0, len(f.Spells))
	for i := range f.Spells {
		e := &f.Spells[i]
		id, err := ParseSpellID(e.Spell)
		if err != nil {
			return nil, fmt.Errorf("spell entry %d: %w", i, err)
		}
		if e.DurationMs < 0 || e.CastTimeMs < 0 || e.DPS < 0 || e.Coefficient < 0 {
			return nil, fmt.Errorf("spell %s: negative timing or damage", e.Spell)
		}
		info := SpellInfo{
			ID:            id,
			Name:          e.Spell,
			Icon:          e.Icon,
			Colors:        e.Colors,
			UpfrontDamage: e.UpfrontDamage,
			Coefficient:   e.Coefficient,
			DPS:           e.DPS,
			Duration:      time.Duration(e.DurationMs) * time.Millisecond,
			CastTime:      time.Duration(e.CastTimeMs) * time.Millisecond,
			Tooltip:       e.Tooltip,
		}
		if info.Icon == "" {
			info.Icon = e.Spell
		}
		if e.Anim != nil && e.Anim.Texture != "" {
			info.Anim = &AnimInfo{
				Texture:   e.Anim.Texture,
				Frames:    e.Anim.Frames,
				FrameTime: time.Duration(e.Anim.FrameTimeMs) * time.Millisecond,
				Width:     e.Anim.Width,
				Height:    e.Anim.Height,
			}
		}
		infos = append(infos, info)
	}
	return NewSpellTable(infos...), nil
}
