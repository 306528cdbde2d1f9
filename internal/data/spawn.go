package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Attributes are the six named stats carried by every unit.
type Attributes struct {
	Chaos      uint32 `yaml:"chaos"`
	Solidity   uint32 `yaml:"solidity"`
	Vitality   uint32 `yaml:"vitality"`
	Haste      uint32 `yaml:"haste"`
	Will       uint32 `yaml:"will"`
	Volatility uint32 `yaml:"volatility"`
}

// Scale multiplies every attribute by n.
func (a Attributes) Scale(n uint32) Attributes {
	return Attributes{
		Chaos:      a.Chaos * n,
		Solidity:   a.Solidity * n,
		Vitality:   a.Vitality * n,
		Haste:      a.Haste * n,
		Will:       a.Will * n,
		Volatility: a.Volatility * n,
	}
}

// UnitTemplate describes one simulated actor created at world construction.
type UnitTemplate struct {
	Tag          string     `yaml:"tag"`
	Allegiance   string     `yaml:"allegiance"` // player, enemy, neutral
	Level        uint32     `yaml:"level"`
	XP           uint32     `yaml:"xp"`
	NextLevelXP  uint32     `yaml:"next_level_xp"`
	HealthMax    uint32     `yaml:"health_max"`
	HealthCurr   uint32     `yaml:"health_curr"` // 0 = start at HealthMax
	Attributes   Attributes `yaml:"attributes"`
	ScaleByLevel bool       `yaml:"scale_by_level"` // multiply attributes and health by Level
	Sprite       string     `yaml:"sprite"`
	X            int32      `yaml:"x"`
	Y            int32      `yaml:"y"`
}

// Resolved returns the template with level scaling and the health default applied.
func (u UnitTemplate) Resolved() UnitTemplate {
	r := u
	if r.Level == 0 {
		r.Level = 1
	}
	if r.ScaleByLevel {
		r.Attributes = r.Attributes.Scale(r.Level)
		r.HealthMax *= r.Level
		r.HealthCurr *= r.Level
		r.ScaleByLevel = false
	}
	if r.HealthCurr == 0 || r.HealthCurr > r.HealthMax {
		r.HealthCurr = r.HealthMax
	}
	return r
}

type spawnListFile struct {
	Units []UnitTemplate `yaml:"units"`
}

// LoadSpawnList loads the world's starting units from YAML.
func LoadSpawnList(path string) ([]UnitTemplate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn list: %w", err)
	}
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawn list: %w", err)
	}
	for i, u := range f.Units {
		switch u.Allegiance {
		case "player", "enemy", "neutral":
		default:
			return nil, fmt.Errorf("unit %d (%s): invalid allegiance %q", i, u.Tag, u.Allegiance)
		}
	}
	return f.Units, nil
}
