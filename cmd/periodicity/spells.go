package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/periodicity/sim/internal/data"
)

var spellsCmd = &cobra.Command{
	Use:   "spells",
	Short: "Print the spell catalog",
	RunE:  runSpells,
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func runSpells(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := data.LoadSpellTable(cfg.Data.SpellList)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("  %-14s %8s %8s %6s %6s %10s", "Spell", "Cast", "Upfront", "DPS", "Coef", "Duration")))
	for _, s := range table.All() {
		name := spellStyle(s).Render(fmt.Sprintf("%-14s", s.Name))
		fmt.Printf("  %s %8s %8d %6.2f %6.2f %10s\n",
			name, s.CastTime, s.UpfrontDamage, s.DPS, s.Coefficient, s.Duration)
		if s.Tooltip != "" {
			fmt.Println(dimStyle.Render("    " + s.Tooltip))
		}
	}
	fmt.Println()
	fmt.Printf("%d spells\n", table.Count())
	return nil
}

// spellStyle colours a spell name with its catalog fill colour.
func spellStyle(s *data.SpellInfo) lipgloss.Style {
	c := s.Colors.Fill
	if c == (data.RGB{}) {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])))
}
