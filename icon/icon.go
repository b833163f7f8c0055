// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, or plain ASCII depending on user preference.
package icon

import (
	"github.com/spf13/viper"
	"github.com/tunedeck/tunedeck/key"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji string
	nerd  string
	plain string
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

// Icon identifies a registered UI symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Play
	Pause
	Prev
	Next
	Sequential
	SingleRepeat
	Shuffle
	Volume
	Muted
	Track
)

var icons = map[Icon]*iconDef{
	Fail:         {emoji: "💀", nerd: "\uf00d", plain: "x"},
	Success:      {emoji: "🎉", nerd: "\uf00c", plain: "ok"},
	Progress:     {emoji: "⏳", nerd: "\uf110", plain: "~"},
	Play:         {emoji: "▶️", nerd: "\uf04b", plain: ">"},
	Pause:        {emoji: "⏸️", nerd: "\uf04c", plain: "||"},
	Prev:         {emoji: "⏮️", nerd: "\uf048", plain: "|<"},
	Next:         {emoji: "⏭️", nerd: "\uf051", plain: ">|"},
	Sequential:   {emoji: "🔁", nerd: "\U000f0456", plain: "[all]"},
	SingleRepeat: {emoji: "🔂", nerd: "\U000f0458", plain: "[one]"},
	Shuffle:      {emoji: "🔀", nerd: "\U000f049d", plain: "[rnd]"},
	Volume:       {emoji: "🔊", nerd: "\U000f057e", plain: "vol"},
	Muted:        {emoji: "🔇", nerd: "\U000f0581", plain: "mute"},
	Track:        {emoji: "🎵", nerd: "\uf001", plain: "*"},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.Get()
}
