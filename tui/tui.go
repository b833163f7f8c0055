// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/tunedeck/tunedeck/binder"
	"github.com/tunedeck/tunedeck/catalog"
	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/control"
	"github.com/tunedeck/tunedeck/hls"
	"github.com/tunedeck/tunedeck/key"
	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/player"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Kind is the library to browse.
	Kind string
	// Start selects the first track by id or fuzzy title.
	Start        string
	Presentation control.Presentation
	Mouse        bool
	// Engine plays HLS sources the element cannot. Nil disables the fallback.
	Engine binder.EngineFactory
}

// DefaultOptions reads the TUI options for kind from the configuration.
func DefaultOptions(kind string) *Options {
	presentation, err := control.ParsePresentation(viper.GetString(key.TUIPresentation))
	if err != nil {
		log.Warn(err)
	}
	if kind == constant.KindVideo {
		presentation = control.Compact
	}

	var engine binder.EngineFactory
	if hls.Supported() {
		engine = binder.HLSEngine(hls.Config{
			MaxBandwidth: viper.GetInt(key.PlayerMaxBandwidth),
		})
	}

	return &Options{
		Kind:         kind,
		Presentation: presentation,
		Mouse:        viper.GetBool(key.TUIMouse),
		Engine:       engine,
	}
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(client *catalog.Client, options *Options) error {
	element := player.NewMPV(options.Kind == constant.KindVideo)
	defer func() {
		if err := element.Close(); err != nil {
			log.Warnf("tui: close player: %v", err)
		}
	}()

	bubble := newBubble(options, client, element)
	defer bubble.surface.Close()

	bubble.setState(loadingState)

	programOptions := []tea.ProgramOption{tea.WithAltScreen()}
	if options.Mouse {
		programOptions = append(programOptions, tea.WithMouseCellMotion())
	}

	_, err := tea.NewProgram(bubble, programOptions...).Run()
	return err
}
