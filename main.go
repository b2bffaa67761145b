// Package main is the entry point for the TRIAMP terminal music player.
package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep/v2"

	"triamp/player"
	"triamp/playlist"
	"triamp/ui"
)

// CLI defines the command-line interface.
type CLI struct {
	Dir        string   `short:"d" type:"existingdir" help:"Music directory to scan (default when no files are given)."`
	SampleRate int      `default:"44100" help:"Output sample rate in Hz."`
	Files      []string `arg:"" optional:"" help:"Audio files to play (globs allowed)."`
}

func buildPlaylist(cli *CLI) (*playlist.Playlist, error) {
	pl := playlist.New()

	if len(cli.Files) > 0 {
		// Expand shell globs that may not have been expanded by the shell
		for _, arg := range cli.Files {
			matches, err := filepath.Glob(arg)
			if err != nil || len(matches) == 0 {
				matches = []string{arg}
			}
			for _, f := range matches {
				t := playlist.TrackFromPath(f)
				if d, err := player.TrackDuration(f); err == nil {
					t.Duration = d
				}
				pl.Add(t)
			}
		}
		return pl, nil
	}

	dir := cli.Dir
	if dir == "" {
		dir = "music"
	}
	tracks, err := playlist.Scan(dir, player.TrackDuration)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no playable files in %s", dir)
	}
	pl.Add(tracks...)
	return pl, nil
}

func run(cli *CLI) error {
	pl, err := buildPlaylist(cli)
	if err != nil {
		return err
	}
	if pl.Len() == 0 {
		return errors.New("nothing to play")
	}

	p, err := player.New(beep.SampleRate(cli.SampleRate))
	if err != nil {
		return err
	}
	defer p.Close()

	m := ui.NewModel(p, pl)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("triamp"),
		kong.Description("Terminal music player with a 3-band EQ and spectrum display"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(run(cli))
}
