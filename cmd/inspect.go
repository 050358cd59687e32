package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jsphweid/supernovae/midi"
	"github.com/jsphweid/supernovae/model"
	"github.com/jsphweid/supernovae/sonify"
	"github.com/jsphweid/supernovae/util"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Inspects a .mid or notes .dat file",
	Long:  `Inspects a .mid or notes .dat file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	switch filepath.Ext(path) {
	case ".mid", ".midi":
		s, err := midi.ReadMidiFile(path)
		if err != nil {
			return err
		}
		sum := midi.Summarize(s)
		fmt.Printf("tracks: %v\n", sum.Tracks)
		fmt.Printf("ticks per beat: %v\n", sum.TicksPerBeat)
		fmt.Printf("tempo: %.2f\n", sum.Tempo)
		fmt.Printf("notes: %v\n", sum.Notes)
		fmt.Printf("beats: %.2f\n", sum.Beats)
		for _, pitch := range util.SortedKeys(sum.Pitches) {
			fmt.Printf("pitch %v: %v\n", pitch, sum.Pitches[pitch])
		}
	case ".dat":
		notes, err := util.ReadBinary[[]model.NoteEvent](path)
		if err != nil {
			return err
		}
		fmt.Printf("notes: %v\n", len(notes))
		fmt.Printf("tracks: %v\n", len(sonify.ByTrack(notes)))
		fmt.Printf("digest: %016x\n", sonify.Digest(notes))
		for _, n := range notes {
			fmt.Printf("%+v\n", n)
		}
	default:
		return fmt.Errorf("don't know how to inspect '%s'", path)
	}
	return nil
}
