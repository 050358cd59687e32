package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jsphweid/supernovae/midi"
	"github.com/jsphweid/supernovae/util"
)

func init() {
	rootCmd.AddCommand(sonifyCmd)
}

var sonifyCmd = &cobra.Command{
	Use:   "sonify",
	Short: "Writes the note tracks",
	Long:  `Writes <out>/supernovae.mid and a snapshot of the note list to <out>/notes.dat.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeNotes()
	},
}

func writeNotes() error {
	res, err := runPipeline()
	if err != nil {
		return err
	}
	if err := util.EnsureDir(cfg.OutDir); err != nil {
		return err
	}

	midiPath := filepath.Join(cfg.OutDir, "supernovae.mid")
	if err := midi.WriteFile(midiPath, res.Notes, cfg.Tempo, res.Tracks); err != nil {
		return err
	}
	notesPath := filepath.Join(cfg.OutDir, "notes.dat")
	if err := util.WriteBinary(notesPath, res.Notes); err != nil {
		return err
	}

	log.Infow("wrote note tracks",
		"midi", midiPath,
		"snapshot", notesPath,
		"notes", len(res.Notes),
		"tracks", res.Tracks,
		"digest", fmt.Sprintf("%016x", res.Digest))
	return nil
}
