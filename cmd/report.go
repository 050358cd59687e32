package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/supernovae/model"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Prints the statistics of a run without writing anything.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return report()
	},
}

func report() error {
	res, err := runPipeline()
	if err != nil {
		return err
	}
	s := res.Stats
	fmt.Printf("Total number of supernovae: %v\n", s.Events)
	fmt.Printf("Most supernovae in a date bin: %v\n", s.MaxPerBin)
	for _, c := range model.Classifications {
		fmt.Printf("Most type %s in a date bin: %v\n", c, s.MaxPerType[c])
	}
	fmt.Printf("Number of days per date bin: %.4f\n", s.DaysPerBin)
	fmt.Printf("Number of date bins: %v\n", s.Bins)
	fmt.Printf("Number of frames: %v\n", s.Frames)
	fmt.Printf("Number of beats: %v\n", s.Beats)
	fmt.Printf("Number of sub-beats per beat: %v\n", s.SubBeats)
	fmt.Printf("Number of note tracks: %v\n", s.Tracks)
	fmt.Printf("Song length (s): %.2f\n", s.SongSeconds)
	fmt.Printf("Seconds per year: %.4f\n", s.SecondsPerYear)
	fmt.Printf("Frames per second: %.4f\n", s.FPS)
	fmt.Printf("Notes: %v\n", len(res.Notes))
	fmt.Printf("Digest: %016x\n", res.Digest)
	return nil
}
