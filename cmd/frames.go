package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/supernovae/pipeline"
	"github.com/jsphweid/supernovae/store"
)

func init() {
	rootCmd.AddCommand(framesCmd)
}

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Schedules every animation frame and stores the run",
	Long: `Runs the whole schedule, notes and frames, and saves it to the sqlite
store. The run id is printed so the frames can be fetched from serve.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return frames()
	},
}

func newRun(res *pipeline.Result) *store.Run {
	return &store.Run{
		Start:    res.Bins.Date0,
		End:      res.Bins.DateF,
		Tempo:    cfg.Tempo,
		SubBeats: cfg.SubBeats,
		Beats:    res.Stats.Beats,
		Bins:     res.Stats.Bins,
		Frames:   res.Stats.Frames,
		Tracks:   res.Tracks,
		Events:   res.Stats.Events,
		Digest:   fmt.Sprintf("%016x", res.Digest),
	}
}

func frames() error {
	res, err := runPipeline()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer st.Close()

	run := newRun(res)
	all := res.Frames()
	if err := st.SaveRun(run, res.Notes, all); err != nil {
		return err
	}
	log.Infow("stored run", "id", run.ID, "db", cfg.DatabasePath(), "frames", len(all))
	fmt.Println(run.ID)
	return nil
}
