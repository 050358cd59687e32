package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jsphweid/supernovae/catalog"
	"github.com/jsphweid/supernovae/chord"
	"github.com/jsphweid/supernovae/config"
	"github.com/jsphweid/supernovae/logger"
	"github.com/jsphweid/supernovae/pipeline"
)

var (
	cfg config.Config
	log *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "supernovae",
	Short: "Sonify and animate a century of supernova discoveries",
	Long: `Bins supernova discoveries onto the beat grid of a chord progression,
writes one note track per voice and schedules the fading sky animation
from the same bins.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		log, err = logger.New(cfg.LogLevel)
		return err
	},
}

func init() {
	var err error
	cfg, err = config.Load()
	cobra.CheckErr(err)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "supernova csv (date,mmax,l,b,type)")
	flags.StringVar(&cfg.Progression, "progression", cfg.Progression, "chord progression yaml, empty for the built in song")
	flags.StringVar(&cfg.OutDir, "out", cfg.OutDir, "output directory")
	flags.StringVar(&cfg.Database, "db", cfg.Database, "sqlite file, defaults to <out>/supernovae.db")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	flags.IntVar(&cfg.SubBeats, "sub-beats", cfg.SubBeats, "time bins per beat")
	flags.Float64Var(&cfg.Tempo, "tempo", cfg.Tempo, "beats per minute")
	flags.Float64Var(&cfg.MaxDuration, "max-duration", cfg.MaxDuration, "longest note in beats")
	flags.StringVar(&cfg.Start, "start", cfg.Start, "first date (yyyy-mm-dd), empty for the first discovery")
	flags.StringVar(&cfg.End, "end", cfg.End, "last date (yyyy-mm-dd), empty for the last discovery")
	flags.StringVar(&cfg.MinNstd, "min-nstd", cfg.MinNstd, "bright brightness bound in standard deviations")
	flags.StringVar(&cfg.MaxNstd, "max-nstd", cfg.MaxNstd, "dim brightness bound in standard deviations")
	flags.IntVar(&cfg.BaseOctave, "base-octave", cfg.BaseOctave, "lowest octave any note may use")
	flags.IntVar(&cfg.OctaveRange, "octave-range", cfg.OctaveRange, "number of octaves above the base octave")
	flags.IntVar(&cfg.StartOctave, "start-octave", cfg.StartOctave, "octave the rank order starts from")
	flags.BoolVar(&cfg.ConstantAttack, "constant-attack", cfg.ConstantAttack, "use one velocity for every note")
	flags.IntVar(&cfg.Velocity, "velocity", cfg.Velocity, "velocity when the attack is constant")
	flags.Float64Var(&cfg.MinSize, "min-size", cfg.MinSize, "marker area of the dimmest events")
	flags.Float64Var(&cfg.MinAlpha, "min-alpha", cfg.MinAlpha, "alpha at the end of a fade")
	flags.Float64Var(&cfg.MaxAlpha, "max-alpha", cfg.MaxAlpha, "alpha when an event appears")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func runPipeline() (*pipeline.Result, error) {
	events, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	prog, err := chord.LoadProgression(cfg.Progression)
	if err != nil {
		return nil, err
	}
	log.Infow("loaded inputs", "catalog", cfg.Catalog, "events", len(events), "beats", len(prog))
	return pipeline.Run(cfg, events, prog, log)
}

// ExecuteArgs runs the command line with args instead of os.Args.
func ExecuteArgs(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
