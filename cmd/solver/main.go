package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lox/pokerforbots/internal/hulth"
	"github.com/lox/pokerforbots/sdk/solver"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Train    TrainCmd    `cmd:"" help:"run CFR training and write a model file"`
	Selfplay SelfplayCmd `cmd:"" help:"play a trained model against itself and report results"`
}

type TrainCmd struct {
	Out               string `help:"path to write the model file" required:""`
	Iterations        int    `help:"number of CFR iterations" default:"10000"`
	Seed              int64  `help:"random seed" default:"1"`
	SmallBlind        int    `help:"small blind size" default:"10"`
	BigBlind          int    `help:"big blind size" default:"20"`
	StartingStack     int    `help:"starting stack size" default:"140"`
	RaiseAmount       int    `help:"fixed raise increment" default:"20"`
	MaxRaisesPerStage int    `help:"max raises per betting stage" default:"2"`
	Buckets           int    `help:"bucket count shared by pre-flop and post-flop abstraction" default:"8"`
	ProgressEvery     int    `help:"log progress every N iterations (0 disables)" default:"1000"`
	CheckpointEvery   int    `help:"checkpoint interval in iterations (0 disables)" default:"0"`
	CheckpointPath    string `help:"path to write periodic checkpoints"`
	ResumeFrom        string `help:"resume training from a checkpoint file"`
}

type SelfplayCmd struct {
	Model string `help:"path to a trained model file" required:""`
	Hands int    `help:"number of hands to simulate" default:"10000"`
	Seed  int64  `help:"random seed" default:"1"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("solver"),
		kong.Description("HULTH CFR solver tooling"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	switch ctx.Command() {
	case "train":
		if err := cli.Train.Run(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("training failed")
		}
	case "selfplay":
		if err := cli.Selfplay.Run(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("selfplay failed")
		}
	default:
		log.Fatal().Msgf("unknown command: %s", ctx.Command())
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func (cmd *TrainCmd) Run(ctx context.Context) error {
	var trainer *solver.Trainer

	if cmd.ResumeFrom != "" {
		restored, err := solver.LoadTrainerFromCheckpoint(cmd.ResumeFrom)
		if err != nil {
			return fmt.Errorf("load checkpoint: %w", err)
		}
		trainer = restored
		log.Info().
			Int64("resume_iteration", trainer.Iteration()).
			Str("checkpoint", cmd.ResumeFrom).
			Msg("resuming training run")
	} else {
		abs := solver.AbstractionConfig{MaxBuckets: cmd.Buckets}
		train := solver.TrainingConfig{
			Iterations:        cmd.Iterations,
			Seed:              cmd.Seed,
			SmallBlind:        cmd.SmallBlind,
			BigBlind:          cmd.BigBlind,
			StartingStack:     cmd.StartingStack,
			RaiseAmount:       cmd.RaiseAmount,
			MaxRaisesPerStage: cmd.MaxRaisesPerStage,
			ProgressEvery:     cmd.ProgressEvery,
			CheckpointEvery:   cmd.CheckpointEvery,
			CheckpointPath:    cmd.CheckpointPath,
		}

		var err error
		trainer, err = solver.NewTrainer(abs, train)
		if err != nil {
			return err
		}
		log.Info().
			Int("iterations", train.Iterations).
			Int("buckets", abs.MaxBuckets).
			Int("small_blind", train.SmallBlind).
			Int("big_blind", train.BigBlind).
			Msg("starting training run")
	}

	start := time.Now()
	progress := func(p solver.Progress) {
		log.Info().
			Int("iteration", p.Iteration).
			Int("encodings", p.RegretTableSize).
			Int64("nodes", p.Stats.NodesVisited).
			Int64("terminals", p.Stats.TerminalNodes).
			Int("max_depth", p.Stats.MaxDepth).
			Msg("progress")
	}

	if err := trainer.Run(ctx, progress); err != nil {
		return err
	}
	duration := time.Since(start)

	log.Info().
		Dur("duration", duration).
		Int("encodings", trainer.RegretTableSize()).
		Msg("training completed")

	bp := trainer.Blueprint()
	if err := bp.Save(cmd.Out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	log.Info().Str("path", cmd.Out).Msg("model saved")
	return nil
}

func (cmd *SelfplayCmd) Run(ctx context.Context) error {
	if cmd.Hands <= 0 {
		return fmt.Errorf("hands must be positive (got %d)", cmd.Hands)
	}

	consts := hulth.DefaultConstants()
	policy, err := loadSelfplayPolicy(cmd.Model, consts)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	log.Info().
		Int("iterations", policy.Blueprint().Iterations).
		Str("model", cmd.Model).
		Msg("model loaded")

	result, err := runSelfplay(ctx, policy, consts, cmd.Hands, cmd.Seed)
	if err != nil {
		return fmt.Errorf("run selfplay: %w", err)
	}

	log.Info().
		Int("hands", result.Hands).
		Float64("sb_bb_per_hand", result.SmallBlindBBPerHand).
		Msg("selfplay complete")
	return nil
}
