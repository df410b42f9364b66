package commands

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/battlesnakeio/termsnake/board"
	"github.com/battlesnakeio/termsnake/config"
	"github.com/battlesnakeio/termsnake/game"
	"github.com/battlesnakeio/termsnake/input"
	"github.com/battlesnakeio/termsnake/render"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	playWidth         = config.BoardWidth
	playHeight        = config.BoardHeight
	playTick          = config.TickInterval
	playSeed          int64
	playDirection     = "right"
	playSingleDrain   = false
	playRenderer      = "text"
	playNoTutorial    = false
	playValidate      = false
	recordBackend     = "none"
	recordBackendArgs = ""
)

func init() {
	playCmd.Flags().IntVar(&playWidth, "width", playWidth, "board width")
	playCmd.Flags().IntVar(&playHeight, "height", playHeight, "board height")
	playCmd.Flags().DurationVar(&playTick, "tick", playTick, "time between moves")
	playCmd.Flags().Int64Var(&playSeed, "seed", playSeed, "fruit placement seed, 0 picks one from the clock")
	playCmd.Flags().StringVar(&playDirection, "direction", playDirection, "starting direction, as one of: [up, down, left, right]")
	playCmd.Flags().BoolVar(&playSingleDrain, "single-drain", playSingleDrain, "apply at most one key press per tick")
	playCmd.Flags().StringVar(&playRenderer, "renderer", playRenderer, "renderer, as one of: [text, termbox]")
	playCmd.Flags().BoolVar(&playNoTutorial, "no-tutorial", playNoTutorial, "skip the controls banner")
	playCmd.Flags().BoolVar(&playValidate, "validate", playValidate, "check board invariants after every tick")
	playCmd.Flags().StringVar(&recordBackend, "record-backend", recordBackend, "record the game to a store, as one of: [none, inmem, file, redis, sql]")
	playCmd.Flags().StringVar(&recordBackendArgs, "record-args", recordBackendArgs, "options to pass to the record backend")
	rootCmd.Flags().AddFlagSet(playCmd.Flags())
}

var playCmd = &cobra.Command{
	Use:    "play",
	Short:  "play a game of snake in the terminal",
	PreRun: func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		res, err := play()
		if err != nil && errors.Cause(err) != context.Canceled {
			log.WithError(err).Error("game failed")
			fmt.Println(err)
			os.Exit(1)
		}
		if playRenderer == "termbox" && res.Over() {
			fmt.Printf("Game ended, your score: %d\n", res.Score)
		}
	},
}

func newGame() (*game.Game, chan board.Direction, int64, error) {
	seed := playSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	b, err := board.New(board.Size{Width: playWidth, Height: playHeight}, rand.New(rand.NewSource(seed)))
	if err != nil {
		log.WithError(err).
			WithField("width", playWidth).
			WithField("height", playHeight).
			Fatal("invalid board size")
	}
	dir, err := board.ParseDirection(playDirection)
	if err != nil {
		return nil, nil, 0, err
	}

	dirs := make(chan board.Direction, config.InputBuffer)
	g := game.New(b, dirs)
	g.Direction = dir
	g.TickInterval = playTick
	g.SingleDrain = playSingleDrain
	g.Validate = playValidate
	return g, dirs, seed, nil
}

func play() (board.Result, error) {
	g, dirs, seed, err := newGame()
	if err != nil {
		return board.Result{}, err
	}

	s, err := openStore(recordBackend, recordBackendArgs)
	if err != nil {
		return board.Result{}, err
	}
	if s != nil {
		defer closeStore(s)
		rec := game.NewStoreRecorder(s, seed)
		g.ID = rec.Game.ID
		g.Recorder = rec
		log.WithField("game", g.ID).WithField("backend", recordBackend).Info("recording game")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch playRenderer {
	case "text":
		return playText(ctx, cancel, g, dirs)
	case "termbox":
		return playTermbox(ctx, cancel, g, dirs)
	}
	return board.Result{}, errors.Errorf("invalid renderer %q", playRenderer)
}

func playText(ctx context.Context, cancel func(), g *game.Game, dirs chan<- board.Direction) (board.Result, error) {
	restore, err := input.RawMode(int(os.Stdin.Fd()))
	if err != nil {
		return board.Result{}, err
	}
	defer func() {
		if err := restore(); err != nil {
			log.WithError(err).Error("unable to restore terminal")
		}
	}()

	keys := input.NewKeys(os.Stdin)
	defer keys.Close()
	if !playNoTutorial {
		if err := render.Tutorial(os.Stdout, keys); err != nil {
			return board.Result{}, err
		}
	}

	go func() {
		if err := input.ForwardKeys(ctx, keys, dirs, cancel); err != nil {
			log.WithError(err).Error("unable to read keys")
		}
	}()

	g.Renderer = &render.Text{W: os.Stdout}
	return g.Run(ctx)
}

func playTermbox(ctx context.Context, cancel func(), g *game.Game, dirs chan<- board.Direction) (board.Result, error) {
	if err := termbox.Init(); err != nil {
		return board.Result{}, errors.Wrap(err, "unable to init termbox")
	}
	defer termbox.Close()

	events := input.TermboxEvents()
	if !playNoTutorial {
		if err := render.TermboxTutorial(events); err != nil {
			return board.Result{}, err
		}
	}

	keys, stopKeys := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		input.ReadTermbox(keys, events, dirs, cancel)
		close(done)
	}()

	g.Renderer = &render.Termbox{}
	res, err := g.Run(ctx)
	stopKeys()
	<-done
	if err != nil {
		return res, err
	}

	if err := render.Print("Press any key to exit..."); err != nil {
		return res, err
	}
	for ev := range events {
		if ev.Type == termbox.EventKey {
			break
		}
	}
	return res, nil
}
