package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/battlesnakeio/termsnake/api"
	"github.com/battlesnakeio/termsnake/input"
	"github.com/battlesnakeio/termsnake/render"
	"github.com/battlesnakeio/termsnake/store"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	gameID            string
	apiAddr           = ""
	replayBackend     = "file"
	replayBackendArgs = ""
	replayDelay       = 200 * time.Millisecond
	initialFrameWait  = 5 * time.Second
	replayPageSize    = 500
)

func init() {
	replayCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to replay")
	replayCmd.Flags().StringVar(&apiAddr, "api-addr", apiAddr, "address of the api server, e.g. http://localhost:3005; the local store is used when empty")
	replayCmd.Flags().StringVarP(&replayBackend, "backend", "b", replayBackend, "store backend, as one of: [inmem, file, redis, sql]")
	replayCmd.Flags().StringVarP(&replayBackendArgs, "backend-args", "a", replayBackendArgs, "options to pass to the backend being used")
	replayCmd.Flags().DurationVar(&replayDelay, "delay", replayDelay, "time between frames")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "replays a recorded game",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		if err := replayGame(); err != nil {
			log.WithError(err).WithField("game", gameID).Fatal("replay failed")
		}
	},
}

func moveFrameForwards(frameIndex int, frames *frameHolder) (int, *store.Frame, bool) {
	frameIndex++
	if frameIndex >= frames.count() {
		if frames.complete() {
			return frameIndex, nil, true
		}
		// Still streaming, hold on the current frame.
		return frameIndex - 1, frames.get(frameIndex - 1), false
	}
	return frameIndex, frames.get(frameIndex), false
}

func moveFrameBackwards(frameIndex int, frames *frameHolder) (int, *store.Frame) {
	frameIndex--
	if frameIndex <= 0 {
		frameIndex = 0
	}
	return frameIndex, frames.get(frameIndex)
}

// loadGame fetches the game and starts filling a frameHolder, either from the
// api socket or straight from a store.
func loadGame(ctx context.Context) (*store.Game, *frameHolder, error) {
	frames := newFrameHolder()

	if apiAddr != "" {
		client := api.NewClient(apiAddr)
		st, err := client.Status(ctx, gameID)
		if err != nil {
			return nil, nil, err
		}
		go func() {
			defer frames.finish()
			err := client.StreamFrames(ctx, gameID, func(f *store.Frame) error {
				frames.append(f)
				return nil
			})
			if err != nil && ctx.Err() == nil {
				log.WithError(err).WithField("game", gameID).Error("frame stream failed")
			}
		}()
		return st.Game, frames, nil
	}

	s, err := openStore(replayBackend, replayBackendArgs)
	if err != nil {
		return nil, nil, err
	}
	if s == nil {
		return nil, nil, errors.New("a store backend or an api address is required")
	}
	defer closeStore(s)

	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	for offset := 0; ; {
		page, err := s.ListGameFrames(ctx, gameID, replayPageSize, offset)
		if err != nil {
			return nil, nil, err
		}
		for _, f := range page {
			frames.append(f)
		}
		offset += len(page)
		if len(page) < replayPageSize {
			break
		}
	}
	frames.finish()
	return g, frames, nil
}

func replayGame() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	game, frames, err := loadGame(ctx)
	if err != nil {
		return err
	}
	currentFrame, err := getInitialFrame(frames)
	if err != nil {
		return err
	}

	if err = termbox.Init(); err != nil {
		return errors.Wrap(err, "unable to init termbox")
	}
	defer termbox.Close()

	r := &render.Termbox{Title: fmt.Sprintf("Replay %s", game.ID)}
	draw := func(f *store.Frame) error {
		b, err := f.Board(game.Size())
		if err != nil {
			return err
		}
		return r.Frame(b, fmt.Sprintf("turn %d  score %d  %s", f.Turn, f.Score, f.Status))
	}

	eventQueue := input.TermboxEvents()
	cycle := time.NewTicker(replayDelay)
	defer cycle.Stop()
	frameIndex := 0
	paused := false
	done := false

	for !done {
		select {
		case ev := <-eventQueue:
			if ev.Type != termbox.EventKey {
				continue
			}
			switch ev.Key {
			case termbox.KeyEsc, termbox.KeyCtrlC:
				return nil
			case termbox.KeySpace:
				paused = !paused
			case termbox.KeyArrowLeft:
				paused = true
				frameIndex, currentFrame = moveFrameBackwards(frameIndex, frames)
				if err = draw(currentFrame); err != nil {
					return err
				}
			case termbox.KeyArrowRight:
				paused = true
				var last bool
				frameIndex, currentFrame, last = moveFrameForwards(frameIndex, frames)
				if last {
					frameIndex, currentFrame = moveFrameBackwards(frameIndex, frames)
				}
				if err = draw(currentFrame); err != nil {
					return err
				}
			}
		case <-cycle.C:
			if paused {
				continue
			}
			if err = draw(currentFrame); err != nil {
				return err
			}
			frameIndex, currentFrame, done = moveFrameForwards(frameIndex, frames)
		}
	}

	if err := render.Print("Press any key to exit..."); err != nil {
		return err
	}
	for ev := range eventQueue {
		if ev.Type == termbox.EventKey {
			break
		}
	}
	return nil
}

func getInitialFrame(frames *frameHolder) (*store.Frame, error) {
	select {
	case f := <-frames.initialFrame():
		if f == nil {
			return nil, errors.New("game has no frames")
		}
		return f, nil
	case <-time.After(initialFrameWait):
		return nil, errors.New("unable to find initial frame for game")
	}
}
