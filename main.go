package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"connect4/config"
	"connect4/engine"
	"connect4/experiments"
	"connect4/game"
	"connect4/searcher"
	"connect4/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML config file, defaults are used when empty")
	mode := flag.String("mode", "play", "selfplay, evaluate, ingest, speed or play")
	games := flag.Int("games", 0, "number of games, 0 uses training.games from the config")
	outDir := flag.String("out", "experiments", "directory for CSV experiment records, empty to skip")
	verbose := flag.Bool("verbose", false, "log at debug level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *games <= 0 {
		*games = cfg.Training.Games
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *mode, *games, *outDir); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Str("mode", *mode).Msg("run failed")
	}
}

func run(ctx context.Context, cfg config.Config, mode string, games int, outDir string) error {
	switch mode {
	case "selfplay":
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		_, err = experiments.SelfPlay(ctx, cfg, st, games, outDir)
		return err
	case "evaluate":
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		_, err = experiments.Evaluate(ctx, cfg, st, games, outDir)
		return err
	case "ingest":
		if cfg.Store.GameLog == "" {
			return errors.New("store.game_log is not set")
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		if _, err := st.IngestLog(cfg.Store.GameLog); err != nil {
			return err
		}
		_, err = st.SaveFile(cfg.Store.SaveBase)
		return err
	case "speed":
		var st *store.Store
		if cfg.Search.StoreAssist {
			var err error
			if st, err = openStore(cfg); err != nil {
				return err
			}
		}
		_, err := experiments.Throughput(cfg, st, cfg.Search.Trials*10, 5)
		return err
	case "play":
		return play(ctx, cfg)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// openStore loads the configured store file, or starts an empty store.
func openStore(cfg config.Config) (*store.Store, error) {
	if cfg.Store.Path == "" {
		return store.New(cfg.Board.Width, cfg.Board.Height), nil
	}
	return store.LoadFile(cfg.Store.Path, cfg.Board.Width, cfg.Board.Height)
}

// play runs a human against the engine on stdin. A column number plays a
// move and the engine answers it. "go" asks the engine to move, "new" and
// "pos <moves>" set up a game.
func play(ctx context.Context, cfg config.Config) error {
	kind, err := searcher.ParseRolloutKind(cfg.Search.Rollout)
	if err != nil {
		return err
	}
	options := []searcher.Option{
		searcher.WithTrials(cfg.Search.Trials),
		searcher.WithBatch(cfg.Search.Batch),
		searcher.WithThreshold(cfg.Search.Threshold),
		searcher.WithExploration(cfg.Search.Exploration),
		searcher.WithRollout(kind),
	}
	if cfg.Search.StoreAssist {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		options = append(options, searcher.WithOracle(st))
	}
	session, err := engine.NewSession(cfg.Board.Width, cfg.Board.Height, searcher.NewMCTS(options...), cfg.Search.Growth)
	if err != nil {
		return err
	}

	fmt.Println(session.Board())
	scanner := bufio.NewScanner(os.Stdin)
	for fmt.Print("> "); scanner.Scan(); fmt.Print("> ") {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "quit":
			return nil
		case line == "new":
			session.NewGame()
		case strings.HasPrefix(line, "pos "):
			if err := session.Setup(strings.TrimSpace(strings.TrimPrefix(line, "pos "))); err != nil {
				fmt.Println(err)
				continue
			}
		case line == "go":
			if err := engineMove(ctx, session); err != nil {
				fmt.Println(err)
			}
		default:
			col, err := strconv.Atoi(line)
			if err != nil {
				fmt.Println("enter a column number, go, new, pos <moves> or quit")
				continue
			}
			if _, err := session.Play(col - 1); err != nil {
				fmt.Println(err)
				continue
			}
			if !session.Outcome().Over() {
				if err := engineMove(ctx, session); err != nil {
					fmt.Println(err)
				}
			}
		}
		fmt.Println(session.Board())
		if outcome := session.Outcome(); outcome.Over() {
			fmt.Printf("%s: %s\n", outcome, session.Position())
		}
	}
	return scanner.Err()
}

func engineMove(ctx context.Context, session *engine.Session) error {
	if err := session.Think(ctx); err != nil {
		return err
	}
	minDepth, maxDepth, leader := session.DepthRange()
	col, err := session.PlayBest(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("engine plays %s (depth %d-%d, %s)\n", game.FormatMove(col), minDepth, maxDepth, leader)
	return nil
}
