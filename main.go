package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/dotfield/internal/config"
	"github.com/iburimskiy/dotfield/internal/game"
	"github.com/iburimskiy/dotfield/internal/session"
	"github.com/iburimskiy/dotfield/internal/term"
)

var (
	presetName string
	configFile string
	watch      bool
	terminal   bool
	seed       int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "dotfield",
		Short:        "interactive dot-field background",
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&presetName, "preset", envOr("DOTFIELD_PRESET", "portfolio"),
		"preset name ("+strings.Join(config.ListPresets(), ", ")+")")
	rootCmd.Flags().StringVar(&configFile, "config", os.Getenv("DOTFIELD_CONFIG"), "YAML config file, overrides --preset")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "reload the config file when it changes")
	rootCmd.Flags().BoolVar(&terminal, "terminal", false, "draw in the terminal instead of a window")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for wave offsets (0 = time based)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	store := session.NewStore()

	var watcher *config.Watcher
	if watch {
		if configFile == "" {
			return errors.New("--watch needs --config")
		}
		watcher, err = config.NewWatcher(configFile)
		if err != nil {
			return fmt.Errorf("watch %s: %w", configFile, err)
		}
	}

	if terminal {
		return runTerminal(cfg, store, rng, watcher)
	}
	return runWindow(cfg, store, rng, watcher)
}

func resolveConfig() (*config.Config, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg := config.GetPreset(presetName)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q", presetName)
	}
	return cfg, nil
}

func runWindow(cfg *config.Config, store *session.Store, rng *rand.Rand, watcher *config.Watcher) error {
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Dot Field - T: torch, R: replay, H: home, Esc/Q: quit")

	g := game.NewGame(cfg, store, game.Options{
		ConfigPath: configFile,
		Watcher:    watcher,
		Rand:       rng,
	})
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func runTerminal(cfg *config.Config, store *session.Store, rng *rand.Rand, watcher *config.Watcher) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var reload chan *config.Config
	if watcher != nil {
		defer watcher.Close()
		reload = make(chan *config.Config, 1)
		go forwardReloads(ctx, watcher, reload)
	}

	return term.Run(ctx, screen, cfg, store, rng, reload)
}

// forwardReloads turns file events into parsed configs. Bad files are logged
// and skipped so the running field keeps its last good config.
func forwardReloads(ctx context.Context, w *config.Watcher, out chan<- *config.Config) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.Events:
			if filepath.Clean(path) != filepath.Clean(configFile) {
				continue
			}
			cfg, err := config.Load(path)
			if err != nil {
				log.Printf("reload %s: %v", path, err)
				continue
			}
			select {
			case out <- cfg:
			case <-ctx.Done():
				return
			}
		case err := <-w.Errors:
			log.Printf("config watcher: %v", err)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
