// Command mudra runs the hand-gesture pointer control application:
// the camera pipeline, the local HTTP API, and the menu bar item.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mudra",
		Short: "Hand-gesture pointer control",
		Long: `Mudra tracks a hand through the webcam and drives the system
pointer with it: pinch to drag, a V sign for right click, an open
palm for tab and window switching.`,
		RunE: runApp,
	}
	rootCmd.Flags().String("config", "", "Path to config file (default ~/.mudra/config.yaml)")
	rootCmd.Flags().Bool("no-tray", false, "Run without the menu bar item")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("mudra", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	noTray, _ := cmd.Flags().GetBool("no-tray")

	cfg, dataDir, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	st, err := store.New(storagePath(cfg, dataDir))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	if cfg.Plugins.Dir == "" {
		cfg.Plugins.Dir = filepath.Join(dataDir, "plugins")
	}

	a, err := app.New(cfg, st)
	if err != nil {
		return err
	}

	// A stored active profile overrides the file's gesture settings.
	if profile, err := st.Profiles().GetActive(); err == nil {
		if err := a.ApplyProfile(profile); err != nil {
			log.Printf("Ignoring active profile: %v", err)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("Loading active profile: %v", err)
	}

	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Discovering actuators: %v", err)
	}

	if err := a.Start(); err != nil {
		return fmt.Errorf("starting pipeline: %w", err)
	}
	defer a.Stop()
	a.SetEnabled(true)

	srv := server.New(server.Config{
		StaticDir: findWebDir(dataDir),
		Store:     st,
		Camera:    a.Camera(),
		Outputs:   a.Outputs(),
		Pipeline:  a,
	})
	go func() {
		log.Printf("API listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if noTray {
		select {} // run until killed
	}

	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnSettings(func() {
		if err := openBrowser("http://" + cfg.Server.Addr); err != nil {
			log.Printf("Opening settings: %v", err)
		}
	})
	t.OnQuit(a.Stop)

	go updateTray(t, a)

	t.Run()
	return nil
}

// loadConfig resolves the config path, loads it, and returns the data
// directory (~/.mudra), creating it if needed.
func loadConfig(path string) (*config.Config, string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("resolving home directory: %w", err)
	}
	dataDir := filepath.Join(home, ".mudra")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating data directory: %w", err)
	}

	if path == "" {
		path = filepath.Join(dataDir, "config.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, dataDir, nil
}

func storagePath(cfg *config.Config, dataDir string) string {
	if cfg.Storage.Path != "" {
		return cfg.Storage.Path
	}
	return filepath.Join(dataDir, "mudra.db")
}

// updateTray mirrors the pipeline output in the menu bar.
func updateTray(t *tray.Tray, a *app.App) {
	var lastSeq uint64
	for {
		out, seq, fresh := a.Outputs().Take(lastSeq)
		if fresh {
			lastSeq = seq
			t.SetLastGesture(out.EventName)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// findWebDir searches for the settings UI in common locations.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}

func openBrowser(url string) error {
	return exec.Command("open", url).Start()
}
