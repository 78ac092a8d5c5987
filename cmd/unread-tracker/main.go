package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/unread-tracker/internal/app"
	"github.com/nhle/unread-tracker/internal/credential"
	"github.com/nhle/unread-tracker/internal/model"
	"github.com/nhle/unread-tracker/internal/source/github"
	"github.com/nhle/unread-tracker/internal/store"
)

var (
	configPath = flag.String(
		"config", model.DefaultConfigPath(), "path to the configuration file",
	)
	setToken = flag.Bool(
		"set-token", false, "read a GitHub token from stdin, store it in the system keyring, and exit",
	)
	clearToken = flag.Bool(
		"clear-token", false, "remove the stored GitHub token from the system keyring and exit",
	)
)

func main() {
	flag.Parse()

	if *setToken {
		if err := storeToken(os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "Error storing token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Token stored.")
		return
	}
	if *clearToken {
		if err := credential.Delete(credential.TokenKey); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Token removed.")
		return
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(model.ConfigDir(), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config dir: %v\n", err)
		os.Exit(1)
	}

	closeLog := setupLogging(cfg.LogLevel)
	defer closeLog()

	token := loadToken()
	if token == "" {
		fmt.Fprintln(os.Stderr,
			"No GitHub token found. Set GITHUB_TOKEN or run "+
				"unread-tracker -set-token to store one in the keyring.")
		os.Exit(1)
	}

	client, err := github.NewClient(token, cfg.GitHub.BaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating GitHub client: %v\n", err)
		os.Exit(1)
	}

	resolveViewer(cfg, client)

	s, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	p := tea.NewProgram(app.New(s, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes logrus to a file under the config directory so log
// lines never corrupt the terminal UI. It returns a close function.
func setupLogging(level string) func() {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	logPath := filepath.Join(model.ConfigDir(), "unread-tracker.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }
}

// loadToken resolves the GitHub token from the environment first, then
// from the system keyring.
func loadToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	token, err := credential.Get(credential.TokenKey)
	if err != nil {
		return ""
	}
	return token
}

// storeToken reads one line from r and saves it as the keyring token.
func storeToken(r io.Reader) error {
	fmt.Print("GitHub token: ")
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return err
		}
		return fmt.Errorf("no token provided")
	}
	token := strings.TrimSpace(scanner.Text())
	if token == "" {
		return fmt.Errorf("no token provided")
	}
	return credential.Set(credential.TokenKey, token)
}

// resolveViewer seeds the client with the configured username, or looks
// it up once and persists it so later runs skip the API call. Failures
// are non-fatal; the client falls back to its lazy lookup.
func resolveViewer(cfg *model.AppConfig, client *github.Client) {
	if cfg.GitHub.Username != "" {
		client.SetViewer(cfg.GitHub.Username)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	username, err := client.Viewer(ctx)
	if err != nil {
		log.Debugf("viewer lookup deferred: %v", err)
		return
	}
	cfg.GitHub.Username = username
	if err := model.SaveConfig(*configPath, cfg); err != nil {
		log.Warnf("persisting resolved username: %v", err)
	}
}
