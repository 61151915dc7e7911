// ABOUTME: Entry point for the slugline-gateway MCP server
// ABOUTME: Serves the function catalogue and token-authorized execute endpoint

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/slugline-app/slugline-gateway/internal/auth"
	"github.com/slugline-app/slugline-gateway/internal/config"
	"github.com/slugline-app/slugline-gateway/internal/dispatch"
	"github.com/slugline-app/slugline-gateway/internal/functions"
	"github.com/slugline-app/slugline-gateway/internal/gateway"
	"github.com/slugline-app/slugline-gateway/internal/manifest"
	"github.com/slugline-app/slugline-gateway/internal/registry"
	"github.com/slugline-app/slugline-gateway/internal/store"
)

// version is overridden at build time via -ldflags.
var version = "dev"

const appName = "slugline-gateway"

const banner = `
     _             _ _
 ___| |_   _  __ _| (_)_ __   ___
/ __| | | | |/ _' | | | '_ \ / _ \
\__ \ | |_| | (_| | | | | | |  __/
|___/_|\__,_|\__, |_|_|_| |_|\___|
             |___/     gateway
`

// defaultSessionTTL bounds bootstrap-issued admin sessions.
const defaultSessionTTL = 30 * 24 * time.Hour

// getConfigPath returns the path to the gateway config file.
// Priority: SLUGLINE_CONFIG env var > XDG_CONFIG_HOME/slugline/gateway.yaml > ~/.config/slugline/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("SLUGLINE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "slugline", "gateway.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: slugline-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                  Start the gateway server")
		fmt.Println("  init                   Write a starter config file")
		fmt.Println("  bootstrap --name NAME  Create the owner user and print a session token")
		fmt.Println("  health                 Check gateway health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "bootstrap":
		err = runBootstrap(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	fmt.Println()

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	reg, err := registry.New(functions.All(db)...)
	if err != nil {
		return fmt.Errorf("building function registry: %w", err)
	}
	logger.Info("function registry built", "functions", reg.Len())

	dispatcher := dispatch.New(dispatch.Config{
		Registry: reg,
		Logger:   logger.With("component", "dispatch"),
		Timeout:  cfg.Functions.ExecuteTimeout,
	})

	authority := auth.New(auth.Config{
		Tokens:       db,
		Logger:       logger.With("component", "auth"),
		LegacyAPIKey: cfg.Auth.LegacyAPIKey,
	})
	if cfg.Auth.LegacyAPIKey != "" {
		logger.Warn("legacy shared-secret authentication is enabled; prefer scoped API tokens")
	}

	var sessions auth.SessionVerifier
	if cfg.Auth.JWTSecret != "" {
		sessions = auth.NewJWTSessions([]byte(cfg.Auth.JWTSecret))
	}

	srv, err := gateway.New(gateway.Config{
		Addr:                cfg.Server.HTTPAddr,
		Logger:              logger.With("component", "gateway"),
		Registry:            reg,
		Dispatcher:          dispatcher,
		Manifests:           manifest.New(reg, appName, version),
		Authority:           authority,
		Sessions:            sessions,
		TokenService:        auth.NewTokenService(db, logger.With("component", "tokens")),
		RequireManifestAuth: cfg.Auth.RequireManifestAuth,
	})
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return srv.Run(ctx)
}

const starterConfig = `server:
  http_addr: "127.0.0.1:8787"

database:
  path: "slugline.db"

auth:
  jwt_secret: "${SLUGLINE_JWT_SECRET}"
  # legacy_api_key: ""
  require_manifest_auth: false
  session_ttl: "720h"

functions:
  execute_timeout: "30s"

logging:
  level: "info"
  format: "text"
`

func runInit() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Wrote starter config to %s\n", configPath)
	return nil
}

func runBootstrap(ctx context.Context) error {
	fs := flag.NewFlagSet("bootstrap", flag.ExitOnError)
	name := fs.String("name", "", "display name for the owner user")
	email := fs.String("email", "", "email for the owner user")
	if err := fs.Parse(os.Args[2:]); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must be set before bootstrapping")
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	userEmail := *email
	if userEmail == "" {
		userEmail = strings.ToLower(strings.ReplaceAll(*name, " ", ".")) + "@localhost"
	}

	user := &store.User{
		ID:          uuid.New().String(),
		Email:       userEmail,
		DisplayName: *name,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("creating owner user: %w", err)
	}

	ttl := cfg.Auth.SessionTTL
	if ttl == 0 {
		ttl = defaultSessionTTL
	}

	session, err := auth.NewJWTSessions([]byte(cfg.Auth.JWTSecret)).Generate(user.ID, ttl)
	if err != nil {
		return fmt.Errorf("generating session token: %w", err)
	}

	fmt.Printf("Created owner user %s (%s)\n\n", user.DisplayName, user.ID)
	fmt.Println("Session token (use as Authorization: Bearer <token> on /tokens):")
	fmt.Println(session)
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	// Handler-level attrs first (from WithAttrs), then record attrs
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
