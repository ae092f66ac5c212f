// ringmaster - real-time match and tournament orchestration for game backends
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/avolkau/ringmaster/internal/api"
	"github.com/avolkau/ringmaster/internal/auth"
	"github.com/avolkau/ringmaster/internal/config"
	"github.com/avolkau/ringmaster/internal/engine"
	"github.com/avolkau/ringmaster/internal/events"
	"github.com/avolkau/ringmaster/internal/gateway"
	"github.com/avolkau/ringmaster/internal/roster"
)

var version = "dev"

const defaultConfigPath = "/etc/ringmaster/config.yml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "token":
		cmdToken(os.Args[2:])
	case "version":
		fmt.Printf("ringmaster %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: ringmaster <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                               Start the orchestration server")
	fmt.Println("  token link --player <id>            Mint a link token for a player")
	fmt.Println("  token game                          Mint a connection auth token")
	fmt.Println("  version                             Show version")
	fmt.Println("  help                                Show this help")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --config <path>    Path to configuration file (default /etc/ringmaster/config.yml)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ringmaster serve --config /etc/ringmaster/config.yml")
	fmt.Println("  ringmaster token link --player p1")
	fmt.Println("  ringmaster token game --secret s3cret --game arena-1")
}

// cmdServe starts the orchestration server
func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfgPath := *configPath
	if cfgPath == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			cfgPath = defaultConfigPath
		} else {
			log.Fatalf("No config file found at %s. Use --config to specify a config file.", defaultConfigPath)
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Ringmaster %s starting for game %s...", version, cfg.Game.ID)
	if cfg.Auth.Secret == "" {
		log.Printf("Warning: No token secret configured. Tokens will use an empty secret.")
	}

	// Pre-link players from config
	reg := roster.New()
	for _, playerID := range cfg.Game.LinkedPlayers {
		ordinal := reg.Link(playerID)
		log.Printf("Player %s linked to user %d", playerID, ordinal)
	}

	publisher, err := events.NewNATS(cfg.Events)
	if err != nil {
		log.Fatalf("Failed to start event publisher: %v", err)
	}
	defer publisher.Close()

	authService := auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenDuration)
	eng := engine.New(cfg, reg, publisher)
	gw := gateway.New(cfg.Game.ID, authService, eng)
	router := api.NewRouter(cfg, authService, reg, eng, gw)

	addr := fmt.Sprintf("%s:%d", cfg.Server.ListenAddr, cfg.Server.HTTPPort)
	server := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-serverErr:
		log.Fatalf("HTTP server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("Shutdown complete")
}

// cmdToken mints link and connection tokens for operators
func cmdToken(args []string) {
	if len(args) < 1 || (args[0] != "link" && args[0] != "game") {
		fmt.Fprintln(os.Stderr, "Usage: ringmaster token <link|game> [options]")
		os.Exit(1)
	}
	kind := args[0]

	fs := flag.NewFlagSet("token", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to configuration file")
	gameID := fs.String("game", "", "game identifier (default: from config)")
	playerID := fs.String("player", "", "player identifier (link tokens only)")
	secret := fs.String("secret", "", "signing secret (default: from config, else prompted)")
	ttl := fs.Duration("ttl", 0, "token lifetime (default: from config)")
	fs.Parse(args[1:])

	game, key, duration := *gameID, *secret, *ttl
	if cfg, err := config.Load(*configPath); err == nil {
		if game == "" {
			game = cfg.Game.ID
		}
		if key == "" {
			key = cfg.Auth.Secret
		}
		if duration == 0 {
			duration = cfg.Auth.TokenDuration
		}
	}

	if game == "" {
		fmt.Fprintln(os.Stderr, "Error: no game id; pass --game or configure game.id")
		os.Exit(1)
	}
	if key == "" {
		fmt.Fprint(os.Stderr, "Signing secret: ")
		entered, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading secret: %v\n", err)
			os.Exit(1)
		}
		key = string(entered)
	}

	service := auth.NewService(key, duration)

	var token string
	var err error
	switch kind {
	case "link":
		if *playerID == "" {
			fmt.Fprintln(os.Stderr, "Error: link tokens require --player")
			os.Exit(1)
		}
		token, err = service.GenerateLink(game, *playerID)
	case "game":
		token, err = service.GenerateGame(game)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error minting token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
