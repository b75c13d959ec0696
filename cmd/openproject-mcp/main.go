// openproject-mcp: OpenProject MCP Server
//
// An MCP server that connects AI coding tools (Claude Code, Cursor,
// VS Code Copilot and friends) to an OpenProject instance: work
// packages, relations, time tracking, and concurrent bulk operations
// with per-item retry.
//
// Usage:
//
//	openproject-mcp serve    # Start MCP server (stdio transport)
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openproject-community/openproject-mcp/internal/config"
	opserver "github.com/openproject-community/openproject-mcp/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("openproject-mcp v%s\n", opserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	// Best-effort: a .env in the working directory is a convenience for
	// local runs, not a requirement.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Logs go to stderr — stdout belongs to the MCP stdio transport.
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	s, cleanup, err := opserver.New(cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt: flush the audit store before the
	// process dies.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		cleanup()
		os.Exit(0)
	}()

	log.Info("starting MCP server", "version", opserver.Version, "instance", cfg.URL)
	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `openproject-mcp v%s — OpenProject MCP Server

Usage:
  openproject-mcp serve    Start the MCP server (stdio transport)

Environment:
  OPENPROJECT_URL        Base URL of the instance (required)
  OPENPROJECT_API_KEY    API key of the acting user (required)
  OPENPROJECT_PROXY      Optional HTTP proxy URL
  OPENPROJECT_TIMEOUT    Per-request timeout (default 30s)
  AUDIT_DB_PATH          Bulk history database ("" disables)
  DEBUG                  Verbose logging (default false)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "openproject": {
        "command": "openproject-mcp",
        "args": ["serve"],
        "env": {
          "OPENPROJECT_URL": "https://openproject.example.com",
          "OPENPROJECT_API_KEY": "..."
        }
      }
    }
  }
`, opserver.Version)
}
