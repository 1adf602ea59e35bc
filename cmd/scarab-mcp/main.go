package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/scarab/internal/config"
	"github.com/peterkuimelis/scarab/internal/log"
	scarabmcp "github.com/peterkuimelis/scarab/internal/mcp"
	"github.com/peterkuimelis/scarab/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	// stdout carries the MCP protocol, so events go to stderr.
	opts := []session.Option{session.WithLogger(log.NewTextLogger(os.Stderr))}
	if cfg.Save {
		opts = append(opts, session.WithStore(cfg.DecksFile))
	}
	sess, err := session.Load(cfg.DecksFile, cfg.EntropySeed(), opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s := server.NewMCPServer(cfg.MCPName, "1.0.0")
	scarabmcp.NewTools(sess, cfg.Deck).RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
