package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"

	"github.com/peterkuimelis/scarab/internal/config"
	"github.com/peterkuimelis/scarab/internal/log"
	"github.com/peterkuimelis/scarab/internal/session"
	"github.com/peterkuimelis/scarab/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	artDir := flag.String("art", "", "path to card art directory")
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	opts := []session.Option{session.WithLogger(log.NewTextLogger(os.Stdout))}
	if cfg.Save {
		opts = append(opts, session.WithStore(cfg.DecksFile))
	}
	sess, err := session.Load(cfg.DecksFile, cfg.EntropySeed(), opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := web.NewServer(sess, *artDir)
	stdlog.Printf("scarab web server listening on http://localhost:%d", cfg.Port)
	if err := srv.ListenAndServe(cfg.ListenAddr()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
