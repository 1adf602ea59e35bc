package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/scarab/internal/cli"
	"github.com/peterkuimelis/scarab/internal/config"
	"github.com/peterkuimelis/scarab/internal/session"
	"github.com/peterkuimelis/scarab/internal/view"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, cfg, os.Args[2:])
	case "join":
		err = runJoin(ctx, cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  scarab play [--decks FILE] [--seed N] [--save]")
	fmt.Println("  scarab join [--addr ADDR]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play runs locally against a decks file")
	fmt.Println("  join    Play the game hosted by a scarab web server")
}

func runPlay(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	cfg.BindFlags(fs)
	fs.Parse(args)

	var opts []session.Option
	if cfg.Save {
		opts = append(opts, session.WithStore(cfg.DecksFile))
	}
	sess, err := session.Load(cfg.DecksFile, cfg.EntropySeed(), opts...)
	if err != nil {
		return err
	}
	client := cli.NewClient(cli.LocalDriver{Session: sess}, os.Stdin, os.Stdout)
	return client.RunREPL(ctx, view.Reply{})
}

func runJoin(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	cfg.BindFlags(fs)
	fs.Parse(args)

	d, err := cli.Dial(ctx, cfg.Addr)
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Println("Connected!")
	return cli.NewClient(d, os.Stdin, os.Stdout).RunREPL(ctx, d.Greeting())
}
