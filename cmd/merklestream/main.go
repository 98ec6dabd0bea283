// Command merklestream splits files, or stdin, into fixed size blocks and
// appends them to a merkle stream, printing every node the stream produces.
//
//	merklestream [flags] [file ...]
//
// With --db the stream is persisted in sqlite and --stream resumes an
// existing stream instead of creating a new one.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("merklestream", pflag.ExitOnError)
	var args cmdArgs
	args.register(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := args.config(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger.New(cfg.LogLevel)
	defer logger.OnExit()
	log := logger.Sugar.WithServiceName("merklestream")

	if err := run(context.Background(), log, cfg, args, flags.Args(), os.Stdin, os.Stdout); err != nil {
		log.Errorf("merklestream: %v", err)
		fmt.Fprintln(os.Stderr, err)
		logger.OnExit()
		os.Exit(1)
	}
}
