package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/uhppoted/uhppoted-lib/command"

	"github.com/uhppoted/reagents-sheets/commands"
	"github.com/uhppoted/reagents-sheets/config"
	"github.com/uhppoted/reagents-sheets/logging"
)

var cli = []uhppoted.Command{
	&commands.RenderCmd,
	&commands.ExportCmd,
	&commands.GetCmd,
	&commands.AuthoriseCmd,
	&commands.VersionCmd,
}

var options = commands.Options{
	Debug: false,
}

var dotenv = ".env"

var help = uhppoted.NewHelp(commands.APP, cli, nil)

func main() {
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.StringVar(&dotenv, "env", dotenv, "File with environment configuration")
	flag.Parse()

	cmd, err := uhppoted.Parse(cli, nil, help)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	if cmd == nil {
		help.Execute()
		os.Exit(1)
	}

	cfg, err := config.Load(dotenv)
	if err != nil {
		fmt.Printf("\nERROR: %v\n\n", err)
		os.Exit(1)
	}

	options.Config = cfg

	slog.SetDefault(logging.New(os.Stderr, cfg.Log, options.Debug))

	if err = cmd.Execute(&options); err != nil {
		slog.Error(fmt.Sprintf("%v", err), "command", cmd.Name())
		os.Exit(1)
	}
}
