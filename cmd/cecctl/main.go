package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/darkwater/cecctl/cmd/cecctl/subcmd"
	"github.com/darkwater/cecctl/log2"
)

var BuildVersion string = "unknown" // set by ldflags -X

var modules = []subcmd.Mod{
	subcmd.RunMod,
	subcmd.KeysMod,
}

func main() {
	flags := flag.NewFlagSet("cecctl", flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Run commands with a TV remote\n\nUsage: cecctl [flags] [command]\n\nCommands:\n%s\nFlags:\n", subcmd.Help(modules))
		flags.PrintDefaults()
	}
	takeFocus := flags.BoolP("take-focus", "t", false, "tell the TV to change input to this device")
	logLevel := flags.StringP("log-level", "l", "info", `level to show logs at: "error", "warn", "info", "debug", "trace" or "off"`)
	configPath := flags.StringP("config", "c", "", "config file (default: cecctl.toml in user config dir)")
	showVersion := flags.Bool("version", false, "print version and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if *showVersion {
		fmt.Printf("cecctl %s\n", BuildVersion)
		return
	}

	level, err := log2.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := log2.NewStderr(level)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		log.SetFlags(log2.LInteractiveFlags)
	} else {
		// assume systemd journal, it has timestamps
		log.SetFlags(log2.LServiceFlags)
	}

	command := flags.Arg(0)
	if command == "" {
		command = subcmd.RunMod.Name
	}
	mod, err := subcmd.Parse(command, modules)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	env := &subcmd.Env{
		Log:        log,
		Stdout:     os.Stdout,
		ConfigPath: *configPath,
		TakeFocus:  *takeFocus,
	}
	if err := mod.Main(ctx, env); err != nil {
		cancel()
		log.Fatal(errors.ErrorStack(err))
	}
}
