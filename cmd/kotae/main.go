package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/ymaeda/kotae/internal/app"
	"github.com/ymaeda/kotae/internal/config"
	"github.com/ymaeda/kotae/internal/tui"
)

// version is stamped by the release build.
var version = "dev"

func main() {
	configPath := flag.String("config", config.DefaultPath(), "config file path")
	server := flag.String("server", "", "backend base URL (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("kotae " + version)
		return
	}

	var tuiApp *tui.App
	fxApp := fx.New(
		app.Module(app.Params{ConfigPath: *configPath, ServerURL: *server}),
		fx.Populate(&tuiApp),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	runErr := tuiApp.Run()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelStop()
	_ = fxApp.Stop(stopCtx)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}
