package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/liuran001/tunebot/bot/app"
)

var (
	versionName = ""
	commitSHA   = ""
	buildTime   = ""
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("c", "config.ini", "config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	buildInfo := app.BuildInfo{
		RuntimeVer: runtime.Version(),
		BinVersion: versionName,
		CommitSHA:  commitSHA,
		BuildTime:  buildTime,
		BuildArch:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	application, err := app.New(ctx, *configPath, buildInfo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tunebot:", err)
		os.Exit(1)
	}

	if err := application.Start(ctx); err != nil {
		_ = application.Shutdown(context.Background())
		fmt.Fprintln(os.Stderr, "tunebot:", err)
		os.Exit(1)
	}

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := application.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintln(os.Stderr, "tunebot:", err)
		os.Exit(1)
	}
}
