// Command matchctl is an interactive terminal client for the resumatch API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/resumatch/internal/client"
	"github.com/Abraxas-365/resumatch/internal/client/cli"
	"github.com/Abraxas-365/resumatch/pkg/logx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	serverURL := os.Getenv("RESUMATCH_URL")
	if serverURL == "" {
		serverURL = "http://localhost:5000"
	}

	fs := flag.NewFlagSet("matchctl", flag.ExitOnError)
	fs.StringVar(&serverURL, "server", serverURL, "resumatch API base URL")
	timeout := fs.Duration("timeout", client.DefaultTimeout, "per-request timeout")
	_ = fs.Parse(os.Args[1:])

	logx.SetLevel(logx.LevelWarn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(serverURL, *timeout)
	app := cli.NewApp(api, client.NewWorkspace(), os.Stdin, os.Stdout)
	app.Run(ctx)
}
