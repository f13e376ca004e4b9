// Command cli is an interactive terminal client for the account API.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/iliyamo/launchdev/internal/cli"
	"github.com/iliyamo/launchdev/internal/client"
)

func main() {
	_ = godotenv.Load()

	addr := os.Getenv("LAUNCHDEV_URL")
	if addr == "" {
		addr = "http://localhost:8080"
	}
	fs := flag.NewFlagSet("cli", flag.ExitOnError)
	fs.StringVar(&addr, "a", addr, "base URL of the API server")
	_ = fs.Parse(os.Args[1:])

	api, err := client.New(addr)
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewApp(api, os.Stdin, os.Stdout).Run(ctx); err != nil {
		log.Fatal(err)
	}
}
