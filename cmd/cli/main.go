package main

import (
	"context"
	"log"
	"os"

	"github.com/dkurganov/localvault/internal/buildinfo"
	"github.com/dkurganov/localvault/internal/cli"
	"github.com/dkurganov/localvault/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
