package main

import (
	"context"
	"os"

	"github.com/healthpod/healthpod/internal/buildinfo"
	"github.com/healthpod/healthpod/internal/client/cli"
	"github.com/healthpod/healthpod/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(ctx)

}
