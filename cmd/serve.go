package cmd

import (
	"github.com/df07/go-smallpaint/web/server"
	"github.com/urfave/cli"
)

// Serve progressive renders over HTTP. Request parameters override the
// loaded configuration.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return server.NewServer(ctx.Int("port"), cfg).Start()
}
