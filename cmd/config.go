package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

// Print the effective configuration as YAML. The output can be edited and
// passed back with --config.
func PrintConfig(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.App.Writer, string(data))
	return nil
}
