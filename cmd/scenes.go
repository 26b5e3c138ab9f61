package cmd

import (
	"bytes"
	"fmt"

	"github.com/df07/go-smallpaint/pkg/loaders"
	"github.com/df07/go-smallpaint/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the bundled sample scenes and the scene files in --dir.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Objects", "Description"})
	for _, sample := range scene.Samples() {
		sc, err := sample.Build(scene.LinearStorage, 1)
		if err != nil {
			return err
		}
		table.Append([]string{sample.Name, fmt.Sprintf("%d", sc.Len()), sample.Description})
	}

	files, err := loaders.ListSceneFiles(ctx.String("dir"))
	if err != nil {
		return err
	}
	for _, file := range files {
		table.Append([]string{file.Path, fmt.Sprintf("%d", file.Objects), file.Description})
	}

	table.Render()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}
