package main

import (
	"github.com/samber/lo"
	"github.com/wheelibin/hueclient/internal/cli"
	"github.com/wheelibin/hueclient/pkg/hue"
)

func main() {
	app := cli.Init("hue-scenes", "", nil)

	ctx, stop := app.Context()
	defer stop()

	bridge, err := app.AuthenticatedBridge(ctx)
	if err != nil {
		app.Fatal(err)
	}

	scenes, err := bridge.ListScenes(ctx)
	if err != nil {
		app.Fatal(err)
	}

	rows := lo.Map(scenes, func(s hue.Scene, _ int) []string {
		return []string{s.ID, s.Metadata.Name, string(s.Group.RType), s.Group.RID}
	})
	cli.PrintTable(app.Out(), []string{"ID", "NAME", "GROUP TYPE", "GROUP"}, rows)
}
