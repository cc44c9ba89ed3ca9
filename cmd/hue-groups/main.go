package main

import (
	"strings"

	"github.com/samber/lo"
	"github.com/wheelibin/hueclient/internal/cli"
	"github.com/wheelibin/hueclient/pkg/hue"
)

func main() {
	app := cli.Init("hue-groups", "", nil)

	ctx, stop := app.Context()
	defer stop()

	bridge, err := app.AuthenticatedBridge(ctx)
	if err != nil {
		app.Fatal(err)
	}

	rooms, err := bridge.ResolveRooms(ctx)
	if err != nil {
		app.Fatal(err)
	}
	zones, err := bridge.ResolveZones(ctx)
	if err != nil {
		app.Fatal(err)
	}

	rows := lo.Map(append(rooms, zones...), func(g hue.ResolvedGroup, _ int) []string {
		groupedLight := "-"
		if service, found := g.GroupedLight(); found {
			groupedLight = service.RID
		}
		names := lo.Map(g.Lights, func(l hue.Light, _ int) string { return l.Metadata.Name })
		return []string{string(g.Type), g.Metadata.Name, groupedLight, strings.Join(names, ", ")}
	})
	cli.PrintTable(app.Out(), []string{"TYPE", "NAME", "GROUPED LIGHT", "LIGHTS"}, rows)
}
