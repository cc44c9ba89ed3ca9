package main

import (
	"fmt"

	"github.com/wheelibin/hueclient/internal/cli"
)

func main() {
	app := cli.Init("hue-set-scene", "<scene_id>", nil)
	sceneID := app.Args(1)[0]

	ctx, stop := app.Context()
	defer stop()

	bridge, err := app.AuthenticatedBridge(ctx)
	if err != nil {
		app.Fatal(err)
	}

	ids, err := bridge.RecallScene(ctx, sceneID)
	if err != nil {
		app.Fatal(err)
	}
	for _, id := range ids {
		fmt.Fprintf(app.Out(), "recalled %s %s\n", id.RType, id.RID)
	}
}
