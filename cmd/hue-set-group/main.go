package main

import (
	"context"
	"fmt"

	"github.com/wheelibin/hueclient/internal/cli"
	"github.com/wheelibin/hueclient/pkg/command"
	"github.com/wheelibin/hueclient/pkg/hue"
)

func main() {
	app := cli.Init("hue-set-group", "<group_id>,<group_id>,... on|off|bri:hue:sat|NNNNMK:bri|NNNNK:bri|RRGGBB|x,y[:bri] [transition_time]", nil)
	args := app.Args(2)

	cmd, err := command.ParseArgs(args[1:])
	if err != nil {
		app.Fatal(err)
	}

	ctx, stop := app.Context()
	defer stop()

	bridge, err := app.AuthenticatedBridge(ctx)
	if err != nil {
		app.Fatal(err)
	}

	// numeric ids are v1 groups, resource ids are v2 grouped_light services (see hue-groups)
	err = app.EachTarget(ctx, args[0], func(ctx context.Context, id string) error {
		if hue.IsResourceID(id) {
			ids, err := bridge.SetGroupState(ctx, id, cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out(), "%s: updated %d resource(s)\n", id, len(ids))
			return nil
		}

		changes, err := bridge.SetLegacyGroupState(ctx, id, cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Out(), "%s: %v\n", id, changes)
		return nil
	})
	if err != nil {
		app.Fatal(err)
	}
}
