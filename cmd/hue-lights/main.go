package main

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/wheelibin/hueclient/internal/cli"
	"github.com/wheelibin/hueclient/pkg/hue"
)

func main() {
	var legacy bool
	app := cli.Init("hue-lights", "[--legacy]", func(fs *pflag.FlagSet) {
		fs.BoolVar(&legacy, "legacy", false, "list through the v1 API")
	})

	ctx, stop := app.Context()
	defer stop()

	bridge, err := app.AuthenticatedBridge(ctx)
	if err != nil {
		app.Fatal(err)
	}

	if legacy {
		err = listLegacy(ctx, app, bridge)
	} else {
		err = list(ctx, app, bridge)
	}
	if err != nil {
		app.Fatal(err)
	}
}

func list(ctx context.Context, app *cli.App, bridge *hue.Bridge) error {
	lights, err := bridge.ListLights(ctx)
	if err != nil {
		return err
	}

	rows := lo.Map(lights, func(l hue.Light, _ int) []string {
		brightness, mirek, xy := "-", "-", "-"
		if l.Dimming != nil {
			brightness = fmt.Sprintf("%.0f%%", l.Dimming.Brightness)
		}
		if l.ColorTemperature != nil {
			mirek = cli.Optional(l.ColorTemperature.Mirek, "%d")
		}
		if l.Color != nil {
			xy = fmt.Sprintf("%.4f,%.4f", l.Color.XY.X, l.Color.XY.Y)
		}
		return []string{l.ID, l.Metadata.Name, fmt.Sprint(l.On.On), brightness, mirek, xy}
	})
	cli.PrintTable(app.Out(), []string{"ID", "NAME", "ON", "BRIGHTNESS", "MIREK", "XY"}, rows)
	return nil
}

func listLegacy(ctx context.Context, app *cli.App, bridge *hue.Bridge) error {
	lights, err := bridge.ListLegacyLights(ctx)
	if err != nil {
		return err
	}

	rows := lo.Map(lights, func(l hue.LegacyLight, _ int) []string {
		s := l.State
		xy := "-"
		if s.XY != nil {
			xy = fmt.Sprintf("%.4f,%.4f", s.XY[0], s.XY[1])
		}
		return []string{
			l.ID, l.Name, fmt.Sprint(s.On),
			cli.Optional(s.Bri, "%d"), cli.Optional(s.Hue, "%d"), cli.Optional(s.Sat, "%d"),
			cli.Optional(s.CT, "%d"), xy, fmt.Sprint(s.Reachable),
		}
	})
	cli.PrintTable(app.Out(), []string{"ID", "NAME", "ON", "BRI", "HUE", "SAT", "CT", "XY", "REACHABLE"}, rows)
	return nil
}
