package main

import (
	"fmt"

	"github.com/wheelibin/hueclient/internal/cli"
	"github.com/wheelibin/hueclient/internal/onboarding"
)

func main() {
	app := cli.Init("hue-register", "[devicetype]", nil)

	deviceType := app.Config.DeviceType
	if args := app.Args(0); len(args) > 0 {
		deviceType = args[0]
	}

	ctx, stop := app.Context()
	defer stop()

	bridge, err := app.Bridge(ctx)
	if err != nil {
		app.Fatal(err)
	}

	policy := onboarding.Policy{
		Delay:       app.Config.Link.RetryDelay,
		MaxAttempts: app.Config.Link.MaxAttempts,
		Waiting: func(attempt int) {
			if attempt == 1 {
				fmt.Fprintf(app.Out(), "Push the link button on the bridge at %s\n", bridge.Address())
			}
		},
	}
	reg, err := onboarding.Register(ctx, app.Logger, bridge, deviceType, policy)
	if err != nil {
		app.Fatal(err)
	}

	fmt.Fprintf(app.Out(), "application key: %s\n", reg.Username)
	if reg.ClientKey != "" {
		fmt.Fprintf(app.Out(), "client key:      %s\n", reg.ClientKey)
	}
}
