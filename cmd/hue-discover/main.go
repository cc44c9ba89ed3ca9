package main

import (
	"fmt"

	"github.com/wheelibin/hueclient/internal/cli"
)

func main() {
	app := cli.Init("hue-discover", "", nil)

	ctx, stop := app.Context()
	defer stop()

	addr, err := app.Discoverer().Discover(ctx)
	if err != nil {
		app.Fatal(err)
	}
	fmt.Fprintln(app.Out(), addr)
}
