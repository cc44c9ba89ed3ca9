package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/pflag"
	"github.com/wheelibin/hueclient/internal/cli"
	"github.com/wheelibin/hueclient/internal/repos"
)

func main() {
	var journal string
	app := cli.Init("hue-events", "[--journal file.db]", func(fs *pflag.FlagSet) {
		fs.StringVar(&journal, "journal", "", "also append every event to this SQLite database")
	})
	if journal == "" {
		journal = app.Config.Journal
	}

	ctx, stop := app.Context()
	defer stop()

	bridge, err := app.AuthenticatedBridge(ctx)
	if err != nil {
		app.Fatal(err)
	}

	var repo *repos.EventRepo
	if journal != "" {
		db, err := sql.Open("sqlite3", journal)
		if err != nil {
			app.Fatal(err)
		}
		defer db.Close()

		repo, err = repos.NewEventRepo(app.Logger, db)
		if err != nil {
			app.Fatal(err)
		}
	}

	for batch := range bridge.Events(ctx) {
		if batch.Err != nil {
			if ctx.Err() == nil {
				app.Logger.Warn("event stream", "err", batch.Err)
			}
			continue
		}

		for _, e := range batch.Events {
			fmt.Fprintln(app.Out(), cli.DescribeEvent(e))
		}
		if repo != nil {
			if err := repo.Add(batch.Events, time.Now()); err != nil {
				app.Logger.Error("could not journal events", "err", err)
			}
		}
	}

	if ctx.Err() == nil {
		app.Logger.Info("event stream closed by the bridge")
	}
}
