package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tandemlist/tandem/internal/core/feed"
	"github.com/tandemlist/tandem/internal/tandem"
)

type FeedCmd struct {
	flags *Flags
	app   *tandem.App

	// flags
	minePage   int
	othersPage int
}

// NewFeedCmd creates the feed command.
func NewFeedCmd(flags *Flags, app *tandem.App) *FeedCmd {
	return &FeedCmd{flags: flags, app: app}
}

// Register adds the feed command to the application.
func (cmd *FeedCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "feed",
		Usage:     "Show a list's activity feed",
		UsageText: "tandem feed <list-id> [--mine-page N] [--others-page N]",
		Description: `Shows recent activity split into things you did and things others did.
The two sections page independently.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "mine-page",
				Usage:       "page of your own activity",
				Value:       1,
				Destination: &cmd.minePage,
			},
			&cli.IntFlag{
				Name:        "others-page",
				Usage:       "page of everyone else's activity",
				Value:       1,
				Destination: &cmd.othersPage,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *FeedCmd) run(ctx context.Context, c *cli.Command) error {
	listID := c.Args().First()
	if listID == "" {
		return fmt.Errorf("usage: tandem feed <list-id>")
	}

	f, err := cmd.app.Activity.Feed(ctx, listID, cmd.flags.Session(), cmd.flags.Config.Feed.Keep)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	size := cmd.flags.Config.Feed.PageSize
	now := time.Now()

	printSection := func(header string, entries []feed.Entry, page int) {
		p := feed.Paginate(entries, page, size)
		fmt.Fprintf(out, "%s (page %d/%d)\n", header, p.Number, p.Total)
		if len(p.Items) == 0 {
			fmt.Fprintln(out, "  nothing yet")
		}
		for _, e := range p.Items {
			fmt.Fprintf(out, "  %s  (%s)\n", e.Display, feed.FormatTime(e.Timestamp, now))
		}
	}

	printSection("Your activity", f.Mine, cmd.minePage)
	fmt.Fprintln(out)
	printSection("Everyone else", f.Others, cmd.othersPage)
	return nil
}
