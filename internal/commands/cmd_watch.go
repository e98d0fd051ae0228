package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tandemlist/tandem/internal/core/feed"
	"github.com/tandemlist/tandem/internal/tandem"
)

type WatchCmd struct {
	flags *Flags
	app   *tandem.App
}

// NewWatchCmd creates the watch command.
func NewWatchCmd(flags *Flags, app *tandem.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application.
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Tail live updates until interrupted",
		UsageText: "tandem watch [list-id]",
		Description: `Without arguments, follows the set of lists you can see. With a
list id, follows that list's tasks and activity as collaborators change them.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if listID := c.Args().First(); listID != "" {
		return cmd.watchList(ctx, c, listID)
	}
	return cmd.watchLists(ctx, c)
}

func (cmd *WatchCmd) watchLists(ctx context.Context, c *cli.Command) error {
	view, err := cmd.app.Lists.Watch(ctx, cmd.flags.Session())
	if err != nil {
		return fmt.Errorf("watch lists: %w", err)
	}
	defer view.Cancel()

	out := c.Root().Writer
	var sel tandem.Selection

	for {
		select {
		case <-ctx.Done():
			return nil
		case lists, ok := <-view.C:
			if !ok {
				return nil
			}
			sel = sel.Apply(lists)
			fmt.Fprintf(out, "-- %d list(s) --\n", len(lists))
			for _, l := range lists {
				marker := "  "
				if l.ID == sel.ID {
					marker = "* "
				}
				fmt.Fprintf(out, "%s%s  %s\n", marker, l.ID, l.Title)
			}
		}
	}
}

func (cmd *WatchCmd) watchList(ctx context.Context, c *cli.Command, listID string) error {
	tasks, err := cmd.app.Tasks.Watch(ctx, listID)
	if err != nil {
		return fmt.Errorf("watch tasks: %w", err)
	}
	defer tasks.Cancel()

	acts, err := cmd.app.Activity.Watch(ctx, listID)
	if err != nil {
		return fmt.Errorf("watch activity: %w", err)
	}
	defer acts.Cancel()

	out := c.Root().Writer
	sess := cmd.flags.Session()
	viewer := feed.Viewer{Name: sess.ViewerName(), Email: sess.User.Email}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ts, ok := <-tasks.C:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "-- %d task(s) --\n", len(ts))
			for _, t := range ts {
				fmt.Fprintf(out, "  [%s] %s (%d/%d)\n", t.Status, t.Title, t.CompletedSubtasks(), len(t.Subtasks))
			}
		case as, ok := <-acts.C:
			if !ok {
				return nil
			}
			if keep := cmd.flags.Config.Feed.Keep; keep > 0 && len(as) > keep {
				as = as[:keep]
			}
			f := feed.Assemble(as, viewer, feed.TextAttributor{})
			now := time.Now()
			fmt.Fprintf(out, "-- activity --\n")
			for _, e := range f.Mine {
				fmt.Fprintf(out, "  you: %s (%s)\n", e.Display, feed.FormatTime(e.Timestamp, now))
			}
			for _, e := range f.Others {
				fmt.Fprintf(out, "  them: %s (%s)\n", e.Display, feed.FormatTime(e.Timestamp, now))
			}
		}
	}
}
