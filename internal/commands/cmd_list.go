package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/tandemlist/tandem/internal/tandem"
)

type ListCmd struct {
	flags *Flags
	app   *tandem.App
}

// NewListCmd creates the list command group.
func NewListCmd(flags *Flags, app *tandem.App) *ListCmd {
	return &ListCmd{flags: flags, app: app}
}

// Register adds the list command to the application.
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "list",
		Usage: "Manage task lists",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "Show every list you own or collaborate on",
				UsageText: "tandem list ls",
				Action:    cmd.runLs,
			},
			{
				Name:      "create",
				Usage:     "Create a new list",
				UsageText: "tandem list create <title>",
				Action:    cmd.runCreate,
			},
			{
				Name:      "rename",
				Usage:     "Rename a list",
				UsageText: "tandem list rename <list-id> <title>",
				Action:    cmd.runRename,
			},
			{
				Name:      "rm",
				Usage:     "Delete a list, its tasks, and its history",
				UsageText: "tandem list rm <list-id>",
				Action:    cmd.runRm,
			},
		},
	})

	return app
}

func (cmd *ListCmd) runLs(ctx context.Context, c *cli.Command) error {
	sess := cmd.flags.Session()

	view, err := cmd.app.Lists.Watch(ctx, sess)
	if err != nil {
		return fmt.Errorf("watch lists: %w", err)
	}
	defer view.Cancel()

	lists := <-view.C
	if len(lists) == 0 {
		fmt.Fprintf(os.Stderr, "No lists found\n")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tOWNER\tSHARED WITH")
	for _, l := range lists {
		owner := "you"
		if l.OwnerID != sess.User.ID {
			owner = l.OwnerID
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", l.ID, l.Title, owner, len(l.SharedWith))
	}
	return w.Flush()
}

func (cmd *ListCmd) runCreate(ctx context.Context, c *cli.Command) error {
	title := c.Args().First()

	l, err := cmd.app.Lists.Create(ctx, title, cmd.flags.Session())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Created list %s (%s)\n", l.Title, l.ID)
	return nil
}

func (cmd *ListCmd) runRename(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: tandem list rename <list-id> <title>")
	}
	return cmd.app.Lists.Rename(ctx, c.Args().Get(0), c.Args().Get(1), cmd.flags.Session())
}

func (cmd *ListCmd) runRm(ctx context.Context, c *cli.Command) error {
	listID := c.Args().First()
	if listID == "" {
		return fmt.Errorf("usage: tandem list rm <list-id>")
	}

	l, err := cmd.app.Lists.Get(ctx, listID)
	if err != nil {
		return err
	}
	if err := cmd.app.Lists.Delete(ctx, l, cmd.flags.Session()); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Deleted list %s\n", l.Title)
	return nil
}
