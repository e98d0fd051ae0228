package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/tandemlist/tandem/internal/tandem"
)

type ShareCmd struct {
	flags *Flags
	app   *tandem.App
}

// NewShareCmd creates the share command group.
func NewShareCmd(flags *Flags, app *tandem.App) *ShareCmd {
	return &ShareCmd{flags: flags, app: app}
}

// Register adds the share command to the application.
func (cmd *ShareCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "share",
		Usage: "Manage a list's collaborators",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "Show a list's collaborators",
				UsageText: "tandem share ls <list-id>",
				Action:    cmd.runLs,
			},
			{
				Name:      "add",
				Usage:     "Share a list with a collaborator by email",
				UsageText: "tandem share add <list-id> <email>",
				Action:    cmd.runAdd,
			},
			{
				Name:      "rm",
				Usage:     "Remove a collaborator from a list",
				UsageText: "tandem share rm <list-id> <email>",
				Action:    cmd.runRm,
			},
			{
				Name:      "leave",
				Usage:     "Leave a list you were invited to",
				UsageText: "tandem share leave <list-id>",
				Action:    cmd.runLeave,
			},
		},
	})

	return app
}

func (cmd *ShareCmd) runLs(ctx context.Context, c *cli.Command) error {
	listID := c.Args().First()
	if listID == "" {
		return fmt.Errorf("usage: tandem share ls <list-id>")
	}

	l, err := cmd.app.Lists.Get(ctx, listID)
	if err != nil {
		return err
	}

	collabs := cmd.app.Collab.Collaborators(ctx, l)
	if len(collabs) == 0 {
		fmt.Fprintf(os.Stderr, "Not shared with anyone\n")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "EMAIL\tNAME")
	for _, col := range collabs {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", col.Email, col.Name)
	}
	return w.Flush()
}

func (cmd *ShareCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: tandem share add <list-id> <email>")
	}

	l, err := cmd.app.Lists.Get(ctx, c.Args().Get(0))
	if err != nil {
		return err
	}
	if err := cmd.app.Collab.Share(ctx, l, c.Args().Get(1), cmd.flags.Session()); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Shared %s with %s\n", l.Title, c.Args().Get(1))
	return nil
}

func (cmd *ShareCmd) runRm(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: tandem share rm <list-id> <email>")
	}

	l, err := cmd.app.Lists.Get(ctx, c.Args().Get(0))
	if err != nil {
		return err
	}
	return cmd.app.Collab.Remove(ctx, l, c.Args().Get(1), cmd.flags.Session())
}

func (cmd *ShareCmd) runLeave(ctx context.Context, c *cli.Command) error {
	listID := c.Args().First()
	if listID == "" {
		return fmt.Errorf("usage: tandem share leave <list-id>")
	}

	l, err := cmd.app.Lists.Get(ctx, listID)
	if err != nil {
		return err
	}
	return cmd.app.Collab.Leave(ctx, l, cmd.flags.Session())
}
