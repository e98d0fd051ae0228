package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/tandemlist/tandem/internal/tandem"
)

type TaskCmd struct {
	flags *Flags
	app   *tandem.App

	// flags
	description string
}

// NewTaskCmd creates the task command group.
func NewTaskCmd(flags *Flags, app *tandem.App) *TaskCmd {
	return &TaskCmd{flags: flags, app: app}
}

// Register adds the task command to the application.
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	descFlag := &cli.StringFlag{
		Name:        "description",
		Aliases:     []string{"d"},
		Usage:       "task description",
		Destination: &cmd.description,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "task",
		Usage: "Manage tasks within a list",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "Show the tasks in a list",
				UsageText: "tandem task ls <list-id>",
				Action:    cmd.runLs,
			},
			{
				Name:      "add",
				Usage:     "Add a task to a list",
				UsageText: "tandem task add <list-id> <title> [-d description]",
				Flags:     []cli.Flag{descFlag},
				Action:    cmd.runAdd,
			},
			{
				Name:      "advance",
				Usage:     "Move a task to its next status",
				UsageText: "tandem task advance <task-id>",
				Action:    cmd.runAdvance,
			},
			{
				Name:      "edit",
				Usage:     "Change a task's title and description",
				UsageText: "tandem task edit <task-id> <title> [-d description]",
				Flags:     []cli.Flag{descFlag},
				Action:    cmd.runEdit,
			},
			{
				Name:      "rm",
				Usage:     "Delete a task",
				UsageText: "tandem task rm <task-id>",
				Action:    cmd.runRm,
			},
			{
				Name:  "subtask",
				Usage: "Manage a task's subtasks",
				Commands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Add a subtask",
						UsageText: "tandem task subtask add <task-id> <title>",
						Action:    cmd.runSubtaskAdd,
					},
					{
						Name:      "toggle",
						Usage:     "Toggle a subtask's completion",
						UsageText: "tandem task subtask toggle <task-id> <subtask-id>",
						Action:    cmd.runSubtaskToggle,
					},
					{
						Name:      "rm",
						Usage:     "Remove a subtask",
						UsageText: "tandem task subtask rm <task-id> <subtask-id>",
						Action:    cmd.runSubtaskRm,
					},
				},
			},
		},
	})

	return app
}

func (cmd *TaskCmd) runLs(ctx context.Context, c *cli.Command) error {
	listID := c.Args().First()
	if listID == "" {
		return fmt.Errorf("usage: tandem task ls <list-id>")
	}

	view, err := cmd.app.Tasks.Watch(ctx, listID)
	if err != nil {
		return fmt.Errorf("watch tasks: %w", err)
	}
	defer view.Cancel()

	tasks := <-view.C
	if len(tasks) == 0 {
		fmt.Fprintf(os.Stderr, "No tasks found\n")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tSUBTASKS")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\n",
			t.ID, t.Title, t.Status, t.CompletedSubtasks(), len(t.Subtasks))
	}
	return w.Flush()
}

func (cmd *TaskCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: tandem task add <list-id> <title>")
	}

	t, err := cmd.app.Tasks.Create(ctx, c.Args().Get(0), c.Args().Get(1), cmd.description, cmd.flags.Session())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Added task %s (%s)\n", t.Title, t.ID)
	return nil
}

func (cmd *TaskCmd) runAdvance(ctx context.Context, c *cli.Command) error {
	taskID := c.Args().First()
	if taskID == "" {
		return fmt.Errorf("usage: tandem task advance <task-id>")
	}

	status, err := cmd.app.Tasks.Advance(ctx, taskID, cmd.flags.Session())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Task is now %s\n", status)
	return nil
}

func (cmd *TaskCmd) runEdit(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: tandem task edit <task-id> <title>")
	}
	return cmd.app.Tasks.Edit(ctx, c.Args().Get(0), c.Args().Get(1), cmd.description, cmd.flags.Session())
}

func (cmd *TaskCmd) runRm(ctx context.Context, c *cli.Command) error {
	taskID := c.Args().First()
	if taskID == "" {
		return fmt.Errorf("usage: tandem task rm <task-id>")
	}
	return cmd.app.Tasks.Delete(ctx, taskID, cmd.flags.Session())
}

func (cmd *TaskCmd) runSubtaskAdd(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: tandem task subtask add <task-id> <title>")
	}
	return cmd.app.Tasks.AddSubtask(ctx, c.Args().Get(0), c.Args().Get(1), cmd.flags.Session())
}

func (cmd *TaskCmd) runSubtaskToggle(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: tandem task subtask toggle <task-id> <subtask-id>")
	}
	return cmd.app.Tasks.ToggleSubtask(ctx, c.Args().Get(0), c.Args().Get(1))
}

func (cmd *TaskCmd) runSubtaskRm(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: tandem task subtask rm <task-id> <subtask-id>")
	}
	return cmd.app.Tasks.DeleteSubtask(ctx, c.Args().Get(0), c.Args().Get(1), cmd.flags.Session())
}
