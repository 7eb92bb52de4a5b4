package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dashboard/internal/client"
	"dashboard/internal/models"
)

type todoFlags struct {
	name        string
	description string
	priority    string
	due         string
	clearDue    bool
}

func (f *todoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Todo name")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Free text description")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "One of "+priorityList())
	cmd.Flags().StringVar(&f.due, "due", "", "Deadline as YYYY-MM-DD or RFC 3339")
}

func priorityList() string {
	names := make([]string, 0, 5)
	for _, p := range models.Priorities() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// fields merges the flags that were set over base.
func (f *todoFlags) fields(cmd *cobra.Command, base client.Fields) (client.Fields, error) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		base.Name = f.name
	}
	if flags.Changed("description") {
		base.Description = f.description
	}
	if flags.Changed("priority") {
		base.Priority = models.Priority(f.priority)
	}
	if f.clearDue {
		base.DoneBy = nil
	}
	if flags.Changed("due") {
		due, ok := models.ParseTime(f.due)
		if !ok {
			return client.Fields{}, fmt.Errorf("invalid --due %q", f.due)
		}
		base.DoneBy = &due
	}
	return base, nil
}

func newTodoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "List and change todos",
	}
	cmd.AddCommand(newTodoListCmd(a), newTodoAddCmd(a), newTodoEditCmd(a), newTodoRemoveCmd(a))
	return cmd
}

func newTodoListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show todos, deadlines first, then by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			ctrl := a.controller()
			if err := ctrl.Refresh(ctx); err != nil {
				return err
			}
			renderTodos(a.out, ctrl.Todos(), terminalWidth(a.out), a.rich, time.Now())
			return nil
		},
	}
}

func newTodoAddCmd(a *app) *cobra.Command {
	var f todoFlags
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a todo",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := client.Fields{}
			if len(args) == 1 {
				base.Name = args[0]
			}
			fields, err := f.fields(cmd, base)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			ctrl := a.controller()
			if err := ctrl.Create(ctx, fields); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "added %q\n", fields.Name)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newTodoEditCmd(a *app) *cobra.Command {
	var f todoFlags
	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Replace a todo; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			ctrl := a.controller()
			if err := ctrl.Refresh(ctx); err != nil {
				return err
			}
			original, ok := ctrl.Find(args[0])
			if !ok {
				return fmt.Errorf("no todo named %q", args[0])
			}

			fields, err := f.fields(cmd, client.Fields{
				Name:        original.Name,
				Description: original.Description,
				Priority:    original.Priority,
				DoneBy:      original.DoneBy,
			})
			if err != nil {
				return err
			}
			if err := ctrl.Update(ctx, original, fields); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "updated %q\n", fields.Name)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.clearDue, "clear-due", false, "Remove the deadline")
	return cmd
}

func newTodoRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Delete todos with exactly this name",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.controller().Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted %q\n", args[0])
			return nil
		},
	}
}
