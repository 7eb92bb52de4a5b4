package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newNotesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Read or replace the notes sheet",
	}
	cmd.AddCommand(newNotesShowCmd(a), newNotesSetCmd(a))
	return cmd
}

func newNotesShowCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the notes sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			text, err := a.client().GetNotes(ctx)
			if err != nil {
				return err
			}
			if a.rich && !raw {
				if rendered := renderMarkdown(terminalWidth(a.out), text); rendered != "" {
					text = rendered
				}
			}
			fmt.Fprintln(a.out, strings.TrimRight(text, "\n"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the text without markdown rendering")
	return cmd
}

func newNotesSetCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "set [text]",
		Short: "Replace the notes sheet with text, a file (--file) or stdin (--file -)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case len(args) == 1 && file != "":
				return fmt.Errorf("pass either text or --file, not both")
			case len(args) == 1:
				text = args[0]
			case file == "-":
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(data)
			default:
				return fmt.Errorf("nothing to save: pass text or --file")
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.client().SaveNotes(ctx, text); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "notes saved")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the notes from this file, or - for stdin")
	return cmd
}
