package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dashboard/internal/client"
	"dashboard/internal/models"
)

func newBookmarkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"bm"},
		Short:   "Manage bookmarks",
	}
	cmd.AddCommand(newBookmarkListCmd(a), newBookmarkAddCmd(a), newBookmarkEditCmd(a), newBookmarkRemoveCmd(a))
	return cmd
}

func newBookmarkListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			bookmarks, err := a.client().ListBookmarks(ctx)
			if err != nil {
				return err
			}
			renderBookmarks(a.out, bookmarks, a.rich)
			return nil
		},
	}
}

type bookmarkFlags struct {
	title       string
	url         string
	description string
	category    string
}

func (f *bookmarkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Bookmark title")
	cmd.Flags().StringVar(&f.url, "url", "", "Bookmark URL")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category")
}

// changed returns a pointer to value when the named flag was set.
func changed(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func newBookmarkAddCmd(a *app) *cobra.Command {
	var f bookmarkFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a bookmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			created, err := a.client().AddBookmark(ctx, client.NewBookmark{
				Title:       f.title,
				URL:         f.url,
				Description: changed(cmd, "description", f.description),
				Category:    changed(cmd, "category", f.category),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "added bookmark %s\n", created.ID)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newBookmarkEditCmd(a *app) *cobra.Command {
	var f bookmarkFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			updated, err := a.client().EditBookmark(ctx, args[0], models.BookmarkPatch{
				Title:       changed(cmd, "title", f.title),
				URL:         changed(cmd, "url", f.url),
				Description: changed(cmd, "description", f.description),
				Category:    changed(cmd, "category", f.category),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "updated bookmark %s\n", updated.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newBookmarkRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.client().RemoveBookmark(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted bookmark %s\n", args[0])
			return nil
		},
	}
}
