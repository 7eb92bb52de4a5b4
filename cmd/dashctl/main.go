// Package main implements dashctl, a terminal client for the dashboard service.
package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dashboard/internal/client"
	"dashboard/internal/util"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	serverURL string
	timeout   time.Duration
	verbose   bool
	out       io.Writer
	rich      bool
}

func (a *app) client() *client.Client {
	return client.New(a.serverURL, nil)
}

func (a *app) controller() *client.Controller {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if a.verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return client.NewController(a.client(), log)
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, rich: isTerminal(out)}

	root := &cobra.Command{
		Use:           "dashctl",
		Short:         "dashctl - manage dashboard todos, notes and bookmarks",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.serverURL, "server", util.EnvOrDefault("DASHBOARD_URL", client.DefaultBaseURL), "Dashboard service URL")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "Request timeout")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log request outcomes")

	root.AddCommand(newTodoCmd(a), newNotesCmd(a), newBookmarkCmd(a))
	return root
}
