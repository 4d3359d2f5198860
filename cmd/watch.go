package cmd

import (
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/authsession/internal/cli"
	"github.com/giantswarm/authsession/internal/events"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow session changes made by other processes",
	Long: `Watch the token storage and print every session event until interrupted.

When another process logs in or out the headers are rebuilt and the new
header version is printed. Requires the file storage driver.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var mu sync.Mutex
	for _, channel := range events.SessionChannels {
		sub := s.Bus.Subscribe(channel, func(e events.Event) {
			// The rebuild triggered by this event runs asynchronously.
			go func() {
				set, err := s.Headers.Headers(ctx)
				if err != nil {
					return
				}
				_, authorized := set.Authorization()

				mu.Lock()
				defer mu.Unlock()
				printf(cmd, "%s  %-16s %s (headers v%d, authorized=%t)\n",
					e.PublishedAt.Format(time.RFC3339), e.Channel, s.Messages.Render(e), set.Version(), authorized)
			}()
		})
		defer sub.Cancel()
	}

	if err := s.Watch(); err != nil {
		return err
	}

	printf(cmd, "%s\n", cli.FormatSuccess("Watching for session changes (Ctrl+C to stop)"))
	<-ctx.Done()
	return nil
}
