package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lyra-music/lyra/internal/errmsg"
)

func (app *Application) createQueueCommand() *cobra.Command {
	var clear bool
	var remove string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the playback queue",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if remove != "" {
				app.player.Remove(remove)
			}
			if clear {
				app.player.ClearUpcoming()
			}

			tracks := app.player.QueueTracks()
			if len(tracks) == 0 {
				fmt.Println("Queue is empty.")
				return nil
			}

			st := app.player.State()
			current := app.player.CurrentIndex()

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"", "#", "Title", "Artist", "Length"})
			for i, tr := range tracks {
				marker := ""
				if i == current {
					marker = "▶"
				}
				t.AppendRow(table.Row{marker, i + 1, tr.Title, tr.Artist, formatDuration(tr.Duration)})
			}
			t.Render()

			fmt.Printf("Shuffle: %v  Repeat: %s\n", st.Shuffle, st.Repeat)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "clear upcoming tracks")
	cmd.Flags().StringVar(&remove, "remove", "", "remove a track id from the queue")
	return cmd
}

func (app *Application) createRecentCommand() *cobra.Command {
	var searches bool
	var clear bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently played tracks, or recent searches with --searches",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if searches {
				if clear {
					if err := app.state.ClearRecentSearches(); err != nil {
						return fmt.Errorf("%s", errmsg.Format(errmsg.OpSearchClear, err))
					}
					fmt.Println("Recent searches cleared.")
					return nil
				}
				queries, err := app.state.RecentSearches()
				if err != nil {
					return err
				}
				if len(queries) == 0 {
					fmt.Println("No recent searches.")
					return nil
				}
				for i, q := range queries {
					fmt.Printf("%2d. %s\n", i+1, q)
				}
				return nil
			}

			ids := app.player.RecentlyPlayed()
			if len(ids) == 0 {
				fmt.Println("Nothing played yet.")
				return nil
			}
			for i, id := range ids {
				fmt.Printf("%2d. %s\n", i+1, id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&searches, "searches", false, "show recent search queries")
	cmd.Flags().BoolVar(&clear, "clear", false, "with --searches, clear the stored queries")
	return cmd
}
