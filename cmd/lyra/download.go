package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lyra-music/lyra/internal/downloads"
	"github.com/lyra-music/lyra/internal/errmsg"
)

func (app *Application) createDownloadCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "download <query>",
		Short: "Download the best search match for offline playback",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			found, err := app.catalog.SearchSongs(query)
			if err != nil {
				return fmt.Errorf("%s", errmsg.Format(errmsg.OpSearchSongs, err))
			}
			if len(found) == 0 {
				return fmt.Errorf("no songs found for %q", query)
			}
			track := found[0]

			done := make(chan error, 1)
			app.downloads.SetCompleteFunc(func(id string, err error) {
				if id == track.ID {
					done <- err
				}
			})
			app.downloads.SetProgressFunc(func(p downloads.Progress) {
				if p.TotalBytes > 0 {
					fmt.Printf("\r%s: %s / %s (%.0f%%)",
						track.Title,
						humanize.IBytes(uint64(p.Received)),
						humanize.IBytes(uint64(p.TotalBytes)),
						p.Fraction()*100)
				} else {
					fmt.Printf("\r%s: %s", track.Title, humanize.IBytes(uint64(p.Received)))
				}
			})

			rec, err := app.downloads.Start(ctx, track)
			if err != nil {
				return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpDownloadStart, trackSummary(track), err))
			}
			if rec != nil {
				fmt.Printf("Already saved %s to %s\n", trackSummary(track), rec.Path)
				return nil
			}

			select {
			case err := <-done:
				fmt.Println()
				if err != nil {
					return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpDownloadStart, trackSummary(track), err))
				}
				path, _ := app.downloads.LocalPath(track.ID)
				fmt.Printf("Saved %s to %s\n", trackSummary(track), path)
				return nil
			case <-ctx.Done():
				app.downloads.Cancel(track.ID)
				<-done
				fmt.Println("\nDownload cancelled.")
				return nil
			}
		},
	}
}

func (app *Application) createDownloadsCommand() *cobra.Command {
	var remove string

	cmd := &cobra.Command{
		Use:   "downloads",
		Short: "List downloaded tracks",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if remove != "" {
				if err := app.downloads.Remove(remove); err != nil {
					return fmt.Errorf("%s", errmsg.Format(errmsg.OpDownloadDelete, err))
				}
				fmt.Printf("Removed download %s\n", remove)
			}

			recs := app.downloads.List()
			if len(recs) == 0 {
				fmt.Println("No downloads yet.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Title", "Artist", "Size", "Downloaded"})
			for _, rec := range recs {
				t.AppendRow(table.Row{
					rec.Track.ID,
					rec.Track.Title,
					rec.Track.Artist,
					humanize.IBytes(uint64(rec.SizeBytes)),
					humanize.Time(rec.CompletedAt),
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&remove, "remove", "", "delete a downloaded track by id")
	return cmd
}
