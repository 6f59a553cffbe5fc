package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lyra-music/lyra/internal/catalog"
	"github.com/lyra-music/lyra/internal/errmsg"
)

func (app *Application) createSearchCommand() *cobra.Command {
	var artists, albums bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog for songs, artists or albums",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if err := app.state.AddRecentSearch(cmd.Context(), query); err != nil {
				app.log.Warn(errmsg.Format(errmsg.OpSearchSave, err))
			}

			switch {
			case artists:
				found, err := app.catalog.SearchArtists(query)
				if err != nil {
					return fmt.Errorf("%s", errmsg.Format(errmsg.OpSearchArtists, err))
				}
				renderArtists(found)
			case albums:
				found, err := app.catalog.SearchAlbums(query)
				if err != nil {
					return fmt.Errorf("%s", errmsg.Format(errmsg.OpSearchAlbums, err))
				}
				renderAlbums(found)
			default:
				found, err := app.catalog.SearchSongs(query)
				if err != nil {
					return fmt.Errorf("%s", errmsg.Format(errmsg.OpSearchSongs, err))
				}
				app.renderTracks(found)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&artists, "artists", false, "search artists instead of songs")
	cmd.Flags().BoolVar(&albums, "albums", false, "search albums instead of songs")
	return cmd
}

func (app *Application) createHomeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show trending songs, artists and albums",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			home, err := app.catalog.GetHome()
			if err != nil {
				return fmt.Errorf("%s", errmsg.Format(errmsg.OpHomeLoad, err))
			}

			if len(home.Songs) > 0 {
				fmt.Println("Trending songs")
				app.renderTracks(home.Songs)
			}
			if len(home.Artists) > 0 {
				fmt.Println("\nPopular artists")
				renderArtists(home.Artists)
			}
			if len(home.Albums) > 0 {
				fmt.Println("\nTop albums")
				renderAlbums(home.Albums)
			}
			return nil
		},
	}
}

func (app *Application) renderTracks(tracks []catalog.Track) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "ID", "Title", "Artist", "Album", "Length"})

	for _, tr := range tracks {
		marker := ""
		if app.downloads.IsDownloaded(tr.ID) {
			marker = "↓"
		}
		if fav, _ := app.state.IsFavorite(tr.ID); fav {
			marker += "♥"
		}
		t.AppendRow(table.Row{marker, tr.ID, tr.Title, tr.Artist, tr.Album, formatDuration(tr.Duration)})
	}
	t.Render()
}

func renderArtists(artists []catalog.Artist) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name"})
	for _, a := range artists {
		t.AppendRow(table.Row{a.ID, a.Name})
	}
	t.Render()
}

func renderAlbums(albums []catalog.Album) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Artist", "Year"})
	for _, a := range albums {
		year := ""
		if a.Year > 0 {
			year = fmt.Sprintf("%d", a.Year)
		}
		t.AppendRow(table.Row{a.ID, a.Title, a.Artist, year})
	}
	t.Render()
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "--:--"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
