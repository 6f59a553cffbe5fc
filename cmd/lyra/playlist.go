package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lyra-music/lyra/internal/errmsg"
)

func (app *Application) createPlaylistCommand(ctx context.Context) *cobra.Command {
	var play bool

	cmd := &cobra.Command{
		Use:   "playlist <link>",
		Short: "Show a playlist, or play it with --play",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			pl, err := app.catalog.GetPlaylist(args[0])
			if err != nil {
				return fmt.Errorf("%s", errmsg.Format(errmsg.OpPlaylistLoad, err))
			}

			fmt.Printf("%s (%d songs)\n", pl.Name, pl.SongCount)
			if pl.Description != "" {
				fmt.Println(pl.Description)
			}

			if play {
				if len(pl.Songs) == 0 {
					return fmt.Errorf("playlist %q has no playable songs", pl.Name)
				}
				app.player.PlayAll(pl.Songs)
				return app.runPlayer(ctx)
			}

			app.renderTracks(pl.Songs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&play, "play", false, "queue the playlist and start playing")
	return cmd
}

func (app *Application) createArtistCommand(ctx context.Context) *cobra.Command {
	var play bool

	cmd := &cobra.Command{
		Use:   "artist <id>",
		Short: "Show an artist's songs, or play them with --play",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			songs, err := app.catalog.GetArtistSongs(args[0])
			if err != nil {
				return fmt.Errorf("%s", errmsg.Format(errmsg.OpArtistLoad, err))
			}
			if len(songs) == 0 {
				return fmt.Errorf("no songs found for artist %q", args[0])
			}

			if play {
				app.player.PlayAll(songs)
				return app.runPlayer(ctx)
			}
			app.renderTracks(songs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&play, "play", false, "queue the artist's songs and start playing")
	return cmd
}
