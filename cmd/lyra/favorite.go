package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lyra-music/lyra/internal/errmsg"
)

func (app *Application) createFavoriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <query>",
		Short: "Toggle the best search match in favorites",
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
			fav, err := app.state.ToggleFavorite(track)
			if err != nil {
				return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpFavoriteToggle, trackSummary(track), err))
			}
			if fav {
				fmt.Printf("Added to favorites: %s\n", trackSummary(track))
			} else {
				fmt.Printf("Removed from favorites: %s\n", trackSummary(track))
			}
			return nil
		},
	}
}

func (app *Application) createFavoritesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorite tracks",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			favs, err := app.state.Favorites()
			if err != nil {
				return fmt.Errorf("%s", errmsg.Format(errmsg.OpFavoriteList, err))
			}
			if len(favs) == 0 {
				fmt.Println("No favorites yet.")
				return nil
			}
			app.renderTracks(favs)
			return nil
		},
	}
}
