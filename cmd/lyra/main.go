package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lyra-music/lyra/internal/config"
	"github.com/lyra-music/lyra/internal/errmsg"
	"github.com/lyra-music/lyra/internal/logger"
)

func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lyra",
		Short:         "Stream, queue and download music from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(app.createSearchCommand())
	rootCmd.AddCommand(app.createHomeCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createPlaylistCommand(ctx))
	rootCmd.AddCommand(app.createArtistCommand(ctx))
	rootCmd.AddCommand(app.createQueueCommand())
	rootCmd.AddCommand(app.createDownloadCommand(ctx))
	rootCmd.AddCommand(app.createDownloadsCommand())
	rootCmd.AddCommand(app.createFavoriteCommand())
	rootCmd.AddCommand(app.createFavoritesCommand())
	rootCmd.AddCommand(app.createRecentCommand())

	return rootCmd
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}

	log := logger.New(logger.FromSettings(cfg.Log.Level, cfg.Log.Format))

	app, err := newApplication(cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.createRootCommand(ctx).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		app.Close()
		os.Exit(1)
	}
}
