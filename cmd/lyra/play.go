package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lyra-music/lyra/internal/catalog"
	"github.com/lyra-music/lyra/internal/errmsg"
	"github.com/lyra-music/lyra/internal/playback"
)

func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	var next, end bool

	cmd := &cobra.Command{
		Use:   "play <query>",
		Short: "Search for a song and play it",
		Long: `Search the catalog and play the best match, queueing the remaining
results. With --next or --end the match is added to the queue instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			found, err := app.catalog.SearchSongs(query)
			if err != nil {
				return fmt.Errorf("%s", errmsg.Format(errmsg.OpSearchSongs, err))
			}
			if len(found) == 0 {
				return fmt.Errorf("no songs found for %q", query)
			}

			switch {
			case next:
				app.player.EnqueueNext(found[0])
				fmt.Printf("Playing next: %s - %s\n", found[0].Artist, found[0].Title)
				return nil
			case end:
				app.player.EnqueueEnd(found[0])
				fmt.Printf("Added to queue: %s - %s\n", found[0].Artist, found[0].Title)
				return nil
			}

			app.player.PlayAll(found)
			return app.runPlayer(ctx)
		},
	}

	cmd.Flags().BoolVar(&next, "next", false, "queue the match right after the current track")
	cmd.Flags().BoolVar(&end, "end", false, "append the match to the end of the queue")
	return cmd
}

// runPlayer drives the interactive transport until the user quits or
// the queue finishes.
func (app *Application) runPlayer(ctx context.Context) error {
	sub := app.player.Subscribe()

	fmt.Println("Controls: [space] pause  [n] next  [b] previous  [s] shuffle  [r] repeat  [q] quit")

	enableRawMode()
	defer disableRawMode()

	keys := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			if _, err := os.Stdin.Read(buf); err != nil {
				return
			}
			keys <- buf[0]
		}
	}()

	renderStatus(app.player.State())

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-sub.Done:
			fmt.Println()
			return nil
		case e := <-sub.TrackChanged:
			if e.Current != nil {
				fmt.Printf("\r\033[KNow playing: %s - %s\n", e.Current.Artist, e.Current.Title)
			}
		case e := <-sub.StateChanged:
			renderStatus(e.State)
			if !e.State.Playing && !e.State.Buffering && e.State.CurrentTrack == nil {
				fmt.Println()
				return nil
			}
		case e := <-sub.Error:
			fmt.Printf("\r\033[K%s\n", errmsg.FormatWith(errmsg.OpPlaybackStart, e.TrackID, e.Err))
		case key := <-keys:
			switch key {
			case ' ':
				app.player.Toggle()
			case 'n':
				app.player.SkipNext()
			case 'b':
				app.player.SkipPrev()
			case 's':
				on := app.player.ToggleShuffle()
				fmt.Printf("\r\033[KShuffle: %v\n", on)
			case 'r':
				mode := app.player.CycleRepeat()
				fmt.Printf("\r\033[KRepeat: %s\n", mode)
			case '+':
				app.player.SetVolume(app.player.State().Volume + 0.1)
			case '-':
				app.player.SetVolume(app.player.State().Volume - 0.1)
			case 'q', 3: // q or Ctrl+C
				fmt.Println()
				return nil
			}
		}
	}
}

func renderStatus(st playback.State) {
	if st.CurrentTrack == nil {
		return
	}
	icon := "▶"
	switch {
	case st.Buffering:
		icon = "…"
	case !st.Playing:
		icon = "⏸"
	}
	fmt.Printf("\r\033[K%s %s - %s  %s / %s",
		icon,
		st.CurrentTrack.Artist,
		st.CurrentTrack.Title,
		formatMillis(st.PositionMs),
		formatMillis(st.DurationMs))
}

func formatMillis(ms int64) string {
	if ms <= 0 {
		return "--:--"
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// enableRawMode puts the terminal in unbuffered, no-echo mode so single
// keypresses reach the control loop.
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon", "min", "1")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

func trackSummary(t catalog.Track) string {
	return fmt.Sprintf("%s - %s", t.Artist, t.Title)
}
