package playback

import "testing"

func TestRepeatModeNext(t *testing.T) {
	tests := []struct {
		mode RepeatMode
		want RepeatMode
	}{
		{RepeatNone, RepeatOne},
		{RepeatOne, RepeatAll},
		{RepeatAll, RepeatNone},
	}
	for _, tt := range tests {
		if got := tt.mode.Next(); got != tt.want {
			t.Errorf("%v.Next() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestRepeatModeString(t *testing.T) {
	tests := []struct {
		mode RepeatMode
		want string
	}{
		{RepeatNone, "None"},
		{RepeatOne, "One"},
		{RepeatAll, "All"},
		{RepeatMode(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestStateProgress(t *testing.T) {
	tests := []struct {
		name       string
		positionMs int64
		durationMs int64
		want       float64
	}{
		{"zero duration", 1000, 0, 0},
		{"halfway", 30000, 60000, 0.5},
		{"start", 0, 60000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{PositionMs: tt.positionMs, DurationMs: tt.durationMs}
			if got := st.Progress(); got != tt.want {
				t.Errorf("Progress() = %f, want %f", got, tt.want)
			}
		})
	}
}
