package schedule

import (
	"testing"
	"time"

	"taktivent/internal/domain/events"
	"taktivent/internal/domain/songs"
)

var concertStart = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

func concert() (events.Event, []songs.Song) {
	e := events.Event{ID: 1, StartAt: concertStart, EndAt: concertStart.Add(2 * time.Hour)}
	// deliberately out of order
	programme := []songs.Song{
		{ID: 12, Name: "Symphony No. 5", StartAt: concertStart.Add(40 * time.Minute), LengthInMinute: 35},
		{ID: 10, Name: "Overture", StartAt: concertStart, LengthInMinute: 10},
		{ID: 11, Name: "Concerto", StartAt: concertStart.Add(15 * time.Minute), LengthInMinute: 20},
	}
	return e, programme
}

func songID(s *songs.Song) int64 {
	if s == nil {
		return 0
	}
	return s.ID
}

func TestDeriveEventStatus(t *testing.T) {
	e, programme := concert()

	tests := []struct {
		name                      string
		now                       time.Time
		phase                     Phase
		playing, next, previous   int64
		countdown                 int64
	}{
		{name: "before doors", now: concertStart.Add(-90 * time.Second), phase: Upcoming, next: 10, countdown: 90},
		{name: "first song starts", now: concertStart, phase: Live, playing: 10, next: 11},
		{name: "interval between songs", now: concertStart.Add(10 * time.Minute), phase: Live, next: 11, previous: 10},
		{name: "middle song", now: concertStart.Add(20 * time.Minute), phase: Live, playing: 11, next: 12, previous: 10},
		{name: "last song", now: concertStart.Add(74 * time.Minute), phase: Live, playing: 12, previous: 11},
		{name: "programme over", now: concertStart.Add(90 * time.Minute), phase: Live, previous: 12},
		{name: "event over", now: concertStart.Add(2 * time.Hour), phase: Ended, previous: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveEventStatus(e, programme, tt.now)

			if got.Phase != tt.phase {
				t.Errorf("Phase = %s, want %s", got.Phase, tt.phase)
			}
			if songID(got.NowPlaying) != tt.playing {
				t.Errorf("NowPlaying = %d, want %d", songID(got.NowPlaying), tt.playing)
			}
			if songID(got.NextSong) != tt.next {
				t.Errorf("NextSong = %d, want %d", songID(got.NextSong), tt.next)
			}
			if songID(got.PreviousSong) != tt.previous {
				t.Errorf("PreviousSong = %d, want %d", songID(got.PreviousSong), tt.previous)
			}
			if got.CountdownSeconds != tt.countdown {
				t.Errorf("CountdownSeconds = %d, want %d", got.CountdownSeconds, tt.countdown)
			}
		})
	}
}

func TestDeriveEventStatusNoSongs(t *testing.T) {
	e, _ := concert()
	got := DeriveEventStatus(e, nil, concertStart.Add(time.Minute))
	if got.Phase != Live || got.NowPlaying != nil || got.NextSong != nil || got.PreviousSong != nil {
		t.Errorf("unexpected status %+v", got)
	}
}

func TestDeriveEventStatusDoesNotReorderInput(t *testing.T) {
	e, programme := concert()
	DeriveEventStatus(e, programme, concertStart)
	if programme[0].ID != 12 {
		t.Error("input slice was reordered")
	}
}

func TestDeriveSongStatus(t *testing.T) {
	s := songs.Song{StartAt: concertStart, LengthInMinute: 10}

	tests := []struct {
		now       time.Time
		phase     Phase
		progress  int
		countdown int64
	}{
		{now: concertStart.Add(-time.Minute), phase: Upcoming, countdown: 60},
		{now: concertStart, phase: Live, progress: 0},
		{now: concertStart.Add(5 * time.Minute), phase: Live, progress: 50},
		{now: concertStart.Add(10 * time.Minute), phase: Ended, progress: 100},
	}
	for _, tt := range tests {
		got := DeriveSongStatus(s, tt.now)
		if got.Phase != tt.phase || got.Progress != tt.progress || got.CountdownSeconds != tt.countdown {
			t.Errorf("at %s got %+v, want phase=%s progress=%d countdown=%d",
				tt.now.Format(time.Kitchen), got, tt.phase, tt.progress, tt.countdown)
		}
	}
}
