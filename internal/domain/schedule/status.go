package schedule

import (
	"sort"
	"time"

	"taktivent/internal/domain/events"
	"taktivent/internal/domain/songs"
)

type Phase string

const (
	Upcoming Phase = "upcoming"
	Live     Phase = "live"
	Ended    Phase = "ended"
)

type EventStatus struct {
	Phase            Phase       `json:"phase"`
	CountdownSeconds int64       `json:"countdown_seconds"`
	NowPlaying       *songs.Song `json:"now_playing"`
	NextSong         *songs.Song `json:"next_song"`
	PreviousSong     *songs.Song `json:"previous_song"`
	EvaluatedAt      time.Time   `json:"evaluated_at"`
}

// DeriveEventStatus classifies the event at now and finds the song being
// played. A song occupies [start_at, start_at+length); when no song is
// playing, NextSong is the earliest song that has not started yet.
func DeriveEventStatus(e events.Event, programme []songs.Song, now time.Time) EventStatus {
	status := EventStatus{Phase: phaseAt(e.StartAt, e.EndAt, now), EvaluatedAt: now}

	if d := e.StartAt.Sub(now); d > 0 {
		status.CountdownSeconds = int64(d / time.Second)
	}

	sorted := make([]songs.Song, len(programme))
	copy(sorted, programme)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartAt.Before(sorted[j].StartAt) })

	for i := range sorted {
		s := &sorted[i]
		if !now.Before(s.StartAt) && now.Before(s.EndAt()) {
			status.NowPlaying = s
			if i > 0 {
				status.PreviousSong = &sorted[i-1]
			}
			if i+1 < len(sorted) {
				status.NextSong = &sorted[i+1]
			}
			return status
		}
		if now.Before(s.StartAt) {
			status.NextSong = s
			if i > 0 {
				status.PreviousSong = &sorted[i-1]
			}
			return status
		}
	}

	if len(sorted) > 0 {
		status.PreviousSong = &sorted[len(sorted)-1]
	}
	return status
}

func phaseAt(start, end, now time.Time) Phase {
	switch {
	case now.Before(start):
		return Upcoming
	case !now.Before(end):
		return Ended
	default:
		return Live
	}
}

type SongStatus struct {
	Phase            Phase `json:"phase"`
	CountdownSeconds int64 `json:"countdown_seconds"`
	Progress         int   `json:"progress"`
}

// DeriveSongStatus reports how far into its slot a song is, 0 to 100.
func DeriveSongStatus(s songs.Song, now time.Time) SongStatus {
	end := s.EndAt()
	st := SongStatus{Phase: phaseAt(s.StartAt, end, now)}

	switch st.Phase {
	case Upcoming:
		st.CountdownSeconds = int64(s.StartAt.Sub(now) / time.Second)
	case Live:
		elapsed := now.Sub(s.StartAt)
		total := end.Sub(s.StartAt)
		if total > 0 {
			st.Progress = int(elapsed * 100 / total)
		}
	case Ended:
		st.Progress = 100
	}
	return st
}
