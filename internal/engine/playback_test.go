package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haze-fm/haze/internal/config"
	"github.com/haze-fm/haze/internal/playlist"
)

func threeTrackPlaylist() *playlist.Playlist {
	return &playlist.Playlist{
		Name: "Default",
		Tracks: []playlist.Track{
			{Path: "a.flac"},
			{Path: "b.flac"},
			{Path: "c.flac"},
		},
	}
}

func newTestEngine(pl *playlist.Playlist) *Engine {
	var set playlist.Set
	set.Add(pl)
	return &Engine{
		cfg:       config.Default(),
		playlists: set,
		active:    pl,
		state:     Stopped,
	}
}

func TestCurrentIndexLockedWithoutShuffleFollowsCursor(t *testing.T) {
	e := newTestEngine(threeTrackPlaylist())
	e.cursor = 1
	require.Equal(t, 1, e.currentIndexLocked())
}

func TestAdvanceLockedWrapsWithoutShuffle(t *testing.T) {
	e := newTestEngine(threeTrackPlaylist())
	e.cursor = 2
	e.advanceLocked()
	require.Equal(t, 0, e.cursor)
}

func TestRewindLockedWrapsWithoutShuffle(t *testing.T) {
	e := newTestEngine(threeTrackPlaylist())
	e.cursor = 0
	e.rewindLocked()
	require.Equal(t, 2, e.cursor)
}

func TestRebuildDeckLockedBuildsDeckWhenShuffleOn(t *testing.T) {
	e := newTestEngine(threeTrackPlaylist())
	e.shuffleOn = true
	e.rebuildDeckLocked()
	require.NotNil(t, e.deck)
	require.Equal(t, 3, e.deck.Len())
}

func TestRebuildDeckLockedClearsDeckWhenShuffleOff(t *testing.T) {
	e := newTestEngine(threeTrackPlaylist())
	e.shuffleOn = true
	e.rebuildDeckLocked()
	require.NotNil(t, e.deck)

	e.shuffleOn = false
	e.rebuildDeckLocked()
	require.Nil(t, e.deck)
}

func TestRebuildDeckLockedHandlesEmptyPlaylist(t *testing.T) {
	e := newTestEngine(&playlist.Playlist{Name: "Empty"})
	e.shuffleOn = true
	e.rebuildDeckLocked()
	require.Nil(t, e.deck)
}

func TestAdvanceLockedUsesDeckWhenShuffleOn(t *testing.T) {
	e := newTestEngine(threeTrackPlaylist())
	e.shuffleOn = true
	e.rebuildDeckLocked()

	for i := 0; i < 3; i++ {
		idx := e.currentIndexLocked()
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, len(e.active.Tracks))
		e.advanceLocked()
	}
}

func TestToggleShuffleFlipsFlagAndRebuildsDeck(t *testing.T) {
	e := newTestEngine(threeTrackPlaylist())
	require.False(t, e.shuffleOn)

	e.ToggleShuffle()
	require.True(t, e.Shuffle())
	require.NotNil(t, e.deck)

	e.ToggleShuffle()
	require.False(t, e.Shuffle())
	require.Nil(t, e.deck)
}

func TestSwitchToQueuesPendingNameWhenNotImmediate(t *testing.T) {
	e := newTestEngine(threeTrackPlaylist())
	other := &playlist.Playlist{Name: "Other", Tracks: []playlist.Track{{Path: "x.flac"}}}
	e.playlists.Add(other)
	e.cfg.Transitions.Default = "finish_track"

	e.SwitchTo("Other", false)

	require.Equal(t, "Other", e.PendingPlaylistName())
	require.Equal(t, "Default", e.ActivePlaylistName())
}

func TestSwitchToUnknownNameIsNoop(t *testing.T) {
	e := newTestEngine(threeTrackPlaylist())
	e.SwitchTo("NoSuchPlaylist", false)
	require.Equal(t, "", e.PendingPlaylistName())
	require.Equal(t, "Default", e.ActivePlaylistName())
}

func TestSwitchToReplacesEarlierPending(t *testing.T) {
	e := newTestEngine(threeTrackPlaylist())
	e.playlists.Add(&playlist.Playlist{Name: "Other", Tracks: []playlist.Track{{Path: "x.flac"}}})
	e.playlists.Add(&playlist.Playlist{Name: "Third", Tracks: []playlist.Track{{Path: "y.flac"}}})
	e.cfg.Transitions.Default = "finish_track"

	e.SwitchTo("Other", false)
	require.Equal(t, "Other", e.PendingPlaylistName())

	e.SwitchTo("Third", false)
	require.Equal(t, "Third", e.PendingPlaylistName())
}

func TestStateStringValues(t *testing.T) {
	require.Equal(t, "stopped", Stopped.String())
	require.Equal(t, "playing", Playing.String())
	require.Equal(t, "paused", Paused.String())
}
