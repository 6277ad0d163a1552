package playlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestDiscoverMissingRoot(t *testing.T) {
	set, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestDiscoverDefaultAndSubfolders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "intro.mp3"), "x")
	writeFile(t, filepath.Join(root, "Jazz", "a.flac"), "x")
	writeFile(t, filepath.Join(root, "Jazz", "b.flac"), "x")
	writeFile(t, filepath.Join(root, "notes.txt"), "not audio")

	set, err := Discover(root)
	require.NoError(t, err)

	def, ok := set.Get("Default")
	require.True(t, ok)
	require.Len(t, def.Tracks, 1)

	jazz, ok := set.Get("Jazz")
	require.True(t, ok)
	require.Len(t, jazz.Tracks, 2)

	_, ok = set.Get("notes")
	require.False(t, ok)

	// "Default" is discovered before the sorted walk over root's other
	// entries, so it must lead the discovery-order name list.
	require.Equal(t, []string{"Default", "Jazz"}, set.Names())
}

func TestDiscoverPlaylistFileCollidesWithFolderLastWriterWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Jazz", "a.flac"), "x")
	writeFile(t, filepath.Join(root, "Jazz.m3u"), "#EXTM3U\n"+filepath.Join(root, "Jazz", "a.flac")+"\n")

	set, err := Discover(root)
	require.NoError(t, err)

	// "Jazz" (dir, processed first) and "Jazz" (file stem, processed
	// second in sorted order since "Jazz.m3u" > "Jazz") collide; the file
	// parse wins because it is processed later.
	jazz, ok := set.Get("Jazz")
	require.True(t, ok)
	require.Len(t, jazz.Tracks, 1)
	require.Equal(t, filepath.Join(root, "Jazz.m3u"), jazz.SourcePath)
}

func TestParseM3UResetsPendingFieldsPerTrack(t *testing.T) {
	root := t.TempDir()
	trackA := filepath.Join(root, "a.mp3")
	trackB := filepath.Join(root, "b.mp3")
	writeFile(t, trackA, "x")
	writeFile(t, trackB, "x")

	m3u := filepath.Join(root, "playlist.m3u")
	writeFile(t, m3u, "#EXTM3U\n#EXTINF:120,Track A\n"+trackA+"\n"+trackB+"\n")

	tracks, err := parseM3U(m3u)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	require.Equal(t, "Track A", tracks[0].Title)
	require.Equal(t, 120.0, tracks[0].Duration)
	require.Empty(t, tracks[1].Title)
	require.Zero(t, tracks[1].Duration)
}

func TestParseM3USkipsMissingFiles(t *testing.T) {
	root := t.TempDir()
	present := filepath.Join(root, "present.mp3")
	writeFile(t, present, "x")

	m3u := filepath.Join(root, "playlist.m3u")
	writeFile(t, m3u, "#EXTM3U\n"+filepath.Join(root, "missing.mp3")+"\n"+present+"\n")

	tracks, err := parseM3U(m3u)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, present, tracks[0].Path)
}

func TestParseM3UResolvesSymlinkedTrackToItsRealPath(t *testing.T) {
	root := t.TempDir()
	real := filepath.Join(root, "real.mp3")
	writeFile(t, real, "x")

	link := filepath.Join(root, "link.mp3")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported on this filesystem: %v", err)
	}

	m3u := filepath.Join(root, "playlist.m3u")
	writeFile(t, m3u, "#EXTM3U\n"+link+"\n")

	tracks, err := parseM3U(m3u)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, real, tracks[0].Path)
}

func TestParseXSPFBasic(t *testing.T) {
	root := t.TempDir()
	track := filepath.Join(root, "song.flac")
	writeFile(t, track, "x")

	xspf := filepath.Join(root, "list.xspf")
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<playlist version="1" xmlns="http://xspf.org/ns/0/">
  <trackList>
    <track>
      <location>file://` + track + `</location>
      <title>Song</title>
      <duration>61000</duration>
    </track>
  </trackList>
</playlist>`
	writeFile(t, xspf, doc)

	tracks, err := parseXSPF(xspf)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, track, tracks[0].Path)
	require.Equal(t, "Song", tracks[0].Title)
	require.Equal(t, 61.0, tracks[0].Duration)
}
