package playlist

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover walks root and builds the set of playlists it contains (C1).
//
// Rules, in order:
//   - audio files directly in root form a playlist named "Default" (only
//     if at least one such file exists);
//   - each immediate subdirectory of root is scanned (non-recursively) for
//     audio files and becomes a playlist named after the directory, if
//     non-empty;
//   - each playlist file (.m3u/.m3u8/.xspf) directly in root is parsed and
//     becomes a playlist named after the file's stem, if non-empty.
//
// Entries are processed in sorted root order, so a name collision between a
// subdirectory and a playlist file (e.g. "Jazz/" and "Jazz.m3u") resolves to
// whichever was processed last. A playlist file that fails to parse is
// skipped rather than aborting the whole scan.
func Discover(root string) (Set, error) {
	set := Set{}

	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return Set{}, err
	}

	defaultTracks, err := scanFolder(root)
	if err != nil {
		return Set{}, err
	}
	if len(defaultTracks) > 0 {
		set.Add(&Playlist{Name: "Default", Tracks: defaultTracks, SourcePath: root})
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return Set{}, err
	}
	names := make([]string, len(entries))
	byName := make(map[string]os.DirEntry, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
		byName[e.Name()] = e
	}
	sort.Strings(names)

	for _, name := range names {
		entry := byName[name]

		if entry.IsDir() {
			dir := filepath.Join(root, name)
			tracks, err := scanFolder(dir)
			if err != nil {
				continue
			}
			if len(tracks) > 0 {
				set.Add(&Playlist{Name: name, Tracks: tracks, SourcePath: dir})
			}
			continue
		}

		if isPlaylistFile(name) {
			file := filepath.Join(root, name)
			tracks, err := ParseFile(file)
			if err != nil {
				continue
			}
			if len(tracks) > 0 {
				stem := strings.TrimSuffix(name, filepath.Ext(name))
				set.Add(&Playlist{Name: stem, Tracks: tracks, SourcePath: file})
			}
		}
	}

	return set, nil
}

// scanFolder returns the sorted audio files directly inside dir, without
// recursing into subdirectories.
func scanFolder(dir string) ([]Track, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isAudioFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	tracks := make([]Track, 0, len(names))
	for _, name := range names {
		abs, err := filepath.Abs(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		tracks = append(tracks, Track{Path: abs})
	}
	return tracks, nil
}
