package playlist

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ParseFile dispatches to the parser matching path's extension.
func ParseFile(path string) ([]Track, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u", ".m3u8":
		return parseM3U(path)
	case ".xspf":
		return parseXSPF(path)
	default:
		return nil, fmt.Errorf("playlist: unsupported playlist file extension %q", filepath.Ext(path))
	}
}

var audioExtensions = map[string]bool{
	".mp3": true, ".flac": true, ".wav": true, ".aac": true, ".ogg": true,
	".opus": true, ".m4a": true, ".wma": true, ".aiff": true, ".alac": true,
	".mp2": true, ".ape": true, ".wv": true, ".tta": true, ".ac3": true,
	".dts": true,
}

var playlistExtensions = map[string]bool{
	".m3u": true, ".m3u8": true, ".xspf": true,
}

func isAudioFile(name string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(name))]
}

func isPlaylistFile(name string) bool {
	return playlistExtensions[strings.ToLower(filepath.Ext(name))]
}
