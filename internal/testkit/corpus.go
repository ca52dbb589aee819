package testkit

import (
	"fmt"
	"os"

	"golang.org/x/tools/txtar"
)

// ParseArchive converts a txtar archive into fixture files. The archive
// comment is ignored.
func ParseArchive(data []byte) []File {
	arc := txtar.Parse(data)
	files := make([]File, 0, len(arc.Files))
	for _, f := range arc.Files {
		files = append(files, File{Name: f.Name, Source: string(f.Data)})
	}
	return files
}

// LoadArchive reads a txtar corpus file from disk.
func LoadArchive(path string) ([]File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return ParseArchive(data), nil
}
