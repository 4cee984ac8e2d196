package session

import (
	"strings"

	"github.com/meysamhadeli/promptcat/file_collector/models"
)

const (
	beginMarker = "-- begin: "
	endMarker   = "-- end: "
)

// Block renders one file between its begin and end markers.
func Block(file models.CollectedFile) string {
	return beginMarker + file.Path + "\n" + file.Content + "\n" + endMarker + file.Path + "\n"
}

// Bundle concatenates the blocks of files in order, separated by a blank line.
func Bundle(files []models.CollectedFile) string {
	blocks := make([]string, 0, len(files))
	for _, file := range files {
		blocks = append(blocks, Block(file))
	}
	return strings.Join(blocks, "\n")
}
