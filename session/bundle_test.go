package session

import (
	"testing"

	"github.com/meysamhadeli/promptcat/file_collector/models"
	"github.com/stretchr/testify/assert"
)

func TestBundle_SingleFile(t *testing.T) {
	files := []models.CollectedFile{{Path: "/x/f.txt", Content: "hi"}}
	assert.Equal(t, "-- begin: /x/f.txt\nhi\n-- end: /x/f.txt\n", Bundle(files))
}

func TestBundle_JoinsWithBlankLine(t *testing.T) {
	files := []models.CollectedFile{
		{Path: "/x/a.txt", Content: "a"},
		{Path: "/x/b.txt", Content: "b\n"},
	}
	want := "-- begin: /x/a.txt\na\n-- end: /x/a.txt\n" +
		"\n" +
		"-- begin: /x/b.txt\nb\n\n-- end: /x/b.txt\n"
	assert.Equal(t, want, Bundle(files))
}

func TestBundle_Empty(t *testing.T) {
	assert.Equal(t, "", Bundle(nil))
}
