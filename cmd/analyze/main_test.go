package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spacesedan/tweetsense/internal/searchlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStdinWithExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent_searches.csv")
	in := strings.NewReader("I love sunny days\n\nThis is a table\n")
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), &out, in, nil, "en", path, false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Positive\t"))
	assert.True(t, strings.HasPrefix(lines[1], "Neutral\t"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := searchlog.ParseExport(f)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "I love sunny days", records[0].InputText)
	assert.Equal(t, "This is a table", records[1].InputText)
}

func TestRunArgsRejectsLanguage(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), &out, strings.NewReader(""), []string{"hello"}, "xx", "", false)
	assert.Error(t, err)
}
