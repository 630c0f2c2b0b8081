package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, stdin string, args ...string) (map[string]any, error) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("YOUTUBE_ACCESS_TOKEN", "")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	var body map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	return body, nil
}

func TestAnalyzeCommand_Stdin(t *testing.T) {
	body, err := runCommand(t, "This is amazing, I love it!\n\nThis is terrible, I hate it\n", "analyze", "--file", "-")

	require.NoError(t, err)
	assert.Equal(t, float64(2), body["Total Comments"])
	assert.Equal(t, map[string]any{"positive": float64(1), "negative": float64(1)}, body["Sentiment Summary"])
}

func TestAnalyzeCommand_FileWithZeroCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comments.txt")
	require.NoError(t, os.WriteFile(path, []byte("The video is 10 minutes long\n"), 0o600))

	body, err := runCommand(t, "", "analyze", "-f", path, "--include-zero", "-n", "1")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"positive": float64(0), "neutral": float64(1), "negative": float64(0)}, body["Sentiment Summary"])
	assert.Equal(t, "The video is 10 minutes long", body["Comment Summary"])
}

func TestAnalyzeCommand_Markdown(t *testing.T) {
	body, err := runCommand(t, "I <hate> this video\n**Great** video, [thanks](https://example.com)!\n", "analyze", "-f", "-", "--markdown")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"positive": float64(1), "negative": float64(1)}, body["Sentiment Summary"])
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	_, err := runCommand(t, "", "analyze")
	assert.Error(t, err)

	_, err = runCommand(t, "", "analyze", "dQw4w9WgXcQ")
	assert.ErrorContains(t, err, "YOUTUBE_API_KEY")

	_, err = runCommand(t, "", "analyze", "https://vimeo.com/1")
	assert.Error(t, err)

	_, err = runCommand(t, "hello\n", "analyze", "-f", "-", "-n", "0")
	assert.Error(t, err)
}
