package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amr-9/npubhunter/pkg/generator"
)

type rawPattern string

func (p rawPattern) Value() string { return string(p) }

func sampleEvent() generator.MatchEvent {
	return generator.MatchEvent{
		Candidate: generator.Candidate{
			PublicID:  "npub1acme0000",
			SecretID:  "nsec1secret00",
			PublicHex: "deadbeef",
		},
		Pattern:  rawPattern("acme"),
		Attempts: 1000,
		Elapsed:  2 * time.Second,
	}
}

func TestFormatText(t *testing.T) {
	ev := sampleEvent()
	want := "✨ Found vanity address!\n" +
		"Pattern: acme\n" +
		"npub: npub1acme0000\n" +
		"nsec: nsec1secret00\n" +
		"Hex pubkey: deadbeef\n" +
		"Attempts: 1000\n" +
		"Time: 2.00s\n" +
		"Speed: 500 keys/sec\n" +
		"---"
	assert.Equal(t, want, FormatText(&ev))
}

func TestFormatTextZeroElapsed(t *testing.T) {
	ev := sampleEvent()
	ev.Elapsed = 0
	ev.Pattern = nil

	text := FormatText(&ev)
	assert.Contains(t, text, "Pattern: \n")
	assert.Contains(t, text, "Time: 0.00s\n")
	assert.Contains(t, text, "Speed: 0 keys/sec\n")
}

func TestCSVRecord(t *testing.T) {
	ev := sampleEvent()
	assert.Equal(t,
		[]string{"acme", "npub1acme0000", "nsec1secret00", "deadbeef", "1000", "2.00"},
		CSVRecord(&ev))
}

func TestAppendCSVWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.csv")
	ev := sampleEvent()

	require.NoError(t, AppendCSV(path, &ev))
	require.NoError(t, AppendCSV(path, &ev))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, CSVRecord(&ev), rows[1])
	assert.Equal(t, CSVRecord(&ev), rows[2])
}

func TestAppendCSVExistingFileGetsNoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.csv")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	ev := sampleEvent()
	require.NoError(t, AppendCSV(path, &ev))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "acme,npub1acme0000,nsec1secret00,deadbeef,1000,2.00\n", string(data))
}

func TestAppendText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.txt")
	ev := sampleEvent()

	require.NoError(t, AppendText(path, &ev))
	require.NoError(t, AppendText(path, &ev))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	block := FormatText(&ev) + "\n"
	assert.Equal(t, block+block, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSinkConsole(t *testing.T) {
	var console bytes.Buffer
	sink := NewSink(SinkConfig{Console: &console})

	require.NoError(t, sink.Consume(sampleEvent()))
	require.NoError(t, sink.Consume(sampleEvent()))

	assert.Equal(t, 2, sink.Handled())
	assert.Equal(t, 2, strings.Count(console.String(), "✨ Found vanity address!"))
	assert.True(t, strings.HasPrefix(console.String(), "\n✨"))
}

func TestSinkQuietPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "found.csv")
	sink := NewSink(SinkConfig{Path: path, CSV: true})

	require.NoError(t, sink.Consume(sampleEvent()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "pattern,npub,nsec,hex_pubkey,attempts,time_seconds\n"))
}

func TestSinkFallbackOnWriteFailure(t *testing.T) {
	var fallback bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing", "found.txt")
	sink := NewSink(SinkConfig{Path: path, Fallback: &fallback})

	err := sink.Consume(sampleEvent())
	require.Error(t, err)

	ev := sampleEvent()
	assert.Contains(t, fallback.String(), FormatText(&ev))
	assert.Equal(t, 1, sink.Handled())
}
