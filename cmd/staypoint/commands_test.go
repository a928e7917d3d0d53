package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trajectory-mining-go/internal/spatial"
)

const sampleCSV = `date_time,lat,lon,alt,date
2024-01-01 08:00:00,35.0,135.0,10,2024-01-01
2024-01-01 08:12:00,35.0001,135.0001,12,2024-01-01
2024-01-01 08:25:00,36.0,136.0,14,2024-01-01
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"staypoint"}, args...))
	return out.String(), err
}

func readRecords(t *testing.T, out string) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestDetectCommand(t *testing.T) {
	out, err := run(t, "detect", "--input", writeSample(t), "--distance", "50", "--time", "10")
	require.NoError(t, err)

	records := readRecords(t, out)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"arrive", "leave", "lat", "lon", "altitude", "weekday", "date"}, records[0])

	row := records[1]
	assert.Equal(t, "2024-01-01 08:00:00", row[0])
	assert.Equal(t, "2024-01-01 08:12:00", row[1])
	lat, err := strconv.ParseFloat(row[2], 64)
	require.NoError(t, err)
	assert.InDelta(t, 35.00005, lat, 1e-9)
	assert.Equal(t, "11", row[4])
	assert.Equal(t, "0", row[5])
	assert.Equal(t, "2024-01-01", row[6])
}

func TestDetectCommandStoresRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	out, err := run(t, "detect", "--input", writeSample(t), "--distance", "50", "--time", "10", "--db", dbPath)
	require.NoError(t, err)
	assert.Len(t, readRecords(t, out), 2)
	assert.FileExists(t, dbPath)
}

func TestDetectCommandNothingFound(t *testing.T) {
	out, err := run(t, "detect", "--input", writeSample(t), "--distance", "1", "--time", "10")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGridCommand(t *testing.T) {
	out, err := run(t, "grid", "--input", writeSample(t), "--n", "2", "--lower-left", "35,135", "--upper-right", "37,137")
	require.NoError(t, err)

	records := readRecords(t, out)
	require.Len(t, records, 5)
	counts := make([]string, 0, 4)
	for _, r := range records[1:] {
		counts = append(counts, r[7])
	}
	// (36,136) sits on the shared corner of all four cells
	assert.Equal(t, []string{"3", "1", "1", "1"}, counts)
}

func TestTimesCommand(t *testing.T) {
	out, err := run(t, "times", "--start", "180000", "--end", "19:00", "--step", "30m")
	require.NoError(t, err)
	assert.Equal(t, "18:00:00\n18:30:00\n19:00:00\n", out)
}

func TestParseLatLon(t *testing.T) {
	p, err := parseLatLon("35.5, 139.25")
	require.NoError(t, err)
	assert.Equal(t, spatial.Point{Lat: 35.5, Lon: 139.25}, p)

	for _, bad := range []string{"35.5", "x,1", "1,y"} {
		_, err := parseLatLon(bad)
		assert.Error(t, err, bad)
	}
}

func TestNormalizeClock(t *testing.T) {
	v, err := normalizeClock("073000")
	require.NoError(t, err)
	assert.Equal(t, "07:30:00", v)

	v, err = normalizeClock("07:30")
	require.NoError(t, err)
	assert.Equal(t, "07:30", v)

	_, err = normalizeClock("990000")
	assert.Error(t, err)
}
