package ingest

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jengzang/trajectory-mining-go/internal/models"
)

// ReadFile loads a single trajectory file, choosing the format by extension
func ReadFile(path string, cols Columns) ([]models.TrajectoryPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var read func(io.Reader) ([]models.TrajectoryPoint, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		read = ReadGPX
	default:
		read = func(r io.Reader) ([]models.TrajectoryPoint, error) {
			return ReadCSV(r, cols)
		}
	}

	points, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// ConcatFiles loads every file and concatenates the rows in path order.
// Rows are not re-sorted across files.
func ConcatFiles(paths []string, cols Columns) ([]models.TrajectoryPoint, error) {
	var all []models.TrajectoryPoint
	for _, path := range paths {
		points, err := ReadFile(path, cols)
		if err != nil {
			return nil, err
		}
		log.Printf("[Ingest] Loaded %d points from %s", len(points), path)
		all = append(all, points...)
	}
	return all, nil
}
