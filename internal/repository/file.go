package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/UnknownOlympus/pumps/internal/models"
)

// FileSource reads the dataset from a JSON file holding an array of pump objects.
type FileSource struct {
	path string
	log  *slog.Logger
}

// NewFileSource creates a FileSource for the JSON file at path.
func NewFileSource(path string, log *slog.Logger) *FileSource {
	return &FileSource{path: path, log: log}
}

// LoadPumps reads and decodes the whole file. Every record must carry numeric lat and lon.
func (fs *FileSource) LoadPumps(ctx context.Context) ([]models.Pump, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pump dataset: %w", err)
	}

	pumps := []models.Pump{}
	if err = json.Unmarshal(data, &pumps); err != nil {
		return nil, fmt.Errorf("failed to decode pump dataset %s: %w", fs.path, err)
	}

	fs.log.InfoContext(ctx, "Pump dataset loaded from file", "path", fs.path, "count", len(pumps))

	return pumps, nil
}
