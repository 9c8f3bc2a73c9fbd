package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"parceltrack/internal/core/logger"
	"parceltrack/internal/features/tracking/domain"

	"go.uber.org/zap"
)

// FileRepository persists packages as one pretty-printed JSON file per
// package, named <shipper>_<trackingCode>.json inside the storage directory.
// The flat-file layout keeps the data greppable and trivially backupable.
type FileRepository struct {
	storagePath string
	logger      *zap.Logger
}

// NewFileRepository creates a FileRepository rooted at storagePath, creating
// the directory when missing.
func NewFileRepository(storagePath string) (*FileRepository, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", storagePath, err)
	}
	return &FileRepository{
		storagePath: storagePath,
		logger:      logger.Named("storage"),
	}, nil
}

func (r *FileRepository) filename(shipper, trackingCode string) string {
	return filepath.Join(r.storagePath, shipper+"_"+trackingCode+".json")
}

// Save writes the package snapshot, replacing any previous one.
func (r *FileRepository) Save(result *domain.TrackingResult) error {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding package %s/%s: %w", result.Shipper, result.TrackingCode, err)
	}

	filename := r.filename(result.Shipper, result.TrackingCode)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

// Load reads one package snapshot. A missing file returns nil without error;
// a corrupt or incomplete file is treated the same so one bad record never
// blocks the package list.
func (r *FileRepository) Load(shipper, trackingCode string) (*domain.TrackingResult, error) {
	filename := r.filename(shipper, trackingCode)

	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	var result domain.TrackingResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Warn("Skipping unreadable package file", zap.String("file", filename), zap.Error(err))
		return nil, nil
	}
	if result.TrackingCode == "" || result.Shipper == "" {
		r.logger.Warn("Skipping incomplete package file", zap.String("file", filename))
		return nil, nil
	}

	if result.Country == "" {
		result.Country = "NL"
	}
	if result.Metadata == nil {
		result.Metadata = domain.NewPackageMetadata()
	}
	result.SortEventsDesc()

	return &result, nil
}

// GetAll loads every stored package. Files that fail to load are skipped.
func (r *FileRepository) GetAll() ([]*domain.TrackingResult, error) {
	files, err := filepath.Glob(filepath.Join(r.storagePath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing storage directory %s: %w", r.storagePath, err)
	}

	results := []*domain.TrackingResult{}
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".json")
		parts := strings.SplitN(name, "_", 2)
		if len(parts) != 2 {
			continue
		}

		result, err := r.Load(parts[0], parts[1])
		if err != nil {
			return nil, err
		}
		if result != nil {
			results = append(results, result)
		}
	}
	return results, nil
}

// Delete removes one package snapshot, reporting whether a file was removed.
func (r *FileRepository) Delete(shipper, trackingCode string) (bool, error) {
	filename := r.filename(shipper, trackingCode)

	err := os.Remove(filename)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("removing %s: %w", filename, err)
	}
	return true, nil
}
