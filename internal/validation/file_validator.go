package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Import file formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var (
	// ErrUnsupportedFile is returned for files that are neither .csv nor .xlsx
	ErrUnsupportedFile = errors.New("unsupported import file")
	// ErrTempFile is returned for spreadsheet lock files such as ~$trades.xlsx
	ErrTempFile = errors.New("temporary spreadsheet file")
	// ErrFileTooLarge is returned when a file exceeds the configured size limit
	ErrFileTooLarge = errors.New("import file too large")
)

// FileValidator checks import files and output locations for the CLI
type FileValidator struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewFileValidator creates a file validator. maxBytes <= 0 disables the size check.
func NewFileValidator(logger *slog.Logger, maxBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:   logger.With(slog.String("component", "file_validator")),
		maxBytes: maxBytes,
	}
}

// FormatOf returns the import format implied by the file extension
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return nil, fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	return info, nil
}

// ValidateImportFile checks that path is a readable .csv or .xlsx file within
// the size limit and returns its format.
func (v *FileValidator) ValidateImportFile(path string) (string, error) {
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Skipping temporary spreadsheet file",
			slog.String("file", path))
		return "", fmt.Errorf("%w: %s", ErrTempFile, path)
	}

	format, err := FormatOf(path)
	if err != nil {
		v.logger.Error("File is not an import file",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return "", err
	}

	info, err := v.ValidateFile(path)
	if err != nil {
		return "", err
	}

	if v.maxBytes > 0 && info.Size() > v.maxBytes {
		v.logger.Error("Import file exceeds size limit",
			slog.String("file", path),
			slog.Int64("size", info.Size()),
			slog.Int64("limit", v.maxBytes))
		return "", fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, info.Size(), v.maxBytes)
	}

	v.logger.Debug("Import file validated",
		slog.String("file", path),
		slog.String("format", format),
		slog.Int64("size", info.Size()))
	return format, nil
}

// ImportFiles lists the .csv and .xlsx files directly inside dir, sorted by
// name. Temporary spreadsheet files are skipped.
func (v *FileValidator) ImportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		v.logger.Error("Failed to read input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if _, err := FormatOf(name); err != nil {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	if len(files) == 0 {
		v.logger.Warn("No import files found",
			slog.String("directory", dir))
	}
	return files, nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
