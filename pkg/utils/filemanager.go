// =============================================================================
// Invoice to Debit Note Converter - File Management Utilities
// =============================================================================
//
// This module handles the filesystem housekeeping around a run: making sure
// the output and archive directories exist, naming generated workbooks, and
// moving processed inputs into the archive so a re-run does not pick them up
// again.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for one run.
type FileManager struct {
	// OutputDir is where generated workbooks are written.
	OutputDir string

	// InputArchiveDir is where processed inputs are moved. Empty disables
	// archival.
	InputArchiveDir string
}

// NewFileManager creates a FileManager for the given directories.
func NewFileManager(outputDir, inputArchiveDir string) *FileManager {
	return &FileManager{
		OutputDir:       outputDir,
		InputArchiveDir: inputArchiveDir,
	}
}

// EnsureDirectories creates the configured directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.OutputDir}
	if fm.InputArchiveDir != "" {
		dirs = append(dirs, fm.InputArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ArchiveInputFile moves a processed input file into the input archive and
// returns the archived path. If a file with the same name already exists in
// the archive, a timestamp suffix is added.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if fm.InputArchiveDir == "" {
		return "", fmt.Errorf("no input archive directory configured")
	}

	dst := fm.archivePath(filePath)
	if err := moveFile(filePath, dst); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", filepath.Base(filePath), err)
	}
	return dst, nil
}

// archivePath picks a collision-free destination inside the archive.
func (fm *FileManager) archivePath(filePath string) string {
	base := filepath.Base(filePath)
	dst := filepath.Join(fm.InputArchiveDir, base)
	if !FileExists(dst) {
		return dst
	}

	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(fm.InputArchiveDir, fmt.Sprintf("%s_%s%s", name, stamp, ext))
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName renders an output file name from a format string.
// Placeholders:
//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
//   {uuid}      - a random UUID
//   {name}      - base name of the input file, without extension
func GenerateOutputFileName(format, inputPath string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	out := format
	out = strings.ReplaceAll(out, "{timestamp}", time.Now().Format("20060102_150405"))
	out = strings.ReplaceAll(out, "{uuid}", uuid.New().String())
	out = strings.ReplaceAll(out, "{name}", name)
	return out
}

// =============================================================================
// ERROR LOG
// =============================================================================

// ErrorLogEntry is one line of the run's error log.
type ErrorLogEntry struct {
	// Source is the input file the error belongs to.
	Source string

	// Message is the error text.
	Message string
}

// WriteErrorLog writes the run's errors to a timestamped log file in the
// output directory and returns its path.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logPath := filepath.Join(outputDir, fmt.Sprintf("errors_%s.log", time.Now().Format("20060102_150405")))
	f, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "Run at %s, %d error(s)\n\n", time.Now().Format(time.RFC3339), len(entries))
	for i, e := range entries {
		fmt.Fprintf(f, "%d. [%s] %s\n", i+1, e.Source, e.Message)
	}
	return logPath, nil
}

// =============================================================================
// FILE HELPERS
// =============================================================================

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// moveFile renames src to dst, falling back to copy+remove across devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies src to dst, preserving the file mode.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
