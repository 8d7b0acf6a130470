package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/processor"
)

var unsafeFileID = regexp.MustCompile(`[^A-Za-z0-9\-]`)

// OutputManager writes converted resources below a base directory, one file
// per resource grouped by group key
type OutputManager struct {
	baseDir  string
	logFile  *os.File
	mu       sync.Mutex
	counters map[string]map[string]int // group key -> resource type and file id -> count
	log      zerolog.Logger
}

// NewOutputManager creates baseDir and its logs directory. The returned
// manager logs to console and to logs/app.log.
func NewOutputManager(baseDir string, console io.Writer, level zerolog.Level) (*OutputManager, error) {
	if err := os.MkdirAll(baseDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	logsDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logsDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := os.Create(filepath.Join(logsDir, "app.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	consoleWriter := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = console
	})
	multiWriter := zerolog.MultiLevelWriter(consoleWriter, logFile)

	combinedLogger := zerolog.New(multiWriter).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()

	return &OutputManager{
		baseDir:  baseDir,
		logFile:  logFile,
		counters: make(map[string]map[string]int),
		log:      combinedLogger,
	}, nil
}

// GetLogger returns the configured logger
func (om *OutputManager) GetLogger() zerolog.Logger {
	return om.log
}

// GetBaseDir returns the base output directory
func (om *OutputManager) GetBaseDir() string {
	return om.baseDir
}

// Close closes the log file
func (om *OutputManager) Close() error {
	return om.logFile.Close()
}

// WriteResult writes every resource of res to
// <base>/<groupKey>/<groupKey>-<resourceType>-<sourceFileId>-<NNNNN>.json
func (om *OutputManager) WriteResult(res processor.Result) error {
	if len(res.Resources) == 0 {
		return nil
	}
	groupDir := filepath.Join(om.baseDir, res.GroupByKey)
	if err := os.MkdirAll(groupDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create group directory: %w", err)
	}

	for _, resource := range res.Resources {
		var data map[string]any
		dec := json.NewDecoder(strings.NewReader(resource))
		dec.UseNumber()
		if err := dec.Decode(&data); err != nil {
			return fmt.Errorf("failed to decode resource of group %s: %w", res.GroupByKey, err)
		}

		resourceType, _ := data["resourceType"].(string)
		fileID := safeFileID(data["meta"])
		name := fmt.Sprintf("%s-%s-%s-%05d.json", res.GroupByKey, resourceType, fileID, om.next(res.GroupByKey, resourceType+"-"+fileID))
		outputPath := filepath.Join(groupDir, name)

		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "    ")
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("failed to encode data to JSON: %w", err)
		}
		if err := os.WriteFile(outputPath, bytes.TrimRight(buf.Bytes(), "\n"), 0o644); err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}

		om.log.Debug().
			Str("file", outputPath).
			Str("resourceType", resourceType).
			Msg("Wrote resource")
	}
	return nil
}

func (om *OutputManager) next(groupKey, key string) int {
	om.mu.Lock()
	defer om.mu.Unlock()
	counts, ok := om.counters[groupKey]
	if !ok {
		counts = make(map[string]int)
		om.counters[groupKey] = counts
	}
	counts[key]++
	return counts[key]
}

// safeFileID returns the source-file-id of a resource meta without its row
// number and .csv suffix, with unsafe characters replaced by "_"
func safeFileID(meta any) string {
	m, _ := meta.(map[string]any)
	extensions, _ := m["extension"].([]any)
	for _, e := range extensions {
		ext, _ := e.(map[string]any)
		url, _ := ext["url"].(string)
		if !strings.Contains(url, "source-file-id") {
			continue
		}
		value, _ := ext["valueString"].(string)
		value, _, _ = strings.Cut(value, ":")
		value, _, _ = strings.Cut(value, ".csv")
		return unsafeFileID.ReplaceAllString(value, "_")
	}
	return ""
}

// NDJSONWriter writes transform-only results, one JSON row per line
type NDJSONWriter struct {
	file *os.File
	log  zerolog.Logger
}

// NewNDJSONWriter creates <base>/<source file base name>.ndjson
func (om *OutputManager) NewNDJSONWriter(sourceFile string) (*NDJSONWriter, error) {
	base := strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))
	outputPath := filepath.Join(om.baseDir, base+".ndjson")
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	om.log.Debug().Str("file", outputPath).Msg("Writing transformed rows")
	return &NDJSONWriter{file: file, log: om.log}, nil
}

// WriteResult appends the transformed row of res
func (w *NDJSONWriter) WriteResult(res processor.Result) error {
	for _, row := range res.Resources {
		if _, err := io.WriteString(w.file, row+"\n"); err != nil {
			return fmt.Errorf("failed to write row %d: %w", res.RowNum, err)
		}
	}
	return nil
}

// Close closes the underlying file
func (w *NDJSONWriter) Close() error {
	return w.file.Close()
}
