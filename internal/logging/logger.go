package logging

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"smartrockets/internal/ga"
)

// Logger writes one CSV row and one JSON line per generation and optionally
// prints a console summary.
type Logger struct {
	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	console     io.Writer
	history     []Point
	initialized bool
}

// Point is one (generation, success rate) sample
type Point struct {
	Generation  int
	SuccessRate float64
}

// NewLogger creates a new logger. A nil console disables console output.
func NewLogger(csvPath, jsonPath string, console io.Writer) (*Logger, error) {
	l := &Logger{
		csvPath:  csvPath,
		jsonPath: jsonPath,
		console:  console,
	}

	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	return l, nil
}

// Init creates the log files and writes the CSV header
func (l *Logger) Init() error {
	var err error

	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	header := []string{
		"generation", "success_rate", "best_fitness", "mean_fitness",
		"hits", "crashes", "exhausted",
	}
	if err := l.csvWriter.Write(header); err != nil {
		return err
	}
	l.csvWriter.Flush()

	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	l.initialized = true
	return nil
}

// Close closes all log files
func (l *Logger) Close() error {
	var firstErr error
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		firstErr = l.csvWriter.Error()
	}
	if l.csvFile != nil {
		if err := l.csvFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if l.jsonFile != nil {
		if err := l.jsonFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.initialized = false
	return firstErr
}

// Record logs a generation summary
func (l *Logger) Record(_ context.Context, s ga.Summary) error {
	if !l.initialized {
		return nil
	}
	l.history = append(l.history, Point{Generation: s.Generation, SuccessRate: s.SuccessRate})

	row := []string{
		strconv.Itoa(s.Generation),
		strconv.FormatFloat(s.SuccessRate, 'f', 4, 64),
		strconv.FormatFloat(s.BestFitness, 'g', 6, 64),
		strconv.FormatFloat(s.MeanFitness, 'g', 6, 64),
		strconv.Itoa(s.Outcomes.Hits),
		strconv.Itoa(s.Outcomes.Crashes),
		strconv.Itoa(s.Outcomes.Exhausted),
	}
	if err := l.csvWriter.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	l.csvWriter.Flush()
	if err := l.csvWriter.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	jsonLine, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if _, err := l.jsonFile.Write(append(jsonLine, '\n')); err != nil {
		return fmt.Errorf("write json line: %w", err)
	}

	if l.console != nil {
		fmt.Fprintf(l.console, "Gen %4d | Success: %5.1f%% | Best: %8.4f | Mean: %8.4f | Closest: %7.1f | Hits=%d Crashes=%d (obstacle %d) Exhausted=%d\n",
			s.Generation, s.SuccessRate*100, s.BestFitness, s.MeanFitness, s.MinDistance,
			s.Outcomes.Hits, s.Outcomes.Crashes, s.Outcomes.Obstacles, s.Outcomes.Exhausted)
	}
	return nil
}

// History returns the samples recorded so far
func (l *Logger) History() []Point {
	out := make([]Point, len(l.history))
	copy(out, l.history)
	return out
}

// ReadHistory loads (generation, success rate) pairs from a generation CSV.
// Header lines and extra columns are ignored, so both this logger's files and
// bare two-column files are accepted.
func ReadHistory(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var points []Point
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("read %s: line %d has %d fields, want at least 2", path, line, len(rec))
		}
		gen, err := strconv.Atoi(rec[0])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("read %s: line %d: %w", path, line, err)
		}
		rate, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("read %s: line %d: %w", path, line, err)
		}
		points = append(points, Point{Generation: gen, SuccessRate: rate})
	}
	return points, nil
}
