package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/slices"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/contract"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/pipeline"
)

// DefaultNAValues are the cell values read as null
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

const DefaultChunkSize = 1000

// Options control how a source file is split into rows and columns
type Options struct {
	Delimiter       string
	FixedWidth      bool
	Widths          []int
	Names           []string
	SkipLeading     int
	SkipRows        []int
	NAValues        []string
	ConvertToString bool
	ChunkSize       int
}

// OptionsFor builds reader options from a FileDefinition
func OptionsFor(general contract.General, def *contract.FileDefinition, chunkSize int) Options {
	opts := Options{
		Delimiter:       def.ValueDelimiter,
		FixedWidth:      def.IsFixedWidth(),
		SkipLeading:     def.SkipRows.Leading,
		SkipRows:        def.SkipRows.Rows,
		NAValues:        append(slices.Clone(DefaultNAValues), general.EmptyFieldValues...),
		ConvertToString: def.ConvertToString(),
		ChunkSize:       chunkSize,
	}
	if len(def.Headers.Columns) > 0 {
		opts.Names = def.Headers.Names()
	}
	if opts.FixedWidth {
		opts.Widths = def.Headers.ColumnWidths()
	}
	return opts
}

// ChunkReader reads a delimited or fixed width source in batches of at most
// ChunkSize rows
type ChunkReader struct {
	opts    Options
	next    func() ([]string, error)
	columns []string
	line    int
	done    bool
}

// NewChunkReader prepares r for reading. The header row is consumed here
// unless the options name the columns.
func NewChunkReader(r io.Reader, opts Options) (*ChunkReader, error) {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Delimiter == "" {
		opts.Delimiter = ","
	}
	if opts.NAValues == nil {
		opts.NAValues = DefaultNAValues
	}
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	cr := &ChunkReader{opts: opts}
	switch {
	case opts.FixedWidth:
		if len(opts.Widths) == 0 || len(opts.Widths) != len(opts.Names) {
			return nil, errors.New("fixed width files require a width for every column")
		}
		cr.next = fixedWidthRecords(br, opts.Widths)
	case utf8.RuneCountInString(opts.Delimiter) == 1:
		csvr := csv.NewReader(br)
		csvr.Comma, _ = utf8.DecodeRuneInString(opts.Delimiter)
		csvr.FieldsPerRecord = -1
		csvr.LazyQuotes = true
		cr.next = csvr.Read
	default:
		cr.next = splitRecords(br, opts.Delimiter)
	}

	if len(opts.Names) > 0 {
		cr.columns = slices.Clone(opts.Names)
		return cr, nil
	}
	header, err := cr.record()
	if errors.Is(err, io.EOF) {
		cr.done = true
		return cr, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cr.columns = header
	return cr, nil
}

// Columns returns the column names of the source
func (cr *ChunkReader) Columns() []string {
	return cr.columns
}

// record returns the next record that is not skipped
func (cr *ChunkReader) record() ([]string, error) {
	for {
		rec, err := cr.next()
		if err != nil {
			return nil, err
		}
		line := cr.line
		cr.line++
		if line < cr.opts.SkipLeading || slices.Contains(cr.opts.SkipRows, line) {
			continue
		}
		return rec, nil
	}
}

// Next returns the next batch, or io.EOF once the source is exhausted
func (cr *ChunkReader) Next() (*pipeline.Batch, error) {
	if cr.done {
		return nil, io.EOF
	}
	b := pipeline.NewBatch(slices.Clone(cr.columns), make([]pipeline.Row, 0, cr.opts.ChunkSize))
	for b.Len() < cr.opts.ChunkSize {
		rec, err := cr.record()
		if errors.Is(err, io.EOF) {
			cr.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", cr.line, err)
		}
		b.Rows = append(b.Rows, cr.row(rec))
	}
	if b.Len() == 0 {
		return nil, io.EOF
	}
	return b, nil
}

func (cr *ChunkReader) row(rec []string) pipeline.Row {
	r := make(pipeline.Row, len(cr.columns))
	for i, c := range cr.columns {
		if i >= len(rec) {
			r[c] = nil
			continue
		}
		r[c] = cr.cell(rec[i])
	}
	return r
}

func (cr *ChunkReader) cell(v string) any {
	if slices.Contains(cr.opts.NAValues, v) {
		return nil
	}
	if cr.opts.ConvertToString {
		return v
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

// ReadAll reads the whole source into a single batch
func ReadAll(r io.Reader, opts Options) (*pipeline.Batch, error) {
	opts.ChunkSize = int(^uint(0) >> 1)
	cr, err := NewChunkReader(r, opts)
	if err != nil {
		return nil, err
	}
	b, err := cr.Next()
	if errors.Is(err, io.EOF) {
		return pipeline.NewBatch(cr.Columns(), nil), nil
	}
	return b, err
}

func fixedWidthRecords(br *bufio.Reader, widths []int) func() ([]string, error) {
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	return func() ([]string, error) {
		for scanner.Scan() {
			line := []rune(strings.TrimRight(scanner.Text(), "\r"))
			if strings.TrimSpace(string(line)) == "" {
				continue
			}
			rec := make([]string, len(widths))
			pos := 0
			for i, w := range widths {
				end := min(pos+w, len(line))
				if pos < end {
					rec[i] = strings.TrimSpace(string(line[pos:end]))
				}
				pos += w
			}
			return rec, nil
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
}

func splitRecords(br *bufio.Reader, delimiter string) func() ([]string, error) {
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	return func() ([]string, error) {
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if line == "" {
				continue
			}
			return strings.Split(line, delimiter), nil
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
}
