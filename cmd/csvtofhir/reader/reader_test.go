package reader

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/contract"
	"github.com/LinuxForHealth/CsvToFHIR/cmd/csvtofhir/pipeline"
)

func readChunks(t *testing.T, src string, opts Options) []*pipeline.Batch {
	t.Helper()
	cr, err := NewChunkReader(strings.NewReader(src), opts)
	require.NoError(t, err)
	var out []*pipeline.Batch
	for {
		b, err := cr.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, b)
	}
}

func TestChunks(t *testing.T) {
	src := "\ufeffid,name\n1,a\n2,b\n\n3,c\n4,d\n5,e\n"
	chunks := readChunks(t, src, Options{ConvertToString: true, ChunkSize: 2})

	require.Len(t, chunks, 3)
	assert.Equal(t, []int{2, 2, 1}, []int{chunks[0].Len(), chunks[1].Len(), chunks[2].Len()})
	assert.Equal(t, []string{"id", "name"}, chunks[0].Columns)
	assert.Equal(t, pipeline.Row{"id": "5", "name": "e"}, chunks[2].Rows[0])
}

func TestNullTokens(t *testing.T) {
	src := "a,b,c,d\nNA,,empty,x\n"
	b, err := ReadAll(strings.NewReader(src), Options{
		ConvertToString: true,
		NAValues:        append(DefaultNAValues, "empty"),
	})
	require.NoError(t, err)
	assert.Equal(t, pipeline.Row{"a": nil, "b": nil, "c": nil, "d": "x"}, b.Rows[0])
}

func TestSkipRowsAndNames(t *testing.T) {
	src := "garbage\n1|a\nskip me\n2|b\n"
	b, err := ReadAll(strings.NewReader(src), Options{
		Delimiter:       "|",
		Names:           []string{"id", "name"},
		SkipRows:        []int{0, 2},
		ConvertToString: true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, []string{"id", "name"}, b.Columns)
	assert.Equal(t, "2", b.Rows[1]["id"])

	b, err = ReadAll(strings.NewReader("title line\nid,name\n1,a\n"), Options{SkipLeading: 1, ConvertToString: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, b.Columns)
	assert.Equal(t, 1, b.Len())
}

func TestTypedCells(t *testing.T) {
	b, err := ReadAll(strings.NewReader("i,f,s\n42,1.5,x\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), b.Rows[0]["i"])
	assert.Equal(t, 1.5, b.Rows[0]["f"])
	assert.Equal(t, "x", b.Rows[0]["s"])
}

func TestShortRowsArePadded(t *testing.T) {
	b, err := ReadAll(strings.NewReader("a,b,c\n1\n"), Options{ConvertToString: true})
	require.NoError(t, err)
	assert.Equal(t, pipeline.Row{"a": "1", "b": nil, "c": nil}, b.Rows[0])
}

func TestMultiCharacterDelimiter(t *testing.T) {
	b, err := ReadAll(strings.NewReader("a::b\n1::2\n"), Options{Delimiter: "::", ConvertToString: true})
	require.NoError(t, err)
	assert.Equal(t, pipeline.Row{"a": "1", "b": "2"}, b.Rows[0])
}

func TestFixedWidth(t *testing.T) {
	src := "00001 180 80\n00002170  \n"
	b, err := ReadAll(strings.NewReader(src), Options{
		FixedWidth:      true,
		Names:           []string{"mrn", "height", "weight"},
		Widths:          []int{5, 4, 3},
		ConvertToString: true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, pipeline.Row{"mrn": "00001", "height": "180", "weight": "80"}, b.Rows[0])
	assert.Equal(t, pipeline.Row{"mrn": "00002", "height": "170", "weight": nil}, b.Rows[1])

	_, err = NewChunkReader(strings.NewReader(src), Options{FixedWidth: true, Names: []string{"mrn"}})
	assert.Error(t, err)
}

func TestEmptySource(t *testing.T) {
	b, err := ReadAll(strings.NewReader(""), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
}

func TestOptionsFor(t *testing.T) {
	general := contract.General{EmptyFieldValues: []string{"-"}}
	def := &contract.FileDefinition{
		FileType:       contract.FileTypeFixedWidth,
		ValueDelimiter: ",",
		Headers: contract.Headers{Widths: true, Columns: []contract.Header{
			{Name: "mrn", Width: 5}, {Name: "code", Width: 2},
		}},
		SkipRows: contract.SkipRows{Leading: 2},
	}
	opts := OptionsFor(general, def, 10)

	assert.True(t, opts.FixedWidth)
	assert.Equal(t, []string{"mrn", "code"}, opts.Names)
	assert.Equal(t, []int{5, 2}, opts.Widths)
	assert.Equal(t, 2, opts.SkipLeading)
	assert.Contains(t, opts.NAValues, "-")
	assert.Contains(t, opts.NAValues, "NULL")
	assert.True(t, opts.ConvertToString)
	assert.Equal(t, 10, opts.ChunkSize)
}
