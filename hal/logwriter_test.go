package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineRecorder struct {
	lines []string
}

func (r *lineRecorder) WriteLineString(s string) { r.lines = append(r.lines, s) }
func (r *lineRecorder) WriteLineBytes(b []byte)  { r.lines = append(r.lines, string(b)) }

func TestLineWriter(t *testing.T) {
	var rec lineRecorder
	w := NewLineWriter(&rec)

	n, err := w.Write([]byte("{\"msg\":\"a\"}\n{\"msg\""))
	require.NoError(t, err)
	assert.Equal(t, 18, n)
	assert.Equal(t, []string{`{"msg":"a"}`}, rec.lines)

	_, err = w.Write([]byte(":\"b\"}\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{`{"msg":"a"}`, `{"msg":"b"}`, ``}, rec.lines)
}

func TestLineWriterNilLogger(t *testing.T) {
	n, err := NewLineWriter(nil).Write([]byte("dropped\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}
