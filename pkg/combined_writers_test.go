package pkg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestCombinedWriter_Write(t *testing.T) {
	stdout := bytes.NewBufferString("previous line\n")
	file := &bytes.Buffer{}

	cw := NewCombinedWriter(stdout, file)
	require.Len(t, cw.Writers, 2)

	for _, line := range []string{"level up\n", "streak 3\n"} {
		n, err := cw.Write([]byte(line))
		require.NoError(t, err)
		assert.Equal(t, 2*len(line), n)
	}

	assert.Equal(t, "previous line\nlevel up\nstreak 3\n", stdout.String())
	assert.Equal(t, "level up\nstreak 3\n", file.String())
}

func TestCombinedWriter_Write_Errors(t *testing.T) {
	errDiskFull := errors.New("disk full")
	errClosed := errors.New("closed")
	buf := &bytes.Buffer{}

	cw := NewCombinedWriter(failingWriter{errDiskFull}, buf, failingWriter{errClosed})
	n, err := cw.Write([]byte("pushup"))

	// the healthy writer still gets everything
	assert.Equal(t, len("pushup"), n)
	assert.Equal(t, "pushup", buf.String())
	assert.ErrorIs(t, err, errDiskFull)
	assert.ErrorIs(t, err, errClosed)
}
