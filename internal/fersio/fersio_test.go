package fersio

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fers-sim/fers/internal/geom"
	"github.com/fers-sim/fers/internal/path"
	"github.com/fers-sim/fers/internal/platform"
	"github.com/fers-sim/fers/internal/render"
)

func testWindow() render.Window {
	return render.Window{
		Receiver:  "rx0",
		Index:     3,
		StartTime: 1.5,
		Samples:   []complex128{complex(1, 2), complex(3, 4)},
	}
}

func TestBinarySinkWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	sink := NewBinarySink(&buf, 1e6)

	require.NoError(t, sink.WriteWindow(testWindow()))
	require.NoError(t, sink.WriteWindow(testWindow()))

	var h FileHeader
	require.NoError(t, binary.Read(bytes.NewReader(buf.Bytes()), binary.LittleEndian, &h))
	assert.Equal(t, fileMagic, h.Magic)
	assert.Equal(t, fileVersion, h.Version)
}

func TestCSVSinkWritesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSVSink(&buf, 1e6)

	require.NoError(t, sink.WriteWindow(testWindow()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "window,sample,time,real,imag", lines[0])
}

func TestXMLSinkEncodesWindow(t *testing.T) {
	var buf bytes.Buffer
	sink := NewXMLSink(&buf)

	require.NoError(t, sink.WriteWindow(testWindow()))
	assert.Contains(t, buf.String(), `<window index="3" startTime="1.5">`)
	assert.Contains(t, buf.String(), "<real>1</real>")
}

func TestWriteTrajectoriesSamplesPositions(t *testing.T) {
	p := platform.New("radar0", path.Linear, path.Static)
	p.Position().AddCoord(path.TimedCoord{Time: 0, Pos: geom.V3{X: 0, Y: 0, Z: 0}})
	p.Position().AddCoord(path.TimedCoord{Time: 10, Pos: geom.V3{X: 100, Y: 0, Z: 0}})
	p.Finalize()

	var buf bytes.Buffer
	require.NoError(t, WriteTrajectories(&buf, []*platform.Platform{p}, 0, 10, 5))

	out := buf.String()
	assert.Contains(t, out, `<name>radar0</name>`)
	assert.Contains(t, out, "<coordinates>")
}

func TestWriteTrajectoriesRejectsNonPositiveInterval(t *testing.T) {
	p := platform.New("radar0", path.Static, path.Static)
	p.Finalize()

	var buf bytes.Buffer
	err := WriteTrajectories(&buf, []*platform.Platform{p}, 0, 10, 0)
	assert.Error(t, err)
}
