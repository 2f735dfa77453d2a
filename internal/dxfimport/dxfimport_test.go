package dxfimport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cadkit/contourkit/internal/model"
)

const minimalDXF = `0
SECTION
2
ENTITIES
0
LINE
8
0
10
0.0
20
0.0
30
0.0
11
10.0
21
0.0
31
0.0
0
LINE
8
0
10
10.0
20
0.0
30
0.0
11
10.0
21
10.0
31
0.0
0
CIRCLE
8
0
10
5.0
20
5.0
30
0.0
40
2.0
0
ENDSEC
0
EOF
`

func writeTempDXF(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.dxf")
	if err := os.WriteFile(path, []byte(minimalDXF), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoadConvertsLinesAndCircle(t *testing.T) {
	path := writeTempDXF(t)
	prims, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var lines, circles int
	for _, p := range prims {
		switch p.Kind {
		case model.KindLine:
			lines++
		case model.KindCircle:
			circles++
			if p.Radius != 2.0 {
				t.Errorf("expected radius 2.0, got %v", p.Radius)
			}
		}
	}
	if lines != 2 {
		t.Errorf("expected 2 line primitives, got %d", lines)
	}
	if circles != 1 {
		t.Errorf("expected 1 circle primitive, got %d", circles)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.dxf"))
	if err == nil {
		t.Fatal("expected an error opening a missing DXF file")
	}
}
