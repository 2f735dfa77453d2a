// Command contourkit reconstructs polygon-with-holes shapes from a DXF
// file's LINE/ARC/CIRCLE/LWPOLYLINE entities and prints a summary of the
// resulting shapes and any diagnostics raised along the way.
//
// Build:
//
//	go build -o contourkit ./cmd/contourkit
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/cadkit/contourkit/internal/config"
	"github.com/cadkit/contourkit/internal/dxfimport"
	"github.com/cadkit/contourkit/internal/pipeline"
)

var (
	dxfPath = flag.String("dxf", "", "path to the DXF file to reconstruct")
	verbose = flag.Bool("verbose", false, "print each shape's outer vertex count and hole count")
)

func main() {
	flag.Parse()
	if *dxfPath == "" {
		log.Fatal("missing required -dxf flag")
	}

	prims, err := dxfimport.Load(*dxfPath)
	if err != nil {
		log.Fatalf("unable to read %q: %v", *dxfPath, err)
	}

	doc, diag, err := pipeline.Run(config.DefaultConfig(), prims)
	if err != nil {
		log.Fatalf("reconstruction failed: %v", err)
	}

	fmt.Printf("%s: %.2f x %.2f, %d shape(s)\n", *dxfPath, doc.Width, doc.Height, len(doc.Shapes))
	if *verbose {
		for i, s := range doc.Shapes {
			fmt.Printf("  shape %d: outer=%d vertices, holes=%d\n", i, len(s.Outer), len(s.Holes))
		}
	}
	for _, entry := range diag.Entries {
		fmt.Printf("  [%s] %s\n", entry.Kind, entry.Message)
	}
}
