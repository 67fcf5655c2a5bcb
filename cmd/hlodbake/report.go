package main

import (
	"fmt"
	"os"

	"github.com/gekko3d/hlod"
	"github.com/gekko3d/hlod/streaming"
	"github.com/segmentio/encoding/json"
)

type report struct {
	Root        string             `json:"root"`
	Controllers []controllerReport `json:"controllers"`
	Generated   []resourceReport   `json:"generated"`
}

type controllerReport struct {
	ID          string       `json:"id"`
	RootIndex   int          `json:"rootIndex,omitempty"`
	HighObjects int          `json:"highObjects"`
	LowObjects  int          `json:"lowObjects,omitempty"`
	Nodes       []nodeReport `json:"nodes,omitempty"`
}

type nodeReport struct {
	Name      string `json:"name"`
	Parent    int    `json:"parent"`
	Level     int    `json:"level"`
	High      int    `json:"high"`
	Triangles int    `json:"triangles"`
	Colliders int    `json:"colliders"`
}

type resourceReport struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
}

func newReport(h *hlod.HLOD) report {
	r := report{Root: h.Root.Name}

	for _, c := range h.Controllers() {
		cr := controllerReport{
			ID:          c.ID().String(),
			HighObjects: c.HighObjectCount(),
		}
		if sc, ok := c.(*streaming.Controller); ok {
			cr.RootIndex = sc.RootIndex
			cr.LowObjects = sc.LowObjectCount()
			for _, n := range sc.Nodes() {
				nr := nodeReport{
					Name:      n.Name,
					Parent:    n.Parent,
					Level:     n.Level,
					High:      len(n.HighIndices),
					Colliders: len(n.Colliders),
				}
				if n.LowIndex >= 0 {
					if rend := sc.LowObject(n.LowIndex).Renderer(); rend != nil && rend.Mesh != nil {
						nr.Triangles = rend.Mesh.TriangleCount()
					}
				}
				cr.Nodes = append(cr.Nodes, nr)
			}
		}
		r.Controllers = append(r.Controllers, cr)
	}

	for _, res := range h.Generated().Resources() {
		rr := resourceReport{ID: res.ID.String(), Kind: res.Kind.String()}
		switch res.Kind {
		case hlod.ResourceObject:
			rr.Name = res.Object.Name
		case hlod.ResourceAsset:
			rr.Name = res.Path
		case hlod.ResourceComponent:
			rr.Name = fmt.Sprintf("%T", res.Component)
		}
		r.Generated = append(r.Generated, rr)
	}
	return r
}

func writeReport(path string, r report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
