// Package userdata provides the "JSON" user data serializer. It records the
// user data of every high detail object reachable from the bake's
// controllers and can write them to a file.
package userdata

import (
	"fmt"
	"os"
	"sort"

	"github.com/gekko3d/hlod"
	"github.com/gekko3d/hlod/scene"
	"github.com/segmentio/encoding/json"
)

func init() {
	hlod.RegisterUserDataSerializer("JSON", func(h *hlod.HLOD, c hlod.Component) (hlod.UserDataSerializer, error) {
		var opts Options
		if err := c.DecodeOptions(&opts); err != nil {
			return nil, err
		}
		return New(h, opts), nil
	})
}

type Options struct {
	// Path of the written document. Records are kept in memory only when empty.
	Path   string `yaml:"path"`
	Indent bool   `yaml:"indent"`
}

type Record struct {
	Controller string            `json:"controller"`
	Index      int               `json:"index"`
	Object     string            `json:"object"`
	Data       map[string]string `json:"data,omitempty"`
}

type Serializer struct {
	h       *hlod.HLOD
	opts    Options
	records []Record
}

func New(h *hlod.HLOD, opts Options) *Serializer {
	return &Serializer{h: h, opts: opts}
}

func (s *Serializer) SerializeUserData(c hlod.Controller, index int, obj *scene.Object) error {
	if obj == nil {
		return fmt.Errorf("controller %s: high object %d is missing", c.ID(), index)
	}
	var data map[string]string
	if len(obj.UserData) > 0 {
		data = make(map[string]string, len(obj.UserData))
		for k, v := range obj.UserData {
			data[k] = v
		}
	}
	s.records = append(s.records, Record{
		Controller: c.ID().String(),
		Index:      index,
		Object:     obj.Name,
		Data:       data,
	})
	return nil
}

func (s *Serializer) Records() []Record { return s.records }

// Flush writes the records, sorted by controller and index, and registers
// the file as a generated asset.
func (s *Serializer) Flush() error {
	if s.opts.Path == "" {
		return nil
	}

	records := append([]Record(nil), s.records...)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Controller != records[j].Controller {
			return records[i].Controller < records[j].Controller
		}
		return records[i].Index < records[j].Index
	})

	var data []byte
	var err error
	if s.opts.Indent {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return fmt.Errorf("encode user data: %w", err)
	}
	if err := os.WriteFile(s.opts.Path, data, 0o644); err != nil {
		return fmt.Errorf("write user data: %w", err)
	}
	s.h.AddGeneratedResource(s.opts.Path)
	return nil
}
