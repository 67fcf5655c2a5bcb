package hlod

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Component selects a registered collaborator by key and carries its options.
type Component struct {
	Type    string    `yaml:"type"`
	Options yaml.Node `yaml:"options"`
}

// DecodeOptions decodes the options payload into out. An absent payload leaves out untouched.
func (c Component) DecodeOptions(out any) error {
	if c.Options.Kind == 0 {
		return nil
	}
	if err := c.Options.Decode(out); err != nil {
		return fmt.Errorf("decode %s options: %w", c.Type, err)
	}
	return nil
}

type Config struct {
	ChunkSize     float32 `yaml:"chunkSize"`
	MinObjectSize float32 `yaml:"minObjectSize"`
	CullDistance  float32 `yaml:"cullDistance"`
	LODDistance   float32 `yaml:"lodDistance"`

	// WorkingMemoryBudget caps the bytes of working copies alive at once. 0 disables the cap.
	WorkingMemoryBudget int64 `yaml:"workingMemoryBudget"`

	SpaceSplitter      Component `yaml:"spaceSplitter"`
	Simplifier         Component `yaml:"simplifier"`
	Batcher            Component `yaml:"batcher"`
	Streaming          Component `yaml:"streaming"`
	UserDataSerializer Component `yaml:"userDataSerializer"`
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:     30,
		MinObjectSize: 0,
		CullDistance:  0.01,
		LODDistance:   0.3,
		SpaceSplitter: Component{Type: "QuadTree"},
		Simplifier:    Component{Type: "None"},
		Batcher:       Component{Type: "Simple"},
		Streaming:     Component{Type: "InMemory"},
	}
}

// LoadConfig reads YAML on top of DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.ChunkSize <= 0:
		return newConfigError(ErrInvalidConfig, "Invalid chunk size.", fmt.Sprintf("Chunk size must be positive, got %v.", c.ChunkSize))
	case c.MinObjectSize < 0:
		return newConfigError(ErrInvalidConfig, "Invalid min object size.", fmt.Sprintf("Min object size must not be negative, got %v.", c.MinObjectSize))
	case c.CullDistance < 0 || c.LODDistance < 0:
		return newConfigError(ErrInvalidConfig, "Invalid distances.", "Cull and LOD distances must not be negative.")
	case c.SpaceSplitter.Type == "":
		return newConfigError(ErrNoSplitter, "SpaceSplitter not found", "There is no SpaceSplitter. Please set the SpaceSplitter.")
	}
	return nil
}
