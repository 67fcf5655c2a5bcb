package hlod

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gekko3d/hlod/space"
)

type (
	SplitterFactory           func(c Component) (space.Splitter, error)
	SimplifierFactory         func(c Component) (Simplifier, error)
	BatcherFactory            func(c Component) (Batcher, error)
	StreamingFactory          func(h *HLOD, rootIndex int, c Component) (StreamingBuilder, error)
	UserDataSerializerFactory func(h *HLOD, c Component) (UserDataSerializer, error)
)

type registry[F any] struct {
	mu        sync.RWMutex
	kind      string
	factories map[string]F
}

func newRegistry[F any](kind string) *registry[F] {
	return &registry[F]{kind: kind, factories: make(map[string]F)}
}

func (r *registry[F]) register(name string, f F) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		panic(fmt.Sprintf("%s %q is already registered", r.kind, name))
	}
	r.factories[name] = f
}

func (r *registry[F]) lookup(name string) (F, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		var zero F
		return zero, newConfigError(
			fmt.Errorf("%w: %s %q", ErrUnknownCollaborator, r.kind, name),
			r.kind+" not found",
			fmt.Sprintf("There is no %s named %q. Known: %v.", r.kind, name, r.names()),
		)
	}
	return f, nil
}

func (r *registry[F]) names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	splitters   = newRegistry[SplitterFactory]("SpaceSplitter")
	simplifiers = newRegistry[SimplifierFactory]("Simplifier")
	batchers    = newRegistry[BatcherFactory]("Batcher")
	streamings  = newRegistry[StreamingFactory]("StreamingBuilder")
	serializers = newRegistry[UserDataSerializerFactory]("UserDataSerializer")
)

// RegisterSplitter makes a splitter available under name. It panics on duplicates.
func RegisterSplitter(name string, f SplitterFactory)     { splitters.register(name, f) }
func RegisterSimplifier(name string, f SimplifierFactory) { simplifiers.register(name, f) }
func RegisterBatcher(name string, f BatcherFactory)       { batchers.register(name, f) }
func RegisterStreaming(name string, f StreamingFactory)   { streamings.register(name, f) }
func RegisterUserDataSerializer(name string, f UserDataSerializerFactory) {
	serializers.register(name, f)
}

func NewSplitter(c Component) (space.Splitter, error) {
	f, err := splitters.lookup(c.Type)
	if err != nil {
		return nil, err
	}
	return f(c)
}

func NewSimplifier(c Component) (Simplifier, error) {
	f, err := simplifiers.lookup(c.Type)
	if err != nil {
		return nil, err
	}
	return f(c)
}

func NewBatcher(c Component) (Batcher, error) {
	f, err := batchers.lookup(c.Type)
	if err != nil {
		return nil, err
	}
	return f(c)
}

func NewStreamingBuilder(h *HLOD, rootIndex int, c Component) (StreamingBuilder, error) {
	f, err := streamings.lookup(c.Type)
	if err != nil {
		return nil, err
	}
	return f(h, rootIndex, c)
}

func NewUserDataSerializer(h *HLOD, c Component) (UserDataSerializer, error) {
	f, err := serializers.lookup(c.Type)
	if err != nil {
		return nil, err
	}
	return f(h, c)
}

// factories are the collaborators of one bake, resolved before it does any work.
type factories struct {
	splitter   SplitterFactory
	simplifier SimplifierFactory
	batcher    BatcherFactory
	streaming  StreamingFactory
	// serializer is nil when no user-data serializer is configured.
	serializer UserDataSerializerFactory
}

func resolveFactories(cfg Config) (*factories, error) {
	var (
		f   factories
		err error
	)
	if f.splitter, err = splitters.lookup(cfg.SpaceSplitter.Type); err != nil {
		return nil, err
	}
	if f.simplifier, err = simplifiers.lookup(cfg.Simplifier.Type); err != nil {
		return nil, err
	}
	if f.batcher, err = batchers.lookup(cfg.Batcher.Type); err != nil {
		return nil, err
	}
	if f.streaming, err = streamings.lookup(cfg.Streaming.Type); err != nil {
		return nil, err
	}
	if cfg.UserDataSerializer.Type != "" {
		if f.serializer, err = serializers.lookup(cfg.UserDataSerializer.Type); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func init() {
	RegisterSplitter("QuadTree", func(c Component) (space.Splitter, error) {
		var opts space.QuadTreeOptions
		if err := c.DecodeOptions(&opts); err != nil {
			return nil, err
		}
		return space.NewQuadTree(opts), nil
	})
}
