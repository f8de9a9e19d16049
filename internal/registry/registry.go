package registry

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered kinds and sinks for a single application
// instance.
type Registry struct {
	KindRegistry map[string]*RegisteredKind
	SinkRegistry map[string]*RegisteredSink
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		KindRegistry: make(map[string]*RegisteredKind),
		SinkRegistry: make(map[string]*RegisteredSink),
	}
}

// Kind returns the registered kind with the given name.
func (r *Registry) Kind(name string) (*RegisteredKind, bool) {
	k, ok := r.KindRegistry[name]
	return k, ok
}

// Sink returns the registered sink with the given output type.
func (r *Registry) Sink(name string) (*RegisteredSink, bool) {
	s, ok := r.SinkRegistry[name]
	return s, ok
}
