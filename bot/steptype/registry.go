package steptype

import (
	"log/slog"
	"sort"
	"sync"

	"TicketBot/internal/lib/sl"
)

// Producer creates a fresh, uninitialized step instance.
type Producer func(env *Env) Step

// Descriptor identifies a step type. Name is the key scripts use to refer to it;
// Emoji is reserved.
type Descriptor struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Emoji       string   `json:"emoji,omitempty"`
	Producer    Producer `json:"-"`
}

// Registry maps step type names to producers.
type Registry struct {
	env   *Env
	types map[string]Descriptor
	mu    sync.RWMutex
	log   *slog.Logger
}

// NewRegistry creates a registry whose instances share env.
func NewRegistry(env *Env) *Registry {
	return &Registry{
		env:   env,
		types: make(map[string]Descriptor),
		log:   env.logger().With(sl.Module("steptype.registry")),
	}
}

// Env returns the environment handed to every produced instance.
func (r *Registry) Env() *Env {
	return r.env
}

// Register adds a step type. Registering a name twice fails with
// *DuplicateNameError and leaves the first registration in place.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return ErrEmptyName
	}
	if d.Producer == nil {
		return ErrNilProducer
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[d.Name]; exists {
		return &DuplicateNameError{Name: d.Name}
	}
	r.types[d.Name] = d
	r.log.Debug("registered step type", slog.String("name", d.Name))
	return nil
}

// Unregister removes a step type; unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.types, name)
}

// Resolve returns the producer registered under name.
func (r *Registry) Resolve(name string) (Producer, error) {
	d, err := r.Describe(name)
	if err != nil {
		return nil, err
	}
	return d.Producer, nil
}

// Describe returns the descriptor registered under name.
func (r *Registry) Describe(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.types[name]
	if !ok {
		return Descriptor{}, &UnknownTypeError{Name: name}
	}
	return d, nil
}

// New resolves name and produces an instance bound to the registry's Env.
func (r *Registry) New(name string) (Step, error) {
	producer, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return producer(r.env), nil
}

// List returns all descriptors sorted by name.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Descriptor, 0, len(r.types))
	for _, d := range r.types {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
