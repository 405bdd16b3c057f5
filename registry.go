package depot

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"github.com/rotisserie/eris"
)

// Registry is the application-owned catalogue of component types. Every type is registered
// with the table.Schema and gets a row local to this registry, in registration order; that
// row doubles as the type's bit in entity masks, so a registry holds at most mask.MaxBits
// types. A registry may be shared by any number of entity indexes.
type Registry struct {
	schema table.Schema
	names  *SimpleCache[*ComponentType]
	rows   map[*ComponentType]uint32
}

func newRegistry(schema table.Schema) *Registry {
	return &Registry{
		schema: schema,
		names:  FactoryNewCache[*ComponentType](min(Config.maxComponentTypes, int(mask.MaxBits))).(*SimpleCache[*ComponentType]),
		rows:   make(map[*ComponentType]uint32),
	}
}

// Register adds ct and returns its row. Registering the same type again is a no-op.
func (r *Registry) Register(ct *ComponentType) (uint32, error) {
	if ct == nil {
		return 0, eris.Wrap(ErrArgument, "nil component type")
	}
	if row, ok := r.rows[ct]; ok {
		return row, nil
	}
	if _, taken := r.names.GetIndex(ct.name); taken {
		return 0, eris.Wrapf(ErrDuplicateType, "name %q", ct.name)
	}
	if len(r.rows) >= int(mask.MaxBits) {
		return 0, eris.Wrapf(ErrRegistryFull, "mask holds %d types", mask.MaxBits)
	}
	if _, err := r.names.Register(ct.name, ct); err != nil {
		return 0, eris.Wrapf(err, "failed to register %s", ct)
	}
	r.schema.Register(ct.element)
	row := uint32(len(r.rows))
	r.rows[ct] = row
	return row, nil
}

// Lookup finds a registered type by name
func (r *Registry) Lookup(name string) (*ComponentType, bool) {
	idx, ok := r.names.GetIndex(name)
	if !ok {
		return nil, false
	}
	return *r.names.GetItem(idx), true
}

// Types returns every registered type in registration order
func (r *Registry) Types() []*ComponentType {
	return r.names.Items()
}

func (r *Registry) Len() int {
	return r.names.Len()
}

// row registers ct on demand. Failure here means the caller handed the engine a type
// that can never be stored, so it is fatal.
func (r *Registry) row(ct *ComponentType) uint32 {
	if row, ok := r.rows[ct]; ok {
		return row
	}
	row, err := r.Register(ct)
	if err != nil {
		panic(err)
	}
	return row
}
