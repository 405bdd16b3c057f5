package depot

import (
	"slices"
	"strings"

	"github.com/TheBitDrifter/table"
)

// ComponentType describes a kind of component: its ordered set of declared properties and
// the other types it requires. The tag type parameter of FactoryNewComponentType names the
// table element registered for the type.
type ComponentType struct {
	element    table.ElementType
	name       string
	properties []PropertyDecl
	requires   []*ComponentType
}

// FactoryNewComponentType builds a component type. Properties are ordered by name so that
// column order is deterministic regardless of declaration order.
func FactoryNewComponentType[Tag any](name string, properties ...PropertyDecl) *ComponentType {
	sorted := slices.Clone(properties)
	slices.SortFunc(sorted, func(a, b PropertyDecl) int {
		return strings.Compare(a.Name(), b.Name())
	})
	ct := &ComponentType{
		element:    table.FactoryNewElementType[Tag](),
		name:       name,
		properties: sorted,
	}
	for i, p := range sorted {
		if i > 0 && sorted[i-1].Name() == p.Name() {
			fatal(ErrArgument, "duplicate property %q in %s", p.Name(), name)
		}
		p.bind(ct, i)
	}
	return ct
}

// Requires declares types that are attached automatically, owned by the new component,
// whenever this type is added to an entity lacking them.
func (ct *ComponentType) Requires(types ...*ComponentType) *ComponentType {
	for _, req := range types {
		if req == nil || req == ct {
			fatal(ErrArgument, "%s cannot require %v", ct, req)
		}
		if !slices.Contains(ct.requires, req) {
			ct.requires = append(ct.requires, req)
		}
	}
	return ct
}

func (ct *ComponentType) Name() string {
	return ct.name
}

// PropertyNames returns the declared property names in column order
func (ct *ComponentType) PropertyNames() []string {
	names := make([]string, len(ct.properties))
	for i, p := range ct.properties {
		names[i] = p.Name()
	}
	return names
}

func (ct *ComponentType) Required() []*ComponentType {
	return slices.Clone(ct.requires)
}

func (ct *ComponentType) String() string {
	if ct == nil {
		return "<nil>"
	}
	return ct.name
}
