package dsl

import "github.com/aretw0/optionsbot/pkg/domain"

// Builder assembles a domain.Program.
type Builder struct {
	vars []domain.Assignment
	root *Stage
}

// New creates a new program builder.
func New() *Builder {
	return &Builder{root: &Stage{}}
}

// Set adds a header variable. Setting a name twice replaces the earlier value
// in place so declaration order is kept.
func (b *Builder) Set(name string, value float64) *Builder {
	for i := range b.vars {
		if b.vars[i].Name == name {
			b.vars[i].Value = value
			return b
		}
	}
	b.vars = append(b.vars, domain.Assignment{Name: name, Value: value})
	return b
}

// SetAll adds every variable of vars in order.
func (b *Builder) SetAll(vars []domain.Assignment) *Builder {
	for _, a := range vars {
		b.Set(a.Name, a.Value)
	}
	return b
}

// Root returns the top-level decision point.
func (b *Builder) Root() *Stage {
	return b.root
}

// Build returns the program. The builder can keep being used afterwards;
// later changes do not affect programs already built.
func (b *Builder) Build() *domain.Program {
	return &domain.Program{
		Variables: append([]domain.Assignment(nil), b.vars...),
		Root:      b.root.build(),
	}
}
