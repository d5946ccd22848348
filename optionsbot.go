package optionsbot

import (
	"github.com/aretw0/optionsbot/internal/compiler"
	"github.com/aretw0/optionsbot/internal/runtime"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/format"
	"github.com/aretw0/optionsbot/pkg/serialization"
)

// Program is a compiled simulation, ready to be run by a runner.
type Program = runtime.Program

// Parse reads source text into its syntax tree.
func Parse(src string) (*domain.Program, error) {
	return compiler.Parse(src)
}

// Compile parses src and lowers it into an executable program.
func Compile(src string, opts ...compiler.Option) (*Program, error) {
	prog, err := compiler.Parse(src)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(prog, opts...)
}

// Serialize parses src and flattens it into the structured stage list.
func Serialize(src string) (*serialization.Document, error) {
	prog, err := compiler.Parse(src)
	if err != nil {
		return nil, err
	}
	return serialization.Serialize(prog), nil
}

// Format parses src and renders it canonically.
func Format(src string) (string, error) {
	prog, err := compiler.Parse(src)
	if err != nil {
		return "", err
	}
	return format.Format(prog), nil
}

// Deserialize renders a structured document back to source text.
func Deserialize(doc *serialization.Document) (string, error) {
	return serialization.Deserialize(doc)
}

// Response is the {errors, result} shape returned to API callers.
// A non-empty Errors implies a nil Result.
type Response[T any] struct {
	Errors []string `json:"errors"`
	Result *T       `json:"result"`
}

// Respond wraps a Go result and error into a Response. Syntax errors become one
// entry per diagnostic.
func Respond[T any](v T, err error) Response[T] {
	if err != nil {
		return Response[T]{Errors: domain.Messages(err)}
	}
	return Response[T]{Errors: []string{}, Result: &v}
}
