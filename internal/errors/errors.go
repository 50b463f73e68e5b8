// Package errors gives the CLI and LSP front-ends a single shape to pull a
// source position out of any error the tokenizer raised, without either of
// them needing to know about package eex's concrete error type.
package errors

import "github.com/bentduso/eex/internal/eex"

type SituatedErr interface {
	Unwrap() error
	At() eex.Location
}
