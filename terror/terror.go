// SPDX-License-Identifier: MIT

// Package terror provides typed errors: sentinel errors enriched with a
// structured data map, transparent to errors.Is/errors.As.
package terror

import (
	"github.com/pkg/errors"
)

// Public API.

type (
	Err struct {
		error
		Data map[string]any `json:"data"`
	}
)

func New(err error, data map[string]any) *Err {
	return &Err{error: err, Data: data}
}

func As(err error) *Err {
	tErr := new(Err)
	if ok := errors.As(err, tErr); ok {
		return tErr
	}

	return nil
}

func (e *Err) Is(target error) bool {
	return errors.Is(target, e.error)
}

func (e *Err) Unwrap() error {
	return e.error
}

func (e *Err) As(target any) bool {
	other, ok := target.(*Err)
	if ok {
		*other = *e
	}

	return ok
}
