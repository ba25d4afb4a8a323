/*
Copyright © 2026 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package aerosol

import "fmt"

// ConfigError reports a malformed model configuration, such as a moment
// descriptor that does not start with VOLUME or a reaction with the wrong
// number of rate constants. It is detected when an object is constructed
// or built and is never retried.
type ConfigError struct {
	// Owner is the name of the misconfigured object, if known.
	Owner string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Owner == "" {
		return "aerosol: " + e.Msg
	}
	return fmt.Sprintf("aerosol: %s: %s", e.Owner, e.Msg)
}

// ConfigErrorf returns a *ConfigError for owner with a formatted message.
func ConfigErrorf(owner, format string, args ...interface{}) error {
	return &ConfigError{Owner: owner, Msg: fmt.Sprintf(format, args...)}
}

// LookupError reports a qualified name that is missing from a
// state's name-to-index table.
type LookupError struct {
	// Kind is the table the key was looked up in, e.g. "variable"
	// or "parameter".
	Kind  string
	Key   string
	Owner string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("aerosol: %s '%s' not found in state for '%s'", e.Kind, e.Key, e.Owner)
}

// DomainError reports that an effective radius cannot be calculated
// because the mass or number concentration is below the numerical
// stability limit, or the particle density is not positive.
type DomainError struct {
	Owner   string
	Mass    float64
	Number  float64
	Density float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("aerosol: cannot calculate effective radius for '%s': mass (%g), number (%g), "+
		"or density (%g) is below the numerical stability limit", e.Owner, e.Mass, e.Number, e.Density)
}

// UsageError reports an accessor that was called before the state
// indices of its owner were initialized, or with a State whose layout
// is not the one the indices were initialized against.
type UsageError struct {
	Owner string
	Op    string

	// Stale is set when the indices exist but belong to another layout.
	Stale bool
}

func (e *UsageError) Error() string {
	if e.Stale {
		return fmt.Sprintf("aerosol: %s called on '%s' with a state whose layout differs from the one "+
			"its indices were initialized against", e.Op, e.Owner)
	}
	return fmt.Sprintf("aerosol: %s called on '%s' before state indices were initialized", e.Op, e.Owner)
}
