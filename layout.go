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

import (
	"sort"

	"github.com/spatialmodel/aerosol/internal/hash"
)

// Layout is the ordered list of state variable and parameter names that
// a state is allocated from. The position of a name in Variables or
// Parameters is its column index in the state.
type Layout struct {
	Variables  []string
	Parameters []string

	// owners records which population added each name.
	owners map[string]string
}

// Add appends the variable and parameter names of the population called
// owner to the layout. Names are added in sorted order. It returns a
// *ConfigError if any name is already present in the layout, whether as
// a variable or as a parameter.
func (l *Layout) Add(owner string, variables, parameters []string) error {
	if l.owners == nil {
		l.owners = make(map[string]string)
		for _, n := range l.Variables {
			l.owners[n] = ""
		}
		for _, n := range l.Parameters {
			l.owners[n] = ""
		}
	}
	v := sortedCopy(variables)
	p := sortedCopy(parameters)
	seen := make(map[string]bool, len(v)+len(p))
	for _, list := range [][]string{v, p} {
		for _, n := range list {
			if prev, ok := l.owners[n]; ok {
				return ConfigErrorf(owner, "state name '%s' collides with a name from '%s'", n, prev)
			}
			if seen[n] {
				return ConfigErrorf(owner, "state name '%s' appears more than once", n)
			}
			seen[n] = true
		}
	}
	for n := range seen {
		l.owners[n] = owner
	}
	l.Variables = append(l.Variables, v...)
	l.Parameters = append(l.Parameters, p...)
	return nil
}

// Owner returns the population that added name to the layout.
func (l *Layout) Owner(name string) (string, bool) {
	o, ok := l.owners[name]
	return o, ok
}

// Hash returns a fingerprint of the layout's variable and parameter order.
func (l *Layout) Hash() string {
	return hash.Names(l.Variables, l.Parameters)
}

func sortedCopy(s []string) []string {
	o := make([]string, len(s))
	copy(o, s)
	sort.Strings(o)
	return o
}
