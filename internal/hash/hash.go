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

// Package hash computes content fingerprints for state layouts and model
// configurations, so that a layout generated when a state is allocated can
// be matched against the one used when names are resolved.
package hash

import (
	"fmt"
	"hash/fnv"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// Names returns a hash key for the given ordered lists of names.
// Both the order of the lists and the order of names within each list
// contribute to the key.
func Names(lists ...[]string) string {
	h := fnv.New128a()
	for i, l := range lists {
		fmt.Fprintf(h, "%d:%d;", i, len(l))
		for _, n := range l {
			io.WriteString(h, n)
			h.Write([]byte{0})
		}
	}
	bKey := h.Sum([]byte{})
	return fmt.Sprintf("%x", bKey[0:h.Size()])
}

// Object returns a hash key for the specified object. Map keys are
// sorted before hashing, so equal configurations hash equally.
func Object(object interface{}) string {
	if s, ok := object.(fmt.Stringer); ok {
		return s.String()
	}
	h := fnv.New128a()
	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	printer.Fprintf(h, "%#v", object)
	bKey := h.Sum([]byte{})
	return fmt.Sprintf("%x", bKey[0:h.Size()])
}
