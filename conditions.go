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
	"fmt"

	"github.com/ctessum/unit"
)

// R is the universal gas constant [J K-1 mol-1].
const R = 8.314462618

// Conditions are the ambient conditions in a grid cell.
// Rate constants are evaluated against them.
type Conditions struct {
	Temperature float64 // [K]
	Pressure    float64 // [Pa]
	AirDensity  float64 // [mol m-3]
}

// NewConditions returns the conditions at temperature t [K] and
// pressure p [Pa], with air density from the ideal gas law.
func NewConditions(t, p float64) Conditions {
	return Conditions{
		Temperature: t,
		Pressure:    p,
		AirDensity:  p / (R * t),
	}
}

// ConditionsFromUnits is like NewConditions but takes dimensioned
// values, returning an error if t is not a temperature or p is not a
// pressure.
func ConditionsFromUnits(t, p *unit.Unit) (Conditions, error) {
	if err := t.Check(unit.Kelvin); err != nil {
		return Conditions{}, fmt.Errorf("aerosol: temperature: %v", err)
	}
	if err := p.Check(unit.Pascal); err != nil {
		return Conditions{}, fmt.Errorf("aerosol: pressure: %v", err)
	}
	if t.Value() <= 0 {
		return Conditions{}, fmt.Errorf("aerosol: temperature must be positive; got %v", t)
	}
	return NewConditions(t.Value(), p.Value()), nil
}
