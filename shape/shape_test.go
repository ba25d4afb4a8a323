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

package shape

import (
	"testing"

	"github.com/spatialmodel/aerosol"
)

func TestPossibleMoments(t *testing.T) {
	for _, s := range []aerosol.Shape{DeltaFunction{}, LogNormal{}, Uniform{}} {
		m := s.PossibleMoments()
		if len(m) < 3 {
			t.Errorf("%T: have %d moments, want at least 3", s, len(m))
		}
		if m[0] != aerosol.Volume || m[1] != aerosol.NumberConcentration {
			t.Errorf("%T: moments begin with %v", s, m[:2])
		}
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		have, want string
	}{
		{have: NewLogNormal("aitken").GeometricMeanRadius(), want: "aitken.GEOMETRIC_MEAN_RADIUS"},
		{have: NewLogNormal("aitken").NumberConcentration(), want: "aitken.NUMBER_CONCENTRATION"},
		{have: NewDeltaFunction("drop").Radius(), want: "drop.RADIUS"},
		{have: NewUniform("dust1").MaxRadius(), want: "dust1.MAX_RADIUS"},
		{have: NewUniform("").MinRadius(), want: "MIN_RADIUS"},
	}
	for _, test := range tests {
		if test.have != test.want {
			t.Errorf("have %s, want %s", test.have, test.want)
		}
	}
}
