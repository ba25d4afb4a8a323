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
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/unit"
	"github.com/kr/pretty"
)

// different returns whether a and b differ by more than tolerance,
// relative to their mean.
func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestJoin(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{in: []string{"CLOUD", "large_drop", "AQUEOUS", "H2O"}, want: "CLOUD.large_drop.AQUEOUS.H2O"},
		{in: []string{"", "aitken", "NUMBER_CONCENTRATION"}, want: "aitken.NUMBER_CONCENTRATION"},
		{in: []string{"GAS", "", "CO2", ""}, want: "GAS.CO2"},
		{in: []string{"", ""}, want: ""},
		{in: nil, want: ""},
	}
	for _, test := range tests {
		if have := Join(test.in...); have != test.want {
			t.Errorf("Join(%q): have %q, want %q", test.in, have, test.want)
		}
	}
}

func TestPhase(t *testing.T) {
	p := NewPhase("AQUEOUS", Species{Name: "H2O", MolecularWeight: 0.018}, Species{Name: "CO2"})
	if p.StateSize() != 2 {
		t.Errorf("state size: have %d, want 2", p.StateSize())
	}
	want := []string{"AQUEOUS.H2O", "AQUEOUS.CO2"}
	if diff := pretty.Diff(p.UniqueNames(), want); len(diff) > 0 {
		t.Error(strings.Join(diff, "\n"))
	}
	if !p.Has("CO2") || p.Has("O3") {
		t.Error("Has gives the wrong answer")
	}
}

func TestLayoutAdd(t *testing.T) {
	l := new(Layout)
	if err := l.Add("MODE1", []string{"MODE1.B", "MODE1.A"}, []string{"MODE1.GSD"}); err != nil {
		t.Fatal(err)
	}
	if err := l.Add("MODE2", []string{"MODE2.A"}, nil); err != nil {
		t.Fatal(err)
	}
	want := &Layout{
		Variables:  []string{"MODE1.A", "MODE1.B", "MODE2.A"},
		Parameters: []string{"MODE1.GSD"},
	}
	if diff := pretty.Diff(l.Variables, want.Variables); len(diff) > 0 {
		t.Error(strings.Join(diff, "\n"))
	}
	if diff := pretty.Diff(l.Parameters, want.Parameters); len(diff) > 0 {
		t.Error(strings.Join(diff, "\n"))
	}
	if o, ok := l.Owner("MODE2.A"); !ok || o != "MODE2" {
		t.Errorf("owner: have %q, %v; want MODE2, true", o, ok)
	}

	t.Run("collision", func(t *testing.T) {
		err := l.Add("OTHER", nil, []string{"MODE1.A"})
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("have %v, want a *ConfigError", err)
		}
		if !strings.Contains(err.Error(), "MODE1.A") || !strings.Contains(err.Error(), "MODE1") {
			t.Errorf("error should name the name and its owner: %v", err)
		}
		if len(l.Parameters) != 1 {
			t.Error("a failed Add should not change the layout")
		}
	})
	t.Run("duplicate", func(t *testing.T) {
		if err := l.Add("DUP", []string{"DUP.X"}, []string{"DUP.X"}); err == nil {
			t.Error("should be an error")
		}
	})
}

func TestLayoutHash(t *testing.T) {
	a := &Layout{Variables: []string{"A", "B"}, Parameters: []string{"C"}}
	b := &Layout{Variables: []string{"A"}, Parameters: []string{"B", "C"}}
	c := &Layout{Variables: []string{"A", "B"}, Parameters: []string{"C"}}
	if a.Hash() == b.Hash() {
		t.Error("moving a name between variables and parameters should change the hash")
	}
	if a.Hash() != c.Hash() {
		t.Error("equal layouts should have equal hashes")
	}
}

func testLayout(t *testing.T) *Layout {
	l := new(Layout)
	if err := l.Add("GAS", []string{"GAS.CO2", "GAS.O3"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := l.Add("MODE", []string{"MODE.AQUEOUS.H2O"}, []string{"MODE.GEOMETRIC_STANDARD_DEVIATION"}); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestNewState(t *testing.T) {
	l := testLayout(t)
	if _, err := NewState(l, 0); err == nil {
		t.Error("zero cells should be an error")
	}
	s, err := NewState(l, 3)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumCells() != 3 {
		t.Errorf("cells: have %d, want 3", s.NumCells())
	}
	r, c := s.Variables.Dims()
	if r != 3 || c != 3 {
		t.Errorf("variable dims: have (%d, %d), want (3, 3)", r, c)
	}
	for i, cond := range s.Conditions {
		if cond.Temperature != StandardTemperature || cond.Pressure != StandardPressure {
			t.Errorf("cell %d: have %+v, want standard conditions", i, cond)
		}
	}
	i, err := s.VariableIndex("MODE.AQUEOUS.H2O", "MODE")
	if err != nil {
		t.Fatal(err)
	}
	s.SetVariable(2, i, 1.5)
	if v := s.Variable(2, i); v != 1.5 {
		t.Errorf("have %g, want 1.5", v)
	}
	if v := s.Variable(1, i); v != 0 {
		t.Errorf("other cells should be untouched: have %g", v)
	}

	_, err = s.ParameterIndex("MODE.GEOMETRIC_MEAN_RADIUS", "MODE")
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("have %v, want a *LookupError", err)
	}
	if le.Key != "MODE.GEOMETRIC_MEAN_RADIUS" || le.Owner != "MODE" {
		t.Errorf("lookup error: have %+v", le)
	}
}

func TestNewStateNoParameters(t *testing.T) {
	l := new(Layout)
	if err := l.Add("GAS", []string{"GAS.CO2"}, nil); err != nil {
		t.Fatal(err)
	}
	s, err := NewState(l, 2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Parameters != nil {
		t.Error("a layout without parameters should have no parameter matrix")
	}
}

func TestConditions(t *testing.T) {
	c := NewConditions(StandardTemperature, StandardPressure)
	const want = 40.874 // [mol m-3]
	if different(c.AirDensity, want, 1e-4) {
		t.Errorf("air density: have %g, want %g", c.AirDensity, want)
	}

	c2, err := ConditionsFromUnits(unit.New(StandardTemperature, unit.Kelvin), unit.New(StandardPressure, unit.Pascal))
	if err != nil {
		t.Fatal(err)
	}
	if c2 != c {
		t.Errorf("have %+v, want %+v", c2, c)
	}
	if _, err := ConditionsFromUnits(unit.New(300, unit.Pascal), unit.New(StandardPressure, unit.Pascal)); err == nil {
		t.Error("a pressure as the temperature should be an error")
	}
	if _, err := ConditionsFromUnits(unit.New(300, unit.Kelvin), unit.New(1, unit.Meter)); err == nil {
		t.Error("a length as the pressure should be an error")
	}
	if _, err := ConditionsFromUnits(unit.New(0, unit.Kelvin), unit.New(StandardPressure, unit.Pascal)); err == nil {
		t.Error("zero temperature should be an error")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: ConfigErrorf("MODE", "bad %s", "thing"), want: "aerosol: MODE: bad thing"},
		{err: ConfigErrorf("", "bad"), want: "aerosol: bad"},
		{
			err:  &LookupError{Kind: "variable", Key: "A.B", Owner: "A"},
			want: "aerosol: variable 'A.B' not found in state for 'A'",
		},
		{
			err:  &UsageError{Owner: "aitken", Op: "Concentration"},
			want: "aerosol: Concentration called on 'aitken' before state indices were initialized",
		},
		{
			err: &UsageError{Owner: "aitken", Op: "SetNumber", Stale: true},
			want: "aerosol: SetNumber called on 'aitken' with a state whose layout differs from the one " +
				"its indices were initialized against",
		},
	}
	for _, test := range tests {
		if have := test.err.Error(); have != test.want {
			t.Errorf("have %q, want %q", have, test.want)
		}
	}
	de := &DomainError{Owner: "aitken", Mass: 1e-20, Number: 5, Density: 1000}
	for _, s := range []string{"aitken", "1e-20", "5"} {
		if !strings.Contains(de.Error(), s) {
			t.Errorf("%q should contain %q", de.Error(), s)
		}
	}
}

func TestStateCDF(t *testing.T) {
	l := testLayout(t)
	s, err := NewState(l, 2)
	if err != nil {
		t.Fatal(err)
	}
	for cell := 0; cell < 2; cell++ {
		for i := range l.Variables {
			s.SetVariable(cell, i, float64(10*cell+i)+0.5)
		}
		s.SetParameter(cell, 0, 1.6+float64(cell))
	}
	s.Conditions[1] = NewConditions(280, 90000)

	f, err := os.Create(filepath.Join(t.TempDir(), "state.nc"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := s.WriteCDF(f); err != nil {
		t.Fatal(err)
	}

	s2, err := ReadCDF(f)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(s2.Layout().Variables, l.Variables); len(diff) > 0 {
		t.Error(strings.Join(diff, "\n"))
	}
	if diff := pretty.Diff(s2.Layout().Parameters, l.Parameters); len(diff) > 0 {
		t.Error(strings.Join(diff, "\n"))
	}
	if s2.Layout().Hash() != l.Hash() {
		t.Error("layout hash changed")
	}
	for cell := 0; cell < 2; cell++ {
		for i := range l.Variables {
			if have, want := s2.Variable(cell, i), s.Variable(cell, i); have != want {
				t.Errorf("variable %d cell %d: have %g, want %g", i, cell, have, want)
			}
		}
		if have, want := s2.Parameter(cell, 0), s.Parameter(cell, 0); have != want {
			t.Errorf("parameter cell %d: have %g, want %g", cell, have, want)
		}
		if s2.Conditions[cell] != s.Conditions[cell] {
			t.Errorf("conditions cell %d: have %+v, want %+v", cell, s2.Conditions[cell], s.Conditions[cell])
		}
	}
}
