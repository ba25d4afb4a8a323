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

package process

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/spatialmodel/aerosol"
)

func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	return 2*math.Abs(a-b)/math.Abs(a+b) > tolerance
}

var conditions = []aerosol.Conditions{
	aerosol.NewConditions(273.15, 101325),
	aerosol.NewConditions(298.15, 101325),
	aerosol.NewConditions(310, 90000),
}

func TestEquilibriumConstant(t *testing.T) {
	k := NewEquilibriumConstant()
	for _, c := range conditions {
		if have := k.Calculate(c); have != 1 {
			t.Errorf("default at %g K: have %g, want 1", c.Temperature, have)
		}
	}

	k = EquilibriumConstant{A: 1.14e-2, C: 2300, T0: 298.15}
	if have := k.CalculateTemperature(298.15); different(have, 1.14e-2, 1e-12) {
		t.Errorf("at T0: have %g, want 1.14e-2", have)
	}
	want := 1.14e-2 * math.Exp(2300*(1/298.15-1/273.15))
	if have := k.CalculateTemperature(273.15); different(have, want, 1e-12) {
		t.Errorf("have %g, want %g", have, want)
	}

	zero := EquilibriumConstant{A: 1.14e-2, C: 2300}
	if have := zero.CalculateTemperature(273.15); different(have, want, 1e-12) {
		t.Errorf("zero T0: have %g, want %g", have, want)
	}
}

func TestArrheniusRateConstant(t *testing.T) {
	k := NewArrheniusRateConstant()
	for _, c := range conditions {
		if have := k.Calculate(c); different(have, 1, 1e-12) {
			t.Errorf("default at %g K: have %g, want 1", c.Temperature, have)
		}
	}
	k = ArrheniusRateConstant{A: 3.2e-11, B: -1.5, C: -70, E: 1e-6}
	c := conditions[2]
	want := 3.2e-11 * math.Exp(-70/c.Temperature) * math.Pow(c.Temperature/300, -1.5) * (1 + 1e-6*c.Pressure)
	if have := k.Calculate(c); different(have, want, 1e-12) {
		t.Errorf("have %g, want %g", have, want)
	}
}

func TestTemperatureAdjustedRate(t *testing.T) {
	k := TemperatureAdjustedRate{K298: 7.5e7, EperR: -4430}
	if have := k.Calculate(aerosol.NewConditions(298, 101325)); different(have, 7.5e7, 1e-12) {
		t.Errorf("have %g, want 7.5e7", have)
	}
	want := 7.5e7 * math.Exp(-4430*(1/298.-1/280.))
	if have := k.Calculate(aerosol.NewConditions(280, 101325)); different(have, want, 1e-12) {
		t.Errorf("have %g, want %g", have, want)
	}
}

func TestExpressionRate(t *testing.T) {
	k, err := NewExpressionRate("1.14e-2 * exp(2300 * (1/298.15 - 1/T))")
	if err != nil {
		t.Fatal(err)
	}
	eq := EquilibriumConstant{A: 1.14e-2, C: 2300, T0: 298.15}
	for _, c := range conditions {
		if have, want := k.Calculate(c), eq.Calculate(c); different(have, want, 1e-12) {
			t.Errorf("at %g K: have %g, want %g", c.Temperature, have, want)
		}
	}

	k, err = NewExpressionRate("pow(T/300, 2) * sqrt(P) + M * 0 + log(1)")
	if err != nil {
		t.Fatal(err)
	}
	c := conditions[2]
	if have, want := k.Calculate(c), math.Pow(310./300, 2)*math.Sqrt(90000); different(have, want, 1e-12) {
		t.Errorf("have %g, want %g", have, want)
	}

	for _, expr := range []string{
		"2 * X",
		"exp(",
		"exp(1, 2)",
		"T > 200",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := NewExpressionRate(expr)
			var ce *aerosol.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("have %v, want a *ConfigError", err)
			}
		})
	}
}

func rates() map[string]RateConstant {
	return map[string]RateConstant{
		"forward":     ArrheniusRateConstant{A: 2.5e3, C: -500},
		"reverse":     ArrheniusRateConstant{A: 1.2e5, C: -1200, B: 0.5},
		"equilibrium": EquilibriumConstant{A: 2.5e3 / 1.2e5, C: 700, T0: 298.15},
	}
}

func builder(set ...string) *DissolvedReversibleReactionBuilder {
	r := rates()
	b := NewDissolvedReversibleReactionBuilder().
		SetName("CO2_dissociation").
		SetPhase(aerosol.NewPhase("AQUEOUS", aerosol.Species{Name: "CO2"}, aerosol.Species{Name: "H2O"})).
		SetReactants(aerosol.Species{Name: "CO2"}).
		SetProducts(aerosol.Species{Name: "HCO3-"}, aerosol.Species{Name: "H+"}).
		SetSolvent(aerosol.Species{Name: "H2O"})
	for _, s := range set {
		switch s {
		case "forward":
			b.SetForwardRateConstant(r[s])
		case "reverse":
			b.SetReverseRateConstant(r[s])
		case "equilibrium":
			b.SetEquilibriumConstant(r[s])
		}
	}
	return b
}

func TestBuildPairs(t *testing.T) {
	tests := []struct {
		set              []string
		forward, reverse Derivation
	}{
		{[]string{"forward", "reverse"}, Specified, Specified},
		{[]string{"forward", "equilibrium"}, Specified, DerivedFromEquilibrium},
		{[]string{"reverse", "equilibrium"}, DerivedFromEquilibrium, Specified},
	}
	for _, test := range tests {
		t.Run(strings.Join(test.set, "_"), func(t *testing.T) {
			r, err := builder(test.set...).Build()
			if err != nil {
				t.Fatal(err)
			}
			if r.ForwardDerivation != test.forward {
				t.Errorf("forward: have %v, want %v", r.ForwardDerivation, test.forward)
			}
			if r.ReverseDerivation != test.reverse {
				t.Errorf("reverse: have %v, want %v", r.ReverseDerivation, test.reverse)
			}
			if r.Name != "CO2_dissociation" || r.Solvent.Name != "H2O" || len(r.Products) != 2 {
				t.Errorf("reaction fields not copied: %+v", r)
			}
			for _, c := range conditions {
				kf, kr, keq := r.ForwardRate(c), r.ReverseRate(c), r.EquilibriumConstant(c)
				if different(kf, keq*kr, 1e-10) {
					t.Errorf("at %g K: kf = %g but K kr = %g", c.Temperature, kf, keq*kr)
				}
				for _, s := range test.set {
					var have float64
					switch s {
					case "forward":
						have = kf
					case "reverse":
						have = kr
					case "equilibrium":
						have = keq
					}
					if want := rates()[s].Calculate(c); have != want {
						t.Errorf("%s at %g K: have %g, want the given %g", s, c.Temperature, have, want)
					}
				}
			}
		})
	}
}

func TestBuildWrongCount(t *testing.T) {
	tests := []struct {
		set  []string
		want string
	}{
		{nil, "got 0 (none)"},
		{[]string{"forward"}, "got 1 (forward rate constant)"},
		{[]string{"equilibrium"}, "got 1 (equilibrium constant)"},
		{[]string{"forward", "reverse", "equilibrium"},
			"got 3 (forward rate constant, reverse rate constant, equilibrium constant)"},
	}
	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			r, err := builder(test.set...).Build()
			if r != nil {
				t.Error("reaction should be nil")
			}
			var ce *aerosol.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("have %v, want a *ConfigError", err)
			}
			if ce.Owner != "CO2_dissociation" {
				t.Errorf("owner: have %s", ce.Owner)
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q should contain %q", err, test.want)
			}
		})
	}
}

// The derived rate constant follows changes to its inputs because it
// is evaluated on every call.
func TestBuildLazy(t *testing.T) {
	keq := 2.
	calls := 0
	r, err := NewDissolvedReversibleReactionBuilder().
		SetForwardRateConstant(Constant(10)).
		SetEquilibriumConstant(RateFunc(func(aerosol.Conditions) float64 {
			calls++
			return keq
		})).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Errorf("building should not evaluate rate constants; %d calls", calls)
	}
	c := conditions[1]
	if have := r.ReverseRate(c); have != 5 {
		t.Errorf("have %g, want 5", have)
	}
	keq = 4
	if have := r.ReverseRate(c); have != 2.5 {
		t.Errorf("after change: have %g, want 2.5", have)
	}
	if calls != 2 {
		t.Errorf("have %d calls, want 2", calls)
	}
	if have := r.EquilibriumConstant(c); have != 4 {
		t.Errorf("equilibrium: have %g, want the given 4", have)
	}
}

func TestDerivationString(t *testing.T) {
	if Specified.String() != "specified" || DerivedFromEquilibrium.String() != "derived from equilibrium" {
		t.Error("wrong derivation names")
	}
}
