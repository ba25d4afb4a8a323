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

package model

import (
	"errors"
	"io/ioutil"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aerosol"
	"github.com/spatialmodel/aerosol/process"
	"github.com/spatialmodel/aerosol/representation"
	"github.com/spatialmodel/aerosol/scheme"
)

var (
	co2     = aerosol.Species{Name: "CO2"}
	h2o     = aerosol.Species{Name: "H2O"}
	hco3    = aerosol.Species{Name: "HCO3-"}
	hplus   = aerosol.Species{Name: "H+"}
	poa     = aerosol.Species{Name: "POA"}
	aqueous = aerosol.NewPhase("AQUEOUS", co2, h2o, hco3, hplus)
	organic = aerosol.NewPhase("ORGANIC", poa)
	gas     = aerosol.NewPhase("GAS", co2, h2o)
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

func testModel(t *testing.T) *Model {
	smm, err := representation.NewSingleMomentMode("SMM", []aerosol.Phase{aqueous, organic}, 1e-7, 1.6)
	if err != nil {
		t.Fatal(err)
	}
	tmm, err := representation.NewTwoMomentMode("TMM", []aerosol.Phase{organic}, 1.8)
	if err != nil {
		t.Fatal(err)
	}
	m := New("MODEL", smm, tmm)
	m.Log = quietLogger()
	return m
}

func reaction(t *testing.T) *process.DissolvedReversibleReaction {
	r, err := process.NewDissolvedReversibleReactionBuilder().
		SetName("CO2_dissociation").
		SetPhase(aqueous).
		SetReactants(co2).
		SetProducts(hco3, hplus).
		SetSolvent(h2o).
		SetForwardRateConstant(process.Constant(1)).
		SetEquilibriumConstant(process.NewEquilibriumConstant()).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestModelStateSize(t *testing.T) {
	m := testModel(t)
	v, p := m.StateSize()
	// SMM: 5 species, 2 parameters. TMM: 1 species + number, 1 parameter.
	if v != 7 || p != 3 {
		t.Errorf("have (%d, %d), want (7, 3)", v, p)
	}
	if n := len(m.StateVariableNames()); n != v {
		t.Errorf("have %d variable names, want %d", n, v)
	}
	if n := len(m.StateParameterNames()); n != p {
		t.Errorf("have %d parameter names, want %d", n, p)
	}
	names := m.StateVariableNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names are not sorted: %v", names)
		}
	}
	if err := m.Validate(); err != nil {
		t.Error(err)
	}
}

func TestModelDuplicateRepresentation(t *testing.T) {
	m := testModel(t)
	dup, err := representation.NewTwoMomentMode("TMM", []aerosol.Phase{aqueous}, 1.8)
	if err != nil {
		t.Fatal(err)
	}
	m.Representations = append(m.Representations, dup)
	var ce *aerosol.ConfigError
	if err := m.Validate(); !errors.As(err, &ce) {
		t.Errorf("have %v, want a *ConfigError", err)
	}
}

func TestSpeciesUsed(t *testing.T) {
	m := testModel(t)
	if have, want := len(m.SpeciesUsed()), len(m.StateVariableNames()); have != want {
		t.Errorf("without reactions: have %d species, want %d", have, want)
	}
	m.AddProcesses(reaction(t))
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	want := []string{"SMM.AQUEOUS.CO2", "SMM.AQUEOUS.H+", "SMM.AQUEOUS.H2O", "SMM.AQUEOUS.HCO3-"}
	have := m.SpeciesUsed()
	if len(have) != len(want) {
		t.Fatalf("have %v, want %v", have, want)
	}
	for i := range want {
		if have[i] != want[i] {
			t.Errorf("%d: have %s, want %s", i, have[i], want[i])
		}
	}
}

func TestValidateReaction(t *testing.T) {
	t.Run("unused phase", func(t *testing.T) {
		m := testModel(t)
		m.Representations = m.Representations[1:]
		m.AddProcesses(reaction(t))
		if err := m.Validate(); err == nil {
			t.Error("should be an error")
		}
	})
	t.Run("species not in phase", func(t *testing.T) {
		m := testModel(t)
		r, err := process.NewDissolvedReversibleReactionBuilder().
			SetName("bad").
			SetPhase(aqueous).
			SetReactants(poa).
			SetForwardRateConstant(process.Constant(1)).
			SetReverseRateConstant(process.Constant(1)).
			Build()
		if err != nil {
			t.Fatal(err)
		}
		m.AddProcesses(r)
		var ce *aerosol.ConfigError
		if err := m.Validate(); !errors.As(err, &ce) {
			t.Fatalf("have %v, want a *ConfigError", err)
		}
		if ce.Owner != "MODEL.bad" {
			t.Errorf("owner: have %s, want MODEL.bad", ce.Owner)
		}
	})
}

func testAerosol(t *testing.T) (*AerosolModel, *scheme.Mode, *scheme.Section) {
	mode, err := scheme.NewMode("accumulation", []aerosol.Phase{aqueous}, scheme.TwoMoment, 0, 1.8)
	if err != nil {
		t.Fatal(err)
	}
	section, err := scheme.NewSection("large_drop", []aerosol.Phase{aqueous}, scheme.SingleMoment, 1e-5, 2e-5)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewAerosolModel("CLOUD", []*scheme.Mode{mode}, []*scheme.Section{section})
	if err != nil {
		t.Fatal(err)
	}
	m.Log = quietLogger()
	return m, mode, section
}

func aerosolState(t *testing.T, m *AerosolModel) *aerosol.State {
	l := new(aerosol.Layout)
	if err := m.AddTo(l); err != nil {
		t.Fatal(err)
	}
	s, err := aerosol.NewState(l, 2)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAerosolModelNames(t *testing.T) {
	m, mode, _ := testAerosol(t)
	if have := mode.Species(aqueous, h2o); have != "CLOUD.accumulation.AQUEOUS.H2O" {
		t.Errorf("have %s", have)
	}
	// 4 species and 3 moments in each of two schemes.
	if n := len(m.StateVariableNames()); n != 14 {
		t.Errorf("have %d names, want 14", n)
	}
	if _, err := m.Scheme("large_drop"); err != nil {
		t.Error(err)
	}
	var le *aerosol.LookupError
	if _, err := m.Scheme("rain"); !errors.As(err, &le) {
		t.Errorf("have %v, want a *LookupError", err)
	}
}

func TestAerosolModelDuplicate(t *testing.T) {
	a, err := scheme.NewMode("aitken", []aerosol.Phase{aqueous}, scheme.TwoMoment, 0, 1.6)
	if err != nil {
		t.Fatal(err)
	}
	b, err := scheme.NewSection("aitken", []aerosol.Phase{aqueous}, scheme.SingleMoment, 1e-8, 2e-8)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewAerosolModel("AER", []*scheme.Mode{a}, []*scheme.Section{b}); err == nil {
		t.Error("should be an error")
	}
}

func TestAerosolModelLazyResolution(t *testing.T) {
	m, mode, section := testAerosol(t)
	s := aerosolState(t, m)
	if mode.Resolved() {
		t.Fatal("mode should start unresolved")
	}
	if err := m.SetConcentration(s, mode, aqueous, h2o, 1e-6, 1); err != nil {
		t.Fatal(err)
	}
	if !mode.Resolved() {
		t.Error("mode should be resolved after the first access")
	}
	if section.Resolved() {
		t.Error("section should not be resolved yet")
	}
	if err := m.SetNumberConcentration(s, mode, 1e9, 1); err != nil {
		t.Fatal(err)
	}
	if err := m.SetDensity(s, mode, 1000, 1); err != nil {
		t.Fatal(err)
	}
	c, err := m.Concentration(s, mode, aqueous, h2o, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c != 1e-6 {
		t.Errorf("concentration: have %g, want 1e-6", c)
	}
	n, err := m.NumberConcentration(s, mode, 1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1e9 {
		t.Errorf("number: have %g, want 1e9", n)
	}
	r, err := m.EffectiveRadius(s, mode, 1)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := scheme.LogNormalEffectiveRadius("", 1e-6, 1e9, 1000, 1.8)
	if math.Abs(r-want) > 1e-12*want {
		t.Errorf("radius: have %g, want %g", r, want)
	}

	// Cell 0 is empty, so the two-moment radius is undefined there.
	var de *aerosol.DomainError
	if err := m.UpdateRadii(s); !errors.As(err, &de) {
		t.Errorf("have %v, want a *DomainError", err)
	}
	if err := m.UpdateRadius(s, section, 0); err != nil {
		t.Fatal(err)
	}
	if !section.Resolved() {
		t.Error("section should be resolved")
	}
}

func TestAerosolModelNonMember(t *testing.T) {
	m, _, _ := testAerosol(t)
	s := aerosolState(t, m)
	other, err := scheme.NewMode("other", []aerosol.Phase{aqueous}, scheme.TwoMoment, 0, 1.8)
	if err != nil {
		t.Fatal(err)
	}
	var ce *aerosol.ConfigError
	if err := m.SetConcentration(s, other, aqueous, h2o, 1, 0); !errors.As(err, &ce) {
		t.Errorf("have %v, want a *ConfigError", err)
	}
	if other.Resolved() {
		t.Error("a scheme outside the model should not be resolved")
	}
}

func TestGasModel(t *testing.T) {
	g := NewGasModel(gas)
	g.Log = quietLogger()
	l := new(aerosol.Layout)
	if err := g.AddTo(l); err != nil {
		t.Fatal(err)
	}
	s, err := aerosol.NewState(l, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Unresolved access reads the state directly.
	if err := g.SetConcentration(s, co2, 1.5e-2, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.InitializeStateIndices(s); err != nil {
		t.Fatal(err)
	}
	c, err := g.Concentration(s, co2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if c != 1.5e-2 {
		t.Errorf("have %g, want 1.5e-2", c)
	}
	var le *aerosol.LookupError
	if _, err := g.Concentration(s, poa, 0); !errors.As(err, &le) {
		t.Errorf("have %v, want a *LookupError", err)
	}
}

func TestSystem(t *testing.T) {
	g := NewGasModel(gas)
	g.Log = quietLogger()
	am, mode, _ := testAerosol(t)
	sys, err := ConfigureSystem(g, am)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sys.Phases["CLOUD.accumulation.AQUEOUS"]; !ok {
		t.Errorf("missing scheme phase in %v", sys.Phases)
	}
	if _, ok := sys.Phases["GAS"]; !ok {
		t.Error("missing gas phase")
	}
	if len(sys.Others) != 6 {
		t.Errorf("have %d moment names, want 6", len(sys.Others))
	}
	if err := sys.AddModels(testModel(t)); err != nil {
		t.Fatal(err)
	}
	l, err := sys.Layout()
	if err != nil {
		t.Fatal(err)
	}
	if l.Variables[0] != "GAS.CO2" {
		t.Errorf("gas species should come first; have %s", l.Variables[0])
	}
	if o, _ := l.Owner("SMM.ORGANIC.POA"); o != "MODEL.SMM" {
		t.Errorf("owner: have %s, want MODEL.SMM", o)
	}
	if o, _ := l.Owner(mode.Radius()); o != "CLOUD.accumulation" {
		t.Errorf("owner: have %s, want CLOUD.accumulation", o)
	}

	st, err := sys.NewState(3)
	if err != nil {
		t.Fatal(err)
	}
	if !mode.Resolved() {
		t.Error("schemes should be resolved by NewState")
	}
	i, err := st.ParameterIndex("SMM.GEOMETRIC_STANDARD_DEVIATION", "test")
	if err != nil {
		t.Fatal(err)
	}
	if have := st.Parameter(2, i); have != 1.6 {
		t.Errorf("default parameter: have %g, want 1.6", have)
	}

	// A second copy of the same model collides with the first.
	if err := sys.AddModels(testModel(t)); err == nil {
		t.Error("should be an error")
	}
	if len(sys.Models) != 1 {
		t.Errorf("a failed AddModels should not change the system; have %d models", len(sys.Models))
	}
}

func TestSystemAddModelsAfterNewState(t *testing.T) {
	aitken, err := scheme.NewMode("aitken", []aerosol.Phase{aqueous}, scheme.TwoMoment, 0, 1.6)
	if err != nil {
		t.Fatal(err)
	}
	am, err := NewAerosolModel("AER", []*scheme.Mode{aitken}, nil)
	if err != nil {
		t.Fatal(err)
	}
	am.Log = quietLogger()
	sys, err := ConfigureSystem(nil, am)
	if err != nil {
		t.Fatal(err)
	}
	before, err := sys.NewState(1)
	if err != nil {
		t.Fatal(err)
	}

	rep, err := representation.NewTwoMomentMode("REP", []aerosol.Phase{aqueous}, 1.8)
	if err != nil {
		t.Fatal(err)
	}
	m := New("M", rep)
	m.Log = quietLogger()
	if err := sys.AddModels(m); err != nil {
		t.Fatal(err)
	}
	after, err := sys.NewState(1)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range aitken.StateVariableNames() {
		i, err := before.VariableIndex(name, "test")
		if err != nil {
			t.Fatal(err)
		}
		j, err := after.VariableIndex(name, "test")
		if err != nil {
			t.Fatal(err)
		}
		if i != j {
			t.Errorf("%s moved from column %d to %d", name, i, j)
		}
	}

	if err := am.SetNumberConcentration(after, aitken, 42, 0); err != nil {
		t.Fatal(err)
	}
	want, err := after.VariableIndex(aitken.NumberConcentration(), "test")
	if err != nil {
		t.Fatal(err)
	}
	for j, name := range after.Layout().Variables {
		v := after.Variable(0, j)
		if j == want && v != 42 {
			t.Errorf("%s: have %g, want 42", name, v)
		} else if j != want && v != 0 {
			t.Errorf("%s: have %g, want 0", name, v)
		}
	}

	// The scheme is now bound to the newer state.
	var ue *aerosol.UsageError
	if err := aitken.SetNumber(before, 1, 0); !errors.As(err, &ue) || !ue.Stale {
		t.Errorf("have %v, want a stale *UsageError", err)
	}
	n, err := am.NumberConcentration(before, aitken, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("number: have %g, want 0", n)
	}
}

func TestGasModelOtherLayout(t *testing.T) {
	g := NewGasModel(gas)
	g.Log = quietLogger()
	l := new(aerosol.Layout)
	if err := g.AddTo(l); err != nil {
		t.Fatal(err)
	}
	s, err := aerosol.NewState(l, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.InitializeStateIndices(s); err != nil {
		t.Fatal(err)
	}

	l2, err := Layout(nil, testModel(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.AddTo(l2); err != nil {
		t.Fatal(err)
	}
	s2, err := aerosol.NewState(l2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetConcentration(s2, co2, 3, 0); err != nil {
		t.Fatal(err)
	}
	i, err := s2.VariableIndex("GAS.CO2", "test")
	if err != nil {
		t.Fatal(err)
	}
	if i == 0 {
		t.Fatal("GAS.CO2 should not be the first column")
	}
	if have := s2.Variable(0, i); have != 3 {
		t.Errorf("have %g, want 3", have)
	}
	if have := s2.Variable(0, 0); have != 0 {
		t.Errorf("first column: have %g, want 0", have)
	}
}

func TestConfigureSystemCollision(t *testing.T) {
	a, _, _ := testAerosol(t)
	b, _, _ := testAerosol(t)
	var ce *aerosol.ConfigError
	if _, err := ConfigureSystem(nil, a, b); !errors.As(err, &ce) {
		t.Errorf("have %v, want a *ConfigError", err)
	}
}
