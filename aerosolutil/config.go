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

package aerosolutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/aerosol"
	"github.com/spatialmodel/aerosol/model"
	"github.com/spatialmodel/aerosol/process"
	"github.com/spatialmodel/aerosol/representation"
	"github.com/spatialmodel/aerosol/scheme"
	"gopkg.in/yaml.v3"
)

// ModelConfig describes the phases, populations, and reactions of a
// system. It can be read from TOML or YAML.
type ModelConfig struct {
	// Name is the name of the representation model.
	Name string `toml:"name" yaml:"name"`

	// Gas is the name of the gas phase, which must be one of Phases.
	Gas string `toml:"gas" yaml:"gas"`

	// Temperature [K] and Pressure [Pa] are the initial conditions in
	// every grid cell. Standard conditions are used if they are zero.
	Temperature float64 `toml:"temperature" yaml:"temperature"`
	Pressure    float64 `toml:"pressure" yaml:"pressure"`

	// GasConcentrations holds the initial concentration [mol m-3] of
	// each gas species by species name.
	GasConcentrations map[string]float64 `toml:"gas_concentrations" yaml:"gas_concentrations"`

	Phases          []PhaseConfig          `toml:"phases" yaml:"phases"`
	Representations []RepresentationConfig `toml:"representations" yaml:"representations"`
	Aerosols        []AerosolConfig        `toml:"aerosols" yaml:"aerosols"`
	Reactions       []ReactionConfig       `toml:"reactions" yaml:"reactions"`
}

// PhaseConfig describes a chemical phase.
type PhaseConfig struct {
	Name    string          `toml:"name" yaml:"name"`
	Species []SpeciesConfig `toml:"species" yaml:"species"`
}

// SpeciesConfig describes a chemical species.
type SpeciesConfig struct {
	Name            string  `toml:"name" yaml:"name"`
	MolecularWeight float64 `toml:"molecular_weight" yaml:"molecular_weight"` // [kg mol-1]
}

// RepresentationConfig describes a distribution. Kind is one of
// "single_moment_mode", "two_moment_mode", and "uniform_section".
type RepresentationConfig struct {
	Name   string   `toml:"name" yaml:"name"`
	Kind   string   `toml:"kind" yaml:"kind"`
	Phases []string `toml:"phases" yaml:"phases"`

	GeometricMeanRadius        float64 `toml:"geometric_mean_radius" yaml:"geometric_mean_radius"`               // [m]
	GeometricStandardDeviation float64 `toml:"geometric_standard_deviation" yaml:"geometric_standard_deviation"` // [unitless]
	MinRadius                  float64 `toml:"min_radius" yaml:"min_radius"`                                     // [m]
	MaxRadius                  float64 `toml:"max_radius" yaml:"max_radius"`                                     // [m]
}

// AerosolConfig describes an aerosol model made of modes and sections.
type AerosolConfig struct {
	Name     string         `toml:"name" yaml:"name"`
	Modes    []SchemeConfig `toml:"modes" yaml:"modes"`
	Sections []SchemeConfig `toml:"sections" yaml:"sections"`
}

// SchemeConfig describes a mode or a section and its initial state.
// Distribution is "single_moment" or "two_moment".
type SchemeConfig struct {
	Name         string   `toml:"name" yaml:"name"`
	Distribution string   `toml:"distribution" yaml:"distribution"`
	Phases       []string `toml:"phases" yaml:"phases"`

	// Modes only.
	GeometricMeanDiameter      float64 `toml:"geometric_mean_diameter" yaml:"geometric_mean_diameter"` // [m]
	GeometricStandardDeviation float64 `toml:"geometric_standard_deviation" yaml:"geometric_standard_deviation"`

	// Sections only.
	MinDiameter float64 `toml:"min_diameter" yaml:"min_diameter"` // [m]
	MaxDiameter float64 `toml:"max_diameter" yaml:"max_diameter"` // [m]

	// Initial state.
	Density             float64            `toml:"density" yaml:"density"`                           // [kg m-3]
	NumberConcentration float64            `toml:"number_concentration" yaml:"number_concentration"` // [# m-3]
	Concentrations      map[string]float64 `toml:"concentrations" yaml:"concentrations"`             // "PHASE.SPECIES" -> [mol m-3]
}

// ReactionConfig describes a dissolved reversible reaction. Exactly two
// of Forward, Reverse, and Equilibrium must be given.
type ReactionConfig struct {
	Name      string   `toml:"name" yaml:"name"`
	Phase     string   `toml:"phase" yaml:"phase"`
	Reactants []string `toml:"reactants" yaml:"reactants"`
	Products  []string `toml:"products" yaml:"products"`
	Solvent   string   `toml:"solvent" yaml:"solvent"`

	Forward     *RateConfig `toml:"forward" yaml:"forward"`
	Reverse     *RateConfig `toml:"reverse" yaml:"reverse"`
	Equilibrium *RateConfig `toml:"equilibrium" yaml:"equilibrium"`
}

// RateConfig describes a rate law. Kind is one of "constant",
// "equilibrium", "arrhenius", "temperature_adjusted", and "expression".
// Parameters left out take the rate law's defaults.
type RateConfig struct {
	Kind string `toml:"kind" yaml:"kind"`

	Value      float64  `toml:"value" yaml:"value"`
	A          *float64 `toml:"A" yaml:"A"`
	B          float64  `toml:"B" yaml:"B"`
	C          float64  `toml:"C" yaml:"C"`
	D          *float64 `toml:"D" yaml:"D"`
	E          float64  `toml:"E" yaml:"E"`
	T0         *float64 `toml:"T0" yaml:"T0"`
	K298       float64  `toml:"k298" yaml:"k298"`
	EperR      float64  `toml:"e_per_r" yaml:"e_per_r"`
	Expression string   `toml:"expression" yaml:"expression"`
}

// LoadConfig reads the model configuration at path. The format is
// chosen by the file extension.
func LoadConfig(path string) (*ModelConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("aerosol: opening model configuration: %v", err)
	}
	defer f.Close()
	return ReadConfig(f, filepath.Ext(path))
}

// ReadConfig reads a model configuration in format, which is "toml",
// "yaml", or "yml", with or without a leading dot. Unknown keys are an
// error.
func ReadConfig(r io.Reader, format string) (*ModelConfig, error) {
	c := new(ModelConfig)
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		md, err := toml.DecodeReader(r, c)
		if err != nil {
			return nil, fmt.Errorf("aerosol: reading TOML model configuration: %v", err)
		}
		if u := md.Undecoded(); len(u) > 0 {
			keys := make([]string, len(u))
			for i, k := range u {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("aerosol: unknown keys in TOML model configuration: %s", strings.Join(keys, ", "))
		}
	case "yaml", "yml":
		d := yaml.NewDecoder(r)
		d.KnownFields(true)
		if err := d.Decode(c); err != nil {
			return nil, fmt.Errorf("aerosol: reading YAML model configuration: %v", err)
		}
	default:
		return nil, fmt.Errorf("aerosol: unsupported model configuration format '%s'", format)
	}
	return c, nil
}

// phases returns the configured phases by name.
func (c *ModelConfig) phases() (map[string]aerosol.Phase, error) {
	o := make(map[string]aerosol.Phase, len(c.Phases))
	for _, pc := range c.Phases {
		if _, ok := o[pc.Name]; ok {
			return nil, aerosol.ConfigErrorf("", "phase '%s' is defined more than once", pc.Name)
		}
		species := make([]aerosol.Species, len(pc.Species))
		for i, s := range pc.Species {
			species[i] = aerosol.Species{Name: s.Name, MolecularWeight: s.MolecularWeight}
		}
		o[pc.Name] = aerosol.NewPhase(pc.Name, species...)
	}
	return o, nil
}

func phaseList(owner string, phases map[string]aerosol.Phase, names []string) ([]aerosol.Phase, error) {
	o := make([]aerosol.Phase, len(names))
	for i, n := range names {
		p, ok := phases[n]
		if !ok {
			return nil, &aerosol.LookupError{Kind: "phase", Key: n, Owner: owner}
		}
		o[i] = p
	}
	return o, nil
}

func findSpecies(owner string, phase aerosol.Phase, name string) (aerosol.Species, error) {
	for _, s := range phase.Species {
		if s.Name == name {
			return s, nil
		}
	}
	return aerosol.Species{}, &aerosol.LookupError{Kind: "species", Key: aerosol.Join(phase.Name, name), Owner: owner}
}

// Build returns the system the configuration describes.
func (c *ModelConfig) Build() (*model.System, error) {
	phases, err := c.phases()
	if err != nil {
		return nil, err
	}
	var gas *model.GasModel
	if c.Gas != "" {
		p, ok := phases[c.Gas]
		if !ok {
			return nil, &aerosol.LookupError{Kind: "phase", Key: c.Gas, Owner: "gas"}
		}
		gas = model.NewGasModel(p)
	}
	aerosols := make([]*model.AerosolModel, len(c.Aerosols))
	for i, ac := range c.Aerosols {
		if aerosols[i], err = ac.build(phases); err != nil {
			return nil, err
		}
	}
	sys, err := model.ConfigureSystem(gas, aerosols...)
	if err != nil {
		return nil, err
	}
	if len(c.Representations) == 0 && len(c.Reactions) == 0 {
		return sys, nil
	}
	m := model.New(c.Name)
	for _, rc := range c.Representations {
		r, err := rc.build(phases)
		if err != nil {
			return nil, err
		}
		m.Representations = append(m.Representations, r)
	}
	for _, rc := range c.Reactions {
		rxn, err := rc.build(phases)
		if err != nil {
			return nil, err
		}
		m.AddProcesses(rxn)
	}
	if err := sys.AddModels(m); err != nil {
		return nil, err
	}
	return sys, nil
}

func (rc RepresentationConfig) build(phases map[string]aerosol.Phase) (model.Representation, error) {
	p, err := phaseList(rc.Name, phases, rc.Phases)
	if err != nil {
		return nil, err
	}
	var r model.Representation
	switch rc.Kind {
	case "single_moment_mode":
		r, err = representation.NewSingleMomentMode(rc.Name, p, rc.GeometricMeanRadius, rc.GeometricStandardDeviation)
	case "two_moment_mode":
		r, err = representation.NewTwoMomentMode(rc.Name, p, rc.GeometricStandardDeviation)
	case "uniform_section":
		r, err = representation.NewUniformSection(rc.Name, p, rc.MinRadius, rc.MaxRadius)
	default:
		return nil, aerosol.ConfigErrorf(rc.Name, "invalid representation kind '%s'", rc.Kind)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (ac AerosolConfig) build(phases map[string]aerosol.Phase) (*model.AerosolModel, error) {
	modes := make([]*scheme.Mode, len(ac.Modes))
	for i, sc := range ac.Modes {
		p, err := phaseList(sc.Name, phases, sc.Phases)
		if err != nil {
			return nil, err
		}
		typ, err := scheme.ParseDistributionType(sc.Distribution)
		if err != nil {
			return nil, err
		}
		if modes[i], err = scheme.NewMode(sc.Name, p, typ, sc.GeometricMeanDiameter, sc.GeometricStandardDeviation); err != nil {
			return nil, err
		}
	}
	sections := make([]*scheme.Section, len(ac.Sections))
	for i, sc := range ac.Sections {
		p, err := phaseList(sc.Name, phases, sc.Phases)
		if err != nil {
			return nil, err
		}
		typ, err := scheme.ParseDistributionType(sc.Distribution)
		if err != nil {
			return nil, err
		}
		if sections[i], err = scheme.NewSection(sc.Name, p, typ, sc.MinDiameter, sc.MaxDiameter); err != nil {
			return nil, err
		}
	}
	return model.NewAerosolModel(ac.Name, modes, sections)
}

func (rc ReactionConfig) build(phases map[string]aerosol.Phase) (*process.DissolvedReversibleReaction, error) {
	phase, ok := phases[rc.Phase]
	if !ok {
		return nil, &aerosol.LookupError{Kind: "phase", Key: rc.Phase, Owner: rc.Name}
	}
	species := func(names []string) ([]aerosol.Species, error) {
		o := make([]aerosol.Species, len(names))
		for i, n := range names {
			s, err := findSpecies(rc.Name, phase, n)
			if err != nil {
				return nil, err
			}
			o[i] = s
		}
		return o, nil
	}
	reactants, err := species(rc.Reactants)
	if err != nil {
		return nil, err
	}
	products, err := species(rc.Products)
	if err != nil {
		return nil, err
	}
	b := process.NewDissolvedReversibleReactionBuilder().
		SetName(rc.Name).
		SetPhase(phase).
		SetReactants(reactants...).
		SetProducts(products...)
	if rc.Solvent != "" {
		solvent, err := findSpecies(rc.Name, phase, rc.Solvent)
		if err != nil {
			return nil, err
		}
		b.SetSolvent(solvent)
	}
	if rc.Forward != nil {
		k, err := rc.Forward.RateConstant()
		if err != nil {
			return nil, err
		}
		b.SetForwardRateConstant(k)
	}
	if rc.Reverse != nil {
		k, err := rc.Reverse.RateConstant()
		if err != nil {
			return nil, err
		}
		b.SetReverseRateConstant(k)
	}
	if rc.Equilibrium != nil {
		k, err := rc.Equilibrium.RateConstant()
		if err != nil {
			return nil, err
		}
		b.SetEquilibriumConstant(k)
	}
	return b.Build()
}

// RateConstant returns the rate law rc describes.
func (rc *RateConfig) RateConstant() (process.RateConstant, error) {
	switch rc.Kind {
	case "constant":
		return process.Constant(rc.Value), nil
	case "equilibrium":
		k := process.NewEquilibriumConstant()
		if rc.A != nil {
			k.A = *rc.A
		}
		if rc.T0 != nil {
			k.T0 = *rc.T0
		}
		k.C = rc.C
		return k, nil
	case "arrhenius":
		k := process.NewArrheniusRateConstant()
		if rc.A != nil {
			k.A = *rc.A
		}
		if rc.D != nil {
			k.D = *rc.D
		}
		k.B, k.C, k.E = rc.B, rc.C, rc.E
		return k, nil
	case "temperature_adjusted":
		return process.TemperatureAdjustedRate{K298: rc.K298, EperR: rc.EperR}, nil
	case "expression":
		k, err := process.NewExpressionRate(rc.Expression)
		if err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, aerosol.ConfigErrorf("", "invalid rate constant kind '%s'", rc.Kind)
	}
}

// Initialize sets the configured initial conditions, gas
// concentrations, and scheme densities, number concentrations, and
// species concentrations in every grid cell of s.
func (c *ModelConfig) Initialize(sys *model.System, s *aerosol.State) error {
	t, p := c.Temperature, c.Pressure
	if t == 0 {
		t = aerosol.StandardTemperature
	}
	if p == 0 {
		p = aerosol.StandardPressure
	}
	s.SetConditions(aerosol.NewConditions(t, p))

	if len(c.GasConcentrations) > 0 && sys.Gas == nil {
		return aerosol.ConfigErrorf("", "gas concentrations are given but there is no gas phase")
	}
	for name, v := range c.GasConcentrations {
		sp, err := findSpecies("gas", sys.Gas.Phase, name)
		if err != nil {
			return err
		}
		for cell := 0; cell < s.NumCells(); cell++ {
			if err := sys.Gas.SetConcentration(s, sp, v, cell); err != nil {
				return err
			}
		}
	}
	for i, ac := range c.Aerosols {
		am := sys.Aerosols[i]
		for _, sc := range append(append([]SchemeConfig(nil), ac.Modes...), ac.Sections...) {
			if err := sc.initialize(am, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (sc SchemeConfig) initialize(am *model.AerosolModel, s *aerosol.State) error {
	scm, err := am.Scheme(sc.Name)
	if err != nil {
		return err
	}
	for key, v := range sc.Concentrations {
		parts := strings.SplitN(key, ".", 2)
		if len(parts) != 2 {
			return aerosol.ConfigErrorf(sc.Name, "concentration key '%s' is not of the form PHASE.SPECIES", key)
		}
		var phase *aerosol.Phase
		for i, p := range scm.Phases() {
			if p.Name == parts[0] {
				phase = &scm.Phases()[i]
			}
		}
		if phase == nil {
			return &aerosol.LookupError{Kind: "phase", Key: parts[0], Owner: sc.Name}
		}
		sp, err := findSpecies(sc.Name, *phase, parts[1])
		if err != nil {
			return err
		}
		for cell := 0; cell < s.NumCells(); cell++ {
			if err := am.SetConcentration(s, scm, *phase, sp, v, cell); err != nil {
				return err
			}
		}
	}
	for cell := 0; cell < s.NumCells(); cell++ {
		if err := am.SetDensity(s, scm, sc.Density, cell); err != nil {
			return err
		}
		if err := am.SetNumberConcentration(s, scm, sc.NumberConcentration, cell); err != nil {
			return err
		}
	}
	return nil
}
