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
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aerosol"
	"github.com/spatialmodel/aerosol/scheme"
)

// Scheme is a modal or sectional aerosol scheme.
type Scheme interface {
	Name() string
	Phases() []aerosol.Phase
	Type() scheme.DistributionType
	SetScope(scope string) error
	StateVariableNames() []string
	Resolved() bool
	BoundTo(s *aerosol.State) bool
	Indices() (*scheme.Indices, error)
	InitializeStateIndices(s *aerosol.State) error
	Concentration(s *aerosol.State, phase aerosol.Phase, species aerosol.Species, cell int) (float64, error)
	SetConcentration(s *aerosol.State, phase aerosol.Phase, species aerosol.Species, value float64, cell int) error
	Number(s *aerosol.State, cell int) (float64, error)
	SetNumber(s *aerosol.State, value float64, cell int) error
	SetParticleDensity(s *aerosol.State, value float64, cell int) error
	EffectiveRadius(s *aerosol.State, cell int) (float64, error)
	UpdateRadius(s *aerosol.State, cell int) error
}

// AerosolModel is an aerosol or cloud made of modes and sections. The
// state names of its schemes are placed under the model's name, e.g.
// "CLOUD.large_drop.AQUEOUS.H2O".
type AerosolModel struct {
	Name     string
	Modes    []*scheme.Mode
	Sections []*scheme.Section

	// Log receives the state index bindings at debug level.
	// logrus.StandardLogger() is used if it is nil.
	Log logrus.FieldLogger
}

// NewAerosolModel returns an aerosol model called name and scopes each
// mode and section to it. A *ConfigError is returned if two schemes
// share a name or a scheme already has resolved state indices.
func NewAerosolModel(name string, modes []*scheme.Mode, sections []*scheme.Section) (*AerosolModel, error) {
	m := &AerosolModel{Name: name, Modes: modes, Sections: sections}
	seen := make(map[string]bool)
	for _, s := range m.Schemes() {
		if seen[s.Name()] {
			return nil, aerosol.ConfigErrorf(name, "scheme name '%s' is used more than once", s.Name())
		}
		seen[s.Name()] = true
		if err := s.SetScope(name); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *AerosolModel) log() logrus.FieldLogger {
	if m.Log == nil {
		return logrus.StandardLogger()
	}
	return m.Log
}

// Schemes returns the modes followed by the sections.
func (m *AerosolModel) Schemes() []Scheme {
	o := make([]Scheme, 0, len(m.Modes)+len(m.Sections))
	for _, s := range m.Modes {
		o = append(o, s)
	}
	for _, s := range m.Sections {
		o = append(o, s)
	}
	return o
}

// Scheme returns the mode or section called name.
func (m *AerosolModel) Scheme(name string) (Scheme, error) {
	for _, s := range m.Schemes() {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, &aerosol.LookupError{Kind: "scheme", Key: name, Owner: m.Name}
}

// Scope returns the prefix of the state names of sc.
func (m *AerosolModel) Scope(sc Scheme) string { return aerosol.Join(m.Name, sc.Name()) }

// StateVariableNames returns the sorted state variable names of all
// schemes.
func (m *AerosolModel) StateVariableNames() []string {
	var names []string
	for _, s := range m.Schemes() {
		names = append(names, s.StateVariableNames()...)
	}
	return sortedCopy(names)
}

// AddTo adds the state variable names of each scheme to l.
func (m *AerosolModel) AddTo(l *aerosol.Layout) error {
	for _, s := range m.Schemes() {
		if err := l.Add(m.Scope(s), s.StateVariableNames(), nil); err != nil {
			return err
		}
	}
	return nil
}

// InitializeStateIndices resolves the state indices of every scheme
// against the layout of s. Schemes already bound to that layout are
// left as they are; schemes bound to another layout are rebound.
func (m *AerosolModel) InitializeStateIndices(s *aerosol.State) error {
	for _, sc := range m.Schemes() {
		if err := m.resolve(s, sc); err != nil {
			return err
		}
	}
	return nil
}

func (m *AerosolModel) resolve(s *aerosol.State, sc Scheme) error {
	if sc.BoundTo(s) {
		return nil
	}
	if err := sc.InitializeStateIndices(s); err != nil {
		return err
	}
	idx, err := sc.Indices()
	if err != nil {
		return err
	}
	log := m.log().WithFields(logrus.Fields{"model": m.Name, "scheme": sc.Name()})
	for key, i := range idx.Species {
		log.WithFields(logrus.Fields{"key": key, "index": i}).Debug("bound state index")
	}
	log.WithFields(logrus.Fields{
		"number":  idx.Number,
		"density": idx.Density,
		"radius":  idx.Radius,
	}).Debug("bound moment indices")
	return nil
}

// member checks that sc belongs to m and resolves it.
func (m *AerosolModel) member(s *aerosol.State, sc Scheme) error {
	for _, o := range m.Schemes() {
		if o == sc {
			return m.resolve(s, sc)
		}
	}
	return aerosol.ConfigErrorf(m.Name, "scheme '%s' is not part of this model", sc.Name())
}

// SetConcentration sets the concentration [mol m-3] of species in phase
// of scheme sc in grid cell cell, resolving state indices first if needed.
func (m *AerosolModel) SetConcentration(s *aerosol.State, sc Scheme, phase aerosol.Phase, species aerosol.Species, value float64, cell int) error {
	if err := m.member(s, sc); err != nil {
		return err
	}
	return sc.SetConcentration(s, phase, species, value, cell)
}

// Concentration returns the concentration [mol m-3] of species in phase
// of scheme sc in grid cell cell.
func (m *AerosolModel) Concentration(s *aerosol.State, sc Scheme, phase aerosol.Phase, species aerosol.Species, cell int) (float64, error) {
	if err := m.member(s, sc); err != nil {
		return 0, err
	}
	return sc.Concentration(s, phase, species, cell)
}

// SetNumberConcentration sets the number concentration [# m-3] of
// scheme sc in grid cell cell.
func (m *AerosolModel) SetNumberConcentration(s *aerosol.State, sc Scheme, value float64, cell int) error {
	if err := m.member(s, sc); err != nil {
		return err
	}
	return sc.SetNumber(s, value, cell)
}

// NumberConcentration returns the number concentration [# m-3] of
// scheme sc in grid cell cell.
func (m *AerosolModel) NumberConcentration(s *aerosol.State, sc Scheme, cell int) (float64, error) {
	if err := m.member(s, sc); err != nil {
		return 0, err
	}
	return sc.Number(s, cell)
}

// SetDensity sets the particle density [kg m-3] of scheme sc in grid
// cell cell.
func (m *AerosolModel) SetDensity(s *aerosol.State, sc Scheme, value float64, cell int) error {
	if err := m.member(s, sc); err != nil {
		return err
	}
	return sc.SetParticleDensity(s, value, cell)
}

// EffectiveRadius returns the effective radius [m] of scheme sc in grid
// cell cell.
func (m *AerosolModel) EffectiveRadius(s *aerosol.State, sc Scheme, cell int) (float64, error) {
	if err := m.member(s, sc); err != nil {
		return 0, err
	}
	return sc.EffectiveRadius(s, cell)
}

// UpdateRadius writes the effective radius of scheme sc in grid cell
// cell into the state.
func (m *AerosolModel) UpdateRadius(s *aerosol.State, sc Scheme, cell int) error {
	if err := m.member(s, sc); err != nil {
		return err
	}
	return sc.UpdateRadius(s, cell)
}

// UpdateRadii writes the effective radius of every scheme in every grid
// cell into the state.
func (m *AerosolModel) UpdateRadii(s *aerosol.State) error {
	for _, sc := range m.Schemes() {
		for cell := 0; cell < s.NumCells(); cell++ {
			if err := m.UpdateRadius(s, sc, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedCopy(s []string) []string {
	o := append([]string(nil), s...)
	sort.Strings(o)
	return o
}
