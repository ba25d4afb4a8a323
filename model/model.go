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

// Package model aggregates particle populations and the processes that
// act on them into the models a chemistry solver is configured with.
package model

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aerosol"
	"github.com/spatialmodel/aerosol/process"
)

// Representation is a particle population that occupies state
// variables and state parameters.
type Representation interface {
	Name() string
	Phases() []aerosol.Phase
	StateSize() (variables, parameters int)
	StateVariableNames() []string
	StateParameterNames() []string
	SetDefaultParameters(s *aerosol.State) error
}

// Model is a collection of representations and processes that together
// describe an aerosol or cloud system.
type Model struct {
	Name            string
	Representations []Representation
	Reactions       []*process.DissolvedReversibleReaction

	// Log receives debugging information. logrus.StandardLogger()
	// is used if it is nil.
	Log logrus.FieldLogger
}

// New returns a model called name made of representations.
func New(name string, representations ...Representation) *Model {
	return &Model{Name: name, Representations: representations}
}

func (m *Model) log() logrus.FieldLogger {
	if m.Log == nil {
		return logrus.StandardLogger()
	}
	return m.Log
}

// StateSize returns the total number of state variables and parameters
// of the model's representations.
func (m *Model) StateSize() (variables, parameters int) {
	for _, r := range m.Representations {
		v, p := r.StateSize()
		variables += v
		parameters += p
	}
	return variables, parameters
}

// StateVariableNames returns the sorted union of the representations'
// state variable names.
func (m *Model) StateVariableNames() []string {
	return union(m.Representations, Representation.StateVariableNames)
}

// StateParameterNames returns the sorted union of the representations'
// state parameter names.
func (m *Model) StateParameterNames() []string {
	return union(m.Representations, Representation.StateParameterNames)
}

func union(reps []Representation, names func(Representation) []string) []string {
	set := make(map[string]struct{})
	for _, r := range reps {
		for _, n := range names(r) {
			set[n] = struct{}{}
		}
	}
	o := make([]string, 0, len(set))
	for n := range set {
		o = append(o, n)
	}
	sort.Strings(o)
	return o
}

// SpeciesUsed returns the sorted state variable names of the species
// that take part in the model's reactions, in every representation that
// contains the reaction's phase. Without reactions, all state variable
// names are returned.
func (m *Model) SpeciesUsed() []string {
	if len(m.Reactions) == 0 {
		return m.StateVariableNames()
	}
	vars := make(map[string]bool)
	for _, n := range m.StateVariableNames() {
		vars[n] = true
	}
	set := make(map[string]struct{})
	for _, rxn := range m.Reactions {
		species := append(append(append([]aerosol.Species(nil), rxn.Reactants...), rxn.Products...), rxn.Solvent)
		for _, r := range m.Representations {
			for _, p := range r.Phases() {
				if p.Name != rxn.Phase.Name {
					continue
				}
				for _, s := range species {
					if n := aerosol.Join(r.Name(), p.Name, s.Name); vars[n] {
						set[n] = struct{}{}
					}
				}
			}
		}
	}
	o := make([]string, 0, len(set))
	for n := range set {
		o = append(o, n)
	}
	sort.Strings(o)
	return o
}

// AddProcesses adds reactions to the model.
func (m *Model) AddProcesses(reactions ...*process.DissolvedReversibleReaction) {
	m.Reactions = append(m.Reactions, reactions...)
}

// Validate checks that no two representations share a name or a state
// name, and that every reaction's species belong to its phase and the
// phase is used by at least one representation.
func (m *Model) Validate() error {
	_, err := m.layout()
	if err != nil {
		return err
	}
	for _, rxn := range m.Reactions {
		if err := m.validateReaction(rxn); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) layout() (*aerosol.Layout, error) {
	l := new(aerosol.Layout)
	if err := m.AddTo(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (m *Model) validateReaction(rxn *process.DissolvedReversibleReaction) error {
	owner := aerosol.Join(m.Name, rxn.Name)
	used := false
	for _, r := range m.Representations {
		for _, p := range r.Phases() {
			if p.Name == rxn.Phase.Name {
				used = true
			}
		}
	}
	if !used {
		return aerosol.ConfigErrorf(owner, "phase '%s' is not part of any representation", rxn.Phase.Name)
	}
	check := func(role string, s aerosol.Species) error {
		if !rxn.Phase.Has(s.Name) {
			return aerosol.ConfigErrorf(owner, "%s '%s' is not in phase '%s'", role, s.Name, rxn.Phase.Name)
		}
		return nil
	}
	for _, s := range rxn.Reactants {
		if err := check("reactant", s); err != nil {
			return err
		}
	}
	for _, s := range rxn.Products {
		if err := check("product", s); err != nil {
			return err
		}
	}
	if rxn.Solvent.Name != "" {
		return check("solvent", rxn.Solvent)
	}
	return nil
}

// AddTo adds the state names of each representation to l. A
// *ConfigError is returned if two representations share a name or any
// state name is already in l.
func (m *Model) AddTo(l *aerosol.Layout) error {
	names := make(map[string]bool)
	for _, r := range m.Representations {
		if names[r.Name()] {
			return aerosol.ConfigErrorf(m.Name, "representation name '%s' is used more than once", r.Name())
		}
		names[r.Name()] = true
		if err := l.Add(aerosol.Join(m.Name, r.Name()), r.StateVariableNames(), r.StateParameterNames()); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaultParameters sets the default parameter values of every
// representation in every grid cell of s.
func (m *Model) SetDefaultParameters(s *aerosol.State) error {
	for _, r := range m.Representations {
		if err := r.SetDefaultParameters(s); err != nil {
			return err
		}
		m.log().WithFields(logrus.Fields{
			"model":          m.Name,
			"representation": r.Name(),
		}).Debug("set default state parameters")
	}
	return nil
}
