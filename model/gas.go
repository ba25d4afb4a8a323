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
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aerosol"
)

// GasModel is the gas phase of a system. Its species are named
// "PHASE.SPECIES" in the state, e.g. "GAS.CO2".
type GasModel struct {
	Phase aerosol.Phase

	// Log receives the state index bindings at debug level.
	// logrus.StandardLogger() is used if it is nil.
	Log logrus.FieldLogger

	idx    map[string]int // nil until resolved
	layout *aerosol.Layout
}

// NewGasModel returns a gas model for phase.
func NewGasModel(phase aerosol.Phase) *GasModel {
	return &GasModel{Phase: phase}
}

// StateVariableNames returns the sorted state variable names of the gas
// phase species.
func (g *GasModel) StateVariableNames() []string {
	return sortedCopy(g.Phase.UniqueNames())
}

// AddTo adds the gas species to l.
func (g *GasModel) AddTo(l *aerosol.Layout) error {
	return l.Add(g.Phase.Name, g.StateVariableNames(), nil)
}

// InitializeStateIndices binds each gas species to its column in s.
// Calls with a State of the layout already bound do nothing.
func (g *GasModel) InitializeStateIndices(s *aerosol.State) error {
	if g.idx != nil && g.layout == s.Layout() {
		return nil
	}
	idx := make(map[string]int, len(g.Phase.Species))
	for _, sp := range g.Phase.Species {
		key := aerosol.Join(g.Phase.Name, sp.Name)
		i, err := s.VariableIndex(key, g.Phase.Name)
		if err != nil {
			return err
		}
		idx[key] = i
	}
	log := g.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	for key, i := range idx {
		log.WithFields(logrus.Fields{"phase": g.Phase.Name, "key": key, "index": i}).Debug("bound state index")
	}
	g.idx = idx
	g.layout = s.Layout()
	return nil
}

// index returns the column of species. Before the indices are
// resolved, or for a State of another layout, the state is searched
// directly.
func (g *GasModel) index(s *aerosol.State, species aerosol.Species) (int, error) {
	key := aerosol.Join(g.Phase.Name, species.Name)
	if g.idx == nil || g.layout != s.Layout() {
		return s.VariableIndex(key, g.Phase.Name)
	}
	i, ok := g.idx[key]
	if !ok {
		return 0, &aerosol.LookupError{Kind: "species", Key: key, Owner: g.Phase.Name}
	}
	return i, nil
}

// SetConcentration sets the concentration [mol m-3] of species in grid
// cell cell.
func (g *GasModel) SetConcentration(s *aerosol.State, species aerosol.Species, value float64, cell int) error {
	i, err := g.index(s, species)
	if err != nil {
		return err
	}
	s.SetVariable(cell, i, value)
	return nil
}

// Concentration returns the concentration [mol m-3] of species in grid
// cell cell.
func (g *GasModel) Concentration(s *aerosol.State, species aerosol.Species, cell int) (float64, error) {
	i, err := g.index(s, species)
	if err != nil {
		return 0, err
	}
	return s.Variable(cell, i), nil
}
