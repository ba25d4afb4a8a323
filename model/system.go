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
	"github.com/spatialmodel/aerosol"
	"github.com/spatialmodel/aerosol/scheme"
)

// System is a gas phase together with the aerosol models and
// representation models that share its state.
type System struct {
	Gas      *GasModel
	Aerosols []*AerosolModel
	Models   []*Model

	// Phases holds the gas phase under its own name and each scheme
	// phase under "MODEL.SCHEME.PHASE".
	Phases map[string]aerosol.Phase

	// Others holds the names of the scalar moment variables of every
	// scheme.
	Others []string
}

// ConfigureSystem returns a system made of gas and aerosols. gas may
// be nil. A *ConfigError is returned if any two state names collide.
func ConfigureSystem(gas *GasModel, aerosols ...*AerosolModel) (*System, error) {
	s := &System{
		Gas:      gas,
		Aerosols: aerosols,
		Phases:   make(map[string]aerosol.Phase),
	}
	if gas != nil {
		s.Phases[gas.Phase.Name] = gas.Phase
	}
	for _, m := range aerosols {
		for _, sc := range m.Schemes() {
			scope := m.Scope(sc)
			for _, p := range sc.Phases() {
				s.Phases[aerosol.Join(scope, p.Name)] = p
			}
			for _, mom := range scheme.Moments {
				s.Others = append(s.Others, aerosol.Join(scope, mom))
			}
		}
	}
	if _, err := s.Layout(); err != nil {
		return nil, err
	}
	return s, nil
}

// AddModels validates models and adds them to the system.
func (s *System) AddModels(models ...*Model) error {
	for _, m := range models {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	s.Models = append(s.Models, models...)
	if _, err := s.Layout(); err != nil {
		s.Models = s.Models[:len(s.Models)-len(models)]
		return err
	}
	return nil
}

// Layout returns the state layout of the system: the gas species, then
// the aerosol model schemes, then the representation models. Models
// added by AddModels are appended, so the columns of the gas and
// aerosol schemes do not move.
func (s *System) Layout() (*aerosol.Layout, error) {
	l := new(aerosol.Layout)
	if s.Gas != nil {
		if err := s.Gas.AddTo(l); err != nil {
			return nil, err
		}
	}
	for _, m := range s.Aerosols {
		if err := m.AddTo(l); err != nil {
			return nil, err
		}
	}
	for _, m := range s.Models {
		if err := m.AddTo(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// NewState returns a state with cells grid cells laid out for the
// system, with the representations' default parameters set and the
// state indices of the gas and aerosol models bound to it. Schemes
// bound to an earlier state of the system are rebound, and using them
// directly with that earlier state returns a *UsageError.
func (s *System) NewState(cells int) (*aerosol.State, error) {
	l, err := s.Layout()
	if err != nil {
		return nil, err
	}
	st, err := aerosol.NewState(l, cells)
	if err != nil {
		return nil, err
	}
	for _, m := range s.Models {
		if err := m.SetDefaultParameters(st); err != nil {
			return nil, err
		}
	}
	if s.Gas != nil {
		if err := s.Gas.InitializeStateIndices(st); err != nil {
			return nil, err
		}
	}
	for _, m := range s.Aerosols {
		if err := m.InitializeStateIndices(st); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Layout returns the state layout of gas followed by models. gas may
// be nil.
func Layout(gas *GasModel, models ...*Model) (*aerosol.Layout, error) {
	l := new(aerosol.Layout)
	if gas != nil {
		if err := gas.AddTo(l); err != nil {
			return nil, err
		}
	}
	for _, m := range models {
		if err := m.AddTo(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}
