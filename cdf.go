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

	"github.com/ctessum/cdf"
	"gonum.org/v1/gonum/mat"
)

const (
	cellDim     = "cell"
	kindAttr    = "kind"
	kindVar     = "variable"
	kindParam   = "parameter"
	kindCond    = "condition"
	hashAttr    = "layout_hash"
	tempVar     = "conditions.temperature"
	pressVar    = "conditions.pressure"
	airDensVar  = "conditions.air_density"
	cdfComment  = "Particle population state variables and parameters"
	cdfTempUnit = "K"
)

// WriteCDF writes s to w in NetCDF classic format. Every state variable,
// state parameter, and ambient condition becomes a float64 NetCDF
// variable over the "cell" dimension, and the layout hash is stored as a
// global attribute so the file can be matched to the layout it came from.
func (s *State) WriteCDF(w cdf.ReaderWriterAt) error {
	n := s.NumCells()
	h := cdf.NewHeader([]string{cellDim}, []int{n})
	h.AddAttribute("", "comment", cdfComment)
	h.AddAttribute("", hashAttr, s.layout.Hash())
	for _, v := range s.layout.Variables {
		h.AddVariable(v, []string{cellDim}, []float64{0})
		h.AddAttribute(v, kindAttr, kindVar)
	}
	for _, v := range s.layout.Parameters {
		h.AddVariable(v, []string{cellDim}, []float64{0})
		h.AddAttribute(v, kindAttr, kindParam)
	}
	for _, v := range []string{tempVar, pressVar, airDensVar} {
		h.AddVariable(v, []string{cellDim}, []float64{0})
		h.AddAttribute(v, kindAttr, kindCond)
	}
	h.AddAttribute(tempVar, "units", cdfTempUnit)
	h.AddAttribute(pressVar, "units", "Pa")
	h.AddAttribute(airDensVar, "units", "mol m-3")
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("aerosol: creating state file: %v", err)
	}
	write := func(name string, data []float64) error {
		wr := f.Writer(name, []int{0}, []int{n})
		if _, err := wr.Write(data); err != nil {
			return fmt.Errorf("aerosol: writing %s to state file: %v", name, err)
		}
		return nil
	}
	for i, v := range s.layout.Variables {
		if err := write(v, mat.Col(nil, i, s.Variables)); err != nil {
			return err
		}
	}
	for i, v := range s.layout.Parameters {
		if err := write(v, mat.Col(nil, i, s.Parameters)); err != nil {
			return err
		}
	}
	t := make([]float64, n)
	p := make([]float64, n)
	m := make([]float64, n)
	for i, c := range s.Conditions {
		t[i], p[i], m[i] = c.Temperature, c.Pressure, c.AirDensity
	}
	for _, d := range []struct {
		name string
		data []float64
	}{{tempVar, t}, {pressVar, p}, {airDensVar, m}} {
		if err := write(d.name, d.data); err != nil {
			return err
		}
	}
	return nil
}

// ReadCDF reads a state written by WriteCDF. The returned state has the
// same layout, values, and conditions as the one that was written.
func ReadCDF(r cdf.ReaderWriterAt) (*State, error) {
	f, err := cdf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("aerosol: opening state file: %v", err)
	}
	lengths := f.Header.Lengths(tempVar)
	if len(lengths) != 1 {
		return nil, fmt.Errorf("aerosol: state file is missing %s", tempVar)
	}
	n := lengths[0]

	l := new(Layout)
	for _, v := range f.Header.Variables() {
		switch f.Header.GetAttribute(v, kindAttr) {
		case kindVar:
			l.Variables = append(l.Variables, v)
		case kindParam:
			l.Parameters = append(l.Parameters, v)
		}
	}
	if want, ok := f.Header.GetAttribute("", hashAttr).(string); ok && want != l.Hash() {
		return nil, fmt.Errorf("aerosol: state file layout hash %s does not match its variables (%s)", want, l.Hash())
	}
	s, err := NewState(l, n)
	if err != nil {
		return nil, err
	}
	read := func(name string) ([]float64, error) {
		rd := f.Reader(name, nil, nil)
		buf := make([]float64, n)
		if _, err := rd.Read(buf); err != nil {
			return nil, fmt.Errorf("aerosol: reading %s from state file: %v", name, err)
		}
		return buf, nil
	}
	for i, v := range l.Variables {
		d, err := read(v)
		if err != nil {
			return nil, err
		}
		s.Variables.SetCol(i, d)
	}
	for i, v := range l.Parameters {
		d, err := read(v)
		if err != nil {
			return nil, err
		}
		s.Parameters.SetCol(i, d)
	}
	t, err := read(tempVar)
	if err != nil {
		return nil, err
	}
	p, err := read(pressVar)
	if err != nil {
		return nil, err
	}
	m, err := read(airDensVar)
	if err != nil {
		return nil, err
	}
	for i := range s.Conditions {
		s.Conditions[i] = Conditions{Temperature: t[i], Pressure: p[i], AirDensity: m[i]}
	}
	return s, nil
}
