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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ctessum/unit"
	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aerosol"
	"github.com/spatialmodel/aerosol/internal/hash"
	"github.com/spatialmodel/aerosol/model"
	"github.com/spatialmodel/aerosol/process"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

// modelConfig reads the model description file named by the "model"
// option.
func modelConfig(cmd *cobra.Command) (*ModelConfig, error) {
	path := Cfg.GetString("model")
	if path == "" {
		return nil, fmt.Errorf("aerosol: no model description file given; use the --model flag")
	}
	c, err := LoadConfig(os.ExpandEnv(path))
	if err != nil {
		return nil, err
	}
	if Cfg.GetBool("verbose") {
		fmt.Fprintf(cmd.OutOrStdout(), "%# v\n", pretty.Formatter(c))
	}
	return c, nil
}

// Layout writes the state variable and parameter names of the system
// described by c to w, each with the population that owns it. If
// xlsxPath is not empty, the same table is saved there as an Excel
// workbook. If cdfPath is not empty, a state with the given number of
// grid cells, default parameters, and the configured initial values is
// written there in netCDF format.
func Layout(w io.Writer, c *ModelConfig, cells int, cdfPath, xlsxPath string) error {
	sys, err := c.Build()
	if err != nil {
		return err
	}
	l, err := sys.Layout()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d state variables:\n", len(l.Variables))
	for i, n := range l.Variables {
		owner, _ := l.Owner(n)
		fmt.Fprintf(w, "%6d  %-50s %s\n", i, n, owner)
	}
	fmt.Fprintf(w, "%d state parameters:\n", len(l.Parameters))
	for i, n := range l.Parameters {
		owner, _ := l.Owner(n)
		fmt.Fprintf(w, "%6d  %-50s %s\n", i, n, owner)
	}
	fmt.Fprintf(w, "layout hash: %s\n", l.Hash())
	fmt.Fprintf(w, "model hash: %s\n", hash.Object(c))

	if xlsxPath != "" {
		if err := WriteLayoutXLSX(xlsxPath, l); err != nil {
			return err
		}
		logrus.WithField("file", xlsxPath).Info("wrote layout workbook")
	}
	if cdfPath == "" {
		return nil
	}
	s, err := initialState(c, sys, cells)
	if err != nil {
		return err
	}
	f, err := os.Create(cdfPath)
	if err != nil {
		return fmt.Errorf("aerosol: creating state file: %v", err)
	}
	if err := s.WriteCDF(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("aerosol: closing state file: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"file":  cdfPath,
		"cells": cells,
	}).Info("wrote state")
	return nil
}

func initialState(c *ModelConfig, sys *model.System, cells int) (*aerosol.State, error) {
	s, err := sys.NewState(cells)
	if err != nil {
		return nil, err
	}
	if err := c.Initialize(sys, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Radius writes the effective radius of every mode and section of the
// system described by c in every grid cell to w, after setting the
// configured initial values. Populations whose moments are too small
// for a radius to be calculated are reported as such.
func Radius(w io.Writer, c *ModelConfig, cells int) error {
	sys, err := c.Build()
	if err != nil {
		return err
	}
	s, err := initialState(c, sys, cells)
	if err != nil {
		return err
	}
	for _, am := range sys.Aerosols {
		for _, sc := range am.Schemes() {
			for cell := 0; cell < cells; cell++ {
				r, err := am.EffectiveRadius(s, sc, cell)
				var de *aerosol.DomainError
				if errors.As(err, &de) {
					logrus.WithFields(logrus.Fields{
						"scheme": am.Scope(sc),
						"cell":   cell,
					}).Warn(err)
					fmt.Fprintf(w, "%-30s %6d  %s\n", am.Scope(sc), cell, "undefined")
					continue
				} else if err != nil {
					return err
				}
				if err := am.UpdateRadius(s, sc, cell); err != nil {
					return err
				}
				fmt.Fprintf(w, "%-30s %6d  %.4g (%s)\n", am.Scope(sc), cell, unit.New(r, unit.Meter), sc.Type())
			}
		}
	}
	return nil
}

// rateSeries holds the rate constants of one reaction at a series of
// temperatures.
type rateSeries struct {
	name             string
	forward, reverse process.Derivation
	kf, kr, keq      []float64
}

// evaluateRates calculates the rate constants of every reaction in sys
// at steps evenly spaced temperatures between tmin and tmax [K] and
// pressure p [Pa].
func evaluateRates(sys *model.System, tmin, tmax float64, steps int, p float64) ([]aerosol.Conditions, []rateSeries, error) {
	if steps < 1 {
		return nil, nil, fmt.Errorf("aerosol: the number of temperatures must be at least 1; got %d", steps)
	}
	temps := []float64{tmin}
	if steps > 1 {
		temps = floats.Span(make([]float64, steps), tmin, tmax)
	}
	conds := make([]aerosol.Conditions, len(temps))
	for i, t := range temps {
		var err error
		if conds[i], err = aerosol.ConditionsFromUnits(unit.New(t, unit.Kelvin), unit.New(p, unit.Pascal)); err != nil {
			return nil, nil, err
		}
	}
	var series []rateSeries
	for _, m := range sys.Models {
		for _, rxn := range m.Reactions {
			rs := rateSeries{
				name:    aerosol.Join(m.Name, rxn.Name),
				forward: rxn.ForwardDerivation,
				reverse: rxn.ReverseDerivation,
				kf:      make([]float64, len(conds)),
				kr:      make([]float64, len(conds)),
				keq:     make([]float64, len(conds)),
			}
			for i, cond := range conds {
				rs.kf[i] = rxn.ForwardRate(cond)
				rs.kr[i] = rxn.ReverseRate(cond)
				rs.keq[i] = rxn.EquilibriumConstant(cond)
			}
			series = append(series, rs)
		}
	}
	return conds, series, nil
}

// Rates writes the forward rate, reverse rate, and equilibrium constants
// of every reaction in the system described by c to w, at steps evenly
// spaced temperatures between tmin and tmax [K] and pressure p [Pa].
// If chart is true, the equilibrium constant of each reaction is also
// drawn as a text chart.
func Rates(w io.Writer, c *ModelConfig, tmin, tmax float64, steps int, p float64, chart bool) error {
	sys, err := c.Build()
	if err != nil {
		return err
	}
	conds, series, err := evaluateRates(sys, tmin, tmax, steps, p)
	if err != nil {
		return err
	}
	for _, rs := range series {
		fmt.Fprintf(w, "%s (forward %s, reverse %s)\n", rs.name, rs.forward, rs.reverse)
		fmt.Fprintf(w, "%10s %14s %14s %14s\n", "T [K]", "k_f", "k_r", "K_eq")
		for i, cond := range conds {
			fmt.Fprintf(w, "%10.2f %14.6g %14.6g %14.6g\n", cond.Temperature, rs.kf[i], rs.kr[i], rs.keq[i])
		}
		if chart {
			fmt.Fprintln(w, equilibriumChart(rs, conds))
		}
	}
	return nil
}
