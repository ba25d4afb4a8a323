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
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aerosol"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// equilibriumChart draws the equilibrium constant of rs against
// temperature as text.
func equilibriumChart(rs rateSeries, conds []aerosol.Conditions) string {
	if len(conds) < 2 {
		return ""
	}
	return asciigraph.Plot(rs.keq,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("%s K_eq, %.2f K to %.2f K", rs.name,
			conds[0].Temperature, conds[len(conds)-1].Temperature)),
	)
}

// PlotRates draws the base-10 logarithm of the equilibrium constant of
// every reaction in the system described by c against temperature and
// saves the figure to path. The image format is chosen by the file
// extension, e.g. ".png" or ".svg". The arguments are as for Rates.
func PlotRates(path string, c *ModelConfig, tmin, tmax float64, steps int, p float64) error {
	sys, err := c.Build()
	if err != nil {
		return err
	}
	conds, series, err := evaluateRates(sys, tmin, tmax, steps, p)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("aerosol: there are no reactions to plot")
	}
	plt, err := plot.New()
	if err != nil {
		return err
	}
	plt.Title.Text = "Equilibrium constants"
	plt.X.Label.Text = "Temperature (K)"
	plt.Y.Label.Text = "log10 K_eq"
	plt.Legend.Top = true

	var lines []interface{}
	for _, rs := range series {
		xy := make(plotter.XYs, len(conds))
		for i, cond := range conds {
			xy[i].X = cond.Temperature
			xy[i].Y = math.Log10(rs.keq[i])
		}
		lines = append(lines, rs.name, xy)
	}
	if err := plotutil.AddLinePoints(plt, lines...); err != nil {
		return fmt.Errorf("aerosol: plotting equilibrium constants: %v", err)
	}
	if err := plt.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("aerosol: saving plot: %v", err)
	}
	logrus.WithField("file", path).Info("saved rate plot")
	return nil
}
