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

// Package process holds chemical processes that act on particle
// populations and the rate laws they are parameterized with.
package process

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/atmos/seinfeld"
	"github.com/spatialmodel/aerosol"
)

// RateConstant is a rate or equilibrium constant that depends on the
// ambient conditions.
type RateConstant interface {
	Calculate(c aerosol.Conditions) float64
}

// RateFunc adapts a function to the RateConstant interface.
type RateFunc func(c aerosol.Conditions) float64

// Calculate returns f(c).
func (f RateFunc) Calculate(c aerosol.Conditions) float64 { return f(c) }

// Constant is a rate constant that does not depend on the conditions.
type Constant float64

// Calculate returns k.
func (k Constant) Calculate(aerosol.Conditions) float64 { return float64(k) }

// EquilibriumConstant is a temperature-dependent equilibrium constant:
//
//	K_eq = A exp(C (1/T0 - 1/T))
type EquilibriumConstant struct {
	A  float64 // Pre-exponential factor [unitless]
	C  float64 // Temperature dependence [K]
	T0 float64 // Reference temperature [K]; 298.15 if zero.
}

// NewEquilibriumConstant returns an equilibrium constant with A = 1,
// C = 0, and T0 = 298.15 K, which is 1 at all temperatures.
func NewEquilibriumConstant() EquilibriumConstant {
	return EquilibriumConstant{A: 1, C: 0, T0: aerosol.StandardTemperature}
}

// Calculate returns the equilibrium constant at the temperature of c.
func (k EquilibriumConstant) Calculate(c aerosol.Conditions) float64 {
	return k.CalculateTemperature(c.Temperature)
}

// CalculateTemperature returns the equilibrium constant at temperature t [K].
func (k EquilibriumConstant) CalculateTemperature(t float64) float64 {
	t0 := k.T0
	if t0 == 0 {
		t0 = aerosol.StandardTemperature
	}
	return k.A * math.Exp(k.C*(1/t0-1/t))
}

// ArrheniusRateConstant is a rate constant of the form
//
//	k = A exp(C/T) (T/D)^B (1 + E P)
type ArrheniusRateConstant struct {
	A float64
	B float64
	C float64 // [K]
	D float64 // [K]; 300 if zero.
	E float64 // [Pa-1]
}

// NewArrheniusRateConstant returns a rate constant with A = 1 and
// D = 300 K, which is 1 at all conditions.
func NewArrheniusRateConstant() ArrheniusRateConstant {
	return ArrheniusRateConstant{A: 1, D: 300}
}

// Calculate returns the rate constant at conditions c.
func (k ArrheniusRateConstant) Calculate(c aerosol.Conditions) float64 {
	d := k.D
	if d == 0 {
		d = 300
	}
	t := c.Temperature
	return k.A * math.Exp(k.C/t) * math.Pow(t/d, k.B) * (1 + k.E*c.Pressure)
}

// TemperatureAdjustedRate is a rate constant known at 298 K and
// adjusted to other temperatures with the van 't Hoff relation
// (Seinfeld and Pandis equation 7.5).
type TemperatureAdjustedRate struct {
	K298  float64
	EperR float64 // [K]
}

// Calculate returns the rate constant at the temperature of c.
func (k TemperatureAdjustedRate) Calculate(c aerosol.Conditions) float64 {
	return seinfeld.TemperatureAdjustRate(k.K298, k.EperR, c.Temperature)
}

// ExpressionRate is a rate constant written as an expression of the
// temperature T [K], pressure P [Pa], and air density M [mol m-3]. The
// functions exp, log, pow, and sqrt are available, e.g.
//
//	1.2e-3 * exp(2100 * (1/298.15 - 1/T))
type ExpressionRate struct {
	Expression string
	expr       *govaluate.EvaluableExpression
}

var expressionFunctions = map[string]govaluate.ExpressionFunction{
	"exp":  mathFunc1("exp", math.Exp),
	"log":  mathFunc1("log", math.Log),
	"sqrt": mathFunc1("sqrt", math.Sqrt),
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("aerosol: got %d arguments for function 'pow', but needs 2", len(args))
		}
		x, ok1 := args[0].(float64)
		y, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("aerosol: arguments to 'pow' must be numbers")
		}
		return math.Pow(x, y), nil
	},
}

func mathFunc1(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("aerosol: got %d arguments for function '%s', but needs 1", len(args), name)
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("aerosol: argument to '%s' must be a number", name)
		}
		return f(x), nil
	}
}

// NewExpressionRate parses expression and checks that it evaluates to a
// number at standard conditions.
func NewExpressionRate(expression string) (*ExpressionRate, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, expressionFunctions)
	if err != nil {
		return nil, aerosol.ConfigErrorf("", "rate expression '%s': %v", expression, err)
	}
	for _, v := range expr.Vars() {
		switch v {
		case "T", "P", "M":
		default:
			return nil, aerosol.ConfigErrorf("", "rate expression '%s': unknown variable '%s'; "+
				"only T, P, and M are allowed", expression, v)
		}
	}
	k := &ExpressionRate{Expression: expression, expr: expr}
	if _, err := k.Evaluate(aerosol.NewConditions(aerosol.StandardTemperature, aerosol.StandardPressure)); err != nil {
		return nil, err
	}
	return k, nil
}

// Evaluate returns the value of the expression at conditions c.
func (k *ExpressionRate) Evaluate(c aerosol.Conditions) (float64, error) {
	v, err := k.expr.Evaluate(map[string]interface{}{
		"T": c.Temperature,
		"P": c.Pressure,
		"M": c.AirDensity,
	})
	if err != nil {
		return 0, aerosol.ConfigErrorf("", "rate expression '%s': %v", k.Expression, err)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, aerosol.ConfigErrorf("", "rate expression '%s' evaluates to %T, not a number", k.Expression, v)
	}
	return f, nil
}

// Calculate returns the value of the expression at conditions c. It
// panics if the expression cannot be evaluated, which NewExpressionRate
// has already checked for.
func (k *ExpressionRate) Calculate(c aerosol.Conditions) float64 {
	v, err := k.Evaluate(c)
	if err != nil {
		panic(err)
	}
	return v
}
