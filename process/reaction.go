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

package process

import (
	"strings"

	"github.com/spatialmodel/aerosol"
)

// Derivation records where a rate constant of a reaction comes from.
type Derivation int

const (
	// Specified rate constants were given to the builder.
	Specified Derivation = iota

	// DerivedFromEquilibrium rate constants are calculated from the
	// other rate constant and the equilibrium constant.
	DerivedFromEquilibrium
)

func (d Derivation) String() string {
	if d == DerivedFromEquilibrium {
		return "derived from equilibrium"
	}
	return "specified"
}

// DissolvedReversibleReaction is a reversible reaction between species
// dissolved in a solvent:
//
//	Reactants <-> Products
//
// with forward and reverse rate constants k_f and k_r related to the
// equilibrium constant by K_eq = k_f / k_r.
type DissolvedReversibleReaction struct {
	Name      string
	Reactants []aerosol.Species
	Products  []aerosol.Species
	Solvent   aerosol.Species
	Phase     aerosol.Phase

	// ForwardDerivation and ReverseDerivation record which rate
	// constant, if any, is derived from the equilibrium constant.
	ForwardDerivation Derivation
	ReverseDerivation Derivation

	forward, reverse RateConstant
	equilibrium      RateConstant // nil unless given to the builder
}

// ForwardRate returns the forward rate constant at conditions c.
func (r *DissolvedReversibleReaction) ForwardRate(c aerosol.Conditions) float64 {
	return r.forward.Calculate(c)
}

// ReverseRate returns the reverse rate constant at conditions c.
func (r *DissolvedReversibleReaction) ReverseRate(c aerosol.Conditions) float64 {
	return r.reverse.Calculate(c)
}

// EquilibriumConstant returns the equilibrium constant at conditions c:
// the one given to the builder, or k_f / k_r if none was.
func (r *DissolvedReversibleReaction) EquilibriumConstant(c aerosol.Conditions) float64 {
	if r.equilibrium != nil {
		return r.equilibrium.Calculate(c)
	}
	return r.forward.Calculate(c) / r.reverse.Calculate(c)
}

// DissolvedReversibleReactionBuilder builds a DissolvedReversibleReaction
// from exactly two of its forward rate constant, reverse rate constant,
// and equilibrium constant.
type DissolvedReversibleReactionBuilder struct {
	name      string
	reactants []aerosol.Species
	products  []aerosol.Species
	solvent   aerosol.Species
	phase     aerosol.Phase

	forward, reverse, equilibrium RateConstant
}

// NewDissolvedReversibleReactionBuilder returns an empty builder.
func NewDissolvedReversibleReactionBuilder() *DissolvedReversibleReactionBuilder {
	return new(DissolvedReversibleReactionBuilder)
}

// SetName sets a name for the reaction, used in messages.
func (b *DissolvedReversibleReactionBuilder) SetName(name string) *DissolvedReversibleReactionBuilder {
	b.name = name
	return b
}

// SetPhase sets the phase the reaction takes place in.
func (b *DissolvedReversibleReactionBuilder) SetPhase(phase aerosol.Phase) *DissolvedReversibleReactionBuilder {
	b.phase = phase
	return b
}

// SetReactants sets the species consumed by the forward reaction.
func (b *DissolvedReversibleReactionBuilder) SetReactants(reactants ...aerosol.Species) *DissolvedReversibleReactionBuilder {
	b.reactants = reactants
	return b
}

// SetProducts sets the species produced by the forward reaction.
func (b *DissolvedReversibleReactionBuilder) SetProducts(products ...aerosol.Species) *DissolvedReversibleReactionBuilder {
	b.products = products
	return b
}

// SetSolvent sets the species the reactants and products are dissolved in.
func (b *DissolvedReversibleReactionBuilder) SetSolvent(solvent aerosol.Species) *DissolvedReversibleReactionBuilder {
	b.solvent = solvent
	return b
}

// SetForwardRateConstant sets the rate constant of the forward reaction.
func (b *DissolvedReversibleReactionBuilder) SetForwardRateConstant(k RateConstant) *DissolvedReversibleReactionBuilder {
	b.forward = k
	return b
}

// SetReverseRateConstant sets the rate constant of the reverse reaction.
func (b *DissolvedReversibleReactionBuilder) SetReverseRateConstant(k RateConstant) *DissolvedReversibleReactionBuilder {
	b.reverse = k
	return b
}

// SetEquilibriumConstant sets the ratio of the forward to the reverse rate constant.
func (b *DissolvedReversibleReactionBuilder) SetEquilibriumConstant(k RateConstant) *DissolvedReversibleReactionBuilder {
	b.equilibrium = k
	return b
}

// Build returns the reaction. A *ConfigError listing the rate constants
// that were set is returned unless exactly two of the forward rate
// constant, reverse rate constant, and equilibrium constant are set. If
// the equilibrium constant is one of the two, the missing rate constant
// is calculated from the other two each time it is requested.
func (b *DissolvedReversibleReactionBuilder) Build() (*DissolvedReversibleReaction, error) {
	var set []string
	if b.forward != nil {
		set = append(set, "forward rate constant")
	}
	if b.reverse != nil {
		set = append(set, "reverse rate constant")
	}
	if b.equilibrium != nil {
		set = append(set, "equilibrium constant")
	}
	if len(set) != 2 {
		provided := "none"
		if len(set) > 0 {
			provided = strings.Join(set, ", ")
		}
		return nil, aerosol.ConfigErrorf(b.name, "a dissolved reversible reaction needs exactly two of forward rate "+
			"constant, reverse rate constant, and equilibrium constant; got %d (%s)", len(set), provided)
	}
	r := &DissolvedReversibleReaction{
		Name:        b.name,
		Reactants:   b.reactants,
		Products:    b.products,
		Solvent:     b.solvent,
		Phase:       b.phase,
		forward:     b.forward,
		reverse:     b.reverse,
		equilibrium: b.equilibrium,
	}
	keq := b.equilibrium
	switch {
	case b.forward == nil:
		kr := b.reverse
		r.forward = RateFunc(func(c aerosol.Conditions) float64 {
			return keq.Calculate(c) * kr.Calculate(c)
		})
		r.ForwardDerivation = DerivedFromEquilibrium
	case b.reverse == nil:
		kf := b.forward
		r.reverse = RateFunc(func(c aerosol.Conditions) float64 {
			return kf.Calculate(c) / keq.Calculate(c)
		})
		r.ReverseDerivation = DerivedFromEquilibrium
	}
	return r, nil
}
