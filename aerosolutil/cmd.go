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

// Package aerosolutil holds the command-line interface and the model
// configuration files of the aerosol state layout tools.
package aerosolutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aerosol"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the commands.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the location of a configuration file
              holding values for any of these options.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "model",
			usage: `
              model specifies the location of the model description file,
              which describes phases, aerosol models, representations, and
              reactions. Its format (TOML or YAML) is chosen by the file
              extension.`,
			shorthand:  "m",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel sets the logging level: one of "debug", "info",
              "warning", or "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose specifies whether to print the parsed model description.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "cells",
			usage: `
              cells is the number of grid cells in the state.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{layoutCmd.Flags(), radiusCmd.Flags()},
		},
		{
			name: "cdf",
			usage: `
              cdf specifies a file to write the default-initialized state to,
              in netCDF format. No file is written if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{layoutCmd.Flags()},
		},
		{
			name: "xlsx",
			usage: `
              xlsx specifies a file to save the state layout to as an Excel
              workbook. No file is written if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{layoutCmd.Flags()},
		},
		{
			name: "plot",
			usage: `
              plot specifies an image file (e.g. rates.png) to draw the
              equilibrium constants of all reactions to. No image is drawn
              if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{ratesCmd.Flags()},
		},
		{
			name: "chart",
			usage: `
              chart specifies whether to draw a text chart of each
              equilibrium constant after its table.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{ratesCmd.Flags()},
		},
		{
			name: "tmin",
			usage: `
              tmin is the lowest temperature [K] to evaluate rate constants at.`,
			defaultVal: 273.15,
			flagsets:   []*pflag.FlagSet{ratesCmd.Flags()},
		},
		{
			name: "tmax",
			usage: `
              tmax is the highest temperature [K] to evaluate rate constants at.`,
			defaultVal: 313.15,
			flagsets:   []*pflag.FlagSet{ratesCmd.Flags()},
		},
		{
			name: "tsteps",
			usage: `
              tsteps is the number of temperatures to evaluate rate constants at.`,
			defaultVal: 5,
			flagsets:   []*pflag.FlagSet{ratesCmd.Flags()},
		},
		{
			name: "pressure",
			usage: `
              pressure is the pressure [Pa] to evaluate rate constants at.`,
			defaultVal: aerosol.StandardPressure,
			flagsets:   []*pflag.FlagSet{ratesCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("AEROSOL")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(layoutCmd)
	Root.AddCommand(radiusCmd)
	Root.AddCommand(ratesCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("aerosol: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("aerosol: %v", err)
	}
	logrus.SetLevel(lvl)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "aerosol",
	Short: "Lay out and inspect aerosol population state.",
	Long: `aerosol configures particle populations (aerosol modes, cloud droplets,
dust sections) on top of a gas-phase chemistry state, reports the state
variables and parameters they need, calculates effective radii, and evaluates
the rate constants of dissolved reversible reactions.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'AEROSOL_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of aerosol.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "aerosol v%s\n", aerosol.Version)
	},
	DisableAutoGenTag: true,
}

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the state layout.",
	Long: `layout prints the state variables and state parameters of the system
in the model description file, and optionally writes a state with default
parameter values to a netCDF file or the layout to an Excel workbook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := modelConfig(cmd)
		if err != nil {
			return err
		}
		cells, err := cast.ToIntE(Cfg.Get("cells"))
		if err != nil {
			return fmt.Errorf("aerosol: invalid value for 'cells': %v", err)
		}
		return Layout(cmd.OutOrStdout(), c, cells, Cfg.GetString("cdf"), Cfg.GetString("xlsx"))
	},
	DisableAutoGenTag: true,
}

var radiusCmd = &cobra.Command{
	Use:   "radius",
	Short: "Print effective radii.",
	Long: `radius initializes the state as given in the model description file and
prints the effective radius of every mode and section in every grid cell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := modelConfig(cmd)
		if err != nil {
			return err
		}
		cells, err := cast.ToIntE(Cfg.Get("cells"))
		if err != nil {
			return fmt.Errorf("aerosol: invalid value for 'cells': %v", err)
		}
		return Radius(cmd.OutOrStdout(), c, cells)
	},
	DisableAutoGenTag: true,
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print reaction rate constants.",
	Long: `rates evaluates the forward rate, reverse rate, and equilibrium constants
of every reaction in the model description file over a range of temperatures,
and optionally draws the equilibrium constants as a chart or an image.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := modelConfig(cmd)
		if err != nil {
			return err
		}
		tmin, err := cast.ToFloat64E(Cfg.Get("tmin"))
		if err != nil {
			return fmt.Errorf("aerosol: invalid value for 'tmin': %v", err)
		}
		tmax, err := cast.ToFloat64E(Cfg.Get("tmax"))
		if err != nil {
			return fmt.Errorf("aerosol: invalid value for 'tmax': %v", err)
		}
		steps, err := cast.ToIntE(Cfg.Get("tsteps"))
		if err != nil {
			return fmt.Errorf("aerosol: invalid value for 'tsteps': %v", err)
		}
		p, err := cast.ToFloat64E(Cfg.Get("pressure"))
		if err != nil {
			return fmt.Errorf("aerosol: invalid value for 'pressure': %v", err)
		}
		if err := Rates(cmd.OutOrStdout(), c, tmin, tmax, steps, p, Cfg.GetBool("chart")); err != nil {
			return err
		}
		if path := Cfg.GetString("plot"); path != "" {
			return PlotRates(os.ExpandEnv(path), c, tmin, tmax, steps, p)
		}
		return nil
	},
	DisableAutoGenTag: true,
}
