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

	"github.com/spatialmodel/aerosol"
	"github.com/tealeg/xlsx"
)

// Sheet names in layout workbooks.
const (
	variableSheet  = "variables"
	parameterSheet = "parameters"
)

// WriteLayoutXLSX saves l to path as an Excel workbook with one sheet
// of state variables and one of state parameters. Each row holds the
// column index, the name, and the owner of one state name.
func WriteLayoutXLSX(path string, l *aerosol.Layout) error {
	f := xlsx.NewFile()
	for _, s := range []struct {
		sheet string
		names []string
	}{
		{variableSheet, l.Variables},
		{parameterSheet, l.Parameters},
	} {
		sheet, err := f.AddSheet(s.sheet)
		if err != nil {
			return fmt.Errorf("aerosol: creating layout workbook: %v", err)
		}
		header := sheet.AddRow()
		for _, h := range []string{"index", "name", "owner"} {
			header.AddCell().SetString(h)
		}
		for i, n := range s.names {
			owner, _ := l.Owner(n)
			row := sheet.AddRow()
			row.AddCell().SetInt(i)
			row.AddCell().SetString(n)
			row.AddCell().SetString(owner)
		}
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("aerosol: saving layout workbook: %v", err)
	}
	return nil
}
