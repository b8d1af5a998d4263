// Copyright 2020 Fugue, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package format

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/fatih/structs"
)

// TableOpts are options used when rendering a table
type TableOpts struct {
	Rows       []interface{}
	Colors     []*color.Color
	Columns    []string
	Separator  string
	ShowHeader bool
}

// Table builds a text table from the given struct rows and chosen columns.
// It returns a list of lines that can be printed.
func Table(opts TableOpts) ([]string, error) {

	if len(opts.Rows) == 0 {
		return nil, errors.New("No rows to display")
	}
	if len(opts.Columns) == 0 {
		return nil, errors.New("No columns to display")
	}

	labels := make([]string, len(opts.Columns))
	for i, name := range opts.Columns {
		labels[i] = strings.ToUpper(toSnakeCase(name))
	}

	cells := make([][]string, len(opts.Rows))
	for i, row := range opts.Rows {
		values, err := extractAttrs(structs.Map(row), opts.Columns)
		if err != nil {
			return nil, err
		}
		cells[i] = values
	}

	separator := " | "
	if opts.Separator != "" {
		separator = opts.Separator
	}

	widths := make([]int, len(labels))
	if opts.ShowHeader {
		for i, label := range labels {
			widths[i] = len(label)
		}
	}
	for _, row := range cells {
		for i, value := range row {
			if len(value) > widths[i] {
				widths[i] = len(value)
			}
		}
	}

	var lines []string
	if opts.ShowHeader {
		tableWidth := len(separator) * (len(widths) - 1)
		for _, w := range widths {
			tableWidth += w
		}
		rule := strings.Repeat("=", tableWidth)
		lines = append(lines, rule, joinPadded(labels, widths, separator, nil), rule)
	}

	var rowColors []*color.Color
	if len(opts.Colors) == len(opts.Rows) {
		rowColors = opts.Colors
	}
	for i, row := range cells {
		var c *color.Color
		if rowColors != nil {
			c = rowColors[i]
		}
		lines = append(lines, joinPadded(row, widths, separator, c))
	}
	return lines, nil
}

func joinPadded(values []string, widths []int, separator string, c *color.Color) string {
	padded := make([]string, len(values))
	for i, value := range values {
		f := fmt.Sprintf("%%-%ds", widths[i])
		if c != nil {
			padded[i] = c.Sprintf(f, value)
		} else {
			padded[i] = fmt.Sprintf(f, value)
		}
	}
	return strings.Join(padded, separator)
}

func extractAttrs(item map[string]interface{}, attrs []string) ([]string, error) {
	result := make([]string, len(attrs))
	for i, attr := range attrs {
		value, ok := item[attr]
		if !ok {
			return nil, fmt.Errorf("Item has no attribute: %s", attr)
		}
		result[i] = fmt.Sprintf("%v", value)
	}
	return result, nil
}

// toSnakeCase converts "KeyPairID" to "key_pair_id"
func toSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
