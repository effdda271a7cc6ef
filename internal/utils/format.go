package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// 输出格式
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var output io.Writer = os.Stdout

// SetOutput 替换输出目标，测试用
func SetOutput(w io.Writer) {
	output = w
}

/**
 * Convert struct to ordered map keeping field declaration order
 * @param {interface{}} v - Struct with json tags
 * @returns {*orderedmap.OrderedMap} Keys in the same order as the json encoding
 * @returns {error} Encoding errors
 */
func StructToOrderedMap(v interface{}) (*orderedmap.OrderedMap, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := orderedmap.New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

/**
 * Print rows as a table with one column per key
 * @param {[]*orderedmap.OrderedMap} rows - Records sharing the same keys
 * @description
 * - Column headers come from the keys of the first row, upper-cased
 * - Slices are joined with ","
 */
func PrintFormat(rows []*orderedmap.OrderedMap) {
	if len(rows) == 0 {
		return
	}
	keys := rows[0].Keys()
	t := table.NewWriter()
	t.SetOutputMirror(output)
	t.SetStyle(table.StyleLight)

	header := table.Row{}
	for _, k := range keys {
		header = append(header, strings.ToUpper(k))
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := table.Row{}
		for _, k := range keys {
			v, _ := row.Get(k)
			r = append(r, cellString(v))
		}
		t.AppendRow(r)
	}
	t.Render()
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if val == "" {
			return "-"
		}
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
		if len(parts) == 0 {
			return "-"
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

// PrintJSON 以缩进JSON格式输出
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintYAML 以YAML格式输出
func PrintYAML(v interface{}) error {
	// 先经过JSON转换，使YAML字段名与json tag一致
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(output)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(generic)
}

/**
 * Print records in the requested format
 * @param {string} format - "table", "json" or "yaml"
 * @param {interface{}} records - Slice of structs (table) or any value (json/yaml)
 * @returns {error} Unknown format or encoding errors
 */
func Print(format string, records interface{}) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return PrintJSON(records)
	case FormatYAML:
		return PrintYAML(records)
	case FormatTable, "":
		data, err := json.Marshal(records)
		if err != nil {
			return err
		}
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			// 单条记录
			items = []json.RawMessage{data}
		}
		var rows []*orderedmap.OrderedMap
		for _, item := range items {
			m := orderedmap.New()
			if err := json.Unmarshal(item, m); err != nil {
				return err
			}
			rows = append(rows, m)
		}
		PrintFormat(rows)
		return nil
	default:
		return fmt.Errorf("unsupported output format '%s'", format)
	}
}
