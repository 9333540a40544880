package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/s0up4200/supadata-go/query"
)

// printResult writes v to stdout using the configured output format and --query
func printResult(v any) error {
	return render(os.Stdout, cfg.Output.Format, queries, queryExpr, v)
}

// render reduces v with expression, when set, and encodes it as format.
// A string result is written as-is so plain text transcripts can be piped.
func render(w io.Writer, format string, compiler *query.Compiler, expression string, v any) error {
	generic, err := toGeneric(v)
	if err != nil {
		return err
	}

	if expression != "" {
		generic, err = compiler.Evaluate(expression, generic)
		if err != nil {
			return err
		}
	}

	if s, ok := generic.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// toGeneric converts typed results into the map/slice form queries operate on
func toGeneric(v any) (any, error) {
	switch v.(type) {
	case nil, map[string]any, []any, string, float64, bool:
		return v, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return generic, nil
}
