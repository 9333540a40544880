package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/supadata-go/supadata"
)

var (
	rawParams  []string
	rawHeaders []string
	rawData    string
)

// rawCmd represents the raw command
var rawCmd = &cobra.Command{
	Use:   "raw <method> <path>",
	Short: "Send a request to any API path",
	Long: `Send an authenticated request to an arbitrary API path and print the
response with its keys converted to snake_case.

Example:
  supadata raw GET /youtube/transcript --param videoId=dQw4w9WgXcQ --param text=true`,
	Args: cobra.ExactArgs(2),
	RunE: runRaw,
}

func init() {
	rawCmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "query parameter as key=value (repeatable)")
	rawCmd.Flags().StringArrayVarP(&rawHeaders, "header", "H", nil, "request header as key=value (repeatable)")
	rawCmd.Flags().StringVarP(&rawData, "data", "d", "", "JSON request body")

	rootCmd.AddCommand(rawCmd)
}

func runRaw(cmd *cobra.Command, args []string) error {
	opts, err := rawRequestOptions(rawParams, rawHeaders, rawData)
	if err != nil {
		return err
	}

	method := strings.ToUpper(args[0])
	resp, err := client.Request(cmd.Context(), method, args[1], opts...)
	if err != nil {
		return err
	}
	return printResult(resp)
}

// rawRequestOptions turns the raw command flags into request options
func rawRequestOptions(params, headers []string, data string) ([]supadata.RequestOption, error) {
	var opts []supadata.RequestOption

	if len(params) > 0 {
		query := url.Values{}
		for _, p := range params {
			key, value, err := splitPair(p)
			if err != nil {
				return nil, fmt.Errorf("invalid --param: %w", err)
			}
			query.Add(key, value)
		}
		opts = append(opts, supadata.WithQuery(query))
	}

	for _, h := range headers {
		key, value, err := splitPair(h)
		if err != nil {
			return nil, fmt.Errorf("invalid --header: %w", err)
		}
		opts = append(opts, supadata.WithRequestHeader(key, value))
	}

	if data != "" {
		var body any
		if err := json.Unmarshal([]byte(data), &body); err != nil {
			return nil, fmt.Errorf("invalid --data: %w", err)
		}
		opts = append(opts, supadata.WithJSONBody(body))
	}

	return opts, nil
}

func splitPair(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return key, value, nil
}
