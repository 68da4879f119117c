// Command quote parses a free-text shipping request offline and prints the
// extracted request with its routing decision.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"shipquote/parser"
	"shipquote/routing"
)

type result struct {
	Parsed      parser.ParsedRequest `json:"parsed"`
	Routing     string               `json:"routing"`
	MissingInfo []string             `json:"missingInfo,omitempty"`
}

func main() {
	text := strings.Join(os.Args[1:], " ")
	if strings.TrimSpace(text) == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to read stdin:", err)
			os.Exit(1)
		}
		text = string(data)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(evaluate(text)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func evaluate(text string) result {
	parsed := parser.Parse(text)
	out := result{Parsed: parsed, MissingInfo: parsed.MissingInfo()}
	if len(out.MissingInfo) > 0 {
		out.Routing = routing.Incomplete
	} else {
		out.Routing = routing.Classify(parsed)
	}
	return out
}
