// Package report extracts and validates the structured reports subagents
// embed in their replies. A report is a fenced JSON block (or a bare JSON
// reply) validated against a per-phase schema before decoding.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var ErrNoReport = errors.New("reply contains no structured report")

// Extract pulls the structured report out of a reply. The last fenced JSON
// block wins so agents can think out loud before the final report. A reply
// that is itself a JSON object also counts.
func Extract(reply string) (json.RawMessage, error) {
	if block, ok := lastFencedJSON(reply); ok {
		return block, nil
	}

	trimmed := strings.TrimSpace(reply)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	return nil, ErrNoReport
}

// Decode extracts the report from reply, validates it against schema and
// unmarshals it into out.
func Decode(reply string, schema string, out any) error {
	raw, err := Extract(reply)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to validate report: %w", err)
	}

	if !result.Valid() {
		return fmt.Errorf("invalid report: %s", formatSchemaErrors(result))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode report: %w", err)
	}

	return nil
}

func lastFencedJSON(reply string) (json.RawMessage, bool) {
	const fence = "```"

	var found json.RawMessage

	rest := reply

	for {
		start := strings.Index(rest, fence)
		if start == -1 {
			break
		}

		rest = rest[start+len(fence):]

		end := strings.Index(rest, fence)
		if end == -1 {
			break
		}

		block := rest[:end]
		rest = rest[end+len(fence):]

		block = strings.TrimPrefix(block, "json")
		block = strings.TrimSpace(block)

		if strings.HasPrefix(block, "{") && json.Valid([]byte(block)) {
			found = json.RawMessage(block)
		}
	}

	return found, found != nil
}

func formatSchemaErrors(result *gojsonschema.Result) string {
	parts := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		parts = append(parts, desc.String())
	}

	return strings.Join(parts, "; ")
}
