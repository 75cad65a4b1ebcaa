package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/bryentd477/fpa-tracker/types"
)

// Apply runs ops against the record's JSON form and decodes the result back.
// Operations are validated against AllowedPaths and repaired first, so a
// replace of a path the marshalled form happens to lack degrades to an add
// instead of failing the whole patch.
func Apply(current types.Record, ops []Operation) (types.Record, error) {
	if err := Validate(ops, AllowedPaths()); err != nil {
		return types.Record{}, fmt.Errorf("patch validation failed: %w", err)
	}
	if len(ops) == 0 {
		return current, nil
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return types.Record{}, fmt.Errorf("failed to marshal record: %w", err)
	}

	ops = fixOperations(currentJSON, ops)

	patchJSON, err := json.Marshal(ops)
	if err != nil {
		return types.Record{}, fmt.Errorf("failed to marshal patch operations: %w", err)
	}

	decoded, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return types.Record{}, fmt.Errorf("failed to decode patch: %w", err)
	}

	modifiedJSON, err := decoded.Apply(currentJSON)
	if err != nil {
		return types.Record{}, fmt.Errorf("failed to apply patch: %w", err)
	}

	var result types.Record
	if err := json.Unmarshal(modifiedJSON, &result); err != nil {
		return types.Record{}, fmt.Errorf("patch produced an invalid record: %w", err)
	}
	if result.ID != current.ID {
		return types.Record{}, fmt.Errorf("patch may not change the record id")
	}
	return result, nil
}

func fixOperations(currentJSON []byte, ops []Operation) []Operation {
	var doc map[string]any
	if err := json.Unmarshal(currentJSON, &doc); err != nil {
		return ops
	}

	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		key := op.Path[1:]
		switch op.Op {
		case OperationReplace:
			if _, ok := doc[key]; !ok {
				op.Op = OperationAdd
			}
			fixed = append(fixed, op)
		case OperationRemove:
			if _, ok := doc[key]; ok {
				fixed = append(fixed, op)
			}
		default:
			fixed = append(fixed, op)
		}
	}
	return fixed
}
