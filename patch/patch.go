// Package patch applies RFC6902 operations to FPA records. Parsed field
// slots become replace operations over the record's JSON form, validated
// against the set of editable paths before anything is applied.
package patch

import (
	"fmt"
	"strings"

	"github.com/bryentd477/fpa-tracker/types"
)

const (
	OperationAdd     = "add"
	OperationReplace = "replace"
	OperationRemove  = "remove"
)

type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// EditableFields lists every record field a command may change. The record ID
// is never patchable.
var EditableFields = []types.FieldName{
	types.FieldFPANumber,
	types.FieldLandowner,
	types.FieldTimberSaleName,
	types.FieldLandownerType,
	types.FieldApplicationStatus,
	types.FieldDecisionDeadline,
	types.FieldExpirationDate,
	types.FieldApprovedActivity,
	types.FieldNotes,
}

// AllowedPaths returns the JSON pointer paths patches may touch.
func AllowedPaths() map[string]bool {
	paths := make(map[string]bool, len(EditableFields))
	for _, field := range EditableFields {
		paths["/"+string(field)] = true
	}
	return paths
}

// FromFields converts a parsed slot map into replace operations, one per
// field, in the record's canonical field order.
func FromFields(fields map[types.FieldName]string) []Operation {
	ops := make([]Operation, 0, len(fields))
	for _, field := range EditableFields {
		value, ok := fields[field]
		if !ok {
			continue
		}
		ops = append(ops, Operation{Op: OperationReplace, Path: "/" + string(field), Value: value})
	}
	return ops
}

// Validate rejects any operation whose path is outside allowedPaths.
func Validate(ops []Operation, allowedPaths map[string]bool) error {
	if len(allowedPaths) == 0 {
		return nil
	}
	for i, op := range ops {
		if !strings.HasPrefix(op.Path, "/") {
			return fmt.Errorf("operation %d: path %q is not a JSON pointer", i, op.Path)
		}
		if !allowedPaths[op.Path] {
			return fmt.Errorf("operation %d: path %q is not editable", i, op.Path)
		}
	}
	return nil
}
