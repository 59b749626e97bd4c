// Package history is the JSON-backed ledger of past transactions. Entries
// are keyed by a contiguous 1-based id; deleting an entry renumbers every
// later one so the sequence never has gaps. The file is rewritten wholesale
// on every mutation and must stay parseable at all times.
package history

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/model"
)

// Entry is one recorded transaction. ID is the ledger key, not a stored
// field; it changes when earlier entries are deleted.
type Entry struct {
	ID          int          `json:"-"`
	Date        string       `json:"Date"`
	RequestedBy string       `json:"Requested-By"`
	Command     []string     `json:"Command"`
	Altered     int          `json:"Altered"`
	Purged      bool         `json:"Purged"`
	Operation   model.OpKind `json:"Operation"`
	Removed     ChangeList   `json:"Removed"`
	AutoRemoved ChangeList   `json:"Auto-Removed"`
	Installed   ChangeList   `json:"Installed"`
	Reinstalled ChangeList   `json:"Reinstalled"`
	Upgraded    ChangeList   `json:"Upgraded"`
	Downgraded  ChangeList   `json:"Downgraded"`
}

// ChangeList serializes package changes as compact tuples:
// [name, version, size] or [name, version, size, old_version].
type ChangeList []model.PackageChange

// MarshalJSON encodes each change as a string tuple.
func (c ChangeList) MarshalJSON() ([]byte, error) {
	tuples := make([][]string, 0, len(c))
	for _, change := range c {
		tuple := []string{change.Name, change.Version, strconv.FormatInt(change.Size, 10)}
		if change.OldVersion != "" {
			tuple = append(tuple, change.OldVersion)
		}
		tuples = append(tuples, tuple)
	}
	return json.Marshal(tuples)
}

// UnmarshalJSON decodes the tuple form back into package changes.
func (c *ChangeList) UnmarshalJSON(data []byte) error {
	var tuples [][]string
	if err := json.Unmarshal(data, &tuples); err != nil {
		return err
	}
	changes := make([]model.PackageChange, 0, len(tuples))
	for _, tuple := range tuples {
		if len(tuple) < 3 {
			return fmt.Errorf("package tuple %v has %d fields: %w",
				tuple, len(tuple), errors.ErrHistoryCorrupt)
		}
		size, err := strconv.ParseInt(tuple[2], 10, 64)
		if err != nil {
			return fmt.Errorf("package tuple %v has a non-numeric size: %w",
				tuple, errors.ErrHistoryCorrupt)
		}
		change := model.PackageChange{Name: tuple[0], Version: tuple[1], Size: size}
		if len(tuple) > 3 {
			change.OldVersion = tuple[3]
		}
		changes = append(changes, change)
	}
	*c = changes
	return nil
}

// names collects the package names across the given lists in order.
func names(lists ...ChangeList) []string {
	var out []string
	for _, list := range lists {
		for _, change := range list {
			out = append(out, change.Name)
		}
	}
	return out
}

// Redo returns the operation that repeats this entry in its original
// direction. Entries recorded for anything other than install or remove
// cannot be replayed.
func (e *Entry) Redo() (model.Operation, error) {
	switch e.Operation {
	case model.OpInstall:
		return model.Operation{
			Kind:     model.OpInstall,
			Packages: names(e.Installed),
			Purge:    e.Purged,
		}, nil
	case model.OpRemove:
		return model.Operation{
			Kind:     model.OpRemove,
			Packages: names(e.Removed, e.AutoRemoved),
			Purge:    e.Purged,
		}, nil
	default:
		return model.Operation{}, errors.Wrapf(errors.ErrUnsupportedOperation,
			"transaction %d recorded operation %q", e.ID, e.Operation)
	}
}

// Undo returns the inverse operation: undoing an install removes the same
// package set, undoing a remove reinstalls it.
func (e *Entry) Undo() (model.Operation, error) {
	op, err := e.Redo()
	if err != nil {
		return model.Operation{}, err
	}
	return op.Inverse(), nil
}
