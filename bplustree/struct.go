// Package bplustree implements a disk-backed B+ tree: point search,
// insert with leaf/internal splitting, parent propagation, and root
// creation, over the slotted pages in package page via a table.Handle.
// No deletion, no range iteration, no concurrency control.
//
// Grounded on storage_engine/access/indexfile_manager/bplustree in the
// teacher repo, which decomposes the same operations into struct.go,
// search.go, insertion.go, find_leaf.go, split_leaf.go, split_internal.go,
// parent_insert.go, new_root.go — a layout this package keeps, even
// though the underlying node representation here is a real slotted page
// (slot directory, free-space accounting) rather than the teacher's
// decoded [][]byte keys array.
package bplustree

import (
	"errors"
	"fmt"

	"pagetree/page"
	"pagetree/table"
)

// ErrOutOfSpace is returned when a key/value pair cannot fit even in a
// freshly split, empty page: a record that exceeds the slot/record-size
// budget of a page is unstorable regardless of how the tree is shaped.
var ErrOutOfSpace = errors.New("bplustree: key/value exceeds maximum record size for a page")

// maxLeafRecordSize is the largest a single leaf record can ever be: a
// brand-new page's entire free region minus the one slot it needs.
const maxLeafRecordSize = page.PageSize - page.HeaderSize - page.SlotSize

// maxFindLeafDepth bounds the descent in findLeaf; exceeding it means the
// tree is structurally corrupt (a cycle, or a level tag that never
// resolves to LEAF) rather than simply deep.
const maxFindLeafDepth = 100

// Tree is the B+ tree over one table file.
type Tree struct {
	table *table.Handle
}

// New returns a B+ tree backed by an already-open table handle.
func New(h *table.Handle) *Tree {
	return &Tree{table: h}
}

func wrapf(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("bplustree: %s: %w", op, err)
}
