package bplustree

import (
	"fmt"

	"pagetree/page"
)

// findLeaf descends from the root to the leaf that would hold key,
// returning that leaf's page id and buffer. The tree must already have a
// root.
func (t *Tree) findLeaf(key []byte) (uint32, []byte, error) {
	id := t.table.RootPageID
	for depth := 0; depth < maxFindLeafDepth; depth++ {
		buf, err := t.table.ReadPage(id)
		if err != nil {
			return 0, nil, wrapf("findLeaf", err)
		}
		h := page.ReadHeader(buf)
		if h.PageLevel == page.LevelLeaf {
			return id, buf, nil
		}
		id = internalFindChild(buf, key)
	}
	return 0, nil, fmt.Errorf("bplustree: findLeaf: exceeded depth %d, tree is corrupt", maxFindLeafDepth)
}

// internalFindChild returns the child pointer to follow for key on an
// internal page: the leftmost child if key is smaller than every
// separator, otherwise the right child of the last separator that key is
// not smaller than.
func internalFindChild(buf []byte, key []byte) uint32 {
	found, idx := page.SearchRecord(buf, key)
	pos := idx
	if found {
		pos = idx + 1
	}
	if pos == 0 {
		h := page.ReadHeader(buf)
		return h.LeftmostChild()
	}
	_, child := page.DecodeInternalEntryAt(buf, page.SlotPtr(buf, pos-1))
	return child
}
