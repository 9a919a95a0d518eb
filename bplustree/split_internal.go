package bplustree

import "pagetree/page"

// splitInternalPage splits a full internal page in two. The entry at the
// midpoint is promoted to the parent rather than duplicated on both
// sides: its key becomes the separator and its child becomes the right
// page's leftmost child — mid itself must be removed from both halves,
// not merely have its key copied upward, or the same child pointer ends
// up reachable from two parents.
func (t *Tree) splitInternalPage(nodeID uint32, buf []byte) (rightID uint32, right []byte, sep []byte, err error) {
	h := page.ReadHeader(buf)
	if h.CellCount < 2 {
		panic("bplustree: splitInternalPage: requires at least 2 entries")
	}
	mid := h.CellCount / 2

	type entry struct {
		key   []byte
		child uint32
	}
	entries := make([]entry, h.CellCount)
	for i := uint16(0); i < h.CellCount; i++ {
		k, c := page.DecodeInternalEntryAt(buf, page.SlotPtr(buf, i))
		entries[i] = entry{append([]byte(nil), k...), c}
	}
	promoteKey := append([]byte(nil), entries[mid].key...)
	rightLeftmost := entries[mid].child

	rightID, right = t.table.AllocatePage(page.TypeIndex, page.LevelInternal)
	rh := page.ReadHeader(right)
	rh.ParentPageID = h.ParentPageID
	rh.SetLeftmostChild(rightLeftmost)
	page.WriteHeader(right, rh)
	for _, e := range entries[mid+1:] {
		page.PageInsertInternal(right, e.key, e.child)
	}

	parent := h.ParentPageID
	leftmost := h.LeftmostChild()
	page.InitPage(buf, nodeID, page.TypeIndex, page.LevelInternal)
	lh := page.ReadHeader(buf)
	lh.ParentPageID = parent
	lh.SetLeftmostChild(leftmost)
	page.WriteHeader(buf, lh)
	for _, e := range entries[:mid] {
		page.PageInsertInternal(buf, e.key, e.child)
	}

	if err := t.table.WritePage(nodeID, buf); err != nil {
		return 0, nil, nil, wrapf("splitInternalPage", err)
	}
	if err := t.table.WritePage(rightID, right); err != nil {
		return 0, nil, nil, wrapf("splitInternalPage", err)
	}

	movedChildren := make([]uint32, 0, len(entries)-int(mid))
	movedChildren = append(movedChildren, rightLeftmost)
	for _, e := range entries[mid+1:] {
		movedChildren = append(movedChildren, e.child)
	}
	for _, childID := range movedChildren {
		if err := t.reparentChild(childID, rightID); err != nil {
			return 0, nil, nil, err
		}
	}

	return rightID, right, promoteKey, nil
}
