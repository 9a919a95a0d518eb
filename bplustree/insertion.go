package bplustree

import (
	"bytes"
	"fmt"

	"pagetree/page"
)

// Insert adds (key, value). It returns false, nil if key already exists
// — a duplicate key is a boolean result, not an error — and leaves the
// tree unchanged.
func (t *Tree) Insert(key, value []byte) (bool, error) {
	recSize := page.LeafRecordSize(key, value)
	if recSize > maxLeafRecordSize {
		return false, ErrOutOfSpace
	}

	if t.table.RootPageID == page.MetaPageID {
		id, buf := t.table.AllocatePage(page.TypeIndex, page.LevelLeaf)
		page.PageInsert(buf, key, value)
		if err := t.table.WritePage(id, buf); err != nil {
			return false, wrapf("Insert", err)
		}
		if err := t.table.SetRoot(id); err != nil {
			return false, wrapf("Insert", err)
		}
		return true, nil
	}

	leafID, buf, err := t.findLeaf(key)
	if err != nil {
		return false, wrapf("Insert", err)
	}
	if found, _ := page.SearchRecord(buf, key); found {
		return false, nil
	}

	if page.CanInsert(buf, recSize) {
		page.PageInsert(buf, key, value)
		if err := t.table.WritePage(leafID, buf); err != nil {
			return false, wrapf("Insert", err)
		}
		return true, nil
	}

	if err := t.insertWithLeafSplit(leafID, buf, key, value); err != nil {
		return false, wrapf("Insert", err)
	}
	return true, nil
}

// insertWithLeafSplit splits the full leaf, decides which half hosts the
// new record, handles the pathological single-oversized-record case, and
// propagates the new separator upward.
func (t *Tree) insertWithLeafSplit(leafID uint32, left []byte, key, value []byte) error {
	rightID, right, sep, err := t.splitLeafPage(leafID, left)
	if err != nil {
		return err
	}

	recSize := page.LeafRecordSize(key, value)
	targetID, target := leafID, left
	if bytes.Compare(key, sep) >= 0 {
		targetID, target = rightID, right
	}

	if page.CanInsert(target, recSize) {
		page.PageInsert(target, key, value)
	} else {
		if targetID != leafID {
			return fmt.Errorf("bplustree: insertWithLeafSplit: right sibling unexpectedly out of space")
		}
		if page.ReadHeader(right).CellCount != 0 {
			return fmt.Errorf("bplustree: insertWithLeafSplit: left out of space but right is not empty")
		}

		// Pathological case: a single oversized record filled the left
		// page on its own and the split left the right page empty. Move
		// that record across, then insert the new, smaller record on the
		// now-empty left.
		giantKey, giantValue := page.DecodeLeafRecordAt(left, page.SlotPtr(left, 0))
		movedKey := append([]byte(nil), giantKey...)
		movedValue := append([]byte(nil), giantValue...)
		page.RemoveSlot(left, 0)
		page.PageInsert(right, movedKey, movedValue)
		sep = movedKey
		page.PageInsert(left, key, value)
	}

	// Route by the right page's first key, so every key kept on the left
	// sorts below the separator — including when the new key was the first
	// record placed on a right page the split left empty.
	if page.ReadHeader(right).CellCount > 0 {
		sep = append([]byte(nil), page.SlotKey(right, 0)...)
	}

	if err := t.table.WritePage(leafID, left); err != nil {
		return err
	}
	if err := t.table.WritePage(rightID, right); err != nil {
		return err
	}

	return t.insertIntoParent(leafID, sep, rightID)
}

// splitLeafPage splits a full leaf in two, rebuilding the left page
// compactly (rather than leaving dead bytes behind a plain RemoveSlot
// loop) so it actually has usable free space for the inserts that follow
// this split. The separator is the first key of the right page, or, if
// the right page ended up empty, the sole key left on the left page.
func (t *Tree) splitLeafPage(leftID uint32, left []byte) (rightID uint32, right []byte, sep []byte, err error) {
	h := page.ReadHeader(left)
	if h.CellCount < 1 {
		panic("bplustree: splitLeafPage: left page has no records to split")
	}
	splitIndex := h.CellCount / 2
	if splitIndex < 1 {
		splitIndex = 1
	}

	type kv struct{ key, value []byte }
	all := make([]kv, h.CellCount)
	for i := uint16(0); i < h.CellCount; i++ {
		k, v := page.DecodeLeafRecordAt(left, page.SlotPtr(left, i))
		all[i] = kv{append([]byte(nil), k...), append([]byte(nil), v...)}
	}

	rightID, right = t.table.AllocatePage(page.TypeIndex, page.LevelLeaf)
	rh := page.ReadHeader(right)
	rh.ParentPageID = h.ParentPageID
	page.WriteHeader(right, rh)
	for _, rec := range all[splitIndex:] {
		page.PageInsert(right, rec.key, rec.value)
	}

	parent := h.ParentPageID
	page.InitPage(left, leftID, page.TypeIndex, page.LevelLeaf)
	lh := page.ReadHeader(left)
	lh.ParentPageID = parent
	page.WriteHeader(left, lh)
	for _, rec := range all[:splitIndex] {
		page.PageInsert(left, rec.key, rec.value)
	}

	if page.ReadHeader(right).CellCount == 0 {
		sep = append([]byte(nil), page.SlotKey(left, 0)...)
	} else {
		sep = append([]byte(nil), page.SlotKey(right, 0)...)
	}
	return rightID, right, sep, nil
}
