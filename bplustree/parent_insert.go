package bplustree

import (
	"bytes"

	"pagetree/page"
)

// insertIntoParent propagates a split upward: leftID keeps its page id,
// rightID is the new sibling, and sep is the separator key routing
// between them. leftID's parent_page_id (read fresh, since a split may
// have just changed it) determines where the entry goes.
func (t *Tree) insertIntoParent(leftID uint32, sep []byte, rightID uint32) error {
	leftBuf, err := t.table.ReadPage(leftID)
	if err != nil {
		return wrapf("insertIntoParent", err)
	}
	parentID := page.ReadHeader(leftBuf).ParentPageID

	if parentID == page.MetaPageID {
		return t.createNewRoot(leftID, sep, rightID)
	}

	parentBuf, err := t.table.ReadPage(parentID)
	if err != nil {
		return wrapf("insertIntoParent", err)
	}
	ph := page.ReadHeader(parentBuf)
	if ph.PageLevel != page.LevelInternal {
		// The tree is structurally inconsistent; fall back to growing a
		// fresh root rather than corrupting the existing one further.
		return t.createNewRoot(leftID, sep, rightID)
	}
	if found, _ := page.SearchRecord(parentBuf, sep); found {
		// A duplicate separator can only mean the tree is already
		// corrupt; same fallback as above.
		return t.createNewRoot(leftID, sep, rightID)
	}

	recSize := page.InternalEntrySize(sep)
	if page.CanInsert(parentBuf, recSize) {
		return t.insertInternalNoSplit(parentID, parentBuf, leftID, sep, rightID)
	}
	return t.splitInternalAndInsert(parentID, parentBuf, leftID, sep, rightID)
}

// insertInternalNoSplit inserts (sep, rightID) into parentBuf, which has
// room, updating the leftmost-child pointer first if sep sorts before
// every existing separator.
func (t *Tree) insertInternalNoSplit(parentID uint32, parentBuf []byte, leftID uint32, sep []byte, rightID uint32) error {
	insertInternalEntry(parentBuf, leftID, sep, rightID)
	if err := t.table.WritePage(parentID, parentBuf); err != nil {
		return wrapf("insertInternalNoSplit", err)
	}
	return t.reparentChild(rightID, parentID)
}

func insertInternalEntry(buf []byte, leftID uint32, sep []byte, rightID uint32) {
	_, idx := page.SearchRecord(buf, sep)
	if idx == 0 {
		h := page.ReadHeader(buf)
		h.SetLeftmostChild(leftID)
		page.WriteHeader(buf, h)
	}
	page.PageInsertInternal(buf, sep, rightID)
}

// splitInternalAndInsert splits a full internal parent, places
// (sep, rightID) on whichever half it belongs to, and recursively
// propagates the split's own separator upward to the parent's parent.
func (t *Tree) splitInternalAndInsert(parentID uint32, parentBuf []byte, leftID uint32, sep []byte, rightID uint32) error {
	siblingID, siblingBuf, promoteKey, err := t.splitInternalPage(parentID, parentBuf)
	if err != nil {
		return err
	}

	targetID, target := parentID, parentBuf
	if bytes.Compare(sep, promoteKey) >= 0 {
		targetID, target = siblingID, siblingBuf
	}

	insertInternalEntry(target, leftID, sep, rightID)
	if err := t.table.WritePage(targetID, target); err != nil {
		return wrapf("splitInternalAndInsert", err)
	}
	if err := t.reparentChild(rightID, targetID); err != nil {
		return err
	}

	return t.insertIntoParent(parentID, promoteKey, siblingID)
}

// reparentChild updates childID's parent_page_id to newParentID.
func (t *Tree) reparentChild(childID, newParentID uint32) error {
	buf, err := t.table.ReadPage(childID)
	if err != nil {
		return wrapf("reparentChild", err)
	}
	h := page.ReadHeader(buf)
	if h.ParentPageID == newParentID {
		return nil
	}
	h.ParentPageID = newParentID
	page.WriteHeader(buf, h)
	if err := t.table.WritePage(childID, buf); err != nil {
		return wrapf("reparentChild", err)
	}
	return nil
}
