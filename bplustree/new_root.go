package bplustree

import "pagetree/page"

// createNewRoot builds a fresh internal page with left as its leftmost
// child and (sep, right) as its one entry, reparents both children to it,
// and makes it the tree's root. Reached both from an ordinary root split
// and from the corruption fallbacks in insertIntoParent.
func (t *Tree) createNewRoot(left uint32, sep []byte, right uint32) error {
	rootID, rootBuf := t.table.AllocatePage(page.TypeIndex, page.LevelInternal)
	rh := page.ReadHeader(rootBuf)
	rh.SetLeftmostChild(left)
	page.WriteHeader(rootBuf, rh)
	page.PageInsertInternal(rootBuf, sep, right)
	if err := t.table.WritePage(rootID, rootBuf); err != nil {
		return wrapf("createNewRoot", err)
	}

	if err := t.reparentChild(left, rootID); err != nil {
		return err
	}
	if err := t.reparentChild(right, rootID); err != nil {
		return err
	}

	if err := t.table.SetRoot(rootID); err != nil {
		return wrapf("createNewRoot", err)
	}
	return nil
}
