package bplustree

import "pagetree/page"

// Search returns the value stored under key, and whether it was found.
func (t *Tree) Search(key []byte) ([]byte, bool, error) {
	if t.table.RootPageID == page.MetaPageID {
		return nil, false, nil
	}

	_, buf, err := t.findLeaf(key)
	if err != nil {
		return nil, false, wrapf("Search", err)
	}

	found, idx := page.SearchRecord(buf, key)
	if !found {
		return nil, false, nil
	}
	val := page.SlotValue(buf, idx)
	out := make([]byte, len(val))
	copy(out, val)
	return out, true, nil
}
