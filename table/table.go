// Package table bundles a DiskManager with the cached metadata the B+
// tree needs between calls: the current root page id and the next page
// id available for allocation. Grounded on storage_engine/access/
// indexfile_manager/bplustree's BPlusTree struct (which bundles a
// DiskManager and a cached root) and on the teacher's WriteRootID/
// ReadRootID helpers on page 0, generalized here into a full page.Header
// on the meta page rather than a bare 8-byte blob.
package table

import (
	"fmt"

	"pagetree/diskmgr"
	"pagetree/page"
)

// Handle is the in-memory control block for one table file. Exactly one
// Handle owns a given file at a time; it is not safe to share across
// goroutines.
type Handle struct {
	Disk           *diskmgr.DiskManager
	RootPageID     uint32
	NextFreePageID uint32
}

// CreateTable creates path if missing and initializes its meta page with
// root_page = 0 (an empty tree) — page 0 is always the meta page itself
// and so can never be a legal root, making it safe to reuse as the
// "no root yet" sentinel.
func CreateTable(path string) (*Handle, error) {
	dm, err := diskmgr.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: CreateTable: %w", err)
	}

	h := &Handle{Disk: dm, RootPageID: page.MetaPageID, NextFreePageID: 1}
	if err := h.writeMeta(); err != nil {
		return nil, fmt.Errorf("table: CreateTable: %w", err)
	}
	return h, nil
}

// OpenTable opens an existing table file and populates RootPageID from
// its meta page. If the file is new (never written), this behaves the
// same as CreateTable.
func OpenTable(path string) (*Handle, error) {
	dm, err := diskmgr.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: OpenTable: %w", err)
	}

	n, err := dm.NumPages()
	if err != nil {
		return nil, fmt.Errorf("table: OpenTable: %w", err)
	}
	if n == 0 {
		h := &Handle{Disk: dm, RootPageID: page.MetaPageID, NextFreePageID: 1}
		if err := h.writeMeta(); err != nil {
			return nil, fmt.Errorf("table: OpenTable: %w", err)
		}
		return h, nil
	}

	buf := make([]byte, page.PageSize)
	if err := dm.ReadPage(page.MetaPageID, buf); err != nil {
		return nil, fmt.Errorf("table: OpenTable: %w", err)
	}
	meta := page.ReadHeader(buf)

	return &Handle{
		Disk:           dm,
		RootPageID:     meta.RootPage,
		NextFreePageID: n,
	}, nil
}

// writeMeta persists RootPageID into the meta page (page 0), which is
// the source of truth for the tree's root across reopens.
func (h *Handle) writeMeta() error {
	buf := make([]byte, page.PageSize)
	page.InitPage(buf, page.MetaPageID, page.TypeMeta, page.LevelLeaf)
	meta := page.ReadHeader(buf)
	meta.RootPage = h.RootPageID
	page.WriteHeader(buf, meta)
	return h.Disk.WritePage(page.MetaPageID, buf)
}

// SetRoot updates both the in-memory handle and the on-disk meta page.
// Every structural change to the tree must call this before returning,
// so a reopen never sees an in-memory root that disagrees with disk.
func (h *Handle) SetRoot(rootPageID uint32) error {
	h.RootPageID = rootPageID
	if err := h.writeMeta(); err != nil {
		return fmt.Errorf("table: SetRoot: %w", err)
	}
	return nil
}

// AllocatePage bumps NextFreePageID and returns a freshly initialized
// in-memory page buffer for the new id. The caller is responsible for
// writing it to disk — allocation does not touch the file.
func (h *Handle) AllocatePage(pageType page.Type, pageLevel page.Level) (uint32, []byte) {
	id := h.NextFreePageID
	h.NextFreePageID++
	buf := make([]byte, page.PageSize)
	page.InitPage(buf, id, pageType, pageLevel)
	return id, buf
}

// ReadPage reads pageID into a fresh buffer and validates its header.
func (h *Handle) ReadPage(pageID uint32) ([]byte, error) {
	buf := make([]byte, page.PageSize)
	if err := h.Disk.ReadPage(pageID, buf); err != nil {
		return nil, fmt.Errorf("table: ReadPage(%d): %w", pageID, err)
	}
	if err := page.Validate(buf, pageID); err != nil {
		return nil, fmt.Errorf("table: ReadPage(%d): %w", pageID, err)
	}
	return buf, nil
}

// WritePage writes buf to pageID.
func (h *Handle) WritePage(pageID uint32, buf []byte) error {
	if err := h.Disk.WritePage(pageID, buf); err != nil {
		return fmt.Errorf("table: WritePage(%d): %w", pageID, err)
	}
	return nil
}

// Close releases the underlying disk manager.
func (h *Handle) Close() error {
	return h.Disk.Close()
}
