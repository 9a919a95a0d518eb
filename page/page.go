// Package page implements the slotted-page format the B+ tree is built on:
// a fixed-size byte buffer with a header, a free region that grows forward,
// and a slot directory that grows backward from the end of the page.
//
// Grounded on storage_engine/disk_manager and storage_engine/access/
// indexfile_manager/bplustree in the teacher repo, and on the slot
// directory in heapfile_manager/slots.go, which the newer teacher B+ tree
// no longer uses but this package revives for the on-disk layout.
package page

import (
	"encoding/binary"
	"fmt"
)

// PageSize is fixed for the lifetime of a table file. The teacher repo uses
// 4096; the retrieval pack's disk-format references
// (firefly-research-flydb__page.go, tuannm99-novasql__page.go) use 8192,
// matching PostgreSQL's default, which this package settles on.
const PageSize = 8192

// MetaPageID is the fixed page holding table metadata. It is never a
// legal root page id, so a Handle also uses it as the "no root yet"
// sentinel for an empty tree.
const MetaPageID uint32 = 0

// Type tags the semantic kind of a page. It is informational only — it
// does not change how a page is interpreted structurally; Level does that.
type Type uint8

const (
	TypeMeta  Type = 0
	TypeIndex Type = 1
	TypeData  Type = 2
)

// Level tags whether a page holds leaf records or internal entries.
type Level uint8

const (
	LevelLeaf     Level = 0
	LevelInternal Level = 1
)

// Header layout (40 bytes, little-endian, packed, no implicit padding):
//
//	0  PageID        uint32
//	4  ParentPageID  uint32
//	8  PageType      uint8
//	9  PageLevel     uint8
//	10 CellCount     uint16
//	12 FreeStart     uint16
//	14 FreeEnd       uint16
//	16 RootPage      uint32  (meta page only)
//	20 Reserved      [8]byte (reserved[0:4] = leftmost child, internal pages only)
//	28 Flags         uint16  (unused, zero)
//	30 _pad          [2]byte
//	32 LSN           uint64  (unused, zero)
const (
	HeaderSize = 40

	offPageID       = 0
	offParentPageID = 4
	offPageType     = 8
	offPageLevel    = 9
	offCellCount    = 10
	offFreeStart    = 12
	offFreeEnd      = 14
	offRootPage     = 16
	offReserved     = 20
	reservedSize    = 8
	offFlags        = 28
	offLSN          = 32

	// SlotSize is the width of one slot directory entry: a single u16 offset.
	SlotSize = 2
)

// Header is a decoded view of a page's fixed-size prefix.
type Header struct {
	PageID       uint32
	ParentPageID uint32
	PageType     Type
	PageLevel    Level
	CellCount    uint16
	FreeStart    uint16
	FreeEnd      uint16
	RootPage     uint32
	Reserved     [reservedSize]byte
}

// ReadHeader decodes the header prefix of buf. buf must be exactly PageSize.
func ReadHeader(buf []byte) Header {
	var h Header
	h.PageID = binary.LittleEndian.Uint32(buf[offPageID:])
	h.ParentPageID = binary.LittleEndian.Uint32(buf[offParentPageID:])
	h.PageType = Type(buf[offPageType])
	h.PageLevel = Level(buf[offPageLevel])
	h.CellCount = binary.LittleEndian.Uint16(buf[offCellCount:])
	h.FreeStart = binary.LittleEndian.Uint16(buf[offFreeStart:])
	h.FreeEnd = binary.LittleEndian.Uint16(buf[offFreeEnd:])
	h.RootPage = binary.LittleEndian.Uint32(buf[offRootPage:])
	copy(h.Reserved[:], buf[offReserved:offReserved+reservedSize])
	return h
}

// WriteHeader encodes h into the header prefix of buf.
func WriteHeader(buf []byte, h Header) {
	binary.LittleEndian.PutUint32(buf[offPageID:], h.PageID)
	binary.LittleEndian.PutUint32(buf[offParentPageID:], h.ParentPageID)
	buf[offPageType] = byte(h.PageType)
	buf[offPageLevel] = byte(h.PageLevel)
	binary.LittleEndian.PutUint16(buf[offCellCount:], h.CellCount)
	binary.LittleEndian.PutUint16(buf[offFreeStart:], h.FreeStart)
	binary.LittleEndian.PutUint16(buf[offFreeEnd:], h.FreeEnd)
	binary.LittleEndian.PutUint32(buf[offRootPage:], h.RootPage)
	copy(buf[offReserved:offReserved+reservedSize], h.Reserved[:])
}

// LeftmostChild returns the leftmost-child pointer smuggled into the first
// 4 reserved bytes of an internal page's header.
func (h Header) LeftmostChild() uint32 {
	return binary.LittleEndian.Uint32(h.Reserved[0:4])
}

// SetLeftmostChild stores pageID as the leftmost-child pointer.
func (h *Header) SetLeftmostChild(pageID uint32) {
	binary.LittleEndian.PutUint32(h.Reserved[0:4], pageID)
}

// ErrCorruption is returned by Validate when a page fails an invariant
// check: a page_id mismatch after read, an out-of-range
// free_start/free_end, or a slot directory overlapping the free region.
// A page's level is not checked and never produces this error.
type ErrCorruption struct {
	Reason string
}

func (e *ErrCorruption) Error() string { return fmt.Sprintf("page corruption: %s", e.Reason) }

func corrupt(format string, args ...any) error {
	return &ErrCorruption{Reason: fmt.Sprintf(format, args...)}
}

// assertf panics on a condition that can only mean a bug in the caller,
// not a runtime condition to recover from.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("pagetree/page: "+format, args...))
	}
}

// InitPage zero-initializes buf and writes a fresh header for pageID.
func InitPage(buf []byte, pageID uint32, pageType Type, pageLevel Level) {
	assertf(len(buf) == PageSize, "InitPage: buffer must be %d bytes, got %d", PageSize, len(buf))
	for i := range buf {
		buf[i] = 0
	}
	WriteHeader(buf, Header{
		PageID:       pageID,
		ParentPageID: 0,
		PageType:     pageType,
		PageLevel:    pageLevel,
		CellCount:    0,
		FreeStart:    HeaderSize,
		FreeEnd:      PageSize,
	})
}

// Validate checks a page's structural invariants — free_start/free_end
// in range, the slot directory not overlapping the free region — and
// confirms the header's page_id matches expectedID (the id the page was
// read under).
func Validate(buf []byte, expectedID uint32) error {
	if len(buf) != PageSize {
		return corrupt("buffer is %d bytes, want %d", len(buf), PageSize)
	}
	h := ReadHeader(buf)
	if h.PageID != expectedID {
		return corrupt("page_id mismatch: header says %d, read as %d", h.PageID, expectedID)
	}
	if h.FreeStart < HeaderSize || h.FreeStart > h.FreeEnd || h.FreeEnd > PageSize {
		return corrupt("free_start=%d free_end=%d out of range", h.FreeStart, h.FreeEnd)
	}
	if int(h.CellCount)*SlotSize > PageSize-int(h.FreeEnd) {
		return corrupt("cell_count=%d overlaps free region (free_end=%d)", h.CellCount, h.FreeEnd)
	}
	return nil
}

// slotPtr returns the byte offset of slot i within buf. i must be in
// [0, cellCount) — out-of-range i is a programming error.
func slotPtr(freeEnd uint16, i uint16) uint16 {
	return freeEnd + i*SlotSize
}

// Slots returns the decoded slot directory (record offsets), in ascending
// key order, slot 0 first.
func Slots(buf []byte) []uint16 {
	h := ReadHeader(buf)
	out := make([]uint16, h.CellCount)
	for i := uint16(0); i < h.CellCount; i++ {
		p := slotPtr(h.FreeEnd, i)
		out[i] = binary.LittleEndian.Uint16(buf[p:])
	}
	return out
}

// SlotPtr returns the offset stored in slot i. i must be < cell_count.
func SlotPtr(buf []byte, i uint16) uint16 {
	h := ReadHeader(buf)
	assertf(i < h.CellCount, "SlotPtr: index %d out of range (cell_count=%d)", i, h.CellCount)
	p := slotPtr(h.FreeEnd, i)
	return binary.LittleEndian.Uint16(buf[p:])
}

// InsertSlot inserts a new slot at directory position index, holding
// recordOffset, and shifts the directory to keep the array dense.
// Panics if there is no room (the caller must check CanInsert first).
func InsertSlot(buf []byte, index uint16, recordOffset uint16) {
	h := ReadHeader(buf)
	assertf(index <= h.CellCount, "InsertSlot: index %d out of range (cell_count=%d)", index, h.CellCount)

	offsets := Slots(buf)
	offsets = append(offsets, 0)
	copy(offsets[index+1:], offsets[index:len(offsets)-1])
	offsets[index] = recordOffset

	newFreeEnd := h.FreeEnd - SlotSize
	assertf(h.FreeStart <= newFreeEnd, "InsertSlot: no room for a new slot")

	for i, off := range offsets {
		p := slotPtr(newFreeEnd, uint16(i))
		binary.LittleEndian.PutUint16(buf[p:], off)
	}

	h.FreeEnd = newFreeEnd
	h.CellCount++
	WriteHeader(buf, h)
}

// RemoveSlot deletes the slot at directory position index and closes the
// gap. The record bytes themselves are not reclaimed.
func RemoveSlot(buf []byte, index uint16) {
	h := ReadHeader(buf)
	assertf(index < h.CellCount, "RemoveSlot: index %d out of range (cell_count=%d)", index, h.CellCount)

	offsets := Slots(buf)
	offsets = append(offsets[:index], offsets[index+1:]...)

	newFreeEnd := h.FreeEnd + SlotSize
	for i, off := range offsets {
		p := slotPtr(newFreeEnd, uint16(i))
		binary.LittleEndian.PutUint16(buf[p:], off)
	}

	h.FreeEnd = newFreeEnd
	h.CellCount--
	WriteHeader(buf, h)
}

// CanInsert reports whether a record of recordSize bytes plus one new slot
// fit in the current free region.
func CanInsert(buf []byte, recordSize int) bool {
	h := ReadHeader(buf)
	return int(h.FreeEnd)-int(h.FreeStart) >= recordSize+SlotSize
}

// WriteRawRecord appends raw bytes at free_start, advances free_start, and
// returns the offset the record was written at. Must be paired with a
// call to InsertSlot to become visible to SearchRecord/SlotKey.
func WriteRawRecord(buf []byte, record []byte) uint16 {
	h := ReadHeader(buf)
	assertf(int(h.FreeStart)+len(record) <= int(h.FreeEnd), "WriteRawRecord: record does not fit")

	offset := h.FreeStart
	copy(buf[offset:], record)
	h.FreeStart += uint16(len(record))
	WriteHeader(buf, h)
	return offset
}

// keyAt returns the raw key bytes for the record at offset, for a page of
// the given level.
func keyAt(buf []byte, offset uint16, level Level) []byte {
	switch level {
	case LevelLeaf:
		keySize := binary.LittleEndian.Uint16(buf[offset:])
		return buf[offset+4 : offset+4+keySize]
	default: // LevelInternal
		keySize := binary.LittleEndian.Uint16(buf[offset:])
		return buf[offset+6 : offset+6+keySize]
	}
}

// SearchRecord binary searches the slot directory for key, comparing
// lexicographically over raw bytes. On a hit, Index is the exact match;
// on a miss, Index is the insertion position (first slot whose key > key).
func SearchRecord(buf []byte, key []byte) (found bool, index uint16) {
	h := ReadHeader(buf)
	lo, hi := uint16(0), h.CellCount
	for lo < hi {
		mid := lo + (hi-lo)/2
		off := SlotPtr(buf, mid)
		cmp := compareBytes(keyAt(buf, off, h.PageLevel), key)
		switch {
		case cmp == 0:
			return true, mid
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false, lo
}

// compareBytes is lexicographic comparison over raw bytes; a shorter
// string that is a prefix of a longer one sorts first.
func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// SlotKey returns the key bytes for slot i. The returned slice aliases buf
// and is invalidated by the next mutating call on this page.
func SlotKey(buf []byte, i uint16) []byte {
	h := ReadHeader(buf)
	off := SlotPtr(buf, i)
	return keyAt(buf, off, h.PageLevel)
}

// SlotValue returns the value bytes for slot i on a LEAF page. The
// returned slice aliases buf; see SlotKey's invalidation rule.
func SlotValue(buf []byte, i uint16) []byte {
	h := ReadHeader(buf)
	assertf(h.PageLevel == LevelLeaf, "SlotValue: not a leaf page")
	off := SlotPtr(buf, i)
	keySize := binary.LittleEndian.Uint16(buf[off:])
	valueSize := binary.LittleEndian.Uint16(buf[off+2:])
	start := off + 4 + keySize
	return buf[start : start+valueSize]
}

// PageInsert writes a leaf record (key, value) and inserts a slot for it
// at the correct sorted position. Must not be called unless CanInsert
// already reported room for LeafRecordSize(key, value).
func PageInsert(buf []byte, key, value []byte) {
	h := ReadHeader(buf)
	assertf(h.PageLevel == LevelLeaf, "PageInsert: not a leaf page")

	found, index := SearchRecord(buf, key)
	assertf(!found, "PageInsert: duplicate key must be rejected by the caller")

	rec := EncodeLeafRecord(key, value)
	offset := WriteRawRecord(buf, rec)
	InsertSlot(buf, index, offset)
}
