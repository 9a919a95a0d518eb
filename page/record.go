package page

import "encoding/binary"

// LeafRecord is the on-disk layout of a leaf cell: key_size (u16) |
// value_size (u16) | key bytes | value bytes. No padding.
const leafRecordHeaderSize = 4

// InternalEntry is the on-disk layout of an internal cell: key_size (u16)
// | child_page (u32) | key bytes. The child_page is the RIGHT child of
// this entry's key: keys in [key_i, key_{i+1}) route there.
const internalEntryHeaderSize = 6

// LeafRecordSize returns the encoded size of a leaf record for key/value.
func LeafRecordSize(key, value []byte) int {
	return leafRecordHeaderSize + len(key) + len(value)
}

// InternalEntrySize returns the encoded size of an internal entry for key.
func InternalEntrySize(key []byte) int {
	return internalEntryHeaderSize + len(key)
}

// EncodeLeafRecord packs key and value into a leaf record.
func EncodeLeafRecord(key, value []byte) []byte {
	buf := make([]byte, LeafRecordSize(key, value))
	binary.LittleEndian.PutUint16(buf[0:], uint16(len(key)))
	binary.LittleEndian.PutUint16(buf[2:], uint16(len(value)))
	copy(buf[4:], key)
	copy(buf[4+len(key):], value)
	return buf
}

// DecodeLeafRecordAt decodes a leaf record starting at offset in buf. The
// returned slices alias buf.
func DecodeLeafRecordAt(buf []byte, offset uint16) (key, value []byte) {
	keySize := binary.LittleEndian.Uint16(buf[offset:])
	valueSize := binary.LittleEndian.Uint16(buf[offset+2:])
	start := offset + leafRecordHeaderSize
	key = buf[start : start+keySize]
	value = buf[start+keySize : start+keySize+valueSize]
	return key, value
}

// EncodeInternalEntry packs key and childPage into an internal entry.
func EncodeInternalEntry(key []byte, childPage uint32) []byte {
	buf := make([]byte, InternalEntrySize(key))
	binary.LittleEndian.PutUint16(buf[0:], uint16(len(key)))
	binary.LittleEndian.PutUint32(buf[2:], childPage)
	copy(buf[6:], key)
	return buf
}

// DecodeInternalEntryAt decodes an internal entry starting at offset. The
// returned key slice aliases buf.
func DecodeInternalEntryAt(buf []byte, offset uint16) (key []byte, childPage uint32) {
	keySize := binary.LittleEndian.Uint16(buf[offset:])
	childPage = binary.LittleEndian.Uint32(buf[offset+2:])
	start := offset + internalEntryHeaderSize
	key = buf[start : start+keySize]
	return key, childPage
}

// EntryChildPage returns the child_page field of the internal entry at
// offset, without decoding the key.
func EntryChildPage(buf []byte, offset uint16) uint32 {
	return binary.LittleEndian.Uint32(buf[offset+2:])
}

// PageInsertInternal writes an internal entry (key, childPage) and inserts
// a slot for it at the correct sorted position. Must not be called unless
// CanInsert already reported room for InternalEntrySize(key).
func PageInsertInternal(buf []byte, key []byte, childPage uint32) {
	h := ReadHeader(buf)
	assertf(h.PageLevel == LevelInternal, "PageInsertInternal: not an internal page")

	found, index := SearchRecord(buf, key)
	assertf(!found, "PageInsertInternal: duplicate separator key")

	rec := EncodeInternalEntry(key, childPage)
	offset := WriteRawRecord(buf, rec)
	InsertSlot(buf, index, offset)
}
