package page

import "testing"

func TestInitPageInvariants(t *testing.T) {
	buf := make([]byte, PageSize)
	InitPage(buf, 7, TypeIndex, LevelLeaf)

	h := ReadHeader(buf)
	if h.PageID != 7 {
		t.Fatalf("PageID = %d, want 7", h.PageID)
	}
	if h.FreeStart != HeaderSize {
		t.Fatalf("FreeStart = %d, want %d", h.FreeStart, HeaderSize)
	}
	if h.FreeEnd != PageSize {
		t.Fatalf("FreeEnd = %d, want %d", h.FreeEnd, PageSize)
	}
	if h.CellCount != 0 {
		t.Fatalf("CellCount = %d, want 0", h.CellCount)
	}
	if err := Validate(buf, 7); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestPageInsertAscendingOrder(t *testing.T) {
	buf := make([]byte, PageSize)
	InitPage(buf, 1, TypeIndex, LevelLeaf)

	keys := []string{"b", "d", "a", "c"}
	for _, k := range keys {
		if !CanInsert(buf, LeafRecordSize([]byte(k), []byte("v"))) {
			t.Fatalf("expected room to insert %q", k)
		}
		PageInsert(buf, []byte(k), []byte("v-"+k))
	}

	h := ReadHeader(buf)
	if h.CellCount != 4 {
		t.Fatalf("CellCount = %d, want 4", h.CellCount)
	}
	want := []string{"a", "b", "c", "d"}
	for i, w := range want {
		got := string(SlotKey(buf, uint16(i)))
		if got != w {
			t.Fatalf("slot %d key = %q, want %q", i, got, w)
		}
	}
	if err := Validate(buf, 1); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSearchRecordHitAndMiss(t *testing.T) {
	buf := make([]byte, PageSize)
	InitPage(buf, 1, TypeIndex, LevelLeaf)
	for _, k := range []string{"ab", "abc", "b"} {
		PageInsert(buf, []byte(k), []byte("v"))
	}

	if found, idx := SearchRecord(buf, []byte("abc")); !found || idx != 1 {
		t.Fatalf("SearchRecord(abc) = (%v,%d), want (true,1)", found, idx)
	}
	if found, idx := SearchRecord(buf, []byte("aa")); found || idx != 0 {
		t.Fatalf("SearchRecord(aa) = (%v,%d), want (false,0)", found, idx)
	}
	if found, idx := SearchRecord(buf, []byte("ac")); found || idx != 2 {
		t.Fatalf("SearchRecord(ac) = (%v,%d), want (false,2)", found, idx)
	}
	if found, idx := SearchRecord(buf, []byte("z")); found || idx != 3 {
		t.Fatalf("SearchRecord(z) = (%v,%d), want (false,3)", found, idx)
	}
}

func TestLexicographicOrderingPrefixes(t *testing.T) {
	if compareBytes([]byte("ab"), []byte("abc")) >= 0 {
		t.Fatalf("expected \"ab\" < \"abc\"")
	}
	if compareBytes([]byte("abc"), []byte("b")) >= 0 {
		t.Fatalf("expected \"abc\" < \"b\"")
	}
}

func TestRemoveSlotClosesGap(t *testing.T) {
	buf := make([]byte, PageSize)
	InitPage(buf, 1, TypeIndex, LevelLeaf)
	for _, k := range []string{"a", "b", "c"} {
		PageInsert(buf, []byte(k), []byte("v"))
	}

	RemoveSlot(buf, 1) // remove "b"

	h := ReadHeader(buf)
	if h.CellCount != 2 {
		t.Fatalf("CellCount = %d, want 2", h.CellCount)
	}
	if got := string(SlotKey(buf, 0)); got != "a" {
		t.Fatalf("slot 0 = %q, want a", got)
	}
	if got := string(SlotKey(buf, 1)); got != "c" {
		t.Fatalf("slot 1 = %q, want c", got)
	}
}

func TestCanInsertFalseWhenFull(t *testing.T) {
	buf := make([]byte, PageSize)
	InitPage(buf, 1, TypeIndex, LevelLeaf)

	value := make([]byte, PageSize-HeaderSize-SlotSize-4-1)
	PageInsert(buf, []byte("k"), value)

	if CanInsert(buf, LeafRecordSize([]byte("x"), []byte("y"))) {
		t.Fatalf("expected page to report full")
	}
}

func TestInternalEntryRoundTrip(t *testing.T) {
	buf := make([]byte, PageSize)
	InitPage(buf, 1, TypeIndex, LevelInternal)

	PageInsertInternal(buf, []byte("m"), 42)
	PageInsertInternal(buf, []byte("z"), 99)

	key, child := DecodeInternalEntryAt(buf, SlotPtr(buf, 0))
	if string(key) != "m" || child != 42 {
		t.Fatalf("entry 0 = (%q,%d), want (m,42)", key, child)
	}
	key, child = DecodeInternalEntryAt(buf, SlotPtr(buf, 1))
	if string(key) != "z" || child != 99 {
		t.Fatalf("entry 1 = (%q,%d), want (z,99)", key, child)
	}
}

func TestLeftmostChildRoundTrip(t *testing.T) {
	buf := make([]byte, PageSize)
	InitPage(buf, 1, TypeIndex, LevelInternal)

	h := ReadHeader(buf)
	h.SetLeftmostChild(123)
	WriteHeader(buf, h)

	h2 := ReadHeader(buf)
	if h2.LeftmostChild() != 123 {
		t.Fatalf("LeftmostChild() = %d, want 123", h2.LeftmostChild())
	}
}
