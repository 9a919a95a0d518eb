package diskmgr

import (
	"bytes"
	"path/filepath"
	"testing"

	"pagetree/page"
)

func TestReadPageZeroFillsPastEOF(t *testing.T) {
	dm, err := Open(filepath.Join(t.TempDir(), "t.tbl"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dm.Close()

	buf := make([]byte, page.PageSize)
	if err := dm.ReadPage(3, buf); err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if !bytes.Equal(buf, make([]byte, page.PageSize)) {
		t.Fatalf("expected zero-filled page past EOF")
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	dm, err := Open(filepath.Join(t.TempDir(), "t.tbl"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dm.Close()

	want := make([]byte, page.PageSize)
	copy(want, []byte("hello page"))

	if err := dm.WritePage(2, want); err != nil {
		t.Fatalf("WritePage: %v", err)
	}

	got := make([]byte, page.PageSize)
	if err := dm.ReadPage(2, got); err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("read did not observe the prior write")
	}

	n, err := dm.NumPages()
	if err != nil {
		t.Fatalf("NumPages: %v", err)
	}
	if n != 3 {
		t.Fatalf("NumPages = %d, want 3", n)
	}
}

func TestReadPageWrongBufferSize(t *testing.T) {
	dm, err := Open(filepath.Join(t.TempDir(), "t.tbl"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dm.Close()

	if err := dm.ReadPage(0, make([]byte, 10)); err == nil {
		t.Fatalf("expected error for undersized buffer")
	}
}
