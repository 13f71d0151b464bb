package fusepatch

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zip"
)

func TestReplace_NoOpRoundTrip(t *testing.T) {
	t.Parallel()

	archive := buildTestArchive(t, "",
		testFile{name: "main.lua", content: "return 1"},
		testFile{name: "conf.lua", content: "function love.conf(t) end", method: zip.Deflate},
		testFile{name: "resources/"},
		testFile{name: "resources/a.txt", content: "a"},
	)
	want := archiveContents(t, archive)

	rebuilt, err := Replace(archive, "main.lua", []byte("return 1"), RepackOptions{})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if diff := cmp.Diff(want, archiveContents(t, rebuilt)); diff != "" {
		t.Fatalf("content set mismatch (-want +got):\n%s", diff)
	}
}

func TestReplace_SwapsOnlyTarget(t *testing.T) {
	t.Parallel()

	archive := buildTestArchive(t, "fused",
		testFile{name: "a.txt", content: "alpha"},
		testFile{name: "main.lua", content: "old"},
		testFile{name: "b/c.txt", content: "charlie", method: zip.Deflate},
	)
	source := append([]byte(nil), archive...)

	rebuilt, err := Replace(archive, "main.lua", []byte("new"), RepackOptions{})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if !bytes.Equal(archive, source) {
		t.Fatal("Replace must not modify input archive")
	}

	want := map[string]string{
		"a.txt":    "alpha",
		"main.lua": "new",
		"b/c.txt":  "charlie",
	}
	if diff := cmp.Diff(want, archiveContents(t, rebuilt)); diff != "" {
		t.Fatalf("content set mismatch (-want +got):\n%s", diff)
	}

	entries, err := ReadEntries(rebuilt)
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}

	gotOrder := make([]string, 0, len(entries))
	for i := range entries {
		gotOrder = append(gotOrder, entries[i].Name)
		if !entries[i].Modified.Equal(testModTime) {
			t.Fatalf("entry %q modified=%v, want %v", entries[i].Name, entries[i].Modified, testModTime)
		}
	}
	if diff := cmp.Diff([]string{"a.txt", "main.lua", "b/c.txt"}, gotOrder); diff != "" {
		t.Fatalf("entry order mismatch (-want +got):\n%s", diff)
	}

	trailer, err := ReadTrailer(rebuilt)
	if err != nil {
		t.Fatalf("ReadTrailer: %v", err)
	}
	if string(trailer.Comment) != "fused" {
		t.Fatalf("archive comment=%q, want %q", trailer.Comment, "fused")
	}
}

func TestReplace_NormalizedName(t *testing.T) {
	t.Parallel()

	archive := buildTestArchive(t, "",
		testFile{name: "engine/ui.lua", content: "old"},
	)

	rebuilt, err := Replace(archive, `.\engine\ui.lua`, []byte("new"), RepackOptions{})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if got := archiveContents(t, rebuilt)["engine/ui.lua"]; got != "new" {
		t.Fatalf("engine/ui.lua=%q, want %q", got, "new")
	}
}

func TestReplace_MissingEntry(t *testing.T) {
	t.Parallel()

	archive := buildTestArchive(t, "",
		testFile{name: "a.txt", content: "alpha"},
		testFile{name: "main/"},
	)

	for _, name := range []string{"main.lua", "main"} {
		out, err := Replace(archive, name, []byte("new"), RepackOptions{})
		if !errors.Is(err, ErrEntryNotFound) {
			t.Fatalf("Replace(%q) expected ErrEntryNotFound, got %v", name, err)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Replace(%q) expected ErrNotFound, got %v", name, err)
		}
		if out != nil {
			t.Fatalf("Replace(%q) must not produce output on failure", name)
		}
	}
}

func TestReplace_InvalidName(t *testing.T) {
	t.Parallel()

	archive := buildTestArchive(t, "", testFile{name: "main.lua", content: "old"})

	if _, err := Replace(archive, " ", []byte("new"), RepackOptions{}); !errors.Is(err, ErrInvalidEntryName) {
		t.Fatalf("expected ErrInvalidEntryName, got %v", err)
	}
}

func TestReplace_CorruptArchive(t *testing.T) {
	t.Parallel()

	archive := buildTestArchive(t, "", testFile{name: "main.lua", content: "old"})
	corrupt := append([]byte(nil), archive...)
	corrupt[len(corrupt)-eocdSize] ^= 0x01

	if _, err := Replace(corrupt, "main.lua", []byte("new"), RepackOptions{}); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}

	if _, err := Replace([]byte("not a zip"), "main.lua", []byte("new"), RepackOptions{}); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat for garbage, got %v", err)
	}
}

func TestReplace_DuplicateEntry(t *testing.T) {
	t.Parallel()

	archive := buildTestArchive(t, "",
		testFile{name: "main.lua", content: "one"},
		testFile{name: "./main.lua", content: "two"},
	)

	if _, err := Replace(archive, "main.lua", []byte("new"), RepackOptions{}); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
}

func TestReplace_StoreRules(t *testing.T) {
	t.Parallel()

	payload := string(bytes.Repeat([]byte("0123456789"), 100))
	archive := buildTestArchive(t, "",
		testFile{name: "main.lua", content: "old"},
		testFile{name: "music.ogg", content: payload},
		testFile{name: "notes.txt", content: payload},
	)

	rebuilt, err := Replace(archive, "main.lua", []byte("new"), RepackOptions{
		Store: includeRules("*.ogg"),
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	infos, err := ListArchive(rebuilt)
	if err != nil {
		t.Fatalf("ListArchive: %v", err)
	}

	want := map[string]uint16{
		"main.lua":  zip.Deflate,
		"music.ogg": zip.Store,
		"notes.txt": zip.Deflate,
	}
	got := make(map[string]uint16, len(infos))
	for _, info := range infos {
		got[info.Name] = info.Method
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("method mismatch (-want +got):\n%s", diff)
	}
}

func TestReplace_InvalidCompressionLevel(t *testing.T) {
	t.Parallel()

	archive := buildTestArchive(t, "", testFile{name: "main.lua", content: "old"})

	_, err := Replace(archive, "main.lua", []byte("new"), RepackOptions{CompressionLevel: 42})
	if !errors.Is(err, ErrInvalidCompressionLevel) {
		t.Fatalf("expected ErrInvalidCompressionLevel, got %v", err)
	}
}

func TestWriteArchive_ReadEntriesRoundTrip(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Name: "main.lua", Content: []byte("print(1)"), Modified: testModTime},
		{Name: "assets/", Modified: testModTime},
		{Name: "assets/x.bin", Content: bytes.Repeat([]byte{0xAB}, 4096), Modified: testModTime, Comment: "blob"},
	}

	archive, err := WriteArchive(entries, RepackOptions{})
	if err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	got, err := ReadEntries(archive)
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("len(entries)=%d, want %d", len(got), len(entries))
	}

	for i := range entries {
		if got[i].Name != entries[i].Name {
			t.Fatalf("entry[%d] name=%q, want %q", i, got[i].Name, entries[i].Name)
		}
		if !bytes.Equal(got[i].Content, entries[i].Content) {
			t.Fatalf("entry %q content mismatch", entries[i].Name)
		}
		if got[i].Comment != entries[i].Comment {
			t.Fatalf("entry %q comment=%q, want %q", entries[i].Name, got[i].Comment, entries[i].Comment)
		}
	}
}
