package fusepatch

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/woozymasta/pathrules"
)

func TestStoreMatcherMatch(t *testing.T) {
	t.Parallel()

	matcher, err := newStoreMatcher(includeRules(
		"*.ogg",
		"textures/",
		"/fonts/**/*.ttf",
	), pathrules.MatcherOptions{
		CaseInsensitive: true,
		DefaultAction:   pathrules.ActionExclude,
	})
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	cases := []struct {
		name  string
		entry string
		want  bool
	}{
		{name: "extension rule", entry: `resources\sounds\music1.OGG`, want: true},
		{name: "dir-only rule", entry: "resources/textures/1x/8BitDeck.png", want: true},
		{name: "anchored root match", entry: "fonts/m6x11/m6x11plus.ttf", want: true},
		{name: "anchored root miss", entry: "x/fonts/m6x11/m6x11plus.ttf", want: false},
		{name: "no match", entry: "main.lua", want: false},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := matcher.Match(tc.entry)
			if got != tc.want {
				t.Fatalf("Match(%q) = %v, want %v", tc.entry, got, tc.want)
			}
		})
	}
}

func TestStoreMatcherEmptyRules(t *testing.T) {
	t.Parallel()

	matcher, err := newStoreMatcher([]pathrules.Rule{{Action: pathrules.ActionInclude, Pattern: "  "}}, pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}
	if matcher != nil {
		t.Fatal("blank rules must compile to nil matcher")
	}
	if matcher.Match("main.lua") {
		t.Fatal("nil matcher must not match")
	}
}

func TestStoreMatcherInvalidRule(t *testing.T) {
	t.Parallel()

	_, err := newStoreMatcher([]pathrules.Rule{
		{
			Action:  pathrules.ActionUnknown,
			Pattern: "*.ogg",
		},
	}, pathrules.MatcherOptions{
		DefaultAction: pathrules.ActionExclude,
	})
	if !errors.Is(err, ErrInvalidStoreRules) {
		t.Fatalf("expected ErrInvalidStoreRules, got %v", err)
	}
}

func TestEntryMethod(t *testing.T) {
	t.Parallel()

	matcher, err := newStoreMatcher(includeRules("*.png"), pathrules.MatcherOptions{
		CaseInsensitive: true,
		DefaultAction:   pathrules.ActionExclude,
	})
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	cases := []struct {
		entry Entry
		want  uint16
	}{
		{entry: Entry{Name: "main.lua", Content: []byte("x")}, want: zip.Deflate},
		{entry: Entry{Name: "icon.png", Content: []byte("x")}, want: zip.Store},
		{entry: Entry{Name: "empty.txt"}, want: zip.Store},
		{entry: Entry{Name: "resources/"}, want: zip.Store},
	}

	for i := range cases {
		if got := entryMethod(matcher, &cases[i].entry); got != cases[i].want {
			t.Fatalf("entryMethod(%q)=%d, want %d", cases[i].entry.Name, got, cases[i].want)
		}
	}
}

func TestDeflateCompressorRoundTrip(t *testing.T) {
	t.Parallel()

	compressor, err := newDeflateCompressor(flate.BestCompression)
	if err != nil {
		t.Fatalf("newDeflateCompressor: %v", err)
	}

	payload := bytes.Repeat([]byte("function love.load() end\n"), 200)

	var buf bytes.Buffer
	w, err := compressor(&buf)
	if err != nil {
		t.Fatalf("compressor: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if buf.Len() >= len(payload) {
		t.Fatalf("compressed size %d not smaller than %d", buf.Len(), len(payload))
	}

	got, err := io.ReadAll(flate.NewReader(&buf))
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("payload mismatch after inflate")
	}
}

func TestDeflateCompressorInvalidLevel(t *testing.T) {
	t.Parallel()

	if _, err := newDeflateCompressor(42); !errors.Is(err, ErrInvalidCompressionLevel) {
		t.Fatalf("expected ErrInvalidCompressionLevel, got %v", err)
	}
}
