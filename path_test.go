// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

package fusepatch

import (
	"errors"
	"testing"
)

func TestNormalizeEntryName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "slash", in: "/", want: ""},
		{name: "clean", in: "main.lua", want: "main.lua"},
		{name: "nested", in: "engine/ui.lua", want: "engine/ui.lua"},
		{name: "windows", in: `.\engine\ui.lua`, want: "engine/ui.lua"},
		{name: "directory", in: "resources/", want: "resources"},
		{name: "dot segments", in: "./a/../b//c.txt", want: "b/c.txt"},
		{name: "spaces", in: "  main.lua ", want: "main.lua"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizeEntryName(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizeEntryName(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEntryKey_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", " ", "/", "./", "."} {
		if _, err := entryKey(raw); !errors.Is(err, ErrInvalidEntryName) {
			t.Fatalf("entryKey(%q) expected ErrInvalidEntryName, got %v", raw, err)
		}
	}
}
