// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/fusepatch

/*
Package fusepatch replaces one entry of a zip archive embedded at the tail of
a fused executable (a native launcher with an appended zip of assets, as
produced by Love2D) and rewrites the host file in place with a backup.

Pipeline stages (each a pure byte transformation except the last):
  - Locate reads the end of central directory record from the last 65557 bytes;
  - Split divides host bytes into untouched native prefix and archive suffix;
  - Replace unpacks archive in memory, swaps one entry payload, repacks;
  - Commit writes a verified `<host>.bak` copy, then prefix + new archive.

Repacked file entries are deflated (github.com/klauspost/compress/flate)
unless matched by RepackOptions.Store rules (github.com/woozymasta/pathrules).
Entry order, names, timestamps, attributes and comments are preserved, so
repeated runs with the same content produce identical hosts.

# Injecting

	res, err := fusepatch.InjectFile("Balatro.exe", "main.lua", "export/main.lua", fusepatch.InjectOptions{
	    RepackOptions: fusepatch.RepackOptions{
	        Store: []pathrules.Rule{
	            {Action: pathrules.ActionInclude, Pattern: "*.ogg"},
	            {Action: pathrules.ActionInclude, Pattern: "*.png"},
	        },
	    },
	})
	if err != nil {
	    return err
	}
	fmt.Printf("patched %s, original kept at %s\n", res.HostPath, res.BackupPath)

# Stages

Each stage is exported for callers that hold host bytes themselves:

	start, err := fusepatch.Locate(data)
	if err != nil {
	    return err
	}
	prefix, archive, err := fusepatch.Split(data, start)
	if err != nil {
	    return err
	}
	newArchive, err := fusepatch.Replace(archive, "main.lua", content, fusepatch.RepackOptions{})
	if err != nil {
	    return err
	}
	backup, err := fusepatch.Commit("Balatro.exe", prefix, newArchive, fusepatch.CommitOptions{})

# Extracting

HostImage.ExtractEntry writes one entry (typically the vanilla main.lua) to
disk and HostImage.ExtractAll writes the whole archive under a directory.
Entry paths that are absolute or climb out of the directory are rejected with
ErrInvalidExtractPath.

# Errors

Failures match ErrNotFound, ErrEntryNotFound, ErrFormat (ErrSignatureNotFound,
ErrNegativeStartOffset) or ErrIO with errors.Is. Any failure before Commit
leaves the host file untouched; Commit never opens the host for writing until
the backup is complete.
*/
package fusepatch
