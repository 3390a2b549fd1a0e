package mftwalk

import "time"

// Record is the public, stable projection of one MFT entry: everything a
// consumer (the CLI, the TUI, a CSV/JSON writer) needs, with every
// NTFS-specific detail already resolved away.
type Record struct {
	EntryID   uint64
	Path      string
	IsFile    bool
	IsDeleted bool
	Filename  string
	Created   time.Time
	Modified  time.Time
	Accessed  time.Time
}
