package mftwalk

import (
	"log"

	"github.com/ntfsutils/mftwalk/attributes"
	"github.com/ntfsutils/mftwalk/block"
	"github.com/ntfsutils/mftwalk/mfterr"
	"github.com/ntfsutils/mftwalk/raw"
)

// RecordIterator yields Records in ascending entry id order. A single
// corrupt or incomplete record is logged and skipped rather than aborting
// the whole walk (SPEC_FULL.md §4.5, §7).
type RecordIterator struct {
	p    *Parser
	next uint64
}

// Iterator returns a fresh RecordIterator starting at entry 0.
func (p *Parser) Iterator() *RecordIterator {
	return &RecordIterator{p: p}
}

// Next returns the next non-filtered Record, or ok=false once every entry
// has been visited.
func (it *RecordIterator) Next() (Record, bool) {
	for it.next < it.p.recordCount {
		id := it.next
		it.next++

		b, ok := it.p.blocks[id]
		if !ok {
			continue
		}

		rec, included, err := it.p.buildRecord(id, b)
		if err != nil {
			log.Printf("mftwalk: skipping entry %d: %v", id, err)
			continue
		}
		if !included {
			continue
		}
		return rec, true
	}
	return Record{}, false
}

// buildRecord assembles a Record for entry id as described in §4.5: resolve
// the path, decode $STANDARD_INFORMATION for timestamps and the file/
// directory flag, and re-read the header for the deleted flag. included is
// false when a configured exclusion predicate matched.
func (p *Parser) buildRecord(id uint64, b block.Block) (Record, bool, error) {
	entrySection, ok := b.Find(block.BlockTypeEntry)
	if !ok {
		return Record{}, false, mfterr.MissingBlock("Entry", id)
	}
	header, err := raw.ReadEntryAt(p.file, entrySection.Offset)
	if err != nil {
		return Record{}, false, err
	}

	siSection, ok := b.Find(block.BlockTypeStandardInformation)
	if !ok {
		return Record{}, false, mfterr.MissingBlock("StandardInformation", id)
	}
	siBytes, err := p.readSection(siSection)
	if err != nil {
		return Record{}, false, err
	}
	si, err := attributes.ParseStandardInformation(siBytes)
	if err != nil {
		return Record{}, false, err
	}

	path := p.GetFilePath(id)
	filename, _, err := p.resolveCached(id)
	if err != nil {
		filename = ""
	}

	if p.settings.PathExclusion != nil && p.settings.PathExclusion.Match(path) {
		return Record{}, false, nil
	}
	if p.settings.FilenameExclusion != nil && p.settings.FilenameExclusion.Match(filename) {
		return Record{}, false, nil
	}

	rec := Record{
		EntryID:   id,
		Path:      path,
		IsFile:    si.FileAttributes.IsFile(),
		IsDeleted: !header.Header.Flags.Is(raw.RecordFlagInUse),
		Filename:  filename,
		Created:   si.Creation,
		Modified:  si.FileLastModified,
		Accessed:  si.LastAccess,
	}
	return rec, true, nil
}
