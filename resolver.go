package mftwalk

import (
	"strings"

	"github.com/ntfsutils/mftwalk/attributes"
	"github.com/ntfsutils/mftwalk/block"
	"github.com/ntfsutils/mftwalk/mfterr"
	"github.com/ntfsutils/mftwalk/raw"
)

// pathPart is the memoized result of resolving a single entry's best name:
// either a name plus its parent reference, or a recorded failure (ok=false),
// so a MissingFileNameAttribute is never re-chased on a later path walk that
// passes through the same entry.
type pathPart struct {
	name   string
	parent raw.FileReference
	ok     bool
}

// resolveCached returns the best name and parent reference for entryID,
// computing and caching it on first use. The cache is monotone: an entry,
// once written, is never overwritten (SPEC_FULL.md §9).
func (p *Parser) resolveCached(entryID uint64) (string, raw.FileReference, error) {
	if cached, ok := p.pathParts[entryID]; ok {
		if !cached.ok {
			return "", raw.FileReference{}, mfterr.ErrMissingFileNameAttribute
		}
		return cached.name, cached.parent, nil
	}

	name, parent, err := p.getBestPathPart(entryID, nil)
	if err != nil {
		p.pathParts[entryID] = &pathPart{ok: false}
		return "", raw.FileReference{}, err
	}
	p.pathParts[entryID] = &pathPart{name: name, parent: parent, ok: true}
	return name, parent, nil
}

// getBestPathPart implements SPEC_FULL.md §4.4's get_best_path_part: find
// the single best $FILE_NAME for entryID, recursing through $ATTRIBUTE_LIST
// indirections into extension records when the name isn't attached directly.
// When targetAttributeID is non-nil, only a $FILE_NAME with that exact
// attribute instance id is considered a match (used when following an
// AttributeList entry that names a specific attribute in an extension
// record).
func (p *Parser) getBestPathPart(entryID uint64, targetAttributeID *uint16) (string, raw.FileReference, error) {
	b, ok := p.blocks[entryID]
	if !ok {
		return "", raw.FileReference{}, mfterr.MissingBlock("Entry", entryID)
	}
	entrySection, ok := b.Find(block.BlockTypeEntry)
	if !ok {
		return "", raw.FileReference{}, mfterr.MissingBlock("Entry", entryID)
	}

	entry, err := raw.ReadEntryAt(p.file, entrySection.Offset)
	if err != nil {
		return "", raw.FileReference{}, err
	}

	var attributeLists []raw.Attribute
	for _, a := range entry.Attributes {
		switch a.Type {
		case raw.AttributeTypeFileName:
			if targetAttributeID != nil && a.AttributeId != int(*targetAttributeID) {
				continue
			}
			if !a.Resident {
				continue
			}
			fn, err := attributes.ParseFileName(a.Res.Data)
			if err != nil {
				continue
			}
			if fn.IsUsableForPath() {
				return fn.Name, fn.ParentFileReference, nil
			}
		case raw.AttributeTypeAttributeList:
			attributeLists = append(attributeLists, a)
		}
	}

	for _, a := range attributeLists {
		if !a.Resident {
			continue
		}
		entries, err := attributes.ParseAttributeList(a.Res.Data)
		if err != nil {
			continue
		}
		for _, item := range entries {
			if item.Type != raw.AttributeTypeFileName {
				continue
			}
			if item.BaseRecordReference.EntryNumber == entryID {
				continue
			}
			attrID := item.AttributeId
			name, parent, err := p.getBestPathPart(item.BaseRecordReference.EntryNumber, &attrID)
			if err == nil {
				return name, parent, nil
			}
		}
	}

	return "", raw.FileReference{}, mfterr.ErrMissingFileNameAttribute
}

// rootEntryID is the reserved MFT entry number for the volume root
// directory.
const rootEntryID = 5

// GetFilePath implements SPEC_FULL.md §4.4's get_file_path: walk parent
// references from entryID up to the root (or an orphan/cycle terminator),
// and join the accumulated name components with '/'.
func (p *Parser) GetFilePath(entryID uint64) string {
	var parts []string
	current := entryID
	visited := make(map[uint64]bool)
	for {
		visited[current] = true
		name, parent, err := p.resolveCached(current)
		if err != nil {
			break
		}
		parts = append(parts, name)

		parentID := parent.EntryNumber
		if parentID == rootEntryID {
			if p.settings.DriveChar != nil {
				parts = append(parts, string(*p.settings.DriveChar)+":")
			} else {
				parts = append(parts, "{Root}")
			}
			break
		}
		if parentID == current || parentID == 0 || visited[parentID] {
			parts = append(parts, "{Orphaned}")
			break
		}
		current = parentID
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
