/*
Package block builds, per MFT record, a Block: an ordered list of
SectionPointers describing where in the underlying file each of the
record's attributes (and the record header itself) physically lives. The
path resolver uses a Block to re-read just the bytes it needs for a given
attribute without re-parsing the whole record.
*/
package block

import (
	"github.com/ntfsutils/mftwalk/raw"
)

// BlockType names what a SectionPointer points at: the record header
// itself, one of the known attribute types, an unrecognized attribute type,
// or the synthetic ZoneIdentifier pointer described below.
type BlockType int

const (
	BlockTypeEntry BlockType = iota
	BlockTypeStandardInformation
	BlockTypeAttributeList
	BlockTypeFileName
	BlockTypeObjectId
	BlockTypeSecurityDescriptor
	BlockTypeVolumeName
	BlockTypeVolumeInformation
	BlockTypeData
	BlockTypeIndexRoot
	BlockTypeIndexAllocation
	BlockTypeBitmap
	BlockTypeReparsePoint
	BlockTypeEAInformation
	BlockTypeEA
	BlockTypePropertySet
	BlockTypeLoggedUtilityStream
	BlockTypeUnknownAttribute
	// BlockTypeZoneIdentifier is a second pointer emitted alongside a $DATA
	// attribute named "Zone.Identifier" (the alternate data stream browsers
	// attach to downloaded files), so callers can find it without scanning
	// every Data pointer's name again.
	BlockTypeZoneIdentifier
)

// FromAttributeType maps an attribute type code to the BlockType it
// produces. Unrecognized codes map to BlockTypeUnknownAttribute.
func FromAttributeType(t raw.AttributeType) BlockType {
	switch t {
	case raw.AttributeTypeStandardInformation:
		return BlockTypeStandardInformation
	case raw.AttributeTypeAttributeList:
		return BlockTypeAttributeList
	case raw.AttributeTypeFileName:
		return BlockTypeFileName
	case raw.AttributeTypeObjectId:
		return BlockTypeObjectId
	case raw.AttributeTypeSecurityDescriptor:
		return BlockTypeSecurityDescriptor
	case raw.AttributeTypeVolumeName:
		return BlockTypeVolumeName
	case raw.AttributeTypeVolumeInformation:
		return BlockTypeVolumeInformation
	case raw.AttributeTypeData:
		return BlockTypeData
	case raw.AttributeTypeIndexRoot:
		return BlockTypeIndexRoot
	case raw.AttributeTypeIndexAllocation:
		return BlockTypeIndexAllocation
	case raw.AttributeTypeBitmap:
		return BlockTypeBitmap
	case raw.AttributeTypeReparsePoint:
		return BlockTypeReparsePoint
	case raw.AttributeTypeEAInformation:
		return BlockTypeEAInformation
	case raw.AttributeTypeEA:
		return BlockTypeEA
	case raw.AttributeTypePropertySet:
		return BlockTypePropertySet
	case raw.AttributeTypeLoggedUtilityStream:
		return BlockTypeLoggedUtilityStream
	}
	return BlockTypeUnknownAttribute
}

// SectionPointer locates one section of a record's bytes within the MFT
// file: either the record header (BlockTypeEntry) or one attribute's data.
type SectionPointer struct {
	BlockType   BlockType
	IsResident  bool
	AttributeId int // only meaningful when BlockType != BlockTypeEntry
	Offset      int64
	Size        uint64
}

// Block is the complete set of SectionPointers for one MFT record, keyed by
// EntryID for lookup from the block index.
type Block struct {
	EntryID  uint64
	Sections []SectionPointer
}

// nonResidentDataHeaderSize is the offset, from the start of a non-resident
// attribute, of its non-resident fields (lowest VCN onward); the data runs
// themselves start later, at the attribute's DataRunOffset. SectionPointer.Offset
// for a non-resident section points at this many bytes past the start of the
// attribute rather than at file content.
const nonResidentDataHeaderSize = 16

// NewFromEntry builds a Block for a single parsed raw.Entry. entryID is the
// record's own entry number (entry.Header.FileReference.EntryNumber is
// normally equal, but it is passed explicitly since extension records still
// need to be indexed under their own number even when the reader is
// bootstrapping the index from record 0 onward).
func NewFromEntry(entry raw.Entry, entryID uint64) Block {
	sections := []SectionPointer{{
		BlockType:  BlockTypeEntry,
		IsResident: true,
		Offset:     entry.Offset,
		Size:       uint64(entry.Header.AllocatedSize),
	}}

	attributeBase := entry.Offset + int64(entry.Header.FirstAttributeOffset)
	for _, attribute := range entry.Attributes {
		var dataOffset int64
		var dataSize uint64
		if attribute.Resident {
			dataOffset = attributeBase + int64(attribute.Offset) + int64(attribute.Res.DataOffset)
			dataSize = uint64(attribute.Res.DataSize)
		} else {
			dataOffset = attributeBase + int64(attribute.Offset) + nonResidentDataHeaderSize
			dataSize = attribute.NonRes.DataSize
		}

		blockType := FromAttributeType(attribute.Type)
		sections = append(sections, SectionPointer{
			BlockType:   blockType,
			IsResident:  attribute.Resident,
			AttributeId: attribute.AttributeId,
			Offset:      dataOffset,
			Size:        dataSize,
		})

		if blockType == BlockTypeData && attribute.Name == "Zone.Identifier" {
			sections = append(sections, SectionPointer{
				BlockType:   BlockTypeZoneIdentifier,
				IsResident:  attribute.Resident,
				AttributeId: attribute.AttributeId,
				Offset:      dataOffset,
				Size:        dataSize,
			})
		}
	}

	return Block{EntryID: entryID, Sections: sections}
}

// Find returns the first SectionPointer of the given BlockType, and whether
// one was found. For BlockTypeData there may be several (one per named
// stream); callers that need all of them should scan Sections directly.
func (b Block) Find(t BlockType) (SectionPointer, bool) {
	for _, s := range b.Sections {
		if s.BlockType == t {
			return s, true
		}
	}
	return SectionPointer{}, false
}

// FindAll returns every SectionPointer of the given BlockType.
func (b Block) FindAll(t BlockType) []SectionPointer {
	var out []SectionPointer
	for _, s := range b.Sections {
		if s.BlockType == t {
			out = append(out, s)
		}
	}
	return out
}
