/*
Package raw parses the bytes of a single NTFS Master File Table record: the
48-byte header, the fixup (update sequence array) that must be applied before
the record can be trusted, and the walk over the variable-length attribute
headers that follow it. It does not interpret attribute payloads; that is
left to package attributes.

Basic usage

	entry, err := raw.ParseEntry(recordBytes, recordOffset)
	for _, a := range entry.Attributes {
		if a.Type == raw.AttributeTypeFileName && a.Resident {
			// decode a.Res.Data with package attributes
		}
	}
*/
package raw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ntfsutils/mftwalk/binutil"
	"github.com/ntfsutils/mftwalk/mfterr"
	"github.com/ntfsutils/mftwalk/utf16"
)

var fileSignature = []byte{0x46, 0x49, 0x4c, 0x45} // "FILE"

const maxInt = int64(^uint(0) >> 1)

// RecordSize is the fixed size of an MFT record (MFT_RECORD_SIZE).
const RecordSize = 1024

// headerSize is the size of the fixed MFT record header, before the fixup
// array and the first attribute.
const headerSize = 0x2A

// Header is the fixed 48-or-so byte record header described by spec.md §3.
type Header struct {
	Signature             []byte
	FileReference          FileReference
	BaseRecordReference    FileReference
	LogFileSequenceNumber  uint64
	HardLinkCount          int
	Flags                  RecordFlag
	ActualSize             uint32
	AllocatedSize          uint32
	NextAttributeId        int
	UpdateSequenceOffset   int
	UpdateSequenceSize     int
	FirstAttributeOffset   int
}

// Entry is a fully parsed MFT record: its header plus the attribute headers
// that follow it, with fixup already applied. Attribute payloads beyond the
// header fields are left as raw bytes in each Attribute's resident/non
// -resident form; see package attributes for decoders.
type Entry struct {
	Offset     int64
	Header     Header
	Attributes []Attribute
}

// ParseEntry parses the MFT_RECORD_SIZE bytes of a single record: it
// validates the "FILE" signature, applies the fixup, and walks the attribute
// headers. offset is the byte offset of this record within the MFT file and
// is stored for later use by the block index.
func ParseEntry(b []byte, offset int64) (Entry, error) {
	if len(b) < headerSize {
		return Entry{}, fmt.Errorf("record data length should be at least %d but is %d", headerSize, len(b))
	}
	sig := b[:4]
	if !bytes.Equal(sig, fileSignature) {
		return Entry{}, fmt.Errorf("unknown record signature: %# x", sig)
	}

	b = binutil.Duplicate(b)
	r := binutil.NewLittleEndianReader(b)

	baseRecordRef, err := ParseFileReference(r.Read(0x20, 8))
	if err != nil {
		return Entry{}, mfterr.ValueRead("base_record_reference", "FileReference", err)
	}

	firstAttributeOffset := int(r.Uint16(0x14))
	if firstAttributeOffset < 0 || firstAttributeOffset >= len(b) {
		return Entry{}, fmt.Errorf("invalid first attribute offset %d (data length: %d)", firstAttributeOffset, len(b))
	}

	updateSequenceOffset := int(r.Uint16(0x04))
	updateSequenceSize := int(r.Uint16(0x06))
	b, err = applyFixup(b, updateSequenceOffset, updateSequenceSize)
	if err != nil {
		return Entry{}, fmt.Errorf("unable to apply fixup: %w", err)
	}

	attributes, err := parseAttributes(b[firstAttributeOffset:])
	if err != nil {
		return Entry{}, err
	}

	header := Header{
		Signature:             binutil.Duplicate(sig),
		FileReference:         FileReference{EntryNumber: uint64(r.Uint32(0x2C)), SequenceNumber: r.Uint16(0x10)},
		BaseRecordReference:   baseRecordRef,
		LogFileSequenceNumber: r.Uint64(0x08),
		HardLinkCount:         int(r.Uint16(0x12)),
		Flags:                 RecordFlag(r.Uint16(0x16)),
		ActualSize:            r.Uint32(0x18),
		AllocatedSize:         r.Uint32(0x1C),
		NextAttributeId:       int(r.Uint16(0x28)),
		UpdateSequenceOffset:  updateSequenceOffset,
		UpdateSequenceSize:    updateSequenceSize,
		FirstAttributeOffset:  firstAttributeOffset,
	}

	return Entry{
		Offset:     offset,
		Header:     header,
		Attributes: attributes,
	}, nil
}

// ReadEntryAt re-reads and re-parses a single record at an absolute file
// offset, applying fixup as usual. This is the random-access counterpart to
// the sequential block-index build in package mftwalk: the path resolver
// uses it to re-materialize a record's attributes on demand instead of
// keeping every record's bytes resident in memory.
func ReadEntryAt(r io.ReaderAt, offset int64) (Entry, error) {
	b := make([]byte, RecordSize)
	n, err := r.ReadAt(b, offset)
	if err != nil && err != io.EOF {
		return Entry{}, mfterr.BufferFill(offset, RecordSize, err)
	}
	if n < headerSize {
		return Entry{}, mfterr.BufferFill(offset, RecordSize, fmt.Errorf("short read: got %d bytes", n))
	}
	return ParseEntry(b[:n], offset)
}

// IsZeroed reports whether b, the leading header bytes of a record slot, is
// all zero bytes rather than a "FILE" signature, marking an unused,
// never-written slot. Only the bytes passed in are inspected.
func IsZeroed(b []byte) bool {
	return binutil.IsOnlyZeroes(b)
}

// FileReference is a reference to an MFT record: a 48-bit entry number and a
// 16-bit sequence number packed into 8 bytes. Two FileReferences compare
// equal (via Equal) when their entry numbers match, regardless of sequence
// number, matching the original implementation's PartialEq.
type FileReference struct {
	EntryNumber    uint64
	SequenceNumber uint16
}

// Equal reports whether two FileReferences refer to the same MFT entry,
// ignoring the sequence number.
func (f FileReference) Equal(o FileReference) bool {
	return f.EntryNumber == o.EntryNumber
}

// ParseFileReference parses a little-endian 8-byte slice into a
// FileReference. The low 6 bytes are the entry number; the high 2 bytes are
// the sequence number.
func ParseFileReference(b []byte) (FileReference, error) {
	if len(b) != 8 {
		return FileReference{}, fmt.Errorf("expected 8 bytes but got %d", len(b))
	}
	entryBytes := make([]byte, 8)
	copy(entryBytes, b[:6])
	return FileReference{
		EntryNumber:    binary.LittleEndian.Uint64(entryBytes),
		SequenceNumber: binary.LittleEndian.Uint16(b[6:]),
	}, nil
}

// RecordFlag is the bit mask in a record header indicating in-use/directory
// status.
type RecordFlag uint16

const (
	RecordFlagInUse       RecordFlag = 0x0001
	RecordFlagIsDirectory RecordFlag = 0x0002
	RecordFlagInExtend    RecordFlag = 0x0004
	RecordFlagIsIndex     RecordFlag = 0x0008
)

// Is reports whether f's bit mask contains c.
func (f RecordFlag) Is(c RecordFlag) bool {
	return f&c == c
}

// applyFixup validates and applies the update sequence array: the last two
// bytes of each 512-byte sector were swapped out for the update sequence
// number at write time and must be restored from the update sequence array
// before the record can be trusted.
func applyFixup(b []byte, offset, length int) ([]byte, error) {
	r := binutil.NewLittleEndianReader(b)

	updateSequence := r.Read(offset, length*2) // length is in words, not bytes
	updateSequenceNumber := updateSequence[:2]
	updateSequenceArray := updateSequence[2:]

	sectorCount := len(updateSequenceArray) / 2
	if sectorCount == 0 {
		return b, nil
	}
	sectorSize := len(b) / sectorCount

	for i := 1; i <= sectorCount; i++ {
		pos := sectorSize*i - 2
		if !bytes.Equal(updateSequenceNumber, b[pos:pos+2]) {
			return nil, fmt.Errorf("update sequence mismatch at pos %d", pos)
		}
	}

	for i := 0; i < sectorCount; i++ {
		pos := sectorSize*(i+1) - 2
		num := i * 2
		copy(b[pos:pos+2], updateSequenceArray[num:num+2])
	}

	return b, nil
}

// AttributeType identifies the kind of an Attribute.
type AttributeType uint32

const (
	AttributeTypeStandardInformation AttributeType = 0x10  // $STANDARD_INFORMATION; always resident
	AttributeTypeAttributeList       AttributeType = 0x20  // $ATTRIBUTE_LIST; mixed residency
	AttributeTypeFileName            AttributeType = 0x30  // $FILE_NAME; always resident
	AttributeTypeObjectId            AttributeType = 0x40  // $OBJECT_ID; always resident
	AttributeTypeSecurityDescriptor  AttributeType = 0x50  // $SECURITY_DESCRIPTOR
	AttributeTypeVolumeName          AttributeType = 0x60  // $VOLUME_NAME
	AttributeTypeVolumeInformation   AttributeType = 0x70  // $VOLUME_INFORMATION
	AttributeTypeData                AttributeType = 0x80  // $DATA; mixed residency
	AttributeTypeIndexRoot           AttributeType = 0x90  // $INDEX_ROOT; always resident
	AttributeTypeIndexAllocation     AttributeType = 0xa0  // $INDEX_ALLOCATION
	AttributeTypeBitmap              AttributeType = 0xb0  // $BITMAP
	AttributeTypeReparsePoint        AttributeType = 0xc0  // $REPARSE_POINT
	AttributeTypeEAInformation       AttributeType = 0xd0  // $EA_INFORMATION
	AttributeTypeEA                  AttributeType = 0xe0  // $EA
	AttributeTypePropertySet         AttributeType = 0xf0  // $PROPERTY_SET
	AttributeTypeLoggedUtilityStream AttributeType = 0x100 // $LOGGED_UTILITY_STREAM

	attributeTypeTerminator AttributeType = 0xFFFFFFFF
)

// Name returns the NTFS attribute name, e.g. "$FILE_NAME", or "unknown".
func (at AttributeType) Name() string {
	switch at {
	case AttributeTypeStandardInformation:
		return "$STANDARD_INFORMATION"
	case AttributeTypeAttributeList:
		return "$ATTRIBUTE_LIST"
	case AttributeTypeFileName:
		return "$FILE_NAME"
	case AttributeTypeObjectId:
		return "$OBJECT_ID"
	case AttributeTypeSecurityDescriptor:
		return "$SECURITY_DESCRIPTOR"
	case AttributeTypeVolumeName:
		return "$VOLUME_NAME"
	case AttributeTypeVolumeInformation:
		return "$VOLUME_INFORMATION"
	case AttributeTypeData:
		return "$DATA"
	case AttributeTypeIndexRoot:
		return "$INDEX_ROOT"
	case AttributeTypeIndexAllocation:
		return "$INDEX_ALLOCATION"
	case AttributeTypeBitmap:
		return "$BITMAP"
	case AttributeTypeReparsePoint:
		return "$REPARSE_POINT"
	case AttributeTypeEAInformation:
		return "$EA_INFORMATION"
	case AttributeTypeEA:
		return "$EA"
	case AttributeTypePropertySet:
		return "$PROPERTY_SET"
	case AttributeTypeLoggedUtilityStream:
		return "$LOGGED_UTILITY_STREAM"
	}
	return "unknown"
}

// AttributeFlags is the bit mask describing compression/encryption/sparse
// state of an attribute's data.
type AttributeFlags uint16

const (
	AttributeFlagsCompressed AttributeFlags = 0x0001
	AttributeFlagsEncrypted  AttributeFlags = 0x4000
	AttributeFlagsSparse     AttributeFlags = 0x8000
)

func (f AttributeFlags) Is(c AttributeFlags) bool {
	return f&c == c
}

// ResidentData is the attribute form where the payload is stored directly in
// this record.
type ResidentData struct {
	DataOffset   int
	DataSize     int
	IndexedFlag  byte
	Data         []byte
}

// NonResidentData is the attribute form where the payload lives in clusters
// described by data runs elsewhere on the volume. mftwalk never parses the
// data runs themselves (see SPEC_FULL.md's non-goals), but keeps the full
// field set so the block index and any diagnostic caller can see the sizes.
type NonResidentData struct {
	LowestVCN            uint64
	HighestVCN           uint64
	DataRunOffset        int
	CompressionUnitSize  uint16
	AllocatedSize        uint64
	DataSize             uint64
	InitializedSize      uint64
	CompressedSize       uint64
	HasCompressedSize    bool
}

// Attribute is one parsed attribute header, plus either its Resident or its
// NonResident data depending on Resident.
type Attribute struct {
	Offset      int
	Type        AttributeType
	RecordLen   int
	Resident    bool
	Name        string
	Flags       AttributeFlags
	AttributeId int

	Res    ResidentData
	NonRes NonResidentData
}

func parseAttributes(b []byte) ([]Attribute, error) {
	if len(b) == 0 {
		return []Attribute{}, nil
	}
	attributes := make([]Attribute, 0)
	consumed := 0
	for len(b) > 0 {
		if len(b) < 4 {
			return nil, fmt.Errorf("attribute header data should be at least 4 bytes but is %d", len(b))
		}

		r := binutil.NewLittleEndianReader(b)
		attrType := r.Uint32(0)
		if attrType == uint32(attributeTypeTerminator) {
			break
		}

		if len(b) < 8 {
			return nil, fmt.Errorf("cannot read attribute record length, data should be at least 8 bytes but is %d", len(b))
		}

		uRecordLength := r.Uint32(0x04)
		if int64(uRecordLength) > maxInt {
			return nil, fmt.Errorf("record length %d overflows maximum int value %d", uRecordLength, maxInt)
		}
		recordLength := int(uRecordLength)
		if recordLength <= 0 {
			return nil, fmt.Errorf("cannot handle attribute with non-positive record length %d", recordLength)
		}
		if recordLength > len(b) {
			return nil, fmt.Errorf("attribute record length %d exceeds data length %d", recordLength, len(b))
		}

		recordData := r.Read(0, recordLength)
		attribute, err := parseAttribute(recordData, consumed)
		if err != nil {
			return nil, err
		}
		attributes = append(attributes, attribute)
		b = r.ReadFrom(recordLength)
		consumed += recordLength
	}
	return attributes, nil
}

func parseAttribute(b []byte, offset int) (Attribute, error) {
	if len(b) < 22 {
		return Attribute{}, fmt.Errorf("attribute data should be at least 22 bytes but is %d", len(b))
	}

	r := binutil.NewLittleEndianReader(b)

	nameLength := r.Byte(0x09)
	nameOffset := r.Uint16(0x0A)

	name := ""
	if nameLength != 0 {
		nameBytes := r.Read(int(nameOffset), int(nameLength)*2)
		decoded, err := utf16.DecodeString(nameBytes, binary.LittleEndian)
		if err != nil {
			return Attribute{}, mfterr.ValueRead("attribute_name", "utf16", err)
		}
		name = decoded
	}

	resident := r.Byte(0x08) == 0x00
	attr := Attribute{
		Offset:      offset,
		Type:        AttributeType(r.Uint32(0)),
		RecordLen:   len(b),
		Resident:    resident,
		Name:        name,
		Flags:       AttributeFlags(r.Uint16(0x0C)),
		AttributeId: int(r.Uint16(0x0E)),
	}

	if resident {
		dataOffset := int(r.Uint16(0x14))
		uDataLength := r.Uint32(0x10)
		if int64(uDataLength) > maxInt {
			return Attribute{}, fmt.Errorf("attribute data length %d overflows maximum int value %d", uDataLength, maxInt)
		}
		dataLength := int(uDataLength)
		expectedDataLength := dataOffset + dataLength
		if len(b) < expectedDataLength {
			return Attribute{}, fmt.Errorf("expected attribute data length to be at least %d but is %d", expectedDataLength, len(b))
		}
		attr.Res = ResidentData{
			DataOffset:  dataOffset,
			DataSize:    dataLength,
			IndexedFlag: r.Byte(0x16),
			Data:        binutil.Duplicate(r.Read(dataOffset, dataLength)),
		}
		return attr, nil
	}

	dataOffset := int(r.Uint16(0x20))
	if len(b) < dataOffset {
		return Attribute{}, fmt.Errorf("expected attribute data length to be at least %d but is %d", dataOffset, len(b))
	}
	nonRes := NonResidentData{
		LowestVCN:           r.Uint64(0x10),
		HighestVCN:          r.Uint64(0x18),
		DataRunOffset:       int(r.Uint16(0x20)),
		CompressionUnitSize: r.Uint16(0x22),
		AllocatedSize:       r.Uint64(0x28),
		DataSize:            r.Uint64(0x30),
		InitializedSize:     r.Uint64(0x38),
	}
	if AttributeFlags(r.Uint16(0x0C)).Is(AttributeFlagsCompressed) && len(b) >= 0x48 {
		nonRes.CompressedSize = r.Uint64(0x40)
		nonRes.HasCompressedSize = true
	}
	attr.NonRes = nonRes
	return attr, nil
}
