/*
Package attributes decodes the payload bytes of MFT attributes that package
raw only exposes as headers plus resident/non-resident byte slices:
$STANDARD_INFORMATION, $FILE_NAME, $ATTRIBUTE_LIST, and resident $DATA.
*/
package attributes

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ntfsutils/mftwalk/binutil"
	"github.com/ntfsutils/mftwalk/mfterr"
	"github.com/ntfsutils/mftwalk/raw"
	"github.com/ntfsutils/mftwalk/utf16"
)

// FileAttribute is the Windows file attribute bit mask found in
// $STANDARD_INFORMATION and $FILE_NAME.
type FileAttribute uint32

const (
	FileAttributeReadOnly          FileAttribute = 0x0001
	FileAttributeHidden            FileAttribute = 0x0002
	FileAttributeSystem            FileAttribute = 0x0004
	FileAttributeArchive           FileAttribute = 0x0020
	FileAttributeDevice            FileAttribute = 0x0040
	FileAttributeNormal            FileAttribute = 0x0080
	FileAttributeTemporary         FileAttribute = 0x0100
	FileAttributeSparseFile        FileAttribute = 0x0200
	FileAttributeReparsePoint      FileAttribute = 0x0400
	FileAttributeCompressed        FileAttribute = 0x0800
	FileAttributeOffline           FileAttribute = 0x1000
	FileAttributeNotContentIndexed FileAttribute = 0x2000
	FileAttributeEncrypted         FileAttribute = 0x4000

	// directoryFlag is the value spec.md's is_file predicate treats as "this
	// is a directory, not a plain file" — preserved verbatim from the source
	// this spec was distilled from rather than NTFS's own
	// FILE_ATTRIBUTE_DIRECTORY complement check.
	directoryFlag FileAttribute = 0x10
)

// Is reports whether f's bit mask contains c.
func (f FileAttribute) Is(c FileAttribute) bool {
	return f&c == c
}

// IsFile implements spec.md's is_file predicate: file_attributes != 0x10,
// preserved exactly rather than generalized to a bitwise directory check.
func (f FileAttribute) IsFile() bool {
	return f != directoryFlag
}

// StandardInformation is the decoded $STANDARD_INFORMATION attribute.
type StandardInformation struct {
	Creation                time.Time
	FileLastModified        time.Time
	MftLastModified         time.Time
	LastAccess              time.Time
	FileAttributes          FileAttribute
	MaximumNumberOfVersions uint32
	VersionNumber           uint32
	ClassId                 uint32
	OwnerId                 uint32
	SecurityId              uint32
	QuotaCharged            uint64
	UpdateSequenceNumber    uint64
}

// ParseStandardInformation decodes a $STANDARD_INFORMATION attribute's
// resident data. Older or truncated records may lack the trailing
// owner/security/quota/usn fields; those are left zero rather than erroring.
func ParseStandardInformation(b []byte) (StandardInformation, error) {
	if len(b) < 48 {
		return StandardInformation{}, fmt.Errorf("expected at least 48 bytes but got %d", len(b))
	}

	r := binutil.NewLittleEndianReader(b)
	var ownerId, securityId uint32
	var quotaCharged, updateSequenceNumber uint64
	if len(b) >= 0x30+4 {
		ownerId = r.Uint32(0x30)
	}
	if len(b) >= 0x34+4 {
		securityId = r.Uint32(0x34)
	}
	if len(b) >= 0x38+8 {
		quotaCharged = r.Uint64(0x38)
	}
	if len(b) >= 0x40+8 {
		updateSequenceNumber = r.Uint64(0x40)
	}
	return StandardInformation{
		Creation:                binutil.ConvertFileTime(r.Uint64(0x00)),
		FileLastModified:        binutil.ConvertFileTime(r.Uint64(0x08)),
		MftLastModified:         binutil.ConvertFileTime(r.Uint64(0x10)),
		LastAccess:              binutil.ConvertFileTime(r.Uint64(0x18)),
		FileAttributes:          FileAttribute(r.Uint32(0x20)),
		MaximumNumberOfVersions: r.Uint32(0x24),
		VersionNumber:           r.Uint32(0x28),
		ClassId:                 r.Uint32(0x2C),
		OwnerId:                 ownerId,
		SecurityId:              securityId,
		QuotaCharged:            quotaCharged,
		UpdateSequenceNumber:    updateSequenceNumber,
	}, nil
}

// FileNameNamespace identifies which of the (up to four) names a record can
// carry this one is: POSIX, Win32, DOS, or Win32+DOS combined. A namespace
// of 2 (pure DOS 8.3) is the one the path resolver skips in favor of any
// other available name.
type FileNameNamespace byte

const (
	FileNameNamespacePosix   FileNameNamespace = 0
	FileNameNamespaceWin32   FileNameNamespace = 1
	FileNameNamespaceDOS     FileNameNamespace = 2
	FileNameNamespaceWin32AndDOS FileNameNamespace = 3
)

// FileName is a decoded $FILE_NAME attribute: one candidate name plus a
// pointer to the parent directory's record.
type FileName struct {
	ParentFileReference raw.FileReference
	Creation            time.Time
	FileLastModified    time.Time
	MftLastModified     time.Time
	LastAccess          time.Time
	AllocatedSize       uint64
	RealSize            uint64
	Flags               FileAttribute
	ExtendedData        uint32
	Namespace           FileNameNamespace
	Name                string
}

// ParseFileName decodes a $FILE_NAME attribute's resident data.
func ParseFileName(b []byte) (FileName, error) {
	if len(b) < 66 {
		return FileName{}, fmt.Errorf("expected at least 66 bytes but got %d", len(b))
	}

	fileNameLength := int(b[0x40]) * 2
	minExpectedSize := 66 + fileNameLength
	if len(b) < minExpectedSize {
		return FileName{}, fmt.Errorf("expected at least %d bytes but got %d", minExpectedSize, len(b))
	}

	r := binutil.NewLittleEndianReader(b)
	name, err := utf16.DecodeString(r.Read(0x42, fileNameLength), binary.LittleEndian)
	if err != nil {
		return FileName{}, mfterr.ValueRead("file_name", "utf16", err)
	}
	parentRef, err := raw.ParseFileReference(r.Read(0x00, 8))
	if err != nil {
		return FileName{}, mfterr.ValueRead("parent_file_reference", "FileReference", err)
	}
	return FileName{
		ParentFileReference: parentRef,
		Creation:            binutil.ConvertFileTime(r.Uint64(0x08)),
		FileLastModified:    binutil.ConvertFileTime(r.Uint64(0x10)),
		MftLastModified:     binutil.ConvertFileTime(r.Uint64(0x18)),
		LastAccess:          binutil.ConvertFileTime(r.Uint64(0x20)),
		AllocatedSize:       r.Uint64(0x28),
		RealSize:            r.Uint64(0x30),
		Flags:               FileAttribute(r.Uint32(0x38)),
		ExtendedData:        r.Uint32(0x3c),
		Namespace:           FileNameNamespace(r.Byte(0x41)),
		Name:                name,
	}, nil
}

// IsUsableForPath reports whether this name should be considered as a path
// component candidate: any namespace except pure DOS (8.3 short names),
// which are skipped in favor of a long name when one exists.
func (f FileName) IsUsableForPath() bool {
	return f.Namespace != FileNameNamespaceDOS
}

// AttributeListEntry is one entry of an $ATTRIBUTE_LIST: a pointer to the
// record (base or extension) that actually carries a given attribute.
type AttributeListEntry struct {
	Type                raw.AttributeType
	Name                string
	StartingVCN         uint64
	BaseRecordReference raw.FileReference
	AttributeId         uint16
}

// ParseAttributeList decodes an $ATTRIBUTE_LIST attribute's resident data
// into its entries. There is no fixed count; entries are walked until the
// buffer is exhausted, the same length-prefixed-entry idiom used by
// $INDEX_ROOT's own entry list.
func ParseAttributeList(b []byte) ([]AttributeListEntry, error) {
	if len(b) < 26 {
		return nil, fmt.Errorf("expected at least 26 bytes but got %d", len(b))
	}

	entries := make([]AttributeListEntry, 0)
	for len(b) > 0 {
		r := binutil.NewLittleEndianReader(b)
		entryLength := int(r.Uint16(0x04))
		if entryLength <= 0 || len(b) < entryLength {
			return entries, fmt.Errorf("expected at least %d bytes remaining for attribute list entry but is %d", entryLength, len(b))
		}
		nameLength := int(r.Byte(0x06))
		name := ""
		if nameLength != 0 {
			nameOffset := int(r.Byte(0x07))
			decoded, err := utf16.DecodeString(r.Read(nameOffset, nameLength*2), binary.LittleEndian)
			if err != nil {
				return entries, mfterr.ValueRead("attribute_list_name", "utf16", err)
			}
			name = decoded
		}
		baseRef, err := raw.ParseFileReference(r.Read(0x10, 8))
		if err != nil {
			return entries, mfterr.ValueRead("base_record_reference", "FileReference", err)
		}
		entries = append(entries, AttributeListEntry{
			Type:                raw.AttributeType(r.Uint32(0)),
			Name:                name,
			StartingVCN:         r.Uint64(0x08),
			BaseRecordReference: baseRef,
			AttributeId:         r.Uint16(0x18),
		})
		b = r.ReadFrom(entryLength)
	}
	return entries, nil
}

// Data is the decoded form of a resident $DATA attribute. Most files carry
// their content in non-resident form, which this module never reads (data
// run parsing is out of scope); only small resident streams reach here, in
// one of two representations depending on whether the stream is the
// Zone.Identifier alternate data stream browsers attach to downloaded files.
type Data struct {
	// Base64 holds the stream content for an ordinary resident $DATA
	// attribute, encoded so arbitrary binary content survives CSV/JSON
	// output untouched.
	Base64 string
	// ZoneIdentifier holds the raw text of a Zone.Identifier stream (an INI
	// -like "[ZoneTransfer]\nZoneId=3" block), which is always plain text.
	ZoneIdentifier string
	// IsZoneIdentifier reports which of Base64/ZoneIdentifier is populated.
	IsZoneIdentifier bool
}

// DataFromBuffer decodes a resident $DATA attribute's bytes. isZoneIdentifier
// should be true when the attribute's Name is "Zone.Identifier".
func DataFromBuffer(b []byte, isZoneIdentifier bool) Data {
	if isZoneIdentifier {
		return Data{ZoneIdentifier: string(b), IsZoneIdentifier: true}
	}
	return Data{Base64: base64.StdEncoding.EncodeToString(b)}
}
