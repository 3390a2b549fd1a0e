package attributes_test

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntfsutils/mftwalk/attributes"
	"github.com/ntfsutils/mftwalk/raw"
)

func decodeHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.Nilf(t, err, "unable to convert input hex to []byte: %v", err)
	return b
}

func TestFileAttributeIs(t *testing.T) {
	a := attributes.FileAttribute(0x83)
	assert.True(t, a.Is(attributes.FileAttributeReadOnly))
	assert.True(t, a.Is(attributes.FileAttributeHidden))
	assert.True(t, a.Is(attributes.FileAttributeNormal))
	assert.False(t, a.Is(attributes.FileAttributeDevice))
	assert.False(t, a.Is(attributes.FileAttributeCompressed))
}

func TestFileAttributeIsFile(t *testing.T) {
	assert.True(t, attributes.FileAttribute(0x20).IsFile())
	assert.False(t, attributes.FileAttribute(0x10).IsFile())
}

func TestParseStandardInformation(t *testing.T) {
	input := decodeHex(t, "8d07703c89d7d5018d07703c89d6d5018d07703c89d6d5018d07703c89d6d501200000000000A30005000000010000000070000001100000000010000000000028820f4b05000000")
	out, err := attributes.ParseStandardInformation(input)
	require.Nilf(t, err, "could not parse attribute: %v", err)
	expected := attributes.StandardInformation{
		Creation:                time.Date(2020, time.January, 30, 16, 20, 50, 176398100, time.UTC),
		FileLastModified:        time.Date(2020, time.January, 29, 9, 48, 19, 13620500, time.UTC),
		MftLastModified:         time.Date(2020, time.January, 29, 9, 48, 19, 13620500, time.UTC),
		LastAccess:              time.Date(2020, time.January, 29, 9, 48, 19, 13620500, time.UTC),
		FileAttributes:          attributes.FileAttribute(32),
		MaximumNumberOfVersions: 10682368,
		VersionNumber:           5,
		ClassId:                 1,
		OwnerId:                 28672,
		SecurityId:              4097,
		QuotaCharged:            1048576,
		UpdateSequenceNumber:    22734144040,
	}
	assert.Equal(t, expected, out)
}

func TestParseFileName(t *testing.T) {
	input := decodeHex(t, "e2680900000004007064eacc62b2d501000f014577c1cf01808beacc62b2d5017064eacc62b2d50100a00100000000002a9801000000000020000000000000000c036c006f0067006f002d003200350030002e0070006e006700")
	out, err := attributes.ParseFileName(input)
	require.Nilf(t, err, "could not parse attribute: %v", err)
	expected := attributes.FileName{
		ParentFileReference: raw.FileReference{EntryNumber: 616674, SequenceNumber: 4},
		Creation:            time.Date(2019, time.December, 14, 9, 42, 29, 175000000, time.UTC),
		FileLastModified:    time.Date(2014, time.August, 26, 21, 47, 02, 0, time.UTC),
		MftLastModified:     time.Date(2019, time.December, 14, 9, 42, 29, 176000000, time.UTC),
		LastAccess:          time.Date(2019, time.December, 14, 9, 42, 29, 175000000, time.UTC),
		AllocatedSize:       106496,
		RealSize:            104490,
		Flags:               attributes.FileAttribute(32),
		ExtendedData:        0,
		Namespace:           3,
		Name:                "logo-250.png",
	}
	assert.Equal(t, expected, out)
	assert.True(t, out.IsUsableForPath())
}

func TestFileNameDOSNamespaceNotUsableForPath(t *testing.T) {
	fn := attributes.FileName{Namespace: attributes.FileNameNamespaceDOS}
	assert.False(t, fn.IsUsableForPath())
}

func TestParseAttributeList(t *testing.T) {
	input := decodeHex(t, "100000002000001a00000000000000003b410500000009000000444300000000300000002000001a00000000000000003b410500000009000500000000000000800000002000001a00000000000000004e1905000000a9000000000000000000800000002000001abaec01000000000052400500000049000000000000000000800000002000001ab7180300000000000241050000000f000000000000000000800000002000001a103e0400000000000941050000001d000000000000000000")
	out, err := attributes.ParseAttributeList(input)
	require.Nilf(t, err, "could not parse attribute: %v", err)

	expected := []attributes.AttributeListEntry{
		{Type: raw.AttributeTypeStandardInformation, BaseRecordReference: raw.FileReference{EntryNumber: 344379, SequenceNumber: 9}},
		{Type: raw.AttributeTypeFileName, BaseRecordReference: raw.FileReference{EntryNumber: 344379, SequenceNumber: 9}, AttributeId: 5},
		{Type: raw.AttributeTypeData, BaseRecordReference: raw.FileReference{EntryNumber: 334158, SequenceNumber: 169}},
		{Type: raw.AttributeTypeData, StartingVCN: 0x1ecba, BaseRecordReference: raw.FileReference{EntryNumber: 344146, SequenceNumber: 73}},
		{Type: raw.AttributeTypeData, StartingVCN: 0x318b7, BaseRecordReference: raw.FileReference{EntryNumber: 344322, SequenceNumber: 15}},
		{Type: raw.AttributeTypeData, StartingVCN: 0x43e10, BaseRecordReference: raw.FileReference{EntryNumber: 344329, SequenceNumber: 29}},
	}
	assert.Equal(t, expected, out)
}

func TestDataFromBufferPlain(t *testing.T) {
	d := attributes.DataFromBuffer([]byte("hello"), false)
	assert.False(t, d.IsZoneIdentifier)
	assert.Equal(t, "aGVsbG8=", d.Base64)
}

func TestDataFromBufferZoneIdentifier(t *testing.T) {
	d := attributes.DataFromBuffer([]byte("[ZoneTransfer]\r\nZoneId=3\r\n"), true)
	assert.True(t, d.IsZoneIdentifier)
	assert.Equal(t, "[ZoneTransfer]\r\nZoneId=3\r\n", d.ZoneIdentifier)
}
