package block_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ntfsutils/mftwalk/block"
	"github.com/ntfsutils/mftwalk/raw"
)

func TestFromAttributeType(t *testing.T) {
	assert.Equal(t, block.BlockTypeFileName, block.FromAttributeType(raw.AttributeTypeFileName))
	assert.Equal(t, block.BlockTypeData, block.FromAttributeType(raw.AttributeTypeData))
	assert.Equal(t, block.BlockTypeUnknownAttribute, block.FromAttributeType(raw.AttributeType(0x999)))
}

func TestNewFromEntryBuildsEntryAndAttributeSections(t *testing.T) {
	entry := raw.Entry{
		Offset: 1024,
		Header: raw.Header{ActualSize: 480, AllocatedSize: 1024, FirstAttributeOffset: 56},
		Attributes: []raw.Attribute{
			{
				Offset:      0,
				Type:        raw.AttributeTypeStandardInformation,
				Resident:    true,
				AttributeId: 0,
				Res:         raw.ResidentData{DataOffset: 0x18, DataSize: 48},
			},
			{
				Offset:      72,
				Type:        raw.AttributeTypeData,
				Name:        "Zone.Identifier",
				Resident:    true,
				AttributeId: 4,
				Res:         raw.ResidentData{DataOffset: 0x18, DataSize: 27},
			},
		},
	}

	b := block.NewFromEntry(entry, 5)
	assert.Equal(t, uint64(5), b.EntryID)

	entrySection, ok := b.Find(block.BlockTypeEntry)
	assert.True(t, ok)
	assert.Equal(t, int64(1024), entrySection.Offset)
	assert.Equal(t, uint64(1024), entrySection.Size)

	si, ok := b.Find(block.BlockTypeStandardInformation)
	assert.True(t, ok)
	assert.Equal(t, int64(1024+56+0+0x18), si.Offset)
	assert.Equal(t, uint64(48), si.Size)

	zone, ok := b.Find(block.BlockTypeZoneIdentifier)
	assert.True(t, ok)
	assert.Equal(t, int64(1024+56+72+0x18), zone.Offset)
}
