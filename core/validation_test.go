package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateManualRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *ManualRecord
		wantErr error
	}{
		{
			name: "valid pending record",
			record: &ManualRecord{
				ProductName: "acme blender 300",
				DisplayName: "Acme Blender 300",
				Status:      StatusPending,
			},
		},
		{
			name: "valid completed record",
			record: &ManualRecord{
				ProductName:   "acme blender 300",
				IndexLocation: "/var/data/indexes/1",
				Status:        StatusCompleted,
			},
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidManualRecord,
		},
		{
			name:    "empty product name",
			record:  &ManualRecord{Status: StatusPending},
			wantErr: ErrEmptyProductName,
		},
		{
			name:    "unnormalized product name",
			record:  &ManualRecord{ProductName: "Acme Blender", Status: StatusPending},
			wantErr: ErrInvalidManualRecord,
		},
		{
			name:    "invalid status",
			record:  &ManualRecord{ProductName: "acme blender", Status: ManualStatus(42)},
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManualRecord(tt.record)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunkRecord(t *testing.T) {
	assert.NoError(t, ValidateChunkRecord(&ChunkRecord{Text: "some passage"}))
	assert.ErrorIs(t, ValidateChunkRecord(&ChunkRecord{}), ErrEmptyText)
	assert.ErrorIs(t, ValidateChunkRecord(nil), ErrInvalidChunk)
}

func TestValidateUnitKind(t *testing.T) {
	assert.NoError(t, ValidateUnitKind(UnitBody))
	assert.NoError(t, ValidateUnitKind(UnitFigure))
	assert.ErrorIs(t, ValidateUnitKind(UnitKind(0)), ErrInvalidUnitKind)
}
