// Copyright 2026 ManualQA Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateManualRecord validates a ManualRecord according to domain rules.
//
// Validation rules:
//   - ProductName must not be empty and must already be normalized
//   - Status must be a known ManualStatus
//
// NOT validated (populated over the record's lifecycle):
//   - IndexLocation (empty until ingestion completes)
//   - ID (0 is valid from database sequences)
func ValidateManualRecord(record *ManualRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidManualRecord)
	}

	if record.ProductName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidManualRecord, ErrEmptyProductName)
	}

	if record.ProductName != NormalizeProductName(record.ProductName) {
		return fmt.Errorf("%w: product name %q is not normalized", ErrInvalidManualRecord, record.ProductName)
	}

	if err := ValidateManualStatus(record.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidManualRecord, err)
	}

	return nil
}

// ValidateManualStatus checks that a status is one of the known values.
func ValidateManualStatus(status ManualStatus) error {
	switch status {
	case StatusPending, StatusCompleted, StatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidStatus, status)
	}
}

// ValidateChunkRecord validates a ChunkRecord according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//
// NOT validated:
//   - Vector (can be empty until embedding runs)
//   - ID (content-based IDs are set before persistence)
func ValidateChunkRecord(record *ChunkRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidChunk)
	}

	if record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	return nil
}

// ValidateUnitKind checks that a unit kind is one of the known values.
func ValidateUnitKind(kind UnitKind) error {
	switch kind {
	case UnitBody, UnitFigure:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidUnitKind, kind)
	}
}
