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

import "errors"

// Domain validation errors
var (
	// ErrInvalidManualRecord indicates a ManualRecord failed validation.
	ErrInvalidManualRecord = errors.New("invalid manual record")

	// ErrInvalidChunk indicates a Chunk or ChunkRecord failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyProductName indicates the ProductName field is empty.
	ErrEmptyProductName = errors.New("product name cannot be empty")

	// ErrEmptyText indicates a text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidStatus indicates an invalid ManualStatus value.
	ErrInvalidStatus = errors.New("invalid manual status")

	// ErrInvalidUnitKind indicates an invalid UnitKind value.
	ErrInvalidUnitKind = errors.New("invalid unit kind")
)
