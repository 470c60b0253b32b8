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


// Package storage provides the storage abstraction layer for ManualQA.
//
// This package defines repository interfaces that decouple storage
// implementation from pipeline logic. Two stores exist:
//
//   - ChunkRepository: one persisted vector index per ingested manual,
//     addressed by a filesystem location, written once and read many times
//   - ManualRegistry: the catalog of products and their ingestion status
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return interface types to
// enforce abstraction and allow alternative backends:
//
//	repo, err := badger.OpenChunkRepository(location)  // returns storage.ChunkRepository
//
// # Serialization
//
// Records are serialized with hand-maintained MUS serializers (core package)
// and stored as opaque values; this file's helpers wrap them for use by
// backend implementations.
package storage
