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


// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.AIProvider interface using the langchaingo
// library to communicate with OpenAI or OpenAI-compatible services (such as
// Ollama, LocalAI, or vLLM). It provides:
//
//   - Embedder: text embeddings via the embeddings endpoint
//   - Captioner: figure descriptions via vision-capable chat models
//   - Completer: single-turn answers at temperature zero
//
// All three services are configured from one ai.Config, so the embedding
// model used at index time is necessarily the one used at query time.
package openai
