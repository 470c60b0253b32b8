// Package ingest builds persisted vector indexes from manual PDFs.
//
// The Pipeline type runs the full sequence for one document: text (and
// optionally figure) extraction, chunking, batch embedding, and a single
// atomic write of the index. Bulk directory ingestion fans documents out
// across a worker pool while keeping each document's processing sequential.
package ingest
