// Package reindex rebuilds the vectors of an existing manual index with a
// new or updated embedding model. The stored chunk text is re-embedded in
// batches, so the original PDF is not needed.
//
// Answering requires index and query embeddings from the same model; after
// switching models, every index must be reindexed before it can be queried
// again. Batches are retried with exponential backoff and progress is
// reported to a configurable writer.
package reindex
