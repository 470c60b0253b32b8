package answer

import "github.com/manualqa/manualqa/core"

// Monitor provides hooks to observe the answering process.
// Implement this interface to track intermediate steps during retrieval and
// generation, e.g. for a verbose CLI mode.
type Monitor interface {
	Start(question string)
	AfterQueryEmbedding(dimensions int)
	AfterRetrieval(matches []*core.ChunkMatch)
	Finish(answer string)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                      {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)           {}
func (n *noopMonitor) AfterRetrieval(_ []*core.ChunkMatch) {}
func (n *noopMonitor) Finish(_ string)                     {}
