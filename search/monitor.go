package search

import "github.com/poiesic/resumedex/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterEmbedding(vector []float32)
	AfterRetrieval(scored []core.ScoredDocument)
	AfterSynthesis(answer string)
	Finish(results []core.QueryResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterEmbedding(_ []float32)             {}
func (n *noopMonitor) AfterRetrieval(_ []core.ScoredDocument) {}
func (n *noopMonitor) AfterSynthesis(_ string)                {}
func (n *noopMonitor) Finish(_ []core.QueryResult)            {}
