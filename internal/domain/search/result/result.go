package result

// Document is a single search hit, passed through unmodified from the service.
type Document struct {
	ChunkID       string   `json:"chunk_id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Categories    []string `json:"categories"`
	Score         float64  `json:"score"`
	RerankerScore float64  `json:"reranker_score,omitempty"`
	ReferenceLink string   `json:"reference_link"`
}

// Page is the outcome of one search call.
type Page struct {
	Documents []Document
	// TotalCount is the service-side match count, -1 when not reported.
	TotalCount int64
}
