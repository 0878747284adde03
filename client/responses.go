package client

// TaskResponse acknowledges a write operation that enqueued an asynchronous
// indexing task. The task ID feeds WaitTask.
type TaskResponse struct {
	TaskID    int64  `json:"taskID"`
	ObjectID  string `json:"objectID,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	DeletedAt string `json:"deletedAt,omitempty"`
}

// BatchResponse acknowledges a batch write
type BatchResponse struct {
	TaskID    int64    `json:"taskID"`
	ObjectIDs []string `json:"objectIDs"`
}

// batchRequest is one entry of a /batch payload
type batchRequest struct {
	Action string `json:"action"`
	Body   any    `json:"body"`
}

// SearchResponse carries the hits for one query. Hit content and ranking
// are opaque payload; the client never inspects them.
type SearchResponse struct {
	Hits             []map[string]any `json:"hits"`
	NbHits           int              `json:"nbHits"`
	Page             int              `json:"page"`
	NbPages          int              `json:"nbPages"`
	HitsPerPage      int              `json:"hitsPerPage"`
	ProcessingTimeMS int              `json:"processingTimeMS"`
	Query            string           `json:"query"`
	Params           string           `json:"params"`
}

// BrowseResponse carries one page of a browse iteration; an empty cursor
// means the iteration is complete
type BrowseResponse struct {
	Hits    []map[string]any `json:"hits"`
	Cursor  string           `json:"cursor"`
	NbHits  int              `json:"nbHits"`
	Page    int              `json:"page"`
	NbPages int              `json:"nbPages"`
}

// ListIndexesResponse enumerates the application's indexes
type ListIndexesResponse struct {
	Items   []IndexInfo `json:"items"`
	NbPages int         `json:"nbPages"`
}

// IndexInfo describes one index in a listing
type IndexInfo struct {
	Name           string `json:"name"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
	Entries        int64  `json:"entries"`
	DataSize       int64  `json:"dataSize"`
	FileSize       int64  `json:"fileSize"`
	LastBuildTimeS int64  `json:"lastBuildTimeS"`
	PendingTask    bool   `json:"pendingTask"`
}
