package model

// ImportTaskPayload is the asynq task body for asynchronous product
// imports. The worker replays it through the same import service the
// synchronous path uses.
type ImportTaskPayload struct {
	Request    ImportRequest `json:"request"`
	ImportedBy *string       `json:"imported_by,omitempty"`
	Source     string        `json:"source"`
}
