package api

// UploadResult reports the outcome of ingesting one ZIP archive or
// checkpoint sheet into a dataset.
type UploadResult struct {
	Added    int       `json:"added"`
	Skipped  int       `json:"skipped"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Warning describes one archive entry skipped during ingestion.
type Warning struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// FlagUpdate toggles the classification flag of one row, addressed by its
// UUID or, for stamp-less documents, by its source filename.
type FlagUpdate struct {
	Key      string `json:"key"`
	Included bool   `json:"included"`
}

// FlagsResult reports how many rows an update changed.
type FlagsResult struct {
	Changed int `json:"changed"`
}

// RemoveRequest selects duplicate rows for removal by dataset position.
type RemoveRequest struct {
	Indices []int `json:"indices"`
}

// RemoveResult reports how many rows a removal deleted.
type RemoveResult struct {
	Removed int `json:"removed"`
}

// Periods lists the dataset's available periods and the default selection.
type Periods struct {
	Periods []string `json:"periods"`
	Latest  string   `json:"latest,omitempty"`
}

// CheckpointResult reports the merge outcome per dataset after a
// checkpoint load.
type CheckpointResult struct {
	Received UploadResult `json:"recibidos"`
	Issued   UploadResult `json:"emitidos"`
}

// Error is the JSON error envelope.
type Error struct {
	Message string `json:"message"`
}
