package domain

// Neighbor is one k-nearest-neighbour result. Distance is squared L2.
// Position is the 0-based slot of the matched vector within the artifact.
// Identity fields are populated only when the position could be joined
// against store rows tagged with the same artifact; a position outside
// the mapped range is returned unresolved rather than failing the query.
type Neighbor struct {
	Rank     int     `json:"rank"`
	Distance float32 `json:"distance"`
	Position int     `json:"position"`

	Resolved   bool   `json:"resolved"`
	RecordID   int64  `json:"record_id,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	FullName   string `json:"full_name,omitempty"`
}
