package model

// request kinds
const (
	KindFollow = "follow"
	KindChat   = "chat"
	KindPhoto  = "photo"
	KindBoth   = "both"
)

// request statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Request is a directional connection request between two users.
//
// The unique index covers the ordered (from, to) pair only, independent
// of kind: the schema predates the photo kind and the ledger works
// around it (photo requests share the unordered pair, other kinds merge
// into "both"). Concurrent creations for the same pair surface as a
// uniqueness violation which the ledger resolves by re-reading.
type Request struct {
	Base
	FromID uint   `gorm:"uniqueIndex:idx_requests_pair,priority:1" json:"from_id"`
	ToID   uint   `gorm:"uniqueIndex:idx_requests_pair,priority:2;index" json:"to_id"`
	From   *User  `gorm:"foreignKey:FromID" json:"from,omitempty"`
	To     *User  `gorm:"foreignKey:ToID" json:"to,omitempty"`
	Kind   string `gorm:"default:follow" json:"kind"`
	Status string `gorm:"default:pending" json:"status"`
}

// IsConnection reports whether an accepted record of this kind counts
// as a mutual follow/chat connection (photo grants image access only).
func (r *Request) IsConnection() bool {
	return r.Kind == KindFollow || r.Kind == KindChat || r.Kind == KindBoth
}
