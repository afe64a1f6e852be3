package ledger

import (
	"context"
	"time"

	"github.com/nikahapp/matrimony-backend/db/model"
)

// RequestStore is the persistence boundary of the ledger. All getters
// return (nil, nil) when no record matches.
type RequestStore interface {
	// GetOrdered returns the record for the ordered (from, to) pair.
	// The legacy schema allows at most one per direction.
	GetOrdered(ctx context.Context, from, to uint) (*model.Request, error)
	// GetPhoto returns the photo-kind record between the pair in either
	// direction.
	GetPhoto(ctx context.Context, a, b uint) (*model.Request, error)
	GetByID(ctx context.Context, id uint) (*model.Request, error)
	// Create inserts a new record, returning ErrDuplicatePair when the
	// ordered-pair unique index is violated.
	Create(ctx context.Context, r *model.Request) error
	Save(ctx context.Context, r *model.Request) error
	Delete(ctx context.Context, id uint) error
	// DeleteBetween removes every record between the pair, both
	// directions, any kind or status. Used when one party blocks the
	// other.
	DeleteBetween(ctx context.Context, a, b uint) error
	ListIncoming(ctx context.Context, to uint) ([]model.Request, error)
	ListPendingAll(ctx context.Context, limit int) ([]model.Request, error)
	// Connected reports an accepted follow/chat/both record between the
	// pair in either direction.
	Connected(ctx context.Context, a, b uint) (bool, error)
	// HasAcceptedWith reports any accepted connection involving the
	// user, used for feed exclusion.
	AcceptedPeerIDs(ctx context.Context, userID uint) ([]uint, error)
}

// AccountStore resolves and mutates accounts.
type AccountStore interface {
	// Get returns the user with block/rejection sets preloaded, or
	// (nil, nil) when absent.
	Get(ctx context.Context, id uint) (*model.User, error)
	// ConsumeQuota spends one quota unit: when the stored counter
	// belongs to a previous UTC day it is reset to 1 and the timestamp
	// advanced, otherwise it is incremented. Implemented as a single
	// find-and-update. The passed user's counters are refreshed.
	ConsumeQuota(ctx context.Context, u *model.User, now time.Time) error
}

// PolicyStore supplies per-request snapshots of the global settings and
// plan definitions.
type PolicyStore interface {
	Settings(ctx context.Context) (*model.AppSettings, error)
	// Plan returns (nil, nil) for an unknown or missing plan id.
	Plan(ctx context.Context, id uint) (*model.PremiumPlan, error)
}

// lifecycle event types
const (
	EventRequestReceived = "request:received"
	EventRequestAccepted = "request:accepted"
	EventRequestRejected = "request:rejected"
	EventPhotoRequested  = "photo:requested"
	EventPhotoApproved   = "photo:approved"
	EventPhotoRejected   = "photo:rejected"
)

// Event is a lifecycle notification to a counterpart. Delivery is
// best-effort: emitters log failures and never report them back.
type Event struct {
	Type        string `json:"type"`
	ActorID     uint   `json:"actor_id"`
	RecipientID uint   `json:"recipient_id"`
	RequestID   uint   `json:"request_id,omitempty"`
	Kind        string `json:"kind,omitempty"`
}

// Emitter pushes lifecycle events to the recipient's devices.
type Emitter interface {
	Emit(ctx context.Context, e Event)
}

// Invalidator drops the cached pending-request listing of a user after
// a ledger mutation. Best-effort.
type Invalidator interface {
	Invalidate(ctx context.Context, userID uint)
}
