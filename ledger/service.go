// Package ledger owns the connection-request state machine: creation,
// kind merging, acceptance, rejection and withdrawal of requests
// between two users, plus the daily quota gate on submissions.
package ledger

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/nikahapp/matrimony-backend/db/model"
	"github.com/nikahapp/matrimony-backend/quota"
	"github.com/nikahapp/matrimony-backend/visibility"
)

type Service struct {
	requests RequestStore
	accounts AccountStore
	policies PolicyStore
	emitter  Emitter
	cache    Invalidator
	logger   *log.Logger
	now      func() time.Time
}

func NewService(req RequestStore, acc AccountStore, pol PolicyStore, em Emitter, inv Invalidator, l *log.Logger) *Service {
	return &Service{
		requests: req,
		accounts: acc,
		policies: pol,
		emitter:  em,
		cache:    inv,
		logger:   l,
		now:      time.Now,
	}
}

type SubmitResult struct {
	RequestID      uint   `json:"request_id"`
	Status         string `json:"status"`
	Kind           string `json:"kind"`
	QuotaRemaining int    `json:"quota_remaining"`
}

type RespondResult struct {
	Status string `json:"status"`
}

type WithdrawResult struct {
	// Cancelled is true when the caller's own outgoing request was
	// removed, false when the withdrawal rejected an incoming one.
	Cancelled bool `json:"cancelled"`
}

// Submit creates or merges a request of the given kind from the user to
// the target. Same-kind resubmission is idempotent, a different
// non-photo kind in the same direction merges into "both", and a
// concurrent-create uniqueness violation is resolved by re-reading.
// Photo requests are quota-exempt.
func (s *Service) Submit(ctx context.Context, from *model.User, toID uint, kind string) (*SubmitResult, error) {
	if kind == "" {
		kind = model.KindFollow
	}
	switch kind {
	case model.KindFollow, model.KindChat, model.KindPhoto:
	default:
		return nil, ErrBadKind
	}
	if toID == 0 {
		return nil, ErrMissingTarget
	}
	if from.ID == toID {
		return nil, ErrSelfTarget
	}
	if from.IsAdmin {
		return nil, ErrAdminExcluded
	}

	to, err := s.accounts.Get(ctx, toID)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, ErrNotFound
	}
	if to.IsAdmin {
		return nil, ErrAdminExcluded
	}
	if from.HasBlocked(toID) || to.HasBlocked(from.ID) {
		return nil, ErrBlocked
	}

	settings, err := s.policies.Settings(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := s.planOf(ctx, from)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if kind != model.KindPhoto && quota.Exceeded(from, plan, settings, now) {
		return nil, &LimitError{
			Limit:     quota.EffectiveLimit(from, plan, settings, now),
			Remaining: 0,
			IsPremium: from.PremiumActive(now),
		}
	}

	if r, merged, err := s.resolveExisting(ctx, from.ID, toID, kind); err != nil {
		return nil, err
	} else if r != nil {
		if merged {
			s.invalidate(ctx, toID)
		}
		return &SubmitResult{
			RequestID:      r.ID,
			Status:         r.Status,
			Kind:           r.Kind,
			QuotaRemaining: quota.Remaining(from, plan, settings, now),
		}, nil
	}

	r := &model.Request{FromID: from.ID, ToID: toID, Kind: kind, Status: model.StatusPending}
	if err := s.requests.Create(ctx, r); err != nil {
		if !errors.Is(err, ErrDuplicatePair) {
			return nil, err
		}
		// lost the race: the pair record exists now, fold into it
		r2, _, err := s.resolveExisting(ctx, from.ID, toID, kind)
		if err != nil {
			return nil, err
		}
		if r2 == nil {
			return nil, ErrDuplicatePair
		}
		s.invalidate(ctx, toID)
		return &SubmitResult{
			RequestID:      r2.ID,
			Status:         r2.Status,
			Kind:           r2.Kind,
			QuotaRemaining: quota.Remaining(from, plan, settings, now),
		}, nil
	}

	// quota spend and record creation are two sequential writes; a
	// crash in between is an accepted inconsistency window
	if kind != model.KindPhoto {
		if err := s.accounts.ConsumeQuota(ctx, from, now); err != nil {
			s.logger.Println("consume quota:", err)
		}
	}

	ev := EventRequestReceived
	if kind == model.KindPhoto {
		ev = EventPhotoRequested
	}
	s.emit(ctx, Event{Type: ev, ActorID: from.ID, RecipientID: toID, RequestID: r.ID, Kind: kind})
	s.invalidate(ctx, toID)

	return &SubmitResult{
		RequestID:      r.ID,
		Status:         r.Status,
		Kind:           r.Kind,
		QuotaRemaining: quota.Remaining(from, plan, settings, now),
	}, nil
}

// resolveExisting applies the lookup/merge steps of Submit against
// whatever record already occupies the pair. It returns (nil, false,
// nil) when a new record should be created.
func (s *Service) resolveExisting(ctx context.Context, fromID, toID uint, kind string) (*model.Request, bool, error) {
	if kind == model.KindPhoto {
		if r, err := s.requests.GetPhoto(ctx, fromID, toID); err != nil {
			return nil, false, err
		} else if r != nil {
			return r, false, nil
		}
	}
	r, err := s.requests.GetOrdered(ctx, fromID, toID)
	if err != nil || r == nil {
		return nil, false, err
	}
	// the direction slot is taken; same kind (or an already-merged
	// record, or a kind mismatch involving photo) returns idempotently
	if kind == model.KindPhoto || r.Kind == model.KindPhoto ||
		r.Kind == kind || r.Kind == model.KindBoth {
		return r, false, nil
	}
	r.Kind = model.KindBoth
	if err := s.requests.Save(ctx, r); err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// Respond accepts or rejects a pending request addressed to the
// responder. Rejection deletes the record so the sender may resubmit.
// Acceptance of any non-photo kind materializes the mutual follow
// connection in both directions.
func (s *Service) Respond(ctx context.Context, responder *model.User, requestID uint, action string) (*RespondResult, error) {
	if action != "accept" && action != "reject" {
		return nil, ErrBadAction
	}
	if responder.IsAdmin {
		return nil, ErrAdminExcluded
	}
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.ToID != responder.ID {
		return nil, ErrNotFound
	}
	if r.Status != model.StatusPending {
		return nil, ErrResolved
	}

	if action == "reject" {
		if err := s.requests.Delete(ctx, r.ID); err != nil {
			return nil, err
		}
		ev := EventRequestRejected
		if r.Kind == model.KindPhoto {
			ev = EventPhotoRejected
		}
		s.emit(ctx, Event{Type: ev, ActorID: responder.ID, RecipientID: r.FromID, RequestID: r.ID, Kind: r.Kind})
		s.invalidate(ctx, r.FromID)
		s.invalidate(ctx, r.ToID)
		return &RespondResult{Status: model.StatusRejected}, nil
	}

	r.Status = model.StatusAccepted
	if r.Kind == model.KindChat {
		// the accepted record now carries the follow intent too
		r.Kind = model.KindBoth
	}
	if err := s.requests.Save(ctx, r); err != nil {
		return nil, err
	}
	if r.Kind != model.KindPhoto {
		if err := s.ensureReverseFollow(ctx, r.ToID, r.FromID); err != nil {
			return nil, err
		}
	}

	ev := EventRequestAccepted
	if r.Kind == model.KindPhoto {
		ev = EventPhotoApproved
	}
	s.emit(ctx, Event{Type: ev, ActorID: responder.ID, RecipientID: r.FromID, RequestID: r.ID, Kind: r.Kind})
	s.emit(ctx, Event{Type: ev, ActorID: r.FromID, RecipientID: responder.ID, RequestID: r.ID, Kind: r.Kind})
	s.invalidate(ctx, r.FromID)
	s.invalidate(ctx, r.ToID)
	return &RespondResult{Status: model.StatusAccepted}, nil
}

// ensureReverseFollow guarantees an accepted follow-kind record in the
// (from, to) direction, reusing whatever record already holds the slot.
func (s *Service) ensureReverseFollow(ctx context.Context, fromID, toID uint) error {
	rr, err := s.requests.GetOrdered(ctx, fromID, toID)
	if err != nil {
		return err
	}
	if rr == nil {
		rr = &model.Request{FromID: fromID, ToID: toID, Kind: model.KindFollow, Status: model.StatusAccepted}
		err := s.requests.Create(ctx, rr)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicatePair) {
			return err
		}
		if rr, err = s.requests.GetOrdered(ctx, fromID, toID); err != nil || rr == nil {
			return err
		}
	}
	if rr.Kind == model.KindPhoto {
		// slot held by a photo record; the connection is carried by the
		// forward record alone
		return nil
	}
	changed := false
	if rr.Status != model.StatusAccepted {
		rr.Status = model.StatusAccepted
		changed = true
	}
	if rr.Kind == model.KindChat {
		rr.Kind = model.KindBoth
		changed = true
	}
	if !changed {
		return nil
	}
	return s.requests.Save(ctx, rr)
}

// Withdraw cancels the requester's own pending request to the other
// user, or, when only an incoming pending request exists, rejects that
// one instead. The single control covers both directions.
func (s *Service) Withdraw(ctx context.Context, requester *model.User, otherID uint) (*WithdrawResult, error) {
	if otherID == 0 {
		return nil, ErrMissingTarget
	}
	if requester.ID == otherID {
		return nil, ErrSelfTarget
	}
	if requester.IsAdmin {
		return nil, ErrAdminExcluded
	}
	if r, err := s.requests.GetOrdered(ctx, requester.ID, otherID); err != nil {
		return nil, err
	} else if r != nil && r.Status == model.StatusPending {
		if err := s.requests.Delete(ctx, r.ID); err != nil {
			return nil, err
		}
		s.invalidate(ctx, otherID)
		return &WithdrawResult{Cancelled: true}, nil
	}
	if r, err := s.requests.GetOrdered(ctx, otherID, requester.ID); err != nil {
		return nil, err
	} else if r != nil && r.Status == model.StatusPending {
		if err := s.requests.Delete(ctx, r.ID); err != nil {
			return nil, err
		}
		ev := EventRequestRejected
		if r.Kind == model.KindPhoto {
			ev = EventPhotoRejected
		}
		s.emit(ctx, Event{Type: ev, ActorID: requester.ID, RecipientID: otherID, RequestID: r.ID, Kind: r.Kind})
		s.invalidate(ctx, otherID)
		s.invalidate(ctx, requester.ID)
		return &WithdrawResult{Cancelled: false}, nil
	}
	return nil, ErrNotFound
}

// ListIncoming returns the user's pending incoming requests, newest
// first.
func (s *Service) ListIncoming(ctx context.Context, u *model.User) ([]model.Request, error) {
	if u.IsAdmin {
		return nil, ErrAdminExcluded
	}
	return s.requests.ListIncoming(ctx, u.ID)
}

// ListAllPending is the admin overview of pending requests.
func (s *Service) ListAllPending(ctx context.Context, limit int) ([]model.Request, error) {
	return s.requests.ListPendingAll(ctx, limit)
}

// ConnState derives the visibility inputs for a viewer/target pair.
func (s *Service) ConnState(ctx context.Context, viewerID, targetID uint) (visibility.ConnState, error) {
	var cs visibility.ConnState
	connected, err := s.requests.Connected(ctx, viewerID, targetID)
	if err != nil {
		return cs, err
	}
	cs.Connected = connected
	p, err := s.requests.GetPhoto(ctx, viewerID, targetID)
	if err != nil {
		return cs, err
	}
	if p != nil {
		cs.PhotoAllowed = p.Status == model.StatusAccepted
		cs.PhotoRequestStatus = p.Status
		if p.FromID == viewerID {
			cs.PhotoRequestDirection = "sent"
		} else {
			cs.PhotoRequestDirection = "received"
		}
	}
	return cs, nil
}

// SeverPair removes every record between the pair. Called when one
// party blocks the other; unblocking later requires a fresh request
// cycle.
func (s *Service) SeverPair(ctx context.Context, a, b uint) error {
	if err := s.requests.DeleteBetween(ctx, a, b); err != nil {
		return err
	}
	s.invalidate(ctx, a)
	s.invalidate(ctx, b)
	return nil
}

// MatchedPeerIDs lists users already connected to the given user, for
// feed exclusion.
func (s *Service) MatchedPeerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.requests.AcceptedPeerIDs(ctx, userID)
}

// QuotaState reports the user's current effective limit and remainder.
func (s *Service) QuotaState(ctx context.Context, u *model.User) (limit, remaining int, err error) {
	settings, err := s.policies.Settings(ctx)
	if err != nil {
		return 0, 0, err
	}
	plan, err := s.planOf(ctx, u)
	if err != nil {
		return 0, 0, err
	}
	now := s.now()
	return quota.EffectiveLimit(u, plan, settings, now), quota.Remaining(u, plan, settings, now), nil
}

// PlanFeatures returns the viewer's active plan capability set, or nil
// when the viewer holds no unexpired plan.
func (s *Service) PlanFeatures(ctx context.Context, u *model.User) (*model.AdvancedFeatures, error) {
	p, err := s.planOf(ctx, u)
	if err != nil || p == nil {
		return nil, err
	}
	f := p.AdvancedFeatures
	return &f, nil
}

// PairStatus reports the non-photo request state between viewer and
// target, with the direction relative to the viewer.
func (s *Service) PairStatus(ctx context.Context, viewerID, targetID uint) (status, direction string, err error) {
	r, err := s.requests.GetOrdered(ctx, viewerID, targetID)
	if err != nil {
		return "", "", err
	}
	if r != nil && r.Kind != model.KindPhoto {
		return r.Status, "sent", nil
	}
	if r, err = s.requests.GetOrdered(ctx, targetID, viewerID); err != nil {
		return "", "", err
	}
	if r != nil && r.Kind != model.KindPhoto {
		return r.Status, "received", nil
	}
	return "", "", nil
}

func (s *Service) planOf(ctx context.Context, u *model.User) (*model.PremiumPlan, error) {
	if u.PremiumPlanID == nil || !u.PremiumActive(s.now()) {
		return nil, nil
	}
	return s.policies.Plan(ctx, *u.PremiumPlanID)
}

func (s *Service) emit(ctx context.Context, e Event) {
	if s.emitter != nil {
		s.emitter.Emit(ctx, e)
	}
}

func (s *Service) invalidate(ctx context.Context, userID uint) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}
