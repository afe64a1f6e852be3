// Package notify delivers connection lifecycle events to the other
// party: an nsq publish for connected devices, an expo push for away
// ones, and a redis cache invalidation for the pending-request listing.
// Everything here is best-effort; errors are logged and dropped so the
// ledger mutation they follow is never affected.
package notify

import (
	"context"
	"log"

	"github.com/nikahapp/matrimony-backend/db/model"
	"github.com/nikahapp/matrimony-backend/ledger"
	"github.com/nikahapp/matrimony-backend/mq"
	"github.com/nikahapp/matrimony-backend/redis"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
)

var pushTitles = map[string]string{
	ledger.EventRequestReceived: "New connection request",
	ledger.EventRequestAccepted: "Request accepted",
	ledger.EventRequestRejected: "Request declined",
	ledger.EventPhotoRequested:  "New photo request",
	ledger.EventPhotoApproved:   "Photo request approved",
	ledger.EventPhotoRejected:   "Photo request declined",
}

type Notifier struct {
	logger   *log.Logger
	accounts ledger.AccountStore
	push     *expo.PushClient
}

func NewNotifier(l *log.Logger, accounts ledger.AccountStore) *Notifier {
	return &Notifier{
		logger:   l,
		accounts: accounts,
		push:     expo.NewPushClient(nil),
	}
}

// Emit dispatches the event asynchronously. The caller's context is not
// reused: delivery outlives the request.
func (n *Notifier) Emit(_ context.Context, e ledger.Event) {
	go n.deliver(context.Background(), e)
}

func (n *Notifier) deliver(ctx context.Context, e ledger.Event) {
	u, err := n.accounts.Get(ctx, e.RecipientID)
	if err != nil {
		n.logger.Println("notify: load recipient:", err)
		return
	}
	if u == nil {
		return
	}
	if err := mq.Publish(u.Topic.String(), e); err != nil {
		n.logger.Println("notify: publish:", err)
	}
	title, ok := pushTitles[e.Type]
	if !ok {
		return
	}
	for _, s := range u.Sessions {
		if s.ExpoPushToken == "" || s.Status == model.StatusOnline {
			continue
		}
		token, err := expo.NewExponentPushToken(s.ExpoPushToken)
		if err != nil {
			continue
		}
		resp, err := n.push.Publish(&expo.PushMessage{
			To:       []expo.ExponentPushToken{token},
			Title:    title,
			Data:     map[string]string{"type": e.Type},
			Sound:    "default",
			Priority: expo.DefaultPriority,
		})
		if err != nil {
			n.logger.Println("notify: push:", err)
			continue
		}
		if err := resp.ValidateResponse(); err != nil {
			n.logger.Println("notify: push response:", err)
		}
	}
}

// Invalidate drops the recipient's cached pending-request listing.
func (n *Notifier) Invalidate(_ context.Context, userID uint) {
	if err := redis.InvalidateNotifications(userID); err != nil {
		n.logger.Println("notify: invalidate cache:", err)
	}
}
