package services

import (
	"context"
	"fmt"
	"log/slog"

	pubnub "github.com/pubnub/go"

	"club-system/internal/roster"
	"club-system/utils"
)

// Notifier pushes roster snapshots to the per-event PubNub channel so
// every subscribed viewer converges on the same state after each
// mutation. PubNub is an external collaborator, so publishes run
// behind a circuit breaker and failures only get logged; the roster
// write itself has already landed.
type Notifier struct {
	pubnub  *pubnub.PubNub
	breaker *utils.CircuitBreaker
}

func NewNotifier(pn *pubnub.PubNub) *Notifier {
	return &Notifier{
		pubnub:  pn,
		breaker: utils.NewCircuitBreaker("pubnub"),
	}
}

func (n *Notifier) PublishRoster(ctx context.Context, snap *roster.Snapshot) {
	if n == nil || n.pubnub == nil {
		return
	}

	channel := fmt.Sprintf("event-%s", snap.EventID)
	err := n.breaker.Execute(ctx, func() error {
		_, _, err := n.pubnub.Publish().
			Channel(channel).
			Message(map[string]any{
				"type":     "roster_update",
				"event_id": snap.EventID,
				"full":     snap.Full,
				"active":   snap.Active,
				"waitlist": snap.Waitlist,
			}).
			Execute()
		return err
	})
	if err != nil {
		slog.Warn("roster publish failed", "event_id", snap.EventID, "channel", channel, "error", err)
	}
}
