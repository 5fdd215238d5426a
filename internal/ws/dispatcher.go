package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"marketplace-service/internal/observability"
)

// Outcome is the result of pushing one event to one session.
type Outcome string

const (
	OutcomeDelivered     Outcome = "delivered"
	OutcomeTimeout       Outcome = "timeout"
	OutcomeClosed        Outcome = "closed"
	OutcomeProtocolError Outcome = "protocol_error"
)

// Delivery records what happened to one session during a dispatch.
type Delivery struct {
	ConnID  string
	Outcome Outcome
	Err     error
}

// Dispatcher pushes events to every live session of a user.
type Dispatcher struct {
	registry *Registry
	log      logrus.FieldLogger
}

func NewDispatcher(registry *Registry, logger logrus.FieldLogger) *Dispatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{registry: registry, log: logger}
}

// Notify delivers event to all of the user's sessions and returns how many
// accepted it. It never fails: dead sessions are dropped from the registry.
func (d *Dispatcher) Notify(ctx context.Context, userID string, event any) int {
	delivered := 0
	for _, res := range d.Dispatch(ctx, userID, event) {
		if res.Outcome == OutcomeDelivered {
			delivered++
		}
	}
	return delivered
}

// Dispatch is Notify with the per-session outcomes exposed.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, event any) []Delivery {
	sessions := d.registry.Lookup(userID)
	if len(sessions) == 0 {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		d.log.WithError(err).WithField("user_id", userID).Error("encode live event")
		return nil
	}

	results := make([]Delivery, len(sessions))
	var wg sync.WaitGroup
	for i, session := range sessions {
		wg.Add(1)
		go func(i int, session *Session) {
			defer wg.Done()
			results[i] = d.deliver(ctx, session, payload)
		}(i, session)
	}
	wg.Wait()
	return results
}

func (d *Dispatcher) deliver(ctx context.Context, session *Session, payload []byte) Delivery {
	err := session.Send(payload)
	outcome := classifySendError(err)
	observability.IncDispatchOutcome(string(outcome))
	if outcome == OutcomeDelivered {
		return Delivery{ConnID: session.ID, Outcome: outcome}
	}

	d.registry.Unregister(session.UserID, session.ID)
	_ = session.Close()
	d.log.WithFields(session.Info.Fields()).WithField("outcome", outcome).WithError(err).Warn("live delivery failed, connection dropped")
	publishLiveEvent(ctx, "ws_error", session.Info, err.Error())

	return Delivery{ConnID: session.ID, Outcome: outcome, Err: err}
}

func classifySendError(err error) Outcome {
	if err == nil {
		return OutcomeDelivered
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return OutcomeTimeout
	}
	var closeErr *websocket.CloseError
	if errors.Is(err, websocket.ErrCloseSent) || errors.Is(err, net.ErrClosed) || errors.As(err, &closeErr) {
		return OutcomeClosed
	}
	return OutcomeProtocolError
}
