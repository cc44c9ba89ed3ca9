package hue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sse "github.com/r3labs/sse/v2"
	"gopkg.in/cenkalti/backoff.v1"
)

const eventStreamPath = "/eventstream/clip/v2"

// EventBatch is what the event stream yields for one server-sent message: the
// flattened events it carried, or the error that stopped it from being read.
type EventBatch struct {
	Events []Event
	Err    error
}

// ParseEventMessage parses the data of one server-sent message, a JSON array of
// event envelopes, into a flat list of events. Each event is stamped with the
// type and creation time of the envelope it came in.
func ParseEventMessage(data []byte) ([]Event, error) {
	var envelopes []eventEnvelope
	if err := decodeInto(data, &envelopes); err != nil {
		return nil, err
	}

	var events []Event
	for _, env := range envelopes {
		for _, e := range env.Data {
			e.EventType = env.Type
			e.CreationTime = env.CreationTime
			events = append(events, e)
		}
	}
	return events, nil
}

// Events opens the bridge's event stream. Every message received becomes one
// EventBatch; a message that cannot be parsed is delivered as a batch with Err set
// and the stream carries on. The channel is closed once the connection ends, fails
// or ctx is cancelled, and a failed connection is reported as a final batch with Err
// set. The stream is never re-established; callers that want to keep listening
// call Events again.
func (b *Bridge) Events(ctx context.Context) <-chan EventBatch {
	batches := make(chan EventBatch)

	client := sse.NewClient(b.baseURL + eventStreamPath)
	// the stream is long lived so the request timeout must not apply
	connection := *b.httpClient
	connection.Timeout = 0
	client.Connection = &connection
	client.ReconnectStrategy = &backoff.StopBackOff{}
	if b.applicationKey != "" {
		client.Headers[applicationKeyHeader] = b.applicationKey
	}
	client.ResponseValidator = b.validateStream

	client.OnConnect(func(_ *sse.Client) {
		b.logger.Info("Connected to HUE bridge, listening for events...")
	})
	client.OnDisconnect(func(_ *sse.Client) {
		b.logger.Info("Disconnected from HUE bridge")
	})

	send := func(batch EventBatch) bool {
		select {
		case batches <- batch:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(batches)

		err := client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
			// keep-alives and comments carry no data
			if len(msg.Data) == 0 {
				return
			}
			events, err := ParseEventMessage(msg.Data)
			if err != nil {
				b.logger.Warn("unreadable event message", "err", err)
				send(EventBatch{Err: fmt.Errorf("error parsing event message: %w", err)})
				return
			}
			send(EventBatch{Events: events})
		})

		if err != nil && ctx.Err() == nil {
			var bridgeErr *BridgeError
			var transportErr *TransportError
			if !errors.As(err, &bridgeErr) && !errors.As(err, &transportErr) {
				err = &TransportError{Method: http.MethodGet, URL: client.URL, Err: err}
			}
			b.logger.Error("event stream failed", "err", err)
			send(EventBatch{Err: err})
		}
	}()

	return batches
}

func (b *Bridge) validateStream(c *sse.Client, resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if bridgeErr := bridgeErrorFrom(body); bridgeErr != nil {
		return bridgeErr
	}
	return &TransportError{Method: http.MethodGet, URL: c.URL, StatusCode: resp.StatusCode}
}
