package rabbit

import (
	"encoding/json"
	"sync"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/events"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

//EventPublisher publishes job status events to a fanout exchange
type EventPublisher struct {
	ChannelProvider *ChannelProvider
	exchange        string
	initialized     bool
	m               sync.Mutex
}

//NewEventPublisher initializes the rabbit backed event publisher
func NewEventPublisher(provider *ChannelProvider) *EventPublisher {
	return &EventPublisher{ChannelProvider: provider, exchange: events.Exchange}
}

//Send marshals the event and publishes it to the fanout exchange.
//Delivery to subscribers is at-most-once, a broker failure is returned to the caller
func (sender *EventPublisher) Send(event *events.StatusEvent) error {
	err := sender.initialize()
	if err != nil {
		defer sender.ChannelProvider.Close() // lets init again on next call
		return errors.Wrap(err, "Can't initialize publisher")
	}
	cmdapp.Log.Infof("Publishing event %s(%s)", event.Status, event.JobID)

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "Can't marshal event")
	}

	err = sender.ChannelProvider.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
		return ch.Publish(
			sender.exchange,
			"",    // routing key - fanout ignores it
			false, // mandatory
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        msgBytes,
			})
	})
	if err != nil {
		defer sender.ChannelProvider.Close()
		return errors.Wrap(err, "Can't publish event")
	}
	return nil
}

func (sender *EventPublisher) initialize() error {
	sender.m.Lock()
	defer sender.m.Unlock()

	if !sender.initialized {
		err := sender.ChannelProvider.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
			return DeclareExchange(ch, sender.exchange)
		})
		if err != nil {
			return err
		}
		sender.initialized = true
	}
	return nil
}
