package status

import (
	"encoding/json"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/events"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

type eventChannelFunc func() (<-chan amqp.Delivery, error)

func listenQueue(channel <-chan amqp.Delivery, fc chan<- bool) {
	for d := range channel {
		err := processMsg(&d)
		if err != nil {
			cmdapp.Log.Errorf("Can't process message %s\n%s", d.MessageId, string(d.Body))
			cmdapp.Log.Error(err)
		}
	}
	cmdapp.Log.Infof("Stopped listening queue")
	close(fc)
}

func registerQueue(data *ServiceData, quitChan <-chan bool) {
	for {
		select {
		case <-quitChan:
			cmdapp.Log.Infof("Quit listening queue")
			return
		default:
			var msgs <-chan amqp.Delivery
			op := func() error {
				cmdapp.Log.Infof("Trying listening queue")
				var err error
				msgs, err = data.EventChannelFunc()
				return err
			}
			err := backoff.Retry(op, newQueueBackOff())
			if err != nil {
				cmdapp.Log.Error(err)
				return
			}
			fc := make(chan bool)
			go listenQueue(msgs, fc)
			<-fc
		}
	}
}

func newQueueBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	// keep reconnecting forever
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func processMsg(d *amqp.Delivery) error {
	var event events.StatusEvent
	err := json.Unmarshal(d.Body, &event)
	if err != nil {
		return errors.Wrap(err, "Can't unmarshal event")
	}
	cmdapp.Log.Infof("Got event %s: %s", event.JobID, event.Status)
	for _, c := range getConnections() {
		err = c.WriteJSON(&event)
		cmdapp.LogIf(err)
	}
	return nil
}
