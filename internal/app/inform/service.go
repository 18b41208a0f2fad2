package inform

import (
	"encoding/json"
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/events"
	"bitbucket.org/airenas/vtgo/internal/pkg/status"
	"bitbucket.org/airenas/vtgo/internal/pkg/utils"
	"github.com/jordan-wright/email"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

//Sender sends emails
type Sender interface {
	Send(email *email.Email) error
}

//EmailMaker prepares the email
type EmailMaker interface {
	Make(data *Data) (*email.Email, error)
}

//EmailRetriever returns the notification email by job ID, empty if none was given
type EmailRetriever interface {
	Get(id string) (string, error)
}

//Locker tracks email sending process
//It is used to guarantee not to send the emails twice
type Locker interface {
	Lock(id string, lockKey string) error
	UnLock(id string, lockKey string, value *int) error
}

//Data keeps the values for one email
type Data struct {
	ID      string
	Email   string
	MsgType string
	MsgTime time.Time
}

// ServiceData keeps data required for service work
type ServiceData struct {
	workCh         <-chan amqp.Delivery
	emailSender    Sender
	emailMaker     EmailMaker
	emailRetriever EmailRetriever
	locker         Locker
	location       *time.Location

	fc *utils.MultiCloseChannel
}

//StartWorkerService starts the event queue listener service
//
// to wait sync for the service to finish:
// err := StartWorkerService(data)
// handle err
// <-data.fc.C // waits for finish
func StartWorkerService(data *ServiceData) error {
	cmdapp.Log.Infof("Starting listen for status events")
	if data.emailMaker == nil {
		return errors.New("No email maker")
	}
	if data.emailRetriever == nil {
		return errors.New("No email retriever")
	}
	if data.emailSender == nil {
		return errors.New("No sender")
	}
	if data.locker == nil {
		return errors.New("No locker")
	}
	if data.workCh == nil {
		return errors.New("No work channel")
	}
	if data.fc == nil {
		return errors.New("No close channel")
	}

	go listenQueue(data)
	return nil
}

//work sends the email for one terminal status event
func work(data *ServiceData, event *events.StatusEvent) error {
	if !status.IsTerminal(status.From(event.Status)) {
		return nil
	}
	cmdapp.Log.Infof("Got %s event for ID: %s", event.Status, event.JobID)

	mailData := Data{}
	mailData.ID = event.JobID
	mailData.MsgTime = toLocalTime(data, event.At)
	mailData.MsgType = event.Status

	var err error
	mailData.Email, err = data.emailRetriever.Get(event.JobID)
	if err != nil {
		cmdapp.Log.Error(err)
		return errors.Wrap(err, "Can't retrieve email")
	}
	if mailData.Email == "" {
		cmdapp.Log.Infof("No email for ID: %s", event.JobID)
		return nil
	}

	email, err := data.emailMaker.Make(&mailData)
	if err != nil {
		cmdapp.Log.Error(err)
		return errors.Wrap(err, "Can't prepare email")
	}

	err = data.locker.Lock(mailData.ID, mailData.MsgType)
	if err != nil {
		cmdapp.Log.Error(err)
		return errors.Wrap(err, "Can't lock mail table")
	}
	var unlockValue = 0
	defer data.locker.UnLock(mailData.ID, mailData.MsgType, &unlockValue)

	err = data.emailSender.Send(email)
	if err != nil {
		cmdapp.Log.Error(err)
		return errors.Wrap(err, "Can't send email")
	}
	unlockValue = 2
	return nil
}

func listenQueue(data *ServiceData) {
	for d := range data.workCh {
		redeliver, err := processMsg(&d, data)
		if err != nil {
			cmdapp.Log.Error("Message error. ", err)
			d.Nack(false, redeliver && !d.Redelivered) // try redeliver for the first time
			continue
		}
		d.Ack(false)
	}
	cmdapp.Log.Infof("Stopped listening queue")
	data.fc.Close()
}

func toLocalTime(data *ServiceData, t time.Time) time.Time {
	if data.location != nil {
		return t.In(data.location)
	}
	return t
}

//processMsg returns true if it needs to retry on error again
func processMsg(d *amqp.Delivery, data *ServiceData) (bool, error) {
	var event events.StatusEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		return false, errors.Wrap(err, "Can't unmarshal event "+string(d.Body))
	}
	err := work(data, &event)
	return true, err
}
