package inform

import (
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/events"
	"bitbucket.org/airenas/vtgo/internal/pkg/mongo"
	"bitbucket.org/airenas/vtgo/internal/pkg/rabbit"
	"bitbucket.org/airenas/vtgo/internal/pkg/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var appName = "VTGO Email Information Service"

var rootCmd = &cobra.Command{
	Use:   "informService",
	Short: appName,
	Long:  `Service listens for terminal job status events and informs the user by email`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
}

//Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)

	data := ServiceData{}

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "Can't init rabbit provider")
	defer msgChannelProvider.Close()

	ch, err := msgChannelProvider.Channel()
	cmdapp.CheckOrPanic(err, "Can't open channel")
	err = ch.Qos(1, 0, false)
	cmdapp.CheckOrPanic(err, "Can't set Qos")

	err = rabbit.DeclareExchange(ch, events.Exchange)
	cmdapp.CheckOrPanic(err, "Can't declare exchange "+events.Exchange)
	q, err := rabbit.DeclareSubscriberQueue(ch, events.Exchange)
	cmdapp.CheckOrPanic(err, "Can't declare subscriber queue")
	data.workCh, err = ch.Consume(q.Name, "", false, false, false, false, nil)
	cmdapp.CheckOrPanic(err, "Can't listen to "+q.Name+" queue")

	data.emailMaker, err = newSimpleEmailMaker(cmdapp.Config)
	cmdapp.CheckOrPanic(err, "Can't init email maker")

	location := cmdapp.Config.GetString("worker.location")
	if location != "" {
		data.location, err = time.LoadLocation(location)
		cmdapp.CheckOrPanic(err, "Can't init location")
	}

	data.emailSender, err = newSimpleEmailSender()
	cmdapp.CheckOrPanic(err, "Can't init email sender")

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo provider")
	defer mongoSessionProvider.Close()

	data.locker, err = mongo.NewLocker(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init mongo locker")

	data.emailRetriever, err = mongo.NewEmailRetriever(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init mongo email retriever")

	data.fc = utils.NewSignalChannel()

	err = StartWorkerService(&data)
	if err != nil {
		panic(errors.Wrap(err, "Can't start worker service"))
	}
	<-data.fc.C
	cmdapp.Log.Infof("Exiting service")
}
