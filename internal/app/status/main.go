package status

import (
	"bitbucket.org/airenas/vtgo/internal/pkg/events"
	"bitbucket.org/airenas/vtgo/internal/pkg/mongo"
	"bitbucket.org/airenas/vtgo/internal/pkg/rabbit"
	"github.com/streadway/amqp"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"github.com/spf13/cobra"
)

var appName = "VTGO Status Provider Service"

var rootCmd = &cobra.Command{
	Use:   "statusProviderService",
	Short: appName,
	Long:  `HTTP server to provide job records and live status events`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8080)
}

//Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)
	data := &ServiceData{}

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()

	data.JobProvider, err = mongo.NewJobProvider(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init job provider")

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "Can't init rabbit channel")
	defer msgChannelProvider.Close()

	data.EventChannelFunc = func() (<-chan amqp.Delivery, error) {
		ch, err := msgChannelProvider.Channel()
		if err != nil {
			return nil, err
		}
		q, err := rabbit.DeclareSubscriberQueue(ch, events.Exchange)
		if err != nil {
			return nil, err
		}
		return ch.Consume(q.Name, "", true, false, false, false, nil)
	}
	data.Port = cmdapp.Config.GetInt("port")

	err = StartWebServer(data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}
