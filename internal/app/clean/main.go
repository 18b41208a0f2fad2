package clean

import (
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/metrics"
	"bitbucket.org/airenas/vtgo/internal/pkg/mongo"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var appName = "VTGO Data Clean Service"

var rootCmd = &cobra.Command{
	Use:   "cleanService",
	Short: appName,
	Long:  `Service to remove staging and output files of old finished jobs`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8080)
	cmdapp.Config.SetDefault("fileStorage.path", "/data/")
	cmdapp.Config.SetDefault("clean.patterns",
		"video.in/{ID}.*\naudio.prepared/{ID}.*\noutputs/{ID}.*")
	cmdapp.Config.SetDefault("clean.keepDays", 30)
	cmdapp.Config.SetDefault("clean.runEvery", "12h")
}

//Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)

	data := &ServiceData{}
	err := initMetrics(data)
	cmdapp.CheckOrPanic(err, "Can't init metrics")
	data.health = healthcheck.NewHandler()

	data.Port = cmdapp.Config.GetInt("port")
	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()
	data.health.AddLivenessCheck("mongo", healthcheck.Async(mongoSessionProvider.Healthy, 10*time.Second))

	data.cleaner, err = newCleanerImpl(cmdapp.Config.GetString("fileStorage.path"),
		cmdapp.Config.GetString("clean.patterns"))
	cmdapp.CheckOrPanic(err, "Can't init cleaner")

	keep := time.Duration(cmdapp.Config.GetInt("clean.keepDays")) * 24 * time.Hour
	idsProvider, err := mongo.NewCleanIDsProvider(mongoSessionProvider, keep)
	cmdapp.CheckOrPanic(err, "Can't init old IDs provider")

	tData := &timerServiceData{runEvery: cmdapp.Config.GetDuration("clean.runEvery"),
		cleaner: data.cleaner, idsProvider: idsProvider,
		qChan: make(chan struct{}), workWaitChan: make(chan struct{})}
	err = startCleanTimer(tData)
	cmdapp.CheckOrPanic(err, "Can't start timer")

	err = StartWebServer(data)
	cmdapp.CheckOrPanic(err, "")
}

func initMetrics(data *ServiceData) error {
	data.metrics.responseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clean_service",
			Name:      "request_durations_seconds",
			Help:      "Request latency distributions.",
		}, nil)
	return metrics.Register(data.metrics.responseDur)
}
