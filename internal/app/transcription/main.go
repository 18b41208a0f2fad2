package transcription

import (
	"sync"
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/audio"
	"bitbucket.org/airenas/vtgo/internal/pkg/blob"
	"bitbucket.org/airenas/vtgo/internal/pkg/config"
	"bitbucket.org/airenas/vtgo/internal/pkg/fetch"
	"bitbucket.org/airenas/vtgo/internal/pkg/metrics"
	"bitbucket.org/airenas/vtgo/internal/pkg/mongo"
	"bitbucket.org/airenas/vtgo/internal/pkg/rabbit"
	"bitbucket.org/airenas/vtgo/internal/pkg/saver"
	"bitbucket.org/airenas/vtgo/internal/pkg/transcriber"
	"bitbucket.org/airenas/vtgo/internal/pkg/translator"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/heptiolabs/healthcheck"
)

var rootCmd = &cobra.Command{
	Use:   "transcriptionService",
	Short: "VTGO Transcription Service",
	Long:  `HTTP server to ingest video and drive the transcription pipeline`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8080)
	cmdapp.Config.SetDefault("fileStorage.video", "/data/video.in/")
	cmdapp.Config.SetDefault("fileStorage.audio", "/data/audio.prepared/")
	cmdapp.Config.SetDefault("fileStorage.outputs", "/data/outputs/")
}

//Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

var reapLock sync.RWMutex

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting transcriptionService")
	reapChildren(&reapLock)

	data := &ServiceData{}
	err := initMetrics(data)
	cmdapp.CheckOrPanic(err, "Can't init metrics")

	data.health = healthcheck.NewHandler()

	videoPath := cmdapp.Config.GetString("fileStorage.video")
	ua, err := fetch.NewUploadAdapter(videoPath)
	cmdapp.CheckOrPanic(err, "Can't init upload adapter")
	data.UploadAcquirer = ua

	yt, err := fetch.NewYoutubeAdapter(videoPath)
	cmdapp.CheckOrPanic(err, "Can't init youtube adapter")
	vm, err := fetch.NewVimeoAdapter(videoPath)
	cmdapp.CheckOrPanic(err, "Can't init vimeo adapter")
	data.RemoteAcquirers = map[string]RemoteAcquirer{fetch.SourceYoutube: yt, fetch.SourceVimeo: vm}

	data.Prober = audio.NewProber()
	data.Extractor, err = audio.NewExtractor(cmdapp.Config.GetString("fileStorage.audio"))
	cmdapp.CheckOrPanic(err, "Can't init audio extractor")

	data.Publisher, err = blob.NewUploader(cmdapp.Config)
	cmdapp.CheckOrPanic(err, "Can't init audio publisher")

	data.ModelMap, err = config.NewFileModelMap(cmdapp.Config.GetString("modelConfig.path"))
	cmdapp.CheckOrPanic(err, "Can't init model config")

	fs, err := saver.NewLocalFileSaver(cmdapp.Config.GetString("fileStorage.outputs"))
	cmdapp.CheckOrPanic(err, "Can't init output storage")
	data.Archiver = fs
	data.health.AddLivenessCheck("fs", fs.HealthyFunc(50))

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "Can't init rabbit channel")
	defer msgChannelProvider.Close()
	data.health.AddLivenessCheck("rabbit", healthcheck.Async(msgChannelProvider.Healthy, 10*time.Second))
	data.EventSender = rabbit.NewEventPublisher(msgChannelProvider)

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()
	data.health.AddLivenessCheck("mongo", healthcheck.Async(mongoSessionProvider.Healthy, 10*time.Second))

	err = mongo.MigrateLegacyTranslations(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't migrate legacy translations")

	data.JobSaver, err = mongo.NewJobSaver(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init job saver")
	data.JobProvider, err = mongo.NewJobProvider(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init job provider")
	data.JobUpdater, err = mongo.NewJobUpdater(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init job updater")
	data.TranslationSaver, err = mongo.NewTranslationSaver(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init translation saver")

	data.Transcriber, err = transcriber.NewClient()
	cmdapp.CheckOrPanic(err, "Can't init transcriber client")
	data.Translator, err = translator.NewClient(cmdapp.Config.GetString("translator.url"))
	cmdapp.CheckOrPanic(err, "Can't init translator client")

	data.Port = cmdapp.Config.GetInt("port")

	err = StartWebServer(data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}

func initMetrics(data *ServiceData) error {
	namespace := "transcription_service"
	data.metrics.uploadResponseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_request_durations_seconds",
			Help:      "Upload request latency distributions.",
		}, nil)
	err := metrics.Register(data.metrics.uploadResponseDur)
	if err != nil {
		return err
	}
	data.metrics.uploadRequestSize = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "upload_request_size_bytes",
			Help:      "Upload request size in bytes."}, nil)
	err = metrics.Register(data.metrics.uploadRequestSize)
	if err != nil {
		return err
	}
	data.metrics.remoteResponseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_request_durations_seconds",
			Help:      "Remote ingest request latency distributions.",
		}, nil)
	err = metrics.Register(data.metrics.remoteResponseDur)
	if err != nil {
		return err
	}
	data.metrics.translateResponseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "translate_request_durations_seconds",
			Help:      "Translate request latency distributions.",
		}, nil)
	return metrics.Register(data.metrics.translateResponseDur)
}
