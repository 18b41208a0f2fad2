package transcription

import (
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/airenas/vtgo/internal/app/transcription/api"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/events"
	"bitbucket.org/airenas/vtgo/internal/pkg/fetch"
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"bitbucket.org/airenas/vtgo/internal/pkg/status"
	"bitbucket.org/airenas/vtgo/internal/pkg/transcriber"
	"github.com/badoux/checkmail"
	"github.com/facebookgo/grace/gracehttp"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heptiolabs/healthcheck"
)

type serviceMetric struct {
	uploadResponseDur prometheus.ObserverVec
	uploadRequestSize prometheus.ObserverVec

	remoteResponseDur    prometheus.ObserverVec
	translateResponseDur prometheus.ObserverVec
}

// ServiceData keeps data required for service work
type ServiceData struct {
	UploadAcquirer  UploadAcquirer
	RemoteAcquirers map[string]RemoteAcquirer

	Prober    DurationProber
	Extractor AudioExtractor
	Publisher AudioPublisher
	ModelMap  ModelMap

	JobSaver         JobSaver
	JobProvider      JobProvider
	JobUpdater       JobUpdater
	TranslationSaver TranslationSaver

	Transcriber Transcriber
	Translator  Translator
	Archiver    Archiver
	EventSender events.Sender

	Port    int
	health  healthcheck.Handler
	metrics serviceMetric
}

//StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	r := NewRouter(data)

	portStr := strconv.Itoa(data.Port)
	srv := http.Server{
		Addr:              ":" + portStr,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       180 * time.Second,
		Handler:           r,
	}

	w := cmdapp.Log.Writer()
	defer w.Close()
	l := log.New(w, "", 0)
	gracehttp.SetLogger(l)

	return gracehttp.Serve(&srv)
}

//NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	uh := promhttp.InstrumentHandlerDuration(data.metrics.uploadResponseDur,
		promhttp.InstrumentHandlerRequestSize(data.metrics.uploadRequestSize, uploadHandler{data: data}))
	rh := promhttp.InstrumentHandlerDuration(data.metrics.remoteResponseDur, remoteHandler{data: data})
	th := promhttp.InstrumentHandlerDuration(data.metrics.translateResponseDur, translateHandler{data: data})
	router.Methods("POST").Path("/upload").Handler(uh)
	router.Methods("POST").Path("/remote").Handler(rh)
	router.Methods("POST").Path("/translate/{id}").Handler(th)
	router.Methods("POST").Path("/retry/{id}").Handler(retryHandler{data: data})
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
	router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	return router
}

// ingestParams are request settings captured into the job record
type ingestParams struct {
	ownerID    string
	email      string
	targetLang string
	config     *persistence.RecognitionConfig
}

type uploadHandler struct {
	data *ServiceData
}

func (h uploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Ingesting file from %s", r.Host)

	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		http.Error(w, "Can't parse MultipartForm", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "Can't parse MultipartForm"))
		return
	}
	defer cleanFiles(r.MultipartForm)

	prm, err := h.data.parseIngestParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}

	file, handler, err := r.FormFile(api.PrmFile)
	if err != nil {
		http.Error(w, "No file", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	defer file.Close()

	videoFile, prov, err := h.data.UploadAcquirer.Acquire(r.Context(), handler.Filename, handler.Size, file)
	if err != nil {
		http.Error(w, "Can't save file", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	h.data.finishIngest(w, r, videoFile, prov, fetch.SourceUpload, prm)
}

type remoteHandler struct {
	data *ServiceData
}

func (h remoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Ingesting remote media from %s", r.Host)

	rawURL := r.FormValue(api.PrmURL)
	if rawURL == "" {
		http.Error(w, "No url", http.StatusBadRequest)
		cmdapp.Log.Errorf("No url")
		return
	}
	prm, err := h.data.parseIngestParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}

	source, acquirer, err := h.data.selectAcquirer(r.FormValue(api.PrmSource), rawURL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}

	videoFile, prov, err := acquirer.Acquire(r.Context(), rawURL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}

	h.data.finishIngest(w, r, videoFile, prov, source, prm)
}

func (data *ServiceData) selectAcquirer(source, rawURL string) (string, RemoteAcquirer, error) {
	if source != "" {
		a, f := data.RemoteAcquirers[source]
		if !f {
			return "", nil, errors.Errorf("Unknown source '%s'", source)
		}
		return source, a, nil
	}
	for s, a := range data.RemoteAcquirers {
		if a.Accepts(rawURL) {
			return s, a, nil
		}
	}
	return "", nil, errors.New("Unsupported url " + rawURL)
}

//finishIngest runs the rest of the pre-job phase: probe, extract, publish,
//persist the job as the very last step, answer the caller and detach the pipeline.
//On any stage failure all files written so far are removed and no job record remains
func (data *ServiceData) finishIngest(w http.ResponseWriter, r *http.Request,
	videoFile string, prov *fetch.Provenance, sourceType string, prm *ingestParams) {
	ctx := r.Context()
	id := uuid.New().String()

	videoFile, err := stageForJob(videoFile, id)
	if err != nil {
		http.Error(w, "Can't stage video", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	duration := data.Prober.Probe(ctx, videoFile)

	audioFile, err := data.Extractor.Extract(ctx, id, videoFile)
	if err != nil {
		removeFiles(videoFile)
		http.Error(w, "Can't extract audio", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	audioURI, err := data.Publisher.Upload(ctx, id+".wav", audioFile)
	if err != nil {
		removeFiles(videoFile, audioFile)
		http.Error(w, "Can't publish audio", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	job := &persistence.Job{ID: id, OwnerID: prm.ownerID, Email: prm.email,
		SourceType: sourceType, OriginalLabel: prov.Label, FileSize: prov.Size,
		LocalVideoRef: videoFile, LocalAudioRef: audioFile, AudioURI: audioURI,
		DurationSeconds: duration, RecognitionConfig: *prm.config,
		TargetLang: prm.targetLang, Status: status.Name(status.Queued)}
	err = data.JobSaver.Save(job)
	if err != nil {
		removeFiles(videoFile, audioFile)
		http.Error(w, "Can't save job", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	data.sendEvent(events.NewStatusEvent(id, status.Name(status.Queued), ""))
	writeResult(w, http.StatusAccepted, api.JobResult{ID: id})

	go data.runPipeline(job)
}

func (data *ServiceData) parseIngestParams(r *http.Request) (*ingestParams, error) {
	res := ingestParams{}
	res.ownerID = r.FormValue(api.PrmOwnerID)
	res.email = r.FormValue(api.PrmEmail)
	if res.email != "" {
		if err := checkmail.ValidateFormat(res.email); err != nil {
			return nil, errors.New("Wrong email")
		}
	}
	res.targetLang = r.FormValue(api.PrmTargetLang)

	model, err := data.ModelMap.Get(r.FormValue(api.PrmModel))
	if err != nil {
		if err == api.ErrModelNotFound {
			return nil, errors.Errorf("Unknown model '%s'", r.FormValue(api.PrmModel))
		}
		return nil, errors.New("Can't select model")
	}

	config := persistence.RecognitionConfig{LanguageCode: r.FormValue(api.PrmLanguage), Model: model}
	diarize, _ := strconv.ParseBool(r.FormValue(api.PrmDiarization))
	if diarize {
		d := persistence.Diarization{Enabled: true}
		d.MinSpeakers, err = takeIntParam(r, api.PrmMinSpeakers)
		if err != nil {
			return nil, err
		}
		d.MaxSpeakers, err = takeIntParam(r, api.PrmMaxSpeakers)
		if err != nil {
			return nil, err
		}
		config.Diarization = &d
	}
	transcriber.ApplyDefaults(&config)
	res.config = &config
	return &res, nil
}

func takeIntParam(r *http.Request, paramName string) (int, error) {
	p := r.FormValue(paramName)
	if p == "" {
		return 0, nil
	}
	res, err := strconv.Atoi(p)
	if err != nil || res < 0 {
		return 0, errors.Errorf("Wrong parameter '%s' value '%s'", paramName, p)
	}
	return res, nil
}

type translateHandler struct {
	data *ServiceData
}

func (h translateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	lang := r.FormValue(api.PrmTranslateLanguage)
	cmdapp.Log.Infof("Translate request %s to '%s'", id, lang)
	if lang == "" {
		http.Error(w, "No language", http.StatusBadRequest)
		cmdapp.Log.Errorf("No language")
		return
	}

	job, err := h.data.JobProvider.Get(id)
	if err != nil {
		http.Error(w, "Unknown job", http.StatusNotFound)
		cmdapp.Log.Error(err)
		return
	}
	if job.Status != status.Name(status.Success) {
		http.Error(w, "Job is not completed", http.StatusConflict)
		cmdapp.Log.Errorf("Can't translate job %s in status '%s'", id, job.Status)
		return
	}
	if len(job.Segments) == 0 {
		http.Error(w, "Job has no segments", http.StatusConflict)
		cmdapp.Log.Errorf("Can't translate job %s without segments", id)
		return
	}

	translated, err := h.data.translateSegments(r.Context(), job.Segments, lang)
	if err != nil {
		http.Error(w, "Can't translate", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	tr := &persistence.Translation{Language: lang, Segments: translated}
	err = h.data.TranslationSaver.Save(id, tr)
	if err != nil {
		http.Error(w, "Can't save translation", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	ev := events.NewStatusEvent(id, status.Name(status.Success), "Translation done")
	ev.TargetLang = lang
	ev.TranslatedTranscript = joinTranslated(translated)
	h.data.sendEvent(ev)

	writeResult(w, http.StatusOK, tr)
}

type retryHandler struct {
	data *ServiceData
}

//ServeHTTP flips a failed job back to waiting and re-enters the
//pipeline with the persisted config and audio reference, no re-acquisition
func (h retryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	cmdapp.Log.Infof("Retry request %s", id)

	job, err := h.data.JobProvider.Get(id)
	if err != nil {
		http.Error(w, "Unknown job", http.StatusNotFound)
		cmdapp.Log.Error(err)
		return
	}
	if job.Status != status.Name(status.Failed) {
		http.Error(w, "Job is not failed", http.StatusConflict)
		cmdapp.Log.Errorf("Can't retry job %s in status '%s'", id, job.Status)
		return
	}

	err = h.data.JobUpdater.Update(id, map[string]interface{}{
		persistence.FlStatus: status.Name(status.Waiting), persistence.FlError: ""})
	if err != nil {
		http.Error(w, "Can't update job", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	job.Status = status.Name(status.Waiting)
	h.data.sendEvent(events.NewStatusEvent(id, status.Name(status.Waiting), ""))

	writeResult(w, http.StatusAccepted, api.JobResult{ID: id})

	go h.data.runPipeline(job)
}

func (data *ServiceData) sendEvent(ev *events.StatusEvent) {
	if err := data.EventSender.Send(ev); err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can't send status event"))
	}
}

func writeResult(w http.ResponseWriter, code int, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can't write result"))
	}
}

func cleanFiles(f *multipart.Form) {
	if f != nil {
		f.RemoveAll()
	}
}

//stageForJob keys the acquired staging file by the job id, so the cleaning
//service can later find it by the video.in/{ID}.* pattern
func stageForJob(file string, id string) (string, error) {
	target := filepath.Join(filepath.Dir(file), id+strings.ToLower(filepath.Ext(file)))
	if err := os.Rename(file, target); err != nil {
		removeFiles(file)
		return "", errors.Wrap(err, "Can't rename staged file "+file)
	}
	return target, nil
}

func removeFiles(files ...string) {
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			cmdapp.Log.Warnf("Can't remove file %s: %v", f, err)
		}
	}
}
