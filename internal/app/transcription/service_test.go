package transcription

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"bitbucket.org/airenas/vtgo/internal/app/transcription/api"
	"bitbucket.org/airenas/vtgo/internal/pkg/fetch"
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"bitbucket.org/airenas/vtgo/internal/pkg/test/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/heptiolabs/healthcheck"
)

type serviceTestData struct {
	data *ServiceData

	uploadMock    *mocks.UploadAcquirer
	youtubeMock   *mocks.RemoteAcquirer
	vimeoMock     *mocks.RemoteAcquirer
	proberMock    *mocks.DurationProber
	extractorMock *mocks.AudioExtractor
	publisherMock *mocks.AudioPublisher
	modelMapMock  *mocks.ModelMap

	saverMock       *mocks.JobSaver
	providerMock    *mocks.JobProvider
	updaterMock     *mocks.JobUpdater
	trSaverMock     *mocks.TranslationSaver
	transcriberMock *mocks.Transcriber
	translatorMock  *mocks.Translator
	archiverMock    *mocks.Archiver
	senderMock      *mocks.EventSender

	pipelineDone chan struct{}
}

func newServiceTestData(t *testing.T) *serviceTestData {
	t.Helper()
	res := serviceTestData{}
	res.uploadMock = &mocks.UploadAcquirer{}
	res.youtubeMock = &mocks.RemoteAcquirer{}
	res.vimeoMock = &mocks.RemoteAcquirer{}
	res.proberMock = &mocks.DurationProber{}
	res.extractorMock = &mocks.AudioExtractor{}
	res.publisherMock = &mocks.AudioPublisher{}
	res.modelMapMock = &mocks.ModelMap{}
	res.saverMock = &mocks.JobSaver{}
	res.providerMock = &mocks.JobProvider{}
	res.updaterMock = &mocks.JobUpdater{}
	res.trSaverMock = &mocks.TranslationSaver{}
	res.transcriberMock = &mocks.Transcriber{}
	res.translatorMock = &mocks.Translator{}
	res.archiverMock = &mocks.Archiver{}
	res.senderMock = &mocks.EventSender{}
	res.pipelineDone = make(chan struct{})

	d := float64(30)
	res.proberMock.On("Probe", mock.Anything, mock.Anything).Return(&d)
	res.modelMapMock.On("Get", mock.Anything).Return("provider-model", nil)
	res.updaterMock.On("Update", mock.Anything, mock.Anything).Return(nil)
	res.senderMock.On("Send", mock.Anything).Return(nil)
	res.transcriberMock.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).
		Return(testResult(), nil)
	res.archiverMock.On("Save", mock.Anything, mock.Anything).Return(nil).
		Run(func(args mock.Arguments) { close(res.pipelineDone) })

	res.data = &ServiceData{
		UploadAcquirer: res.uploadMock,
		RemoteAcquirers: map[string]RemoteAcquirer{
			fetch.SourceYoutube: res.youtubeMock, fetch.SourceVimeo: res.vimeoMock},
		Prober: res.proberMock, Extractor: res.extractorMock,
		Publisher: res.publisherMock, ModelMap: res.modelMapMock,
		JobSaver: res.saverMock, JobProvider: res.providerMock,
		JobUpdater: res.updaterMock, TranslationSaver: res.trSaverMock,
		Transcriber: res.transcriberMock, Translator: res.translatorMock,
		Archiver: res.archiverMock, EventSender: res.senderMock,
		health: healthcheck.NewHandler()}
	err := initMetrics(res.data)
	assert.Nil(t, err)
	return &res
}

func (td *serviceTestData) expectIngest(t *testing.T) (video string, audio string) {
	t.Helper()
	dir := t.TempDir()
	video = filepath.Join(dir, "v.mp4")
	audio = filepath.Join(dir, "a.wav")
	assert.Nil(t, os.WriteFile(video, []byte("video"), 0666))
	assert.Nil(t, os.WriteFile(audio, []byte("audio"), 0666))
	td.extractorMock.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(audio, nil)
	td.publisherMock.On("Upload", mock.Anything, mock.Anything, audio).
		Return("s3://bucket/a.wav", nil)
	return
}

func (td *serviceTestData) waitPipeline(t *testing.T) {
	t.Helper()
	select {
	case <-td.pipelineDone:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not finish")
	}
}

func newUploadRequest(t *testing.T, params map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(api.PrmFile, "talk.mp4")
	assert.Nil(t, err)
	_, err = part.Write([]byte("video bytes"))
	assert.Nil(t, err)
	for k, v := range params {
		writer.WriteField(k, v)
	}
	writer.Close()
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newFormRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jobID(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var res api.JobResult
	assert.Nil(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.NotEmpty(t, res.ID)
	return res.ID
}

func TestUpload(t *testing.T) {
	td := newServiceTestData(t)
	video, _ := td.expectIngest(t)
	td.uploadMock.On("Acquire", mock.Anything, "talk.mp4", mock.Anything, mock.Anything).
		Return(video, &fetch.Provenance{Label: "talk.mp4", Size: 11}, nil)
	td.saverMock.On("Save", mock.Anything).Return(nil)

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newUploadRequest(t, map[string]string{api.PrmLanguage: "auto"}))

	assert.Equal(t, http.StatusAccepted, resp.Code)
	id := jobID(t, resp)

	job := td.saverMock.Calls[0].Arguments.Get(0).(*persistence.Job)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, fetch.SourceUpload, job.SourceType)
	assert.Equal(t, "talk.mp4", job.OriginalLabel)
	assert.Equal(t, "queued", job.Status)
	assert.Equal(t, "s3://bucket/a.wav", job.AudioURI)
	assert.Equal(t, float64(30), *job.DurationSeconds)
	assert.Equal(t, "lt-LT", job.RecognitionConfig.LanguageCode)
	assert.Equal(t, "provider-model", job.RecognitionConfig.Model)

	td.waitPipeline(t)
	td.transcriberMock.AssertCalled(t, "Transcribe", mock.Anything, "s3://bucket/a.wav", mock.Anything)
}

func TestUpload_StagesVideoByJobID(t *testing.T) {
	td := newServiceTestData(t)
	video, _ := td.expectIngest(t)
	td.uploadMock.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(video, &fetch.Provenance{Label: "talk.mp4"}, nil)
	td.saverMock.On("Save", mock.Anything).Return(nil)

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newUploadRequest(t, nil))

	assert.Equal(t, http.StatusAccepted, resp.Code)
	id := jobID(t, resp)

	// the staged file must carry the job id so clean patterns can match it
	staged := filepath.Join(filepath.Dir(video), id+".mp4")
	job := td.saverMock.Calls[0].Arguments.Get(0).(*persistence.Job)
	assert.Equal(t, staged, job.LocalVideoRef)
	_, err := os.Stat(staged)
	assert.Nil(t, err)
	_, err = os.Stat(video)
	assert.True(t, os.IsNotExist(err))
	td.extractorMock.AssertCalled(t, "Extract", mock.Anything, id, staged)
	td.waitPipeline(t)
}

func TestUpload_NoFile(t *testing.T) {
	td := newServiceTestData(t)
	req := newFormRequest(t, "/upload", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=olia")

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	td.saverMock.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUpload_WrongEmail(t *testing.T) {
	td := newServiceTestData(t)
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newUploadRequest(t, map[string]string{api.PrmEmail: "olia"}))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpload_UnknownModel(t *testing.T) {
	td := newServiceTestData(t)
	td.modelMapMock.ExpectedCalls = nil
	td.modelMapMock.On("Get", mock.Anything).Return("", api.ErrModelNotFound)

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newUploadRequest(t, map[string]string{api.PrmModel: "olia"}))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpload_WrongSpeakers(t *testing.T) {
	td := newServiceTestData(t)
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newUploadRequest(t,
		map[string]string{api.PrmDiarization: "true", api.PrmMinSpeakers: "olia"}))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpload_ExtractFails(t *testing.T) {
	td := newServiceTestData(t)
	video := filepath.Join(t.TempDir(), "v.mp4")
	assert.Nil(t, os.WriteFile(video, []byte("video"), 0666))
	td.uploadMock.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(video, &fetch.Provenance{Label: "talk.mp4"}, nil)
	td.extractorMock.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("olia"))

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newUploadRequest(t, nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	td.saverMock.AssertNotCalled(t, "Save", mock.Anything)
	left, err := os.ReadDir(filepath.Dir(video))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(left))
}

func TestUpload_PublishFails(t *testing.T) {
	td := newServiceTestData(t)
	dir := t.TempDir()
	video := filepath.Join(dir, "v.mp4")
	audio := filepath.Join(dir, "a.wav")
	assert.Nil(t, os.WriteFile(video, []byte("video"), 0666))
	assert.Nil(t, os.WriteFile(audio, []byte("audio"), 0666))
	td.uploadMock.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(video, &fetch.Provenance{Label: "talk.mp4"}, nil)
	td.extractorMock.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(audio, nil)
	td.publisherMock.On("Upload", mock.Anything, mock.Anything, audio).
		Return("", errors.New("olia"))

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newUploadRequest(t, nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	td.saverMock.AssertNotCalled(t, "Save", mock.Anything)
	_, err := os.Stat(audio)
	assert.True(t, os.IsNotExist(err))
	left, err := os.ReadDir(dir)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(left))
}

func TestRemote(t *testing.T) {
	td := newServiceTestData(t)
	video, _ := td.expectIngest(t)
	td.youtubeMock.On("Acquire", mock.Anything, "https://youtu.be/olia").
		Return(video, &fetch.Provenance{Label: "olia"}, nil)
	td.saverMock.On("Save", mock.Anything).Return(nil)

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/remote",
		map[string]string{api.PrmURL: "https://youtu.be/olia", api.PrmSource: fetch.SourceYoutube}))

	assert.Equal(t, http.StatusAccepted, resp.Code)
	job := td.saverMock.Calls[0].Arguments.Get(0).(*persistence.Job)
	assert.Equal(t, fetch.SourceYoutube, job.SourceType)
	assert.Equal(t, "olia", job.OriginalLabel)
	td.waitPipeline(t)
}

func TestRemote_DetectsSource(t *testing.T) {
	td := newServiceTestData(t)
	video, _ := td.expectIngest(t)
	td.youtubeMock.On("Accepts", mock.Anything).Return(false)
	td.vimeoMock.On("Accepts", mock.Anything).Return(true)
	td.vimeoMock.On("Acquire", mock.Anything, "https://vimeo.com/123").
		Return(video, &fetch.Provenance{Label: "123"}, nil)
	td.saverMock.On("Save", mock.Anything).Return(nil)

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/remote",
		map[string]string{api.PrmURL: "https://vimeo.com/123"}))

	assert.Equal(t, http.StatusAccepted, resp.Code)
	job := td.saverMock.Calls[0].Arguments.Get(0).(*persistence.Job)
	assert.Equal(t, fetch.SourceVimeo, job.SourceType)
	td.waitPipeline(t)
}

func TestRemote_NoURL(t *testing.T) {
	td := newServiceTestData(t)
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/remote", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRemote_UnknownSource(t *testing.T) {
	td := newServiceTestData(t)
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/remote",
		map[string]string{api.PrmURL: "https://olia.lt/v", api.PrmSource: "olia"}))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRemote_AcquisitionFails(t *testing.T) {
	td := newServiceTestData(t)
	td.youtubeMock.On("Acquire", mock.Anything, mock.Anything).
		Return("", nil, errors.New("Video unavailable"))

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/remote",
		map[string]string{api.PrmURL: "https://youtu.be/olia", api.PrmSource: fetch.SourceYoutube}))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Video unavailable")
	td.saverMock.AssertNotCalled(t, "Save", mock.Anything)
}

func successJob(id string) *persistence.Job {
	return &persistence.Job{ID: id, Status: "success", TranscriptText: "labas rytas vakaras",
		Segments: []persistence.Segment{
			{Start: 0, End: 1, Text: "labas"},
			{Start: 1, End: 2, Text: "rytas"},
			{Start: 2, End: 3, Text: "vakaras"}}}
}

func TestTranslate(t *testing.T) {
	td := newServiceTestData(t)
	td.providerMock.On("Get", "job1").Return(successJob("job1"), nil)
	td.translatorMock.On("Translate", mock.Anything, mock.Anything, "es").Return("hola", nil)
	td.trSaverMock.On("Save", "job1", mock.Anything).Return(nil)

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/translate/job1",
		map[string]string{api.PrmTranslateLanguage: "es"}))

	assert.Equal(t, http.StatusOK, resp.Code)
	tr := td.trSaverMock.Calls[0].Arguments.Get(1).(*persistence.Translation)
	assert.Equal(t, "es", tr.Language)
	assert.Equal(t, 3, len(tr.Segments))
	for _, s := range tr.Segments {
		assert.NotEmpty(t, s.TranslatedText)
	}
}

func TestTranslate_NoLanguage(t *testing.T) {
	td := newServiceTestData(t)
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/translate/job1", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTranslate_NoJob(t *testing.T) {
	td := newServiceTestData(t)
	td.providerMock.On("Get", "job1").Return(nil, errors.New("not found"))
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/translate/job1",
		map[string]string{api.PrmTranslateLanguage: "es"}))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestTranslate_NotCompleted(t *testing.T) {
	td := newServiceTestData(t)
	td.providerMock.On("Get", "job1").Return(&persistence.Job{ID: "job1", Status: "processing"}, nil)
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/translate/job1",
		map[string]string{api.PrmTranslateLanguage: "es"}))
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestTranslate_NoSegments(t *testing.T) {
	td := newServiceTestData(t)
	td.providerMock.On("Get", "job1").Return(&persistence.Job{ID: "job1", Status: "success"}, nil)
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/translate/job1",
		map[string]string{api.PrmTranslateLanguage: "es"}))
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestTranslate_Concurrent(t *testing.T) {
	td := newServiceTestData(t)
	td.providerMock.On("Get", "job1").Return(successJob("job1"), nil)
	td.translatorMock.On("Translate", mock.Anything, mock.Anything, mock.Anything).Return("olia", nil)
	td.trSaverMock.On("Save", "job1", mock.Anything).Return(nil)

	router := NewRouter(td.data)
	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i, lang := range []string{"fr", "de"} {
		wg.Add(1)
		go func(i int, lang string) {
			defer wg.Done()
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, newFormRequest(t, "/translate/job1",
				map[string]string{api.PrmTranslateLanguage: lang}))
			codes[i] = resp.Code
		}(i, lang)
	}
	wg.Wait()

	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)
	langs := map[string]bool{}
	for _, c := range td.trSaverMock.Calls {
		langs[c.Arguments.Get(1).(*persistence.Translation).Language] = true
	}
	assert.True(t, langs["fr"])
	assert.True(t, langs["de"])
}

func TestRetry(t *testing.T) {
	td := newServiceTestData(t)
	td.providerMock.On("Get", "job1").Return(&persistence.Job{ID: "job1", Status: "failed",
		AudioURI: "s3://bucket/job1.wav"}, nil)

	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/retry/job1", nil))

	assert.Equal(t, http.StatusAccepted, resp.Code)
	fields := td.updaterMock.Calls[0].Arguments.Get(1).(map[string]interface{})
	assert.Equal(t, "waiting", fields[persistence.FlStatus])
	td.waitPipeline(t)
	td.transcriberMock.AssertCalled(t, "Transcribe", mock.Anything, "s3://bucket/job1.wav", mock.Anything)
}

func TestRetry_NotFailed(t *testing.T) {
	td := newServiceTestData(t)
	td.providerMock.On("Get", "job1").Return(&persistence.Job{ID: "job1", Status: "success"}, nil)
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/retry/job1", nil))
	assert.Equal(t, http.StatusConflict, resp.Code)
	td.transcriberMock.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
}

func TestRetry_NoJob(t *testing.T) {
	td := newServiceTestData(t)
	td.providerMock.On("Get", "job1").Return(nil, errors.New("not found"))
	resp := httptest.NewRecorder()
	NewRouter(td.data).ServeHTTP(resp, newFormRequest(t, "/retry/job1", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
