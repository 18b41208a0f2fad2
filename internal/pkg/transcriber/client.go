package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/persistence"
	"bitbucket.org/airenas/vtgo/internal/pkg/utils"
	"github.com/pkg/errors"

	"github.com/hashicorp/go-retryablehttp"
)

//Result is the recognition outcome returned by the provider
type Result struct {
	Text         string
	Segments     []persistence.Segment
	SpeakerCount int
	// Raw is the unparsed provider payload, kept for archiving
	Raw json.RawMessage
}

//Client communicates with the speech recognition provider
type Client struct {
	httpclient *retryablehttp.Client
	url        string
	timeout    time.Duration
}

//NewClient creates a recognition provider client
func NewClient() (*Client, error) {
	res := Client{}
	var err error
	res.url, err = utils.GetURLFromConfig("transcriber.url")
	if err != nil {
		return nil, err
	}
	res.url = utils.URLJoin(res.url, "transcribe")
	res.timeout = cmdapp.Config.GetDuration("transcriber.timeout")
	if res.timeout <= 0 {
		res.timeout = 2 * time.Hour
	}
	res.httpclient = retryablehttp.NewClient()
	res.httpclient.RetryMax = 3
	res.httpclient.Logger = nil

	return &res, nil
}

type recognizeRequest struct {
	AudioURI string                         `json:"audioUri"`
	Config   *persistence.RecognitionConfig `json:"config"`
}

type recognizeResponse struct {
	Transcript           string                `json:"transcript"`
	Segments             []persistence.Segment `json:"segments"`
	DetectedSpeakerCount int                   `json:"detectedSpeakerCount"`
	Error                string                `json:"error"`
}

//Transcribe sends the published audio reference for recognition and waits
//for the final result. The call is bounded by the configured timeout
func (sp *Client) Transcribe(ctx context.Context, audioURI string, config *persistence.RecognitionConfig) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, sp.timeout)
	defer cancel()

	b, err := json.Marshal(recognizeRequest{AudioURI: audioURI, Config: config})
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal request")
	}
	req, err := retryablehttp.NewRequest("POST", sp.url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(ctx)

	cmdapp.Log.Infof("Sending audio for recognition: %s", audioURI)
	resp, err := sp.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	err = utils.ValidateResponse(resp)
	if err != nil {
		return nil, errors.Wrap(err, "Can't transcribe")
	}

	var raw json.RawMessage
	err = json.NewDecoder(resp.Body).Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(err, "Can't decode response")
	}
	var respData recognizeResponse
	err = json.Unmarshal(raw, &respData)
	if err != nil {
		return nil, errors.Wrap(err, "Can't decode response")
	}
	if respData.Error != "" {
		// provider reported failure, surface its message as is
		return nil, errors.New(respData.Error)
	}
	return &Result{Text: respData.Transcript, Segments: respData.Segments,
		SpeakerCount: respData.DetectedSpeakerCount, Raw: raw}, nil
}
