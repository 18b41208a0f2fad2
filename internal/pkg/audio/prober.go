package audio

import (
	"context"
	"encoding/json"
	"strconv"

	"bitbucket.org/airenas/vtgo/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vtgo/internal/pkg/cmdtool"
)

//Prober reads media duration with ffprobe
type Prober struct {
	RunFunc cmdtool.RunFunc
}

//NewProber creates Prober instance
func NewProber() *Prober {
	return &Prober{RunFunc: cmdtool.Run}
}

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

//Probe returns media duration in seconds or nil when it can't be read.
//A probing failure never stops the pipeline
func (p *Prober) Probe(ctx context.Context, file string) *float64 {
	out, err := p.RunFunc(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		file)
	if err != nil {
		cmdapp.Log.Warnf("Can't probe %s: %v", file, err)
		return nil
	}
	return parseDuration(out)
}

func parseDuration(out string) *float64 {
	var pf probeFormat
	if err := json.Unmarshal([]byte(out), &pf); err != nil {
		cmdapp.Log.Warnf("Can't parse ffprobe output: %v", err)
		return nil
	}
	if pf.Format.Duration == "" {
		return nil
	}
	d, err := strconv.ParseFloat(pf.Format.Duration, 64)
	if err != nil || d < 0 {
		cmdapp.Log.Warnf("Wrong duration value '%s'", pf.Format.Duration)
		return nil
	}
	return &d
}
