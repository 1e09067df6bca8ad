package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/disintegration/imaging"

	"github.com/df07/go-kd-pathtracer/pkg/integrator"
	"github.com/df07/go-kd-pathtracer/pkg/renderer"
	"github.com/df07/go-kd-pathtracer/pkg/scene"
)

var errStreaming = errors.New("streaming not supported")

// RenderRequest represents a render request from the client. Zero values
// fall back to the scene's settings.
type RenderRequest struct {
	Scene           string
	Width           int
	Height          int
	SamplesPerPixel int
	Iterations      int
	FirstHitSamples int
	MaxBounces      int
	AdaptiveSamples int
	FireflySamples  int
	PreviewSize     int // 0 streams full size previews
}

// ProgressUpdate is sent after every iteration
type ProgressUpdate struct {
	Iteration  int    `json:"iteration"`
	Iterations int    `json:"iterations"`
	ImageData  string `json:"imageData"` // base64 encoded PNG
	Stats      Stats  `json:"stats"`
	IsComplete bool   `json:"isComplete"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

// Stats summarizes the render so far
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int     `json:"totalSamples"`
	AverageSamples  float64 `json:"averageSamples"`
	AdaptiveSamples int     `json:"adaptiveSamples"`
	FireflySamples  int     `json:"fireflySamples"`
	Rays            int64   `json:"rays"`
}

// handleRender renders progressively and streams each preview. The render
// stops after the current pass when the client goes away.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, errStreaming.Error(), http.StatusInternalServerError)
		return
	}
	setSSEHeaders(w)

	req, err := parseRenderRequest(r)
	if err != nil {
		sendSSEEvent(w, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	rend, iterations, err := s.setupRenderer(req)
	if err != nil {
		sendSSEEvent(w, "error", err.Error())
		return
	}

	startTime := time.Now()
	send := func(img image.Image, p renderer.Progress) {
		update, err := newProgressUpdate(img, p, startTime)
		if err == nil {
			err = sendSSEUpdate(w, update)
		}
		if err != nil {
			logger.Warningf("progress %d of %d: %v", p.Iteration, p.Iterations, err)
		}
	}
	var progress renderer.ProgressSink = renderer.ProgressFunc(func(p renderer.Progress) { send(p.Preview, p) })
	if req.PreviewSize > 0 {
		size := uint(req.PreviewSize)
		progress = &renderer.ThumbnailSink{MaxWidth: size, MaxHeight: size, Next: send}
	}

	if _, err := rend.IterativeRender(r.Context(), iterations, progress, nil); err != nil {
		if r.Context().Err() != nil {
			logger.Infof("render of %s cancelled by client", req.Scene)
			return
		}
		sendSSEEvent(w, "error", fmt.Sprintf("Render error: %v", err))
		return
	}
	sendSSEEvent(w, "complete", "Rendering completed")
}

// setupRenderer builds the scene and renderer for a request and returns the
// number of iterations to run
func (s *Server) setupRenderer(req *RenderRequest) (*renderer.Renderer, int, error) {
	setup, err := scene.Build(req.Scene, s.options)
	if err != nil {
		return nil, 0, err
	}
	settings := setup.Settings

	config := integrator.DefaultConfig(
		orDefault(req.FirstHitSamples, settings.FirstHitSamples),
		orDefault(req.MaxBounces, settings.MaxBounces),
	)
	options := renderer.DefaultOptions(req.Width, req.Height)
	options.SamplesPerPixel = req.SamplesPerPixel
	options.AdaptiveSamples = orDefault(req.AdaptiveSamples, settings.AdaptiveSamples)
	options.FireflySamples = orDefault(req.FireflySamples, settings.FireflySamples)

	rend, err := renderer.NewRenderer(setup.Scene, renderer.CameraForView(setup.View), integrator.NewPathTracingIntegrator(config), options)
	if err != nil {
		return nil, 0, err
	}
	return rend, max(orDefault(req.Iterations, settings.Iterations), 1), nil
}

func orDefault(value, def int) int {
	if value > 0 {
		return value
	}
	return def
}

func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	q := r.URL.Query()
	req := &RenderRequest{Scene: q.Get("scene")}
	if req.Scene == "" {
		req.Scene = "cornell"
	}

	var err error
	if req.Width, err = parseIntParam(q, "width", 256, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(q, "height", 256, 16, 2000); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(q, "spp", 1, 1, 1024); err != nil {
		return nil, err
	}
	if req.Iterations, err = parseIntParam(q, "iterations", 0, 0, 10000); err != nil {
		return nil, err
	}
	if req.FirstHitSamples, err = parseIntParam(q, "firstHit", 0, 0, 1024); err != nil {
		return nil, err
	}
	if req.MaxBounces, err = parseIntParam(q, "bounces", 0, 0, 64); err != nil {
		return nil, err
	}
	if req.AdaptiveSamples, err = parseIntParam(q, "adaptive", 0, 0, 1024); err != nil {
		return nil, err
	}
	if req.FireflySamples, err = parseIntParam(q, "firefly", 0, 0, 1024); err != nil {
		return nil, err
	}
	if req.PreviewSize, err = parseIntParam(q, "preview", 0, 0, 2000); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 800*600 && req.SamplesPerPixel > 16 {
		logger.Warningf("large render requested: %dx%d at %d spp", req.Width, req.Height, req.SamplesPerPixel)
	}
	return req, nil
}

func newProgressUpdate(img image.Image, p renderer.Progress, startTime time.Time) (ProgressUpdate, error) {
	data, err := imageToBase64PNG(img)
	if err != nil {
		return ProgressUpdate{}, fmt.Errorf("encode preview: %w", err)
	}
	return ProgressUpdate{
		Iteration:  p.Iteration,
		Iterations: p.Iterations,
		ImageData:  data,
		Stats: Stats{
			TotalPixels:     p.Pass.Pixels,
			TotalSamples:    p.Total.TotalSamples,
			AverageSamples:  p.Total.AverageSamples(),
			AdaptiveSamples: p.Total.AdaptiveSamples,
			FireflySamples:  p.Total.FireflySamples,
			Rays:            p.Total.Rays,
		},
		IsComplete: p.Iteration == p.Iterations,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}, nil
}

func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func sendSSEUpdate(w http.ResponseWriter, update ProgressUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return sendSSEEvent(w, "progress", string(data))
}

func sendSSEEvent(w http.ResponseWriter, event, data string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errStreaming
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
