package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/compgraph/pkg/buildinfo"
	cgerrors "github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/mapping"
	"github.com/matzehuels/compgraph/pkg/pipeline"
	"github.com/matzehuels/compgraph/pkg/render/svg"
)

// healthKey is probed to check the cache backend.
const healthKey = "health:probe"

// LayoutResponse is the body of POST /v1/layout.
type LayoutResponse struct {
	Layout     graph.Layout `json:"layout"`
	Warnings   []string     `json:"warnings"`
	InputHash  string       `json:"input_hash"`
	LayoutHash string       `json:"layout_hash"`
	Cached     bool         `json:"cached"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Cache   string `json:"cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Version: buildinfo.Version, Cache: "ok"}
	status := http.StatusOK
	if _, _, err := s.runner.Cache.Get(ctx, healthKey); err != nil {
		resp.Status, resp.Cache = "degraded", err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	res, err := s.runner.ComputeLayout(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		Layout:     res.Layout,
		Warnings:   warnings,
		InputHash:  res.InputHash,
		LayoutHash: res.LayoutHash,
		Cached:     res.CacheInfo.LayoutHit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	opts, err := s.decodeOptions(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}
	if title := r.URL.Query().Get("title"); title != "" {
		opts.Title = title
	}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	res, err := s.runner.Execute(r.Context(), opts)
	if cgerrors.IsEmpty(err) && format == pipeline.FormatSVG {
		w.Header().Set("Content-Type", pipeline.ContentTypes[format])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(svg.RenderEmpty("Nothing to draw: " + cgerrors.UserMessage(err)))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	cacheStatus := "MISS"
	if res.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	data := res.Artifacts[format]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Layout-Hash", res.LayoutHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decodeOptions reads the request body. YAML bodies are bare mapping
// results; JSON bodies are full pipeline options.
func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pipeline.Options{}, errBodyTooLarge
		}
		return pipeline.Options{}, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "read body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return pipeline.Options{}, cgerrors.New(cgerrors.ErrCodeInvalidInput, "request body is empty")
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/yaml", "application/x-yaml", "text/yaml":
		m, err := mapping.Parse(body, mapping.FormatYAML)
		if err != nil {
			return pipeline.Options{}, err
		}
		return pipeline.Options{Mapping: m}, nil
	}

	var opts pipeline.Options
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return pipeline.Options{}, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "decode request")
	}
	if opts.Mapping != nil {
		if err := opts.Mapping.Validate(); err != nil {
			return pipeline.Options{}, err
		}
	}
	return opts, nil
}
