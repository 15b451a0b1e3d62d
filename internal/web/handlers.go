package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/Veraticus/petal/internal/form"
	"github.com/Veraticus/petal/internal/model"
	"github.com/gorilla/websocket"
)

//go:embed assets/*
var assets embed.FS

const maxBodyBytes = 4 << 10

// Handler serves every route of the form site.
type Handler struct {
	predictor form.Predictor
	page      *template.Template
	upgrader  websocket.Upgrader
}

// NewHandler parses the page template and prepares the upgrader.
func NewHandler(predictor form.Predictor) (*Handler, error) {
	page, err := template.ParseFS(assets, "assets/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	return &Handler{
		predictor: predictor,
		page:      page,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}, nil
}

// predictRequest uses pointers so omitted fields fall back to their defaults.
type predictRequest struct {
	SepalLength *float64 `json:"sepal_length"`
	SepalWidth  *float64 `json:"sepal_width"`
	PetalLength *float64 `json:"petal_length"`
	PetalWidth  *float64 `json:"petal_width"`
}

func (req predictRequest) features() model.Features {
	f := model.DefaultFeatures()
	for field, v := range map[model.Field]*float64{
		model.FieldSepalLength: req.SepalLength,
		model.FieldSepalWidth:  req.SepalWidth,
		model.FieldPetalLength: req.PetalLength,
		model.FieldPetalWidth:  req.PetalWidth,
	} {
		if v != nil {
			f.Set(field, *v)
		}
	}
	return f.Clamped()
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Predict classifies one record posted as JSON. Values are clamped to the
// control ranges first, exactly as the form would.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	prediction, err := h.predictor.Predict(r.Context(), req.features())
	if err != nil {
		slog.Error("Prediction failed", "request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	writeJSON(w, http.StatusOK, prediction)
}

// Index renders the form page.
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	snap := form.NewSession(h.predictor).Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, snap); err != nil {
		slog.Error("Failed to render page", "error", err)
	}
}

// Assets serves the embedded script and stylesheet.
func (h *Handler) Assets() http.Handler {
	return http.FileServerFS(assets)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
