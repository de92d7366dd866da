// Package api provides the HTTP boundary for the event analysis service.
package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/heona1231/2025HciProject/internal/analyzer"
	"github.com/heona1231/2025HciProject/internal/inference"
	"github.com/heona1231/2025HciProject/internal/recovery"
	"github.com/heona1231/2025HciProject/internal/types"
)

// multipartMemoryLimit caps the in-memory portion of multipart parsing;
// larger files spill to disk.
const multipartMemoryLimit = 10 << 20

// Service runs the analysis pipelines behind the HTTP boundary
type Service interface {
	AnalyzeLink(ctx context.Context, link string) (*types.EventRecord, error)
	AnalyzeImages(ctx context.Context, images []inference.Image) (*types.GoodsResult, error)
	SearchPastEvents(ctx context.Context, eventTitle string) (*types.PastEventFeedback, error)
}

// Handler manages API endpoints
type Handler struct {
	analyzer    Service
	maxBodySize int64
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Timestamp string `json:"timestamp" example:"2025-03-01T10:30:00Z"`
}

// handleHealth returns service health status
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// AnalyzeRequest represents a link analysis request
type AnalyzeRequest struct {
	// Link is the announcement page URL to analyze
	Link string `json:"link" example:"https://blog.naver.com/example/123"`
}

// AnalyzeResponse represents the link analysis response
type AnalyzeResponse struct {
	Success bool               `json:"success"`
	Event   *types.EventRecord `json:"event,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// handleAnalyze extracts a structured event record from an announcement link
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req AnalyzeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody.Error())
		return
	}

	if strings.TrimSpace(req.Link) == "" {
		respondError(w, http.StatusBadRequest, ErrLinkRequired.Error())
		return
	}

	event, err := h.analyzer.AnalyzeLink(r.Context(), req.Link)
	if err != nil {
		respondPipelineError(w, err, "link analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{Success: true, Event: event})
}

// AnalyzeImageRequest represents a base64 image analysis request
type AnalyzeImageRequest struct {
	// Images are data-URL or bare base64 encoded images
	Images []string `json:"images"`
}

// AnalyzeImageResponse represents the image analysis response. UploadedImages
// echoes the accepted images as data-URL strings so the client can render
// what the analysis actually saw.
type AnalyzeImageResponse struct {
	Success        bool               `json:"success"`
	Goods          *types.GoodsResult `json:"goods,omitempty"`
	UploadedImages []string           `json:"uploaded_images,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// handleAnalyzeImage extracts goods and benefits from base64-encoded images
func (h *Handler) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req AnalyzeImageRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody.Error())
		return
	}

	if len(req.Images) == 0 {
		respondError(w, http.StatusBadRequest, ErrImagesRequired.Error())
		return
	}

	images := make([]inference.Image, 0, len(req.Images))

	for i, encoded := range req.Images {
		img, err := decodeImagePayload(encoded)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("image %d: %v", i, err))
			return
		}

		images = append(images, img)
	}

	h.analyzeImages(w, r, images, req.Images)
}

// handleAnalyzeImageUpload extracts goods and benefits from multipart uploads
func (h *Handler) handleAnalyzeImageUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody.Error())
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, ErrImagesRequired.Error())
		return
	}

	images := make([]inference.Image, 0, len(files))
	encoded := make([]string, 0, len(files))

	for i, header := range files {
		img, err := readUpload(header)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("image %d: %v", i, err))
			return
		}

		images = append(images, img)
		encoded = append(encoded, encodeImagePayload(img))
	}

	h.analyzeImages(w, r, images, encoded)
}

// analyzeImages runs the shared image pipeline for both upload styles
func (h *Handler) analyzeImages(w http.ResponseWriter, r *http.Request, images []inference.Image, encoded []string) {
	goods, err := h.analyzer.AnalyzeImages(r.Context(), images)
	if err != nil {
		respondPipelineError(w, err, "image analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeImageResponse{
		Success:        true,
		Goods:          goods,
		UploadedImages: encoded,
	})
}

// SearchPastEventsRequest represents a past-event search request
type SearchPastEventsRequest struct {
	// EventTitle is the event to search similar past runs for
	EventTitle string `json:"event_title" example:"성수 팝업스토어"`
}

// SearchPastEventsResponse represents the past-event search response
type SearchPastEventsResponse struct {
	Success    bool                     `json:"success"`
	PastEvents *types.PastEventFeedback `json:"pastEvents,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

// handleSearchPastEvents finds similar past events and visitor feedback
func (h *Handler) handleSearchPastEvents(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req SearchPastEventsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody.Error())
		return
	}

	if strings.TrimSpace(req.EventTitle) == "" {
		respondError(w, http.StatusBadRequest, ErrEventTitleRequired.Error())
		return
	}

	past, err := h.analyzer.SearchPastEvents(r.Context(), req.EventTitle)
	if err != nil {
		respondPipelineError(w, err, "past event search failed")
		return
	}

	writeJSON(w, http.StatusOK, SearchPastEventsResponse{Success: true, PastEvents: past})
}

// respondPipelineError maps pipeline errors onto HTTP statuses
func respondPipelineError(w http.ResponseWriter, err error, msg string) {
	status := statusForError(err)

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg(msg)
	} else {
		log.Warn().Err(err).Msg(msg)
	}

	respondError(w, status, err.Error())
}

// statusForError translates the pipeline error taxonomy into HTTP statuses
func statusForError(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, analyzer.ErrInsufficientContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, inference.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, inference.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, recovery.ErrParseRecoveryFailed),
		errors.Is(err, inference.ErrUpstream),
		errors.Is(err, inference.ErrExhausted),
		errors.Is(err, inference.ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeImagePayload decodes a data-URL or bare base64 image string
func decodeImagePayload(encoded string) (inference.Image, error) {
	encoded = strings.TrimSpace(encoded)

	var mimeType string

	if strings.HasPrefix(encoded, "data:") {
		meta, payload, found := strings.Cut(encoded, ",")
		if !found {
			return inference.Image{}, ErrInvalidImageEncoding
		}

		mimeType = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
		encoded = payload
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return inference.Image{}, fmt.Errorf("%w: %v", ErrInvalidImageEncoding, err)
	}

	if len(data) == 0 {
		return inference.Image{}, ErrInvalidImageEncoding
	}

	return inference.Image{MIMEType: mimeType, Data: data}, nil
}

// encodeImagePayload renders an accepted image back as a data-URL string,
// sniffing the content type when the upload did not declare one.
func encodeImagePayload(img inference.Image) string {
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = http.DetectContentType(img.Data)
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// readUpload reads one multipart file into an image attachment
func readUpload(header *multipart.FileHeader) (inference.Image, error) {
	file, err := header.Open()
	if err != nil {
		return inference.Image{}, fmt.Errorf("%w: %v", ErrInvalidRequestBody, err)
	}

	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return inference.Image{}, fmt.Errorf("%w: %v", ErrInvalidRequestBody, err)
	}

	if len(data) == 0 {
		return inference.Image{}, ErrInvalidImageEncoding
	}

	return inference.Image{
		MIMEType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}
