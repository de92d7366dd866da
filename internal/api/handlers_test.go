package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heona1231/2025HciProject/internal/analyzer"
	"github.com/heona1231/2025HciProject/internal/fetcher"
	"github.com/heona1231/2025HciProject/internal/inference"
	"github.com/heona1231/2025HciProject/internal/recovery"
	"github.com/heona1231/2025HciProject/internal/types"
)

type mockService struct {
	event      *types.EventRecord
	goods      *types.GoodsResult
	past       *types.PastEventFeedback
	err        error
	lastLink   string
	lastTitle  string
	lastImages []inference.Image
}

func (m *mockService) AnalyzeLink(_ context.Context, link string) (*types.EventRecord, error) {
	m.lastLink = link

	if m.err != nil {
		return nil, m.err
	}

	return m.event, nil
}

func (m *mockService) AnalyzeImages(_ context.Context, images []inference.Image) (*types.GoodsResult, error) {
	m.lastImages = images

	if m.err != nil {
		return nil, m.err
	}

	return m.goods, nil
}

func (m *mockService) SearchPastEvents(_ context.Context, eventTitle string) (*types.PastEventFeedback, error) {
	m.lastTitle = eventTitle

	if m.err != nil {
		return nil, m.err
	}

	return m.past, nil
}

func newTestRouter(svc Service) http.Handler {
	return NewRouter(RouterConfig{Analyzer: svc})
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestHandleAnalyze(t *testing.T) {
	t.Parallel()

	svc := &mockService{event: &types.EventRecord{Title: "성수 팝업"}}
	router := newTestRouter(svc)

	rec := postJSON(t, router, "/analyze", AnalyzeRequest{Link: "https://blog.naver.com/foo/1"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://blog.naver.com/foo/1", svc.lastLink)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Event)
	assert.Equal(t, "성수 팝업", resp.Event.Title)
}

func TestHandleAnalyzeMissingLink(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	rec := postJSON(t, router, "/analyze", AnalyzeRequest{Link: "  "})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.Equal(t, ErrLinkRequired.Error(), resp.Error)
}

func TestHandleAnalyzeMalformedBody(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeErrorMapping(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "validation", err: fmt.Errorf("%w: bad link", analyzer.ErrValidation), status: http.StatusBadRequest},
		{name: "insufficient content", err: fmt.Errorf("%w: 20 characters", analyzer.ErrInsufficientContent), status: http.StatusUnprocessableEntity},
		{name: "rate limited", err: fmt.Errorf("%w: attempts exhausted", inference.ErrRateLimited), status: http.StatusTooManyRequests},
		{name: "timeout", err: inference.ErrTimeout, status: http.StatusGatewayTimeout},
		{name: "page load deadline", err: fmt.Errorf("%w: %w", fetcher.ErrNavigation, context.DeadlineExceeded), status: http.StatusGatewayTimeout},
		{name: "upstream", err: fmt.Errorf("%w: status 500", inference.ErrUpstream), status: http.StatusBadGateway},
		{name: "transient exhaustion", err: fmt.Errorf("%w after 5 attempts", inference.ErrExhausted), status: http.StatusBadGateway},
		{name: "rate limited exhaustion", err: fmt.Errorf("%w: %w after 5 attempts", inference.ErrRateLimited, inference.ErrExhausted), status: http.StatusTooManyRequests},
		{name: "parse recovery", err: recovery.ErrParseRecoveryFailed, status: http.StatusBadGateway},
		{name: "unknown", err: fmt.Errorf("boom"), status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&mockService{err: tc.err})

			rec := postJSON(t, router, "/analyze", AnalyzeRequest{Link: "https://example.com/e"})

			assert.Equal(t, tc.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleAnalyzeImage(t *testing.T) {
	t.Parallel()

	svc := &mockService{goods: &types.GoodsResult{
		Goods:    []types.GoodsItem{{Name: "키링", Price: "8,000원", SourceImageIndex: 0}},
		Benefits: []string{"선착순 포스터"},
	}}
	router := newTestRouter(svc)

	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	rec := postJSON(t, router, "/analyze-image", AnalyzeImageRequest{Images: []string{encoded}})

	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, svc.lastImages, 1)
	assert.Equal(t, "image/png", svc.lastImages[0].MIMEType)
	assert.Equal(t, []byte("fake png bytes"), svc.lastImages[0].Data)

	var resp AnalyzeImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, []string{encoded}, resp.UploadedImages)
	require.NotNil(t, resp.Goods)
	assert.Equal(t, "키링", resp.Goods.Goods[0].Name)
}

func TestHandleAnalyzeImageEchoesUploadedImagesAsArray(t *testing.T) {
	t.Parallel()

	svc := &mockService{goods: &types.GoodsResult{Goods: []types.GoodsItem{}, Benefits: []string{}}}
	router := newTestRouter(svc)

	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png payload"))
	rec := postJSON(t, router, "/analyze-image", AnalyzeImageRequest{Images: []string{encoded}})

	require.Equal(t, http.StatusOK, rec.Code)

	// the wire field must be an array of image strings the client can render
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))

	uploaded, ok := raw["uploaded_images"].([]any)
	require.True(t, ok, "uploaded_images must be a JSON array, got %T", raw["uploaded_images"])
	require.Len(t, uploaded, 1)
	assert.Equal(t, encoded, uploaded[0])
}

func TestHandleAnalyzeImageBareBase64(t *testing.T) {
	t.Parallel()

	svc := &mockService{goods: &types.GoodsResult{Goods: []types.GoodsItem{}, Benefits: []string{}}}
	router := newTestRouter(svc)

	encoded := base64.StdEncoding.EncodeToString([]byte("raw"))
	rec := postJSON(t, router, "/analyze-image", AnalyzeImageRequest{Images: []string{encoded}})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.lastImages, 1)
	assert.Empty(t, svc.lastImages[0].MIMEType)
}

func TestHandleAnalyzeImageInvalidPayloads(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	testCases := []struct {
		name   string
		images []string
	}{
		{name: "empty set", images: nil},
		{name: "not base64", images: []string{"%%% not base64 %%%"}},
		{name: "data url without comma", images: []string{"data:image/png;base64"}},
		{name: "empty payload", images: []string{"data:image/png;base64,"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, router, "/analyze-image", AnalyzeImageRequest{Images: tc.images})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleAnalyzeImageUpload(t *testing.T) {
	t.Parallel()

	svc := &mockService{goods: &types.GoodsResult{Goods: []types.GoodsItem{}, Benefits: []string{}}}
	router := newTestRouter(svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("images", "flyer.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("flyer image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze-image-upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, svc.lastImages, 1)
	assert.Equal(t, []byte("flyer image bytes"), svc.lastImages[0].Data)

	var resp AnalyzeImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.UploadedImages, 1)

	// uploads echo back as data-URLs carrying the accepted bytes
	meta, payload, found := strings.Cut(resp.UploadedImages[0], ",")
	require.True(t, found)
	assert.True(t, strings.HasPrefix(meta, "data:"))

	decoded, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("flyer image bytes"), decoded)
}

func TestHandleAnalyzeImageUploadNoFiles(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("other", "value"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze-image-upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSearchPastEvents(t *testing.T) {
	t.Parallel()

	svc := &mockService{past: &types.PastEventFeedback{
		PastEvents: []types.PastEventRef{{Title: "2024 팝업", Link: "https://example.com/a"}},
	}}
	router := newTestRouter(svc)

	rec := postJSON(t, router, "/search-past-events", SearchPastEventsRequest{EventTitle: "성수 팝업"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "성수 팝업", svc.lastTitle)

	var resp SearchPastEventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	require.NotNil(t, resp.PastEvents)
	require.Len(t, resp.PastEvents.PastEvents, 1)
	assert.Equal(t, "2024 팝업", resp.PastEvents.PastEvents[0].Title)
}

func TestHandleSearchPastEventsMissingTitle(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	rec := postJSON(t, router, "/search-past-events", SearchPastEventsRequest{EventTitle: ""})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBodySizeLimit(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{Analyzer: &mockService{}, MaxBodySize: 64})

	big := AnalyzeRequest{Link: "https://example.com/" + strings.Repeat("x", 256)}
	rec := postJSON(t, router, "/analyze", big)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHeartbeat(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
