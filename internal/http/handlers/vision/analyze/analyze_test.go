package analyze

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/ai-vision-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/clerk"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/upload"
	"github.com/magabrotheeeer/ai-vision-service/internal/models"
	"github.com/magabrotheeeer/ai-vision-service/internal/services/analysis"
)

// MockService реализует интерфейс analyze.Service.
type MockService struct {
	mock.Mock
}

func (m *MockService) Analyze(ctx context.Context, claims *clerk.Claims, filename string, file io.Reader) (*analysis.Result, error) {
	args := m.Called(ctx, claims, filename, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Result), args.Error(1)
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestAnalyzeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	successResult := &analysis.Result{
		Analysis: "Горы в тумане.",
		Usage: analysis.Usage{
			Tier:         models.TierFree,
			AnalysesUsed: 1,
			Limit:        models.FreeTierLimit,
			Remaining:    0,
		},
		ImageInfo: analysis.ImageInfo{
			Filename: "photo.png",
			SizeKB:   0.01,
			Type:     "image/png",
		},
	}

	tests := []struct {
		name           string
		filename       string
		withClaims     bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:       "успешный анализ",
			filename:   "photo.png",
			withClaims: true,
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, mock.Anything, "photo.png", mock.Anything).
					Return(successResult, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: []string{
				`"success":true`,
				`"analysis":"Горы в тумане."`,
				`"analyses_used":1`,
				`"limit":1`,
				`"remaining":0`,
				`"size_kb":0.01`,
				`"type":"image/png"`,
			},
		},
		{
			name:       "квота исчерпана",
			filename:   "photo.png",
			withClaims: true,
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, mock.Anything, "photo.png", mock.Anything).
					Return(nil, models.ErrQuotaExceeded)
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedBody:   []string{`{"detail":"Free tier limit reached"}`},
		},
		{
			name:       "недопустимый тип файла",
			filename:   "document.pdf",
			withClaims: true,
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, mock.Anything, "document.pdf", mock.Anything).
					Return(nil, &models.InvalidFileTypeError{
						Filename: "document.pdf",
						Allowed:  upload.AllowedExtensions(),
					})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody: []string{
				`"error":"Invalid file type"`,
				`"received":"document.pdf"`,
			},
		},
		{
			name:       "файл слишком большой",
			filename:   "big.jpg",
			withClaims: true,
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, mock.Anything, "big.jpg", mock.Anything).
					Return(nil, &models.FileTooLargeError{SizeBytes: upload.MaxFileSize + 1})
			},
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedBody: []string{
				`"error":"File too large"`,
				`"received_size_mb":5`,
				`"max_size_mb":5`,
			},
		},
		{
			name:       "ошибка модели",
			filename:   "photo.png",
			withClaims: true,
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, mock.Anything, "photo.png", mock.Anything).
					Return(nil, &models.ProviderError{Err: errors.New("api error: rate limited")})
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody: []string{
				`"error":"OpenAI API error"`,
				`rate limited`,
			},
		},
		{
			name:       "непредвиденная ошибка",
			filename:   "photo.png",
			withClaims: true,
			setupMock: func(m *MockService) {
				m.On("Analyze", mock.Anything, mock.Anything, "photo.png", mock.Anything).
					Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{`"error":"Internal server error"`},
		},
		{
			name:           "отсутствуют claims в контексте",
			filename:       "photo.png",
			withClaims:     false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   []string{`{"detail":"Not authenticated"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			body, contentType := multipartBody(t, tt.filename, []byte("image data"))
			req := httptest.NewRequest(http.MethodPost, "/python-api/analyze", body)
			req.Header.Set("Content-Type", contentType)

			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			if tt.withClaims {
				ctx = context.WithValue(ctx, middlewarectx.UserClaims, &clerk.Claims{Subject: "user_123"})
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, fragment := range tt.expectedBody {
				assert.Contains(t, w.Body.String(), fragment)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestAnalyzeHandler_MissingFileField(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mockService := new(MockService)
	handler := New(logger, mockService)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/python-api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserClaims, &clerk.Claims{Subject: "user_123"}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file field is required")
	mockService.AssertNotCalled(t, "Analyze")
}
