package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitecrew-hq/sitecrew-backend-go/internal/domain/summary"
	"github.com/sitecrew-hq/sitecrew-backend-go/internal/handler/http/response"
)

// stubSummaryService returns canned results so the handler's decoding, routing
// and error mapping can be exercised without a database.
type stubSummaryService struct {
	resp    summary.SummaryResponse
	listErr error
	getErr  error
	signErr error
	bulkErr error
}

func (s *stubSummaryService) Generate(_ context.Context, req summary.GenerateRequest) (summary.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return summary.SummaryResponse{}, err
	}
	return s.resp, nil
}

func (s *stubSummaryService) GenerateAll(_ context.Context, _ summary.GenerateAllRequest) (summary.GenerateAllResponse, error) {
	return summary.GenerateAllResponse{}, nil
}

func (s *stubSummaryService) List(_ context.Context, _ summary.ListRequest) ([]summary.SummaryResponse, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []summary.SummaryResponse{s.resp}, nil
}

func (s *stubSummaryService) Get(_ context.Context, _ string) (summary.SummaryResponse, error) {
	if s.getErr != nil {
		return summary.SummaryResponse{}, s.getErr
	}
	return s.resp, nil
}

func (s *stubSummaryService) SignByStaff(_ context.Context, _ string, _ summary.SignRequest) (summary.SummaryResponse, error) {
	if s.signErr != nil {
		return summary.SummaryResponse{}, s.signErr
	}
	return s.resp, nil
}

func (s *stubSummaryService) Decide(_ context.Context, _ string, _ summary.DecideRequest) (summary.SummaryResponse, error) {
	return s.resp, nil
}

func (s *stubSummaryService) BulkApprove(_ context.Context, _ summary.BulkApproveRequest) (summary.BulkApproveResponse, error) {
	if s.bulkErr != nil {
		return summary.BulkApproveResponse{}, s.bulkErr
	}
	return summary.BulkApproveResponse{ApprovedCount: 1}, nil
}

func newTestRouter(svc summary.Service) *chi.Mux {
	handler := NewSummaryHandler(svc)
	r := chi.NewRouter()
	r.Route("/summaries", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Get("/{id}", handler.Get)
		r.Post("/{id}/sign", handler.Sign)
		r.Post("/{id}/decision", handler.Decide)
		r.Post("/generate", handler.Generate)
		r.Post("/generate-all", handler.GenerateAll)
		r.Post("/bulk-approve", handler.BulkApprove)
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestSummaryHandler_Generate_OK(t *testing.T) {
	r := newTestRouter(&stubSummaryService{resp: summary.SummaryResponse{ID: "sum-1"}})

	// Generation is an upsert, so regeneration and first generation share one
	// status code.
	rec := doJSON(t, r, http.MethodPost, "/summaries/generate", map[string]interface{}{
		"employee_id": "emp-1", "month": 3, "year": 2024,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestSummaryHandler_Generate_ValidationError(t *testing.T) {
	r := newTestRouter(&stubSummaryService{})

	rec := doJSON(t, r, http.MethodPost, "/summaries/generate", map[string]interface{}{
		"employee_id": "emp-1", "month": 13, "year": 2024,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "month")
}

func TestSummaryHandler_Generate_MalformedBody(t *testing.T) {
	r := newTestRouter(&stubSummaryService{})

	req := httptest.NewRequest(http.MethodPost, "/summaries/generate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryHandler_Get_NotFound(t *testing.T) {
	r := newTestRouter(&stubSummaryService{getErr: summary.ErrSummaryNotFound})

	rec := doJSON(t, r, http.MethodGet, "/summaries/ghost", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestSummaryHandler_Sign_NotOwner(t *testing.T) {
	r := newTestRouter(&stubSummaryService{signErr: summary.ErrNotSummaryOwner})

	rec := doJSON(t, r, http.MethodPost, "/summaries/sum-1/sign", map[string]interface{}{
		"signature": "sig",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSummaryHandler_Sign_AlreadySigned(t *testing.T) {
	r := newTestRouter(&stubSummaryService{signErr: summary.ErrAlreadySigned})

	rec := doJSON(t, r, http.MethodPost, "/summaries/sum-1/sign", map[string]interface{}{
		"signature": "sig",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSummaryHandler_BulkApprove_StateConflict(t *testing.T) {
	r := newTestRouter(&stubSummaryService{
		bulkErr: &summary.BulkStateError{Missing: 1, NotPending: 2},
	})

	rec := doJSON(t, r, http.MethodPost, "/summaries/bulk-approve", map[string]interface{}{
		"summary_ids": []string{"a", "b", "c"}, "signature": "sig",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "1 missing")
	assert.Contains(t, resp.Error.Message, "2 not pending")
}

func TestSummaryHandler_List_OK(t *testing.T) {
	r := newTestRouter(&stubSummaryService{resp: summary.SummaryResponse{ID: "sum-1"}})

	rec := doJSON(t, r, http.MethodGet, "/summaries?month=3&year=2024", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSummaryHandler_List_BadMonthParam(t *testing.T) {
	r := newTestRouter(&stubSummaryService{})

	rec := doJSON(t, r, http.MethodGet, "/summaries?month=march", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
