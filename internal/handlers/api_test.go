package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/thorfin/insights-backend/internal/charts"
	"github.com/thorfin/insights-backend/internal/config"
	"github.com/thorfin/insights-backend/internal/dataset"
	"github.com/thorfin/insights-backend/internal/handlers"
	"github.com/thorfin/insights-backend/internal/logger"
	"github.com/thorfin/insights-backend/internal/server"
	"github.com/thorfin/insights-backend/internal/services"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cfg := config.Default()
	cfg.Export.Dir = t.TempDir()

	renderer, err := charts.NewRenderer(log, cfg)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	datasetService := services.NewDatasetService(log, dataset.NewLoader(log), dataset.NewStore(log))
	reportService := services.NewReportService(log, renderer, nil, cfg)

	return server.NewRouter(server.RouterConfig{
		Log:            log,
		CORSOrigins:    cfg.Server.CORSOrigins,
		DatasetHandler: handlers.NewDatasetHandler(log, datasetService),
		ChartHandler:   handlers.NewChartHandler(log, datasetService, renderer),
		SummaryHandler: handlers.NewSummaryHandler(log, datasetService, nil, cfg),
		ReportHandler:  handlers.NewReportHandler(log, datasetService, reportService),
	})
}

func uploadCSV(t *testing.T, router *gin.Engine, filename, body string) string {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte(body)); err != nil {
		t.Fatalf("write form: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		ID   string `json:"id"`
		Rows int    `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if out.ID == "" {
		t.Fatalf("upload response missing dataset id")
	}
	return out.ID
}

const sampleCSV = `product,price,rating,review_text,purchase_date
Widget A,10.00,5,Great device,2024-01-10
Widget B,25.50,2,Too loud,2024-02-20
Widget A,12.00,4,Decent value,2024-03-30
`

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthcheck(t *testing.T) {
	router := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUploadMetricsAndProducts(t *testing.T) {
	router := testRouter(t)
	id := uploadCSV(t, router, "reviews.csv", sampleCSV)

	rec := postJSON(router, "/api/datasets/"+id+"/metrics", map[string]any{
		"filters": map[string]any{"rating": map[string]float64{"min": 4, "max": 5}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var snap struct {
		Count     int      `json:"count"`
		AvgRating *float64 `json:"avg_rating"`
		AvgPrice  *float64 `json:"avg_price"`
		TopRated  *string  `json:"top_rated_product"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if snap.Count != 2 {
		t.Fatalf("expected count=2, got %d", snap.Count)
	}
	if snap.AvgRating == nil || *snap.AvgRating != 4.5 {
		t.Fatalf("expected avg rating 4.5, got %v", snap.AvgRating)
	}
	if snap.AvgPrice == nil || *snap.AvgPrice != 11 {
		t.Fatalf("expected avg price 11, got %v", snap.AvgPrice)
	}
	if snap.TopRated == nil || *snap.TopRated != "Widget A" {
		t.Fatalf("expected top rated Widget A, got %v", snap.TopRated)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("products: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Widget A") || !strings.Contains(rec.Body.String(), "Widget B") {
		t.Fatalf("unexpected products payload: %s", rec.Body.String())
	}
}

func TestUploadRejectsBadFile(t *testing.T) {
	router := testRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "broken.json")
	fmt.Fprint(fw, "{not json")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unparseable upload, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "load_failed") {
		t.Fatalf("expected load_failed code, got %s", rec.Body.String())
	}
}

func TestChartRenderAndNotApplicable(t *testing.T) {
	router := testRouter(t)
	id := uploadCSV(t, router, "reviews.csv", sampleCSV)

	rec := postJSON(router, "/api/datasets/"+id+"/charts/rating_histogram", map[string]any{
		"filters": map[string]any{},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("chart: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("response body is not a PNG")
	}

	// Filter everything out: the chart has nothing to draw.
	rec = postJSON(router, "/api/datasets/"+id+"/charts/rating_histogram", map[string]any{
		"filters": map[string]any{"price": map[string]float64{"min": 1000, "max": 2000}},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for not-applicable chart, got %d", rec.Code)
	}

	rec = postJSON(router, "/api/datasets/"+id+"/charts/sparkline", map[string]any{
		"filters": map[string]any{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown chart type, got %d", rec.Code)
	}
}

func TestSummaryWithoutConfiguredAI(t *testing.T) {
	router := testRouter(t)
	id := uploadCSV(t, router, "reviews.csv", sampleCSV)

	rec := postJSON(router, "/api/datasets/"+id+"/products/"+url.PathEscape("Widget A")+"/summary", map[string]any{
		"filters": map[string]any{},
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without an API key, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReportDownload(t *testing.T) {
	router := testRouter(t)
	id := uploadCSV(t, router, "reviews.csv", sampleCSV)

	rec := postJSON(router, "/api/datasets/"+id+"/products/"+url.PathEscape("Widget A")+"/report", map[string]any{
		"filters": map[string]any{},
		"format":  "html",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("report: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Widget_A_report_") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "Widget A") {
		t.Fatalf("report body missing product name")
	}
}

func TestDatasetLifecycle(t *testing.T) {
	router := testRouter(t)
	id := uploadCSV(t, router, "reviews.csv", sampleCSV)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/datasets/"+id, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid id: expected 400, got %d", rec.Code)
	}
}
