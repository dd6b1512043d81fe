package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docintel/internal/domain"
	"docintel/internal/handler"
	"docintel/internal/router"
	"docintel/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSetup_Routes(t *testing.T) {
	search := new(mocks.MockSearchService)
	results := new(mocks.MockResultService)
	repo := new(mocks.MockResultRepo)
	search.On("Collections").Return([]domain.CollectionInfo{})
	results.On("List", mock.Anything).Return([]domain.Record{}, nil)
	results.On("Get", mock.Anything, "a.pdf").Return(&domain.Record{Filename: "a.pdf", Class: domain.LabelOther}, nil)
	results.On("Export", mock.Anything, domain.ExportFormatCSV, mock.Anything).Return(nil)
	repo.On("Ping", mock.Anything).Return(nil)

	r := router.Setup(router.Handlers{
		Upload: handler.NewUploadHandler(new(mocks.MockPipelineService), 0),
		Search: handler.NewSearchHandler(search),
		Result: handler.NewResultHandler(results),
		Health: handler.NewHealthHandler(repo),
	}, []string{"http://localhost:3000"}, nil)

	for _, path := range []string{"/healthz", "/readyz", "/api/v1/indexes", "/api/v1/results", "/api/v1/results/a.pdf", "/api/v1/results/export"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	results.AssertCalled(t, "Get", mock.Anything, "a.pdf")
	results.AssertCalled(t, "Export", mock.Anything, domain.ExportFormatCSV, mock.Anything)
}
