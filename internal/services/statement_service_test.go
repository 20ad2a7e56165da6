package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bank-gateway/internal/config"

	"github.com/stretchr/testify/suite"
)

type StatementServiceTestSuite struct {
	suite.Suite
}

func TestStatementServiceSuite(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}

func (s *StatementServiceTestSuite) newService(handler http.HandlerFunc) StatementServiceInterface {
	srv := httptest.NewServer(handler)
	s.T().Cleanup(srv.Close)

	return NewStatementService(NewBackendClient(NoopMetrics{}), config.BackendConfig{
		StatementURI: srv.URL + "/statements",
		Timeout:      2 * time.Second,
	})
}

func (s *StatementServiceTestSuite) TestFetchPDF_Passthrough() {
	pdf := []byte("%PDF-1.7 fake document bytes")

	svc := s.newService(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/statements/1011226111/pdf", r.URL.Path)
		s.Equal("2026-07-01", r.URL.Query().Get("startDate"))
		s.Equal("2026-07-31", r.URL.Query().Get("endDate"))
		s.Equal("Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	})

	body, contentType, err := svc.FetchPDF(context.Background(), "1011226111", "2026-07-01", "2026-07-31", "tok")

	s.NoError(err)
	s.Equal(pdf, body)
	s.Equal("application/pdf", contentType)
}

func (s *StatementServiceTestSuite) TestFetchPDF_DefaultContentType() {
	svc := s.newService(func(w http.ResponseWriter, r *http.Request) {
		// Suppress sniffing so the response carries no content type
		w.Header()["Content-Type"] = nil
		w.Write([]byte("raw"))
	})

	_, contentType, err := svc.FetchPDF(context.Background(), "1011226111", "2026-07-01", "2026-07-31", "tok")

	s.NoError(err)
	s.Equal("application/pdf", contentType)
}

func (s *StatementServiceTestSuite) TestFetchPDF_UpstreamError() {
	svc := s.newService(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := svc.FetchPDF(context.Background(), "1011226111", "2026-07-01", "2026-07-31", "tok")

	var transport *TransportFailure
	s.ErrorAs(err, &transport)
}

func (s *StatementServiceTestSuite) TestFetchPDF_BackendDown() {
	svc := NewStatementService(NewBackendClient(NoopMetrics{}), config.BackendConfig{
		StatementURI: "http://127.0.0.1:1/statements",
		Timeout:      time.Second,
	})

	_, _, err := svc.FetchPDF(context.Background(), "1011226111", "2026-07-01", "2026-07-31", "tok")

	var transport *TransportFailure
	s.ErrorAs(err, &transport)
}
