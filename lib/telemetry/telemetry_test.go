package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestSetupFromEnvWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	// guard against a telemetry.json5 somewhere above the temp dir
	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "telemetry.json5"))
	if statErr == nil {
		t.Skip("telemetry.json5 exists above the temp dir")
	}

	tel, err := SetupFromEnv(context.Background(), "test:telemetry")
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestInstrumentResty(t *testing.T) {
	InitSlog(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := resty.New()
	InstrumentResty(client, "test/resty")

	res, err := client.R().SetContext(context.Background()).Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, res.StatusCode())

	_, err = client.R().Get("http://127.0.0.1:0/unreachable")
	require.Error(t, err)
}

func TestSetupTracesOnly(t *testing.T) {
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	tel, err := Setup(context.Background(), "test:telemetry", Config{
		Traces: ExporterConfig{Endpoint: collector.URL + "/v1/traces"},
	})
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupUnknownProtocol(t *testing.T) {
	_, err := Setup(context.Background(), "test:telemetry", Config{
		Metrics: ExporterConfig{Endpoint: "http://127.0.0.1:4318", Protocol: "carrier-pigeon"},
	})
	require.ErrorContains(t, err, `unknown otlp protocol "carrier-pigeon"`)
}

func TestNewExporterPicksProtocol(t *testing.T) {
	constructors := exporterConstructors[string]{
		grpc: func(ctx context.Context, c ExporterConfig) (string, error) {
			return "grpc " + c.Endpoint, nil
		},
		http: func(ctx context.Context, c ExporterConfig) (string, error) {
			return "http " + c.Endpoint, nil
		},
	}

	exporter, err := newExporter(context.Background(), "traces", ExporterConfig{Endpoint: "a"}, constructors)
	require.NoError(t, err)
	require.Equal(t, "http a", exporter)

	exporter, err = newExporter(context.Background(), "traces", ExporterConfig{Endpoint: "b", Protocol: "grpc"}, constructors)
	require.NoError(t, err)
	require.Equal(t, "grpc b", exporter)

	failing := exporterConstructors[string]{
		http: func(ctx context.Context, c ExporterConfig) (string, error) {
			return "", errors.New("boom")
		},
	}
	_, err = newExporter(context.Background(), "metrics", ExporterConfig{Endpoint: "c"}, failing)
	require.ErrorContains(t, err, "metrics: create exporter: boom")
}
