package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput map[string]string

func (m memoryOutput) Write(id string, contents string) {
	m[id] = contents
}

func TestInstrumentClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "nbid", Value: "secret-session"})
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	out := memoryOutput{}
	client := resty.New()
	InstrumentClient(client, out)

	_, err := client.R().
		SetFormData(map[string]string{"ping": "1"}).
		Post(server.URL)
	require.NoError(t, err)

	require.Len(t, out, 1)
	dump := out["001-POST.txt"]
	require.Contains(t, dump, "ping=1")
	require.Contains(t, dump, "pong")
	require.Contains(t, dump, "Set-Cookie: <redacted>")
	require.NotContains(t, dump, "secret-session")
}

func TestInstrumentClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>logon</html>"))
	}))
	defer server.Close()

	out := memoryOutput{}
	client := resty.New()
	InstrumentClient(client, out)

	_, err := client.R().Get(server.URL + "/netbank/Logon/Logon.aspx")
	require.NoError(t, err)
	require.Len(t, out, 1)

	dump := out["001-GET.txt"]
	require.Contains(t, dump, "GET "+server.URL+"/netbank/Logon/Logon.aspx")
	require.Contains(t, dump, "<NO BODY>")
	require.Contains(t, dump, "<html>logon</html>")
}

func TestInstrumentClientRedactsFormFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	out := memoryOutput{}
	client := resty.New()
	InstrumentClient(client, out, "txtMyPassword$field", "txtMyClientNumber$field")

	_, err := client.R().
		SetFormData(map[string]string{
			"txtMyClientNumber$field": "87654321",
			"txtMyPassword$field":     "hunter2",
			"JS":                      "E",
		}).
		Post(server.URL)
	require.NoError(t, err)

	dump := out["001-POST.txt"]
	require.NotContains(t, dump, "hunter2")
	require.NotContains(t, dump, "87654321")
	require.Contains(t, dump, "txtMyPassword$field=<redacted>")
	require.Contains(t, dump, "txtMyClientNumber$field=<redacted>")
	require.Contains(t, dump, "JS=E")
}

func TestInstrumentClientNilOutput(t *testing.T) {
	client := resty.New()
	InstrumentClient(client, nil)
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	out.Write("001-GET.txt", "hello")
	contents, err := os.ReadFile(filepath.Join(dir, "001-GET.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
}
