package export

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSheetsSyncMovements(t *testing.T) {
	var received syncPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewSheetsClient(server.URL)
	snapshot := sampleSnapshot()

	require.NoError(t, client.SyncMovements(context.Background(), snapshot.Movements))

	require.Equal(t, "Retiradas", received.Tab)
	require.Len(t, received.Rows, 1)
	require.Equal(t, "Furadeira", received.Rows[0]["Ferramenta"])
	require.Equal(t, "Paulo", received.Rows[0]["Solicitante"])
	require.Equal(t, "Sim", received.Rows[0]["Tem Retorno"])
	require.NotEmpty(t, received.Timestamp)
}

func TestSheetsSyncInventory(t *testing.T) {
	var received syncPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewSheetsClient(server.URL)

	require.NoError(t, client.SyncInventory(context.Background(), sampleSnapshot()))

	require.Equal(t, "Estoque", received.Tab)
	require.Len(t, received.Rows, 2)
	require.Equal(t, "Ferramenta", received.Rows[0]["Tipo"])
	require.Equal(t, "Solicitante", received.Rows[1]["Tipo"])
}

func TestSheetsWebhookErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewSheetsClient(server.URL)

	err := client.SyncMovements(context.Background(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestSheetsDisabledClientIsNoOp(t *testing.T) {
	client := NewSheetsClient("")
	require.False(t, client.Enabled())
	require.NoError(t, client.SyncMovements(context.Background(), nil))
}
