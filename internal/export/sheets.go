package export

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"example.com/ferramentas/internal/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SheetsClient pushes ledger rows to a Google Apps Script webhook.
// The webhook accepts one JSON POST per sheet tab; there is no SDK
// involved, so this is a plain HTTP client with a bounded timeout.
type SheetsClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewSheetsClient creates a Sheets sync client. An empty URL disables sync.
func NewSheetsClient(webhookURL string) *SheetsClient {
	return &SheetsClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a webhook is configured
func (c *SheetsClient) Enabled() bool {
	return c != nil && c.webhookURL != ""
}

// syncPayload is the shape the Apps Script endpoint expects
type syncPayload struct {
	Tab       string                   `json:"aba"`
	Rows      []map[string]interface{} `json:"dados"`
	Timestamp string                   `json:"timestamp"`
}

// SyncMovements pushes movement rows to the "Retiradas" tab
func (c *SheetsClient) SyncMovements(ctx context.Context, movements []models.MovementRow) error {
	rows := make([]map[string]interface{}, 0, len(movements))
	for _, mov := range movements {
		rows = append(rows, map[string]interface{}{
			"Data":           deref(mov.CheckoutDate),
			"Ferramenta":     mov.ToolName,
			"Solicitante":    mov.RequesterName,
			"Tipo":           string(mov.Type),
			"Data Devolução": deref(mov.ExpectedReturnDate),
			"Hora Devolução": deref(mov.ReturnTime),
			"Tem Retorno":    models.FormatHasReturn(mov.HasReturn),
			"Observações":    deref(mov.Notes),
		})
	}
	return c.PushRows(ctx, "Retiradas", rows)
}

// SyncInventory pushes tool and requester rows to the "Estoque" tab
func (c *SheetsClient) SyncInventory(ctx context.Context, snapshot *Snapshot) error {
	rows := make([]map[string]interface{}, 0, len(snapshot.Tools)+len(snapshot.Requesters))
	for _, tool := range snapshot.Tools {
		rows = append(rows, map[string]interface{}{
			"Tipo":       "Ferramenta",
			"Nome":       tool.Name,
			"Total":      tool.TotalQuantity,
			"Disponível": tool.AvailableQuantity,
		})
	}
	for _, requester := range snapshot.Requesters {
		rows = append(rows, map[string]interface{}{
			"Tipo": "Solicitante",
			"Nome": requester.Name,
		})
	}
	return c.PushRows(ctx, "Estoque", rows)
}

// PushRows posts one tab's rows to the webhook. The HTTP proxy route
// forwards front-end payloads through here unchanged.
func (c *SheetsClient) PushRows(ctx context.Context, tab string, rows []map[string]interface{}) error {
	if !c.Enabled() {
		log.Debug().Str("tab", tab).Msg("Sheets sync disabled, skipping")
		return nil
	}

	payload := syncPayload{
		Tab:       tab,
		Rows:      rows,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal sheets payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build sheets request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to reach sheets webhook")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("sheets webhook returned status %d", res.StatusCode)
	}

	log.Info().Str("tab", tab).Int("rows", len(rows)).Msg("Sheets sync completed")
	return nil
}
