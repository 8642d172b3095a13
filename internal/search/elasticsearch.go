package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"example.com/ferramentas/config"
	"example.com/ferramentas/internal/models"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
)

// ElasticClient indexes movement records for report search.
// Indexing never feeds back into the ledger.
type ElasticClient struct {
	client  *elasticsearch.Client
	index   string
	enabled bool
}

// NewElasticClient creates a new Elasticsearch client
func NewElasticClient(cfg config.ElasticConfig) (*ElasticClient, error) {
	if !cfg.Enabled {
		return &ElasticClient{enabled: false}, nil
	}

	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.URL},
	}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Elasticsearch client")
	}

	// Test the connection
	res, err := client.Info()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to Elasticsearch")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.Errorf("Elasticsearch error: %s", res.String())
	}

	return &ElasticClient{
		client:  client,
		index:   cfg.Index,
		enabled: true,
	}, nil
}

// Enabled reports whether indexing is active
func (e *ElasticClient) Enabled() bool {
	return e != nil && e.enabled
}

// movementDocument is the indexed shape of a movement
type movementDocument struct {
	ID            uint   `json:"id"`
	Type          string `json:"tipo"`
	Status        string `json:"status"`
	RequesterName string `json:"solicitante"`
	ToolName      string `json:"ferramenta"`
	CheckoutDate  string `json:"data_saida,omitempty"`
	CreatedAt     string `json:"criado_em"`
}

// IndexMovement indexes one movement with its joined names
func (e *ElasticClient) IndexMovement(ctx context.Context, row *models.MovementRow) error {
	if !e.Enabled() {
		return nil
	}

	doc := movementDocument{
		ID:            row.ID,
		Type:          string(row.Type),
		Status:        string(row.Status),
		RequesterName: row.RequesterName,
		ToolName:      row.ToolName,
		CreatedAt:     row.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if row.CheckoutDate != nil {
		doc.CheckoutDate = *row.CheckoutDate
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal movement document")
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: fmt.Sprintf("%d", row.ID),
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return errors.Wrap(err, "failed to index movement")
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.Errorf("error indexing movement: %s", res.String())
	}

	return nil
}
