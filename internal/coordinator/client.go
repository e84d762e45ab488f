package coordinator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/vfg2006/sales-sync-api/internal/domain"
)

// APIClient fala com o serviço de sincronização em nome do coordenador
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	// stream não tem timeout, a conexão fica aberta durante todo o lote
	streamClient *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL:      baseURL,
		token:        token,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		streamClient: &http.Client{},
	}
}

func (c *APIClient) endpoint(p string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("erro ao analisar URL base: %w", err)
	}
	u.Path = path.Join(u.Path, p)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (c *APIClient) newRequest(ctx context.Context, method, p string, query url.Values, body io.Reader) (*http.Request, error) {
	endpoint, err := c.endpoint(p, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar requisição: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// TriggerSync dispara o lote. A resposta chega antes da busca terminar.
func (c *APIClient) TriggerSync(ctx context.Context, req domain.SyncRequest) (*domain.SyncBatch, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar requisição: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/v1/sync", nil, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("erro ao disparar sincronização: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("requisição falhou com status: %s: %s", resp.Status, string(body))
	}

	var batch domain.SyncBatch
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta: %w", err)
	}
	return &batch, nil
}

// Subscribe abre o canal de progresso da sessão. O corpo retornado deve ser
// fechado pelo chamador.
func (c *APIClient) Subscribe(ctx context.Context, sessionID string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/sync/progress", url.Values{"session": {sessionID}}, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no canal de progresso: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("requisição falhou com status: %s", resp.Status)
	}

	return resp.Body, nil
}

// StatsReconciler relê as métricas do dashboard ao fim de um lote
type StatsReconciler struct {
	client *APIClient
	query  url.Values
	Last   *domain.AggregationResult
}

func NewStatsReconciler(client *APIClient, query url.Values) *StatsReconciler {
	return &StatsReconciler{client: client, query: query}
}

func (r *StatsReconciler) Reconcile(ctx context.Context) error {
	req, err := r.client.newRequest(ctx, http.MethodGet, "/v1/dashboard/stats", r.query, nil)
	if err != nil {
		return err
	}

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao consultar dashboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("requisição falhou com status: %s", resp.Status)
	}

	var result domain.AggregationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("erro ao decodificar dashboard: %w", err)
	}
	r.Last = &result

	return nil
}
