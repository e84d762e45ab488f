package domain

import "time"

// SyncRequest dispara a sincronização de um lote de contas
type SyncRequest struct {
	UserID            string              `json:"-"`
	SessionID         string              `json:"sessionId"`
	Platform          Platform            `json:"platform"`
	AccountIDs        []string            `json:"accountIds"`
	OrderIDsByAccount map[string][]string `json:"orderIdsByAccount,omitempty"`
	FullSync          bool                `json:"fullSync"`
}

// SyncBatch é a resposta imediata do disparo
type SyncBatch struct {
	BatchID   string    `json:"batchId"`
	SessionID string    `json:"sessionId"`
	Accounts  []string  `json:"accounts"`
	StartedAt time.Time `json:"startedAt"`
}

type JobState string

const (
	JobStateQueued    JobState = "queued"
	JobStateFetching  JobState = "fetching"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
)

// Terminal indica se o estado encerra o job
func (s JobState) Terminal() bool {
	return s == JobStateCompleted || s == JobStateFailed
}

// SyncJob é a sincronização em andamento de uma conta (não persistida)
type SyncJob struct {
	BatchID   string    `json:"batchId"`
	AccountID string    `json:"accountId"`
	UserID    string    `json:"-"`
	Platform  Platform  `json:"platform"`
	State     JobState  `json:"state"`
	Fetched   int       `json:"fetched"`
	Expected  int       `json:"expected"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type EventType string

const (
	EventConnected    EventType = "connected"
	EventSyncStart    EventType = "sync_start"
	EventSyncProgress EventType = "sync_progress"
	EventSyncContinue EventType = "sync_continue"
	EventSyncWarning  EventType = "sync_warning"
	EventSyncComplete EventType = "sync_complete"
	EventSyncError    EventType = "sync_error"
)

// Terminal indica eventos que encerram o job de uma conta
func (t EventType) Terminal() bool {
	return t == EventSyncComplete || t == EventSyncError
}

// ProgressEvent é a mensagem enviada pelo canal de progresso.
// Os pares fetched/current e expected/total coexistem porque fases
// diferentes da sincronização usam nomes diferentes.
type ProgressEvent struct {
	Type                 EventType `json:"type"`
	Message              string    `json:"message,omitempty"`
	SessionID            string    `json:"-"`
	BatchID              string    `json:"batchId,omitempty"`
	AccountID            string    `json:"accountId,omitempty"`
	AccountNickname      string    `json:"accountNickname,omitempty"`
	Platform             Platform  `json:"platform,omitempty"`
	Fetched              *int      `json:"fetched,omitempty"`
	Current              *int      `json:"current,omitempty"`
	Expected             *int      `json:"expected,omitempty"`
	Total                *int      `json:"total,omitempty"`
	ErrorCode            string    `json:"errorCode,omitempty"`
	RequiresReconnection bool      `json:"requiresReconnection,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}

// Counts retorna o maior valor entre fetched/current e entre expected/total
func (e ProgressEvent) Counts() (fetched int, expected int) {
	fetched = maxOf(e.Fetched, e.Current)
	expected = maxOf(e.Expected, e.Total)
	return fetched, expected
}

func maxOf(a, b *int) int {
	out := 0
	if a != nil && *a > out {
		out = *a
	}
	if b != nil && *b > out {
		out = *b
	}
	return out
}

// IntPtr facilita a montagem de eventos
func IntPtr(v int) *int {
	return &v
}

// FetchParams delimita a busca remota de uma conta
type FetchParams struct {
	Since    *time.Time
	Until    time.Time
	OrderIDs []string
	FullSync bool
}

// FetchReporter recebe atualizações durante a busca remota de uma conta.
// continued sinaliza que a busca abriu uma nova janela de paginação.
type FetchReporter interface {
	Progress(fetched, expected int, continued bool, message string)
	Warning(code, message string)
}

// Códigos de aviso emitidos durante a busca
const (
	WarningMaxOffsetReached = "MAX_OFFSET_REACHED"
	WarningInvalidWindow    = "INVALID_WINDOW"
	WarningShipmentLookup   = "SHIPMENT_LOOKUP_FAILED"
)
