package syncing

import (
	"sort"
	"sync"
	"time"

	"github.com/vfg2006/sales-sync-api/internal/domain"
)

// JobRegistry guarda em memória os jobs dos lotes em andamento
type JobRegistry struct {
	mu       sync.RWMutex
	jobs     map[string]*domain.SyncJob
	sessions map[string]int // lotes abertos por sessão de progresso
	now      func() time.Time
}

func NewJobRegistry() *JobRegistry {
	return &JobRegistry{
		jobs:     make(map[string]*domain.SyncJob),
		sessions: make(map[string]int),
		now:      time.Now,
	}
}

// OpenSession conta mais um lote publicando na sessão
func (r *JobRegistry) OpenSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID]++
}

// ReleaseSession desconta um lote e indica se era o último aberto na sessão
func (r *JobRegistry) ReleaseSession(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID]--
	if r.sessions[sessionID] > 0 {
		return false
	}
	delete(r.sessions, sessionID)
	return true
}

func jobKey(batchID, accountID string) string {
	return batchID + "/" + accountID
}

func (r *JobRegistry) Register(batchID, userID string, account *domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.jobs[jobKey(batchID, account.ID)] = &domain.SyncJob{
		BatchID:   batchID,
		AccountID: account.ID,
		UserID:    userID,
		Platform:  account.Platform,
		State:     domain.JobStateQueued,
		StartedAt: now,
		UpdatedAt: now,
	}
}

func (r *JobRegistry) update(batchID, accountID string, fn func(job *domain.SyncJob)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobKey(batchID, accountID)]
	if !ok || job.State.Terminal() {
		return
	}
	fn(job)
	job.UpdatedAt = r.now()
}

func (r *JobRegistry) Start(batchID, accountID string) {
	r.update(batchID, accountID, func(job *domain.SyncJob) {
		job.State = domain.JobStateFetching
	})
}

// UpdateProgress mantém sempre o maior valor visto para os contadores
func (r *JobRegistry) UpdateProgress(batchID, accountID string, fetched, expected int) {
	r.update(batchID, accountID, func(job *domain.SyncJob) {
		if fetched > job.Fetched {
			job.Fetched = fetched
		}
		if expected > job.Expected {
			job.Expected = expected
		}
	})
}

func (r *JobRegistry) Complete(batchID, accountID string, fetched int) {
	r.update(batchID, accountID, func(job *domain.SyncJob) {
		if fetched > job.Fetched {
			job.Fetched = fetched
		}
		job.State = domain.JobStateCompleted
	})
}

func (r *JobRegistry) Fail(batchID, accountID, message string) {
	r.update(batchID, accountID, func(job *domain.SyncJob) {
		job.State = domain.JobStateFailed
		job.Error = message
	})
}

func (r *JobRegistry) Get(batchID, accountID string) (domain.SyncJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[jobKey(batchID, accountID)]
	if !ok {
		return domain.SyncJob{}, false
	}
	return *job, true
}

// ListByUser retorna cópias dos jobs do usuário ordenadas por início
func (r *JobRegistry) ListByUser(userID string) []domain.SyncJob {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.SyncJob, 0)
	for _, job := range r.jobs {
		if job.UserID == userID {
			out = append(out, *job)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].AccountID < out[j].AccountID
	})

	return out
}

func (r *JobRegistry) RemoveBatch(batchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, job := range r.jobs {
		if job.BatchID == batchID {
			delete(r.jobs, key)
		}
	}
}

// Active indica se o usuário possui algum job ainda não finalizado
func (r *JobRegistry) Active(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, job := range r.jobs {
		if job.UserID == userID && !job.State.Terminal() {
			return true
		}
	}
	return false
}
