package syncing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-sync-api/internal/domain"
)

func TestJobRegistry_Lifecycle(t *testing.T) {
	r := NewJobRegistry()
	account := &domain.Account{ID: "acc1", Platform: domain.PlatformMercadoLivre}

	r.Register("b1", "u1", account)
	assert.True(t, r.Active("u1"))

	r.Start("b1", "acc1")
	r.UpdateProgress("b1", "acc1", 10, 100)
	r.UpdateProgress("b1", "acc1", 5, 50)

	job, ok := r.Get("b1", "acc1")
	require.True(t, ok)
	assert.Equal(t, domain.JobStateFetching, job.State)
	assert.Equal(t, 10, job.Fetched)
	assert.Equal(t, 100, job.Expected)

	r.Complete("b1", "acc1", 98)
	r.Fail("b1", "acc1", "ignorado após término")

	job, _ = r.Get("b1", "acc1")
	assert.Equal(t, domain.JobStateCompleted, job.State)
	assert.Equal(t, 98, job.Fetched)
	assert.Empty(t, job.Error)
	assert.False(t, r.Active("u1"))

	assert.Len(t, r.ListByUser("u1"), 1)
	assert.Empty(t, r.ListByUser("u2"))

	r.RemoveBatch("b1")
	_, ok = r.Get("b1", "acc1")
	assert.False(t, ok)
}

func TestJobRegistry_Sessions(t *testing.T) {
	r := NewJobRegistry()

	r.OpenSession("sess")
	r.OpenSession("sess")
	r.OpenSession("other")

	assert.False(t, r.ReleaseSession("sess"))
	assert.True(t, r.ReleaseSession("sess"))
	assert.True(t, r.ReleaseSession("other"))

	// Sessão reaberta depois de liberada começa do zero
	r.OpenSession("sess")
	assert.True(t, r.ReleaseSession("sess"))
}
