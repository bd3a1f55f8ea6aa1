package memocache

import (
	"TrattoriaGolang/internal/entity"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func createTestRecord(conversationID string) entity.AnalysisRecord {
	return entity.AnalysisRecord{
		ConversationID: conversationID,
		Outcome:        entity.OutcomeInformationOnly,
	}
}

func TestCache_WriteOnce(t *testing.T) {
	cache := New()
	calls := 0

	compute := func() (entity.AnalysisRecord, error) {
		calls++
		return createTestRecord("sample-1"), nil
	}

	first, err := cache.GetOrCompute("sample-1", compute)
	assert.NoError(t, err)

	second, err := cache.GetOrCompute("sample-1", compute)
	assert.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestCache_ErrorNotCached(t *testing.T) {
	cache := New()
	calls := 0

	failing := func() (entity.AnalysisRecord, error) {
		calls++
		return entity.AnalysisRecord{}, errors.New("completion unavailable")
	}

	_, err := cache.GetOrCompute("sample-1", failing)
	assert.Error(t, err)

	record, err := cache.GetOrCompute("sample-1", func() (entity.AnalysisRecord, error) {
		calls++
		return createTestRecord("sample-1"), nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "sample-1", record.ConversationID)
	assert.Equal(t, 2, calls)
}

func TestCache_ConcurrentSameKey(t *testing.T) {
	cache := New()
	var calls int32

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := cache.GetOrCompute("sample-1", func() (entity.AnalysisRecord, error) {
				atomic.AddInt32(&calls, 1)
				return createTestRecord("sample-1"), nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "sample-1", record.ConversationID)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_DistinctKeysIndependent(t *testing.T) {
	cache := New()

	a, err := cache.GetOrCompute("sample-a", func() (entity.AnalysisRecord, error) {
		return createTestRecord("sample-a"), nil
	})
	assert.NoError(t, err)

	b, err := cache.GetOrCompute("sample-b", func() (entity.AnalysisRecord, error) {
		return createTestRecord("sample-b"), nil
	})
	assert.NoError(t, err)

	assert.Equal(t, "sample-a", a.ConversationID)
	assert.Equal(t, "sample-b", b.ConversationID)
}

func TestCache_Peek(t *testing.T) {
	cache := New()

	_, ok := cache.Peek("sample-1")
	assert.False(t, ok)

	_, err := cache.GetOrCompute("sample-1", func() (entity.AnalysisRecord, error) {
		return createTestRecord("sample-1"), nil
	})
	assert.NoError(t, err)

	record, ok := cache.Peek("sample-1")
	assert.True(t, ok)
	assert.Equal(t, "sample-1", record.ConversationID)
}
