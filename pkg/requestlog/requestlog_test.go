package requestlog

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecordFillsDefaults(t *testing.T) {
	log := NewLog(10)
	entry := &Entry{Method: "GET", Path: "/orders/1"}
	log.Record(entry)

	assert.Equal(t, "req-1", entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
	assert.Equal(t, 1, log.Count())
}

func TestLogEvictsOldestAtCapacity(t *testing.T) {
	log := NewLog(3)
	for i := 1; i <= 5; i++ {
		log.Record(&Entry{Method: "GET", Path: fmt.Sprintf("/r/%d", i)})
	}

	require.Equal(t, 3, log.Count())
	entries := log.List(nil)
	assert.Equal(t, "/r/5", entries[0].Path)
	assert.Equal(t, "/r/3", entries[2].Path)
	assert.Nil(t, log.Get("req-1"))
	assert.NotNil(t, log.Get("req-5"))
}

func TestLogTruncatesLargeBody(t *testing.T) {
	log := NewLog(10)
	entry := &Entry{Method: "POST", Path: "/x", Body: strings.Repeat("a", maxBodyCapture+100)}
	log.Record(entry)
	assert.Len(t, entry.Body, maxBodyCapture)
}

func TestLogListFilters(t *testing.T) {
	log := NewLog(10)
	log.Record(&Entry{Method: "GET", Path: "/orders/1", MatchedID: "stateful:ord-1", ResourceID: "ord-1", ResponseStatus: 200})
	log.Record(&Entry{Method: "POST", Path: "/orders/1/pay", MatchedID: "stateful:ord-1", ResourceID: "ord-1", ResponseStatus: 200})
	log.Record(&Entry{Method: "GET", Path: "/ping", MatchedID: "m1", ResponseStatus: 200})
	log.Record(&Entry{Method: "GET", Path: "/nope", ResponseStatus: 404})

	tests := []struct {
		name   string
		filter *Filter
		want   int
	}{
		{"no filter", nil, 4},
		{"by method", &Filter{Method: "post"}, 1},
		{"by path prefix", &Filter{Path: "/orders/"}, 2},
		{"by matched id", &Filter{MatchedID: "m1"}, 1},
		{"by resource", &Filter{ResourceID: "ord-1"}, 2},
		{"by status", &Filter{StatusCode: 404}, 1},
		{"limit", &Filter{Limit: 2}, 2},
		{"offset past end", &Filter{Offset: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, log.List(tt.filter), tt.want)
		})
	}
}

func TestLogListLimitOffsetPaging(t *testing.T) {
	log := NewLog(10)
	for i := 1; i <= 5; i++ {
		log.Record(&Entry{Method: "GET", Path: fmt.Sprintf("/r/%d", i)})
	}

	page := log.List(&Filter{Limit: 2, Offset: 2})
	require.Len(t, page, 2)
	assert.Equal(t, "/r/3", page[0].Path)
	assert.Equal(t, "/r/2", page[1].Path)
}

func TestLogClear(t *testing.T) {
	log := NewLog(10)
	log.Record(&Entry{Method: "GET", Path: "/x"})
	log.Clear()
	assert.Equal(t, 0, log.Count())
	assert.Empty(t, log.List(nil))
}

func TestLogConcurrentRecord(t *testing.T) {
	log := NewLog(100)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				log.Record(&Entry{Method: "GET", Path: "/x"})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, log.Count())
}