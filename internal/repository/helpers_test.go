package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// fakeDatabase stands in for a live SurrealDB connection so repository
// queries and result parsing can be exercised in isolation.
type fakeDatabase struct {
	queryFunc    func(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)
	queryOneFunc func(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)
	executeFunc  func(ctx context.Context, query string, vars map[string]interface{}) error
}

func (f *fakeDatabase) Connect(ctx context.Context) error { return nil }
func (f *fakeDatabase) Close() error                      { return nil }
func (f *fakeDatabase) Ping(ctx context.Context) error    { return nil }

func (f *fakeDatabase) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if f.queryFunc != nil {
		return f.queryFunc(ctx, query, vars)
	}
	return nil, nil
}

func (f *fakeDatabase) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	if f.queryOneFunc != nil {
		return f.queryOneFunc(ctx, query, vars)
	}
	return nil, nil
}

func (f *fakeDatabase) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	if f.executeFunc != nil {
		return f.executeFunc(ctx, query, vars)
	}
	return nil
}

// ===== Record ID Normalization =====

func TestConvertSurrealID_StringPassthrough(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "poll:abc", convertSurrealID("poll:abc"))
}

func TestConvertSurrealID_RecordID(t *testing.T) {
	t.Parallel()

	id := models.RecordID{Table: "poll", ID: "abc"}
	assert.Equal(t, "poll:abc", convertSurrealID(id))
	assert.Equal(t, "poll:abc", convertSurrealID(&id))
}

func TestConvertSurrealID_MapFormat(t *testing.T) {
	t.Parallel()

	id := map[string]interface{}{
		"tb": "group",
		"id": map[string]interface{}{"String": "xyz"},
	}
	assert.Equal(t, "group:xyz", convertSurrealID(id))
}

// ===== Result Unwrapping =====

func TestFlattenResults_UnwrapsStatementWrappers(t *testing.T) {
	t.Parallel()

	wrapped := []interface{}{
		map[string]interface{}{
			"status": "OK",
			"result": []interface{}{
				map[string]interface{}{"id": "event:1"},
				map[string]interface{}{"id": "event:2"},
			},
		},
	}

	records := flattenResults(wrapped)
	assert.Len(t, records, 2)
}

func TestFlattenResults_PassesBareRecordsThrough(t *testing.T) {
	t.Parallel()

	bare := []interface{}{
		map[string]interface{}{"id": "event:1"},
	}

	records := flattenResults(bare)
	assert.Len(t, records, 1)
}

func TestExtractReturnedRecord_FindsRecordInLastStatement(t *testing.T) {
	t.Parallel()

	results := []interface{}{
		map[string]interface{}{"status": "OK", "result": nil},
		map[string]interface{}{
			"status": "OK",
			"result": map[string]interface{}{"id": "poll:new", "title": "lunch"},
		},
	}

	record, ok := extractReturnedRecord(results)
	assert.True(t, ok)
	assert.Equal(t, "poll:new", record["id"])
}

func TestExtractReturnedRecord_UnwrapsArrayReturn(t *testing.T) {
	t.Parallel()

	results := []interface{}{
		[]interface{}{
			map[string]interface{}{"id": "group:new"},
		},
	}

	record, ok := extractReturnedRecord(results)
	assert.True(t, ok)
	assert.Equal(t, "group:new", record["id"])
}

func TestExtractReturnedRecord_NoRecord(t *testing.T) {
	t.Parallel()

	results := []interface{}{
		map[string]interface{}{"status": "OK", "result": nil},
	}

	_, ok := extractReturnedRecord(results)
	assert.False(t, ok)
}

// ===== Aggregate Counts =====

func TestExtractCount_ReadsCountField(t *testing.T) {
	t.Parallel()

	result := map[string]interface{}{"count": float64(7)}
	assert.Equal(t, 7, extractCount(result))
}

func TestExtractCount_NonMapIsZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, extractCount(nil))
	assert.Equal(t, 0, extractCount("garbage"))
}
