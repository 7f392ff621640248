package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
)

func TestBulkDelete(t *testing.T) {
	records, store := newRecords(t)
	seed(t, store, "users/s1", map[string]interface{}{"fullName": "Asha"})
	seed(t, store, "users/s2", map[string]interface{}{"fullName": "Kiran"})
	seed(t, store, "users/s3", map[string]interface{}{"fullName": "Zoya"})
	svc := NewBulkService(records, nil, nil)

	result, err := svc.BulkDelete(context.Background(), repository.CollectionStudents, dto.BulkDeleteRequest{IDs: []string{"s1", "s3", "s1", "ghost"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s3", "ghost"}, result.Affected)
	assert.ElementsMatch(t, []string{"s2"}, keysOf(t, store, repository.CollectionStudents))
}

func TestBulkDeleteRejectsOtherCollections(t *testing.T) {
	records, _ := newRecords(t)
	svc := NewBulkService(records, nil, nil)

	_, err := svc.BulkDelete(context.Background(), repository.CollectionPrograms, dto.BulkDeleteRequest{IDs: []string{"p1"}})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))

	_, err = svc.BulkDelete(context.Background(), repository.CollectionInquiries, dto.BulkDeleteRequest{})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}

func TestBulkReassignBatchSharesTimestamp(t *testing.T) {
	records, store := newRecords(t)
	seed(t, store, "users/s1", map[string]interface{}{"fullName": "Asha", "batchId": "b1", "phone": "98450"})
	seed(t, store, "users/s2", map[string]interface{}{"fullName": "Kiran", "batchId": "b2"})
	svc := NewBulkService(records, nil, nil)
	svc.now = func() time.Time { return fixedNow }

	result, err := svc.BulkReassignBatch(context.Background(), sampleSnapshot(), dto.ReassignBatchRequest{IDs: []string{"s1", "s2", "ghost"}, BatchID: "b9"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, result.Affected)
	assert.Equal(t, []string{"ghost"}, result.Skipped)
	assert.Equal(t, "2024-05-10T09:30:00.000Z", result.UpdatedAt)

	for _, id := range []string{"s1", "s2"} {
		doc, ok := readPath(t, store, "users/"+id)
		require.True(t, ok)
		assert.Equal(t, "b9", doc["batchId"])
		assert.Equal(t, result.UpdatedAt, doc["updatedAt"])
	}
	doc, _ := readPath(t, store, "users/s1")
	assert.Equal(t, "98450", doc["phone"])

	_, exists := readPath(t, store, "users/ghost")
	assert.False(t, exists, "no partial record for unknown students")
}
