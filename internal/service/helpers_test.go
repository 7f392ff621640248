package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	"github.com/noah-isme/sci-crm-api/pkg/docstore"
)

var fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func newRecords(t *testing.T) (*repository.RecordStore, *docstore.MemoryStore) {
	t.Helper()
	store := docstore.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return repository.NewRecordStore(store, nil), store
}

func seed(t *testing.T, store docstore.Store, path string, value interface{}) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), path, value))
}

func readPath(t *testing.T, store docstore.Store, path string) (map[string]interface{}, bool) {
	t.Helper()
	value, ok, err := store.Get(context.Background(), path)
	require.NoError(t, err)
	if !ok {
		return nil, false
	}
	doc, _ := value.(map[string]interface{})
	return doc, true
}

func keysOf(t *testing.T, store docstore.Store, collection repository.Collection) []string {
	t.Helper()
	doc, ok := readPath(t, store, string(collection))
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	return keys
}

func sampleSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Version: 3,
		Programs: []models.Program{
			{ID: "p1", Name: "JEE Foundation", Code: "JF"},
			{ID: "p2", Name: "NEET Crash", Code: "NC"},
		},
		Batches: []models.Batch{{ID: "b1", Name: "Morning"}, {ID: "b2", Name: "Evening"}},
		Employees: []models.Employee{
			{ID: "ravigmailcom", Name: "Ravi"},
			{ID: "meenagmailcom", Name: "Meena"},
		},
		Students: []models.Student{
			{ID: "s1", FullName: "Asha Rao", EnrollmentID: "ENR1", ProgramID: "p1", BatchID: "b1", Phone: "98450", Email: "asha@mail.com", EmployeeID: "meenagmailcom", Status: models.StudentStatusActive, CreatedAt: "2024-05-10T08:00:00.000Z"},
			{ID: "s2", FullName: "Kiran Das", EnrollmentID: "ENR2", ProgramID: "p1", BatchID: "b2", Phone: "99001", EmployeeID: "meenagmailcom", Status: models.StudentStatusActive, CreatedAt: "2024-05-08T10:00:00.000Z"},
			{ID: "s3", FullName: "Zoya Khan", EnrollmentID: "ENR3", ProgramID: "gone", BatchID: "b1", EmployeeID: "ravigmailcom", Status: models.StudentStatusInactive, CreatedAt: "2024-04-01T10:00:00.000Z"},
		},
		Inquiries: []models.Inquiry{
			{ID: "i1", Name: "Nikhil", Phone: "90000", ProgramOfInterestID: "p2", EmployeeID: "ravigmailcom", Status: models.InquiryStatusNew, Source: models.InquirySourceWebsite, InquiryDate: "2024-05-01", Email: "nikhil@mail.com", Address: "Pune"},
			{ID: "i2", Name: "Priya", Phone: "90001", ProgramOfInterestID: "p1", EmployeeID: "meenagmailcom", Status: models.InquiryStatusFollowUp, Source: models.InquirySourceReferral, InquiryDate: "2024-05-02"},
			{ID: "i3", Name: "Om", Phone: "90002", Status: models.InquiryStatusDropped, InquiryDate: "2024-05-03"},
		},
		Potentials: []models.Potential{
			{Inquiry: models.Inquiry{ID: "q1", Name: "Tara", Phone: "91111", Email: "tara@mail.com", Address: "Goa", ProgramOfInterestID: "p2", EmployeeID: "ravigmailcom", Status: models.InquiryStatusFollowUp}, Remark: "call back"},
			{Inquiry: models.Inquiry{ID: "q2", Name: "Dev", Phone: "92222", EmployeeID: "meenagmailcom"}, Remark: "fees"},
		},
		Exams: models.ExamResults{},
	}
}
