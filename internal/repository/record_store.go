package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/pkg/docstore"
)

// Collection names a top-level record collection.
type Collection string

const (
	CollectionStudents   Collection = "users"
	CollectionPrograms   Collection = "programs"
	CollectionInquiries  Collection = "inquiries"
	CollectionPotentials Collection = "potentials"
	CollectionBatches    Collection = "batches"
	CollectionExams      Collection = "exams"
	CollectionEmployees  Collection = "employees"
)

// SnapshotCollections lists every collection a session observes.
var SnapshotCollections = []Collection{
	CollectionStudents,
	CollectionPrograms,
	CollectionInquiries,
	CollectionPotentials,
	CollectionBatches,
	CollectionExams,
	CollectionEmployees,
}

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("record not found")

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// EmployeeKey derives the employees-collection key from an email address by
// dropping every character outside [A-Za-z0-9]. Case is preserved.
func EmployeeKey(email string) string {
	return nonAlphanumeric.ReplaceAllString(email, "")
}

// RecordStore is the typed gateway over the document store.
type RecordStore struct {
	store  docstore.Store
	logger *zap.Logger
}

// NewRecordStore wraps store.
func NewRecordStore(store docstore.Store, logger *zap.Logger) *RecordStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordStore{store: store, logger: logger}
}

// FindEmployee reads employees/{id} once.
func (r *RecordStore) FindEmployee(ctx context.Context, id string) (*models.Employee, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	value, ok, err := r.store.Get(ctx, docstore.Join(string(CollectionEmployees), id))
	if err != nil {
		return nil, fmt.Errorf("find employee %s: %w", id, err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	var employee models.Employee
	if err := decodeValue(value, &employee); err != nil {
		return nil, fmt.Errorf("decode employee %s: %w", id, err)
	}
	employee.ID = id
	return &employee, nil
}

// Subscribe observes a whole collection.
func (r *RecordStore) Subscribe(ctx context.Context, collection Collection, fn docstore.Listener) (docstore.Unsubscribe, error) {
	unsubscribe, err := r.store.Subscribe(ctx, string(collection), fn)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", collection, err)
	}
	return unsubscribe, nil
}

// Push stores record under a generated key and returns the key.
func (r *RecordStore) Push(ctx context.Context, collection Collection, record interface{}) (string, error) {
	doc, err := encodeRecord(record)
	if err != nil {
		return "", fmt.Errorf("encode %s record: %w", collection, err)
	}
	key, err := r.store.Push(ctx, string(collection), doc)
	if err != nil {
		return "", fmt.Errorf("push %s: %w", collection, err)
	}
	return key, nil
}

// Replace overwrites the record at collection/id.
func (r *RecordStore) Replace(ctx context.Context, collection Collection, id string, record interface{}) error {
	doc, err := encodeRecord(record)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	if err := r.store.Set(ctx, docstore.Join(string(collection), id), doc); err != nil {
		return fmt.Errorf("replace %s/%s: %w", collection, id, err)
	}
	return nil
}

// Merge writes each supplied field of collection/id, leaving others intact.
// record may be a struct or a map of stored field names.
func (r *RecordStore) Merge(ctx context.Context, collection Collection, id string, record interface{}) error {
	doc, err := encodeRecord(record)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	if len(doc) == 0 {
		return nil
	}
	batch := NewWriteBatch()
	for field, value := range doc {
		batch.SetField(collection, id, field, value)
	}
	if err := r.Apply(ctx, batch); err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	return nil
}

// Remove deletes collection/id.
func (r *RecordStore) Remove(ctx context.Context, collection Collection, id string) error {
	if err := r.store.Remove(ctx, docstore.Join(string(collection), id)); err != nil {
		return fmt.Errorf("remove %s/%s: %w", collection, id, err)
	}
	return nil
}

// NewKey reserves a record key without writing.
func (r *RecordStore) NewKey() string {
	return r.store.NewKey()
}

// Apply commits every write in batch atomically.
func (r *RecordStore) Apply(ctx context.Context, batch *WriteBatch) error {
	if batch == nil || batch.Len() == 0 {
		return nil
	}
	if err := batch.err; err != nil {
		return err
	}
	return r.store.Update(ctx, batch.updates)
}

// ReplaceExams overwrites the whole exams tree.
func (r *RecordStore) ReplaceExams(ctx context.Context, results models.ExamResults) error {
	if err := r.store.Set(ctx, string(CollectionExams), results); err != nil {
		return fmt.Errorf("replace exams: %w", err)
	}
	return nil
}

// WriteBatch accumulates paths for one atomic multi-path update.
type WriteBatch struct {
	updates map[string]interface{}
	err     error
}

// NewWriteBatch returns an empty batch.
func NewWriteBatch() *WriteBatch {
	return &WriteBatch{updates: make(map[string]interface{})}
}

// Put stages a full record at collection/id.
func (b *WriteBatch) Put(collection Collection, id string, record interface{}) {
	doc, err := encodeRecord(record)
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	b.updates[docstore.Join(string(collection), id)] = doc
}

// SetField stages one field of collection/id.
func (b *WriteBatch) SetField(collection Collection, id, field string, value interface{}) {
	b.updates[docstore.Join(string(collection), id, field)] = value
}

// Delete stages removal of collection/id.
func (b *WriteBatch) Delete(collection Collection, id string) {
	b.updates[docstore.Join(string(collection), id)] = nil
}

// Len returns the number of staged paths.
func (b *WriteBatch) Len() int {
	return len(b.updates)
}

// DecodeStudents converts a users collection value into records sorted by id.
// Records that fail to decode are skipped and reported in the returned error
// alongside the records that did decode.
func DecodeStudents(value docstore.Value) ([]models.Student, error) {
	return decodeCollection[models.Student](value)
}

// DecodePrograms converts a programs collection value.
func DecodePrograms(value docstore.Value) ([]models.Program, error) {
	return decodeCollection[models.Program](value)
}

// DecodeInquiries converts an inquiries collection value.
func DecodeInquiries(value docstore.Value) ([]models.Inquiry, error) {
	return decodeCollection[models.Inquiry](value)
}

// DecodePotentials converts a potentials collection value.
func DecodePotentials(value docstore.Value) ([]models.Potential, error) {
	return decodeCollection[models.Potential](value)
}

// DecodeBatches converts a batches collection value.
func DecodeBatches(value docstore.Value) ([]models.Batch, error) {
	return decodeCollection[models.Batch](value)
}

// DecodeEmployees converts an employees collection value.
func DecodeEmployees(value docstore.Value) ([]models.Employee, error) {
	return decodeCollection[models.Employee](value)
}

// DecodeExams converts the exams tree. An absent tree decodes as empty.
func DecodeExams(value docstore.Value) (models.ExamResults, error) {
	results := models.ExamResults{}
	if value == nil {
		return results, nil
	}
	if err := decodeValue(value, &results); err != nil {
		return nil, err
	}
	return results, nil
}

type keyedPtr[T any] interface {
	*T
	models.Keyed
}

func decodeCollection[T any, P keyedPtr[T]](value docstore.Value) ([]T, error) {
	if value == nil {
		return []T{}, nil
	}
	children, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("collection value is %T, want object", value)
	}

	keys := make([]string, 0, len(children))
	for key := range children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]T, 0, len(keys))
	var errs []error
	for _, key := range keys {
		var record T
		if err := decodeValue(children[key], &record); err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", key, err))
			continue
		}
		P(&record).SetID(key)
		out = append(out, record)
	}
	return out, errors.Join(errs...)
}

func decodeValue(value docstore.Value, dest interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// encodeRecord turns a record into its stored object form. The key is never
// stored inside the record.
func encodeRecord(record interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	delete(doc, "id")
	return doc, nil
}
