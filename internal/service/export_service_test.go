package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/jobs"
	"github.com/noah-isme/sci-crm-api/pkg/storage"
)

type capturingQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *capturingQueue) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func newExportServiceForTest(t *testing.T) (*ExportService, *capturingQueue, *repository.MemoryExportJobRepository) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	jobStore := repository.NewMemoryExportJobRepository()
	svc := NewExportService(jobStore, store, storage.NewSignedURLSigner("secret", time.Hour), NewMetricsService(), nil, nil, ExportConfig{APIPrefix: "/api/v1/"})
	queue := &capturingQueue{}
	svc.AttachQueue(queue)
	return svc, queue, jobStore
}

func TestExportServiceGeneratesCSV(t *testing.T) {
	svc, queue, _ := newExportServiceForTest(t)
	ctx := context.Background()

	job, err := svc.Request(ctx, "ravigmailcom", sampleSnapshot(), dto.ExportRequest{Dataset: models.ExportDatasetStudents, Format: models.ExportFormatCSV, BatchID: "b1"})
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	assert.Equal(t, "ravigmailcom", job.RequestedBy)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobKindExport, queue.jobs[0].Kind)

	require.NoError(t, svc.Process(ctx, queue.jobs[0]))

	done, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, done.Status)
	assert.Equal(t, "students/"+job.ID+".csv", done.ObjectKey)
	require.True(t, strings.HasPrefix(done.ResultURL, "/api/v1/exports/download/"))
	require.NotNil(t, done.FinishedAt)

	token := strings.TrimPrefix(done.ResultURL, "/api/v1/exports/download/")
	download, err := svc.Open(ctx, token)
	require.NoError(t, err)
	defer download.Body.Close()
	assert.Equal(t, "text/csv", download.ContentType)
	assert.True(t, strings.HasPrefix(download.Filename, "students-"))

	body, err := io.ReadAll(download.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Full Name,Enrollment ID,Program,Batch,Phone,Email,Status,Enrolled By", lines[0])
	assert.Contains(t, lines[1], "Asha Rao,ENR1,JEE Foundation,Morning")
	assert.Contains(t, lines[2], "Zoya Khan,ENR3,N/A,Morning")
}

func TestExportServiceGeneratesPDF(t *testing.T) {
	svc, queue, _ := newExportServiceForTest(t)
	ctx := context.Background()

	job, err := svc.Request(ctx, "ravigmailcom", sampleSnapshot(), dto.ExportRequest{Dataset: models.ExportDatasetPotentials, Format: models.ExportFormatPDF})
	require.NoError(t, err)
	require.NoError(t, svc.Process(ctx, queue.jobs[0]))

	done, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "potentials/"+job.ID+".pdf", done.ObjectKey)
}

func TestExportServiceRequestValidation(t *testing.T) {
	svc, _, _ := newExportServiceForTest(t)
	_, err := svc.Request(context.Background(), "x", sampleSnapshot(), dto.ExportRequest{Dataset: "programs", Format: models.ExportFormatCSV})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))

	disabled := NewExportService(repository.NewMemoryExportJobRepository(), nil, nil, nil, nil, nil, ExportConfig{})
	_, err = disabled.Request(context.Background(), "x", sampleSnapshot(), dto.ExportRequest{Dataset: models.ExportDatasetStudents, Format: models.ExportFormatCSV})
	assert.ErrorIs(t, err, appErrors.ErrFeatureOff)
}

func TestExportServiceEnqueueFailureMarksJobFailed(t *testing.T) {
	svc, queue, jobStore := newExportServiceForTest(t)
	queue.err = jobs.ErrQueueFull

	_, err := svc.Request(context.Background(), "x", sampleSnapshot(), dto.ExportRequest{Dataset: models.ExportDatasetInquiries, Format: models.ExportFormatCSV})
	require.Error(t, err)

	var failed int
	for _, id := range jobStore.IDs() {
		job, err := jobStore.FindByID(context.Background(), id)
		require.NoError(t, err)
		if job.Status == models.ExportStatusFailed {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestExportServiceFailHook(t *testing.T) {
	svc, queue, _ := newExportServiceForTest(t)
	ctx := context.Background()

	job, err := svc.Request(ctx, "x", sampleSnapshot(), dto.ExportRequest{Dataset: models.ExportDatasetInquiries, Format: models.ExportFormatCSV})
	require.NoError(t, err)
	svc.Fail(queue.jobs[0], errors.New("disk full"))

	failed, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFailed, failed.Status)
	assert.Equal(t, "disk full", failed.ErrorMessage)
}

func TestExportServiceOpenRejectsBadTokens(t *testing.T) {
	svc, _, _ := newExportServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, "garbage")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	token, _, err := svc.signer.Generate("job-1", "students/job-1.csv")
	require.NoError(t, err)
	_, err = svc.Open(ctx, token)
	assert.ErrorIs(t, err, appErrors.ErrNotFound, "signed but never stored")

	_, err = svc.Get(ctx, "unknown")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestBuildExportTableInquiries(t *testing.T) {
	table, err := BuildExportTable(sampleSnapshot(), dto.ExportRequest{Dataset: models.ExportDatasetInquiries, Query: "nik"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Nikhil", "90000", "NEET Crash", "New", "Website", "2024-05-01", "", "Ravi"}, table.Rows[0])
}
