package service_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/storage"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every upload
type brokenStore struct {
	storage.ObjectStore
}

func (brokenStore) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	return strings.TrimPrefix(parentID+"/"+name, "/"), nil
}

func (brokenStore) Upload(ctx context.Context, folderID, filename, contentType string, data io.Reader) (string, int64, error) {
	return "", 0, errors.New("quota exceeded")
}

func newLocalFileService(t *testing.T, f *fixture) (*service.FileService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://localhost:8080/files")
	require.NoError(t, err)
	return service.NewFileService(f.projects, store, "CEPF", f.clock(), testutil.Logger()), dir
}

func upload(name, content string) service.FileUpload {
	return service.FileUpload{Filename: name, ContentType: "application/pdf", Data: strings.NewReader(content)}
}

func TestFileService_UploadContract(t *testing.T) {
	f := newFixture(t)
	svc, dir := newLocalFileService(t, f)
	ctx := context.Background()
	f.scheduledProject(t, "CEPF-1")

	res, err := svc.UploadContract(ctx, service.EditOf("CEPF-1"), upload(`C:\scans\contract.pdf`, "signed"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Version)
	assert.Equal(t, "contract.pdf", res.Data.Name)
	assert.Equal(t, "CEPF/CEPF-1 - ACRCEPF-1/Contracts", res.Data.FolderID)
	assert.Equal(t, int64(6), res.Data.Size)
	assert.Equal(t, domain.TimestampString(f.today), res.Data.UploadedAt)
	assert.True(t, strings.HasPrefix(res.Data.URL, "http://localhost:8080/files/CEPF/"))

	onDisk, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Data.FileID)))
	require.NoError(t, err)
	assert.Equal(t, "signed", string(onDisk))

	stored := f.reload(t, "CEPF-1")
	require.Len(t, stored.Contracts, 1)
	assert.Equal(t, res.Data.FileID, stored.Contracts[0].FileID)

	rc, err := svc.Download(ctx, res.Data.FileID)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "signed", string(body))
}

func TestFileService_UploadReportFileLandsInReportFolder(t *testing.T) {
	f := newFixture(t)
	svc, _ := newLocalFileService(t, f)
	ctx := context.Background()
	f.scheduledProject(t, "CEPF-1")
	edit := service.EditOf("CEPF-1")

	report, err := f.workPlanService().AddActivityReport(ctx, edit, seedActivity, &domain.ActivityReportRequest{ReportNumber: 2, Narrative: "x"})
	require.NoError(t, err)
	path := service.ReportPath{ActivityPath: seedActivity, ReportID: report.Data.ID}

	doc, err := svc.UploadReportFile(ctx, edit, path, upload("list.pdf", "names"), false, "")
	require.NoError(t, err)
	assert.Equal(t, "CEPF/CEPF-1 - ACRCEPF-1/Reports/Report 2", doc.Data.FolderID)

	photo, err := svc.UploadReportFile(ctx, edit, path, upload("nursery.jpg", "jpeg"), true, "Seedlings")
	require.NoError(t, err)
	assert.Equal(t, 4, photo.Version)

	stored := f.reload(t, "CEPF-1").WorkPlan[0].Deliverables[0].Activities[0].Reports[0]
	require.Len(t, stored.Attachments, 1)
	require.Len(t, stored.Photos, 1)
	assert.Equal(t, "Seedlings", stored.Photos[0].Caption)
	assert.Equal(t, "nursery.jpg", stored.Photos[0].Name)
}

func TestFileService_UploadMapFile(t *testing.T) {
	f := newFixture(t)
	svc, _ := newLocalFileService(t, f)
	f.scheduledProject(t, "CEPF-1")

	res, err := svc.UploadMapFile(beneficiaryOf("CEPF-1"), service.EditOf("CEPF-1"), upload("area.kml", "<kml/>"))
	require.NoError(t, err)
	assert.Equal(t, "CEPF/CEPF-1 - ACRCEPF-1/Locations", res.Data.FolderID)
	assert.Len(t, f.reload(t, "CEPF-1").Locations.MapFiles, 1)
}

func TestFileService_ExpenseReceipt(t *testing.T) {
	f := newFixture(t)
	svc, dir := newLocalFileService(t, f)
	ctx := context.Background()
	f.scheduledProject(t, "CEPF-1")
	edit := service.EditOf("CEPF-1")

	_, err := svc.UploadExpenseReceipt(ctx, edit, "l1", "missing", upload("receipt.pdf", "x"))
	assert.ErrorIs(t, err, service.ErrNodeNotFound)
	_, statErr := os.Stat(filepath.Join(dir, "CEPF"))
	assert.True(t, os.IsNotExist(statErr), "nothing is uploaded for a missing expense")

	exp, err := f.budgetService().AddExpense(ctx, edit, "l1", expense(100, "Consultant"))
	require.NoError(t, err)

	res, err := svc.UploadExpenseReceipt(ctx, edit, "l1", exp.Data.ID, upload("receipt.pdf", "paid"))
	require.NoError(t, err)
	assert.Equal(t, "CEPF/CEPF-1 - ACRCEPF-1/Expenses/"+exp.Data.ID, res.Data.FolderID)
	assert.Len(t, f.reload(t, "CEPF-1").BudgetLines[0].Entries[0].Attachments, 1)
}

func TestFileService_PermissionCheckedBeforeUpload(t *testing.T) {
	f := newFixture(t)
	svc, dir := newLocalFileService(t, f)
	f.scheduledProject(t, "CEPF-1")

	_, err := svc.UploadContract(beneficiaryOf("CEPF-2"), service.EditOf("CEPF-1"), upload("contract.pdf", "x"))
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileService_StoreFailureLeavesProjectUntouched(t *testing.T) {
	f := newFixture(t)
	svc := service.NewFileService(f.projects, brokenStore{}, "", f.clock(), testutil.Logger())
	f.scheduledProject(t, "CEPF-1")

	_, err := svc.UploadContract(context.Background(), service.EditOf("CEPF-1"), upload("contract.pdf", "x"))
	assert.ErrorIs(t, err, service.ErrExternal)

	stored := f.reload(t, "CEPF-1")
	assert.Equal(t, 1, stored.Version)
	assert.Empty(t, stored.Contracts)
}

func TestFileService_DownloadMissing(t *testing.T) {
	f := newFixture(t)
	svc, _ := newLocalFileService(t, f)

	_, err := svc.Download(context.Background(), "CEPF/nothing.pdf")
	assert.ErrorIs(t, err, service.ErrFileNotFound)
}

func TestFileService_RejectsEmptyFilename(t *testing.T) {
	f := newFixture(t)
	svc, _ := newLocalFileService(t, f)
	f.scheduledProject(t, "CEPF-1")

	_, err := svc.UploadContract(context.Background(), service.EditOf("CEPF-1"), upload("  ", "x"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestFileService_DownloadChecksProjectAccess(t *testing.T) {
	f := newFixture(t)
	svc, _ := newLocalFileService(t, f)
	f.scheduledProject(t, "CEPF-1")

	res, err := svc.UploadContract(context.Background(), service.EditOf("CEPF-1"), upload("contract.pdf", "signed"))
	require.NoError(t, err)

	_, err = svc.Download(beneficiaryOf("CEPF-2"), res.Data.FileID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	rc, err := svc.Download(beneficiaryOf("CEPF-1"), res.Data.FileID)
	require.NoError(t, err)
	_ = rc.Close()

	_, err = svc.Download(beneficiaryOf("CEPF-1"), "CEPF/loose.pdf")
	assert.ErrorIs(t, err, service.ErrPermissionDenied, "files outside project folders are staff only")
}
