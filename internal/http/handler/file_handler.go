package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"go.uber.org/zap"
)

// Kinds of project-level upload accepted by UploadProjectFile
const (
	fileKindContract = "contract"
	fileKindMap      = "map"
)

type FileHandler struct {
	fileService *service.FileService
	maxUploadMB int64
	logger      *zap.Logger
}

func NewFileHandler(fileService *service.FileService, maxUploadMB int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// readUpload limits the request size and returns the "file" form field.
// The caller closes the returned file.
func (h *FileHandler) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, service.FileUpload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return nil, service.FileUpload{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return nil, service.FileUpload{}, false
	}
	return file, service.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	}, true
}

// UploadProjectFile godoc
// @Summary Upload project file
// @Description Stores a signed contract or a map of the project area
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param code path string true "Project code"
// @Param If-Match header string false "Expected project version"
// @Param file formData file true "File to upload"
// @Param kind formData string true "What the file is" Enums(contract, map)
// @Success 201 {object} domain.EditResponse[domain.FileDTO]
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/files [post]
func (h *FileHandler) UploadProjectFile(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	file, up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	upload := h.fileService.UploadContract
	switch kind := r.FormValue("kind"); kind {
	case fileKindContract:
	case fileKindMap:
		upload = h.fileService.UploadMapFile
	default:
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid kind %q: must be contract or map", kind))
		return
	}

	res, err := upload(r.Context(), edit, up)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusCreated, res.Version, res)
}

// UploadReportFile godoc
// @Summary Attach file to activity report
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param activityId path string true "Activity ID"
// @Param reportId path string true "Report ID"
// @Param If-Match header string false "Expected project version"
// @Param file formData file true "File to upload"
// @Param asPhoto formData bool false "Store as a photo"
// @Param caption formData string false "Photo caption"
// @Success 201 {object} domain.EditResponse[domain.FileDTO]
// @Failure 404 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId}/activities/{activityId}/reports/{reportId}/files [post]
func (h *FileHandler) UploadReportFile(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	file, up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	asPhoto := false
	if v := r.FormValue("asPhoto"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid asPhoto: must be true or false")
			return
		}
		asPhoto = parsed
	}

	res, err := h.fileService.UploadReportFile(r.Context(), edit, reportPath(r), up, asPhoto, strings.TrimSpace(r.FormValue("caption")))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusCreated, res.Version, res)
}

// UploadExpenseReceipt godoc
// @Summary Attach receipt to expense
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param code path string true "Project code"
// @Param lineId path string true "Budget line ID"
// @Param expenseId path string true "Expense ID"
// @Param If-Match header string false "Expected project version"
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.EditResponse[domain.FileDTO]
// @Failure 404 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/budget/lines/{lineId}/expenses/{expenseId}/files [post]
func (h *FileHandler) UploadExpenseReceipt(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	file, up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.fileService.UploadExpenseReceipt(r.Context(), edit,
		chi.URLParam(r, "lineId"), chi.URLParam(r, "expenseId"), up)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusCreated, res.Version, res)
}

// Download godoc
// @Summary Download file
// @Description Streams a stored object by its id, as found in the attachment's fileId
// @Tags Files
// @Produce application/octet-stream
// @Param fileId path string true "File ID"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Router /files/{fileId} [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "*")

	reader, err := h.fileService.Download(r.Context(), fileID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", "attachment; filename=\""+path.Base(fileID)+"\"")
	w.Header().Set("Content-Type", "application/octet-stream")

	_, _ = io.Copy(w, reader)
}
