package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/models"
)

const (
	maxFilesPerUpload = 5
	maxFileSize       = 10 << 20 // 10 MiB
)

// allowedDocumentTypes are the MIME types accepted for loan-support
// documents, keyed by what the byte sniffer reports.
var allowedDocumentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/png":  true,
	"image/jpeg": true,
}

type uploadedFile struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// UploadDocuments attaches files to an existing lead. Whole-call
// failures (missing lead, empty batch, more than five files) happen
// before anything touches the filesystem. Per-file validation failures
// are collected and returned next to the files that did make it.
func UploadDocuments(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFileSize + (1 << 20)); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	leadID, err := strconv.ParseUint(r.FormValue("lead_id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "lead_id is required")
		return
	}

	var lead models.Lead
	if err := db.DB.First(&lead, leadID).Error; err != nil {
		respondError(w, http.StatusNotFound, "lead not found")
		return
	}

	files := r.MultipartForm.File["documents"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided")
		return
	}
	if len(files) > maxFilesPerUpload {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("at most %d files per upload", maxFilesPerUpload))
		return
	}

	uploaded := []uploadedFile{}
	errors := []string{}

	for _, header := range files {
		if header.Size > maxFileSize {
			errors = append(errors, fmt.Sprintf("%s: file exceeds the 10 MB limit", header.Filename))
			continue
		}

		file, err := header.Open()
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: could not read file", header.Filename))
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: could not read file", header.Filename))
			continue
		}

		// Trust the bytes, not the client's content type.
		detected := mimetype.Detect(data)
		if !allowedDocumentTypes[detected.String()] {
			errors = append(errors, fmt.Sprintf("%s: unsupported file type", header.Filename))
			continue
		}
		// application/octet-stream is what generic clients send when they
		// have no idea; treat it like an absent declaration.
		declared := header.Header.Get("Content-Type")
		if declared != "" && declared != "application/octet-stream" && !detected.Is(declared) {
			errors = append(errors, fmt.Sprintf("%s: declared type does not match content", header.Filename))
			continue
		}

		storedName := DocumentStore.StoredName(lead.ID, header.Filename)
		if err := DocumentStore.Save(storedName, data); err != nil {
			logFileCleanupError(storedName, err)
			errors = append(errors, fmt.Sprintf("%s: could not store file", header.Filename))
			continue
		}

		doc := models.Document{
			LeadID:           lead.ID,
			OriginalFilename: header.Filename,
			StoredFilename:   storedName,
			Size:             header.Size,
			MimeType:         detected.String(),
		}
		if err := db.DB.Create(&doc).Error; err != nil {
			// Roll the file back so row and file never diverge.
			if rmErr := DocumentStore.Remove(storedName); rmErr != nil {
				logFileCleanupError(storedName, rmErr)
			}
			errors = append(errors, fmt.Sprintf("%s: could not save document", header.Filename))
			continue
		}

		uploaded = append(uploaded, uploadedFile{
			ID:       doc.ID,
			Filename: doc.OriginalFilename,
			Size:     doc.Size,
		})
	}

	response := map[string]interface{}{
		"success":        len(uploaded) > 0,
		"uploaded":       uploaded,
		"uploaded_count": len(uploaded),
	}
	if len(errors) > 0 {
		response["errors"] = errors
	}
	respondJSON(w, http.StatusOK, response)
}

// ServeDocument streams a stored file resolved by database id, either
// inline (?preview=) or as a download (?download=). The stored path is
// never taken from the client.
func ServeDocument(w http.ResponseWriter, r *http.Request) {
	disposition := "attachment"
	idParam := r.URL.Query().Get("download")
	if idParam == "" {
		idParam = r.URL.Query().Get("preview")
		disposition = "inline"
	}
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "document id is required")
		return
	}

	var doc models.Document
	if err := db.DB.First(&doc, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "document not found")
		return
	}

	file, err := DocumentStore.Open(doc.StoredFilename)
	if err != nil {
		respondError(w, http.StatusNotFound, "document not found")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`%s; filename="%s"`, disposition, doc.OriginalFilename))
	io.Copy(w, file)
}
