package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/nexus/internal/document"
	"github.com/MikeSquared-Agency/nexus/internal/processor"
	"github.com/MikeSquared-Agency/nexus/internal/record"
	"github.com/MikeSquared-Agency/nexus/internal/resolve"
)

const maxUpload = 20 << 20

// TagRequest is the JSON body of POST /api/v1/profiles/tag.
type TagRequest struct {
	Notes       string   `json:"notes"`
	CVText      string   `json:"cv_text"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ResolveRequest is the JSON body of POST /api/v1/profiles/resolve.
type ResolveRequest struct {
	Record  *record.Object `json:"record"`
	Keys    []string       `json:"keys"`
	Default *string        `json:"default,omitempty"`
}

func (s *Server) tagProfile(w http.ResponseWriter, r *http.Request) {
	req, err := decodeTagRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.proc.Tag(r.Context(), processor.TagRequest{
		RequestID:   r.Header.Get("X-Request-Id"),
		Notes:       req.Notes,
		CV:          req.CVText,
		Model:       req.Model,
		Temperature: req.Temperature,
		Source:      "api",
	})
	switch {
	case errors.Is(err, processor.ErrNoInput):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("tagging failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// decodeTagRequest accepts either a JSON body or a multipart form with a
// "notes" field and a "cv" file upload.
func decodeTagRequest(r *http.Request) (TagRequest, error) {
	var req TagRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUpload)).Decode(&req); err != nil {
			return req, fmt.Errorf("invalid JSON: %w", err)
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return req, fmt.Errorf("invalid form: %w", err)
	}
	req.Notes = r.FormValue("notes")
	req.CVText = r.FormValue("cv_text")
	req.Model = r.FormValue("model")
	if t := r.FormValue("temperature"); t != "" {
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return req, fmt.Errorf("invalid temperature %q", t)
		}
		req.Temperature = &f
	}

	for field, dst := range map[string]*string{"cv": &req.CVText, "notes_file": &req.Notes} {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return req, fmt.Errorf("read %s: %w", field, err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return req, fmt.Errorf("read %s: %w", field, err)
		}
		text := document.Read(header.Filename, data)
		if strings.TrimSpace(*dst) != "" {
			text = *dst + "\n" + text
		}
		*dst = text
	}
	return req, nil
}

func (s *Server) resolveField(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(req.Keys) == 0 {
		writeError(w, http.StatusBadRequest, "keys must not be empty")
		return
	}

	def := resolve.Default
	if req.Default != nil {
		def = *req.Default
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"value": resolve.Value(req.Record, req.Keys, def),
	})
}
