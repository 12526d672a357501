package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/mnasrulloh/portfolio/internal/platform/errors"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/app"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/storage"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/uploads"
)

const (
	msgListProjectsFailed  = "Gagal memuat project."
	msgCreateProjectFailed = "Gagal menambahkan project."
	msgUpdateProjectFailed = "Gagal memperbarui project."
	msgDeleteProjectFailed = "Gagal menghapus project."

	// maxProjectBody leaves room for form fields next to the largest image.
	maxProjectBody = uploads.MaxImageBytes + 1<<20
	maxFormMemory  = 8 << 20
)

type projectJSON struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	NameEn        string  `json:"nameEn"`
	Description   string  `json:"description"`
	DescriptionEn string  `json:"descriptionEn"`
	Link          string  `json:"link"`
	ImageURL      *string `json:"imageUrl"`
	CreatedAt     string  `json:"createdAt"`
}

func toProjectJSON(p storage.Project) projectJSON {
	return projectJSON{
		ID:            p.ID,
		Name:          p.Name,
		NameEn:        p.NameEn,
		Description:   p.Description,
		DescriptionEn: p.DescriptionEn,
		Link:          p.Link,
		ImageURL:      optionalString(p.ImageURL),
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *handlers) adminProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listProjects(w, r)
	case http.MethodPost:
		h.createProject(w, r)
	case http.MethodPut:
		h.updateProject(w, r)
	case http.MethodDelete:
		h.deleteProject(w, r)
	default:
		MethodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions)
	}
}

func (h *handlers) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListProjects(r.Context())
	if err != nil {
		writeError(w, r, err, msgListProjectsFailed)
		return
	}
	items := make([]projectJSON, 0, len(projects))
	for _, p := range projects {
		items = append(items, toProjectJSON(p))
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"projects": items})
}

func (h *handlers) createProject(w http.ResponseWriter, r *http.Request) {
	form, err := readProjectForm(w, r)
	if err != nil {
		writeError(w, r, err, msgCreateProjectFailed)
		return
	}
	project, err := h.projects.CreateProject(r.Context(), form.input)
	if err != nil {
		writeError(w, r, err, msgCreateProjectFailed)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"project": toProjectJSON(project)})
}

func (h *handlers) updateProject(w http.ResponseWriter, r *http.Request) {
	form, err := readProjectForm(w, r)
	if err != nil {
		writeError(w, r, err, msgUpdateProjectFailed)
		return
	}
	id, ok := parseID(form.id)
	if !ok {
		_ = WriteJSONError(w, http.StatusBadRequest, app.MsgInvalidID)
		return
	}
	project, err := h.projects.UpdateProject(r.Context(), id, form.input)
	if err != nil {
		writeError(w, r, err, msgUpdateProjectFailed)
		return
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{"project": toProjectJSON(project)})
}

func (h *handlers) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		_ = WriteJSONError(w, http.StatusBadRequest, app.MsgInvalidID)
		return
	}
	if err := h.projects.DeleteProject(r.Context(), id); err != nil {
		writeError(w, r, err, msgDeleteProjectFailed)
		return
	}
	writeOK(w)
}

type projectForm struct {
	id    string
	input app.ProjectInput
}

type projectJSONBody struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	Link        string      `json:"link"`
	Description string      `json:"description"`
}

// readProjectForm accepts multipart forms (with an optional "image" file)
// and JSON bodies.
func readProjectForm(w http.ResponseWriter, r *http.Request) (projectForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProjectBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return readMultipartProject(r)
	}

	var body projectJSONBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return projectForm{}, apperrors.Validation(msgInvalidBody)
	}
	return projectForm{
		id: body.ID.String(),
		input: app.ProjectInput{
			Name:        body.Name,
			Link:        body.Link,
			Description: body.Description,
		},
	}, nil
}

func readMultipartProject(r *http.Request) (projectForm, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return projectForm{}, apperrors.Validation(app.MsgImageTooLarge)
		}
		return projectForm{}, apperrors.Validation(msgInvalidBody)
	}
	form := projectForm{
		id: r.FormValue("id"),
		input: app.ProjectInput{
			Name:        r.FormValue("name"),
			Link:        r.FormValue("link"),
			Description: r.FormValue("description"),
		},
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return form, nil
	case err != nil:
		return projectForm{}, apperrors.Validation(msgInvalidBody)
	}
	defer file.Close()
	if header.Size == 0 {
		return form, nil
	}
	image, err := readImage(file, header)
	if err != nil {
		return projectForm{}, err
	}
	form.input.Image = image
	return form, nil
}

// readImage reads at most one byte past the limit so oversize files are
// detected without buffering them whole.
func readImage(file multipart.File, header *multipart.FileHeader) (*app.ImageUpload, error) {
	data, err := io.ReadAll(io.LimitReader(file, uploads.MaxImageBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, msgInvalidBody, err)
	}
	return &app.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
