package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mnasrulloh/portfolio/internal/platform/locale"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/app"
	"github.com/mnasrulloh/portfolio/internal/services/portfolio/content"
)

const (
	msgLoadContentFailed = "Gagal memuat konten."
	msgSaveContentFailed = "Gagal menyimpan konten."
	maxContentBody       = 1 << 20
)

type publicProjectJSON struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Link        string  `json:"link"`
	ImageURL    *string `json:"imageUrl"`
}

type publicContentJSON struct {
	Content  map[string]content.Value       `json:"content"`
	Projects map[string][]publicProjectJSON `json:"projects"`
}

func (h *handlers) publicContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowed(w, http.MethodGet)
		return
	}
	view, err := h.content.PublicContent(r.Context())
	if err != nil {
		writeError(w, r, err, msgLoadContentFailed)
		return
	}
	if tag, ok := locale.FromRequest(r); ok {
		view = view.Narrow(tag)
	}
	_ = WriteJSON(w, http.StatusOK, toPublicContentJSON(view))
}

func toPublicContentJSON(view app.PublicView) publicContentJSON {
	out := publicContentJSON{
		Content:  view.Content,
		Projects: make(map[string][]publicProjectJSON, len(view.Projects)),
	}
	for key, projects := range view.Projects {
		items := make([]publicProjectJSON, 0, len(projects))
		for _, p := range projects {
			items = append(items, publicProjectJSON{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Link:        p.Link,
				ImageURL:    optionalString(p.ImageURL),
			})
		}
		out.Projects[key] = items
	}
	return out
}

type contentBody struct {
	Content *content.Value `json:"content"`
}

func (h *handlers) adminContent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		doc, err := h.content.GetContent(r.Context())
		if err != nil {
			writeError(w, r, err, msgLoadContentFailed)
			return
		}
		_ = WriteJSON(w, http.StatusOK, contentBody{Content: &doc.Source})
	case http.MethodPut:
		var body contentBody
		r.Body = http.MaxBytesReader(w, r.Body, maxContentBody)
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			_ = WriteJSONError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		source := content.Null()
		if body.Content != nil {
			source = *body.Content
		}
		doc, err := h.content.SaveContent(r.Context(), source)
		if err != nil {
			writeError(w, r, err, msgSaveContentFailed)
			return
		}
		_ = WriteJSON(w, http.StatusOK, contentBody{Content: &doc.Source})
	default:
		MethodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
