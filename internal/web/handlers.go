package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/keydrift/internal/compare"
	"github.com/JonMunkholm/keydrift/internal/core"
	"github.com/JonMunkholm/keydrift/internal/source"
	"github.com/JonMunkholm/keydrift/internal/web/templates"
)

// multipartOverhead is allowed on top of the file size for boundaries and
// the other form fields.
const multipartOverhead = 1 << 20

// respond writes component for HTMX requests and v as JSON otherwise.
func respond(w http.ResponseWriter, r *http.Request, status int, component templ.Component, v any) {
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_ = component.Render(r.Context(), w)
		return
	}
	writeJSON(w, status, v)
}

// pathParam returns the unescaped value of a chi URL parameter.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := sessionID(r)

	st, err := s.service.Status(ctx, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	langs, err := s.service.Languages(ctx, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data := templates.PageData{Status: st, Languages: langs}
	if report, err := s.service.Report(ctx, id); err == nil {
		data.Report = &report
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(data).Render(ctx, w); err != nil {
		s.respondError(w, r, err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.Status(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, templates.StatusPanel(st), st)
}

// uploadedFile extracts the "file" part of a multipart upload capped at the
// configured size.
func (s *Server) uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, source.ErrFileTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingFile) {
			return nil, nil, core.ErrNoFile
		}
		return nil, nil, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, core.ErrNoFile
	}
	if header.Size > maxSize {
		file.Close()
		return nil, nil, source.ErrFileTooLarge
	}
	return file, header, nil
}

type uploadResponse struct {
	File   string      `json:"file"`
	Count  int         `json:"count"`
	Status core.Status `json:"status"`
}

func (s *Server) handleLoadKeys(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, func(id, name string, f io.Reader) (int, error) {
		return s.service.LoadKeys(r.Context(), id, name, f)
	})
}

func (s *Server) handleLoadTable(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, func(id, name string, f io.Reader) (int, error) {
		return s.service.LoadTable(r.Context(), id, name, r.FormValue("sheet"), f)
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, load func(id, name string, f io.Reader) (int, error)) {
	id := sessionID(r)

	file, header, err := s.uploadedFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	n, err := load(id, header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	st, err := s.service.Status(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, templates.StatusPanel(st), uploadResponse{
		File:   header.Filename,
		Count:  n,
		Status: st,
	})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Languages(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, templates.LanguageList(view), view)
}

func (s *Server) handleToggleIgnore(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.ToggleIgnore(r.Context(), sessionID(r), pathParam(r, "column"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, templates.LanguageList(view), view)
}

func (s *Server) handleClearIgnore(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.ClearIgnore(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, templates.LanguageList(view), view)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Compare(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, templates.ReportView(report), report)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Report(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, templates.ReportView(report), report)
}

func (s *Server) handleClearReport(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearReport(r.Context(), sessionID(r)); err != nil {
		s.respondError(w, r, err)
		return
	}
	if isHTMX(r) {
		respond(w, r, http.StatusOK, templates.EmptyReport(), nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Report(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="keydrift-report.csv"`)
	if err := core.WriteReportCSV(w, report); err != nil {
		s.respondError(w, r, err)
	}
}

type ackResponse struct {
	Track        compare.Track `json:"track"`
	Key          string        `json:"key"`
	Acknowledged bool          `json:"acknowledged"`
}

func (s *Server) handleToggleAck(w http.ResponseWriter, r *http.Request) {
	track, err := compare.ParseTrack(pathParam(r, "track"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	key := pathParam(r, "key")

	acked, err := s.service.ToggleAck(r.Context(), sessionID(r), track, key)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		s.renderReport(w, r)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Track: track, Key: key, Acknowledged: acked})
}

func (s *Server) handleClearAcks(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearAcks(r.Context(), sessionID(r)); err != nil {
		s.respondError(w, r, err)
		return
	}
	if isHTMX(r) {
		s.renderReport(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// renderReport re-renders the report partial after an acknowledgement
// change, or the empty placeholder when no report exists.
func (s *Server) renderReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Report(r.Context(), sessionID(r))
	if errors.Is(err, core.ErrNoReport) {
		respond(w, r, http.StatusOK, templates.EmptyReport(), nil)
		return
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, templates.ReportView(report), report)
}
