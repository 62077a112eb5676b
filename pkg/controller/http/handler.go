package http

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ceplookup/pkg/domain/interfaces"
	"github.com/m-mizutani/ceplookup/pkg/domain/model"
	"github.com/m-mizutani/ceplookup/pkg/domain/types"
	"github.com/m-mizutani/ceplookup/pkg/infra/xlsx"
	"github.com/m-mizutani/ceplookup/pkg/utils/errutil"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	uploadField = "file"

	// statusClientClosedRequest is answered when the client disconnects
	// before the batch completes
	statusClientClosedRequest = 499

	rateLimitedMessage = "Muitas consultas em pouco tempo. Aguarde alguns segundos e tente novamente."
)

var (
	errMissingCEP  = goerr.New("postal code is required")
	errMissingFile = goerr.New("workbook upload is required")
	errNotXLSX     = goerr.New("only .xlsx workbooks are accepted")
	errTooLarge    = goerr.New("upload is too large")
)

// Handler serves the form UI, downloads and JSON API
type Handler struct {
	lookupUC       interfaces.LookupUseCase
	batchUC        interfaces.BatchUseCase
	uploadMaxBytes int64
	page           *template.Template
}

// NewHandler creates a new Handler
func NewHandler(lookupUC interfaces.LookupUseCase, batchUC interfaces.BatchUseCase, uploadMaxBytes int64) (*Handler, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse page template")
	}

	return &Handler{
		lookupUC:       lookupUC,
		batchUC:        batchUC,
		uploadMaxBytes: uploadMaxBytes,
		page:           page,
	}, nil
}

// pageData is rendered by templates/index.html. Each request renders from
// scratch, nothing is kept between interactions.
type pageData struct {
	Version string

	CEP           string
	Single        *model.LookupResult
	SingleWarning string

	Report       *model.BatchReport
	ReportURL    template.URL
	ReportName   string
	BatchWarning string
	BatchError   string
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data *pageData, status int) {
	data.Version = types.Version

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		errutil.Handle(r.Context(), "Failed to render page", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		ctxlog.From(r.Context()).Warn("Failed to write page", "error", err)
	}
}

// Index renders the empty form page
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, &pageData{}, http.StatusOK)
}

// Lookup handles the single lookup form
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	cep, err := formCEP(r)
	if err != nil {
		h.render(w, r, &pageData{SingleWarning: "Digite um CEP válido antes de consultar."}, http.StatusOK)
		return
	}

	result := h.lookupUC.LookupCEP(r.Context(), cep)

	data := &pageData{CEP: cep.String(), Single: result}
	if !result.Found {
		data.SingleWarning = "CEP não encontrado ou inválido."
	}
	h.render(w, r, data, http.StatusOK)
}

// LookupRateLimited renders the form with a warning instead of running the lookup
func (h *Handler) LookupRateLimited(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, &pageData{
		CEP:           strings.TrimSpace(r.FormValue("cep")),
		SingleWarning: rateLimitedMessage,
	}, http.StatusTooManyRequests)
}

// LookupExport returns a single lookup result as a workbook attachment
func (h *Handler) LookupExport(w http.ResponseWriter, r *http.Request) {
	cep, err := formCEP(r)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.WriteResult(&buf, h.lookupUC.LookupCEP(r.Context(), cep)); err != nil {
		errutil.Handle(r.Context(), "Failed to export lookup result", err)
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeAttachment(w, r, xlsx.ResultFileName, buf.Bytes())
}

// Batch handles the workbook upload form
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	report, status, err := h.processUpload(w, r)
	if err != nil {
		h.render(w, r, &pageData{BatchError: batchErrorMessage(err)}, status)
		return
	}

	if report.Empty() {
		h.render(w, r, &pageData{BatchWarning: "Nenhum CEP válido foi encontrado. Verifique sua planilha."}, http.StatusOK)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.WriteReport(&buf, report); err != nil {
		errutil.Handle(r.Context(), "Failed to export batch report", err)
		h.render(w, r, &pageData{Report: report, BatchError: "Não foi possível gerar a planilha de resultados."}, http.StatusOK)
		return
	}

	h.render(w, r, &pageData{
		Report:     report,
		ReportURL:  template.URL("data:" + xlsx.ContentType + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes())),
		ReportName: xlsx.ResultFileName,
	}, http.StatusOK)
}

// BatchRateLimited renders the form with an error instead of reading the upload
func (h *Handler) BatchRateLimited(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, &pageData{BatchError: rateLimitedMessage}, http.StatusTooManyRequests)
}

// BatchExport processes an uploaded workbook and returns the results workbook
func (h *Handler) BatchExport(w http.ResponseWriter, r *http.Request) {
	report, status, err := h.processUpload(w, r)
	if err != nil {
		writeError(w, r, err, status)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.WriteReport(&buf, report); err != nil {
		if errors.Is(err, model.ErrEmptyReport) {
			writeError(w, r, err, http.StatusUnprocessableEntity)
			return
		}
		errutil.Handle(r.Context(), "Failed to export batch report", err)
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeAttachment(w, r, xlsx.ResultFileName, buf.Bytes())
}

// Template returns the example input workbook
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := xlsx.WriteTemplate(&buf); err != nil {
		errutil.Handle(r.Context(), "Failed to generate template", err)
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeAttachment(w, r, xlsx.TemplateFileName, buf.Bytes())
}

// APILookup returns a lookup result as JSON, 404 when the code is not found
func (h *Handler) APILookup(w http.ResponseWriter, r *http.Request) {
	result := h.lookupUC.LookupCEP(r.Context(), model.CEP(chi.URLParam(r, "cep")))

	status := http.StatusOK
	if !result.Found {
		status = http.StatusNotFound
	}
	writeJSON(w, r, result, status)
}

// APIBatchRequest is the body of POST /api/batch
type APIBatchRequest struct {
	CEPs []model.CEP `json:"ceps"`
}

// APIBatch looks up a JSON list of codes and returns the batch report
func (h *Handler) APIBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)
	defer r.Body.Close()

	var req APIBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, errTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	report, err := h.batchUC.ProcessBatch(r.Context(), req.CEPs)
	if err != nil {
		if errors.Is(err, model.ErrTooManyCodes) {
			writeError(w, r, err, http.StatusRequestEntityTooLarge)
			return
		}
		if clientGone(r, err) {
			ctxlog.From(r.Context()).Info("Batch canceled by client", "error", err)
			writeError(w, r, err, statusClientClosedRequest)
			return
		}
		errutil.Handle(r.Context(), "Failed to process batch", err)
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, report, http.StatusOK)
}

// processUpload reads the uploaded workbook and runs the batch. On failure it
// returns the HTTP status matching the error.
func (h *Handler) processUpload(w http.ResponseWriter, r *http.Request) (*model.BatchReport, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)

	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, http.StatusRequestEntityTooLarge, errTooLarge
		}
		return nil, http.StatusBadRequest, goerr.Wrap(errMissingFile, err.Error())
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, http.StatusBadRequest, errMissingFile
	}
	defer file.Close()

	if !isXLSX(header) {
		return nil, http.StatusUnsupportedMediaType, goerr.Wrap(errNotXLSX, "rejected upload", goerr.V("filename", header.Filename))
	}

	codes, err := xlsx.ReadCodes(file)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}

	ctxlog.From(r.Context()).Info("Workbook uploaded",
		"filename", header.Filename,
		"size", header.Size,
		"codes", len(codes),
	)

	report, err := h.batchUC.ProcessBatch(r.Context(), codes)
	if err != nil {
		if errors.Is(err, model.ErrTooManyCodes) {
			return nil, http.StatusRequestEntityTooLarge, err
		}
		if clientGone(r, err) {
			ctxlog.From(r.Context()).Info("Batch canceled by client", "error", err)
			return nil, statusClientClosedRequest, err
		}
		errutil.Handle(r.Context(), "Failed to process batch", err)
		return nil, http.StatusInternalServerError, err
	}

	return report, http.StatusOK, nil
}

// clientGone reports whether err results from the request context being
// canceled, which happens when the client disconnects
func clientGone(r *http.Request, err error) bool {
	return errors.Is(err, context.Canceled) && r.Context().Err() != nil
}

func isXLSX(header *multipart.FileHeader) bool {
	return strings.EqualFold(filepath.Ext(header.Filename), ".xlsx")
}

func formCEP(r *http.Request) (model.CEP, error) {
	cep := model.CEP(strings.TrimSpace(r.FormValue("cep")))
	if cep.Normalize() == "" {
		return "", errMissingCEP
	}
	return cep, nil
}

// batchErrorMessage translates upload errors into messages for the form page
func batchErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrSheetNotFound):
		return "A planilha precisa ter uma aba chamada CEP."
	case errors.Is(err, model.ErrColumnNotFound):
		return "A aba CEP precisa ter uma coluna chamada CEP."
	case errors.Is(err, model.ErrTooManyCodes):
		return "A planilha tem CEPs demais para uma única consulta. Divida-a em planilhas menores."
	case errors.Is(err, errNotXLSX):
		return "Envie uma planilha no formato .xlsx."
	case errors.Is(err, errMissingFile):
		return "Selecione uma planilha para enviar."
	case errors.Is(err, errTooLarge):
		return "A planilha enviada é grande demais."
	default:
		return "Não foi possível ler a planilha. Verifique se ela está no formato indicado."
	}
}

func writeAttachment(w http.ResponseWriter, r *http.Request, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		ctxlog.From(r.Context()).Warn("Failed to write attachment", "error", err, "filename", filename)
	}
}
