package location

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ecoexplorer/core/internal/models"
	"github.com/ecoexplorer/core/internal/modules/storage/images"
	"github.com/ecoexplorer/core/internal/modules/storage/records"
	"github.com/ecoexplorer/core/internal/pkg/pagination"
	"github.com/ecoexplorer/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultRelatedLimit = 4
	maxRelatedLimit     = 20
	multipartOverhead   = 1 << 20
)

type Handler struct {
	lifecycle  *Lifecycle
	projection *Projection
	images     images.Store
	reconciler *Reconciler
	pageSize   int
	maxUpload  int64
	logger     *zap.Logger
}

// HandlerConfig carries the request limits.
type HandlerConfig struct {
	PageSize       int
	MaxUploadBytes int64
}

// NewHandler wires the HTTP surface; reconciler may be nil.
func NewHandler(l *Lifecycle, p *Projection, imgs images.Store, rec *Reconciler, cfg HandlerConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	return &Handler{
		lifecycle:  l,
		projection: p,
		images:     imgs,
		reconciler: rec,
		pageSize:   cfg.PageSize,
		maxUpload:  cfg.MaxUploadBytes,
		logger:     logger.Named("LocationHandler"),
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/locations")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/related", h.related)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
	a.POST("/reconcile", h.reconcile)

	rg.POST("/adminupload", authMW, h.adminUpload)
	rg.DELETE("/delete-location", authMW, h.deleteLegacy)
	rg.POST("/update-location", authMW, h.updateLegacy)
}

func (h *Handler) view(loc models.Location, withHTML bool) View {
	v := View{Location: loc}
	if loc.HasImage() && images.ValidName(loc.CustomFilename) {
		v.ImageURL = h.images.URL(loc.CustomFilename)
	}
	if withHTML {
		v.DescriptionHTML = renderDescription(loc.Description)
	}
	return v
}

func (h *Handler) views(items []models.Location) []View {
	out := make([]View, len(items))
	for i, loc := range items {
		out[i] = h.view(loc, false)
	}
	return out
}

// GET /locations?q=&tag=&sort=&page=&size=
func (h *Handler) list(c *gin.Context) {
	if err := h.projection.EnsureFresh(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	pq := pagination.FromContext(c, h.pageSize)
	search := c.Query("q")
	if search == "" {
		search = c.Query("search")
	}
	items, pag := h.projection.Query(Query{
		Search: search,
		Tag:    c.Query("tag"),
		Sort:   c.Query("sort"),
		Page:   pq.Page,
		Size:   pq.Size,
	})
	response.Paged(c, h.views(items), pag)
}

// GET /locations/:id
func (h *Handler) get(c *gin.Context) {
	if err := h.projection.EnsureFresh(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	loc, ok := h.projection.Get(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "Place not found")
		return
	}
	response.OK(c, h.view(loc, true))
}

// GET /locations/:id/related?limit=
func (h *Handler) related(c *gin.Context) {
	if err := h.projection.EnsureFresh(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	id := c.Param("id")
	if _, ok := h.projection.Get(id); !ok {
		response.NotFoundMsg(c, "Place not found")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRelatedLimit)))
	if err != nil || limit < 1 {
		limit = defaultRelatedLimit
	}
	if limit > maxRelatedLimit {
		limit = maxRelatedLimit
	}
	response.OK(c, h.views(h.projection.Related(id, limit)))
}

// POST /locations (multipart)
func (h *Handler) create(c *gin.Context) {
	file, ok := h.readUpload(c)
	if !ok {
		return
	}
	var form createForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	loc, err := h.lifecycle.Create(c.Request.Context(), Fields{
		LocationName: &form.LocationName,
		Description:  &form.Description,
		Tags:         &form.Tags,
		Credit:       &form.Credit,
		District:     &form.District,
	}, file)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, h.view(loc, false))
}

// PUT /locations/:id (multipart, file optional)
func (h *Handler) update(c *gin.Context) {
	file, ok := h.readUpload(c)
	if !ok {
		return
	}
	loc, err := h.lifecycle.Update(c.Request.Context(), c.Param("id"), formFields(c), file)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, h.view(loc, false))
}

// DELETE /locations/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.lifecycle.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

// POST /locations/reconcile
func (h *Handler) reconcile(c *gin.Context) {
	if h.reconciler == nil {
		response.BadRequest(c, "reconciliation is disabled")
		return
	}
	removed, err := h.reconciler.Sweep(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}

// POST /adminupload (multipart: file, customFilename)
func (h *Handler) adminUpload(c *gin.Context) {
	file, ok := h.readUpload(c)
	if !ok {
		return
	}
	url, err := h.lifecycle.PutImage(c.Request.Context(), c.PostForm("customFilename"), file)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"imageUrl": url, "message": "Image uploaded successfully"})
}

// DELETE /delete-location {id?, customFilename?}
func (h *Handler) deleteLegacy(c *gin.Context) {
	var dto deleteLegacyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}
	if err := h.lifecycle.Delete(c.Request.Context(), dto.ID, dto.CustomFilename); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

// POST /update-location {id, ...fields}
func (h *Handler) updateLegacy(c *gin.Context) {
	var dto updateLegacyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}
	if _, err := h.lifecycle.Patch(c.Request.Context(), dto.ID, dto.Patch); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

// readUpload returns the optional "file" part. It writes the error
// response itself and reports false when the request must stop.
func (h *Handler) readUpload(c *gin.Context) (*Upload, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)

	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, true
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
			return nil, false
		}
		response.BadRequest(c, err.Error())
		return nil, false
	}
	if fh.Size > h.maxUpload {
		response.Fail(c, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, err)
		return nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		response.InternalError(c, err)
		return nil, false
	}
	if int64(len(data)) > h.maxUpload {
		response.Fail(c, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return nil, false
	}
	return &Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, true
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("file exceeds %d MB", h.maxUpload>>20)
}

// formFields reads only the form fields that were sent.
func formFields(c *gin.Context) Fields {
	get := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
		return nil
	}
	return Fields{
		LocationName: get("locationName"),
		Description:  get("description"),
		Tags:         get("tags"),
		Credit:       get("credit"),
		District:     get("district"),
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, records.ErrNotFound):
		response.NotFoundMsg(c, err.Error())
	default:
		var opErr *OpError
		if errors.As(err, &opErr) {
			h.logger.Error("location operation failed", zap.String("op", opErr.Op), zap.Error(err))
		}
		response.Fail(c, http.StatusInternalServerError, strings.TrimSpace(err.Error()))
	}
}
