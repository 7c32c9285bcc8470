// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/periodic-table/internal/store"
	"github.com/pdiddy/periodic-table/pkg/types"
)

// Repository is the storage the handlers serve. *store.Store implements it.
type Repository interface {
	ListElements(ctx context.Context, f store.ElementFilter) ([]types.Element, error)
	GetElement(ctx context.Context, atomicNumber int) (types.Element, error)
	CreateElement(ctx context.Context, e types.Element) (types.Element, error)
	UpdateElement(ctx context.Context, atomicNumber int, e types.Element) (types.Element, error)
	DeleteElement(ctx context.Context, atomicNumber int) error
	IonisationEnergies(ctx context.Context, atomicNumber int) ([]types.IonisationEnergy, error)

	ListIsotopes(ctx context.Context, f store.IsotopeFilter) ([]types.Isotope, error)
	GetIsotope(ctx context.Context, id int64) (types.Isotope, error)
	CreateIsotope(ctx context.Context, iso types.Isotope) (types.Isotope, error)
	UpdateIsotope(ctx context.Context, id int64, iso types.Isotope) (types.Isotope, error)
	DeleteIsotope(ctx context.Context, id int64) error
}

// errBadRequest marks malformed paths, queries and bodies.
var errBadRequest = errors.New("bad request")

// Handler serves the element and isotope resources.
type Handler struct {
	repo Repository
}

// NewHandler creates a Handler backed by repo.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// statusOf maps store errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalid), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	_ = c.Error(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// respond writes v with status, applying any fields= selection.
func respond(c *gin.Context, status int, v any) {
	out, err := project(v, parseFields(c.Query("fields")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, out)
}

func intParam(c *gin.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, c.Param(name))
	}
	return n, nil
}

// optionalInt parses an integer query parameter; absent means nil.
func optionalInt(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, raw)
	}
	return &n, nil
}

func page(c *gin.Context) (limit, offset int, err error) {
	l, err := optionalInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	o, err := optionalInt(c, "offset")
	if err != nil {
		return 0, 0, err
	}
	if l != nil {
		limit = *l
	}
	if o != nil {
		offset = *o
	}
	if limit < 0 || offset < 0 {
		return 0, 0, fmt.Errorf("%w: limit and offset must not be negative", errBadRequest)
	}
	return limit, offset, nil
}

func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// mergeJSON decodes the request body onto v, leaving fields the body does
// not mention untouched.
func mergeJSON(c *gin.Context, v any) error {
	body, err := c.GetRawData()
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListElements handles GET /api/elements.
func (h *Handler) ListElements(c *gin.Context) {
	var (
		f   store.ElementFilter
		err error
	)
	f.Name = c.Query("name")
	f.Symbol = c.Query("symbol")
	if f.AtomicNumber, err = optionalInt(c, "atomic_number"); err != nil {
		respondError(c, err)
		return
	}
	if f.Period, err = optionalInt(c, "period"); err != nil {
		respondError(c, err)
		return
	}
	if f.Group, err = optionalInt(c, "group"); err != nil {
		respondError(c, err)
		return
	}
	if f.Limit, f.Offset, err = page(c); err != nil {
		respondError(c, err)
		return
	}

	elements, err := h.repo.ListElements(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, elements)
}

// CreateElement handles POST /api/elements.
func (h *Handler) CreateElement(c *gin.Context) {
	var e types.Element
	if err := bindJSON(c, &e); err != nil {
		respondError(c, err)
		return
	}
	created, err := h.repo.CreateElement(c.Request.Context(), e)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetElement handles GET /api/elements/:atomic_number.
func (h *Handler) GetElement(c *gin.Context) {
	n, err := intParam(c, "atomic_number")
	if err != nil {
		respondError(c, err)
		return
	}
	e, err := h.repo.GetElement(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, e)
}

// UpdateElement handles PUT /api/elements/:atomic_number.
func (h *Handler) UpdateElement(c *gin.Context) {
	n, err := intParam(c, "atomic_number")
	if err != nil {
		respondError(c, err)
		return
	}
	var e types.Element
	if err := bindJSON(c, &e); err != nil {
		respondError(c, err)
		return
	}
	h.saveElement(c, n, e)
}

// PatchElement handles PATCH /api/elements/:atomic_number by merging the
// body onto the stored element.
func (h *Handler) PatchElement(c *gin.Context) {
	n, err := intParam(c, "atomic_number")
	if err != nil {
		respondError(c, err)
		return
	}
	e, err := h.repo.GetElement(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := mergeJSON(c, &e); err != nil {
		respondError(c, err)
		return
	}
	h.saveElement(c, n, e)
}

func (h *Handler) saveElement(c *gin.Context, n int, e types.Element) {
	updated, err := h.repo.UpdateElement(c.Request.Context(), n, e)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteElement handles DELETE /api/elements/:atomic_number.
func (h *Handler) DeleteElement(c *gin.Context) {
	n, err := intParam(c, "atomic_number")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.repo.DeleteElement(c.Request.Context(), n); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// IonisationEnergies handles GET /api/elements/:atomic_number/ionisation-energies.
func (h *Handler) IonisationEnergies(c *gin.Context) {
	n, err := intParam(c, "atomic_number")
	if err != nil {
		respondError(c, err)
		return
	}
	energies, err := h.repo.IonisationEnergies(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, energies)
}

// ListIsotopes handles GET /api/isotopes.
func (h *Handler) ListIsotopes(c *gin.Context) {
	var (
		f   store.IsotopeFilter
		err error
	)
	f.Isotope = c.Query("isotope")
	f.HalfLife = c.Query("halflife")
	f.Element = c.Query("element")
	if f.YearDiscovered, err = optionalInt(c, "year_discovered"); err != nil {
		respondError(c, err)
		return
	}
	if f.YearDiscoveredGTE, err = optionalInt(c, "year_discovered__gte"); err != nil {
		respondError(c, err)
		return
	}
	if f.YearDiscoveredLTE, err = optionalInt(c, "year_discovered__lte"); err != nil {
		respondError(c, err)
		return
	}
	if f.Limit, f.Offset, err = page(c); err != nil {
		respondError(c, err)
		return
	}

	isotopes, err := h.repo.ListIsotopes(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, isotopes)
}

// CreateIsotope handles POST /api/isotopes.
func (h *Handler) CreateIsotope(c *gin.Context) {
	var iso types.Isotope
	if err := bindJSON(c, &iso); err != nil {
		respondError(c, err)
		return
	}
	created, err := h.repo.CreateIsotope(c.Request.Context(), iso)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func isotopeID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, c.Param("id"))
	}
	return id, nil
}

// GetIsotope handles GET /api/isotopes/:id.
func (h *Handler) GetIsotope(c *gin.Context) {
	id, err := isotopeID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	iso, err := h.repo.GetIsotope(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, iso)
}

// UpdateIsotope handles PUT /api/isotopes/:id.
func (h *Handler) UpdateIsotope(c *gin.Context) {
	id, err := isotopeID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var iso types.Isotope
	if err := bindJSON(c, &iso); err != nil {
		respondError(c, err)
		return
	}
	h.saveIsotope(c, id, iso)
}

// PatchIsotope handles PATCH /api/isotopes/:id.
func (h *Handler) PatchIsotope(c *gin.Context) {
	id, err := isotopeID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	iso, err := h.repo.GetIsotope(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := mergeJSON(c, &iso); err != nil {
		respondError(c, err)
		return
	}
	h.saveIsotope(c, id, iso)
}

func (h *Handler) saveIsotope(c *gin.Context, id int64, iso types.Isotope) {
	updated, err := h.repo.UpdateIsotope(c.Request.Context(), id, iso)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteIsotope handles DELETE /api/isotopes/:id.
func (h *Handler) DeleteIsotope(c *gin.Context) {
	id, err := isotopeID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.repo.DeleteIsotope(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
