package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/travelx/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
	delay   time.Duration
	logger  *slog.Logger
}

// NewCatalogHandler serves destinations and packages. Each response is
// held back by delay to mimic a slow backend.
func NewCatalogHandler(c *catalog.Catalog, delay time.Duration, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, delay: delay, logger: logger}
}

// wait blocks for the configured delay. It returns false if the client went
// away first.
func (h *CatalogHandler) wait(ctx context.Context) bool {
	if h.delay <= 0 {
		return true
	}
	t := time.NewTimer(h.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		h.logger.DebugContext(ctx, "catalog request abandoned", "error", ctx.Err())
		return false
	}
}

func (h *CatalogHandler) ListDestinations(w http.ResponseWriter, r *http.Request) {
	f, err := catalog.ParseFilter(r.URL.Query())
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid filter")
		return
	}
	if !h.wait(r.Context()) {
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Destinations(f))
}

func (h *CatalogHandler) GetDestination(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if !h.wait(r.Context()) {
		return
	}
	d, ok := h.catalog.Destination(id)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Destination not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *CatalogHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	f, err := catalog.ParseFilter(r.URL.Query())
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid filter")
		return
	}
	if !h.wait(r.Context()) {
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Packages(f))
}

func (h *CatalogHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if !h.wait(r.Context()) {
		return
	}
	p, ok := h.catalog.Package(id)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Package not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
