package api

import (
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// parseID extracts an integer URL parameter.
func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.InvalidArgumentf("%s must be a positive integer", param)
	}
	return id, nil
}

// maxPageLimit caps the page size an HTTP caller may request. The cap
// is a transport concern; the store accepts any positive limit.
const maxPageLimit = 1000

// parseWindow reads offset/limit query parameters into a window.
// Absent parameters fall back to the defaults; range errors below the
// cap are left for Window.Validate so every caller rejects them
// identically.
func parseWindow(r *http.Request) (store.Window, error) {
	w := store.DefaultWindow()

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return w, domainerrors.InvalidArgument("offset must be an integer")
		}
		w.Offset = offset
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return w, domainerrors.InvalidArgument("limit must be an integer")
		}
		if limit > maxPageLimit {
			return w, domainerrors.InvalidArgumentf("limit must not exceed %d", maxPageLimit)
		}
		w.Limit = limit
	}

	return w, nil
}

// parseIncludeDeleted reads the include_deleted query flag. The flag is
// only parsed here; whether the caller may use it is the service's
// decision.
func parseIncludeDeleted(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("include_deleted")
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domainerrors.InvalidArgument("include_deleted must be a boolean")
	}
	return v, nil
}

// clientKey derives the throttling key for a request: the client IP
// without the port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
