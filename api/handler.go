package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adeilh/go-stash/cache"
)

type handler struct {
	store cache.Store
}

func (h *handler) register(e *echo.Echo) {
	e.POST("/save", h.save)
	e.POST("/get", h.fetch)
	e.POST("/clear", h.clear)
	e.GET("/keys", h.keys)
	e.GET("/healthz", h.health)
}

func (h *handler) ensureSweeper(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h.store.StartSweeper()
		return next(c)
	}
}

// save stores the entire request body verbatim under ?cacheKey=<key>.
func (h *handler) save(c echo.Context) error {
	key := c.QueryParam("cacheKey")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "cacheKey query parameter is required")
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	if len(payload) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Request body is empty")
	}

	created, err := h.store.Put(c.Request().Context(), key, payload)
	if err != nil {
		return storeError(err)
	}
	if created {
		c.Logger().Debugf("cache entry created: %s", key)
	} else {
		c.Logger().Debugf("cache entry replaced: %s", key)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":  "Cache saved successfully",
		"cacheKey": key,
	})
}

// fetch returns a cached payload. The stored bytes are served as JSON when
// they parse as JSON, otherwise as plain text.
func (h *handler) fetch(c echo.Context) error {
	key, ok := bodyKey(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "No JSON data provided")
	}
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "cacheKey is required")
	}

	payload, err := h.store.Get(c.Request().Context(), key)
	if err != nil {
		return storeError(err)
	}

	if json.Valid(payload) {
		return c.JSONBlob(http.StatusOK, payload)
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, payload)
}

// clear removes one entry when the body names a cacheKey, otherwise the
// whole store.
func (h *handler) clear(c echo.Context) error {
	key, ok := bodyKey(c)
	if !ok || key == "" {
		removed, err := h.store.ClearAll(c.Request().Context())
		if err != nil {
			return storeError(err)
		}
		c.Logger().Infof("cache cleared, %d entries removed", removed)
		return c.JSON(http.StatusOK, map[string]any{
			"message": "All cache cleared successfully",
		})
	}

	if err := h.store.Delete(c.Request().Context(), key); err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":  "Cache cleared successfully",
		"cacheKey": key,
	})
}

func (h *handler) keys(c echo.Context) error {
	keys, err := h.store.Keys(c.Request().Context())
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"keys":  keys,
		"count": len(keys),
	})
}

func (h *handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type keyRequest struct {
	CacheKey string `json:"cacheKey"`
}

// bodyKey extracts cacheKey from the request body, parsed as JSON regardless
// of the declared Content-Type. ok is false when the body holds no JSON.
func bodyKey(c echo.Context) (key string, ok bool) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return "", false
	}
	var req keyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", false
	}
	return req.CacheKey, true
}

func storeError(err error) error {
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Cache key not found")
	case errors.Is(err, cache.ErrEmptyKey):
		return echo.NewHTTPError(http.StatusBadRequest, "cacheKey is required")
	case errors.Is(err, cache.ErrEmptyPayload):
		return echo.NewHTTPError(http.StatusBadRequest, "Request body is empty")
	default:
		return err
	}
}
