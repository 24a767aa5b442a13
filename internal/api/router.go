package api

import (
	"log/slog"
	"net/http"
	"trip-route-service/internal/api/handlers"
	"trip-route-service/internal/services"

	"github.com/julienschmidt/httprouter"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Session     *services.Session
	Resolver    *services.PlaceResolver
	Logger      *slog.Logger
	IndexPage   []byte
	Provider    string
	CORSOrigins []string
	Compression CompressionConfig
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Compression == (CompressionConfig{}) {
		deps.Compression = DefaultCompressionConfig()
	}

	health := handlers.NewHealthHandler(deps.Provider)
	index := &handlers.IndexHandler{Page: deps.IndexPage}
	places := &handlers.PlaceHandler{Session: deps.Session, Resolver: deps.Resolver}
	route := &handlers.RouteHandler{Session: deps.Session}

	router := httprouter.New()
	router.PanicHandler = recoverPanic

	router.HandlerFunc(http.MethodGet, "/", index.Serve)
	router.HandlerFunc(http.MethodGet, "/health", health.Serve)

	router.HandlerFunc(http.MethodGet, "/places", places.List)
	router.HandlerFunc(http.MethodPost, "/places", places.Add)
	router.HandlerFunc(http.MethodDelete, "/places", places.Clear)
	router.HandlerFunc(http.MethodDelete, "/places/:id", places.Remove)

	router.HandlerFunc(http.MethodPut, "/mode", route.SetMode)
	router.HandlerFunc(http.MethodPost, "/route", route.Calculate)
	router.HandlerFunc(http.MethodGet, "/route", route.Get)
	router.HandlerFunc(http.MethodGet, "/route.geojson", route.GeoJSON)

	var h http.Handler = router
	h = compressionMiddleware(deps.Compression)(h)
	h = corsMiddleware(deps.CORSOrigins)(h)
	h = loggingMiddleware(h)
	h = requestIDMiddleware(deps.Logger)(h)
	return h
}
