package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation - must be registered first
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics.Registry(), promhttp.HandlerOpts{}))

	// Extraction endpoints spend model credits
	mux.HandleFunc("/api/parse", rateLimited(a.parseRate, a.ParseHandler))
	mux.HandleFunc("/api/parse/file", rateLimited(a.parseRate, a.ParseFileHandler))

	// Documents
	mux.HandleFunc("/api/generate-docx", a.GenerateHandler)
	mux.HandleFunc("/api/offer-preview", a.PreviewHandler)
	mux.HandleFunc("/api/templates", a.TemplatesHandler)

	// Signatures
	mux.HandleFunc("/api/submit-signature", a.SubmitSignatureHandler)
	mux.HandleFunc("/api/signed-offer/{id}", a.SignedOfferHandler)

	return loggingMiddleware(mux)
}
