// Command serve exposes the data directory and discovery index over HTTP for
// local inspection of pipeline output.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/maplumi/ipc-areas/internal/dataset"
	"github.com/maplumi/ipc-areas/internal/logger"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "IPC areas preview server is up!")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Preview data is public; any local tool may read it.
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.L().Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func main() {
	_ = godotenv.Load(".env.local")

	dataDir := "data"
	if v := os.Getenv("DATA_DIR"); v != "" {
		dataDir = v
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	store := dataset.NewStore(dataDir)

	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Use(logMiddleware)
	r.Get("/", RootHandler)
	r.Get("/index.json", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, store.IndexPath())
	})
	r.Handle("/data/*", http.StripPrefix("/data/", http.FileServer(http.Dir(dataDir))))

	fmt.Printf("Preview server listening on port :%s...\n", port)
	if err := http.ListenAndServe("0.0.0.0:"+port, r); err != nil {
		logger.Error("serve", "listen", err)
		os.Exit(1)
	}
}
