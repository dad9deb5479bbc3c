package handler

import (
	"bookpay/config"
	"bookpay/di"
	"bookpay/shared/logger"
	"net/http"
	"sync"
)

var (
	app  *di.App
	once sync.Once
)

// Handler is the serverless entrypoint. Connections are opened once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		app = di.InitializeService()
	})

	app.HTTP.Handler().ServeHTTP(w, r)
}
