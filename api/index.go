package handler

import (
	"guesthouse/di"
	"guesthouse/helper"
	"net/http"
	"sync"
)

var (
	server http.Handler
	once   sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		helper.Bootstrap()

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
