package server

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// privilegedHeader carries the host application's permission flag. It only
// gates whether mutations are offered here; real authorization lives with
// the persistence layer, not this core.
const privilegedHeader = "X-Planmark-Privileged"

func requestTimeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.Infof("request time: %v %v: %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func requirePrivileged(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(privilegedHeader) != "true" {
			http.Error(w, "mutation not permitted", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
