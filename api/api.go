// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/incentive/api/contracts"
	"github.com/vechain/incentive/api/middleware"
	"github.com/vechain/incentive/api/node"
	"github.com/vechain/incentive/log"
	"github.com/vechain/incentive/runtime"
	"github.com/vechain/incentive/thor"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger bool
	SlowQueries     time.Duration
	EnableMetrics   bool
	// CallRate limits state changing calls per client and second. Zero disables it.
	CallRate  float64
	CallBurst int
}

// New return api router
func New(rt *runtime.Runtime, genesis thor.Bytes32, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	contracts.New(rt).
		Mount(router, "/contracts")
	node.New(rt, genesis).
		Mount(router, "/node")

	if opts.EnableMetrics {
		router.Use(middleware.Metrics)
	}
	if opts.CallRate > 0 {
		burst := opts.CallBurst
		if burst < 1 {
			burst = 1
		}
		router.Use(middleware.NewRateLimiter(opts.CallRate, burst).Handler)
	}
	router.Use(middleware.RequestLogger(logger, opts.EnableReqLogger, opts.SlowQueries))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP
}
