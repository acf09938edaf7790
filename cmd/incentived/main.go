// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/incentive/admin"
	"github.com/vechain/incentive/api"
	"github.com/vechain/incentive/log"
	"github.com/vechain/incentive/metrics"
	"github.com/vechain/incentive/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "incentived")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "incentived",
		Usage:     "Staking rewards, capped token and treasury escrow service",
		Copyright: "2018 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiCallRateFlag,
			apiCallBurstFlag,
			enableAPILogsFlag,
			apiSlowQueriesFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			callCommand,
			contractsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	db, instanceDir, err := openDB(ctx, gene)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); db.Close() }()

	if err := initState(gene, db); err != nil {
		return err
	}

	rt, err := runtime.New(db, runtime.Options{})
	if err != nil {
		return err
	}

	adminURL := "disabled"
	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := admin.StartServer(ctx.String(adminAddrFlag.Name), logLevel, admin.NewHealth(rt))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		adminURL = url
	}

	handler := api.New(rt, gene.Digest(), api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		SlowQueries:     time.Duration(ctx.Int(apiSlowQueriesFlag.Name)) * time.Millisecond,
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		CallRate:        ctx.Float64(apiCallRateFlag.Name),
		CallBurst:       ctx.Int(apiCallBurstFlag.Name),
	})

	apiListener, err := listen(ctx.String(apiAddrFlag.Name))
	if err != nil {
		return err
	}
	apiSrv := newAPIServer(ctx, handler)

	var (
		metricsSrv      *http.Server
		metricsListener net.Listener
		metricsURL      = "disabled"
	)
	if ctx.Bool(enableMetricsFlag.Name) {
		metricsListener, err = listen(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			apiListener.Close()
			return err
		}
		metricsSrv = newMetricsServer()
		metricsURL = "http://" + metricsListener.Addr().String() + "/metrics"
	}

	printStartupMessage(gene, rt.Head(), instanceDir, "http://"+apiListener.Addr().String()+"/", metricsURL, adminURL)

	g, gctx := errgroup.WithContext(exitSignal)
	g.Go(func() error {
		return serve(apiSrv, apiListener)
	})
	if metricsSrv != nil {
		g.Go(func() error {
			return serve(metricsSrv, metricsListener)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to stop API server", "err", err)
		}
		if metricsSrv != nil {
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to stop metrics server", "err", err)
			}
		}
		return nil
	})
	return g.Wait()
}

func serve(srv *http.Server, listener net.Listener) error {
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
