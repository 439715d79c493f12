package main

import "C"
import (
	"bytes"
	"io"
	"net/http/httptest"

	"github.com/gorilla/rpc"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shlapabank/dashboard-go/internal/logging"
	"github.com/shlapabank/dashboard-go/pkg/config"
	"github.com/shlapabank/dashboard-go/pkg/session"
)

var (
	globalRPCServer *rpc.Server
	globalService   *session.DashboardService
)

// DashboardInitializeRPC loads the configuration (an empty path uses the
// default location) and prepares the RPC server. The engine itself is
// created by the dashboard.Start call.
//
//export DashboardInitializeRPC
func DashboardInitializeRPC(configPath *C.char) *C.char {
	defer logPanic()

	if globalRPCServer != nil {
		return marshalError(errors.New("RPC server already initialized"))
	}

	cfg, err := config.Load(config.NewViper(), C.GoString(configPath))
	if err != nil {
		return marshalError(err)
	}

	logger, err := logging.New(logging.Options{Enabled: cfg.Log.Enabled, File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return marshalError(errors.Wrap(err, "failed to initialize log"))
	}
	zap.ReplaceGlobals(logger)
	zap.L().Info("DashboardInitializeRPC - start")

	svc := session.NewDashboardService(cfg, session.WithLogger(logger))
	rpcServer, err := session.CreateRPCServer(svc)
	if err != nil {
		return marshalError(err)
	}
	globalService = svc
	globalRPCServer = rpcServer

	zap.L().Info("DashboardInitializeRPC - ok")
	return marshalError(nil)
}

//export DashboardCallRPC
func DashboardCallRPC(payload *C.char) *C.char {
	defer logPanic()

	if globalRPCServer == nil {
		return marshalError(errors.New("RPC server not initialized"))
	}

	payloadBytes := []byte(C.GoString(payload))
	zap.L().Debug("calling RPC", zap.Int("size", len(payloadBytes)))

	req := httptest.NewRequest("POST", "/rpc", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	globalRPCServer.ServeHTTP(rr, req)

	resp := rr.Result()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return marshalError(errors.Wrap(err, "internal error reading response body"))
	}
	return C.CString(string(body))
}

// DashboardShutdown stops a started engine and forgets the RPC server.
//
//export DashboardShutdown
func DashboardShutdown() *C.char {
	defer logPanic()

	if globalService != nil && globalService.Started() {
		if err := globalService.Stop(&struct{}{}, &struct{}{}); err != nil {
			return marshalError(err)
		}
	}
	globalService = nil
	globalRPCServer = nil
	_ = zap.L().Sync()
	return marshalError(nil)
}
