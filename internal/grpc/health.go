// Package grpc hosts the internal ops endpoint: the standard gRPC health
// service, reporting SERVING while the database answers pings.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"marketplace-service/internal/observability"
)

// ServiceName is the health service entry reported alongside the overall status.
const ServiceName = "marketplace.Marketplace"

// Pinger checks that a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// OpsServer serves grpc.health.v1 on the ops port.
type OpsServer struct {
	server *gogrpc.Server
	health *health.Server
	logger logrus.FieldLogger
}

func NewOpsServer(logger logrus.FieldLogger) *OpsServer {
	srv := gogrpc.NewServer(
		gogrpc.StatsHandler(otelgrpc.NewServerHandler()),
		gogrpc.ChainUnaryInterceptor(observability.GRPCServerMetricsUnaryInterceptor()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	o := &OpsServer{server: srv, health: hs, logger: logger}
	o.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return o
}

func (o *OpsServer) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	o.health.SetServingStatus("", status)
	o.health.SetServingStatus(ServiceName, status)
}

// Serve blocks serving on lis until Stop.
func (o *OpsServer) Serve(lis net.Listener) error {
	return o.server.Serve(lis)
}

// WatchDatabase pings db every interval and mirrors the result into the
// health status until ctx is done.
func (o *OpsServer) WatchDatabase(ctx context.Context, db Pinger, interval time.Duration) {
	serving := false
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := db.PingContext(pingCtx)
		cancel()

		switch {
		case err == nil && !serving:
			o.setStatus(healthpb.HealthCheckResponse_SERVING)
			o.logger.Info("database reachable, health SERVING")
		case err != nil && serving:
			o.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
			o.logger.WithError(err).Warn("database unreachable, health NOT_SERVING")
		}
		serving = err == nil
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// Stop marks the service down and drains in-flight RPCs.
func (o *OpsServer) Stop() {
	o.health.Shutdown()
	o.server.GracefulStop()
}
