package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zetanet/southbound/metrics"
	"github.com/zetanet/southbound/model"
	"github.com/zetanet/southbound/routeros"
)

// runRouter resolves the site's router and runs one compound
// operation. A hard-failed step counts as failure even when the
// operation itself returned no error: deprovision keeps going past
// failed deletes and reports them per step.
func (o *Orchestrator) runRouter(site *model.Site, conn *model.Connection, op string, run func(r routerOps) (*routeros.OpResult, error)) *Result {
	start := time.Now()

	fields := []zap.Field{
		zap.String("site", site.Name),
		zap.String("op", op),
		zap.Int("connection", conn.ID),
	}

	cfg, err := o.resolver.RouterFor(site)
	if err != nil {
		o.log.Warn("router unavailable", append(fields, zap.Error(err))...)
		metrics.ObserveDeviceOp("router", op, StatusError, time.Since(start))
		return errorResult(err)
	}

	res, err := run(o.newRouter(cfg))
	switch {
	case err != nil:
		o.log.Warn("router operation failed", append(fields, zap.Error(err))...)
		metrics.ObserveDeviceOp("router", op, StatusError, time.Since(start))
		return errorResult(err).withDetail("result", res)
	case !res.OK():
		failed := res.Failed()
		o.log.Warn("router operation left failed steps",
			append(fields, zap.Int("failed_steps", len(failed)))...)
		metrics.ObserveDeviceOp("router", op, StatusError, time.Since(start))
		r := errorResult(fmt.Errorf("%d of %d steps failed", len(failed), len(res.Steps)))
		return r.withDetail("result", res)
	default:
		o.log.Info("router operation completed", fields...)
		metrics.ObserveDeviceOp("router", op, StatusOK, time.Since(start))
		return okResult(map[string]interface{}{"result": res})
	}
}

// ProvisionFiberFromConnection creates the PPPoE secret and bandwidth
// queue for a fiber connection on its site's router. Plan rates fall
// back to 10M when unset.
func (o *Orchestrator) ProvisionFiberFromConnection(ctx context.Context, site *model.Site, conn *model.Connection, plan *model.Plan) *Result {
	return o.runRouter(site, conn, "provision_fiber", func(r routerOps) (*routeros.OpResult, error) {
		return r.ProvisionFiber(ctx, routeros.FiberProvision{
			Username:   conn.PPPoEUsername,
			Password:   conn.PPPoEPassword,
			IPAddress:  conn.IPAddress,
			Upload:     speedOr(plan.UploadSpeed),
			Download:   speedOr(plan.DownloadSpeed),
			Profile:    plan.GetPPPProfile(),
			ClientName: conn.ClientName,
			Burst:      burstFromPlan(plan),
		})
	})
}

// ProvisionAntennaFromConnection creates the queue and active-list
// entry for a static-IP wireless connection.
func (o *Orchestrator) ProvisionAntennaFromConnection(ctx context.Context, site *model.Site, conn *model.Connection, plan *model.Plan) *Result {
	return o.runRouter(site, conn, "provision_antenna", func(r routerOps) (*routeros.OpResult, error) {
		return r.ProvisionAntenna(ctx, routeros.AntennaProvision{
			IPAddress:  conn.IPAddress,
			Upload:     speedOr(plan.UploadSpeed),
			Download:   speedOr(plan.DownloadSpeed),
			ClientName: conn.ClientName,
			Burst:      burstFromPlan(plan),
		})
	})
}

// ProvisionDHCPFromConnection creates the static lease, queue and
// active-list entry for a DHCP fiber connection. The lease lands on
// the router's default DHCP server instance.
func (o *Orchestrator) ProvisionDHCPFromConnection(ctx context.Context, site *model.Site, conn *model.Connection, plan *model.Plan) *Result {
	return o.runRouter(site, conn, "provision_dhcp", func(r routerOps) (*routeros.OpResult, error) {
		return r.ProvisionDHCP(ctx, routeros.DHCPProvision{
			MAC:        conn.MAC,
			IPAddress:  conn.IPAddress,
			Upload:     speedOr(plan.UploadSpeed),
			Download:   speedOr(plan.DownloadSpeed),
			ClientName: conn.ClientName,
			Burst:      burstFromPlan(plan),
		})
	})
}

// DeprovisionConnection removes a connection's router objects. The
// access type selects which objects exist to remove.
func (o *Orchestrator) DeprovisionConnection(ctx context.Context, site *model.Site, conn *model.Connection) *Result {
	var op string
	switch conn.Type {
	case model.AccessFiber:
		op = "deprovision_fiber"
	case model.AccessDHCPFiber:
		op = "deprovision_dhcp"
	default:
		op = "deprovision_antenna"
	}

	return o.runRouter(site, conn, op, func(r routerOps) (*routeros.OpResult, error) {
		switch conn.Type {
		case model.AccessFiber:
			return r.DeprovisionFiber(ctx, conn.PPPoEUsername, conn.IPAddress)
		case model.AccessDHCPFiber:
			return r.DeprovisionDHCP(ctx, conn.MAC, conn.IPAddress)
		default:
			return r.DeprovisionAntenna(ctx, conn.IPAddress)
		}
	})
}

// SuspendConnection disables the connection's router objects and moves
// it to the delinquents list. Service stops; the objects stay for
// reactivation.
func (o *Orchestrator) SuspendConnection(ctx context.Context, site *model.Site, conn *model.Connection) *Result {
	return o.runRouter(site, conn, "suspend_client", func(r routerOps) (*routeros.OpResult, error) {
		return r.SuspendClient(ctx, suspendParams(conn))
	})
}

// ReactivateConnection undoes a suspension.
func (o *Orchestrator) ReactivateConnection(ctx context.Context, site *model.Site, conn *model.Connection) *Result {
	return o.runRouter(site, conn, "reactivate_client", func(r routerOps) (*routeros.OpResult, error) {
		return r.ReactivateClient(ctx, suspendParams(conn))
	})
}

func suspendParams(conn *model.Connection) routeros.SuspendParams {
	return routeros.SuspendParams{
		Type:      conn.Type,
		Username:  conn.PPPoEUsername,
		MAC:       conn.MAC,
		IPAddress: conn.IPAddress,
	}
}
