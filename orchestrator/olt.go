package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zetanet/southbound/metrics"
	"github.com/zetanet/southbound/model"
	"github.com/zetanet/southbound/types"
)

// runOLT resolves the site's OLT, builds the dialect driver and runs
// one operation. The driver dials lazily, so a run that fails before
// touching the device never opens a session.
func (o *Orchestrator) runOLT(site *model.Site, conn *model.Connection, op string, run func(drv types.Driver) (map[string]interface{}, error)) *Result {
	start := time.Now()

	fields := []zap.Field{
		zap.String("site", site.Name),
		zap.String("op", op),
		zap.Int("connection", conn.ID),
	}

	cfg, err := o.resolver.OLTFor(site)
	if err != nil {
		o.log.Warn("olt unavailable", append(fields, zap.Error(err))...)
		metrics.ObserveDeviceOp("olt", op, StatusError, time.Since(start))
		return errorResult(err)
	}
	device := deviceFamily(cfg)

	drv, err := o.newDriver(cfg)
	if err != nil {
		o.log.Warn("olt driver unavailable", append(fields, zap.Error(err))...)
		metrics.ObserveDeviceOp(device, op, StatusError, time.Since(start))
		return errorResult(err)
	}

	details, err := run(drv)
	if err != nil {
		o.log.Warn("olt operation failed", append(fields, zap.Error(err))...)
		metrics.ObserveDeviceOp(device, op, StatusError, time.Since(start))
		return errorResult(err)
	}

	o.log.Info("olt operation completed", fields...)
	metrics.ObserveDeviceOp(device, op, StatusOK, time.Since(start))
	return okResult(details)
}

// AuthorizeONUForConnection registers the connection's ONU on its
// site's OLT and writes the device-assigned ID back onto the record.
// The caller persists the record: a later deauthorization is keyed by
// that ID.
func (o *Orchestrator) AuthorizeONUForConnection(ctx context.Context, site *model.Site, conn *model.Connection) *Result {
	return o.runOLT(site, conn, "authorize_onu", func(drv types.Driver) (map[string]interface{}, error) {
		frame, slot, port, err := types.ParseFrameSlotPort(conn.ONULocation)
		if err != nil {
			return nil, err
		}

		res, err := drv.AuthorizeONU(ctx, types.AuthorizeRequest{
			Serial:      conn.ONUSerial,
			Frame:       frame,
			Slot:        slot,
			Port:        port,
			ONUType:     conn.ONUType,
			VLAN:        conn.ServiceVLAN,
			Description: conn.Label(),
		})
		if err != nil {
			return nil, err
		}

		conn.ONUID = res.AssignedID
		conn.ONUAuthorized = true
		conn.ONUAuthorizedAt = time.Now()

		return map[string]interface{}{"result": res}, nil
	})
}

// DeauthorizeONUForConnection removes the connection's ONU from the
// OLT. Connections that never went through authorization are skipped.
// A record with a location but no device-assigned ID is an error, not
// a guess: deauthorizing a guessed ID would cut off someone else's
// terminal. Re-authorize to capture the ID, then deauthorize.
func (o *Orchestrator) DeauthorizeONUForConnection(ctx context.Context, site *model.Site, conn *model.Connection) *Result {
	if conn.ONULocation == "" {
		metrics.ObserveDeviceOp("olt", "deauthorize_onu", StatusSkipped, 0)
		return skippedResult("no onu authorization on record")
	}

	return o.runOLT(site, conn, "deauthorize_onu", func(drv types.Driver) (map[string]interface{}, error) {
		_, slot, port, err := types.ParseFrameSlotPort(conn.ONULocation)
		if err != nil {
			return nil, err
		}
		if conn.ONUID == 0 {
			return nil, fmt.Errorf("connection %d has no recorded onu id; re-authorize before deauthorizing", conn.ID)
		}

		onuID := conn.ONUID
		if err := drv.DeauthorizeONU(ctx, slot, port, onuID); err != nil {
			return nil, err
		}

		conn.ONUAuthorized = false
		conn.ONUID = 0

		return map[string]interface{}{
			"slot":   slot,
			"port":   port,
			"onu_id": onuID,
		}, nil
	})
}

// GetONUStatusForConnection reads the run state of the connection's
// ONU.
func (o *Orchestrator) GetONUStatusForConnection(ctx context.Context, site *model.Site, conn *model.Connection) *Result {
	return o.runOLT(site, conn, "get_onu_status", func(drv types.Driver) (map[string]interface{}, error) {
		_, slot, port, err := types.ParseFrameSlotPort(conn.ONULocation)
		if err != nil {
			return nil, err
		}
		if conn.ONUID == 0 {
			return nil, fmt.Errorf("connection %d has no recorded onu id; authorize first", conn.ID)
		}

		st, err := drv.GetONUStatus(ctx, slot, port, conn.ONUID)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": st}, nil
	})
}
