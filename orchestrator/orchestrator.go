// Package orchestrator glues business records to device automation.
// Each helper resolves a site's equipment credentials, runs the router
// or OLT operation a subscriber workflow needs, and reports a tolerant
// Result: device trouble is logged and surfaced in the result, never
// as an error that would unwind the workflow that triggered it.
package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/zetanet/southbound"
	"github.com/zetanet/southbound/model"
	"github.com/zetanet/southbound/routeros"
	"github.com/zetanet/southbound/types"
)

// routerOps is the slice of the routeros client the helpers drive.
type routerOps interface {
	ProvisionFiber(ctx context.Context, p routeros.FiberProvision) (*routeros.OpResult, error)
	DeprovisionFiber(ctx context.Context, username, ip string) (*routeros.OpResult, error)
	ProvisionAntenna(ctx context.Context, p routeros.AntennaProvision) (*routeros.OpResult, error)
	DeprovisionAntenna(ctx context.Context, ip string) (*routeros.OpResult, error)
	ProvisionDHCP(ctx context.Context, p routeros.DHCPProvision) (*routeros.OpResult, error)
	DeprovisionDHCP(ctx context.Context, mac, ip string) (*routeros.OpResult, error)
	SuspendClient(ctx context.Context, p routeros.SuspendParams) (*routeros.OpResult, error)
	ReactivateClient(ctx context.Context, p routeros.SuspendParams) (*routeros.OpResult, error)
}

// Orchestrator runs device operations for subscriber workflows.
// Credentials are resolved per call; no device state is held between
// helpers.
type Orchestrator struct {
	resolver CredentialResolver
	log      *zap.Logger

	newRouter func(cfg routeros.Config) routerOps
	newDriver func(cfg *types.OLTConfig) (types.Driver, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New creates an orchestrator over the given credential source.
func New(resolver CredentialResolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver: resolver,
		log:      zap.NewNop(),
		newRouter: func(cfg routeros.Config) routerOps {
			return routeros.NewClient(cfg)
		},
		newDriver: southbound.NewDriver,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// defaultSpeed is applied when a plan does not set a rate.
const defaultSpeed = "10M"

func speedOr(s string) string {
	if s == "" {
		return defaultSpeed
	}
	return s
}

func burstFromPlan(plan *model.Plan) routeros.Burst {
	return routeros.Burst{
		Upload:        plan.BurstUpload,
		Download:      plan.BurstDownload,
		ThresholdUp:   plan.BurstThresholdUp,
		ThresholdDown: plan.BurstThresholdDown,
		Time:          plan.BurstTime,
	}
}

// deviceFamily labels metrics and logs with the normalized vendor
// family, falling back to a generic label for brands the factory does
// not recognize.
func deviceFamily(cfg *types.OLTConfig) string {
	if v, ok := southbound.ResolveVendor(cfg.Brand); ok {
		return string(v)
	}
	return "olt"
}
