package routeros

import (
	"context"
	"strings"

	"github.com/zetanet/southbound/model"
)

// Address lists the provisioning and suspension flows maintain.
const (
	// ActiveClientsList collects the static-IP clients currently in
	// service.
	ActiveClientsList = "clientes_activos"

	// DelinquentsList collects suspended clients for firewall policy.
	DelinquentsList = "morosos"
)

// suspendComment marks automated suspension entries on the device.
const suspendComment = "Suspendido por sistema"

// Burst carries the optional queue burst settings of a plan. All-empty
// means no burst; a set Upload implies Download, ThresholdUp implies
// ThresholdDown.
type Burst struct {
	Upload        string
	Download      string
	ThresholdUp   string
	ThresholdDown string
	Time          string
}

func (b Burst) limit() string {
	if b.Upload == "" {
		return ""
	}
	return composeLimit(b.Upload, b.Download)
}

func (b Burst) threshold() string {
	if b.ThresholdUp == "" {
		return ""
	}
	return composeLimit(b.ThresholdUp, b.ThresholdDown)
}

// FiberProvision describes a PPPoE subscriber to provision.
type FiberProvision struct {
	Username   string
	Password   string
	IPAddress  string
	Upload     string
	Download   string
	Profile    string
	ClientName string
	Burst      Burst
}

// AntennaProvision describes a static-IP wireless subscriber.
type AntennaProvision struct {
	IPAddress  string
	Upload     string
	Download   string
	ClientName string
	Burst      Burst
}

// DHCPProvision describes a fiber subscriber served over DHCP.
type DHCPProvision struct {
	MAC        string
	IPAddress  string
	Upload     string
	Download   string
	Server     string
	ClientName string
	Burst      Burst
}

// SuspendParams identifies a subscriber for suspension or
// reactivation. Type selects which device objects get toggled.
type SuspendParams struct {
	Type      model.AccessType
	Username  string
	MAC       string
	IPAddress string
}

// ProvisionFiber creates the PPPoE secret and its bandwidth queue.
// Steps run in order on one session; a failed step stops the sequence
// and completed steps are not rolled back. Re-provisioning an existing
// subscriber duplicates device objects; deprovision first.
func (c *Client) ProvisionFiber(ctx context.Context, p FiberProvision) (*OpResult, error) {
	op := &OpResult{Op: "provision_fiber"}

	conn, err := c.open(ctx)
	if err != nil {
		return op, err
	}
	defer conn.Close()

	comment := autoComment(p.ClientName, p.Username)

	res, err := createSecret(conn, SecretParams{
		Name:          p.Username,
		Password:      p.Password,
		RemoteAddress: p.IPAddress,
		Profile:       p.Profile,
		Comment:       comment,
	})
	op.Steps = append(op.Steps, res)
	if err != nil {
		return op, err
	}

	res, err = createQueue(conn, QueueParams{
		Name:           fiberQueueName(p.Username),
		Target:         p.IPAddress,
		UploadLimit:    p.Upload,
		DownloadLimit:  p.Download,
		BurstLimit:     p.Burst.limit(),
		BurstThreshold: p.Burst.threshold(),
		BurstTime:      p.Burst.Time,
		Comment:        comment,
	})
	op.Steps = append(op.Steps, res)
	if err != nil {
		return op, err
	}

	return op, nil
}

// DeprovisionFiber deletes the queue, the secret, and the active-list
// entry when an IP is known. Steps are independent: a failed delete is
// recorded and the remaining deletes still run.
func (c *Client) DeprovisionFiber(ctx context.Context, username, ip string) (*OpResult, error) {
	op := &OpResult{Op: "deprovision_fiber"}

	conn, err := c.open(ctx)
	if err != nil {
		return op, err
	}
	defer conn.Close()

	res, _ := deleteQueue(conn, fiberQueueName(username))
	op.Steps = append(op.Steps, res)

	res, _ = deleteSecret(conn, username)
	op.Steps = append(op.Steps, res)

	if ip != "" {
		res, _ = removeAddressListEntry(conn, ActiveClientsList, ip)
		op.Steps = append(op.Steps, res)
	}

	return op, nil
}

// ProvisionAntenna creates the bandwidth queue for a static-IP client
// and records the IP on the active-clients list.
func (c *Client) ProvisionAntenna(ctx context.Context, p AntennaProvision) (*OpResult, error) {
	op := &OpResult{Op: "provision_antenna"}

	conn, err := c.open(ctx)
	if err != nil {
		return op, err
	}
	defer conn.Close()

	comment := autoComment(p.ClientName, p.IPAddress)

	res, err := createQueue(conn, QueueParams{
		Name:           antennaQueueName(p.IPAddress),
		Target:         p.IPAddress,
		UploadLimit:    p.Upload,
		DownloadLimit:  p.Download,
		BurstLimit:     p.Burst.limit(),
		BurstThreshold: p.Burst.threshold(),
		BurstTime:      p.Burst.Time,
		Comment:        comment,
	})
	op.Steps = append(op.Steps, res)
	if err != nil {
		return op, err
	}

	res, err = addAddressListEntry(conn, ActiveClientsList, p.IPAddress, comment, "")
	op.Steps = append(op.Steps, res)
	if err != nil {
		return op, err
	}

	return op, nil
}

// DeprovisionAntenna deletes the queue and the active-list entry.
// Steps are independent.
func (c *Client) DeprovisionAntenna(ctx context.Context, ip string) (*OpResult, error) {
	op := &OpResult{Op: "deprovision_antenna"}

	conn, err := c.open(ctx)
	if err != nil {
		return op, err
	}
	defer conn.Close()

	res, _ := deleteQueue(conn, antennaQueueName(ip))
	op.Steps = append(op.Steps, res)

	res, _ = removeAddressListEntry(conn, ActiveClientsList, ip)
	op.Steps = append(op.Steps, res)

	return op, nil
}

// ProvisionDHCP creates the static lease and its bandwidth queue.
func (c *Client) ProvisionDHCP(ctx context.Context, p DHCPProvision) (*OpResult, error) {
	op := &OpResult{Op: "provision_dhcp"}

	conn, err := c.open(ctx)
	if err != nil {
		return op, err
	}
	defer conn.Close()

	comment := autoComment(p.ClientName, p.MAC)

	res, err := createLease(conn, LeaseParams{
		MAC:     p.MAC,
		Address: p.IPAddress,
		Server:  p.Server,
		Comment: comment,
	})
	op.Steps = append(op.Steps, res)
	if err != nil {
		return op, err
	}

	res, err = createQueue(conn, QueueParams{
		Name:           dhcpQueueName(p.IPAddress),
		Target:         p.IPAddress,
		UploadLimit:    p.Upload,
		DownloadLimit:  p.Download,
		BurstLimit:     p.Burst.limit(),
		BurstThreshold: p.Burst.threshold(),
		BurstTime:      p.Burst.Time,
		Comment:        comment,
	})
	op.Steps = append(op.Steps, res)
	if err != nil {
		return op, err
	}

	return op, nil
}

// DeprovisionDHCP deletes the queue (when the IP is known) and the
// lease. Steps are independent.
func (c *Client) DeprovisionDHCP(ctx context.Context, mac, ip string) (*OpResult, error) {
	op := &OpResult{Op: "deprovision_dhcp"}

	conn, err := c.open(ctx)
	if err != nil {
		return op, err
	}
	defer conn.Close()

	if ip != "" {
		res, _ := deleteQueue(conn, dhcpQueueName(ip))
		op.Steps = append(op.Steps, res)
	}

	res, _ := deleteLease(conn, mac)
	op.Steps = append(op.Steps, res)

	return op, nil
}

// SuspendClient disables a subscriber's device objects and records the
// IP on the delinquents list. Which objects get toggled depends on the
// access type: fiber disables secret and queue, antenna the queue,
// DHCP the lease and queue.
func (c *Client) SuspendClient(ctx context.Context, p SuspendParams) (*OpResult, error) {
	op := &OpResult{Op: "suspend_client"}

	conn, err := c.open(ctx)
	if err != nil {
		return op, err
	}
	defer conn.Close()

	if err := c.toggleClient(conn, op, p, true); err != nil {
		return op, err
	}

	if p.IPAddress != "" {
		res, err := addAddressListEntry(conn, DelinquentsList, p.IPAddress, suspendComment, "")
		op.Steps = append(op.Steps, res)
		if err != nil {
			return op, err
		}
	}

	return op, nil
}

// ReactivateClient re-enables a suspended subscriber and clears the
// delinquents entry.
func (c *Client) ReactivateClient(ctx context.Context, p SuspendParams) (*OpResult, error) {
	op := &OpResult{Op: "reactivate_client"}

	conn, err := c.open(ctx)
	if err != nil {
		return op, err
	}
	defer conn.Close()

	if err := c.toggleClient(conn, op, p, false); err != nil {
		return op, err
	}

	if p.IPAddress != "" {
		res, err := removeAddressListEntry(conn, DelinquentsList, p.IPAddress)
		op.Steps = append(op.Steps, res)
		if err != nil {
			return op, err
		}
	}

	return op, nil
}

func (c *Client) toggleClient(conn apiConn, op *OpResult, p SuspendParams, disabled bool) error {
	switch p.Type {
	case model.AccessFiber:
		if p.Username == "" {
			return nil
		}
		res, err := setSecretDisabled(conn, p.Username, disabled)
		op.Steps = append(op.Steps, res)
		if err != nil {
			return err
		}
		res, err = setQueueDisabled(conn, fiberQueueName(p.Username), disabled)
		op.Steps = append(op.Steps, res)
		if err != nil {
			return err
		}

	case model.AccessAntenna:
		if p.IPAddress == "" {
			return nil
		}
		res, err := setQueueDisabled(conn, antennaQueueName(p.IPAddress), disabled)
		op.Steps = append(op.Steps, res)
		if err != nil {
			return err
		}

	case model.AccessDHCPFiber:
		if p.MAC != "" {
			res, err := setLeaseDisabled(conn, p.MAC, disabled)
			op.Steps = append(op.Steps, res)
			if err != nil {
				return err
			}
		}
		if p.IPAddress != "" {
			res, err := setQueueDisabled(conn, dhcpQueueName(p.IPAddress), disabled)
			op.Steps = append(op.Steps, res)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// autoComment tags created device objects with the owning subscriber
// so operators can trace them back from the device UI.
func autoComment(clientName, fallback string) string {
	if clientName != "" {
		return "ISP-AUTO: " + clientName
	}
	return "ISP-AUTO: " + fallback
}

func fiberQueueName(username string) string {
	return "queue_" + username
}

func antennaQueueName(ip string) string {
	return "queue_" + strings.ReplaceAll(ip, ".", "_")
}

func dhcpQueueName(ip string) string {
	return "queue_dhcp_" + strings.ReplaceAll(ip, ".", "_")
}
