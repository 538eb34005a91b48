package routeros

import (
	"context"
	"strings"
)

const queuePath = "/queue/simple"

// QueueParams describes a simple queue to create.
type QueueParams struct {
	// Name is the queue name, the logical key for later operations.
	Name string

	// Target is the client IP. A bare address gets /32 appended; an
	// address already carrying a prefix is sent as-is.
	Target string

	// UploadLimit and DownloadLimit compose the max-limit pair
	// ("25M" + "50M" -> "25M/50M").
	UploadLimit   string
	DownloadLimit string

	// Burst settings, already composed as up/down pairs. Empty fields
	// are omitted from the command entirely, never sent as "".
	BurstLimit     string
	BurstThreshold string
	BurstTime      string

	// Comment labels the queue on the device.
	Comment string

	// Disabled creates the queue administratively down.
	Disabled bool
}

// composeLimit joins an upload and download speed into the device's
// "up/down" pair form.
func composeLimit(upload, download string) string {
	return upload + "/" + download
}

// CreateSimpleQueue adds a bandwidth queue for one client.
func (c *Client) CreateSimpleQueue(ctx context.Context, p QueueParams) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepQueue, "create", p.Name, err), err
	}
	defer conn.Close()

	return createQueue(conn, p)
}

// DeleteSimpleQueue removes a queue by name. A missing queue reports
// StatusNotFound, not an error.
func (c *Client) DeleteSimpleQueue(ctx context.Context, name string) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepQueue, "delete", name, err), err
	}
	defer conn.Close()

	return deleteQueue(conn, name)
}

// UpdateQueueLimit changes the max-limit of an existing queue, for
// plan upgrades without re-provisioning.
func (c *Client) UpdateQueueLimit(ctx context.Context, name, upload, download string) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepQueue, "update", name, err), err
	}
	defer conn.Close()

	rows, err := printRows(conn, queuePath)
	if err != nil {
		return stepError(StepQueue, "update", name, err), err
	}

	row := findByField(rows, "name", name)
	if row == nil {
		return stepNotFound(StepQueue, "update", name), nil
	}

	if err := runSet(conn, queuePath, row[".id"], "=max-limit="+composeLimit(upload, download)); err != nil {
		return stepError(StepQueue, "update", name, err), err
	}
	return stepOK(StepQueue, "update", name, row[".id"]), nil
}

// DisableSimpleQueue suspends a queue without deleting it.
func (c *Client) DisableSimpleQueue(ctx context.Context, name string) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepQueue, "disable", name, err), err
	}
	defer conn.Close()

	return setQueueDisabled(conn, name, true)
}

// EnableSimpleQueue lifts a suspension.
func (c *Client) EnableSimpleQueue(ctx context.Context, name string) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepQueue, "enable", name, err), err
	}
	defer conn.Close()

	return setQueueDisabled(conn, name, false)
}

// ListSimpleQueues returns every simple queue on the device.
func (c *Client) ListSimpleQueues(ctx context.Context) ([]map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return printRows(conn, queuePath)
}

func createQueue(conn apiConn, p QueueParams) (StepResult, error) {
	target := p.Target
	if !strings.Contains(target, "/") {
		target += "/32"
	}

	words := []string{
		"=name=" + p.Name,
		"=target=" + target,
		"=max-limit=" + composeLimit(p.UploadLimit, p.DownloadLimit),
		"=comment=" + p.Comment,
		"=disabled=" + yesNo(p.Disabled),
	}
	if p.BurstLimit != "" {
		words = append(words, "=burst-limit="+p.BurstLimit)
	}
	if p.BurstThreshold != "" {
		words = append(words, "=burst-threshold="+p.BurstThreshold)
	}
	if p.BurstTime != "" {
		words = append(words, "=burst-time="+p.BurstTime)
	}

	id, err := runAdd(conn, queuePath, words...)
	if err != nil {
		return stepError(StepQueue, "create", p.Name, err), err
	}
	return stepOK(StepQueue, "create", p.Name, id), nil
}

func deleteQueue(conn apiConn, name string) (StepResult, error) {
	rows, err := printRows(conn, queuePath)
	if err != nil {
		return stepError(StepQueue, "delete", name, err), err
	}

	row := findByField(rows, "name", name)
	if row == nil {
		return stepNotFound(StepQueue, "delete", name), nil
	}

	if err := runRemove(conn, queuePath, row[".id"]); err != nil {
		return stepError(StepQueue, "delete", name, err), err
	}
	return stepOK(StepQueue, "delete", name, row[".id"]), nil
}

func setQueueDisabled(conn apiConn, name string, disabled bool) (StepResult, error) {
	action := "enable"
	if disabled {
		action = "disable"
	}

	rows, err := printRows(conn, queuePath)
	if err != nil {
		return stepError(StepQueue, action, name, err), err
	}

	row := findByField(rows, "name", name)
	if row == nil {
		return stepNotFound(StepQueue, action, name), nil
	}

	if err := runSet(conn, queuePath, row[".id"], "=disabled="+yesNo(disabled)); err != nil {
		return stepError(StepQueue, action, name, err), err
	}
	return stepOK(StepQueue, action, name, row[".id"]), nil
}
