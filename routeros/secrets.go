package routeros

import "context"

const secretPath = "/ppp/secret"

// SecretParams describes a PPPoE secret to create.
type SecretParams struct {
	// Name is the PPPoE username, the logical key for later operations.
	Name string

	// Password is the PPPoE password.
	Password string

	// RemoteAddress is the IP handed to the client on session up.
	RemoteAddress string

	// Profile is the PPP profile controlling speed. Empty means
	// "default".
	Profile string

	// LocalAddress is the server-side tunnel IP. Omitted when empty.
	LocalAddress string

	// Comment labels the secret on the device.
	Comment string

	// Disabled creates the secret administratively down.
	Disabled bool
}

// CreatePPPoESecret adds a PPPoE secret. It does not check for an
// existing secret with the same name; re-provisioning can duplicate.
func (c *Client) CreatePPPoESecret(ctx context.Context, p SecretParams) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepSecret, "create", p.Name, err), err
	}
	defer conn.Close()

	return createSecret(conn, p)
}

// DeletePPPoESecret removes the secret with the given username. A
// missing secret reports StatusNotFound, not an error.
func (c *Client) DeletePPPoESecret(ctx context.Context, name string) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepSecret, "delete", name, err), err
	}
	defer conn.Close()

	return deleteSecret(conn, name)
}

// DisablePPPoESecret suspends the secret without deleting it.
func (c *Client) DisablePPPoESecret(ctx context.Context, name string) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepSecret, "disable", name, err), err
	}
	defer conn.Close()

	return setSecretDisabled(conn, name, true)
}

// EnablePPPoESecret lifts a suspension.
func (c *Client) EnablePPPoESecret(ctx context.Context, name string) (StepResult, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return stepError(StepSecret, "enable", name, err), err
	}
	defer conn.Close()

	return setSecretDisabled(conn, name, false)
}

// ListPPPoESecrets returns every PPP secret on the device.
func (c *Client) ListPPPoESecrets(ctx context.Context) ([]map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return printRows(conn, secretPath)
}

// ActivePPPoESessions returns the sessions connected right now.
func (c *Client) ActivePPPoESessions(ctx context.Context) ([]map[string]string, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return printRows(conn, "/ppp/active")
}

func createSecret(conn apiConn, p SecretParams) (StepResult, error) {
	profile := p.Profile
	if profile == "" {
		profile = "default"
	}

	words := []string{
		"=name=" + p.Name,
		"=password=" + p.Password,
		"=service=pppoe",
		"=remote-address=" + p.RemoteAddress,
		"=profile=" + profile,
		"=comment=" + p.Comment,
		"=disabled=" + yesNo(p.Disabled),
	}
	if p.LocalAddress != "" {
		words = append(words, "=local-address="+p.LocalAddress)
	}

	id, err := runAdd(conn, secretPath, words...)
	if err != nil {
		return stepError(StepSecret, "create", p.Name, err), err
	}
	return stepOK(StepSecret, "create", p.Name, id), nil
}

func deleteSecret(conn apiConn, name string) (StepResult, error) {
	rows, err := printRows(conn, secretPath)
	if err != nil {
		return stepError(StepSecret, "delete", name, err), err
	}

	row := findByField(rows, "name", name)
	if row == nil {
		return stepNotFound(StepSecret, "delete", name), nil
	}

	if err := runRemove(conn, secretPath, row[".id"]); err != nil {
		return stepError(StepSecret, "delete", name, err), err
	}
	return stepOK(StepSecret, "delete", name, row[".id"]), nil
}

func setSecretDisabled(conn apiConn, name string, disabled bool) (StepResult, error) {
	action := "enable"
	if disabled {
		action = "disable"
	}

	rows, err := printRows(conn, secretPath)
	if err != nil {
		return stepError(StepSecret, action, name, err), err
	}

	row := findByField(rows, "name", name)
	if row == nil {
		return stepNotFound(StepSecret, action, name), nil
	}

	if err := runSet(conn, secretPath, row[".id"], "=disabled="+yesNo(disabled)); err != nil {
		return stepError(StepSecret, action, name, err), err
	}
	return stepOK(StepSecret, action, name, row[".id"]), nil
}
