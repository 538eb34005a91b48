package routeros

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zetanet/southbound/drivers/mock"
	"github.com/zetanet/southbound/types"
)

// testClient wires a client to a simulated device, bypassing the
// network dialer.
func testClient(dev *mock.Router) *Client {
	c := NewClient(Config{Host: "10.0.0.1", Username: "api", Password: "x"})
	c.dial = func(ctx context.Context, cfg Config) (apiConn, error) {
		return dev, nil
	}
	return c
}

func findRow(t *testing.T, rows []map[string]string, field, value string) map[string]string {
	t.Helper()
	for _, row := range rows {
		if row[field] == value {
			return row
		}
	}
	t.Fatalf("no row with %s=%q in %v", field, value, rows)
	return nil
}

func TestConfigDefaults(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		address string
	}{
		{"default plain port", Config{Host: "10.0.0.1"}, "10.0.0.1:8728"},
		{"default tls port", Config{Host: "10.0.0.1", UseTLS: true}, "10.0.0.1:8729"},
		{"explicit port", Config{Host: "10.0.0.1", Port: 18728}, "10.0.0.1:18728"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.address(); got != tt.address {
				t.Errorf("address() = %q, want %q", got, tt.address)
			}
		})
	}
}

func TestIsLoginRefusal(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"from RouterOS device: invalid user name or password (6)", true},
		{"login failure", true},
		{"dial tcp 10.0.0.1:8728: connection refused", false},
		{"i/o timeout", false},
	}

	for _, tt := range tests {
		if got := isLoginRefusal(errors.New(tt.msg)); got != tt.want {
			t.Errorf("isLoginRefusal(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestCreatePPPoESecret(t *testing.T) {
	dev := mock.NewRouter()
	c := testClient(dev)

	res, err := c.CreatePPPoESecret(context.Background(), SecretParams{
		Name:          "jdoe",
		Password:      "s3cret",
		RemoteAddress: "10.10.10.100",
		Comment:       "ISP-AUTO: jdoe",
	})
	if err != nil {
		t.Fatalf("CreatePPPoESecret: %v", err)
	}
	if res.Status != StatusOK {
		t.Errorf("status = %q, want %q", res.Status, StatusOK)
	}
	if res.ID == "" {
		t.Error("expected device id in result")
	}

	row := findRow(t, dev.Rows("/ppp/secret"), "name", "jdoe")
	want := map[string]string{
		"name":           "jdoe",
		"password":       "s3cret",
		"service":        "pppoe",
		"remote-address": "10.10.10.100",
		"profile":        "default",
		"comment":        "ISP-AUTO: jdoe",
		"disabled":       "no",
	}
	for k, v := range want {
		if row[k] != v {
			t.Errorf("secret %s = %q, want %q", k, row[k], v)
		}
	}
	if _, ok := row["local-address"]; ok {
		t.Error("local-address should be omitted when empty")
	}
}

func TestDeletePPPoESecretMissing(t *testing.T) {
	dev := mock.NewRouter()
	c := testClient(dev)

	res, err := c.DeletePPPoESecret(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("delete of missing secret must not error, got %v", err)
	}
	if res.Status != StatusNotFound {
		t.Errorf("status = %q, want %q", res.Status, StatusNotFound)
	}
}

func TestSecretDisableEnable(t *testing.T) {
	dev := mock.NewRouter()
	c := testClient(dev)
	ctx := context.Background()

	if _, err := c.CreatePPPoESecret(ctx, SecretParams{Name: "jdoe", Password: "x", RemoteAddress: "10.0.0.2"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if res, err := c.DisablePPPoESecret(ctx, "jdoe"); err != nil || res.Status != StatusOK {
		t.Fatalf("disable: status=%q err=%v", res.Status, err)
	}
	row := findRow(t, dev.Rows("/ppp/secret"), "name", "jdoe")
	if row["disabled"] != "yes" {
		t.Errorf("disabled = %q, want yes", row["disabled"])
	}

	if res, err := c.EnablePPPoESecret(ctx, "jdoe"); err != nil || res.Status != StatusOK {
		t.Fatalf("enable: status=%q err=%v", res.Status, err)
	}
	row = findRow(t, dev.Rows("/ppp/secret"), "name", "jdoe")
	if row["disabled"] != "no" {
		t.Errorf("disabled = %q, want no", row["disabled"])
	}

	if res, _ := c.DisablePPPoESecret(ctx, "ghost"); res.Status != StatusNotFound {
		t.Errorf("disable of missing secret = %q, want %q", res.Status, StatusNotFound)
	}
}

func TestComposeLimit(t *testing.T) {
	if got := composeLimit("25M", "50M"); got != "25M/50M" {
		t.Errorf("composeLimit = %q, want %q", got, "25M/50M")
	}
}

func TestCreateQueueTarget(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"bare address gets /32", "172.16.5.20", "172.16.5.20/32"},
		{"prefixed address untouched", "10.20.0.0/24", "10.20.0.0/24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := mock.NewRouter()
			c := testClient(dev)

			_, err := c.CreateSimpleQueue(context.Background(), QueueParams{
				Name:          "q1",
				Target:        tt.target,
				UploadLimit:   "10M",
				DownloadLimit: "20M",
			})
			if err != nil {
				t.Fatalf("CreateSimpleQueue: %v", err)
			}

			row := findRow(t, dev.Rows("/queue/simple"), "name", "q1")
			if row["target"] != tt.want {
				t.Errorf("target = %q, want %q", row["target"], tt.want)
			}
			if row["max-limit"] != "10M/20M" {
				t.Errorf("max-limit = %q, want 10M/20M", row["max-limit"])
			}
		})
	}
}

func TestCreateQueueBurstOmittedWhenEmpty(t *testing.T) {
	dev := mock.NewRouter()
	c := testClient(dev)

	_, err := c.CreateSimpleQueue(context.Background(), QueueParams{
		Name:          "q1",
		Target:        "10.0.0.2",
		UploadLimit:   "10M",
		DownloadLimit: "20M",
	})
	if err != nil {
		t.Fatalf("CreateSimpleQueue: %v", err)
	}

	for _, sentence := range dev.Sentences() {
		if strings.Contains(sentence, "burst") {
			t.Errorf("burst word sent for burst-less queue: %q", sentence)
		}
	}
	row := findRow(t, dev.Rows("/queue/simple"), "name", "q1")
	for _, k := range []string{"burst-limit", "burst-threshold", "burst-time"} {
		if _, ok := row[k]; ok {
			t.Errorf("%s should be absent, got %q", k, row[k])
		}
	}
}

func TestUpdateQueueLimit(t *testing.T) {
	dev := mock.NewRouter()
	c := testClient(dev)
	ctx := context.Background()

	if _, err := c.CreateSimpleQueue(ctx, QueueParams{Name: "q1", Target: "10.0.0.2", UploadLimit: "10M", DownloadLimit: "20M"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := c.UpdateQueueLimit(ctx, "q1", "25M", "50M")
	if err != nil || res.Status != StatusOK {
		t.Fatalf("update: status=%q err=%v", res.Status, err)
	}
	row := findRow(t, dev.Rows("/queue/simple"), "name", "q1")
	if row["max-limit"] != "25M/50M" {
		t.Errorf("max-limit = %q, want 25M/50M", row["max-limit"])
	}

	if res, _ := c.UpdateQueueLimit(ctx, "ghost", "1M", "2M"); res.Status != StatusNotFound {
		t.Errorf("update of missing queue = %q, want %q", res.Status, StatusNotFound)
	}
}

func TestLeaseMACHandling(t *testing.T) {
	dev := mock.NewRouter()
	c := testClient(dev)
	ctx := context.Background()

	if _, err := c.CreateDHCPLease(ctx, LeaseParams{MAC: "aa:bb:cc:dd:ee:ff", Address: "10.20.0.7"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	row := findRow(t, dev.Rows("/ip/dhcp-server/lease"), "address", "10.20.0.7")
	if row["mac-address"] != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("mac stored as %q, want uppercased", row["mac-address"])
	}
	if row["server"] != "dhcp1" {
		t.Errorf("server = %q, want default dhcp1", row["server"])
	}

	// Lookup is case-insensitive regardless of how the MAC was typed.
	res, err := c.DeleteDHCPLease(ctx, "Aa:Bb:Cc:Dd:Ee:Ff")
	if err != nil || res.Status != StatusOK {
		t.Fatalf("delete: status=%q err=%v", res.Status, err)
	}
	if rows := dev.Rows("/ip/dhcp-server/lease"); len(rows) != 0 {
		t.Errorf("lease still present after delete: %v", rows)
	}
}

func TestAddressListRoundTrip(t *testing.T) {
	dev := mock.NewRouter()
	c := testClient(dev)
	ctx := context.Background()

	if _, err := c.AddToAddressList(ctx, "morosos", "10.0.0.2", "Suspendido por sistema", ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := c.ListAddressList(ctx, "morosos")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0]["address"] != "10.0.0.2" {
		t.Fatalf("unexpected entries: %v", entries)
	}

	res, err := c.RemoveFromAddressList(ctx, "morosos", "10.0.0.2")
	if err != nil || res.Status != StatusOK {
		t.Fatalf("remove: status=%q err=%v", res.Status, err)
	}
	if res, _ := c.RemoveFromAddressList(ctx, "morosos", "10.0.0.2"); res.Status != StatusNotFound {
		t.Errorf("second remove = %q, want %q", res.Status, StatusNotFound)
	}
}

func TestTestConnection(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		dev := mock.NewRouter()
		c := testClient(dev)

		status := c.TestConnection(context.Background())
		if !status.Connected {
			t.Fatalf("expected connected, got error %q", status.Error)
		}
		if status.Version != "7.14.2 (stable)" {
			t.Errorf("version = %q", status.Version)
		}
		if status.Host != "10.0.0.1" {
			t.Errorf("host = %q", status.Host)
		}
	})

	t.Run("unreachable reports instead of failing", func(t *testing.T) {
		c := NewClient(Config{Host: "10.9.9.9"})
		c.dial = func(ctx context.Context, cfg Config) (apiConn, error) {
			return nil, &types.TransportError{Host: "10.9.9.9:8728", Err: errors.New("connection refused")}
		}

		status := c.TestConnection(context.Background())
		if status.Connected {
			t.Fatal("expected connected=false")
		}
		if status.Error == "" {
			t.Error("expected non-empty error string")
		}
	})
}

func TestIdentity(t *testing.T) {
	dev := mock.NewRouter()
	dev.SetIdentity("edge-r1")
	c := testClient(dev)

	name, err := c.Identity(context.Background())
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if name != "edge-r1" {
		t.Errorf("identity = %q, want edge-r1", name)
	}
}

func TestTrapBecomesProtocolError(t *testing.T) {
	dev := mock.NewRouter()
	dev.TrapOn("/ppp/secret/add", "failure: secret with the same name already exists")
	c := testClient(dev)

	res, err := c.CreatePPPoESecret(context.Background(), SecretParams{Name: "jdoe", Password: "x", RemoteAddress: "10.0.0.2"})
	if err == nil {
		t.Fatal("expected error from trapped add")
	}
	var perr *types.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *types.ProtocolError", err)
	}
	if res.Status != StatusError {
		t.Errorf("step status = %q, want %q", res.Status, StatusError)
	}
}

func TestSessionPerCall(t *testing.T) {
	dev := mock.NewRouter()
	c := testClient(dev)
	ctx := context.Background()

	if _, err := c.ListPPPoESecrets(ctx); err != nil {
		t.Fatalf("list secrets: %v", err)
	}
	if _, err := c.ListSimpleQueues(ctx); err != nil {
		t.Fatalf("list queues: %v", err)
	}
	if _, err := c.ListDHCPLeases(ctx); err != nil {
		t.Fatalf("list leases: %v", err)
	}

	if got := dev.Closes(); got != 3 {
		t.Errorf("sessions released = %d, want one per call (3)", got)
	}
}
