package zte

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/zetanet/southbound/drivers/mock"
	"github.com/zetanet/southbound/types"
)

func testAdapter(sh *mock.Shell) *Adapter {
	a := NewAdapter(&types.OLTConfig{
		Name:    "olt-centro",
		Brand:   string(types.VendorZTE),
		Address: "10.0.40.2",
		Timeout: 20 * time.Second,
	})
	a.dialShell = func(*types.OLTConfig) (types.ShellExecutor, error) {
		return sh, nil
	}
	return a
}

const stateTable = `OnuIndex                 Admin State      OMCC State       Phase State      Channel
---------------------------------------------------------------------------------
gpon-onu_1/2/1:1         enable           enable           working          1
gpon-onu_1/2/1:2         enable           enable           LOS              2
gpon-onu_1/2/1:5         enable           enable           working          3
`

func TestTestConnection(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		sh := mock.NewShell()
		sh.Handle("show version", "ZXA10 C320 Version: V2.1.0\n")
		sh.Handle("show hostname", "  OLT-CENTRO  \n")
		a := testAdapter(sh)

		status := a.TestConnection(context.Background())
		if !status.Connected {
			t.Fatalf("Connected = false, error %q", status.Error)
		}
		if status.Vendor != types.VendorZTE {
			t.Errorf("Vendor = %q, want %q", status.Vendor, types.VendorZTE)
		}
		if !strings.Contains(status.Version, "C320") {
			t.Errorf("Version = %q, want version banner", status.Version)
		}
		if status.Identity != "OLT-CENTRO" {
			t.Errorf("Identity = %q, want %q", status.Identity, "OLT-CENTRO")
		}
	})

	t.Run("hostname probe failure keeps configured name", func(t *testing.T) {
		sh := mock.NewShell()
		sh.Handle("show version", "ZXA10 C320\n")
		sh.FailOn("show hostname", errors.New("pattern not matched"))
		a := testAdapter(sh)

		status := a.TestConnection(context.Background())
		if !status.Connected {
			t.Fatalf("Connected = false, error %q", status.Error)
		}
		if status.Identity != "olt-centro" {
			t.Errorf("Identity = %q, want configured name", status.Identity)
		}
	})

	t.Run("dial failure", func(t *testing.T) {
		a := testAdapter(nil)
		a.dialShell = func(*types.OLTConfig) (types.ShellExecutor, error) {
			return nil, errors.New("dial tcp 10.0.40.2:22: connection refused")
		}

		status := a.TestConnection(context.Background())
		if status.Connected {
			t.Fatal("Connected = true for unreachable device")
		}
		if status.Error == "" {
			t.Error("Error empty, want dial failure")
		}
	})
}

func TestListUnauthorizedONUs(t *testing.T) {
	sh := mock.NewShell()
	sh.Handle("show gpon onu uncfg", strings.Join([]string{
		"OnuIndex                 Sn                   State",
		"---------------------------------------------------",
		"gpon-olt_1/4/1           ZTEG00112233         unknown",
		"gpon-olt_1/4/2           ZTEGC9887766         unknown",
	}, "\n"))
	a := testAdapter(sh)

	onus, err := a.ListUnauthorizedONUs(context.Background())
	if err != nil {
		t.Fatalf("ListUnauthorizedONUs: %v", err)
	}
	if len(onus) != 2 {
		t.Fatalf("got %d onus, want 2", len(onus))
	}

	first := onus[0]
	if first.Serial != "ZTEG00112233" {
		t.Errorf("Serial = %q, want %q", first.Serial, "ZTEG00112233")
	}
	if first.Frame != 1 || first.Slot != 4 || first.Port != 1 {
		t.Errorf("location = %d/%d/%d, want 1/4/1", first.Frame, first.Slot, first.Port)
	}
	if first.Status != "unauthorized" {
		t.Errorf("Status = %q, want %q", first.Status, "unauthorized")
	}
	if onus[1].Port != 2 {
		t.Errorf("second row Port = %d, want 2", onus[1].Port)
	}
}

func TestAuthorizeONU(t *testing.T) {
	t.Run("explicit id with profile and vlan", func(t *testing.T) {
		sh := mock.NewShell()
		a := testAdapter(sh)

		res, err := a.AuthorizeONU(context.Background(), types.AuthorizeRequest{
			Serial:      "ZTEG00112233",
			Slot:        2,
			Port:        1,
			ONUID:       3,
			ONUType:     "ZTE-F670L",
			LineProfile: "PLAN-50M",
			VLAN:        100,
		})
		if err != nil {
			t.Fatalf("AuthorizeONU: %v", err)
		}

		want := []string{
			"configure terminal",
			"interface gpon-olt_1/2/1",
			"onu 3 type ZTE-F670L sn ZTEG00112233",
			"exit",
			"pon-onu-mng gpon-onu_1/2/1:3",
			"tcont 1 profile PLAN-50M",
			"gemport 1 tcont 1",
			"service-port 1 vport 1 user-vlan 100 vlan 100",
			"exit",
			"exit",
		}
		if got := sh.Commands(); !reflect.DeepEqual(got, want) {
			t.Errorf("commands = %q, want %q", got, want)
		}
		if res.AssignedID != 3 {
			t.Errorf("AssignedID = %d, want 3", res.AssignedID)
		}
		if res.VLAN != 100 {
			t.Errorf("VLAN = %d, want 100", res.VLAN)
		}
	})

	t.Run("auto id picks max in use plus one", func(t *testing.T) {
		sh := mock.NewShell()
		sh.Handle("show gpon onu state gpon-olt_1/2/1", stateTable)
		a := testAdapter(sh)

		res, err := a.AuthorizeONU(context.Background(), types.AuthorizeRequest{
			Serial:  "ZTEG00112233",
			Slot:    2,
			Port:    1,
			ONUType: "ZTE-F670L",
		})
		if err != nil {
			t.Fatalf("AuthorizeONU: %v", err)
		}
		if res.AssignedID != 6 {
			t.Errorf("AssignedID = %d, want 6 (max in use is 5)", res.AssignedID)
		}

		cmds := sh.Commands()
		if cmds[0] != "show gpon onu state gpon-olt_1/2/1" {
			t.Errorf("first command = %q, want state probe", cmds[0])
		}
		if want := "onu 6 type ZTE-F670L sn ZTEG00112233"; cmds[3] != want {
			t.Errorf("bind = %q, want %q", cmds[3], want)
		}
	})

	t.Run("empty port starts at 1", func(t *testing.T) {
		sh := mock.NewShell()
		a := testAdapter(sh)

		res, err := a.AuthorizeONU(context.Background(), types.AuthorizeRequest{
			Serial:  "ZTEG00112233",
			Slot:    2,
			Port:    8,
			ONUType: "ZTE-F670L",
		})
		if err != nil {
			t.Fatalf("AuthorizeONU: %v", err)
		}
		if res.AssignedID != 1 {
			t.Errorf("AssignedID = %d, want 1", res.AssignedID)
		}
	})

	t.Run("bare bind skips management context", func(t *testing.T) {
		sh := mock.NewShell()
		a := testAdapter(sh)

		res, err := a.AuthorizeONU(context.Background(), types.AuthorizeRequest{
			Serial:  "ZTEG00112233",
			Slot:    2,
			Port:    1,
			ONUID:   3,
			ONUType: "ZTE-F670L",
		})
		if err != nil {
			t.Fatalf("AuthorizeONU: %v", err)
		}

		want := []string{
			"configure terminal",
			"interface gpon-olt_1/2/1",
			"onu 3 type ZTE-F670L sn ZTEG00112233",
			"exit",
			"exit",
		}
		if got := sh.Commands(); !reflect.DeepEqual(got, want) {
			t.Errorf("commands = %q, want %q", got, want)
		}
		if res.VLAN != 0 {
			t.Errorf("VLAN = %d, want 0", res.VLAN)
		}
	})

	t.Run("description quoted on bind", func(t *testing.T) {
		sh := mock.NewShell()
		a := testAdapter(sh)

		_, err := a.AuthorizeONU(context.Background(), types.AuthorizeRequest{
			Serial:      "ZTEG00112233",
			Slot:        2,
			Port:        1,
			ONUID:       3,
			ONUType:     "ZTE-F670L",
			Description: "Juan Perez",
		})
		if err != nil {
			t.Fatalf("AuthorizeONU: %v", err)
		}
		if want := `onu 3 type ZTE-F670L sn ZTEG00112233 desc "Juan Perez"`; sh.Commands()[2] != want {
			t.Errorf("bind = %q, want %q", sh.Commands()[2], want)
		}
	})

	t.Run("missing type", func(t *testing.T) {
		sh := mock.NewShell()
		a := testAdapter(sh)

		if _, err := a.AuthorizeONU(context.Background(), types.AuthorizeRequest{
			Serial: "ZTEG00112233",
			Slot:   2,
			Port:   1,
			ONUID:  3,
		}); err == nil {
			t.Fatal("AuthorizeONU accepted a bind without type")
		}
		if len(sh.Commands()) != 0 {
			t.Errorf("commands ran despite missing type: %q", sh.Commands())
		}
	})

	t.Run("missing serial", func(t *testing.T) {
		a := testAdapter(mock.NewShell())
		if _, err := a.AuthorizeONU(context.Background(), types.AuthorizeRequest{ONUType: "ZTE-F670L"}); err == nil {
			t.Fatal("AuthorizeONU accepted empty serial")
		}
	})

	t.Run("failure mid sequence drops session", func(t *testing.T) {
		sh := mock.NewShell()
		sh.FailOn("onu 3 type ZTE-F670L sn ZTEG00112233", errors.New("Code 50006: SN exists"))
		a := testAdapter(sh)
		if err := a.Connect(context.Background()); err != nil {
			t.Fatalf("Connect: %v", err)
		}

		_, err := a.AuthorizeONU(context.Background(), types.AuthorizeRequest{
			Serial:  "ZTEG00112233",
			Slot:    2,
			Port:    1,
			ONUID:   3,
			ONUType: "ZTE-F670L",
		})
		if err == nil {
			t.Fatal("AuthorizeONU succeeded past scripted failure")
		}
		if !sh.Closed() {
			t.Error("failed session left open")
		}
	})
}

func TestDeauthorizeONU(t *testing.T) {
	sh := mock.NewShell()
	a := testAdapter(sh)

	if err := a.DeauthorizeONU(context.Background(), 2, 1, 3); err != nil {
		t.Fatalf("DeauthorizeONU: %v", err)
	}

	want := []string{
		"configure terminal",
		"interface gpon-olt_1/2/1",
		"no onu 3",
		"exit",
		"exit",
	}
	if got := sh.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %q, want %q", got, want)
	}
}

func TestGetONUStatus(t *testing.T) {
	tests := []struct {
		name       string
		onuID      int
		wantState  string
		wantOnline bool
	}{
		{"working", 1, "online", true},
		{"los", 2, "offline", false},
		{"absent id", 9, "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := mock.NewShell()
			sh.Handle("show gpon onu state gpon-olt_1/2/1", stateTable)
			a := testAdapter(sh)

			st, err := a.GetONUStatus(context.Background(), 2, 1, tt.onuID)
			if err != nil {
				t.Fatalf("GetONUStatus: %v", err)
			}
			if st.ONUID != tt.onuID {
				t.Errorf("ONUID = %d, want %d", st.ONUID, tt.onuID)
			}
			if st.State != tt.wantState {
				t.Errorf("State = %q, want %q", st.State, tt.wantState)
			}
			if st.Online != tt.wantOnline {
				t.Errorf("Online = %v, want %v", st.Online, tt.wantOnline)
			}
			if st.Raw == "" {
				t.Error("Raw transcript empty")
			}
		})
	}
}

func TestGetONUOpticalInfo(t *testing.T) {
	t.Run("both directions", func(t *testing.T) {
		sh := mock.NewShell()
		sh.Handle("show pon power attenuation gpon-onu_1/2/1:3", strings.Join([]string{
			"OnuIndex: gpon-onu_1/2/1:3",
			"up      Rx:-20.123(dbm)     Tx:2.538(dbm)      Attenuation:22.661(dB)",
			"down    Tx:3.177(dbm)       Rx:-18.755(dbm)    Attenuation:21.932(dB)",
		}, "\n"))
		a := testAdapter(sh)

		info, err := a.GetONUOpticalInfo(context.Background(), 2, 1, 3)
		if err != nil {
			t.Fatalf("GetONUOpticalInfo: %v", err)
		}
		// The terminal's receive power is the down-direction Rx, its
		// transmit power the up-direction Tx.
		if info.RxPowerDBm == nil || *info.RxPowerDBm != -18.755 {
			t.Errorf("RxPowerDBm = %v, want -18.755", info.RxPowerDBm)
		}
		if info.TxPowerDBm == nil || *info.TxPowerDBm != 2.538 {
			t.Errorf("TxPowerDBm = %v, want 2.538", info.TxPowerDBm)
		}
		if info.SignalQuality != types.SignalAceptable {
			t.Errorf("SignalQuality = %q, want %q", info.SignalQuality, types.SignalAceptable)
		}
		if info.Temperature != nil || info.Voltage != nil || info.DistanceM != nil {
			t.Errorf("fields this command never reports were set: %+v", info)
		}
	})

	t.Run("wavelength suffixed labels", func(t *testing.T) {
		sh := mock.NewShell()
		sh.Handle("show pon power attenuation gpon-onu_1/2/1:3", strings.Join([]string{
			"up   Rx :-19.405(dbm)   Tx1310 : 2.726(dbm)   Attenuation:21.4(dB)",
			"down Tx :3.567(dbm)     Rx1490 :-15.434(dbm)  Attenuation:19.0(dB)",
		}, "\n"))
		a := testAdapter(sh)

		info, err := a.GetONUOpticalInfo(context.Background(), 2, 1, 3)
		if err != nil {
			t.Fatalf("GetONUOpticalInfo: %v", err)
		}
		if info.RxPowerDBm == nil || *info.RxPowerDBm != -15.434 {
			t.Errorf("RxPowerDBm = %v, want -15.434", info.RxPowerDBm)
		}
		if info.TxPowerDBm == nil || *info.TxPowerDBm != 2.726 {
			t.Errorf("TxPowerDBm = %v, want 2.726", info.TxPowerDBm)
		}
		if info.SignalQuality != types.SignalBuena {
			t.Errorf("SignalQuality = %q, want %q", info.SignalQuality, types.SignalBuena)
		}
	})

	t.Run("unparseable output keeps raw", func(t *testing.T) {
		sh := mock.NewShell()
		sh.Handle("show pon power attenuation gpon-onu_1/2/1:3", "% Invalid input detected\n")
		a := testAdapter(sh)

		info, err := a.GetONUOpticalInfo(context.Background(), 2, 1, 3)
		if err != nil {
			t.Fatalf("GetONUOpticalInfo: %v", err)
		}
		if info.RxPowerDBm != nil || info.TxPowerDBm != nil {
			t.Errorf("powers parsed from garbage: %+v", info)
		}
		if info.Raw == "" {
			t.Error("Raw transcript empty")
		}
	})
}

func TestListONUsOnPort(t *testing.T) {
	sh := mock.NewShell()
	sh.Handle("show gpon onu state gpon-olt_1/2/1", stateTable)
	a := testAdapter(sh)

	onus, err := a.ListONUsOnPort(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("ListONUsOnPort: %v", err)
	}
	if len(onus) != 3 {
		t.Fatalf("got %d onus, want 3", len(onus))
	}

	wantIDs := []int{1, 2, 5}
	wantStates := []string{"online", "offline", "online"}
	for i := range onus {
		if onus[i].ONUID != wantIDs[i] {
			t.Errorf("onu[%d] id = %d, want %d", i, onus[i].ONUID, wantIDs[i])
		}
		if onus[i].State != wantStates[i] {
			t.Errorf("onu %d State = %q, want %q", onus[i].ONUID, onus[i].State, wantStates[i])
		}
	}
}

func TestConfigureONUService(t *testing.T) {
	sh := mock.NewShell()
	a := testAdapter(sh)

	if err := a.ConfigureONUService(context.Background(), 2, 1, 3, 200); err != nil {
		t.Fatalf("ConfigureONUService: %v", err)
	}

	want := []string{
		"configure terminal",
		"pon-onu-mng gpon-onu_1/2/1:3",
		"service-port 1 vport 1 user-vlan 200 vlan 200",
		"exit",
		"exit",
	}
	if got := sh.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("commands = %q, want %q", got, want)
	}
}

func TestParseHostname(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"plain", "OLT-CENTRO\n", "OLT-CENTRO"},
		{"padded with echo", "hostname is:\n  OLT-NORTE\n", "OLT-NORTE"},
		{"empty", "\n\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseHostname(tt.output); got != tt.want {
				t.Errorf("parseHostname(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}
