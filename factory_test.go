package southbound

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/zetanet/southbound/types"
	"github.com/zetanet/southbound/vendors/vsol"
	"github.com/zetanet/southbound/vendors/zte"
)

func TestNewDriverAliases(t *testing.T) {
	tests := []struct {
		brand string
		want  interface{}
	}{
		{"vsol", &vsol.Adapter{}},
		{"V-SOL", &vsol.Adapter{}},
		{"zte", &zte.Adapter{}},
		{"ZXA10", &zte.Adapter{}},
		{"  C320  ", &zte.Adapter{}},
		{"c600", &zte.Adapter{}},
	}

	for _, tt := range tests {
		t.Run(tt.brand, func(t *testing.T) {
			d, err := NewDriver(&types.OLTConfig{Name: "olt", Brand: tt.brand})
			if err != nil {
				t.Fatalf("NewDriver(%q): %v", tt.brand, err)
			}
			if got, want := reflect.TypeOf(d), reflect.TypeOf(tt.want); got != want {
				t.Errorf("driver type = %v, want %v", got, want)
			}
		})
	}
}

func TestNewDriverUnsupported(t *testing.T) {
	tests := []struct {
		name  string
		brand string
	}{
		{"recognized but unimplemented", "huawei"},
		{"model alias of unimplemented family", "ma5800"},
		{"unknown label", "ubiquiti"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDriver(&types.OLTConfig{Brand: tt.brand})
			if err == nil {
				t.Fatalf("NewDriver(%q) succeeded", tt.brand)
			}

			var unsupported *types.UnsupportedVendorError
			if !errors.As(err, &unsupported) {
				t.Fatalf("error type = %T, want *types.UnsupportedVendorError", err)
			}
			for _, v := range SupportedVendors() {
				if !strings.Contains(err.Error(), v) {
					t.Errorf("error %q does not mention %q", err, v)
				}
			}
		})
	}
}

func TestResolveVendor(t *testing.T) {
	if v, ok := ResolveVendor(" Huawei "); !ok || v != types.VendorHuawei {
		t.Errorf("ResolveVendor(Huawei) = %q, %v", v, ok)
	}
	if _, ok := ResolveVendor("nokia"); ok {
		t.Error("ResolveVendor recognized an unknown label")
	}
}

func TestSupportedVendors(t *testing.T) {
	want := []string{"vsol", "zte"}
	if got := SupportedVendors(); !reflect.DeepEqual(got, want) {
		t.Errorf("SupportedVendors() = %v, want %v", got, want)
	}
}
