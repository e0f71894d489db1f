package identity

import (
	"errors"
	"testing"

	"github.com/Cgriz365/inkbridge/internal/credstore"
)

func TestNormalizeHardwareAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AA:BB:CC:11:22:33", "AABBCC112233"},
		{"aa:bb:cc:11:22:33", "AABBCC112233"},
		{"aa-bb-cc-11-22-33", "AABBCC112233"},
		{"aabb.cc11.2233", "AABBCC112233"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeHardwareAddr(tt.in); got != tt.want {
				t.Errorf("NormalizeHardwareAddr(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsAbsent(t *testing.T) {
	tests := []struct {
		value   string
		present bool
		want    bool
	}{
		{"", false, true},
		{"null", true, true},
		{"", true, false},
		{"AABB", true, false},
	}

	for _, tt := range tests {
		if got := IsAbsent(tt.value, tt.present); got != tt.want {
			t.Errorf("IsAbsent(%q, %v) = %v, want %v", tt.value, tt.present, got, tt.want)
		}
	}
}

func TestResolveDeviceIDFastPath(t *testing.T) {
	store := credstore.NewMemoryStore()
	r := &Resolver{Network: StaticNetwork{Online: false}, Store: store}

	id, err := r.ResolveDeviceID("STOREDID", true)
	if err != nil {
		t.Fatalf("ResolveDeviceID() error = %v", err)
	}
	if id != "STOREDID" {
		t.Errorf("ResolveDeviceID() = %q, want STOREDID", id)
	}
	if len(store.Snapshot()) != 0 {
		t.Error("fast path should not write to the store")
	}
}

func TestResolveDeviceIDDerivesAndPersists(t *testing.T) {
	store := credstore.NewMemoryStore()
	r := &Resolver{Network: StaticNetwork{Online: true, MAC: "AA:BB:CC:11:22:33"}, Store: store}

	for _, stored := range []struct {
		value   string
		present bool
	}{
		{"", false},
		{"null", true},
		{"", true},
	} {
		id, err := r.ResolveDeviceID(stored.value, stored.present)
		if err != nil {
			t.Fatalf("ResolveDeviceID(%q) error = %v", stored.value, err)
		}
		if id != "AABBCC112233" {
			t.Errorf("ResolveDeviceID(%q) = %q, want AABBCC112233", stored.value, id)
		}
	}

	if got, _ := store.Load(credstore.KeyDeviceID); got != "AABBCC112233" {
		t.Errorf("persisted device id = %q, want AABBCC112233", got)
	}
}

func TestResolveDeviceIDNetworkRequired(t *testing.T) {
	r := &Resolver{Network: StaticNetwork{Online: false, MAC: "AA:BB:CC:11:22:33"}, Store: credstore.NewMemoryStore()}

	_, err := r.ResolveDeviceID("", false)
	if !errors.Is(err, ErrNetworkRequired) {
		t.Errorf("ResolveDeviceID() error = %v, want ErrNetworkRequired", err)
	}
}

func TestResolveDeviceIDNoHardwareAddr(t *testing.T) {
	r := &Resolver{Network: StaticNetwork{Online: true}, Store: credstore.NewMemoryStore()}

	_, err := r.ResolveDeviceID("", false)
	if !errors.Is(err, ErrNoInterface) {
		t.Errorf("ResolveDeviceID() error = %v, want ErrNoInterface", err)
	}
}

func TestResolveDeviceIDUnavailableStore(t *testing.T) {
	store := credstore.NewMemoryStore()
	store.Unavailable = true
	r := &Resolver{Network: StaticNetwork{Online: true, MAC: "01:02:03:04:05:06"}, Store: store}

	id, err := r.ResolveDeviceID("", false)
	if err != nil {
		t.Fatalf("ResolveDeviceID() error = %v", err)
	}
	if id != "010203040506" {
		t.Errorf("ResolveDeviceID() = %q, want 010203040506", id)
	}
}

func TestStaticNetwork(t *testing.T) {
	n := StaticNetwork{Online: true, MAC: "AA:BB"}
	if !n.Connected() {
		t.Error("Connected() = false, want true")
	}
	if mac, err := n.HardwareAddr(); err != nil || mac != "AA:BB" {
		t.Errorf("HardwareAddr() = %q, %v", mac, err)
	}
}
