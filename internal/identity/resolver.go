package identity

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Cgriz365/inkbridge/internal/credstore"
	"github.com/Cgriz365/inkbridge/internal/logging"
)

// Sentinel is the stored value that older firmware wrote for "never set".
const Sentinel = "null"

// ErrNetworkRequired is returned when the device id must be derived but the network is down.
var ErrNetworkRequired = errors.New("network connection required to derive device id")

// IsAbsent reports whether a loaded value should be treated as missing.
func IsAbsent(value string, present bool) bool {
	return !present || value == Sentinel
}

// Resolver derives the device id from the network and persists it.
type Resolver struct {
	Network Network
	Store   credstore.Store
}

// ResolveDeviceID returns the stored id when one is present. Otherwise it derives the id
// from the hardware address, persists it and returns it.
func (r *Resolver) ResolveDeviceID(stored string, present bool) (string, error) {
	if !IsAbsent(stored, present) && stored != "" {
		return stored, nil
	}

	if r.Network == nil || !r.Network.Connected() {
		return "", ErrNetworkRequired
	}

	addr, err := r.Network.HardwareAddr()
	if err != nil {
		return "", fmt.Errorf("reading hardware address: %w", err)
	}

	id := NormalizeHardwareAddr(addr)
	if id == "" {
		return "", fmt.Errorf("hardware address %q is empty: %w", addr, ErrNoInterface)
	}

	if r.Store != nil {
		if err := r.Store.Save(credstore.KeyDeviceID, id); err != nil {
			// The id is still usable for this session; it is re-derived on the next boot.
			logging.Warn("Failed to persist device id", zap.String("device_id", id), zap.Error(err))
		}
	}

	logging.Info("Derived device id", zap.String("device_id", id))
	return id, nil
}
