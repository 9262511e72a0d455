package config

import (
	"context"
	"encoding/json"
	"log/slog"

	"mini210/bus"
	"mini210/errcode"
	"mini210/types"
	"mini210/x/logx"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// sections maps known top-level keys to a constructor for their typed
// payload. Unknown keys are published as decoded JSON values.
var sections = map[string]func() any{
	"usbphy": func() any { return new(types.PhyConfig) },
	"lcd":    func() any { return new(types.LCDConfig) },
	"eeprom": func() any { return new(types.EEPROMConfig) },
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	log  *slog.Logger
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName, log: logx.For(logx.ComponentService).With("service", serviceName)}
}

// Decode parses raw board JSON into one payload per section. Known sections
// are returned as pointers to their types package struct.
func Decode(raw []byte) (map[string]any, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "config.decode", err)
	}
	out := make(map[string]any, len(top))
	for k, v := range top {
		var dst any
		if mk, ok := sections[k]; ok {
			dst = mk()
			if err := json.Unmarshal(v, dst); err != nil {
				return nil, errcode.Wrap(errcode.InvalidParams, "config.decode."+k, err)
			}
			out[k] = dst
			continue
		}
		if err := json.Unmarshal(v, &dst); err != nil {
			return nil, errcode.Wrap(errcode.InvalidParams, "config.decode."+k, err)
		}
		out[k] = dst
	}
	return out, nil
}

// publishConfig reads the device config from embedded data and publishes
// each section as a retained message.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errcode.New(errcode.InvalidParams, "config.publish", "missing device ID in context")
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return errcode.New(errcode.Unsupported, "config.publish", "no embedded config for device: "+device)
	}

	m, err := Decode(raw)
	if err != nil {
		return err
	}
	for k, v := range m {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}
	s.log.Info("published", "device", device, "sections", len(m))
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			s.log.Error("publish failed", "err", err)
		}
	}()
}
