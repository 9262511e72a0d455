// Package usbphy exposes the USB PHY sequencer on the bus.
//
// Topics:
//
//	hal/cap/usb/phy/<id>/control/<verb>   power_on | power_off | suspend | resume | status
//	hal/cap/usb/phy/<instance>/state      retained types.PhyState
//	hal/cap/usb/phy/<instance>/status     retained types.CapabilityStatus
//	hal/cap/usb/phy/<instance>/info       retained types.Info
//	hal/cap/usb/phy/state                 retained types.ServiceState
//
// <id> is the controller's device identifier ("s3c-hsotg", "s5p-ehci", ...);
// <instance> is the PHY port it resolves to ("device" or "host").
package usbphy

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/physic"

	"mini210/board"
	"mini210/bus"
	"mini210/drivers/usbphy"
	"mini210/errcode"
	"mini210/types"
	"mini210/x/logx"
)

const driverName = "s5pv210-usbphy"

var (
	topicConfig  = bus.T("config", "usbphy")
	topicBase    = bus.T("hal", "cap", "usb", "phy")
	topicControl = topicBase.Append("+", "control", "+")
	topicState   = topicBase.Append("state")
)

// Sequencer is the part of *usbphy.PHY the service drives.
type Sequencer interface {
	Init(id string) error
	Exit(id string) error
	RefRate() (physic.Frequency, error)
	Status(inst usbphy.Instance) (usbphy.Status, error)
}

type port struct {
	state  types.PhyState
	ever   bool   // powered at least once
	refErr string // code of the last failed reference clock read
}

type Service struct {
	conn  *bus.Connection
	seq   Sequencer
	log   *slog.Logger
	ports map[usbphy.Instance]*port
	now   func() time.Time
}

func New(conn *bus.Connection, seq Sequencer) *Service {
	s := &Service{
		conn:  conn,
		seq:   seq,
		log:   logx.For(logx.ComponentService).With("service", "usbphy"),
		ports: map[usbphy.Instance]*port{},
		now:   time.Now,
	}
	for _, inst := range []usbphy.Instance{usbphy.Device, usbphy.Host} {
		s.ports[inst] = &port{state: types.PhyState{Instance: inst.String(), Power: types.PhyUnpowered}}
	}
	return s
}

// Start runs the service loop in a goroutine.
func (s *Service) Start(ctx context.Context) {
	go s.Run(ctx)
}

// Run serves until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	ctrlSub := s.conn.Subscribe(topicControl)
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)

	s.publishInfo()
	for _, p := range s.ports {
		s.publishPort(p)
	}
	s.publishState("idle", "awaiting_config", nil)

	for {
		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled", nil)
			return

		case msg := <-cfgSub.Channel():
			if msg == nil || msg.Payload == nil {
				continue
			}
			var cfg types.PhyConfig
			if err := decodeJSON(msg.Payload, &cfg); err != nil {
				s.publishState("idle", "config_decode_failed", err)
				continue
			}
			if err := s.autostart(cfg.Autostart); err != nil {
				s.publishState("ready", "autostart_failed", err)
				continue
			}
			s.publishState("ready", "configured", nil)

		case msg := <-ctrlSub.Channel():
			if msg == nil {
				continue
			}
			s.handleControl(msg)
		}
	}
}

// autostart powers on each listed identifier once per port.
func (s *Service) autostart(ids []string) error {
	var first error
	done := map[usbphy.Instance]bool{}
	for _, id := range ids {
		inst, err := usbphy.ResolveInstance(id)
		if err != nil {
			s.log.Warn("autostart", "device", id, "err", err)
			first = firstErr(first, err)
			continue
		}
		if done[inst] {
			continue
		}
		done[inst] = true
		if err := s.powerOn(id, inst); err != nil {
			first = firstErr(first, err)
		}
	}
	return first
}

// hal/cap/usb/phy/<id>/control/<verb>
func (s *Service) handleControl(msg *bus.Message) {
	if len(msg.Topic) != len(topicControl) {
		s.replyErr(msg, errcode.InvalidTopic)
		return
	}
	id, _ := msg.Topic[4].(string)
	verb, _ := msg.Topic[6].(string)

	inst, err := usbphy.ResolveInstance(id)
	if err != nil {
		s.replyErr(msg, err)
		return
	}
	p := s.ports[inst]

	switch verb {
	case "power_on":
		err = s.powerOn(id, inst)
	case "power_off", "suspend":
		err = s.powerOff(id, inst)
	case "resume":
		if !p.ever {
			err = errcode.New(errcode.InvalidState, "usbphy.resume", inst.String()+" was never powered")
			break
		}
		err = s.powerOn(id, inst)
	case "status":
		st, serr := s.seq.Status(inst)
		if serr != nil {
			s.replyErr(msg, serr)
			return
		}
		s.conn.Reply(msg, types.PhyStatus{
			Instance:  st.Instance.String(),
			DomainOn:  st.DomainOn,
			PoweredUp: st.PoweredUp,
			InReset:   st.InReset,
			CommonOn:  st.CommonOn,
			RefHz:     hertz(st.RefRate),
			Raw:       st.Raw,
		}, false)
		return
	default:
		err = errcode.New(errcode.Unsupported, "usbphy.control", verb)
	}
	if err != nil {
		s.replyErr(msg, err)
		return
	}
	s.conn.Reply(msg, types.OKReply{OK: true}, false)
}

func (s *Service) powerOn(id string, inst usbphy.Instance) error {
	p := s.ports[inst]
	p.state.Device = id
	if err := s.seq.Init(id); err != nil {
		s.fail(p, err)
		return err
	}
	p.ever = true
	p.state.Power = types.PhyPowered
	p.state.Error = ""
	p.state.RefHz, p.refErr = 0, ""
	if ref, err := s.seq.RefRate(); err != nil {
		p.refErr = string(errcode.Of(err))
		s.log.Warn("reference clock unreadable", "device", id, "instance", inst, "err", err)
	} else {
		p.state.RefHz = hertz(ref)
	}
	s.publishPort(p)
	s.log.Info("powered on", "device", id, "instance", inst)
	return nil
}

func (s *Service) powerOff(id string, inst usbphy.Instance) error {
	p := s.ports[inst]
	p.state.Device = id
	if err := s.seq.Exit(id); err != nil {
		s.fail(p, err)
		return err
	}
	p.state.Power = types.PhyUnpowered
	p.state.Error = ""
	p.refErr = ""
	s.publishPort(p)
	s.log.Info("powered off", "device", id, "instance", inst)
	return nil
}

func (s *Service) fail(p *port, err error) {
	p.state.Power = types.PhyError
	p.state.Error = string(errcode.Of(err))
	s.publishPort(p)
	s.log.Error("sequence failed", "instance", p.state.Instance, "err", err)
}

// ---- publishing ----

func (s *Service) publishPort(p *port) {
	p.state.TS = s.now().UnixNano()
	s.pubRet(topicBase.Append(p.state.Instance, "state"), p.state)
	s.pubRet(topicBase.Append(p.state.Instance, "status"), p.status())
}

// status maps the port state onto the generic capability link.
func (p *port) status() types.CapabilityStatus {
	st := types.CapabilityStatus{Link: types.LinkDown, TS: p.state.TS}
	switch {
	case p.state.Power == types.PhyError:
		st.Link, st.Error = types.LinkDegraded, p.state.Error
	case p.state.Power == types.PhyPowered && p.refErr != "":
		st.Link, st.Error = types.LinkDegraded, p.refErr
	case p.state.Power == types.PhyPowered:
		st.Link = types.LinkUp
	}
	return st
}

func (s *Service) publishInfo() {
	devs := map[usbphy.Instance][]string{}
	for _, d := range board.USBDevices() {
		if inst, ok := d.PHYInstance(); ok {
			devs[inst] = append(devs[inst], d.Name)
		}
	}
	for inst := range s.ports {
		s.pubRet(topicBase.Append(inst.String(), "info"), types.Info{
			SchemaVersion: 1,
			Driver:        driverName,
			Detail:        types.PhyInfo{Instance: inst.String(), Devices: devs[inst]},
		})
	}
}

func (s *Service) publishState(level, status string, err error) {
	if err != nil {
		s.log.Warn("state", "level", level, "status", status, "err", err)
	}
	s.pubRet(topicState, types.ServiceState{Level: level, Status: status, TS: s.now().UnixNano()})
}

func (s *Service) pubRet(t bus.Topic, v any) {
	s.conn.Publish(s.conn.NewMessage(t, v, true))
}

func (s *Service) replyErr(req *bus.Message, err error) {
	s.conn.Reply(req, types.ErrorReply{OK: false, Error: string(errcode.Of(err))}, false)
}

// ---- helpers ----

func hertz(f physic.Frequency) uint64 { return uint64(f / physic.Hertz) }

func firstErr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}

func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case *T:
		*dst = *v
		return nil
	case T:
		*dst = v
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		// Accept maps and foreign structs by marshaling then decoding to T.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
