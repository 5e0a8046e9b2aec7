//go:build rp2040 || rp2350

package pico

import (
	"errors"
	"io"
	"log/slog"
	"net/netip"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/seqs/eth/dhcp"
	"github.com/soypat/seqs/stacks"

	"heaterctl-go/types"
)

const (
	mtu           = cyw43439.MTU
	dhcpWaitSlots = 15
	apChannel     = 6
)

var apStaticAddr = netip.MustParseAddr("192.168.4.1")

// Radio owns the CYW43439 and the userspace network stack layered on it.
type Radio struct {
	dev    *cyw43439.Device
	stack  *stacks.PortStack
	logger *slog.Logger

	status  types.LinkStatus
	staAddr netip.Addr
	apAddr  netip.Addr
	mac     [6]byte
	apOn    bool
}

func NewRadio() (*Radio, error) {
	r := &Radio{
		logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)})),
	}
	r.dev = cyw43439.NewPicoWDevice()
	wificfg := cyw43439.DefaultWifiConfig()
	if err := r.dev.Init(wificfg); err != nil {
		return nil, err
	}
	mac, err := r.dev.HardwareAddr6()
	if err != nil {
		return nil, err
	}
	r.mac = mac
	return r, nil
}

// startStack builds the port stack and begins the NIC pump. One stack per
// radio role; a role change rebuilds it.
func (r *Radio) startStack() {
	r.stack = stacks.NewPortStack(stacks.PortStackConfig{
		MAC:             r.mac,
		MaxOpenPortsUDP: 2,
		MaxOpenPortsTCP: 2,
		MTU:             mtu,
		Logger:          r.logger,
	})
	r.dev.RecvEthHandle(r.stack.RecvEth)
	go nicLoop(r.dev, r.stack)
}

func (r *Radio) Stack() *stacks.PortStack { return r.stack }

// EnableAP opens an unencrypted access point with a static address.
func (r *Radio) EnableAP(ssid string) error {
	if err := r.dev.StartAP(ssid, "", apChannel); err != nil {
		return err
	}
	r.startStack()
	r.stack.SetAddr(apStaticAddr)
	r.apAddr = apStaticAddr
	r.apOn = true
	return nil
}

func (r *Radio) DisableAP() error {
	r.apOn = false
	r.apAddr = netip.Addr{}
	return nil
}

// BeginJoin starts the association and DHCP exchange in the background;
// progress is reported through Status.
func (r *Radio) BeginJoin(ssid, password string) error {
	r.status = types.LinkConnecting
	go r.join(ssid, password)
	return nil
}

func (r *Radio) join(ssid, password string) {
	if err := r.dev.JoinWPA2(ssid, password); err != nil {
		r.status = types.LinkFailed
		return
	}
	r.startStack()

	dhcpClient := stacks.NewDHCPClient(r.stack, dhcp.DefaultClientPort)
	err := dhcpClient.BeginRequest(stacks.DHCPRequestConfig{
		Xid:      uint32(time.Now().Nanosecond()),
		Hostname: "heaterctl",
	})
	if err != nil {
		r.status = types.LinkFailed
		return
	}
	for i := 0; dhcpClient.State() != dhcp.StateBound; i++ {
		if i > dhcpWaitSlots {
			r.status = types.LinkFailed
			return
		}
		time.Sleep(time.Second / 2)
	}
	ip := dhcpClient.Offer()
	r.stack.SetAddr(ip)
	r.staAddr = ip
	r.status = types.LinkUp
}

func (r *Radio) Status() types.LinkStatus { return r.status }

func (r *Radio) Disconnect() error {
	r.status = types.LinkIdle
	r.staAddr = netip.Addr{}
	return nil
}

// Scan is not supported by the driver surface we use.
func (r *Radio) Scan() ([]string, error) {
	return nil, errors.New("scan not supported")
}

func (r *Radio) STAAddr() netip.Addr { return r.staAddr }

func (r *Radio) APAddr() netip.Addr {
	if !r.apOn {
		return netip.Addr{}
	}
	return r.apAddr
}

func (r *Radio) HardwareAddr() [6]byte { return r.mac }

// nicLoop shuttles frames between the radio and the stack.
func nicLoop(dev *cyw43439.Device, stack *stacks.PortStack) {
	const (
		queueSize                = 3
		maxRetriesBeforeDropping = 3
	)
	var queue [queueSize][mtu]byte
	var lenBuf [queueSize]int
	var retries [queueSize]int
	markSent := func(i int) {
		lenBuf[i] = 0
		retries[i] = 0
	}
	for {
		stallRx := true
		gotPacket, err := dev.PollOne()
		if err != nil {
			println("poll error:", err.Error())
		}
		if gotPacket {
			stallRx = false
		}

		for i := range queue {
			if retries[i] != 0 {
				continue
			}
			var err error
			buf := queue[i][:]
			lenBuf[i], err = stack.HandleEth(buf[:])
			if err != nil {
				lenBuf[i] = 0
				continue
			}
			if lenBuf[i] == 0 {
				break
			}
		}
		stallTx := lenBuf == [queueSize]int{}
		if stallTx {
			if stallRx {
				time.Sleep(5 * time.Millisecond)
			}
			continue
		}

		for i := range queue {
			n := lenBuf[i]
			if n <= 0 {
				continue
			}
			if err := dev.SendEth(queue[i][:n]); err != nil {
				retries[i]++
				if retries[i] > maxRetriesBeforeDropping {
					markSent(i)
					println("dropped outgoing packet:", err.Error())
				}
			} else {
				markSent(i)
			}
		}
	}
}
