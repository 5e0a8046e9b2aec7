// Package lifecycle boots the device, owns every component, and drives them
// from the cooperative main loop.
package lifecycle

import (
	"heaterctl-go/captivedns"
	"heaterctl-go/clock"
	"heaterctl-go/config"
	"heaterctl-go/console"
	"heaterctl-go/errcode"
	"heaterctl-go/fstore"
	"heaterctl-go/httpd"
	"heaterctl-go/led"
	"heaterctl-go/logx"
	"heaterctl-go/netif"
	"heaterctl-go/ota"
	"heaterctl-go/screen"
	"heaterctl-go/types"
	"heaterctl-go/x/conv"
	"heaterctl-go/x/timex"
)

const Version = "1.0.0"

const (
	httpPort           = 80
	splashMs           = 3000
	factoryResetHoldMs = 10000
	postSaveRebootMs   = 500
	apNamePrefix       = "Heater-"
	provisioningRoot   = "/provisioning"
)

type State uint8

const (
	StateBoot State = iota
	StateFSFailed
	StateUnprovisioned
	StateConnecting
	StateOnline
	StateOffline
)

func (s State) String() string {
	switch s {
	case StateBoot:
		return "boot"
	case StateFSFailed:
		return "fs-failed"
	case StateUnprovisioned:
		return "unprovisioned"
	case StateConnecting:
		return "connecting"
	case StateOnline:
		return "online"
	case StateOffline:
		return "offline"
	}
	return "unknown"
}

// App owns every component and the boot state machine.
type App struct {
	hw  types.Hardware
	clk *clock.Clock
	log *logx.Logger

	files  *fstore.Store
	cfg    *config.Store
	led    *led.LED
	screen *screen.Screen
	net    *netif.Iface
	dns    *captivedns.Server
	http   *httpd.Server
	ota    *ota.Starter
	cons   *console.Console

	state State

	pressing   bool
	pressStart uint32
	resetFired bool

	rebootAtMs uint64
}

func NewApp(hw types.Hardware) *App {
	return &App{hw: hw}
}

// Boot brings up storage, settings, interfaces, and the splash. Network
// startup is chained to the splash expiry so boot messages stay visible.
func (a *App) Boot() {
	a.clk = clock.New(a.hw.System)
	a.log = logx.New(a.hw.LogWriter, logx.LevelInfo, a.clk.UptimeMs)
	a.log.Infof("boot: v%s, reset reason %s", Version, a.clk.ResetReason())

	a.files = fstore.New(a.hw.FS, a.log)
	mountErr := a.files.Mount()

	a.cfg = config.New(a.files, a.clk, a.log)
	if mountErr == nil {
		if err := a.cfg.Init(); err != nil {
			a.log.Warnf("boot: config init: %v", err)
		}
	}

	a.led = led.New(a.hw.Strip, a.clk, a.log)
	a.screen = screen.New(a.hw.Display, a.clk, a.log)
	a.net = netif.New(a.hw.Radio, a.cfg, a.clk, a.log)
	a.dns = captivedns.New(a.log)
	a.http = httpd.New(a.files, a.log)
	a.ota = ota.New(a.hw.OTA, a.cfg, a.net, a.clk, a.log)

	a.cons = console.New(a.hw.Serial, a.hw.Serial, true, a.log)
	a.registerConsole()

	if mountErr != nil {
		a.log.Errorf("boot: filesystem unavailable: %v", mountErr)
		a.enterFSFailed()
		a.screen.InitWithSplash(a.cfg.DeviceName(), "v"+Version, splashMs, nil)
		a.screen.ShowError("no filesystem")
		return
	}

	a.screen.InitWithSplash(a.cfg.DeviceName(), "v"+Version, splashMs, a.startNetwork)
}

func (a *App) State() State { return a.state }

func (a *App) enterFSFailed() {
	a.state = StateFSFailed
	a.led.StartBlink("#FF0000", 100, 500, 500)
}

// startNetwork runs once the splash is done: join the stored network or
// open the provisioning portal.
func (a *App) startNetwork() {
	if !a.cfg.Provisioned() {
		a.log.Infof("net: no credentials, entering setup mode")
		a.enterPortal()
		return
	}

	a.state = StateConnecting
	a.led.StartBlink("#0000FF", 100, 250, 250)
	a.screen.ShowStatus("Connecting to", a.cfg.WifiSSID())

	if err := a.net.ConnectSTA(); err != nil {
		a.log.Warnf("net: %v", err)
		a.state = StateOffline
		a.led.StartBlink("#FF0000", 100, 150, 150)
		a.screen.ShowStatus("WiFi failed", "Check network")
		return
	}

	a.state = StateOnline
	a.led.StartBlink("#00FF00", 100, 100, 2900)
	a.screen.ShowStatus("WiFi Connected", "Normal mode")
	a.startOnlineServices()
}

// startOnlineServices brings up the LAN-facing surface after a join.
func (a *App) startOnlineServices() {
	a.registerStatusRoutes()
	a.http.ServeStatic("/", "/www/index.html")
	a.http.ServeStatic("/*", "/www/*")
	if err := a.http.Begin(a.hw.ListenTCP, httpPort); err != nil {
		a.log.Errorf("net: http start: %v", err)
	}
	if err := a.hw.MDNS.Announce(a.cfg.DeviceName(), httpPort, []string{"version=" + Version}); err != nil {
		a.log.Warnf("net: mdns: %v", err)
	}
	a.ota.Begin(true)
}

// enterPortal opens the access point with the captive DNS and the
// provisioning pages.
func (a *App) enterPortal() {
	a.state = StateUnprovisioned

	name := a.apName()
	if err := a.net.StartAP(name); err != nil {
		a.log.Errorf("net: %v", err)
		a.screen.ShowError("AP start failed")
		a.led.StartBlink("#FF0000", 100, 150, 150)
		return
	}
	a.led.StartBlink("#FFFF00", 100, 250, 250)
	a.screen.ShowStatus(name, "http://"+a.net.IPAddress().String())

	if err := a.dns.Start(a.hw.ListenUDP, a.net.IPAddress()); err != nil {
		a.log.Errorf("net: dns start: %v", err)
	}

	a.registerPortalRoutes()
	a.http.ServeStatic("/", provisioningRoot+"/index.html")
	a.http.ServeStatic("/*", provisioningRoot+"/*")
	if err := a.http.Begin(a.hw.ListenTCP, httpPort); err != nil {
		a.log.Errorf("net: http start: %v", err)
	}
	if err := a.hw.MDNS.Announce(a.cfg.DeviceName(), httpPort, []string{"setup=1"}); err != nil {
		a.log.Warnf("net: mdns: %v", err)
	}
	a.ota.Begin(true)
	a.log.Infof("net: portal up as %q", name)
}

// apName derives the SSID from the last two bytes of the MAC address.
func (a *App) apName() string {
	mac := a.net.HardwareAddr()
	var b [4]byte
	conv.U8Hex(b[:2], mac[4])
	conv.U8Hex(b[2:], mac[5])
	return apNamePrefix + string(b[:])
}

// registerPortalRoutes installs the captive-portal probe answers and the
// save endpoint.
func (a *App) registerPortalRoutes() {
	a.http.On("GET", "/connecttest.txt", func(*httpd.Request) {
		a.http.Send(200, "text/plain", "OK")
	})
	a.http.On("GET", "/generate_204", func(*httpd.Request) {
		a.http.Send(204, "text/plain", "")
	})
	a.http.On("GET", "/hotspot-detect.html", func(*httpd.Request) {
		a.http.Send(200, "text/html", "<html><body>OK</body></html>")
	})
	a.http.On("GET", "/scan", func(*httpd.Request) {
		names, err := a.net.Scan()
		if err != nil {
			a.http.Send(500, "text/plain", "scan failed")
			return
		}
		body := "["
		for i, n := range names {
			if i > 0 {
				body += ","
			}
			body += `"` + n + `"`
		}
		a.http.Send(200, "application/json", body+"]")
	})
	a.http.On("POST", "/save", func(req *httpd.Request) {
		ssid := req.Arg("ssid")
		if ssid == "" {
			a.http.Send(400, "text/plain", "Missing ssid")
			return
		}
		if err := a.Provision(ssid, req.Arg("password"), req.Arg("deviceName")); err != nil {
			a.http.Send(400, "text/plain", "Save failed")
			return
		}
		a.http.Send(200, "text/plain", "Saved. Rebooting...")
		a.scheduleReboot(postSaveRebootMs)
	})
}

func (a *App) registerStatusRoutes() {
	a.http.On("GET", "/status", func(*httpd.Request) {
		body := `{"deviceName":"` + a.cfg.DeviceName() +
			`","version":"` + Version +
			`","state":"` + a.state.String() +
			`","ip":"` + a.net.IPAddress().String() + `"}`
		a.http.Send(200, "application/json", body)
	})
}

// Provision stores new credentials and persists immediately. deviceName is
// optional. Scheduling the reboot that applies them is left to the caller.
func (a *App) Provision(ssid, password, deviceName string) error {
	if ssid == "" {
		return errcode.NoCredentials
	}
	a.cfg.SetWifiSSID(ssid)
	a.cfg.SetWifiPassword(password)
	if deviceName != "" {
		a.cfg.SetDeviceName(deviceName)
	}
	if !a.cfg.ForcePersist() {
		return errcode.CfgPersistFailed
	}
	a.log.Infof("provision: saved %q", ssid)
	return nil
}

// FactoryReset wipes the settings, flashes white twice, and reboots.
// It does not return.
func (a *App) FactoryReset() {
	a.log.Infof("factory reset")
	for i := 0; i < 2; i++ {
		a.led.RGB(255, 255, 255)
		a.clk.SleepMs(300)
		a.led.Off()
		a.clk.SleepMs(300)
	}
	a.cfg.SetWifiSSID("")
	a.cfg.SetWifiPassword("")
	a.cfg.SetDeviceName(config.DefaultDeviceName)
	a.cfg.ForcePersist()
	a.shutdownNetwork()
	a.clk.Reboot(postSaveRebootMs)
}

func (a *App) scheduleReboot(delayMs uint64) {
	at := a.clk.UptimeMs() + delayMs
	if at == 0 {
		at = 1
	}
	a.rebootAtMs = at
}

// shutdownNetwork quiesces every outward surface before a restart.
func (a *App) shutdownNetwork() {
	a.http.Stop()
	a.dns.Stop()
	a.hw.MDNS.Stop()
	a.ota.Stop()
	a.net.StopAP()
	a.net.Disconnect()
}

// Tick runs one pass of every component. Call it roughly every 10ms.
func (a *App) Tick() {
	a.screen.Tick()
	a.checkResetButton()
	if a.state == StateUnprovisioned {
		a.dns.Pump()
	}
	a.ota.Tick()
	a.led.Tick()
	a.cons.Tick()
	a.cfg.Poll()
	a.http.Tick()

	if a.rebootAtMs != 0 && a.clk.UptimeMs() >= a.rebootAtMs {
		a.log.Infof("rebooting")
		a.shutdownNetwork()
		a.clk.Reboot(50)
	}
}

// checkResetButton fires the factory reset after an unbroken 10s hold,
// once per hold.
func (a *App) checkResetButton() {
	if !a.hw.Button.Pressed() {
		a.pressing = false
		a.resetFired = false
		return
	}
	now := a.clk.Millis()
	if !a.pressing {
		a.pressing = true
		a.pressStart = now
		return
	}
	if a.resetFired {
		return
	}
	if timex.ElapsedMs32(now, a.pressStart) >= factoryResetHoldMs {
		a.resetFired = true
		a.FactoryReset()
	}
}

func (a *App) registerConsole() {
	a.cons.RegisterBuiltins(console.Builtins{
		Sys: console.SystemInfo{
			UptimeMs:    a.clk.UptimeMs,
			ResetReason: a.clk.ResetReason,
			IPAddress:   func() string { return a.net.IPAddress().String() },
		},
		Cfg: console.ConfigAccess{
			DeviceName: a.cfg.DeviceName,
			WifiSSID:   a.cfg.WifiSSID,
			SetName:    a.cfg.SetDeviceName,
		},
		Files: console.FileAccess{
			List:   a.listFiles,
			Cat:    a.files.Read,
			Remove: a.files.Remove,
		},
		Act: console.Actions{
			Provision: func(ssid, password, deviceName string) error {
				if err := a.Provision(ssid, password, deviceName); err != nil {
					return err
				}
				a.scheduleReboot(postSaveRebootMs)
				return nil
			},
			FactoryReset: a.FactoryReset,
			Reboot:       func() { a.scheduleReboot(0) },
			Scan:         func() ([]string, error) { return a.net.Scan() },
		},
		Log: a.log,
	})
	a.cons.RegisterCommand("state", "show the lifecycle state", func([]string) {
		a.cons.Printf("%s\r\n", a.state.String())
	})
	a.cons.RegisterCommand("version", "show the firmware version", func([]string) {
		a.cons.Printf("%s\r\n", Version)
	})
}

func (a *App) listFiles(path string) (string, error) {
	infos, err := a.files.List(path)
	if err != nil {
		return "", err
	}
	out := ""
	for _, fi := range infos {
		var n [20]byte
		out += "  " + fi.Name + " (" + string(conv.Utoa(n[:], uint64(fi.Size))) + ")\r\n"
	}
	return out, nil
}
