package console

import (
	"strings"

	"heaterctl-go/logx"
	"heaterctl-go/x/timex"
)

// SystemInfo answers the read-only inspection commands.
type SystemInfo struct {
	UptimeMs    func() uint64
	ResetReason func() string
	IPAddress   func() string
}

// ConfigAccess exposes the settings the console may show and change.
type ConfigAccess struct {
	DeviceName func() string
	WifiSSID   func() string
	SetName    func(string)
}

// FileAccess exposes the file commands.
type FileAccess struct {
	List   func(path string) (string, error)
	Cat    func(path string) (string, error)
	Remove func(path string) error
}

// Actions are the state-changing commands.
type Actions struct {
	Provision    func(ssid, pass, deviceName string) error
	FactoryReset func()
	Reboot       func()
	Scan         func() ([]string, error)
}

// Builtins wires the standard command set.
type Builtins struct {
	Sys   SystemInfo
	Cfg   ConfigAccess
	Files FileAccess
	Act   Actions
	Log   *logx.Logger
}

// RegisterBuiltins installs the standard commands in a fixed order.
func (c *Console) RegisterBuiltins(b Builtins) {
	c.RegisterCommand("help", "list available commands", func([]string) {
		c.PrintHelp()
	})

	c.RegisterCommand("echo", "print the arguments", func(args []string) {
		c.Printf("%s\r\n", strings.Join(args, " "))
	})

	c.RegisterCommand("config", "show current settings", func([]string) {
		c.Printf("deviceName: %s\r\n", b.Cfg.DeviceName())
		c.Printf("wifiSsid: %s\r\n", b.Cfg.WifiSSID())
		c.Printf("ip: %s\r\n", b.Sys.IPAddress())
	})

	c.RegisterCommand("name", "set the device name", func(args []string) {
		if len(args) != 1 {
			c.Printf("usage: name <deviceName>\r\n")
			return
		}
		b.Cfg.SetName(args[0])
		c.Printf("OK\r\n")
	})

	c.RegisterCommand("provision", "set wifi credentials", func(args []string) {
		if len(args) < 2 || len(args) > 3 {
			c.Printf("usage: provision <ssid> <password> [deviceName]\r\n")
			return
		}
		name := ""
		if len(args) == 3 {
			name = args[2]
		}
		if err := b.Act.Provision(args[0], args[1], name); err != nil {
			c.Printf("provision failed: %v\r\n", err)
			return
		}
		c.Printf("OK, rebooting\r\n")
	})

	c.RegisterCommand("scan", "list visible wifi networks", func([]string) {
		names, err := b.Act.Scan()
		if err != nil {
			c.Printf("scan failed: %v\r\n", err)
			return
		}
		for _, n := range names {
			c.Printf("  %s\r\n", n)
		}
	})

	c.RegisterCommand("dir", "list files", func(args []string) {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}
		out, err := b.Files.List(path)
		if err != nil {
			c.Printf("dir failed: %v\r\n", err)
			return
		}
		c.Printf("%s", out)
	})

	c.RegisterCommand("cat", "print a file", func(args []string) {
		if len(args) != 1 {
			c.Printf("usage: cat <path>\r\n")
			return
		}
		data, err := b.Files.Cat(args[0])
		if err != nil {
			c.Printf("cat failed: %v\r\n", err)
			return
		}
		c.Printf("%s\r\n", data)
	})

	c.RegisterCommand("rm", "remove a file", func(args []string) {
		if len(args) != 1 {
			c.Printf("usage: rm <path>\r\n")
			return
		}
		if err := b.Files.Remove(args[0]); err != nil {
			c.Printf("rm failed: %v\r\n", err)
			return
		}
		c.Printf("OK\r\n")
	})

	c.RegisterCommand("uptime", "show time since boot", func([]string) {
		h, m, s, _ := timex.MsToHMSms(b.Sys.UptimeMs())
		c.Printf("%d:%d:%d\r\n", h, m, s)
	})

	c.RegisterCommand("resetreason", "show why the device last restarted", func([]string) {
		c.Printf("%s\r\n", b.Sys.ResetReason())
	})

	c.RegisterCommand("loglevel", "set log verbosity", func(args []string) {
		if len(args) != 1 {
			c.Printf("loglevel: %s\r\n", b.Log.Level().String())
			return
		}
		level, ok := logx.LevelFromString(args[0])
		if !ok {
			c.Printf("unknown level %s\r\n", args[0])
			return
		}
		b.Log.SetLevel(level)
		c.Printf("OK\r\n")
	})

	c.RegisterCommand("factoryreset", "erase settings and reboot", func([]string) {
		b.Act.FactoryReset()
	})

	c.RegisterCommand("reboot", "restart the device", func([]string) {
		b.Act.Reboot()
	})
}
