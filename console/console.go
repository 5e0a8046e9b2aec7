// Package console is the interactive serial command line: byte-at-a-time
// editing with echo, quoted argument parsing, and a registered command set.
package console

import (
	"io"
	"strings"

	"github.com/google/shlex"

	"heaterctl-go/logx"
	"heaterctl-go/types"
	"heaterctl-go/x/fmtx"
	"heaterctl-go/x/strx"
)

const maxLine = 256

// HandlerFunc runs one command. Output goes through Console.Printf.
type HandlerFunc func(args []string)

type command struct {
	desc string
	fn   HandlerFunc
}

type Console struct {
	in   types.Serial
	out  io.Writer
	log  *logx.Logger
	echo bool

	line  []byte
	cmds  map[string]command
	order []string
}

func New(in types.Serial, out io.Writer, echo bool, log *logx.Logger) *Console {
	return &Console{
		in:   in,
		out:  out,
		log:  log,
		echo: echo,
		line: make([]byte, 0, maxLine),
		cmds: map[string]command{},
	}
}

// RegisterCommand adds a command under a case-insensitive name. Registering
// an existing name replaces the handler but keeps its position in help.
func (c *Console) RegisterCommand(name, desc string, fn HandlerFunc) {
	key := strx.LowerASCII(name)
	if _, exists := c.cmds[key]; !exists {
		c.order = append(c.order, key)
	}
	c.cmds[key] = command{desc: desc, fn: fn}
}

func (c *Console) Printf(format string, args ...any) {
	fmtx.Fprintf(c.out, format, args...)
}

// Tick drains every buffered input byte, editing the current line.
func (c *Console) Tick() {
	for c.in.Buffered() > 0 {
		b, err := c.in.ReadByte()
		if err != nil {
			return
		}
		switch b {
		case '\r':
			// CRLF terminals send both; the newline does the work.
		case '\n':
			if c.echo {
				c.out.Write([]byte("\r\n"))
			}
			line := string(c.line)
			c.line = c.line[:0]
			c.ProcessLine(line)
		case 0x08, 0x7F: // backspace, delete
			if len(c.line) > 0 {
				c.line = c.line[:len(c.line)-1]
				if c.echo {
					c.out.Write([]byte("\b \b"))
				}
			}
		default:
			if b < 0x20 || len(c.line) >= maxLine {
				continue
			}
			c.line = append(c.line, b)
			if c.echo {
				c.out.Write([]byte{b})
			}
		}
	}
}

// ParseCommand splits a line shell-style, honoring quotes and escapes.
func ParseCommand(line string) ([]string, error) {
	return shlex.Split(line)
}

// ProcessLine parses and runs one command line. Handler panics are reported
// and contained.
func (c *Console) ProcessLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	args, err := ParseCommand(line)
	if err != nil {
		c.Printf("Parse error: %v\r\n", err)
		return
	}
	if len(args) == 0 {
		return
	}
	name := strx.LowerASCII(args[0])
	cmd, ok := c.cmds[name]
	if !ok {
		c.Printf("Unknown command: %s\r\n", name)
		return
	}
	c.run(name, cmd, args[1:])
}

func (c *Console) run(name string, cmd command, args []string) {
	defer func() {
		if r := recover(); r != nil {
			c.Printf("Command handler exception\r\n")
			c.log.Errorf("console: %q panicked: %v", name, r)
		}
	}()
	cmd.fn(args)
}

// PrintHelp lists commands in registration order.
func (c *Console) PrintHelp() {
	c.Printf("Commands:\r\n")
	for _, name := range c.order {
		c.Printf("  %s - %s\r\n", name, c.cmds[name].desc)
	}
}
