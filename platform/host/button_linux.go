//go:build linux && !rp2040 && !rp2350

package host

import (
	"github.com/warthog618/go-gpiocdev"

	"heaterctl-go/types"
)

// GPIOButton reads an active-low button through the Linux character device,
// for hosts with real GPIO such as a Pi driving a dev rig.
type GPIOButton struct {
	line *gpiocdev.Line
}

func NewButton(chip string, offset int) types.Button {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return &FakeButton{}
	}
	return &GPIOButton{line: line}
}

func (b *GPIOButton) Pressed() bool {
	v, err := b.line.Value()
	return err == nil && v == 0
}
