//go:build rp2040 || rp2350

package pico

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	displayWidth  = 128
	displayHeight = 64
	displayAddr   = 0x3C
	rowHeight     = 8
)

var displayWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// SSD1306Display is the 128x64 OLED on I2C0 (SDA GP4, SCL GP5).
type SSD1306Display struct {
	dev  ssd1306.Device
	font tinyfont.Fonter
}

func NewDisplay() *SSD1306Display {
	return &SSD1306Display{font: &proggy.TinySZ8pt7b}
}

func (d *SSD1306Display) Configure() error {
	i2c := machine.I2C0
	err := i2c.Configure(machine.I2CConfig{
		SDA:       machine.GP4,
		SCL:       machine.GP5,
		Frequency: 400 * machine.KHz,
	})
	if err != nil {
		return err
	}
	d.dev = ssd1306.NewI2C(i2c)
	d.dev.Configure(ssd1306.Config{
		Width:   displayWidth,
		Height:  displayHeight,
		Address: displayAddr,
	})
	d.dev.ClearDisplay()
	return nil
}

func (d *SSD1306Display) Clear() {
	d.dev.ClearBuffer()
}

func (d *SSD1306Display) PrintLine(row int, text string) {
	y := int16(row*rowHeight + rowHeight - 1)
	tinyfont.WriteLine(&d.dev, d.font, 0, y, text, displayWhite)
}

func (d *SSD1306Display) Flush() error {
	return d.dev.Display()
}

// PaintSplash centers the title and subtitle on separate lines.
func (d *SSD1306Display) PaintSplash(title, subtitle string) error {
	d.dev.ClearBuffer()
	d.writeCentered(title, displayHeight/2-4)
	d.writeCentered(subtitle, displayHeight/2+10)
	return d.dev.Display()
}

func (d *SSD1306Display) writeCentered(text string, y int16) {
	_, w := tinyfont.LineWidth(d.font, text)
	x := (int16(displayWidth) - int16(w)) / 2
	if x < 0 {
		x = 0
	}
	tinyfont.WriteLine(&d.dev, d.font, x, y, text, displayWhite)
}
