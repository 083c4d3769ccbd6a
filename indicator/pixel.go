//go:build rp2040 || rp2350

package indicator

import (
	"machine"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
)

const pixelIntensity = 32

// Pixel is a single WS2812B LED driven by a PIO state machine. It lights
// green, or red while alerted.
type Pixel struct {
	ws    *piolib.WS2812B
	on    bool
	alert bool
}

// NewPixel claims a state machine on PIO0 and loads the WS2812B program
// for pin.
func NewPixel(pin machine.Pin) (*Pixel, error) {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	ws, err := piolib.NewWS2812B(sm, pin)
	if err != nil {
		return nil, err
	}
	p := &Pixel{ws: ws}
	p.update()
	return p, nil
}

func (p *Pixel) Set(on bool) {
	p.on = on
	p.update()
}

func (p *Pixel) SetAlert(alert bool) {
	p.alert = alert
	p.update()
}

func (p *Pixel) update() {
	switch {
	case !p.on:
		p.ws.PutRGB(0, 0, 0)
	case p.alert:
		p.ws.PutRGB(pixelIntensity, 0, 0)
	default:
		p.ws.PutRGB(0, pixelIntensity, 0)
	}
}
