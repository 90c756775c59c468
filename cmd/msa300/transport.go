package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/mklimuk/msa300"
	"github.com/mklimuk/msa300/adapter"
	"github.com/mklimuk/msa300/fourwire"
	"github.com/mklimuk/msa300/i2c"
)

// Flags shared by every command that talks to the sensor.
var busFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   "mcp2221",
		Usage:   "bus adapter (mcp2221|i2c|fourwire)",
	},
	&cli.StringFlag{Name: "bus", Value: "1", Usage: "host i2c bus name or number"},
	&cli.BoolFlag{Name: "alt-addr", Usage: "use the alternate address (SDO pulled high)"},
	&cli.StringFlag{Name: "clk", Value: "GPIO11", Usage: "clock pin (fourwire)"},
	&cli.StringFlag{Name: "mosi", Value: "GPIO10", Usage: "output pin (fourwire)"},
	&cli.StringFlag{Name: "miso", Value: "GPIO9", Usage: "input pin (fourwire)"},
	&cli.StringFlag{Name: "cs", Value: "GPIO8", Usage: "chip select pin (fourwire)"},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
}

// newSensor builds the transport selected by the adapter flag and wraps it in
// a device handle. It does not connect.
func newSensor(c *cli.Context) (*msa300.MSA300, error) {
	addr := byte(msa300.DefaultAddress)
	if c.Bool("alt-addr") {
		addr = msa300.AltAddress
	}
	switch c.String("adapter") {
	case "mcp2221":
		return msa300.New(msa300.NewI2CTransport(adapter.NewMCP2221(), addr)), nil
	case "i2c":
		bus, err := i2c.NewGenericBus(c.String("bus"))
		if err != nil {
			return nil, fmt.Errorf("could not open i2c bus: %w", err)
		}
		return msa300.New(msa300.NewI2CTransport(bus, addr)), nil
	case "fourwire":
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("could not init host: %w", err)
		}
		pins := make(map[string]string, 4)
		for _, name := range []string{"clk", "mosi", "miso", "cs"} {
			pins[name] = c.String(name)
		}
		clk := gpioreg.ByName(pins["clk"])
		mosi := gpioreg.ByName(pins["mosi"])
		miso := gpioreg.ByName(pins["miso"])
		cs := gpioreg.ByName(pins["cs"])
		if clk == nil || mosi == nil || miso == nil || cs == nil {
			return nil, fmt.Errorf("unknown gpio pin in %v", pins)
		}
		bus, err := fourwire.New(clk, mosi, miso, cs)
		if err != nil {
			return nil, fmt.Errorf("could not set up fourwire bus: %w", err)
		}
		return msa300.New(bus), nil
	default:
		return nil, fmt.Errorf("unknown adapter %q", c.String("adapter"))
	}
}
