// Package command holds board-specific maintenance commands that talk to the
// sensor through a gobot adaptor instead of the regular transport stack.
package command

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/msa300"
	"github.com/mklimuk/msa300/cmd/msa300/console"
)

var RawCmd = &cli.Command{
	Name:  "raw",
	Usage: "direct register access for bring-up and debugging",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "bus", Value: 0, Usage: "i2c bus number"},
		&cli.BoolFlag{Name: "alt-addr", Usage: "use the alternate device address"},
	},
	Subcommands: []*cli.Command{
		RawReadCmd,
		RawWriteCmd,
		RawDumpCmd,
	},
}

var RawReadCmd = &cli.Command{
	Name:      "read",
	Usage:     "read a single register",
	ArgsUsage: "<register>",
	Action: func(c *cli.Context) error {
		reg, err := parseRegister(c.Args().First())
		if err != nil {
			return err
		}
		board, cleanup, err := rawDevice(c)
		if err != nil {
			return err
		}
		defer cleanup()
		val, err := board.ReadByteData(reg)
		if err != nil {
			return fmt.Errorf("register %#x read error: %w", reg, err)
		}
		fmt.Printf("register %s value: %s\n", console.White(fmt.Sprintf("%#x", reg)), console.White(fmt.Sprintf("%#08b", val)))
		return nil
	},
}

var RawWriteCmd = &cli.Command{
	Name:      "write",
	Usage:     "write a single register",
	ArgsUsage: "<register> <value>",
	Action: func(c *cli.Context) error {
		if c.NArg() < 2 {
			return fmt.Errorf("expected a register and a value")
		}
		reg, err := parseRegister(c.Args().Get(0))
		if err != nil {
			return err
		}
		val, err := strconv.ParseUint(c.Args().Get(1), 0, 8)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", c.Args().Get(1), err)
		}
		board, cleanup, err := rawDevice(c)
		if err != nil {
			return err
		}
		defer cleanup()
		err = board.WriteByteData(reg, byte(val))
		if err != nil {
			return fmt.Errorf("register %#x write error: %w", reg, err)
		}
		fmt.Printf("register %s set to %s\n", console.White(fmt.Sprintf("%#x", reg)), console.White(fmt.Sprintf("%#x", val)))
		return nil
	},
}

var RawDumpCmd = &cli.Command{
	Name:  "dump",
	Usage: "dump the whole register file",
	Action: func(c *cli.Context) error {
		board, cleanup, err := rawDevice(c)
		if err != nil {
			return err
		}
		defer cleanup()
		buf := make([]byte, 0x41)
		for reg := range buf {
			buf[reg], err = board.ReadByteData(byte(reg))
			if err != nil {
				return fmt.Errorf("register %#x read error: %w", reg, err)
			}
		}
		fmt.Println(hex.Dump(buf))
		return nil
	},
}

func parseRegister(arg string) (byte, error) {
	reg, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid register %q: %w", arg, err)
	}
	return byte(reg), nil
}

func rawDevice(c *cli.Context) (*i2c.GenericDriver, func(), error) {
	addr := msa300.DefaultAddress
	if c.Bool("alt-addr") {
		addr = msa300.AltAddress
	}
	npi := nanopi.NewNeoAdaptor()
	err := npi.I2cBusAdaptor.Connect()
	if err != nil {
		return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
	}
	bus := c.Int("bus")
	board := i2c.NewGenericDriver(npi, "msa300", int(addr), func(conf i2c.Config) {
		conf.SetBus(bus)
	})
	err = board.Start()
	if err != nil {
		_ = npi.I2cBusAdaptor.Finalize()
		return nil, nil, fmt.Errorf("device start error: %w", err)
	}
	cleanup := func() {
		_ = board.Halt()
		_ = npi.I2cBusAdaptor.Finalize()
	}
	return board, cleanup, nil
}
