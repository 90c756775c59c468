package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/msa300"
	"github.com/mklimuk/msa300/cmd/msa300/console"
)

var interruptCmd = cli.Command{
	Name:    "interrupt",
	Aliases: []string{"int"},
	Subcommands: cli.Commands{
		&interruptEnableCmd,
		&interruptCheckCmd,
		&interruptResetCmd,
		&interruptClearCmd,
		&interruptLatchCmd,
	},
}

var latchModes = map[string]msa300.LatchMode{
	"none":      msa300.LatchNone,
	"1ms":       msa300.Latch1ms,
	"2ms":       msa300.Latch2ms,
	"25ms":      msa300.Latch25ms,
	"50ms":      msa300.Latch50ms,
	"100ms":     msa300.Latch100ms,
	"250ms":     msa300.Latch250ms,
	"500ms":     msa300.Latch500ms,
	"1s":        msa300.Latch1s,
	"2s":        msa300.Latch2s,
	"4s":        msa300.Latch4s,
	"8s":        msa300.Latch8s,
	"permanent": msa300.LatchPermanent,
}

var interruptEnableCmd = cli.Command{
	Name:      "enable",
	Usage:     "enable an interrupt source and route it to a pin",
	ArgsUsage: "<active|freefall|orientation|tap|dtap|newdata>",
	Flags: append([]cli.Flag{
		&cli.IntFlag{Name: "pin", Value: 1, Usage: "interrupt pin (1 or 2)"},
		&cli.StringFlag{Name: "axis", Value: "x", Usage: "axis for the active source (x|y|z)"},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		pin := msa300.IntPin1
		if c.Int("pin") == 2 {
			pin = msa300.IntPin2
		}
		axes := map[string]msa300.Axis{"x": msa300.AxisX, "y": msa300.AxisY, "z": msa300.AxisZ}
		source := c.Args().First()
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			switch source {
			case "active":
				axis, ok := axes[c.String("axis")]
				if !ok {
					return console.Exit(1, "unknown axis %q", c.String("axis"))
				}
				return s.EnableActiveInterrupt(ctx, axis, pin)
			case "freefall":
				return s.EnableFreefallInterrupt(ctx, pin)
			case "orientation":
				return s.EnableOrientationInterrupt(ctx, pin)
			case "tap":
				return s.EnableSingleTapInterrupt(ctx, pin)
			case "dtap":
				return s.EnableDoubleTapInterrupt(ctx, pin)
			case "newdata":
				return s.EnableNewDataInterrupt(ctx, pin)
			default:
				return console.Exit(1, "unknown interrupt source %q", source)
			}
		})
	},
}

var interruptCheckCmd = cli.Command{
	Name:  "check",
	Usage: "read and decode the interrupt status registers",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := newSensor(c)
		if err != nil {
			return console.Exit(1, "adapter error: %s", console.Red(err))
		}
		err = s.Connect(ctx)
		if err != nil {
			return console.Exit(1, "could not connect to MSA300: %s", console.Red(err))
		}
		snap, err := s.CheckInterrupts(ctx)
		if err != nil {
			return console.Exit(1, "read error: %s", console.Red(err))
		}
		printFlag("orientation", snap.Orientation)
		printFlag("single tap", snap.SingleTap)
		printFlag("double tap", snap.DoubleTap)
		printFlag("active", snap.Active)
		printFlag("freefall", snap.Freefall)
		printFlag("new data", snap.NewData)
		if snap.Detail != nil {
			console.Printf("tap: sign=%v first x=%v y=%v z=%v\n",
				snap.Detail.TapSign, snap.Detail.TapFirstX, snap.Detail.TapFirstY, snap.Detail.TapFirstZ)
			console.Printf("active: sign=%v first x=%v y=%v z=%v\n",
				snap.Detail.ActiveSign, snap.Detail.ActiveFirstX, snap.Detail.ActiveFirstY, snap.Detail.ActiveFirstZ)
		}
		return nil
	},
}

func printFlag(name string, triggered bool) {
	if triggered {
		console.Printf("%s: %s\n", name, console.Yellow("triggered"))
	} else {
		console.Printf("%s: %s\n", name, console.Green("clear"))
	}
}

var interruptResetCmd = cli.Command{
	Name:  "reset",
	Usage: "release latched interrupts",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.ResetInterrupt(ctx)
		})
	},
}

var interruptClearCmd = cli.Command{
	Name:  "clear",
	Usage: "disable all interrupt sources",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		answer, err := console.YesOrNo("this disables every interrupt source, continue?")
		if err != nil {
			return console.Exit(1, "prompt error: %s", console.Red(err))
		}
		if answer != console.Yes {
			return nil
		}
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.ClearInterrupts(ctx)
		})
	},
}

var interruptLatchCmd = cli.Command{
	Name:      "latch",
	Usage:     "set the interrupt latching mode",
	ArgsUsage: "<none|1ms..8s|permanent>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		mode, ok := latchModes[c.Args().First()]
		if !ok {
			return console.Exit(1, "unknown latch mode %q", c.Args().First())
		}
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.SetInterruptLatch(ctx, mode)
		})
	},
}
