package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/msa300"
	"github.com/mklimuk/msa300/cmd/msa300/console"
)

var ranges = map[string]msa300.Range{
	"2g":  msa300.Range2G,
	"4g":  msa300.Range4G,
	"8g":  msa300.Range8G,
	"16g": msa300.Range16G,
}

var resolutions = map[string]msa300.Resolution{
	"14bit": msa300.Res14Bit,
	"12bit": msa300.Res12Bit,
	"8bit":  msa300.Res8Bit,
}

var powerModes = map[string]msa300.PowerMode{
	"normal":  msa300.ModeNormal,
	"low":     msa300.ModeLow,
	"suspend": msa300.ModeSuspend,
}

var dataRates = map[string]msa300.DataRate{
	"1hz":    msa300.DataRate1Hz,
	"1.95hz": msa300.DataRate1_95Hz,
	"3.9hz":  msa300.DataRate3_9Hz,
	"7.81hz": msa300.DataRate7_81Hz,
	"15hz":   msa300.DataRate15Hz,
	"31hz":   msa300.DataRate31Hz,
	"62hz":   msa300.DataRate62Hz,
	"125hz":  msa300.DataRate125Hz,
	"250hz":  msa300.DataRate250Hz,
	"500hz":  msa300.DataRate500Hz,
	"1khz":   msa300.DataRate1000Hz,
}

var configCmd = cli.Command{
	Name: "config",
	Subcommands: cli.Commands{
		&configShowCmd,
		&configRangeCmd,
		&configResolutionCmd,
		&configRateCmd,
		&configModeCmd,
		&configOffsetCmd,
	},
}

var configShowCmd = cli.Command{
	Name:  "show",
	Usage: "read the current configuration from the device",
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
		rng, err := s.GetRange(ctx)
		if err != nil {
			return console.Exit(1, "read error: %s", console.Red(err))
		}
		res, err := s.GetResolution(ctx)
		if err != nil {
			return console.Exit(1, "read error: %s", console.Red(err))
		}
		rate, err := s.GetDataRate(ctx)
		if err != nil {
			return console.Exit(1, "read error: %s", console.Red(err))
		}
		mode, err := s.GetPowerMode(ctx)
		if err != nil {
			return console.Exit(1, "read error: %s", console.Red(err))
		}
		console.Printf("range: %s\nresolution: %s\ndata rate: %s\npower mode: %s\n",
			console.White(lookup(ranges, rng)), console.White(lookup(resolutions, res)),
			console.White(lookup(dataRates, rate)), console.White(lookup(powerModes, mode)))
		return nil
	},
}

var configRangeCmd = cli.Command{
	Name:      "range",
	Usage:     "set the full-scale range",
	ArgsUsage: "<2g|4g|8g|16g>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		rng, ok := ranges[c.Args().First()]
		if !ok {
			return console.Exit(1, "unknown range %q", c.Args().First())
		}
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.SetRange(ctx, rng)
		})
	},
}

var configResolutionCmd = cli.Command{
	Name:      "resolution",
	Usage:     "set the output resolution",
	ArgsUsage: "<14bit|12bit|8bit>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		res, ok := resolutions[c.Args().First()]
		if !ok {
			return console.Exit(1, "unknown resolution %q", c.Args().First())
		}
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.SetResolution(ctx, res)
		})
	},
}

var configRateCmd = cli.Command{
	Name:      "rate",
	Usage:     "set the output data rate",
	ArgsUsage: "<1hz..1khz>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		rate, ok := dataRates[c.Args().First()]
		if !ok {
			return console.Exit(1, "unknown data rate %q", c.Args().First())
		}
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.SetDataRate(ctx, rate)
		})
	},
}

var configModeCmd = cli.Command{
	Name:      "mode",
	Usage:     "set the power mode",
	ArgsUsage: "<normal|low|suspend>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		mode, ok := powerModes[c.Args().First()]
		if !ok {
			return console.Exit(1, "unknown power mode %q", c.Args().First())
		}
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.SetPowerMode(ctx, mode)
		})
	},
}

var configOffsetCmd = cli.Command{
	Name:  "offset",
	Usage: "set axis offset compensation",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "axis", Value: "x", Usage: "axis (x|y|z)"},
		&cli.Float64Flag{Name: "mg", Usage: "offset in mg", Required: true},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		axes := map[string]msa300.Axis{"x": msa300.AxisX, "y": msa300.AxisY, "z": msa300.AxisZ}
		axis, ok := axes[c.String("axis")]
		if !ok {
			return console.Exit(1, "unknown axis %q", c.String("axis"))
		}
		return withSensor(c, func(ctx context.Context, s *msa300.MSA300) error {
			return s.SetOffset(ctx, axis, float32(c.Float64("mg")))
		})
	},
}

// withSensor connects and runs one operation, reporting errors through the
// console.
func withSensor(c *cli.Context, op func(context.Context, *msa300.MSA300) error) error {
	ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
	s, err := newSensor(c)
	if err != nil {
		return console.Exit(1, "adapter error: %s", console.Red(err))
	}
	err = s.Connect(ctx)
	if err != nil {
		return console.Exit(1, "could not connect to MSA300: %s", console.Red(err))
	}
	err = op(ctx, s)
	if err != nil {
		return console.Exit(1, "%s", console.Red(err))
	}
	console.Info("done")
	return nil
}

func lookup[V comparable](m map[string]V, value V) string {
	for name, v := range m {
		if v == value {
			return name
		}
	}
	return fmt.Sprintf("unknown (%v)", value)
}
