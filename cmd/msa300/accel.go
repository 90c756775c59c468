package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/msa300/cmd/msa300/console"
)

var accelCmd = cli.Command{
	Name: "accel",
	Subcommands: cli.Commands{
		&accelReadCmd,
		&accelWatchCmd,
	},
}

var accelReadCmd = cli.Command{
	Name:  "read",
	Usage: "read a single acceleration sample",
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
		acc, err := s.GetAcceleration(ctx)
		if err != nil {
			return console.Exit(1, "read error: %s", console.Red(err))
		}
		console.Printf("x: %s m/s²\ty: %s m/s²\tz: %s m/s²\n",
			console.White(acc.X), console.White(acc.Y), console.White(acc.Z))
		return nil
	},
}

var accelWatchCmd = cli.Command{
	Name:  "watch",
	Usage: "stream acceleration samples",
	Flags: append([]cli.Flag{
		&cli.DurationFlag{Name: "interval", Aliases: []string{"i"}, Value: 500 * time.Millisecond},
		&cli.IntFlag{Name: "count", Usage: "number of samples (0 = until interrupted)"},
	}, busFlags...),
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
		ticker := time.NewTicker(c.Duration("interval"))
		defer ticker.Stop()
		for taken := 0; c.Int("count") == 0 || taken < c.Int("count"); taken++ {
			acc, err := s.GetAcceleration(ctx)
			if err != nil {
				console.Errorf("read error: %s", console.Red(err))
				continue
			}
			console.Printf("x: %+.3f\ty: %+.3f\tz: %+.3f\n", acc.X, acc.Y, acc.Z)
			<-ticker.C
		}
		return nil
	},
}
