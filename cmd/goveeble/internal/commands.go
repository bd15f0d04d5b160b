package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/kr/pretty"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/ngerakines/goveeble"
	"github.com/ngerakines/goveeble/catalog"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var powerCmd = &cobra.Command{
	Use:   "power on|off",
	Short: "Switch the light or some of its segments on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var on bool
		switch args[0] {
		case "on":
			on = true
		case "off":
		default:
			return fmt.Errorf("error: expected on or off, got %s", args[0])
		}
		return run(cmd, func(ctx context.Context, session *goveeble.Session) error {
			segments, err := selectSegments(cmd, session.Device())
			if err != nil {
				return err
			}
			return session.SetPower(ctx, on, segments...)
		})
	},
}

var brightnessCmd = &cobra.Command{
	Use:   "brightness 0-255",
	Short: "Set brightness",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brightness, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		return run(cmd, func(ctx context.Context, session *goveeble.Session) error {
			segments, err := selectSegments(cmd, session.Device())
			if err != nil {
				return err
			}
			return session.SetBrightness(ctx, brightness, segments...)
		})
	},
}

var colorCmd = &cobra.Command{
	Use:   "color #rrggbb",
	Short: "Set an RGB color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, err := goveeble.ParseHex(args[0])
		if err != nil {
			return err
		}
		return run(cmd, func(ctx context.Context, session *goveeble.Session) error {
			segments, err := selectSegments(cmd, session.Device())
			if err != nil {
				return err
			}
			return session.SetColor(ctx, color, segments...)
		})
	},
}

var tempCmd = &cobra.Command{
	Use:   "temp kelvin",
	Short: "Set a color temperature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kelvin, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		return run(cmd, func(ctx context.Context, session *goveeble.Session) error {
			segments, err := selectSegments(cmd, session.Device())
			if err != nil {
				return err
			}
			if info := session.Device().Info(); info.TempRange == nil || !info.TempRange.Contains(kelvin) {
				log.WithField("kelvin", kelvin).Warn("Temperature not supported by this model, nothing sent.")
			}
			return session.SetTemp(ctx, kelvin, segments...)
		})
	},
}

var effectCmd = &cobra.Command{
	Use:   "effect name",
	Short: "Turn the light on with an effect from the scene catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, session *goveeble.Session) error {
			return session.TurnOn(ctx, goveeble.TurnOnOptions{Effect: args[0]})
		})
	},
}

var effectsCmd = &cobra.Command{
	Use:   "effects",
	Short: "List the effects in the scene catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, session, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer manager.CloseAll()
		if session.Catalog == nil {
			return fmt.Errorf("error: no scene catalog, set catalog.dir")
		}
		for _, name := range session.Catalog.Effects() {
			fmt.Println(name)
		}
		return nil
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Query the light and print what it reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		wait, _ := cmd.Flags().GetDuration("wait")
		return run(cmd, func(ctx context.Context, session *goveeble.Session) error {
			if err := session.Refresh(ctx); err != nil {
				return err
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
			}
			pretty.Println(session.Device().State())
			for _, s := range session.Device().Segments() {
				fmt.Printf("segment %d: %# v\n", s.ID, pretty.Formatter(s.State()))
			}
			return nil
		})
	},
}

var breathCmd = &cobra.Command{
	Use:   "breath #to #from",
	Short: "Fade between two colors until interrupted",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := colorful.Hex(args[0])
		if err != nil {
			return err
		}
		from, err := colorful.Hex(args[1])
		if err != nil {
			return err
		}
		seconds, _ := cmd.Flags().GetInt("seconds")

		manager, session, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer manager.CloseAll()

		segments, err := selectSegments(cmd, session.Device())
		if err != nil {
			return err
		}
		action, err := goveeble.NewBreathAction(session, segments, to, from, seconds)
		if err != nil {
			return err
		}
		if err := action.Start(); err != nil {
			return err
		}

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return action.Stop(ctx)
	},
}

var fillCmd = &cobra.Command{
	Use:   "fill #rrggbb",
	Short: "Paint every segment one color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, session, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer manager.CloseAll()
		return goveeble.Fill(session, args[0])
	},
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Hold every configured device, painting onstart and onstop colors",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := openManager()
		if err != nil {
			return err
		}
		defer func() {
			if err := manager.CloseAll(); err != nil {
				log.WithError(err).Error("Error closing sessions.")
			}
		}()

		if err := manager.StartAll(); err != nil {
			return err
		}
		log.WithField("devices", manager.Names()).Info("Devices started.")

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c

		return manager.StopAll()
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models with known capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadModels(); err != nil {
			return err
		}
		catalogs := map[string]bool{}
		if dir := viper.GetString("catalog.dir"); dir != "" {
			available, err := catalog.Available(dir)
			if err != nil {
				return err
			}
			for _, model := range available {
				catalogs[model] = true
			}
		}
		for _, model := range goveeble.Models() {
			info := goveeble.LookupModel(model)
			fmt.Printf("%s\tsegments=%d\tbrightness=%d-%d\tcatalog=%t\n", model, len(info.Segments), info.BrightnessScale.Min, info.BrightnessScale.Max, catalogs[model])
		}
		return nil
	},
}

func addSegmentFlags(cmd *cobra.Command) {
	cmd.Flags().IntSlice("segments", nil, "segment ids to address")
	cmd.Flags().Int("group", 0, "segment group to address, starting at 1")
}

func selectSegments(cmd *cobra.Command, device *goveeble.Device) ([]*goveeble.Segment, error) {
	var segments []*goveeble.Segment
	if group, _ := cmd.Flags().GetInt("group"); group > 0 {
		g := device.Group(group - 1)
		if g == nil {
			return nil, fmt.Errorf("error: %s has no segment group %d", device.Name, group)
		}
		segments = append(segments, g.Segments()...)
	}
	ids, _ := cmd.Flags().GetIntSlice("segments")
	for _, id := range ids {
		s := device.Segment(id)
		if s == nil {
			return nil, fmt.Errorf("error: %s has no segment %d", device.Name, id)
		}
		segments = append(segments, s)
	}
	return segments, nil
}

func init() {
	for _, cmd := range []*cobra.Command{powerCmd, brightnessCmd, colorCmd, tempCmd, breathCmd} {
		addSegmentFlags(cmd)
	}
	stateCmd.Flags().Duration("wait", 2*time.Second, "how long to wait for reports")
	breathCmd.Flags().Int("seconds", 4, "length of one breath")

	RootCmd.AddCommand(powerCmd, brightnessCmd, colorCmd, tempCmd, effectCmd, effectsCmd, stateCmd, breathCmd, fillCmd, serverCmd, modelsCmd)
}
