package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/ngerakines/goveeble"
	"github.com/ngerakines/goveeble/catalog"
	"github.com/ngerakines/goveeble/client"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultDevice = "default"

// openSession builds a session for the device picked by --device, or for
// --address/--model when no device is named.
func openSession(cmd *cobra.Command) (*goveeble.DeviceManager, *goveeble.Session, error) {
	if err := loadModels(); err != nil {
		return nil, nil, err
	}

	manager := goveeble.NewDeviceManager()
	if err := viper.UnmarshalKey("devices", &manager.Devices); err != nil {
		return nil, nil, err
	}

	name, _ := cmd.Flags().GetString("device")
	if name == "" {
		name = defaultDevice
		manager.Devices = map[string]goveeble.DeviceConfig{
			defaultDevice: {
				Address: viper.GetString("device.address"),
				Model:   viper.GetString("device.model"),
			},
		}
	} else if _, ok := manager.Devices[name]; !ok {
		return nil, nil, fmt.Errorf("error: device %s is not configured", name)
	} else {
		manager.Devices = map[string]goveeble.DeviceConfig{name: manager.Devices[name]}
	}

	if err := manager.Init(dial); err != nil {
		return nil, nil, err
	}
	session, err := manager.Session(name)
	if err != nil {
		return nil, nil, err
	}

	attachCatalog(session, manager.Devices[name].Model)
	return manager, session, nil
}

// openManager builds a session for every device in the config file.
func openManager() (*goveeble.DeviceManager, error) {
	if err := loadModels(); err != nil {
		return nil, err
	}
	manager := goveeble.NewDeviceManager()
	if err := viper.UnmarshalKey("devices", &manager.Devices); err != nil {
		return nil, err
	}
	if len(manager.Devices) == 0 {
		return nil, fmt.Errorf("error: no devices configured")
	}
	if err := manager.Init(dial); err != nil {
		return nil, err
	}
	for _, name := range manager.Names() {
		session, err := manager.Session(name)
		if err != nil {
			return nil, err
		}
		attachCatalog(session, manager.Devices[name].Model)
	}
	return manager, nil
}

func loadModels() error {
	if file := viper.GetString("models.file"); file != "" {
		return goveeble.LoadModels(file)
	}
	return nil
}

func attachCatalog(session *goveeble.Session, model string) {
	if !goveeble.KnownModel(model) {
		log.WithField("model", model).Warn("Unknown model, assuming a plain light.")
	}
	if dir := viper.GetString("catalog.dir"); dir != "" {
		c, err := catalog.Load(dir, model)
		if err != nil {
			log.WithError(err).Warn("No scene catalog loaded.")
		} else {
			session.Catalog = c
		}
	}
}

func dial(cfg goveeble.DeviceConfig) goveeble.Transport {
	return client.New(cfg.Address, clientOptions()...)
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(viper.GetInt64("timeout"))*time.Second)
}

// run opens a session, hands it to f and closes it afterwards.
func run(cmd *cobra.Command, f func(ctx context.Context, session *goveeble.Session) error) error {
	manager, session, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := manager.CloseAll(); err != nil {
			log.WithError(err).Error("Error closing sessions.")
		}
	}()

	ctx, cancel := commandContext()
	defer cancel()
	return f(ctx, session)
}
