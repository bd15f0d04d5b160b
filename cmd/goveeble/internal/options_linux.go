package internal

import (
	"github.com/paypal/gatt"
	"github.com/spf13/viper"
)

func clientOptions() []gatt.Option {
	if hci := viper.GetInt("ble.hci"); hci >= 0 {
		return []gatt.Option{gatt.LnxDeviceID(hci, false)}
	}
	return nil
}
