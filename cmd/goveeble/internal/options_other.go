//go:build !linux
// +build !linux

package internal

import "github.com/paypal/gatt"

func clientOptions() []gatt.Option {
	return nil
}
