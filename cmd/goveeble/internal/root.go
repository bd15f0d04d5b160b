package internal

import (
	"fmt"
	"os"
	"path"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
)

var RootCmd = &cobra.Command{
	Use:   "goveeble",
	Short: "goveeble controls Govee lights over Bluetooth LE.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of goveeble",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("goveeble v1.0.0 -- HEAD")
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./goveeble.yaml)")
	RootCmd.PersistentFlags().String("device", "", "name of a device from the config file")
	RootCmd.PersistentFlags().String("address", "", "bluetooth address of the light")
	RootCmd.PersistentFlags().String("model", "", "model of the light, e.g. H6053")
	RootCmd.PersistentFlags().String("log-level", "info", "log level")

	viper.SetDefault("device.address", "")
	viper.SetDefault("device.model", "")
	viper.SetDefault("ble.hci", -1)
	viper.SetDefault("catalog.dir", "")
	viper.SetDefault("models.file", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("timeout", 30)

	viper.BindPFlag("device.address", RootCmd.PersistentFlags().Lookup("address"))
	viper.BindPFlag("device.model", RootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GOVEEBLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(path.Join(home, ".goveeble"))
		viper.AddConfigPath("/etc/goveeble/")
		viper.SetConfigName("goveeble")
	}

	if err := viper.ReadInConfig(); err != nil {
		log.WithError(err).Debug("Can't read config")
	}
}
