package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MineX13/Discord-promo-checker/internal/utils"
	"github.com/MineX13/Discord-promo-checker/pkg/whttp"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	                                        _           _
	 _ __  _ __ ___  _ __ ___   ___     ___| |__   ___| | _____ _ __
	| '_ \| '__/ _ \| '_ ` + "`" + ` _ \ / _ \   / __| '_ \ / _ \ |/ / _ \ '__|
	| |_) | | | (_) | | | | | | (_) | | (__| | | |  __/   <  __/ |
	| .__/|_|  \___/|_| |_| |_|\___/   \___|_| |_|\___|_|\_\___|_|
	|_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "promo-checker",
	Short: "Check Discord promo/gift codes without claiming them.",
	Long: LOGO + `promo-checker reports whether a Discord gift code is claimable, already
claimed, or invalid, without ever redeeming it. Codes can be checked one
by one, interactively, or in bulk from a text file.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.promo-checker.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".promo-checker")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.promo-checker.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("api", "")
	viper.SetDefault("delay", 2.5)
	viper.SetDefault("dbpath", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)

	if proxy, _ := rootCmd.PersistentFlags().GetString("proxy"); proxy != "" {
		whttp.SetupProxy(proxy)
	}
}
