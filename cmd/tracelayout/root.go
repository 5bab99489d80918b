// Command tracelayout lays out trace scenarios and prints the resulting flame chart rows.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{
		v:   viper.New(),
		log: logrus.New(),
	}
	root := &cobra.Command{
		Use:          "tracelayout",
		Short:        "Lay out trace events into flame chart rows",
		Long:         `tracelayout assigns the events of trace scenarios to the rows of a flame chart and prints the result.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			return a.initLogging(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().String("config", "", "config file")
	root.PersistentFlags().String("log-level", "warning", "log level (trace, debug, info, warning, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text or json)")

	root.AddCommand(newLayoutCommand(a), newVersionCommand())
	return root
}

// initConfig reads in the config file and environment variables. Flags that were set explicitly take precedence
// over the environment, which takes precedence over the config file.
func (a *app) initConfig(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("TRACELAYOUT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to set up flags: %w", err)
	}
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("couldn't read config file: %w", err)
		}
	}
	return nil
}

func (a *app) initLogging(w io.Writer) error {
	level, err := logrus.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.log.SetLevel(level)
	a.log.SetOutput(w)
	switch f := a.v.GetString("log-format"); f {
	case "text":
		a.log.SetFormatter(&logrus.TextFormatter{})
	case "json":
		a.log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", f)
	}
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
