package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/khomiakmaxim/weather-cli/config"
	"github.com/khomiakmaxim/weather-cli/manager"
)

// New builds the command tree. settingsPath is where a provider switch is
// persisted so the selection survives the process.
func New(weather *manager.Manager, settingsPath string) (*cobra.Command, error) {
	root := &cobra.Command{
		Use:           "weather",
		Short:         "CLI application for getting information of weather",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newGetCommand(weather))
	root.AddCommand(newConfigureCommand(weather, settingsPath))
	root.AddCommand(newCurrentProviderCommand(weather))

	return root, nil
}

func newGetCommand(weather *manager.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "get <address> [date]",
		Short: "Fetch weather for an address, optionally on a YYYY-MM-DD date",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := args[0]

			var date string
			if len(args) == 2 {
				date = args[1]
			}

			report, err := weather.Get(cmd.Context(), address, date)
			if err != nil {
				return err
			}

			pretty, err := json.MarshalIndent(report.Data, "", "  ")
			if err != nil {
				return err
			}

			cmd.Printf("%s\n", pretty)

			return nil
		},
	}
}

func newConfigureCommand(weather *manager.Manager, settingsPath string) *cobra.Command {
	return &cobra.Command{
		Use:   "configure <provider-name>",
		Short: "Switch the active weather provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := manager.ParseProviderName(args[0])
			if err != nil {
				return err
			}

			previous := weather.ActiveName()

			changed, err := weather.Switch(name)
			if err != nil {
				return err
			}

			if !changed {
				cmd.Printf("Provider %s is already in use.\n", name)
				return nil
			}

			cmd.Printf("Changing provider: %s => %s.\n", previous, name)

			return config.Save(settingsPath, config.Settings{ProviderName: name.String()})
		},
	}
}

func newCurrentProviderCommand(weather *manager.Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "current-provider",
		Short: "Print the active weather provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("%s\n", weather.ActiveName())
			return nil
		},
	}
}
