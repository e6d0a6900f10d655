package cli

import (
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "faultline",
		Short: "Faultline error-reporting client utilities",
	}

	root.AddCommand(
		CheckCmd(),
	)

	return root
}
