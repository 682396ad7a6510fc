package main

import (
	"fmt"

	"github.com/mctech-dev/fss-go"
	fsshttp "github.com/mctech-dev/fss-go/http"
	"github.com/spf13/cobra"
)

// NewSignURLCommand returns a command that prints a presigned URL
func NewSignURLCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "sign-url KEY",
		Short: "Print a presigned download URL",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			expires, _ := cmd.Flags().GetDuration("expires")
			process, _ := cmd.Flags().GetString("process")
			pairs, _ := cmd.Flags().GetStringArray("response")
			responses, err := parsePairs(pairs)
			if err != nil {
				fatal(err)
			}

			u, err := getClient().SignURL(args[0],
				fss.WithExpires(expires),
				fss.WithProcess(process),
				fss.WithResponseHeaders(responses),
			)
			if err != nil {
				fatal(err)
			}
			fmt.Println(u)
		},
	}

	cmd.Flags().Duration("expires", fsshttp.DefaultURLExpiration, "Lifetime of the URL")
	cmd.Flags().String("process", "", "Processing directive, such as image/resize,w_100")
	cmd.Flags().StringArray("response", nil, "Response header override as name=value, may be repeated")

	return cmd
}

// NewURLCommand returns a command that prints the unsigned URL of an object
func NewURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "url KEY",
		Short: "Print the unsigned URL of an object",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(getClient().ObjectURL(args[0]))
		},
	}
}
