package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	addr    string
	timeout time.Duration
)

func client() *resty.Client {
	return resty.New().
		SetBaseURL(addr).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// get performs a GET and prints the response body.
func get(path string, query map[string]string) error {
	resp, err := client().R().SetQueryParams(query).Get(path)
	if err != nil {
		return err
	}
	fmt.Println(resp.String())
	if resp.IsError() {
		return fmt.Errorf("daemon returned %s", resp.Status())
	}
	return nil
}

// post performs a POST with a JSON body and prints the response body.
func post(path string, body interface{}) error {
	resp, err := client().R().SetBody(body).Post(path)
	if err != nil {
		return err
	}
	fmt.Println(resp.String())
	if resp.IsError() {
		return fmt.Errorf("daemon returned %s", resp.Status())
	}
	return nil
}

func newAppsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List the discovered application catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return get("/v1/apps", nil)
		},
	}
}

func newResolveCmd() *cobra.Command {
	var explain bool
	var top int

	cmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a spoken name against the alias index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{"q": args[0]}
			if explain {
				query["explain"] = "true"
				query["top"] = strconv.Itoa(top)
			}
			return get("/v1/resolve", query)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "show the full scored candidate list")
	cmd.Flags().IntVar(&top, "top", 10, "number of candidates to show with --explain")
	return cmd
}

func newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch <name>",
		Short: "Launch an application by spoken name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return post("/v1/launch", map[string]string{"application": args[0]})
		},
	}
}

func newCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <name>",
		Short: "Close an application by spoken name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return post("/v1/close", map[string]string{"application": args[0]})
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the alias index from the manifest directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return post("/v1/refresh", nil)
		},
	}
}

func newActivityCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent launcher actions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return get("/v1/activity", map[string]string{"limit": strconv.Itoa(limit)})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	return cmd
}

func newDiagCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "diag",
		Short: "Download a gzip'd support bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().R().SetOutput(output).Get("/v1/diag")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("daemon returned %s", resp.Status())
			}
			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "launcher-diag.json.gz", "bundle output path")
	return cmd
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check daemon liveness and index state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return get("/health", nil)
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:           "launcherctl",
		Short:         "Control the voice application launcher daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", "http://127.0.0.1:8576", "daemon address")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		newHealthCmd(),
		newAppsCmd(),
		newResolveCmd(),
		newLaunchCmd(),
		newCloseCmd(),
		newRefreshCmd(),
		newActivityCmd(),
		newDiagCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
