package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/billheat/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect or change a client's dark mode preference",
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the resolved theme of a client",
	RunE:  runTheme(themeGet),
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip the theme of a client",
	RunE:  runTheme(themeToggle),
}

var themeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored preference so the browser setting applies",
	RunE:  runTheme(themeReset),
}

var (
	themeClient      string
	themeAmbientDark bool
)

func init() {
	themeCmd.PersistentFlags().StringVar(&themeClient, "client", "", "Client id (value of the billheat_client cookie)")
	themeCmd.PersistentFlags().BoolVar(&themeAmbientDark, "ambient-dark", false, "Assume the browser prefers dark when nothing is stored")
	_ = themeCmd.MarkPersistentFlagRequired("client")

	themeCmd.AddCommand(themeGetCmd)
	themeCmd.AddCommand(themeToggleCmd)
	themeCmd.AddCommand(themeResetCmd)
}

type themeAction func(ctx context.Context, svc *theme.Service, w io.Writer, client string, ambientDark bool) error

func runTheme(action themeAction) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := NewAppContext(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		svc := theme.NewService(app.Preferences)
		return action(ctx, svc, cmd.OutOrStdout(), themeClient, themeAmbientDark)
	}
}

func themeGet(ctx context.Context, svc *theme.Service, w io.Writer, client string, ambientDark bool) error {
	mode, err := svc.Resolve(ctx, client, ambientDark)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, mode)
	return err
}

func themeToggle(ctx context.Context, svc *theme.Service, w io.Writer, client string, ambientDark bool) error {
	mode, err := svc.Toggle(ctx, client, ambientDark)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, mode)
	return err
}

func themeReset(ctx context.Context, svc *theme.Service, w io.Writer, client string, ambientDark bool) error {
	if err := svc.Reset(ctx, client); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "reset")
	return err
}
