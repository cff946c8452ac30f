package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"labtrack_backend/internals/client"
	"labtrack_backend/internals/configs"
)

// app: state bersama semua subcommand (flag + env LABTRACK_*)
type app struct {
	v   *viper.Viper
	out io.Writer
	log *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "labctl",
		Short:         "Klien CLI labtrack: stok kit, lô kit, mã mẫu, báo cáo, draft autosave",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := configs.NewLogger(a.v.GetString("log-level"), "console", "labctl")
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String("api", "http://localhost:3000", "base URL server labtrack")
	pf.String("token", "", "access token (LABTRACK_TOKEN)")
	pf.String("email", "", "email login (LABTRACK_EMAIL)")
	pf.String("password", "", "password login (LABTRACK_PASSWORD)")
	pf.String("log-level", "warn", "level log klien")
	_ = a.v.BindPFlags(pf)
	a.v.SetEnvPrefix("LABTRACK")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.availabilityCmd(),
		a.nextCodeCmd(),
		a.kitBatchCmd(),
		a.reportCmd(),
		a.draftCmd(),
	)
	return root
}

// client: token langsung, atau login email+password
func (a *app) client(ctx context.Context) (*client.Client, error) {
	c := client.New(a.v.GetString("api"), a.log)
	if tok := strings.TrimSpace(a.v.GetString("token")); tok != "" {
		c.SetToken(tok)
		return c, nil
	}

	email, password := a.v.GetString("email"), a.v.GetString("password")
	if email == "" || password == "" {
		return nil, errors.New("butuh --token atau --email dan --password")
	}
	if _, err := c.Login(ctx, email, password); err != nil {
		return nil, err
	}
	return c, nil
}
