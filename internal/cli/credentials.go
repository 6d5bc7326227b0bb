package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/hpde-analytics/internal/auth"
	"github.com/tartampluch/hpde-analytics/internal/config"
)

func newConfigureCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdConfigure,
		Short: config.DescConfigure,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.configure()
		},
	}
}

// configure prompts for the consumer key pair and stores it in the keyring.
func (a *App) configure() error {
	heading(a.Out, config.TextCredsTitle)

	if !a.Credentials.KeyringAvailable() {
		line(a.Out, "\n%s", styles.Warn.Render(config.TextNoKeyring))
		return errors.New(config.ErrKeyringMissing)
	}
	line(a.Out, "\n%s", config.TextKeyringIntro)

	if a.Credentials.HasStored() {
		line(a.Out, "")
		answer, err := a.prompt(config.TextReplacePrompt)
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != config.ConfirmYes {
			line(a.Out, "%s", config.TextConfigCancelled)
			return nil
		}
	}

	line(a.Out, "\n%s\n", config.TextEnterCreds)
	key, err := a.prompt(config.TextPromptKey)
	if err != nil {
		return err
	}
	if key == "" {
		return errors.New(config.ErrInputEmpty)
	}

	_, _ = a.Out.Write([]byte(config.TextPromptSecret))
	secret, err := a.ReadSecret()
	if err != nil {
		return err
	}
	if secret == "" {
		return errors.New(config.ErrInputEmpty)
	}

	if err := a.Credentials.Store(auth.Credentials{ConsumerKey: key, ConsumerSecret: secret}); err != nil {
		return err
	}
	line(a.Out, "\n%s", styles.Success.Render(config.TextCredsStored))
	return nil
}

func newCredentialsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdCredentials,
		Short: config.DescCredentials,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printCredentialStatus(a.Credentials.Status())
			return nil
		},
	}
}

func (a *App) printCredentialStatus(s auth.Status) {
	heading(a.Out, config.TextStatusTitle)

	line(a.Out, "\n"+config.TextKeyringAvailable, yesNo(s.KeyringAvailable))
	line(a.Out, config.TextInKeyring, yesNo(s.InKeyring))
	line(a.Out, config.TextInEnv, yesNo(s.InEnv))

	switch s.Active {
	case auth.SourceKeyring:
		line(a.Out, "\n%s", styles.Success.Render(config.TextActiveKeyring))
	case auth.SourceEnv:
		line(a.Out, "\n%s", styles.Success.Render(config.TextActiveEnv))
	default:
		line(a.Out, "\n%s", styles.Warn.Render(config.TextNoCreds))
	}
}
