package main

import (
	"fmt"
	"os"
	"time"

	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	"github.com/SscSPs/disbursement_notifier/internal/core/services"
	"github.com/SscSPs/disbursement_notifier/internal/utils"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "notifier-cli",
	Short: "Operator tooling for the disbursement notifier",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		viper.AutomaticEnv()
	},
}

func init() {
	tokenCmd.Flags().String("operator", "", "operator name stored as the token subject")
	tokenCmd.Flags().Duration("ttl", 12*time.Hour, "token lifetime")
	tokenCmd.Flags().String("secret", "", "signing secret (defaults to JWT_SECRET)")
	_ = tokenCmd.MarkFlagRequired("operator")
	_ = viper.BindPFlag("JWT_SECRET", tokenCmd.Flags().Lookup("secret"))

	previewCmd.Flags().StringP("out", "o", "", "write the HTML to this file instead of stdout")
	previewCmd.Flags().String("base-url", "", "public base URL used for the logo")

	secretCmd.Flags().Int("bytes", utils.MinSigningSecretBytes, "number of random bytes")

	rootCmd.AddCommand(secretCmd, tokenCmd, wordsCmd, previewCmd)
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a random value for JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("bytes")
		secret, err := utils.GenerateSigningSecret(n)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), secret)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the notification API",
	RunE: func(cmd *cobra.Command, args []string) error {
		operator, _ := cmd.Flags().GetString("operator")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		secret := viper.GetString("JWT_SECRET")
		if secret == "" {
			return fmt.Errorf("JWT_SECRET is not set and --secret was not given")
		}
		token, err := utils.GenerateOperatorToken(operator, secret, ttl)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var wordsCmd = &cobra.Command{
	Use:   "words <amount>",
	Short: "Print an amount grouped and spelled out in Vietnamese",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount := utils.ParseCurrencyInput(args[0]).IntPart()
		fmt.Fprintf(cmd.OutOrStdout(), "%s VNĐ\n%s đồng\n",
			utils.FormatCurrencyInput(decimal.NewNullDecimal(decimal.NewFromInt(amount))),
			utils.CapitalizeFirst(utils.ToVietnameseWords(amount)))
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the sample notification email",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("base-url")
		if baseURL == "" {
			baseURL = viper.GetString("PUBLIC_BASE_URL")
		}
		renderer := services.NewEmailRenderer(services.LogoResolver{
			PublicBaseURL:      baseURL,
			DeploymentHostname: viper.GetString("DEPLOYMENT_HOSTNAME"),
		})

		sample := domain.SampleLoanDisbursement()
		if err := sample.Validate(); err != nil {
			return err
		}
		rendered, err := renderer.Render(&sample, "")
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Subject: %s\n\n%s\n", rendered.Subject, rendered.HTML)
			return nil
		}
		if err := os.WriteFile(out, []byte(rendered.HTML), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", out, rendered.Subject)
		return nil
	},
}
