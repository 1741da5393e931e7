/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avast/retry-go"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ademuri/spotify-plot/internal/logger"
	"github.com/ademuri/spotify-plot/internal/plot"
)

const chartFilename = "top_artists.png"

type SendEmailConfig struct {
	PipelineConfig
	From   string
	To     string
	DryRun bool
	Plot   plot.Options
}

// mailSender is satisfied by *sendgrid.Client.
type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

var (
	emailAttempts   uint = 3
	emailRetryDelay      = 2 * time.Second
)

var emailFlags filterFlags
var emailCmd = &cobra.Command{
	Use:   "email <address> [from (optional)] [to (optional)]",
	Short: "Emails the top artists chart",
	Long: `Renders the top artists chart and emails it, with the table, through SendGrid.
` + dateArgsHelp,
	Args: cobra.RangeArgs(1, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		if !viper.GetBool("dryRun") && viper.GetString("sendgrid_api_key") == "" {
			return fmt.Errorf("required flag(s) \"sendgrid_api_key\" not set")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := emailFlags.pipelineConfig(args[1:])
		if err != nil {
			return err
		}

		defaults := plot.DefaultOptions()
		defaults.DPI = 100
		config := SendEmailConfig{
			PipelineConfig: pipeline,
			From:           viper.GetString("from"),
			To:             args[0],
			DryRun:         viper.GetBool("dryRun"),
			Plot:           defaults,
		}
		client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
		return sendEmail(os.Stdout, client, config)
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)
	emailFlags.register(emailCmd)

	var from string
	emailCmd.Flags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", emailCmd.Flags().Lookup("from"))

	var apiKey string
	emailCmd.Flags().StringVar(&apiKey, "sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", emailCmd.Flags().Lookup("sendgrid_api_key"))

	var dryRun bool
	emailCmd.Flags().BoolVar(&dryRun, "dry_run", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))
}

func sendEmail(out io.Writer, client mailSender, config SendEmailConfig) error {
	report, err := runPipeline(config.PipelineConfig)
	if err != nil {
		return err
	}

	var chart bytes.Buffer
	if err := plot.Render(&chart, report.TopArtists, config.Plot); err != nil {
		return fmt.Errorf("plotting: %w", err)
	}

	analysis := newTopArtistsAnalysis(report)
	subject := fmt.Sprintf("Top %d artists", len(report.TopArtists))
	if report.Summary.Period != "" {
		subject += " from " + report.Summary.Period
	}

	if config.DryRun {
		fmt.Fprintf(out, "Would have sent email to %s:\nsubject: %s\nattachment: %s (%d bytes)\n%s\n",
			config.To, subject, chartFilename, chart.Len(), analysis)
		return nil
	}

	message := buildMessage(config.From, config.To, subject, analysis, chart.Bytes())
	err = retry.Do(
		func() error {
			resp, err := client.Send(message)
			if err != nil {
				return err
			}
			if resp.StatusCode >= 500 {
				return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
			}
			if resp.StatusCode >= 300 {
				return retry.Unrecoverable(fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body))
			}
			return nil
		},
		retry.Attempts(emailAttempts),
		retry.Delay(emailRetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.L().Warn("Retrying email", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}

	logger.L().Info("Sent email", zap.String("to", config.To), zap.String("subject", subject))
	fmt.Fprintf(out, "Sent %q to %s\n", subject, config.To)
	return nil
}

func buildMessage(fromAddress, toAddress, subject string, analysis Analysis, png []byte) *mail.SGMailV3 {
	from := mail.NewEmail("spotify-plot", fromAddress)
	to := mail.NewEmail(toAddress, toAddress)
	message := mail.NewSingleEmail(from, subject, to, analysis.String(), analysis.HTML())

	attachment := mail.NewAttachment()
	attachment.SetContent(base64.StdEncoding.EncodeToString(png))
	attachment.SetType("image/png")
	attachment.SetFilename(chartFilename)
	attachment.SetDisposition("attachment")
	message.AddAttachment(attachment)
	return message
}
