package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/jwalitptl/email-api/internal/config"
	"github.com/jwalitptl/email-api/internal/email"
	"github.com/jwalitptl/email-api/internal/email/provider"
	"github.com/jwalitptl/email-api/pkg/logger"
)

const (
	exitOK      = 0
	exitUsage   = 2
	exitConfig  = 3
	exitSend    = 4
	sendTimeout = 30 * time.Second
)

// awsEnv lists the variables the SES provider cannot run without.
type awsEnv struct {
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" required:"true"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" required:"true"`
	Region          string `envconfig:"AWS_REGION" default:"us-east-1"`
}

var requiredAWSVars = []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY"}

// newService is swapped in tests.
var newService = func(cfg *config.Config) (*email.Service, error) {
	p, err := provider.New(cfg)
	if p == nil {
		return nil, err
	}
	return provider.NewService(cfg, p, time.Now().Year(), email.Options{Logger: logger.Nop()})
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sescheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	to := fs.String("to", "", "send a test verification email to this address")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	fmt.Fprintln(stdout, "Email provider configuration check")
	fmt.Fprintln(stdout, strings.Repeat("=", 50))

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return exitConfig
	}

	if cfg.Email.Provider == config.ProviderSES && !checkEnvironment(stdout) {
		return exitConfig
	}

	svc, err := newService(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "failed to create email service: %v\n", err)
		return exitConfig
	}
	if !svc.IsConfigured() {
		fmt.Fprintf(stdout, "%s is not properly configured\n", svc.ProviderName())
		return exitConfig
	}

	fmt.Fprintf(stdout, "%s client initialized successfully\n", svc.ProviderName())
	if cfg.Email.Provider == config.ProviderSES {
		fmt.Fprintf(stdout, "   Region: %s\n", cfg.AWS.Region)
	}
	fmt.Fprintf(stdout, "   Domain: %s\n", cfg.Email.VerifiedDomain)
	fmt.Fprintf(stdout, "   From Email: %s\n", cfg.Email.FromAddress)

	if *to == "" {
		return exitOK
	}
	return sendTestEmail(svc, cfg, *to, stdout)
}

// checkEnvironment reports every missing AWS credential variable. A variable
// set to the empty string counts as missing.
func checkEnvironment(w io.Writer) bool {
	var env awsEnv
	err := envconfig.Process("", &env)
	if err != nil || env.AccessKeyID == "" || env.SecretAccessKey == "" {
		fmt.Fprintln(w, "Missing required environment variables:")
		for _, name := range requiredAWSVars {
			if os.Getenv(name) == "" {
				fmt.Fprintf(w, "   - %s\n", name)
			}
		}
		fmt.Fprintln(w, "Please set these variables and try again.")
		return false
	}

	fmt.Fprintln(w, "All required environment variables are set")
	return true
}

func sendTestEmail(svc *email.Service, cfg *config.Config, to string, w io.Writer) int {
	to = strings.TrimSpace(to)
	if !strings.Contains(to, "@") {
		fmt.Fprintln(w, "Invalid email address")
		return exitUsage
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	link := fmt.Sprintf("https://%s/verify?token=test123", cfg.Email.VerifiedDomain)
	result := svc.SendVerification(ctx, to, link, "Test User")
	if !result.Success {
		fmt.Fprintf(w, "Failed to send test email: %s\n", result.Error)
		return exitSend
	}

	fmt.Fprintln(w, "Test email sent successfully!")
	fmt.Fprintf(w, "   Message ID: %s\n", result.MessageID)
	fmt.Fprintf(w, "   Recipient: %s\n", to)
	return exitOK
}
