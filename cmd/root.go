package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zdunecki/lsdomain/pkg/attach"
	"github.com/zdunecki/lsdomain/pkg/cli"
	"github.com/zdunecki/lsdomain/pkg/config"
	"github.com/zdunecki/lsdomain/pkg/container"
	"github.com/zdunecki/lsdomain/pkg/lightsail"
)

var (
	// Target flags
	containerName string
	domainName    string
	certName      string
	dnsZone       string

	// Global flags
	region       string
	profile      string
	backend      string
	bindMode     string
	maxAttempts  int
	pollInterval time.Duration
	dryRun       bool
	skipNSCheck  bool
	configFile   string
	logLevel     string
	logFormat    string
	jsonOutput   bool
)

var rootCmd = &cobra.Command{
	Use:   "lsdomain",
	Short: "Attach a custom domain to a Lightsail container service",
	Long: `Attach a custom domain to a Lightsail container service.

lsdomain requests a TLS certificate, creates the DNS records in the
Lightsail zone, maps the domain onto the container service and finally
points an alias A record at it. Every step is safe to re-run.

Run without arguments to start the interactive wizard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAttach,
}

func addTargetFlags(fs *pflag.FlagSet) {
	fs.StringVar(&containerName, "container-name", "", "Name of the Lightsail container service")
	fs.StringVar(&domainName, "domain-name", "", "Fully qualified domain to attach (e.g. app.example.com)")
	fs.StringVar(&certName, "cert-name", "", "Certificate name (defaults to a name derived from the domain)")
	fs.StringVar(&dnsZone, "dns-zone", "", "DNS zone holding the records (defaults to the domain minus its first label)")
}

func init() {
	addTargetFlags(rootCmd.Flags())
	rootCmd.MarkFlagRequired("container-name")
	rootCmd.MarkFlagRequired("domain-name")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&region, "region", "r", config.DefaultRegion, "Region of the container service")
	pf.StringVar(&profile, "profile", "", "AWS profile to use")
	pf.StringVar(&backend, "backend", string(lightsail.BackendCLI), "How to reach Lightsail (cli, sdk)")
	pf.StringVar(&bindMode, "bind-mode", string(container.BindReplace), "How the domain joins existing service domains (replace, merge)")
	pf.IntVar(&maxAttempts, "max-attempts", 0, "Polls before giving up on DNS propagation (default 10)")
	pf.DurationVar(&pollInterval, "poll-interval", 0, "Delay between DNS propagation polls (default 5s)")
	pf.BoolVar(&dryRun, "dry-run", false, "Only read from Lightsail; log the changes that would be made")
	pf.BoolVar(&skipNSCheck, "skip-ns-check", false, "Do not check that the zone is served by AWS nameservers")
	pf.StringVarP(&configFile, "config", "c", "", "Config file path")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warning, error)")
	pf.StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	pf.BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

// Execute runs the command line. Without arguments the interactive wizard is started.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) == 1 {
		return runWizard(ctx)
	}
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig layers the changed flags of cmd over the file and environment configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("region") {
		cfg.Region = region
	}
	if flags.Changed("profile") {
		cfg.Profile = profile
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("bind-mode") {
		cfg.BindMode = bindMode
	}
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts = maxAttempts
	}
	if flags.Changed("poll-interval") {
		cfg.PollInterval = pollInterval
	}
	if flags.Changed("skip-ns-check") {
		cfg.SkipNSCheck = skipNSCheck
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logrus.Entry, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.LogFormat) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:          true,
			DisableLevelTruncation: true,
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", cfg.LogFormat)
	}

	return logrus.NewEntry(logger), nil
}

// environment holds everything a command needs to talk to Lightsail.
type environment struct {
	cfg    *config.Config
	log    *logrus.Entry
	client lightsail.Client
}

func newEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	client, err := lightsail.New(cmd.Context(), lightsail.Options{
		Backend: lightsail.Backend(cfg.Backend),
		Binary:  cfg.AWSBinary,
		Profile: cfg.Profile,
		Regions: cfg.Regions(),
		DryRun:  dryRun,
		Log:     log,
	})
	if err != nil {
		return nil, err
	}

	return &environment{cfg: cfg, log: log, client: client}, nil
}

func (e *environment) attacher(p *cli.Printer) *attach.Attacher {
	return attach.New(e.client, attach.Settings{
		BindMode:     container.BindMode(e.cfg.BindMode),
		MaxAttempts:  e.cfg.MaxAttempts,
		PollInterval: e.cfg.PollInterval,
		DryRun:       dryRun,
	}, e.log, p.Logf)
}

func targetOptions(cfg *config.Config) attach.Options {
	return attach.Options{
		ContainerName:   containerName,
		Domain:          domainName,
		CertificateName: certName,
		Zone:            dnsZone,
		SkipNSCheck:     cfg.SkipNSCheck,
	}
}

func runAttach(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	printer := cli.NewPrinter(cmd.OutOrStdout(), jsonOutput)
	if dryRun {
		printer.Logf("ℹ️  Dry run: no changes will be made\n")
	}

	res, err := env.attacher(printer).Run(cmd.Context(), targetOptions(env.cfg))
	if err != nil {
		return err
	}
	return printer.Result(res)
}

func runWizard(ctx context.Context) error {
	return cli.RunWizard(func(opts cli.WizardOptions) error {
		containerName = opts.ContainerName
		domainName = opts.Domain
		rootCmd.SetContext(ctx)
		if err := rootCmd.ParseFlags(nil); err != nil {
			return err
		}
		if err := rootCmd.Flags().Set("bind-mode", string(opts.BindMode)); err != nil {
			return err
		}
		return runAttach(rootCmd, nil)
	})
}
