package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const (
	tag = "pcbuild"
)

const (
	defaultCredentialsFile = ".credentials.json"
	defaultApiUrl          = "https://playcanvas.com"
	defaultOutputDir       = "."
	defaultPackageName     = "${PROJECT_NAME}.zip"
	defaultPollInterval    = 10 * time.Second
	defaultMaxAttempts     = 10
)

func main() {
	var credentialsFile string
	var apiUrl string
	var outputDir string
	var verbose bool

	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()
	log.Logger = logger
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Msgf("could not load .env: %s", err)
	}

	app := &cli.App{
		Name:        tag,
		Usage:       "package a PlayCanvas project and download the result",
		HideVersion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "credentials",
				Usage:       "Path to the credentials file",
				Value:       defaultCredentialsFile,
				Destination: &credentialsFile,
				EnvVars:     []string{"PCBUILD_CREDENTIALS"},
			},
			&cli.StringFlag{
				Name:        "api-url",
				Usage:       "PlayCanvas API base url",
				Value:       defaultApiUrl,
				Destination: &apiUrl,
				EnvVars:     []string{"PCBUILD_API_URL"},
			},
			&cli.StringFlag{
				Name:        "output-dir",
				Usage:       "Directory the package is written to",
				Value:       defaultOutputDir,
				Destination: &outputDir,
				EnvVars:     []string{"PCBUILD_OUTPUT_DIR"},
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "Log raw API responses",
				Destination: &verbose,
			},
		},
		Action: func(cCtx *cli.Context) error {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			creds, err := readCredentials(credentialsFile)
			if err != nil {
				return err
			}

			_, err = runBuildDownload(cCtx.Context, creds, args{
				ApiUrl:    apiUrl,
				OutputDir: outputDir,
				Poll:      defaultPollPolicy(),
			})
			return err
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.RunContext(ctx, os.Args)
	stop()
	if err != nil {
		log.Error().Msg(err.Error())
		os.Exit(exitCode(err))
	}
}

// runBuildDownload triggers a packaging job, waits for it and downloads the
// artifact. It returns the path of the written file.
func runBuildDownload(ctx context.Context, creds credentials, args args) (string, error) {
	creds = convertCredentials(creds)
	creds = interpolateCredentials(creds)
	if err := validateCredentials(creds); err != nil {
		return "", err
	}

	if args.OutputDir == "" {
		args.OutputDir = defaultOutputDir
	}
	if args.Poll.MaxAttempts == 0 {
		args.Poll.MaxAttempts = defaultMaxAttempts
	}
	if args.Poll.Interval == 0 {
		args.Poll.Interval = defaultPollInterval
	}

	svc := initializeService(args, creds.AccessToken)

	id, err := svc.createJob(ctx, creds)
	if err != nil {
		return "", err
	}

	j, err := svc.waitForJob(ctx, id, args.Poll)
	if err != nil {
		return "", err
	}

	destination := filepath.Join(args.OutputDir, creds.PackageName)
	if err := newDownloader(args.HttpClient).Download(ctx, j.Data.DownloadUrl, destination); err != nil {
		return "", err
	}

	log.Info().Msgf("package for %s saved to %s", creds.ProjectName, destination)
	return destination, nil
}
