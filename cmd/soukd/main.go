// Command soukd runs the Souk marketplace server and provides publisher
// utilities for the gated write endpoints.
package main

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tfkr-ae/souk"
	"github.com/tfkr-ae/souk/assets"
	"github.com/tfkr-ae/souk/client"
	"github.com/tfkr-ae/souk/db"
	"github.com/tfkr-ae/souk/domain"
	"github.com/tfkr-ae/souk/server"
	"go.uber.org/zap"
)

var (
	configDir string

	serverURL string
	psk       string

	publishRepoURL string
	publishName    string
)

var rootCmd = &cobra.Command{
	Use:   "soukd",
	Short: "Souk package marketplace",
	Long: `soukd - package marketplace for the browser extension platform

Serves the catalog API and asset delivery, and provides publisher
commands for creating packages and uploading their assets.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the marketplace HTTP server",
	RunE:  runServe,
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Create a package from a GitHub release manifest",
	Long: `Fetch the latest release of a package repository, read its souk.yaml
manifest and create the catalog record through the write API.`,
	RunE: runPublish,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <package> <file>...",
	Short: "Upload asset files into an existing package",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runUpload,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default is $XDG_CONFIG_HOME/souk)")

	publishCmd.Flags().StringVar(&publishRepoURL, "repo", "", "GitHub repository URL of the package")
	publishCmd.Flags().StringVar(&publishName, "name", "", "package identifier (defaults to a generated UUID)")
	publishCmd.MarkFlagRequired("repo")

	for _, cmd := range []*cobra.Command{publishCmd, uploadCmd} {
		cmd.Flags().StringVar(&serverURL, "server", "http://127.0.0.1:8787", "marketplace base URL")
		cmd.Flags().StringVar(&psk, "psk", "", "pre-shared key for the write endpoints")
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(uploadCmd)
}

func defaultConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir : %w", err)
	}
	return path.Join(userConfigDir, "souk"), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	dir, err := defaultConfigDir()
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger : %w", err)
	}
	defer logger.Sync()

	market, err := souk.New(
		souk.WithConfigDir(dir),
		souk.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("creating marketplace : %w", err)
	}

	dbConn, err := db.New(market.Config.DBFile)
	if err != nil {
		return fmt.Errorf("opening database : %w", err)
	}
	repo := db.NewMarketRepo(dbConn)

	store, err := assets.NewStore(market.Config.AssetsDir)
	if err != nil {
		return fmt.Errorf("creating asset store : %w", err)
	}

	if err := market.WithOptions(souk.WithRepo(repo), souk.WithAssets(store)); err != nil {
		return err
	}
	defer market.Repo.Close()

	return server.New(market).Run()
}

func runPublish(cmd *cobra.Command, args []string) error {
	_, manifest, err := souk.GetLatestRelease(publishRepoURL)
	if err != nil {
		return fmt.Errorf("fetching release : %w", err)
	}

	name := publishName
	if name == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generating package id : %w", err)
		}
		name = id.String()
	}

	pkg := manifest.ToPackage(name)
	if !pkg.Type.Valid() {
		return fmt.Errorf("manifest declares unknown type %q : %w", manifest.Type, domain.ErrInvalidPackage)
	}

	api := client.New(serverURL)
	if err := api.CreatePackage(context.Background(), psk, pkg); err != nil {
		return err
	}

	fmt.Printf("published %s as %s\n", manifest.Title, name)
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	packageName := args[0]
	api := client.New(serverURL)

	for _, file := range args[1:] {
		if err := api.UploadAsset(context.Background(), psk, packageName, file); err != nil {
			return err
		}
		fmt.Printf("uploaded %s to %s\n", file, packageName)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
