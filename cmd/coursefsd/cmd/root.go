/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/teachstack/coursefs/pkg/browser"
	"github.com/teachstack/coursefs/pkg/cfsdb"
	"github.com/teachstack/coursefs/pkg/cfsdb/stor"
	"github.com/teachstack/coursefs/pkg/config"
	"github.com/teachstack/coursefs/pkg/webapi"
	"github.com/teachstack/coursefs/pkg/webapi/apimiddleware"
	"github.com/teachstack/coursefs/pkg/zone/zonepath"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coursefsd",
	Short: "Run the coursefs API server",
	Long:  ``,
	// Uncomment the following line if your bare application
	// has an action associated with it:
	Run: func(cmd *cobra.Command, args []string) {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())
		e.Validator = webapi.NewRequestValidator()

		db := cfsdb.MustConnectToDB()
		if err := cfsdb.RunMigrations(db); err != nil {
			log.Fatalf("Migrating database failed: %s", err)
		}

		c := config.MustLoadFromDotenv()
		cfsDir := c.MustGetKey("CFS_DIR")
		log.Infof("CFS Dir: %s", cfsDir)

		stors := stor.NewGormStors(db, browser.LogSink{})
		resolver := zonepath.NewResolver(cfsDir, stors.AssignmentStor)

		b := browser.New(browser.Opts{
			Stors:        stors,
			Resolver:     resolver,
			ClipboardTTL: time.Duration(c.GetIntKeyWithDefault("CFS_CLIPBOARD_TTL_HOURS", 24)) * time.Hour,
			ExpandedTTL:  time.Duration(c.GetIntKeyWithDefault("CFS_EXPANDED_TTL_DAYS", 7)) * 24 * time.Hour,
		})

		e.Use(apimiddleware.APIKeyAuth(apimiddleware.APIKeyConfig{
			Skipper:         middleware.DefaultSkipper,
			Keyname:         "apikey",
			GetUserByAPIKey: stors.UserStor.GetUserByAPIToken,
		}))

		setupRoutes(e, RouteOpts{
			browser: b,
			stors:   stors,
		})

		if err := e.Start(":" + c.GetKeyWithDefault("CFS_PORT", "1452")); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.

	// rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.coursefsd.yaml)")
}
