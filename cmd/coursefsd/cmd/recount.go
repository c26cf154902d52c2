package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/teachstack/coursefs/pkg/browser"
	"github.com/teachstack/coursefs/pkg/cfsdb"
	"github.com/teachstack/coursefs/pkg/cfsdb/stor"
	"github.com/teachstack/coursefs/pkg/config"
	"github.com/teachstack/coursefs/pkg/zone/zonepath"
)

// recountCmd walks every zone tree on disk and refreshes the stored quota
// snapshots. Meant for cron or for recovery after out-of-band filesystem
// changes.
var recountCmd = &cobra.Command{
	Use:   "recount",
	Short: "Re-measure every zone tree and refresh stored usage snapshots",
	Run: func(cmd *cobra.Command, args []string) {
		db := cfsdb.MustConnectToDB()
		if err := cfsdb.RunMigrations(db); err != nil {
			log.Fatalf("Migrating database failed: %s", err)
		}

		c := config.MustLoadFromDotenv()
		cfsDir := c.MustGetKey("CFS_DIR")

		stors := stor.NewGormStors(db, browser.LogSink{})

		b := browser.New(browser.Opts{
			Stors:    stors,
			Resolver: zonepath.NewResolver(cfsDir, stors.AssignmentStor),
		})

		count, err := b.RecountZones(cfsDir)
		if err != nil {
			log.Fatalf("Recount failed after %d zones: %s", count, err)
		}

		log.Infof("Recounted %d zones", count)
	},
}

func init() {
	rootCmd.AddCommand(recountCmd)
}
