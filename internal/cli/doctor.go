package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/oneword/internal/backup"
	"github.com/julianstephens/oneword/internal/clock"
	"github.com/julianstephens/oneword/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n   Error: %v\n", err)
		fmt.Println("\nDiagnostics aborted.")
		return fmt.Errorf("doctor found problems")
	}
	fmt.Printf("✓ Storage reachable: OK\n")

	if sqlite, ok := ctx.Store.(*storage.SQLiteStore); ok {
		if err := sqlite.ValidateSchemaVersion(); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}

		mgr := backup.NewManager(ctx.Store.GetConfigPath())
		if backups, err := mgr.ListBackups(); err != nil || len(backups) == 0 {
			fmt.Printf("⚠ Backups present: WARNING\n   No backups found; run 'oneword backup create'\n")
		} else {
			fmt.Printf("✓ Backups present: OK (%d)\n", len(backups))
		}
	}

	me, err := ctx.Me()
	if err != nil {
		fmt.Printf("❌ Identity configured: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Identity configured: OK (%s)\n", me.Name)

		if _, err := clock.DayKey(me.Zone(), time.Now()); err != nil {
			fmt.Printf("❌ Timezone: FAIL\n   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Timezone: OK (%s)\n", me.Zone())
		}

		last, err := ctx.Store.GetLastProcessedDay(me.ID)
		switch {
		case err != nil:
			fmt.Printf("❌ Rollover marker: FAIL\n   Error: %v\n", err)
			hasError = true
		case last == "":
			fmt.Printf("⚠ Rollover marker: WARNING\n   Never processed; run 'oneword rollover'\n")
		default:
			fmt.Printf("✓ Rollover marker: OK (processed through %s)\n", last)
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics found problems.")
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("All diagnostics passed.")
	return nil
}
