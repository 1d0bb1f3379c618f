package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/autinyork/LowBorn/internal/ops"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backup":
		if err := cmdBackup(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "backup failed:", err)
			os.Exit(1)
		}
	case "restore":
		if err := cmdRestore(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "restore failed:", err)
			os.Exit(1)
		}
	case "drill":
		if err := cmdDrill(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "drill failed:", err)
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(2)
	}
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	db := fs.String("db", "lowborn.db", "path to the save database")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "lowborn-"+ts+".tar.gz")
	}

	if err := ops.BackupSaves(*db, *out); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	db := fs.String("db", "lowborn-restored.db", "restore target database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	return ops.RestoreSaves(*archive, *db)
}

// cmdDrill exercises a full backup/restore cycle against a scratch directory
// and verifies the restored database matches the source byte for byte.
func cmdDrill(args []string) error {
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	db := fs.String("db", "lowborn.db", "path to the save database")
	workDir := fs.String("work-dir", os.TempDir(), "temporary workspace for drill artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(*workDir, 0o755); err != nil {
		return err
	}
	ts := time.Now().UTC().Format("20060102T150405Z")
	archive := filepath.Join(*workDir, "lowborn-drill-"+ts+".tar.gz")
	restored := filepath.Join(*workDir, "lowborn-drill-restore-"+ts, filepath.Base(*db))

	if err := ops.BackupSaves(*db, archive); err != nil {
		return err
	}
	if err := ops.RestoreSaves(archive, restored); err != nil {
		return err
	}

	srcDigest, err := fileDigest(*db)
	if err != nil {
		return err
	}
	restoredDigest, err := fileDigest(restored)
	if err != nil {
		return err
	}
	if srcDigest != restoredDigest {
		return fmt.Errorf("digest mismatch after restore: src=%s restored=%s", srcDigest, restoredDigest)
	}

	fmt.Println("backup:", archive)
	fmt.Println("restored:", restored)
	fmt.Println("digest:", srcDigest)
	return nil
}

func fileDigest(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  lowborn-ops backup  --db lowborn.db --out backups/backup.tar.gz")
	fmt.Println("  lowborn-ops restore --archive backups/backup.tar.gz --db lowborn-restored.db")
	fmt.Println("  lowborn-ops drill   --db lowborn.db --work-dir /tmp")
}
