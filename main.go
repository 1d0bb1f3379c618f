package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/autinyork/LowBorn/internal/config"
	"github.com/autinyork/LowBorn/internal/engine"
	"github.com/autinyork/LowBorn/internal/savestore"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "play":
		err = cmdPlay(os.Args[2:])
	case "simulate":
		err = cmdSimulate(os.Args[2:])
	case "slots":
		err = cmdSlots(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, os.Args[1]+" failed:", err)
		os.Exit(1)
	}
}

func buildEngine(cfg config.Env) (*engine.Engine, error) {
	balance, err := cfg.Balance()
	if err != nil {
		return nil, err
	}
	return engine.New(nil, balance)
}

// cmdPlay auto-plays one full week for the seed and prints the run journal.
// The finished run is stored in a save slot for later inspection.
func cmdPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	seedFlag := fs.String("seed", "", "run seed (defaults to LOWBORN_SEED)")
	slot := fs.String("slot", "latest", "save slot to store the finished run in")
	noSave := fs.Bool("no-save", false, "skip writing the run to the save database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	e, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	seed := *seedFlag
	if strings.TrimSpace(seed) == "" {
		seed = cfg.Seed
	}

	state := e.PlayOut(e.NewRun(seed))
	fmt.Println(engine.ShareableRunText(state))

	if *noSave {
		return nil
	}
	store, err := savestore.Open(cfg.SaveDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveRun(context.Background(), *slot, state, time.Now())
}

// cmdSimulate plays a batch of derived seeds and prints the aggregate
// balance report.
func cmdSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	seedFlag := fs.String("seed", "", "base seed (defaults to LOWBORN_SEED)")
	runs := fs.Int("runs", 0, "number of runs (defaults to LOWBORN_BATCH_RUNS)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	e, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	seed := *seedFlag
	if strings.TrimSpace(seed) == "" {
		seed = cfg.Seed
	}
	n := *runs
	if n <= 0 {
		n = cfg.BatchRuns
	}

	report, err := e.RunBatch(context.Background(), seed, n)
	if err != nil {
		return err
	}

	fmt.Printf("Simulated %d run(s) from seed %q\n", report.Runs, engine.NormalizeSeed(seed))
	fmt.Printf("Average nights survived: %.2f/7\n", report.AverageNightsSurvived)
	fmt.Printf("Average end morale:      %.2f\n", report.AverageEndMorale)
	fmt.Printf("Average end rumor:       %.2f\n", report.AverageRumor)
	causes := make([]string, 0, len(report.CollapseCauses))
	for cause := range report.CollapseCauses {
		causes = append(causes, cause)
	}
	sort.Strings(causes)
	fmt.Println("Collapse causes:")
	for _, cause := range causes {
		fmt.Printf("  %dx %s\n", report.CollapseCauses[cause], cause)
	}
	return nil
}

// cmdSlots lists the stored save slots.
func cmdSlots(args []string) error {
	fs := flag.NewFlagSet("slots", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	store, err := savestore.Open(cfg.SaveDB)
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("no saved runs")
		return nil
	}
	for _, info := range infos {
		fmt.Printf("%-16s v%d  saved %s\n", info.Slot, info.Version, info.SavedAt)
	}
	return nil
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  lowborn play     [--seed frost] [--slot latest] [--no-save]")
	fmt.Println("  lowborn simulate [--seed frost] [--runs 25]")
	fmt.Println("  lowborn slots")
	fmt.Println()
	fmt.Println("environment: LOWBORN_SEED, LOWBORN_DIFFICULTY, LOWBORN_BALANCE_FILE,")
	fmt.Println("             LOWBORN_SAVE_DB, LOWBORN_BATCH_RUNS")
}
