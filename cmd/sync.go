package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dt-pm-tools/sheet-sync/internal/mapper"
	"github.com/dt-pm-tools/sheet-sync/internal/remote"
	"github.com/dt-pm-tools/sheet-sync/internal/runner"
	"github.com/dt-pm-tools/sheet-sync/internal/sheet"
	"golang.org/x/term"
)

// Shared plumbing for the import, export and clear commands.

var (
	syncWorkbook string
	syncProject  int
)

var artifactNames = map[string]remote.ArtifactType{
	"requirements": remote.ArtifactRequirement,
	"releases":     remote.ArtifactRelease,
	"testcases":    remote.ArtifactTestCase,
	"testsets":     remote.ArtifactTestSet,
	"testruns":     remote.ArtifactTestRun,
	"incidents":    remote.ArtifactIncident,
	"tasks":        remote.ArtifactTask,
	"customvalues": remote.ArtifactCustomListValue,
}

func parseArtifact(arg string) (remote.ArtifactType, error) {
	artifact, ok := artifactNames[strings.ToLower(arg)]
	if !ok {
		known := make([]string, 0, len(artifactNames))
		for name := range artifactNames {
			known = append(known, name)
		}
		return "", fmt.Errorf("unknown artifact type %q (one of: %s)", arg, strings.Join(known, ", "))
	}
	return artifact, nil
}

// promptPassword asks for the password when the config does not carry
// one (the default: passwords are not remembered).
func promptPassword() error {
	if appConfig.Password != "" {
		return nil
	}
	fmt.Printf("Password for %s (input hidden): ", appConfig.Username)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	appConfig.Password = strings.TrimSpace(string(passwordBytes))
	return nil
}

// runOperation wires up the session and workbook, then hands the
// operation to the background runner: progress is printed as it
// arrives, Ctrl-C aborts cooperatively, and the workbook is saved even
// when rows failed so the error column survives.
func runOperation(fn func(ctx context.Context, im *mapper.Importer) error) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if err := promptPassword(); err != nil {
		return err
	}
	project := syncProject
	if project == 0 {
		project = appConfig.Project
	}
	if project == 0 {
		return fmt.Errorf("no project selected (use --project or set a default with 'sheet-sync config')")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := remote.NewClient(appConfig.URL)
	if err := client.Authenticate(ctx, appConfig.Username, appConfig.Password); err != nil {
		return err
	}
	defer client.Disconnect(context.Background())
	if err := client.ConnectProject(ctx, project); err != nil {
		return err
	}

	book, err := sheet.OpenWorkbook(syncWorkbook)
	if err != nil {
		return fmt.Errorf("opening workbook: %w", err)
	}

	im := mapper.New(client, book, mapper.Options{
		StripRichText: appConfig.StripRichText,
		RunDate:       appConfig.RunDate(),
		RunnerName:    appConfig.Username,
	})

	run := runner.New()
	handle, err := run.Run(ctx, syncWorkbook, func(ctx context.Context, progress func(stage string, current, max int)) error {
		im.OnProgress(progress)
		opErr := fn(ctx, im)
		if saveErr := book.Save(); saveErr != nil && opErr == nil {
			opErr = fmt.Errorf("saving workbook: %w", saveErr)
		}
		return opErr
	})
	if err != nil {
		return err
	}

	for ev := range handle.Progress {
		if ev.Max > 0 {
			fmt.Fprintf(os.Stderr, "\r%s: %d/%d", ev.Stage, ev.Current, ev.Max)
		} else {
			fmt.Fprintf(os.Stderr, "\r%s: %d", ev.Stage, ev.Current)
		}
	}
	fmt.Fprintln(os.Stderr)

	result := <-handle.Done
	switch result.State {
	case runner.Completed:
		fmt.Fprintln(os.Stderr, "Done.")
		return nil
	case runner.Aborted:
		fmt.Fprintln(os.Stderr, "Aborted.")
		return result.Err
	default:
		return result.Err
	}
}
