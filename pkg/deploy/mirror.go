// Package deploy mirrors authored content folders from the source
// repository into a running game instance directory for iterative
// development. Only files under the mirrored roots are ever touched.
package deploy

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/timeglass/tfoods/internal/logging"
)

// Report summarizes one mirror run.
type Report struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	Copied      int       `json:"copied"`
	Skipped     int       `json:"skipped"` // already up to date
	Deleted     int       `json:"deleted"` // stale files under mirrored roots
	DryRun      bool      `json:"dry_run"`
	FolderCount int       `json:"folder_count"`
}

// Options configures a mirror run.
type Options struct {
	// SourceDir is the content repository root.
	SourceDir string
	// TargetDir is the game instance root.
	TargetDir string
	// Folders are the relative content folders to mirror (for example
	// "kubejs/server_scripts", "registry").
	Folders []string
	// DryRun reports what would change without writing.
	DryRun bool
}

// Mirror synchronizes every configured folder from source to target:
// new and changed files are copied, files that no longer exist in the
// source are deleted from the target. Nothing outside the mirrored roots
// is written or removed.
func Mirror(opts Options, log *zap.SugaredLogger) (Report, error) {
	if log == nil {
		log = logging.Nop()
	}
	report := Report{
		RunID:       uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		DryRun:      opts.DryRun,
		FolderCount: len(opts.Folders),
	}

	for _, folder := range opts.Folders {
		srcRoot := filepath.Join(opts.SourceDir, folder)
		dstRoot := filepath.Join(opts.TargetDir, folder)

		if _, err := os.Stat(srcRoot); err != nil {
			return report, fmt.Errorf("source folder %s: %w", folder, err)
		}

		if err := mirrorFolder(srcRoot, dstRoot, opts.DryRun, &report, log); err != nil {
			return report, fmt.Errorf("mirror %s: %w", folder, err)
		}
	}

	log.Infow("mirror complete",
		"run_id", report.RunID,
		"copied", report.Copied,
		"skipped", report.Skipped,
		"deleted", report.Deleted,
		"dry_run", report.DryRun)
	return report, nil
}

func mirrorFolder(srcRoot, dstRoot string, dryRun bool, report *Report, log *zap.SugaredLogger) error {
	// Pass 1: copy new/changed files.
	err := filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstRoot, rel)

		same, err := upToDate(path, dst)
		if err != nil {
			return err
		}
		if same {
			report.Skipped++
			return nil
		}

		report.Copied++
		if dryRun {
			log.Debugw("would copy", "file", rel)
			return nil
		}
		return copyFile(path, dst)
	})
	if err != nil {
		return err
	}

	// Pass 2: delete files under the target root with no source
	// counterpart.
	if _, err := os.Stat(dstRoot); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(dstRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dstRoot, path)
		if err != nil {
			return err
		}
		if _, err := os.Stat(filepath.Join(srcRoot, rel)); err == nil {
			return nil
		}

		report.Deleted++
		if dryRun {
			log.Debugw("would delete", "file", rel)
			return nil
		}
		return os.Remove(path)
	})
}

// upToDate compares size and mtime; content hashing is not worth the read
// for interactive deploys.
func upToDate(src, dst string) (bool, error) {
	si, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	di, err := os.Stat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return si.Size() == di.Size() && !si.ModTime().After(di.ModTime()), nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
